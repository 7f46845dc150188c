// Package oci declares the metadata access capability consumed by the udt
// package: describe handles, parameter descriptors, type descriptor objects
// (TDOs) pinned from the object cache, and object instances.
//
// Providers implement Ops. Every value crossing the interface is opaque to
// the caller; only the provider that produced a value may interpret it.
package oci

// DescribeHandle is a scoped describe handle obtained from HandleAlloc.
type DescribeHandle interface{}

// Param is a parameter descriptor read off a describe handle or off another
// parameter (type, attribute list, attribute, collection element).
type Param interface{}

// Ref is a reference to a type descriptor object, read with AttrRefTDO.
type Ref interface{}

// TDO is a type descriptor object pinned in the object cache.
type TDO interface{}

// Instance is the storage of one object instance.
type Instance interface{}

// Indicator is the null indicator structure of an object instance.
type Indicator interface{}

// ObjectKind selects how DescribeAny interprets its target.
type ObjectKind uint8

const (
	// ObjectKindName describes a type by its (optionally schema qualified) name.
	ObjectKindName ObjectKind = 1
	// ObjectKindPtr describes a pinned TDO.
	ObjectKindPtr ObjectKind = 3
)

// Ops is the narrow set of primitives the core needs from a provider.
type Ops interface {
	HandleAlloc() (DescribeHandle, error)
	HandleFree(h DescribeHandle)

	// DescribeAny populates h from target, which is a name (string) for
	// ObjectKindName or a TDO for ObjectKindPtr.
	DescribeAny(h DescribeHandle, target interface{}, kind ObjectKind) error

	// AttrGet reads attr off a describe handle or a parameter descriptor.
	// The dynamic type of the value is fixed per attribute, see Attr.
	AttrGet(desc interface{}, attr Attr) (interface{}, error)

	// ParamGet returns the child descriptor at the 1-based position pos of a
	// list descriptor.
	ParamGet(list Param, pos uint32) (Param, error)

	ObjectPin(ref Ref) (TDO, error)
	ObjectUnpin(tdo TDO) error
	ObjectNew(tdo TDO) (Instance, error)
	ObjectGetInd(inst Instance) (Indicator, error)
	ObjectFree(inst Instance) error
}
