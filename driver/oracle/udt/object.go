package udt

import (
	"github.com/actiontech/udt/driver/oracle/oci"
)

// Object is an instance of an object type.
type Object struct {
	genBase
	typ          *ObjectType
	instance     oci.Instance
	indicator    oci.Indicator
	freeInstance bool
}

func newObject(t *ObjectType, instance oci.Instance, indicator oci.Indicator, freeInstance bool) (*Object, error) {
	o := &Object{}
	allocate(o, handleObject)
	if err := setRefCount(t, 1); err != nil {
		discard(o)
		return nil, err
	}
	o.typ = t
	o.instance = instance
	o.indicator = indicator
	o.freeInstance = freeInstance
	return o, nil
}

func (o *Object) gen() *genBase {
	if o == nil {
		return nil
	}
	return &o.genBase
}

func (o *Object) free() {
	if o.typ != nil {
		if o.instance != nil && o.freeInstance {
			if err := o.typ.conn.ops.ObjectFree(o.instance); err != nil {
				o.typ.conn.logger.Warn("free object instance failed", "type", o.typ.FullName(), "err", err)
			}
		}
		o.instance = nil
		o.indicator = nil
		dropRef(o.typ.log(), o.typ, handleObject)
		o.typ = nil
	}
}

func (o *Object) AddRef() error {
	return addRef(o, handleObject, "Object.AddRef")
}

func (o *Object) Release() error {
	return release(o, handleObject, "Object.Release")
}

// Type returns the type of the object. The reference is borrowed.
func (o *Object) Type() (*ObjectType, error) {
	if err := startPublicFn(o, handleObject, "Object.Type"); err != nil {
		return nil, err
	}
	return o.typ, nil
}

// Indicator returns the null indicator structure of the instance.
func (o *Object) Indicator() (oci.Indicator, error) {
	if err := startPublicFn(o, handleObject, "Object.Indicator"); err != nil {
		return nil, err
	}
	return o.indicator, nil
}
