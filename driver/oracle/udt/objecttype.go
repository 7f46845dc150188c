/*
 * Copyright (C) 2016-2018. ActionTech.
 * Based on: github.com/hashicorp/nomad, github.com/github/gh-ost .
 * License: MPL version 2: https://www.mozilla.org/en-US/MPL/2.0 .
 */

package udt

import (
	"github.com/actiontech/udt/driver/oracle/oci"
	"github.com/actiontech/udt/g"
	metrics "github.com/armon/go-metrics"
	hclog "github.com/hashicorp/go-hclog"
)

// ObjectType is a described object or collection type.
type ObjectType struct {
	genBase
	conn *Conn
	tdo  oci.TDO

	schema          string
	name            string
	typeCode        oci.TypeCode
	isCollection    bool
	elementTypeInfo *DataTypeInfo
	numAttributes   uint16
}

// ObjectTypeInfo is returned by ObjectType.Info.
type ObjectTypeInfo struct {
	Schema       string
	Name         string
	IsCollection bool
	// ElementTypeInfo is nil unless IsCollection. A nested ObjectType in it is
	// borrowed from the described type; AddRef it to keep it past Release.
	ElementTypeInfo *DataTypeInfo
	NumAttributes   uint16
}

// newObjectType allocates an ObjectType for the type described by param. The
// type name is read with nameAttr, which differs between a describe by name
// and an attribute or element descriptor.
func newObjectType(conn *Conn, param oci.Param, nameAttr oci.Attr) (*ObjectType, error) {
	t := &ObjectType{}
	allocate(t, handleObjectType)
	if err := setRefCount(conn, 1); err != nil {
		discard(t)
		return nil, err
	}
	t.conn = conn

	if err := t.init(param, nameAttr); err != nil {
		discard(t)
		return nil, err
	}
	return t, nil
}

func (t *ObjectType) init(param oci.Param, nameAttr oci.Attr) error {
	ops := t.conn.ops
	var err error

	if t.schema, err = getAttrString(ops, param, oci.AttrSchemaName, "get schema"); err != nil {
		return err
	}
	if t.name, err = getAttrString(ops, param, nameAttr, "get name"); err != nil {
		return err
	}

	ref, err := getAttrDesc(ops, param, oci.AttrRefTDO, "get TDO reference")
	if err != nil {
		return err
	}
	tdo, err := ops.ObjectPin(ref)
	if err != nil {
		return ociError("pin TDO", err)
	}
	t.tdo = tdo

	h, err := ops.HandleAlloc()
	if err != nil {
		return ociError("allocate describe handle", err)
	}
	defer ops.HandleFree(h)

	return t.describe(h)
}

// describe runs a fresh describe against the pinned TDO. The parameter the
// type was found through is not enough to resolve nested element types.
// Type hierarchies reached through collection elements are acyclic.
func (t *ObjectType) describe(h oci.DescribeHandle) error {
	ops := t.conn.ops
	metrics.IncrCounter([]string{"udt", "describe"}, 1)

	if err := ops.DescribeAny(h, t.tdo, oci.ObjectKindPtr); err != nil {
		return ociError("describe type", err)
	}
	param, err := getAttrDesc(ops, h, oci.AttrParam, "get top level parameter")
	if err != nil {
		return err
	}
	if t.typeCode, err = getAttrTypeCode(ops, param, "get type code"); err != nil {
		return err
	}
	if t.numAttributes, err = getAttrUint16(ops, param, oci.AttrNumTypeAttrs, "get number of attributes"); err != nil {
		return err
	}

	if t.typeCode == oci.TypeCodeNamedCollection {
		t.isCollection = true
		elemParam, err := getAttrDesc(ops, param, oci.AttrCollectionElement, "get collection descriptor")
		if err != nil {
			return err
		}
		info, err := populateTypeInfo(t.conn, elemParam)
		if err != nil {
			return err
		}
		t.elementTypeInfo = &info
	}
	return nil
}

func (t *ObjectType) gen() *genBase {
	if t == nil {
		return nil
	}
	return &t.genBase
}

func (t *ObjectType) free() {
	logger := t.log()
	if t.conn != nil {
		if t.tdo != nil {
			if err := t.conn.ops.ObjectUnpin(t.tdo); err != nil {
				t.conn.logger.Warn("unpin TDO failed", "type", t.FullName(), "err", err)
			}
			t.tdo = nil
		}
		dropRef(logger, t.conn, handleObjectType)
		t.conn = nil
	}
	if t.elementTypeInfo != nil && t.elementTypeInfo.ObjectType != nil {
		dropRef(logger, t.elementTypeInfo.ObjectType, handleObjectType)
		t.elementTypeInfo.ObjectType = nil
	}
	t.schema = ""
	t.name = ""
}

func (t *ObjectType) log() hclog.Logger {
	if t != nil && t.conn != nil {
		return t.conn.logger
	}
	return g.Logger
}

func (t *ObjectType) AddRef() error {
	return addRef(t, handleObjectType, "ObjectType.AddRef")
}

func (t *ObjectType) Release() error {
	return release(t, handleObjectType, "ObjectType.Release")
}

// CreateObject creates a new instance of the type with its null indicator
// structure in place. The caller owns the returned reference.
func (t *ObjectType) CreateObject() (*Object, error) {
	if err := startPublicFn(t, handleObjectType, "ObjectType.CreateObject"); err != nil {
		return nil, err
	}
	obj, err := newObject(t, nil, nil, false)
	if err != nil {
		return nil, err
	}

	ops := t.conn.ops
	inst, err := ops.ObjectNew(t.tdo)
	if err != nil {
		setRefCount(obj, -1)
		return nil, ociError("create object", err)
	}
	obj.instance = inst
	obj.freeInstance = true

	ind, err := ops.ObjectGetInd(inst)
	if err != nil {
		setRefCount(obj, -1)
		return nil, ociError("get indicator structure", err)
	}
	obj.indicator = ind
	return obj, nil
}

// GetAttributes fills attrs with one new ObjectAttr per attribute of the
// type, in declared order. len(attrs) must be at least the number of
// attributes. On error attrs may be partially filled; attributes already
// stored are owned by the caller.
func (t *ObjectType) GetAttributes(attrs []*ObjectAttr) error {
	if err := startPublicFn(t, handleObjectType, "ObjectType.GetAttributes"); err != nil {
		return err
	}
	if len(attrs) < int(t.numAttributes) {
		return newError("get attributes", ErrCodeArraySizeTooSmall, len(attrs))
	}
	if t.numAttributes == 0 {
		return nil
	}

	ops := t.conn.ops
	h, err := ops.HandleAlloc()
	if err != nil {
		return ociError("allocate describe handle", err)
	}
	defer ops.HandleFree(h)

	metrics.IncrCounter([]string{"udt", "describe"}, 1)
	if err := ops.DescribeAny(h, t.tdo, oci.ObjectKindPtr); err != nil {
		return ociError("describe type", err)
	}
	topLevel, err := getAttrDesc(ops, h, oci.AttrParam, "get top level param")
	if err != nil {
		return err
	}
	list, err := getAttrDesc(ops, topLevel, oci.AttrListTypeAttrs, "get attr list param")
	if err != nil {
		return err
	}

	for i := 0; i < int(t.numAttributes); i++ {
		param, err := ops.ParamGet(list, uint32(i)+1)
		if err != nil {
			return ociError("get attribute param", err)
		}
		attrs[i], err = newObjectAttr(t, param)
		if err != nil {
			return err
		}
	}
	return nil
}

// Info returns a copy of the described fields of the type.
func (t *ObjectType) Info() (ObjectTypeInfo, error) {
	if err := startPublicFn(t, handleObjectType, "ObjectType.Info"); err != nil {
		return ObjectTypeInfo{}, err
	}
	info := ObjectTypeInfo{
		Schema:        t.schema,
		Name:          t.name,
		IsCollection:  t.isCollection,
		NumAttributes: t.numAttributes,
	}
	if t.elementTypeInfo != nil {
		elem := *t.elementTypeInfo
		info.ElementTypeInfo = &elem
	}
	return info, nil
}

func (t *ObjectType) FullName() string {
	if t.schema == "" {
		return t.name
	}
	return t.schema + "." + t.name
}

func (t *ObjectType) String() string {
	return t.FullName()
}
