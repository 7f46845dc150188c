package udt

import (
	"github.com/actiontech/udt/driver/oracle/oci"
)

// ObjectAttr is one attribute of an object type.
type ObjectAttr struct {
	genBase
	belongsTo *ObjectType
	name      string
	typeInfo  DataTypeInfo
}

type ObjectAttrInfo struct {
	Name     string
	TypeInfo DataTypeInfo
}

func newObjectAttr(t *ObjectType, param oci.Param) (*ObjectAttr, error) {
	a := &ObjectAttr{}
	allocate(a, handleObjectAttr)
	if err := setRefCount(t, 1); err != nil {
		discard(a)
		return nil, err
	}
	a.belongsTo = t

	var err error
	if a.name, err = getAttrString(t.conn.ops, param, oci.AttrName, "get name"); err != nil {
		discard(a)
		return nil, err
	}
	if a.typeInfo, err = populateTypeInfo(t.conn, param); err != nil {
		discard(a)
		return nil, err
	}
	return a, nil
}

func (a *ObjectAttr) gen() *genBase {
	if a == nil {
		return nil
	}
	return &a.genBase
}

func (a *ObjectAttr) free() {
	logger := a.belongsTo.log()
	if a.belongsTo != nil {
		dropRef(logger, a.belongsTo, handleObjectAttr)
		a.belongsTo = nil
	}
	if a.typeInfo.ObjectType != nil {
		dropRef(logger, a.typeInfo.ObjectType, handleObjectAttr)
		a.typeInfo.ObjectType = nil
	}
	a.name = ""
}

func (a *ObjectAttr) AddRef() error {
	return addRef(a, handleObjectAttr, "ObjectAttr.AddRef")
}

func (a *ObjectAttr) Release() error {
	return release(a, handleObjectAttr, "ObjectAttr.Release")
}

func (a *ObjectAttr) Info() (ObjectAttrInfo, error) {
	if err := startPublicFn(a, handleObjectAttr, "ObjectAttr.Info"); err != nil {
		return ObjectAttrInfo{}, err
	}
	return ObjectAttrInfo{Name: a.name, TypeInfo: a.typeInfo}, nil
}
