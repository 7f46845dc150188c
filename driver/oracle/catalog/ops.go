package catalog

import (
	"fmt"
	"sync/atomic"

	"github.com/actiontech/udt/driver/oracle/oci"
	"github.com/actiontech/udt/g"
	metrics "github.com/armon/go-metrics"
)

var _ oci.Ops = (*Catalog)(nil)

// Null indicator values.
const (
	IndNotNull int16 = 0
	IndNull    int16 = -1
)

// Indicator is the null indicator structure of an instance created by the
// catalog. New instances are atomically not null with every attribute null.
type Indicator struct {
	Atomic     int16
	Attributes []int16
}

type describeHandle struct {
	id    uint64
	param *typeParam
}

type typeParam struct {
	entry *typeEntry
}

type attrListParam struct {
	owner *TypeDef
}

type attrParam struct {
	owner *TypeDef
	def   *AttrDef
}

type tdoRef struct {
	key string
}

type tdo struct {
	key    string
	pinned int32
}

type instance struct {
	id      uint64
	typeKey string
	ind     *Indicator
}

func (c *Catalog) HandleAlloc() (oci.DescribeHandle, error) {
	h := &describeHandle{id: c.newID()}
	txn := c.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableHandles, &handleEntry{ID: h.id}); err != nil {
		return nil, fmt.Errorf("handle insert failed: %v", err)
	}
	txn.Commit()
	return h, nil
}

func (c *Catalog) HandleFree(h oci.DescribeHandle) {
	dh, ok := h.(*describeHandle)
	if !ok {
		c.logger.Warn("free of a foreign describe handle", "handle", fmt.Sprintf("%T", h))
		return
	}
	txn := c.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(tableHandles, "id", dh.id)
	if err != nil || raw == nil {
		c.logger.Warn("free of an unknown describe handle", "id", dh.id)
		return
	}
	if err := txn.Delete(tableHandles, raw); err != nil {
		c.logger.Warn("handle delete failed", "id", dh.id, "err", err)
		return
	}
	txn.Commit()
	dh.param = nil
}

func (c *Catalog) liveHandle(h interface{}) (*describeHandle, error) {
	dh, ok := h.(*describeHandle)
	if !ok || dh == nil {
		return nil, oci.NewError(oci.ErrInvalidMemoryAddress, "argument is expecting a valid describe handle")
	}
	raw, err := c.db.Txn(false).First(tableHandles, "id", dh.id)
	if err != nil {
		return nil, fmt.Errorf("handle lookup failed: %v", err)
	}
	if raw == nil {
		return nil, oci.NewError(oci.ErrInvalidMemoryAddress, "describe handle %d was freed", dh.id)
	}
	return dh, nil
}

func (c *Catalog) DescribeAny(h oci.DescribeHandle, target interface{}, kind oci.ObjectKind) error {
	dh, err := c.liveHandle(h)
	if err != nil {
		return err
	}
	metrics.IncrCounter([]string{"catalog", "describe"}, 1)

	var entry *typeEntry
	switch kind {
	case oci.ObjectKindName:
		name, ok := target.(string)
		if !ok {
			return oci.NewError(oci.ErrIllegalAttributeValue, "illegal attribute value: expected a type name, got %T", target)
		}
		schema, typeName := g.SplitQualifiedName(name)
		if entry, err = c.lookupEntry(schema, typeName); err != nil {
			return err
		}
	case oci.ObjectKindPtr:
		t, ok := target.(*tdo)
		if !ok || t == nil || atomic.LoadInt32(&t.pinned) == 0 {
			return oci.NewError(oci.ErrInvalidMemoryAddress, "argument is expecting a pinned TDO")
		}
		raw, err := c.db.Txn(false).First(tableTypes, "id", t.key)
		if err != nil {
			return fmt.Errorf("type lookup failed: %v", err)
		}
		if raw == nil {
			return oci.NewError(oci.ErrObjectNotExist, "object %s does not exist", t.key)
		}
		entry = raw.(*typeEntry)
	default:
		return oci.NewError(oci.ErrIllegalAttributeValue, "illegal attribute value: object kind %d", kind)
	}

	dh.param = &typeParam{entry: entry}
	return nil
}

func (c *Catalog) AttrGet(desc interface{}, attr oci.Attr) (interface{}, error) {
	switch d := desc.(type) {
	case *describeHandle:
		dh, err := c.liveHandle(d)
		if err != nil {
			return nil, err
		}
		if attr != oci.AttrParam {
			return nil, illegalAttr(attr, "describe handle")
		}
		if dh.param == nil {
			return nil, oci.NewError(oci.ErrIllegalAttributeValue, "describe handle %d has not been described", dh.id)
		}
		return oci.Param(dh.param), nil
	case *typeParam:
		return c.typeAttr(d, attr)
	case *attrParam:
		return c.attributeAttr(d, attr)
	case *attrListParam:
		return nil, illegalAttr(attr, "attribute list")
	}
	return nil, oci.NewError(oci.ErrInvalidMemoryAddress, "argument is expecting a valid descriptor, got %T", desc)
}

func illegalAttr(attr oci.Attr, what string) error {
	return oci.NewError(oci.ErrIllegalAttributeType, "illegal attribute type %s for %s", attr, what)
}

func (c *Catalog) typeAttr(p *typeParam, attr oci.Attr) (interface{}, error) {
	def := p.entry.Def
	switch attr {
	case oci.AttrSchemaName:
		return def.Schema, nil
	case oci.AttrName, oci.AttrTypeName:
		return def.Name, nil
	case oci.AttrTypeCode:
		return def.typeCode(), nil
	case oci.AttrNumTypeAttrs:
		return uint16(len(def.Attributes)), nil
	case oci.AttrListTypeAttrs:
		return oci.Param(&attrListParam{owner: def}), nil
	case oci.AttrCollectionElement:
		if !def.IsCollection() {
			return nil, oci.NewError(oci.ErrIllegalAttributeValue, "type %s is not a collection", def.Key())
		}
		return oci.Param(&attrParam{owner: def, def: def.Element}), nil
	case oci.AttrRefTDO:
		return oci.Ref(&tdoRef{key: p.entry.Key}), nil
	}
	return nil, illegalAttr(attr, "type "+def.Key())
}

func (c *Catalog) attributeAttr(p *attrParam, attr oci.Attr) (interface{}, error) {
	a := p.def
	dt, ok := a.dataType()
	if !ok {
		return nil, oci.NewError(oci.ErrIllegalAttributeValue, "unknown data type %q", a.DataType)
	}
	switch attr {
	case oci.AttrName:
		return a.Name, nil
	case oci.AttrDataType:
		if a.isObject() {
			ref, err := c.referenced(p)
			if err != nil {
				return nil, err
			}
			return uint16(ref.Def.typeCode()), nil
		}
		return dt.code, nil
	case oci.AttrCharsetForm:
		return a.charsetForm(), nil
	case oci.AttrPrecision:
		return int16(a.precision()), nil
	case oci.AttrScale:
		return int8(a.scale()), nil
	case oci.AttrDataSize:
		return uint16(a.Size), nil
	case oci.AttrCharSize:
		return uint16(a.charSize()), nil
	case oci.AttrSchemaName, oci.AttrTypeName, oci.AttrRefTDO:
		if !a.isObject() {
			if attr == oci.AttrRefTDO {
				return nil, oci.NewError(oci.ErrIllegalAttributeValue, "attribute %s is not an object", a.Name)
			}
			return "", nil
		}
		ref, err := c.referenced(p)
		if err != nil {
			return nil, err
		}
		switch attr {
		case oci.AttrSchemaName:
			return ref.Schema, nil
		case oci.AttrTypeName:
			return ref.Name, nil
		}
		return oci.Ref(&tdoRef{key: ref.Key}), nil
	}
	return nil, illegalAttr(attr, "attribute "+a.Name)
}

// referenced resolves the type of an OBJECT attribute. An unqualified type
// lives in the schema of the owning type.
func (c *Catalog) referenced(p *attrParam) (*typeEntry, error) {
	schema := g.NormalizeName(p.def.TypeSchema)
	if p.def.TypeSchema == "" {
		schema = p.owner.Schema
	}
	return c.lookupEntry(schema, g.NormalizeName(p.def.TypeName))
}

func (c *Catalog) ParamGet(list oci.Param, pos uint32) (oci.Param, error) {
	l, ok := list.(*attrListParam)
	if !ok || l == nil {
		return nil, oci.NewError(oci.ErrInvalidMemoryAddress, "argument is expecting an attribute list, got %T", list)
	}
	if pos < 1 || int(pos) > len(l.owner.Attributes) {
		return nil, oci.NewError(oci.ErrNoDescriptorPosition, "no descriptor for this position: %d", pos)
	}
	return &attrParam{owner: l.owner, def: l.owner.Attributes[pos-1]}, nil
}

func (c *Catalog) ObjectPin(ref oci.Ref) (oci.TDO, error) {
	r, ok := ref.(*tdoRef)
	if !ok || r == nil {
		return nil, oci.NewError(oci.ErrInvalidMemoryAddress, "argument is expecting a TDO reference, got %T", ref)
	}
	if err := c.addPins(r.key, 1); err != nil {
		return nil, err
	}
	return &tdo{key: r.key, pinned: 1}, nil
}

func (c *Catalog) ObjectUnpin(t oci.TDO) error {
	p, ok := t.(*tdo)
	if !ok || p == nil || !atomic.CompareAndSwapInt32(&p.pinned, 1, 0) {
		return oci.NewError(oci.ErrInvalidMemoryAddress, "argument is expecting a pinned TDO")
	}
	return c.addPins(p.key, -1)
}

func (c *Catalog) ObjectNew(t oci.TDO) (oci.Instance, error) {
	p, ok := t.(*tdo)
	if !ok || p == nil || atomic.LoadInt32(&p.pinned) == 0 {
		return nil, oci.NewError(oci.ErrInvalidMemoryAddress, "argument is expecting a pinned TDO")
	}

	txn := c.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(tableTypes, "id", p.key)
	if err != nil {
		return nil, fmt.Errorf("type lookup failed: %v", err)
	}
	if raw == nil {
		return nil, oci.NewError(oci.ErrObjectNotExist, "object %s does not exist", p.key)
	}
	def := raw.(*typeEntry).Def

	inst := &instance{
		id:      c.newID(),
		typeKey: p.key,
		ind: &Indicator{
			Atomic:     IndNotNull,
			Attributes: make([]int16, len(def.Attributes)),
		},
	}
	for i := range inst.ind.Attributes {
		inst.ind.Attributes[i] = IndNull
	}
	if err := txn.Insert(tableInstances, &instanceEntry{ID: inst.id, TypeKey: inst.typeKey}); err != nil {
		return nil, fmt.Errorf("instance insert failed: %v", err)
	}
	txn.Commit()
	return inst, nil
}

func (c *Catalog) liveInstance(i oci.Instance) (*instance, interface{}, error) {
	inst, ok := i.(*instance)
	if !ok || inst == nil {
		return nil, nil, oci.NewError(oci.ErrInvalidMemoryAddress, "argument is expecting an object instance, got %T", i)
	}
	raw, err := c.db.Txn(false).First(tableInstances, "id", inst.id)
	if err != nil {
		return nil, nil, fmt.Errorf("instance lookup failed: %v", err)
	}
	if raw == nil {
		return nil, nil, oci.NewError(oci.ErrInvalidMemoryAddress, "object instance %d was freed", inst.id)
	}
	return inst, raw, nil
}

func (c *Catalog) ObjectGetInd(i oci.Instance) (oci.Indicator, error) {
	inst, _, err := c.liveInstance(i)
	if err != nil {
		return nil, err
	}
	return inst.ind, nil
}

func (c *Catalog) ObjectFree(i oci.Instance) error {
	inst, raw, err := c.liveInstance(i)
	if err != nil {
		return err
	}
	txn := c.db.Txn(true)
	defer txn.Abort()
	if err := txn.Delete(tableInstances, raw); err != nil {
		return fmt.Errorf("instance delete failed: %v", err)
	}
	txn.Commit()
	inst.ind = nil
	return nil
}
