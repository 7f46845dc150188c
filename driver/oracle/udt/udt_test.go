package udt

import (
	"testing"

	"github.com/actiontech/udt/driver/oracle/catalog"
	"github.com/actiontech/udt/driver/oracle/oci"
	hclog "github.com/hashicorp/go-hclog"
)

// faultOps fails the n-th call of a primitive. AttrGet calls are keyed by
// attribute, e.g. "AttrGet:TYPECODE".
type faultOps struct {
	*catalog.Catalog
	failAt   map[string]int
	override map[string]interface{}
	calls    map[string]int
}

func newFaultOps(c *catalog.Catalog) *faultOps {
	return &faultOps{
		Catalog:  c,
		failAt:   map[string]int{},
		override: map[string]interface{}{},
		calls:    map[string]int{},
	}
}

func (f *faultOps) hit(key string) error {
	f.calls[key]++
	if n, ok := f.failAt[key]; ok && f.calls[key] == n {
		return oci.NewError(oci.ErrIllegalAttributeValue, "injected failure at %s", key)
	}
	return nil
}

func (f *faultOps) HandleAlloc() (oci.DescribeHandle, error) {
	if err := f.hit("HandleAlloc"); err != nil {
		return nil, err
	}
	return f.Catalog.HandleAlloc()
}

func (f *faultOps) DescribeAny(h oci.DescribeHandle, target interface{}, kind oci.ObjectKind) error {
	if err := f.hit("DescribeAny"); err != nil {
		return err
	}
	return f.Catalog.DescribeAny(h, target, kind)
}

func (f *faultOps) AttrGet(desc interface{}, attr oci.Attr) (interface{}, error) {
	key := "AttrGet:" + attr.String()
	if err := f.hit(key); err != nil {
		return nil, err
	}
	if v, ok := f.override[key]; ok {
		return v, nil
	}
	return f.Catalog.AttrGet(desc, attr)
}

func (f *faultOps) ParamGet(list oci.Param, pos uint32) (oci.Param, error) {
	if err := f.hit("ParamGet"); err != nil {
		return nil, err
	}
	return f.Catalog.ParamGet(list, pos)
}

func (f *faultOps) ObjectPin(ref oci.Ref) (oci.TDO, error) {
	if err := f.hit("ObjectPin"); err != nil {
		return nil, err
	}
	return f.Catalog.ObjectPin(ref)
}

func (f *faultOps) ObjectNew(tdo oci.TDO) (oci.Instance, error) {
	if err := f.hit("ObjectNew"); err != nil {
		return nil, err
	}
	return f.Catalog.ObjectNew(tdo)
}

func (f *faultOps) ObjectGetInd(inst oci.Instance) (oci.Indicator, error) {
	if err := f.hit("ObjectGetInd"); err != nil {
		return nil, err
	}
	return f.Catalog.ObjectGetInd(inst)
}

func newTestCatalog(t *testing.T) *catalog.Catalog {
	c, err := catalog.New(hclog.NewNullLogger())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if err := c.LoadFile("../catalog/testdata/hr.hcl"); err != nil {
		t.Fatalf("err: %v", err)
	}
	return c
}

func newTestConn(t *testing.T) (*Conn, *faultOps) {
	ops := newFaultOps(newTestCatalog(t))
	conn, err := NewConn(ops, WithLogger(hclog.NewNullLogger()))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	return conn, ops
}

// expectClean checks that no pins, describe handles or instances are left
// behind and that only the caller's reference on conn remains.
func expectClean(t *testing.T, conn *Conn, ops *faultOps) {
	t.Helper()
	if n := conn.refs(); n != 1 {
		t.Fatalf("connection references: expected 1, got %d", n)
	}
	if n := ops.OpenDescribeHandles(); n != 0 {
		t.Fatalf("open describe handles: %d", n)
	}
	if n := ops.LiveInstances(); n != 0 {
		t.Fatalf("live instances: %d", n)
	}
	for _, name := range []string{"EMPLOYEE_T", "NUM_LIST_T", "ADDRESS_T", "PERSON_T", "PERSON_LIST_T"} {
		if n := ops.Pins("HR", name); n != 0 {
			t.Fatalf("%s: %d pins left", name, n)
		}
	}
}
