package udt

import (
	"testing"

	"github.com/actiontech/udt/driver/oracle/catalog"
	"github.com/actiontech/udt/driver/oracle/oci"
	test "github.com/outbrain/golib/tests"
)

func TestObjectType_Employee(t *testing.T) {
	conn, ops := newTestConn(t)
	defer conn.Close()

	typ, err := conn.GetObjectType("HR.EMPLOYEE_T")
	test.S(t).ExpectNil(err)
	test.S(t).ExpectEquals(conn.refs(), int32(2))
	test.S(t).ExpectEquals(ops.Pins("HR", "EMPLOYEE_T"), 1)
	test.S(t).ExpectEquals(typ.String(), "HR.EMPLOYEE_T")

	info, err := typ.Info()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectEquals(info.Name, "EMPLOYEE_T")
	test.S(t).ExpectEquals(info.Schema, "HR")
	test.S(t).ExpectFalse(info.IsCollection)
	test.S(t).ExpectTrue(info.ElementTypeInfo == nil)
	test.S(t).ExpectEquals(info.NumAttributes, uint16(3))

	short := make([]*ObjectAttr, 2)
	err = typ.GetAttributes(short)
	test.S(t).ExpectTrue(IsCode(err, ErrCodeArraySizeTooSmall))
	test.S(t).ExpectEquals(err.Error(), "DPI-1016: array size of 2 is too small")
	test.S(t).ExpectTrue(short[0] == nil && short[1] == nil)

	attrs := make([]*ObjectAttr, 3)
	test.S(t).ExpectNil(typ.GetAttributes(attrs))
	test.S(t).ExpectEquals(ops.OpenDescribeHandles(), 0)
	test.S(t).ExpectEquals(typ.refs(), int32(4))

	cases := []struct {
		Name        string
		OracleType  OracleTypeNum
		NativeType  NativeTypeNum
		DBSize      uint32
		ClientSize  uint32
		SizeInChars uint32
		Precision   int16
	}{
		{"EMP_ID", OracleTypeNumber, NativeTypeInt64, 22, 22, 0, 6},
		{"NAME", OracleTypeVarchar, NativeTypeBytes, 100, 100, 25, 0},
		{"HIRED", OracleTypeDate, NativeTypeTimestamp, 7, 7, 0, 0},
	}
	for i, tc := range cases {
		ai, err := attrs[i].Info()
		test.S(t).ExpectNil(err)
		test.S(t).ExpectEquals(ai.Name, tc.Name)
		test.S(t).ExpectEquals(ai.TypeInfo.OracleTypeNum, tc.OracleType)
		test.S(t).ExpectEquals(ai.TypeInfo.DefaultNativeTypeNum, tc.NativeType)
		test.S(t).ExpectEquals(ai.TypeInfo.DBSizeInBytes, tc.DBSize)
		test.S(t).ExpectEquals(ai.TypeInfo.ClientSizeInBytes, tc.ClientSize)
		test.S(t).ExpectEquals(ai.TypeInfo.SizeInChars, tc.SizeInChars)
		test.S(t).ExpectEquals(ai.TypeInfo.Precision, tc.Precision)
		test.S(t).ExpectFalse(ai.TypeInfo.IsObject())
	}

	for _, a := range attrs {
		test.S(t).ExpectNil(a.Release())
	}
	test.S(t).ExpectEquals(typ.refs(), int32(1))
	test.S(t).ExpectNil(typ.Release())
	expectClean(t, conn, ops)
}

func TestObjectType_ScalarCollection(t *testing.T) {
	conn, ops := newTestConn(t)
	defer conn.Close()

	typ, err := conn.GetObjectType("HR.NUM_LIST_T")
	test.S(t).ExpectNil(err)

	info, err := typ.Info()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectTrue(info.IsCollection)
	test.S(t).ExpectEquals(info.NumAttributes, uint16(0))
	test.S(t).ExpectNotNil(info.ElementTypeInfo)
	test.S(t).ExpectEquals(info.ElementTypeInfo.OracleTypeNum, OracleTypeNumber)
	test.S(t).ExpectEquals(info.ElementTypeInfo.DefaultNativeTypeNum, NativeTypeDouble)
	test.S(t).ExpectFalse(info.ElementTypeInfo.IsObject())
	// the element type is resolved once
	test.S(t).ExpectEquals(ops.calls["AttrGet:COLLECTION_ELEMENT"], 1)

	// nothing to enumerate: the slice is left alone
	sentinel := &ObjectAttr{}
	attrs := []*ObjectAttr{sentinel, sentinel}
	test.S(t).ExpectNil(typ.GetAttributes(attrs))
	test.S(t).ExpectTrue(attrs[0] == sentinel && attrs[1] == sentinel)
	test.S(t).ExpectNil(typ.GetAttributes(nil))
	test.S(t).ExpectEquals(ops.calls["HandleAlloc"], 2)

	test.S(t).ExpectNil(typ.Release())
	expectClean(t, conn, ops)
}

func TestObjectType_ObjectCollection(t *testing.T) {
	conn, ops := newTestConn(t)
	defer conn.Close()

	typ, err := conn.GetObjectType("hr.person_list_t")
	test.S(t).ExpectNil(err)
	test.S(t).ExpectEquals(conn.refs(), int32(3))
	test.S(t).ExpectEquals(ops.calls["DescribeAny"], 3)

	info, err := typ.Info()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectTrue(info.IsCollection)
	test.S(t).ExpectEquals(info.ElementTypeInfo.OracleTypeNum, OracleTypeObject)
	test.S(t).ExpectEquals(info.ElementTypeInfo.DefaultNativeTypeNum, NativeTypeObject)

	person := info.ElementTypeInfo.ObjectType
	test.S(t).ExpectNotNil(person)
	test.S(t).ExpectEquals(person.refs(), int32(1))
	pinfo, err := person.Info()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectEquals(pinfo.Name, "PERSON_T")
	test.S(t).ExpectEquals(pinfo.Schema, "HR")
	test.S(t).ExpectFalse(pinfo.IsCollection)
	test.S(t).ExpectEquals(pinfo.NumAttributes, uint16(3))

	test.S(t).ExpectNil(person.AddRef())
	test.S(t).ExpectNil(typ.Release())
	test.S(t).ExpectEquals(person.refs(), int32(1))
	test.S(t).ExpectTrue(person.isLive())
	test.S(t).ExpectEquals(conn.refs(), int32(2))

	test.S(t).ExpectNil(person.Release())
	test.S(t).ExpectFalse(person.isLive())
	expectClean(t, conn, ops)
}

func TestObjectType_NestedAttributes(t *testing.T) {
	conn, ops := newTestConn(t)
	defer conn.Close()

	typ, err := conn.GetObjectType("HR.PERSON_T")
	test.S(t).ExpectNil(err)
	attrs := make([]*ObjectAttr, 5)
	test.S(t).ExpectNil(typ.GetAttributes(attrs))
	test.S(t).ExpectTrue(attrs[3] == nil && attrs[4] == nil)

	first, err := attrs[0].Info()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectEquals(first.TypeInfo.OracleTypeNum, OracleTypeNVarchar)
	test.S(t).ExpectEquals(first.TypeInfo.SizeInChars, uint32(20))
	test.S(t).ExpectEquals(first.TypeInfo.ClientSizeInBytes, uint32(40))

	addr, err := attrs[1].Info()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectTrue(addr.TypeInfo.IsObject())
	test.S(t).ExpectEquals(addr.TypeInfo.ObjectType.FullName(), "HR.ADDRESS_T")
	test.S(t).ExpectEquals(ops.Pins("HR", "ADDRESS_T"), 1)

	updated, err := attrs[2].Info()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectEquals(updated.TypeInfo.OracleTypeNum, OracleTypeTimestamp)
	test.S(t).ExpectEquals(updated.TypeInfo.FsPrecision, uint8(3))
	test.S(t).ExpectEquals(updated.TypeInfo.Scale, int8(0))
	test.S(t).ExpectEquals(updated.TypeInfo.String(), "TIMESTAMP(3)")

	for _, a := range attrs[:3] {
		test.S(t).ExpectNil(a.Release())
	}
	test.S(t).ExpectEquals(ops.Pins("HR", "ADDRESS_T"), 0)
	test.S(t).ExpectNil(typ.Release())
	expectClean(t, conn, ops)
}

func TestObjectType_GetAttributesFresh(t *testing.T) {
	conn, ops := newTestConn(t)
	defer conn.Close()

	typ, err := conn.GetObjectType("HR.EMPLOYEE_T")
	test.S(t).ExpectNil(err)
	first := make([]*ObjectAttr, 3)
	second := make([]*ObjectAttr, 3)
	test.S(t).ExpectNil(typ.GetAttributes(first))
	test.S(t).ExpectNil(typ.GetAttributes(second))

	for i := range first {
		test.S(t).ExpectTrue(first[i] != second[i])
		a, _ := first[i].Info()
		b, _ := second[i].Info()
		test.S(t).ExpectEquals(a, b)
		test.S(t).ExpectNil(first[i].Release())
		test.S(t).ExpectNil(second[i].Release())
	}
	test.S(t).ExpectNil(typ.Release())
	expectClean(t, conn, ops)
}

func TestObjectType_CreateObject(t *testing.T) {
	conn, ops := newTestConn(t)
	defer conn.Close()

	typ, err := conn.GetObjectType("HR.EMPLOYEE_T")
	test.S(t).ExpectNil(err)

	obj, err := typ.CreateObject()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectEquals(obj.refs(), int32(1))
	test.S(t).ExpectEquals(typ.refs(), int32(2))
	test.S(t).ExpectEquals(ops.LiveInstances(), 1)

	ind, err := obj.Indicator()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectEquals(ind.(*catalog.Indicator).Atomic, catalog.IndNotNull)
	ot, err := obj.Type()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectTrue(ot == typ)

	other, err := typ.CreateObject()
	test.S(t).ExpectNil(err)
	test.S(t).ExpectTrue(other != obj)
	test.S(t).ExpectEquals(ops.LiveInstances(), 2)

	test.S(t).ExpectNil(obj.Release())
	test.S(t).ExpectNil(other.Release())
	test.S(t).ExpectEquals(ops.LiveInstances(), 0)
	test.S(t).ExpectEquals(typ.refs(), int32(1))
	test.S(t).ExpectNil(typ.Release())
	expectClean(t, conn, ops)
}

func TestObjectType_CreateObjectFailure(t *testing.T) {
	for _, key := range []string{"ObjectNew", "ObjectGetInd"} {
		conn, ops := newTestConn(t)
		typ, err := conn.GetObjectType("HR.ADDRESS_T")
		test.S(t).ExpectNil(err)

		ops.failAt[key] = 1
		obj, err := typ.CreateObject()
		test.S(t).ExpectTrue(obj == nil)
		test.S(t).ExpectTrue(IsCode(err, ErrCodeOCI))
		test.S(t).ExpectEquals(ops.LiveInstances(), 0)
		test.S(t).ExpectEquals(typ.refs(), int32(1))

		test.S(t).ExpectNil(typ.Release())
		expectClean(t, conn, ops)
		test.S(t).ExpectNil(conn.Close())
	}
}

func TestObjectType_RefCount(t *testing.T) {
	conn, ops := newTestConn(t)
	defer conn.Close()

	typ, err := conn.GetObjectType("HR.ADDRESS_T")
	test.S(t).ExpectNil(err)
	test.S(t).ExpectNil(typ.AddRef())
	test.S(t).ExpectNil(typ.Release())
	test.S(t).ExpectTrue(typ.isLive())
	test.S(t).ExpectNil(typ.Release())
	test.S(t).ExpectFalse(typ.isLive())
	expectClean(t, conn, ops)

	// released more times than referenced
	err = typ.Release()
	test.S(t).ExpectTrue(IsCode(err, ErrCodeInvalidHandle))
	_, err = typ.Info()
	test.S(t).ExpectTrue(IsCode(err, ErrCodeInvalidHandle))
	test.S(t).ExpectEquals(conn.refs(), int32(1))

	var nilType *ObjectType
	_, err = nilType.Info()
	test.S(t).ExpectTrue(IsCode(err, ErrCodeInvalidHandle))
	test.S(t).ExpectEquals(err.Error(), "DPI-1002: invalid object_type handle")
	test.S(t).ExpectTrue(IsCode(nilType.GetAttributes(nil), ErrCodeInvalidHandle))
	_, err = nilType.CreateObject()
	test.S(t).ExpectTrue(IsCode(err, ErrCodeInvalidHandle))
}

func TestObjectType_ConstructionFailure(t *testing.T) {
	cases := []struct {
		Key string
		N   int
	}{
		{"HandleAlloc", 1},
		{"DescribeAny", 1},
		{"AttrGet:PARAM", 1},
		{"AttrGet:SCHEMA_NAME", 1},
		{"AttrGet:NAME", 1},
		{"AttrGet:REF_TDO", 1},
		{"ObjectPin", 1},
		{"HandleAlloc", 2},
		{"DescribeAny", 2},
		{"AttrGet:PARAM", 2},
		{"AttrGet:TYPECODE", 1},
		{"AttrGet:NUM_TYPE_ATTRS", 1},
		{"AttrGet:COLLECTION_ELEMENT", 1},
		{"AttrGet:DATA_TYPE", 1},
		{"AttrGet:CHARSET_FORM", 1},
		// nested PERSON_T
		{"AttrGet:SCHEMA_NAME", 2},
		{"AttrGet:TYPE_NAME", 1},
		{"AttrGet:REF_TDO", 2},
		{"ObjectPin", 2},
		{"HandleAlloc", 3},
		{"DescribeAny", 3},
		{"AttrGet:TYPECODE", 2},
		{"AttrGet:NUM_TYPE_ATTRS", 2},
	}

	before := LiveHandles()
	for _, tc := range cases {
		t.Logf("Testing failure at %s #%d", tc.Key, tc.N)
		conn, ops := newTestConn(t)
		ops.failAt[tc.Key] = tc.N

		typ, err := conn.GetObjectType("HR.PERSON_LIST_T")
		if err == nil {
			t.Fatalf("%s #%d: expected error", tc.Key, tc.N)
		}
		test.S(t).ExpectTrue(typ == nil)
		test.S(t).ExpectTrue(IsCode(err, ErrCodeOCI))
		test.S(t).ExpectEquals(err.(*Error).ORACode, oci.ErrIllegalAttributeValue)
		expectClean(t, conn, ops)

		test.S(t).ExpectNil(conn.Close())
		test.S(t).ExpectFalse(conn.isLive())
	}
	after := LiveHandles()
	for kind, n := range before {
		test.S(t).ExpectEquals(after[kind], n)
	}
}

func TestObjectType_WrongAttrType(t *testing.T) {
	conn, ops := newTestConn(t)
	defer conn.Close()

	ops.override["AttrGet:NUM_TYPE_ATTRS"] = 3
	_, err := conn.GetObjectType("HR.EMPLOYEE_T")
	test.S(t).ExpectTrue(IsCode(err, ErrCodeWrongAttrType))
	test.S(t).ExpectEquals(err.(*Error).Action, "get number of attributes")
	expectClean(t, conn, ops)
}

func TestObjectType_UnknownElementType(t *testing.T) {
	conn, ops := newTestConn(t)
	defer conn.Close()

	test.S(t).ExpectNil(ops.Register(&catalog.TypeDef{
		Schema:  "HR",
		Name:    "REF_LIST_T",
		Element: &catalog.AttrDef{DataType: "REF", TypeName: "PERSON_T"},
	}))
	_, err := conn.GetObjectType("HR.REF_LIST_T")
	test.S(t).ExpectTrue(IsCode(err, ErrCodeUnknownOracleType))
	test.S(t).ExpectEquals(ops.Pins("HR", "REF_LIST_T"), 0)
	expectClean(t, conn, ops)
}

func TestObjectType_GetAttributesFailure(t *testing.T) {
	conn, ops := newTestConn(t)
	defer conn.Close()

	typ, err := conn.GetObjectType("HR.EMPLOYEE_T")
	test.S(t).ExpectNil(err)

	ops.failAt["ParamGet"] = 2
	attrs := make([]*ObjectAttr, 3)
	err = typ.GetAttributes(attrs)
	test.S(t).ExpectTrue(IsCode(err, ErrCodeOCI))
	test.S(t).ExpectEquals(err.(*Error).Action, "get attribute param")
	test.S(t).ExpectNotNil(attrs[0])
	test.S(t).ExpectTrue(attrs[1] == nil)
	test.S(t).ExpectEquals(ops.OpenDescribeHandles(), 0)

	test.S(t).ExpectNil(attrs[0].Release())
	test.S(t).ExpectNil(typ.Release())
	expectClean(t, conn, ops)
}
