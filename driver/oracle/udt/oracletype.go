package udt

import (
	"fmt"

	"github.com/actiontech/udt/driver/oracle/oci"
)

// OracleTypeNum identifies the database type of a column, attribute or
// collection element.
type OracleTypeNum uint32

const (
	OracleTypeNone         OracleTypeNum = 2000
	OracleTypeVarchar      OracleTypeNum = 2001
	OracleTypeNVarchar     OracleTypeNum = 2002
	OracleTypeChar         OracleTypeNum = 2003
	OracleTypeNChar        OracleTypeNum = 2004
	OracleTypeRowID        OracleTypeNum = 2005
	OracleTypeRaw          OracleTypeNum = 2006
	OracleTypeNativeFloat  OracleTypeNum = 2007
	OracleTypeNativeDouble OracleTypeNum = 2008
	OracleTypeNativeInt    OracleTypeNum = 2009
	OracleTypeNumber       OracleTypeNum = 2010
	OracleTypeDate         OracleTypeNum = 2011
	OracleTypeTimestamp    OracleTypeNum = 2012
	OracleTypeTimestampTZ  OracleTypeNum = 2013
	OracleTypeTimestampLTZ OracleTypeNum = 2014
	OracleTypeIntervalDS   OracleTypeNum = 2015
	OracleTypeIntervalYM   OracleTypeNum = 2016
	OracleTypeCLOB         OracleTypeNum = 2017
	OracleTypeNCLOB        OracleTypeNum = 2018
	OracleTypeBLOB         OracleTypeNum = 2019
	OracleTypeBFILE        OracleTypeNum = 2020
	OracleTypeBoolean      OracleTypeNum = 2022
	OracleTypeObject       OracleTypeNum = 2023
	OracleTypeLongVarchar  OracleTypeNum = 2024
	OracleTypeLongRaw      OracleTypeNum = 2025
)

// NativeTypeNum identifies the client representation used by default for an
// Oracle type.
type NativeTypeNum uint32

const (
	NativeTypeInt64      NativeTypeNum = 3000
	NativeTypeUint64     NativeTypeNum = 3001
	NativeTypeFloat      NativeTypeNum = 3002
	NativeTypeDouble     NativeTypeNum = 3003
	NativeTypeBytes      NativeTypeNum = 3004
	NativeTypeTimestamp  NativeTypeNum = 3005
	NativeTypeIntervalDS NativeTypeNum = 3006
	NativeTypeIntervalYM NativeTypeNum = 3007
	NativeTypeLOB        NativeTypeNum = 3008
	NativeTypeObject     NativeTypeNum = 3009
	NativeTypeBoolean    NativeTypeNum = 3011
	NativeTypeRowID      NativeTypeNum = 3012
)

// maxInt64Precision is the largest NUMBER precision that always fits an int64.
const maxInt64Precision = 18

type oracleType struct {
	num             OracleTypeNum
	name            string
	nativeType      NativeTypeNum
	sizeInBytes     uint32
	isCharacterData bool
}

var oracleTypes = map[OracleTypeNum]oracleType{
	OracleTypeVarchar:      {OracleTypeVarchar, "VARCHAR2", NativeTypeBytes, 0, true},
	OracleTypeNVarchar:     {OracleTypeNVarchar, "NVARCHAR2", NativeTypeBytes, 0, true},
	OracleTypeChar:         {OracleTypeChar, "CHAR", NativeTypeBytes, 0, true},
	OracleTypeNChar:        {OracleTypeNChar, "NCHAR", NativeTypeBytes, 0, true},
	OracleTypeRowID:        {OracleTypeRowID, "ROWID", NativeTypeRowID, 8, false},
	OracleTypeRaw:          {OracleTypeRaw, "RAW", NativeTypeBytes, 0, false},
	OracleTypeNativeFloat:  {OracleTypeNativeFloat, "BINARY_FLOAT", NativeTypeFloat, 4, false},
	OracleTypeNativeDouble: {OracleTypeNativeDouble, "BINARY_DOUBLE", NativeTypeDouble, 8, false},
	OracleTypeNativeInt:    {OracleTypeNativeInt, "BINARY_INTEGER", NativeTypeInt64, 8, false},
	OracleTypeNumber:       {OracleTypeNumber, "NUMBER", NativeTypeDouble, 22, false},
	OracleTypeDate:         {OracleTypeDate, "DATE", NativeTypeTimestamp, 7, false},
	OracleTypeTimestamp:    {OracleTypeTimestamp, "TIMESTAMP", NativeTypeTimestamp, 11, false},
	OracleTypeTimestampTZ:  {OracleTypeTimestampTZ, "TIMESTAMP WITH TIME ZONE", NativeTypeTimestamp, 13, false},
	OracleTypeTimestampLTZ: {OracleTypeTimestampLTZ, "TIMESTAMP WITH LOCAL TIME ZONE", NativeTypeTimestamp, 11, false},
	OracleTypeIntervalDS:   {OracleTypeIntervalDS, "INTERVAL DAY TO SECOND", NativeTypeIntervalDS, 11, false},
	OracleTypeIntervalYM:   {OracleTypeIntervalYM, "INTERVAL YEAR TO MONTH", NativeTypeIntervalYM, 5, false},
	OracleTypeCLOB:         {OracleTypeCLOB, "CLOB", NativeTypeLOB, 8, false},
	OracleTypeNCLOB:        {OracleTypeNCLOB, "NCLOB", NativeTypeLOB, 8, false},
	OracleTypeBLOB:         {OracleTypeBLOB, "BLOB", NativeTypeLOB, 8, false},
	OracleTypeBFILE:        {OracleTypeBFILE, "BFILE", NativeTypeLOB, 8, false},
	OracleTypeBoolean:      {OracleTypeBoolean, "BOOLEAN", NativeTypeBoolean, 4, false},
	OracleTypeObject:       {OracleTypeObject, "OBJECT", NativeTypeObject, 8, false},
	OracleTypeLongVarchar:  {OracleTypeLongVarchar, "LONG", NativeTypeBytes, 0, true},
	OracleTypeLongRaw:      {OracleTypeLongRaw, "LONG RAW", NativeTypeBytes, 0, false},
}

func (n OracleTypeNum) String() string {
	if t, ok := oracleTypes[n]; ok {
		return t.name
	}
	return fmt.Sprintf("ORACLE_TYPE(%d)", uint32(n))
}

func (n NativeTypeNum) String() string {
	switch n {
	case NativeTypeInt64:
		return "int64"
	case NativeTypeUint64:
		return "uint64"
	case NativeTypeFloat:
		return "float"
	case NativeTypeDouble:
		return "double"
	case NativeTypeBytes:
		return "bytes"
	case NativeTypeTimestamp:
		return "timestamp"
	case NativeTypeIntervalDS:
		return "interval_ds"
	case NativeTypeIntervalYM:
		return "interval_ym"
	case NativeTypeLOB:
		return "lob"
	case NativeTypeObject:
		return "object"
	case NativeTypeBoolean:
		return "boolean"
	case NativeTypeRowID:
		return "rowid"
	}
	return fmt.Sprintf("NATIVE_TYPE(%d)", uint32(n))
}

// oracleTypeFromDataType maps a described data type code and charset form to
// an Oracle type.
func oracleTypeFromDataType(dataType uint16, charsetForm uint8) (oracleType, bool) {
	var num OracleTypeNum
	switch dataType {
	case oci.DataTypeChar, oci.DataTypeVarchar:
		num = OracleTypeVarchar
		if charsetForm == oci.CharsetFormNChar {
			num = OracleTypeNVarchar
		}
	case oci.DataTypeFixedChar:
		num = OracleTypeChar
		if charsetForm == oci.CharsetFormNChar {
			num = OracleTypeNChar
		}
	case oci.DataTypeNumber, oci.DataTypeFloat:
		num = OracleTypeNumber
	case oci.DataTypeInteger, oci.DataTypeSmallInt:
		num = OracleTypeNativeInt
	case oci.DataTypeBinary, oci.DataTypeRaw:
		num = OracleTypeRaw
	case oci.DataTypeBinaryFloat:
		num = OracleTypeNativeFloat
	case oci.DataTypeBinaryDouble:
		num = OracleTypeNativeDouble
	case oci.DataTypeDate:
		num = OracleTypeDate
	case oci.DataTypeTimestamp:
		num = OracleTypeTimestamp
	case oci.DataTypeTimestampTZ:
		num = OracleTypeTimestampTZ
	case oci.DataTypeTimestampLTZ:
		num = OracleTypeTimestampLTZ
	case oci.DataTypeIntervalDS:
		num = OracleTypeIntervalDS
	case oci.DataTypeIntervalYM:
		num = OracleTypeIntervalYM
	case oci.DataTypeRowID:
		num = OracleTypeRowID
	case oci.DataTypeCLOB:
		num = OracleTypeCLOB
		if charsetForm == oci.CharsetFormNChar {
			num = OracleTypeNCLOB
		}
	case oci.DataTypeBLOB:
		num = OracleTypeBLOB
	case oci.DataTypeBFILE:
		num = OracleTypeBFILE
	case oci.DataTypeLong:
		num = OracleTypeLongVarchar
	case oci.DataTypeLongBinary:
		num = OracleTypeLongRaw
	case oci.DataTypeBoolean:
		num = OracleTypeBoolean
	case oci.DataTypeNamedType, oci.DataTypeNamedCollection:
		num = OracleTypeObject
	default:
		return oracleType{}, false
	}
	return oracleTypes[num], true
}

// DataTypeInfo describes the type of an attribute or collection element.
// When ObjectType is not nil the value holds a reference on it which is
// released together with the handle that owns the info.
type DataTypeInfo struct {
	OracleTypeNum        OracleTypeNum
	DefaultNativeTypeNum NativeTypeNum
	OCITypeCode          uint16
	DBSizeInBytes        uint32
	ClientSizeInBytes    uint32
	SizeInChars          uint32
	Precision            int16
	Scale                int8
	FsPrecision          uint8
	ObjectType           *ObjectType
}

// IsObject reports whether the described value is a nested object type.
func (i DataTypeInfo) IsObject() bool {
	return i.ObjectType != nil
}

func (i DataTypeInfo) String() string {
	switch {
	case i.ObjectType != nil:
		return i.ObjectType.FullName()
	case i.SizeInChars > 0:
		return fmt.Sprintf("%s(%d CHAR)", i.OracleTypeNum, i.SizeInChars)
	case i.OracleTypeNum == OracleTypeRaw:
		return fmt.Sprintf("%s(%d)", i.OracleTypeNum, i.DBSizeInBytes)
	case i.OracleTypeNum == OracleTypeNumber && i.Precision > 0:
		return fmt.Sprintf("%s(%d,%d)", i.OracleTypeNum, i.Precision, i.Scale)
	case i.OracleTypeNum == OracleTypeTimestamp, i.OracleTypeNum == OracleTypeTimestampTZ,
		i.OracleTypeNum == OracleTypeTimestampLTZ, i.OracleTypeNum == OracleTypeIntervalDS:
		return fmt.Sprintf("%s(%d)", i.OracleTypeNum, i.FsPrecision)
	}
	return i.OracleTypeNum.String()
}

// populateTypeInfo reads the type of the attribute or collection element
// described by param. An object typed value allocates a nested ObjectType.
func populateTypeInfo(conn *Conn, param oci.Param) (DataTypeInfo, error) {
	var info DataTypeInfo
	ops := conn.ops

	dataType, err := getAttrUint16(ops, param, oci.AttrDataType, "get data type")
	if err != nil {
		return info, err
	}
	info.OCITypeCode = dataType
	charsetForm, err := getAttrUint8(ops, param, oci.AttrCharsetForm, "get charset form")
	if err != nil {
		return info, err
	}
	typ, ok := oracleTypeFromDataType(dataType, charsetForm)
	if !ok {
		return info, newError("get data type", ErrCodeUnknownOracleType, dataType, charsetForm)
	}
	info.OracleTypeNum = typ.num
	info.DefaultNativeTypeNum = typ.nativeType

	switch typ.nativeType {
	case NativeTypeDouble, NativeTypeFloat, NativeTypeInt64, NativeTypeTimestamp,
		NativeTypeIntervalYM, NativeTypeIntervalDS:
		if info.Scale, err = getAttrInt8(ops, param, oci.AttrScale, "get scale"); err != nil {
			return info, err
		}
		if info.Precision, err = getAttrInt16(ops, param, oci.AttrPrecision, "get precision"); err != nil {
			return info, err
		}
		if typ.nativeType == NativeTypeTimestamp || typ.nativeType == NativeTypeIntervalDS {
			info.FsPrecision = uint8(info.Scale)
			info.Scale = 0
		}
	}

	if info.OracleTypeNum == OracleTypeNumber && info.Scale == 0 &&
		info.Precision > 0 && info.Precision <= maxInt64Precision {
		info.DefaultNativeTypeNum = NativeTypeInt64
	}

	if typ.sizeInBytes == 0 {
		size, err := getAttrUint16(ops, param, oci.AttrDataSize, "get size (bytes)")
		if err != nil {
			return info, err
		}
		info.DBSizeInBytes = uint32(size)
	} else {
		info.DBSizeInBytes = typ.sizeInBytes
	}

	if typ.isCharacterData && info.DBSizeInBytes > 0 {
		chars, err := getAttrUint16(ops, param, oci.AttrCharSize, "get size (chars)")
		if err != nil {
			return info, err
		}
		info.SizeInChars = uint32(chars)
		if charsetForm == oci.CharsetFormNChar {
			info.ClientSizeInBytes = info.SizeInChars * conn.nmaxBytesPerCharacter
		} else {
			info.ClientSizeInBytes = info.SizeInChars * conn.maxBytesPerCharacter
		}
	} else {
		info.ClientSizeInBytes = info.DBSizeInBytes
	}

	if info.OracleTypeNum == OracleTypeObject {
		info.ObjectType, err = newObjectType(conn, param, oci.AttrTypeName)
		if err != nil {
			return info, err
		}
	}
	return info, nil
}
