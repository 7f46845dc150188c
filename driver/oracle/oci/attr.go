package oci

import "fmt"

// Attr identifies an attribute readable with Ops.AttrGet. The comment on each
// constant names the Go type a provider must return for it.
type Attr uint32

const (
	AttrDataSize          Attr = 1   // uint16
	AttrDataType          Attr = 2   // uint16, one of the DataType* codes
	AttrName              Attr = 4   // string
	AttrPrecision         Attr = 5   // int16
	AttrScale             Attr = 6   // int8
	AttrTypeName          Attr = 8   // string
	AttrSchemaName        Attr = 9   // string
	AttrCharsetForm       Attr = 32  // uint8, one of the CharsetForm* values
	AttrParam             Attr = 124 // Param
	AttrRefTDO            Attr = 110 // Ref
	AttrTypeCode          Attr = 216 // TypeCode
	AttrCollectionElement Attr = 227 // Param
	AttrNumTypeAttrs      Attr = 228 // uint16
	AttrListTypeAttrs     Attr = 229 // Param
	AttrCharSize          Attr = 286 // uint16
)

var attrNames = map[Attr]string{
	AttrDataSize:          "DATA_SIZE",
	AttrDataType:          "DATA_TYPE",
	AttrName:              "NAME",
	AttrPrecision:         "PRECISION",
	AttrScale:             "SCALE",
	AttrTypeName:          "TYPE_NAME",
	AttrSchemaName:        "SCHEMA_NAME",
	AttrCharsetForm:       "CHARSET_FORM",
	AttrParam:             "PARAM",
	AttrRefTDO:            "REF_TDO",
	AttrTypeCode:          "TYPECODE",
	AttrCollectionElement: "COLLECTION_ELEMENT",
	AttrNumTypeAttrs:      "NUM_TYPE_ATTRS",
	AttrListTypeAttrs:     "LIST_TYPE_ATTRS",
	AttrCharSize:          "CHAR_SIZE",
}

func (a Attr) String() string {
	if s, ok := attrNames[a]; ok {
		return s
	}
	return fmt.Sprintf("ATTR(%d)", uint32(a))
}

// TypeCode is the type code of a described type.
type TypeCode uint16

const (
	TypeCodeObject          TypeCode = 108
	TypeCodeNamedCollection TypeCode = 122
)

// Charset forms.
const (
	CharsetFormImplicit uint8 = 1
	CharsetFormNChar    uint8 = 2
)

// Data type codes returned for AttrDataType. Attribute and collection element
// descriptors may report either the external (SQLT) code or the type code of
// the object layer; both are listed where they differ.
const (
	DataTypeChar            uint16 = 1   // VARCHAR2
	DataTypeNumber          uint16 = 2   // NUMBER
	DataTypeInteger         uint16 = 3   // binary/PLS integer
	DataTypeFloat           uint16 = 4   // FLOAT
	DataTypeLong            uint16 = 8   // LONG
	DataTypeVarchar         uint16 = 9   // VARCHAR2 (object layer)
	DataTypeDate            uint16 = 12  // DATE
	DataTypeBinary          uint16 = 23  // RAW
	DataTypeLongBinary      uint16 = 24  // LONG RAW
	DataTypeRaw             uint16 = 95  // RAW (object layer)
	DataTypeFixedChar       uint16 = 96  // CHAR
	DataTypeBinaryFloat     uint16 = 100 // BINARY_FLOAT
	DataTypeBinaryDouble    uint16 = 101 // BINARY_DOUBLE
	DataTypeRowID           uint16 = 104 // ROWID
	DataTypeNamedType       uint16 = 108 // object type
	DataTypeRef             uint16 = 110 // REF
	DataTypeCLOB            uint16 = 112 // CLOB / NCLOB
	DataTypeBLOB            uint16 = 113 // BLOB
	DataTypeBFILE           uint16 = 114 // BFILE
	DataTypeNamedCollection uint16 = 122 // collection type
	DataTypeTimestamp       uint16 = 187 // TIMESTAMP
	DataTypeTimestampTZ     uint16 = 188 // TIMESTAMP WITH TIME ZONE
	DataTypeIntervalYM      uint16 = 189 // INTERVAL YEAR TO MONTH
	DataTypeIntervalDS      uint16 = 190 // INTERVAL DAY TO SECOND
	DataTypeTimestampLTZ    uint16 = 232 // TIMESTAMP WITH LOCAL TIME ZONE
	DataTypeSmallInt        uint16 = 246 // SMALLINT (object layer)
	DataTypeBoolean         uint16 = 252 // BOOLEAN
)
