package catalog

import (
	"fmt"
	"strings"

	"github.com/actiontech/udt/driver/oracle/oci"
	"github.com/hashicorp/go-multierror"
)

// TypeDef defines an object type (Attributes) or a collection type (Element).
type TypeDef struct {
	Schema     string     `mapstructure:"schema"`
	Name       string     `mapstructure:"-"`
	Attributes []*AttrDef `mapstructure:"-"`
	Element    *AttrDef   `mapstructure:"-"`
}

// AttrDef defines an attribute or a collection element.
type AttrDef struct {
	Name        string `mapstructure:"-"`
	DataType    string `mapstructure:"data_type"`
	Size        int    `mapstructure:"size"`
	CharSize    int    `mapstructure:"char_size"`
	Precision   int    `mapstructure:"precision"`
	Scale       int    `mapstructure:"scale"`
	FsPrecision int    `mapstructure:"fs_precision"`
	// CharsetForm is "IMPLICIT" or "NCHAR". NCHAR, NVARCHAR2 and NCLOB always
	// use the national character set.
	CharsetForm string `mapstructure:"charset_form"`
	TypeSchema  string `mapstructure:"type_schema"`
	TypeName    string `mapstructure:"type_name"`
}

func (d *TypeDef) Key() string {
	return typeKey(d.Schema, d.Name)
}

func (d *TypeDef) IsCollection() bool {
	return d.Element != nil
}

func (d *TypeDef) typeCode() oci.TypeCode {
	if d.IsCollection() {
		return oci.TypeCodeNamedCollection
	}
	return oci.TypeCodeObject
}

func typeKey(schema, name string) string {
	return schema + "." + name
}

type dataType struct {
	code      uint16
	character bool
	nchar     bool
	// sized types report DATA_SIZE from AttrDef.Size
	sized bool
}

var dataTypes = map[string]dataType{
	"VARCHAR2":                       {code: oci.DataTypeChar, character: true, sized: true},
	"VARCHAR":                        {code: oci.DataTypeChar, character: true, sized: true},
	"NVARCHAR2":                      {code: oci.DataTypeChar, character: true, nchar: true, sized: true},
	"CHAR":                           {code: oci.DataTypeFixedChar, character: true, sized: true},
	"NCHAR":                          {code: oci.DataTypeFixedChar, character: true, nchar: true, sized: true},
	"RAW":                            {code: oci.DataTypeBinary, sized: true},
	"NUMBER":                         {code: oci.DataTypeNumber},
	"FLOAT":                          {code: oci.DataTypeFloat},
	"INTEGER":                        {code: oci.DataTypeInteger},
	"BINARY_FLOAT":                   {code: oci.DataTypeBinaryFloat},
	"BINARY_DOUBLE":                  {code: oci.DataTypeBinaryDouble},
	"DATE":                           {code: oci.DataTypeDate},
	"TIMESTAMP":                      {code: oci.DataTypeTimestamp},
	"TIMESTAMP WITH TIME ZONE":       {code: oci.DataTypeTimestampTZ},
	"TIMESTAMP WITH LOCAL TIME ZONE": {code: oci.DataTypeTimestampLTZ},
	"INTERVAL DAY TO SECOND":         {code: oci.DataTypeIntervalDS},
	"INTERVAL YEAR TO MONTH":         {code: oci.DataTypeIntervalYM},
	"CLOB":                           {code: oci.DataTypeCLOB, character: true},
	"NCLOB":                          {code: oci.DataTypeCLOB, character: true, nchar: true},
	"BLOB":                           {code: oci.DataTypeBLOB},
	"BFILE":                          {code: oci.DataTypeBFILE},
	"ROWID":                          {code: oci.DataTypeRowID},
	"LONG":                           {code: oci.DataTypeLong, character: true, sized: true},
	"LONG RAW":                       {code: oci.DataTypeLongBinary, sized: true},
	"BOOLEAN":                        {code: oci.DataTypeBoolean},
	"REF":                            {code: oci.DataTypeRef},
	"OBJECT":                         {code: oci.DataTypeNamedType},
}

const (
	defaultFsPrecision      = 6
	defaultLeadingPrecision = 2
)

const charsetFormNone uint8 = 0

func (a *AttrDef) dataType() (dataType, bool) {
	dt, ok := dataTypes[strings.ToUpper(a.DataType)]
	return dt, ok
}

func (a *AttrDef) isObject() bool {
	return strings.EqualFold(a.DataType, "OBJECT")
}

func (a *AttrDef) charsetForm() uint8 {
	dt, _ := a.dataType()
	switch {
	case !dt.character:
		return charsetFormNone
	case dt.nchar || strings.EqualFold(a.CharsetForm, "NCHAR"):
		return oci.CharsetFormNChar
	}
	return oci.CharsetFormImplicit
}

func (a *AttrDef) charSize() int {
	if a.CharSize > 0 {
		return a.CharSize
	}
	return a.Size
}

func (a *AttrDef) hasFsPrecision() bool {
	switch strings.ToUpper(a.DataType) {
	case "TIMESTAMP", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITH LOCAL TIME ZONE", "INTERVAL DAY TO SECOND":
		return true
	}
	return false
}

func (a *AttrDef) hasLeadingPrecision() bool {
	switch strings.ToUpper(a.DataType) {
	case "INTERVAL DAY TO SECOND", "INTERVAL YEAR TO MONTH":
		return true
	}
	return false
}

// scale is reported as the fractional seconds precision for timestamps and
// day to second intervals. Zero is a valid precision and is kept as is.
func (a *AttrDef) scale() int {
	if a.hasFsPrecision() {
		return a.FsPrecision
	}
	return a.Scale
}

func (a *AttrDef) precision() int {
	return a.Precision
}

func (a *AttrDef) validate(where string) error {
	var result error
	dt, ok := a.dataType()
	if !ok {
		return multierror.Append(result, fmt.Errorf("%s: unknown data type %q", where, a.DataType))
	}
	if dt.sized && a.Size <= 0 {
		result = multierror.Append(result, fmt.Errorf("%s: size must be positive for %s", where, a.DataType))
	}
	if a.isObject() && a.TypeName == "" {
		result = multierror.Append(result, fmt.Errorf("%s: type_name is required for OBJECT", where))
	}
	switch strings.ToUpper(a.CharsetForm) {
	case "", "IMPLICIT", "NCHAR":
	default:
		result = multierror.Append(result, fmt.Errorf("%s: invalid charset_form %q", where, a.CharsetForm))
	}
	return result
}

// Validate checks a definition before it is registered.
func (d *TypeDef) Validate() error {
	var result error
	if d.Name == "" {
		return multierror.Append(result, fmt.Errorf("type name is required"))
	}
	if d.Element != nil && len(d.Attributes) > 0 {
		result = multierror.Append(result, fmt.Errorf("type %s: a collection cannot have attributes", d.Key()))
	}
	if d.Element != nil {
		if err := d.Element.validate(fmt.Sprintf("type %s element", d.Key())); err != nil {
			result = multierror.Append(result, err)
		}
	}
	seen := make(map[string]struct{}, len(d.Attributes))
	for i, a := range d.Attributes {
		if a.Name == "" {
			result = multierror.Append(result, fmt.Errorf("type %s: attribute %d has no name", d.Key(), i+1))
			continue
		}
		if _, ok := seen[a.Name]; ok {
			result = multierror.Append(result, fmt.Errorf("type %s: duplicate attribute %s", d.Key(), a.Name))
		}
		seen[a.Name] = struct{}{}
		if err := a.validate(fmt.Sprintf("type %s attribute %s", d.Key(), a.Name)); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}
