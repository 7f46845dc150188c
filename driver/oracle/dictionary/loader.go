// Package dictionary loads object type definitions from the Oracle data
// dictionary views ALL_TYPES, ALL_TYPE_ATTRS and ALL_COLL_TYPES.
package dictionary

import (
	"regexp"
	"strings"

	"github.com/actiontech/udt/driver/oracle/catalog"
	"github.com/actiontech/udt/driver/oracle/config"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

// Dictionary is the part of config.OracleDB used by the loader.
type Dictionary interface {
	GetTypeHeader(owner, name string) (*config.TypeHeader, error)
	GetTypeAttributes(owner, name string) ([]*config.TypeAttribute, error)
	GetCollectionType(owner, name string) (*config.CollectionType, error)
}

var _ Dictionary = (*config.OracleDB)(nil)

const defaultMaxBytesPerCharacter = 4

type Loader struct {
	logger               hclog.Logger
	dict                 Dictionary
	maxBytesPerCharacter int
}

var _ catalog.Source = (*Loader)(nil)

// NewLoader returns a loader over dict. maxBytesPerCharacter sizes attributes
// declared with character length semantics; zero means AL32UTF8.
func NewLoader(logger hclog.Logger, dict Dictionary, maxBytesPerCharacter int) *Loader {
	if maxBytesPerCharacter <= 0 {
		maxBytesPerCharacter = defaultMaxBytesPerCharacter
	}
	return &Loader{
		logger:               logger.Named("dictionary"),
		dict:                 dict,
		maxBytesPerCharacter: maxBytesPerCharacter,
	}
}

// LoadType implements catalog.Source.
func (l *Loader) LoadType(schema, name string) (*catalog.TypeDef, error) {
	if schema == "" {
		return nil, errors.Errorf("type %s: schema is required to query the dictionary", name)
	}
	header, err := l.dict.GetTypeHeader(schema, name)
	if err != nil {
		return nil, err
	}
	if header == nil {
		l.logger.Debug("type not found", "schema", schema, "name", name)
		return nil, nil
	}

	def := &catalog.TypeDef{
		Schema: schema,
		Name:   name,
	}
	switch header.TypeCode {
	case config.TypeCodeCollection:
		coll, err := l.dict.GetCollectionType(schema, name)
		if err != nil {
			return nil, err
		}
		if coll == nil {
			return nil, errors.Errorf("collection %s.%s has no ALL_COLL_TYPES row", schema, name)
		}
		def.Element = l.attrDef(&coll.Element)
	case config.TypeCodeObject:
		attrs, err := l.dict.GetTypeAttributes(schema, name)
		if err != nil {
			return nil, err
		}
		for _, a := range attrs {
			def.Attributes = append(def.Attributes, l.attrDef(a))
		}
	default:
		return nil, errors.Errorf("type %s.%s has unsupported type code %q", schema, name, header.TypeCode)
	}

	l.logger.Debug("loaded type", "type", def.Key(),
		"attributes", len(def.Attributes), "collection", def.IsCollection())
	return def, nil
}

var precisionRe = regexp.MustCompile(`\(\d+\)`)

// dataTypeName strips precisions from dictionary type names, so
// "TIMESTAMP(6) WITH TIME ZONE" becomes "TIMESTAMP WITH TIME ZONE" and
// "INTERVAL DAY(2) TO SECOND(6)" becomes "INTERVAL DAY TO SECOND".
func dataTypeName(name string) string {
	return strings.TrimSpace(precisionRe.ReplaceAllString(name, ""))
}

func (l *Loader) attrDef(a *config.TypeAttribute) *catalog.AttrDef {
	def := &catalog.AttrDef{
		Name:      a.Name,
		Precision: int(a.Precision),
		Scale:     int(a.Scale),
	}

	switch {
	case a.TypeMod == "REF":
		def.DataType = "REF"
		def.TypeSchema = a.TypeOwner
		def.TypeName = a.TypeName
		return def
	case a.TypeOwner != "":
		def.DataType = "OBJECT"
		def.TypeSchema = a.TypeOwner
		def.TypeName = a.TypeName
		return def
	}

	def.DataType = dataTypeName(a.TypeName)
	switch def.DataType {
	case "TIMESTAMP", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITH LOCAL TIME ZONE", "INTERVAL DAY TO SECOND":
		def.FsPrecision = int(a.Scale)
		def.Scale = 0
	}
	if a.CharsetName == "NCHAR_CS" {
		def.CharsetForm = "NCHAR"
	}

	if sized(def.DataType) {
		def.Size = int(a.Length)
		if a.CharUsed == "C" {
			def.CharSize = int(a.Length)
			def.Size = int(a.Length) * l.bytesPerCharacter(def)
		}
	}
	return def
}

// bytesPerCharacter of the national character set is fixed to AL16UTF16.
func (l *Loader) bytesPerCharacter(def *catalog.AttrDef) int {
	if def.CharsetForm == "NCHAR" {
		return 2
	}
	return l.maxBytesPerCharacter
}

func sized(dataType string) bool {
	switch dataType {
	case "VARCHAR2", "VARCHAR", "NVARCHAR2", "CHAR", "NCHAR", "RAW":
		return true
	}
	return false
}

