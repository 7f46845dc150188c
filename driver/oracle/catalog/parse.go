package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/actiontech/udt/g"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl"
	"github.com/hashicorp/hcl/hcl/ast"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// ParseFile parses the given path as a catalog file.
func ParseFile(path string) ([]*TypeDef, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	defs, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog %s", path)
	}
	return defs, nil
}

// Parse reads type definitions from r:
//
//	type "EMPLOYEE_T" {
//	  schema = "HR"
//	  attribute "EMP_ID" { data_type = "NUMBER" precision = 6 }
//	}
//	type "NUM_LIST_T" {
//	  schema = "HR"
//	  element { data_type = "NUMBER" }
//	}
//
// Attributes keep the order they are declared in.
func Parse(r io.Reader) ([]*TypeDef, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}

	root, err := hcl.Parse(buf.String())
	if err != nil {
		return nil, fmt.Errorf("error parsing: %s", err)
	}
	buf.Reset()

	list, ok := root.Node.(*ast.ObjectList)
	if !ok {
		return nil, fmt.Errorf("error parsing: root should be an object")
	}
	if err := checkHCLKeys(list, []string{"type"}); err != nil {
		return nil, multierror.Prefix(err, "catalog:")
	}

	var defs []*TypeDef
	seen := make(map[string]struct{})
	for _, item := range list.Filter("type").Items {
		def, err := parseType(item)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[def.Key()]; ok {
			return nil, fmt.Errorf("type %s defined more than once", def.Key())
		}
		seen[def.Key()] = struct{}{}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseType(item *ast.ObjectItem) (*TypeDef, error) {
	if len(item.Keys) != 1 {
		return nil, fmt.Errorf("type block at %s must have exactly one name", item.Pos())
	}
	name := g.NormalizeName(item.Keys[0].Token.Value().(string))

	obj, ok := item.Val.(*ast.ObjectType)
	if !ok {
		return nil, fmt.Errorf("type %s: should be a block", name)
	}
	if err := checkHCLKeys(obj.List, []string{"schema", "attribute", "element"}); err != nil {
		return nil, multierror.Prefix(err, fmt.Sprintf("type %s:", name))
	}

	var m map[string]interface{}
	if err := hcl.DecodeObject(&m, obj); err != nil {
		return nil, errors.Wrapf(err, "type %s", name)
	}
	delete(m, "attribute")
	delete(m, "element")

	def := &TypeDef{Name: name}
	if err := mapstructure.WeakDecode(m, def); err != nil {
		return nil, errors.Wrapf(err, "type %s", name)
	}
	def.Schema = g.NormalizeName(def.Schema)

	for _, a := range obj.List.Filter("attribute").Items {
		if len(a.Keys) != 1 {
			return nil, fmt.Errorf("type %s: attribute block at %s must have exactly one name", name, a.Pos())
		}
		attr, err := parseAttr(a.Val)
		if err != nil {
			return nil, multierror.Prefix(err, fmt.Sprintf("type %s attribute:", name))
		}
		attr.Name = g.NormalizeName(a.Keys[0].Token.Value().(string))
		def.Attributes = append(def.Attributes, attr)
	}

	elems := obj.List.Filter("element").Items
	switch len(elems) {
	case 0:
	case 1:
		elem, err := parseAttr(elems[0].Val)
		if err != nil {
			return nil, multierror.Prefix(err, fmt.Sprintf("type %s element:", name))
		}
		def.Element = elem
	default:
		return nil, fmt.Errorf("type %s: only one element block is allowed", name)
	}
	return def, nil
}

func parseAttr(node ast.Node) (*AttrDef, error) {
	obj, ok := node.(*ast.ObjectType)
	if !ok {
		return nil, fmt.Errorf("should be a block")
	}
	valid := []string{
		"data_type",
		"size",
		"char_size",
		"precision",
		"scale",
		"fs_precision",
		"charset_form",
		"type_schema",
		"type_name",
	}
	if err := checkHCLKeys(obj.List, valid); err != nil {
		return nil, err
	}

	var m map[string]interface{}
	if err := hcl.DecodeObject(&m, obj); err != nil {
		return nil, err
	}
	var attr AttrDef
	if err := mapstructure.WeakDecode(m, &attr); err != nil {
		return nil, err
	}

	// Oracle defaults apply only to keys left out of the file.
	if _, ok := m["fs_precision"]; !ok && attr.hasFsPrecision() {
		attr.FsPrecision = defaultFsPrecision
	}
	if _, ok := m["precision"]; !ok && attr.hasLeadingPrecision() {
		attr.Precision = defaultLeadingPrecision
	}
	return &attr, nil
}

func checkHCLKeys(node ast.Node, valid []string) error {
	var list *ast.ObjectList
	switch n := node.(type) {
	case *ast.ObjectList:
		list = n
	case *ast.ObjectType:
		list = n.List
	default:
		return fmt.Errorf("cannot check HCL keys of type %T", n)
	}

	validMap := make(map[string]struct{}, len(valid))
	for _, v := range valid {
		validMap[v] = struct{}{}
	}

	var result error
	for _, item := range list.Items {
		key := item.Keys[0].Token.Value().(string)
		if _, ok := validMap[key]; !ok {
			result = multierror.Append(result, fmt.Errorf(
				"invalid key: %s", key))
		}
	}

	return result
}

// LoadFile registers every type defined in the catalog file at path.
func (c *Catalog) LoadFile(path string) error {
	defs, err := ParseFile(path)
	if err != nil {
		return err
	}
	return c.Register(defs...)
}
