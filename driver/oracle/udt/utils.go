package udt

import (
	"github.com/actiontech/udt/driver/oracle/oci"
)

func getAttr(ops oci.Ops, desc interface{}, attr oci.Attr, action string) (interface{}, error) {
	v, err := ops.AttrGet(desc, attr)
	if err != nil {
		return nil, ociError(action, err)
	}
	return v, nil
}

func getAttrString(ops oci.Ops, desc interface{}, attr oci.Attr, action string) (string, error) {
	v, err := getAttr(ops, desc, attr, action)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", newError(action, ErrCodeWrongAttrType, attr, v)
	}
	return s, nil
}

func getAttrUint16(ops oci.Ops, desc interface{}, attr oci.Attr, action string) (uint16, error) {
	v, err := getAttr(ops, desc, attr, action)
	if err != nil {
		return 0, err
	}
	n, ok := v.(uint16)
	if !ok {
		return 0, newError(action, ErrCodeWrongAttrType, attr, v)
	}
	return n, nil
}

func getAttrUint8(ops oci.Ops, desc interface{}, attr oci.Attr, action string) (uint8, error) {
	v, err := getAttr(ops, desc, attr, action)
	if err != nil {
		return 0, err
	}
	n, ok := v.(uint8)
	if !ok {
		return 0, newError(action, ErrCodeWrongAttrType, attr, v)
	}
	return n, nil
}

func getAttrInt16(ops oci.Ops, desc interface{}, attr oci.Attr, action string) (int16, error) {
	v, err := getAttr(ops, desc, attr, action)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int16)
	if !ok {
		return 0, newError(action, ErrCodeWrongAttrType, attr, v)
	}
	return n, nil
}

func getAttrInt8(ops oci.Ops, desc interface{}, attr oci.Attr, action string) (int8, error) {
	v, err := getAttr(ops, desc, attr, action)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int8)
	if !ok {
		return 0, newError(action, ErrCodeWrongAttrType, attr, v)
	}
	return n, nil
}

func getAttrTypeCode(ops oci.Ops, desc interface{}, action string) (oci.TypeCode, error) {
	v, err := getAttr(ops, desc, oci.AttrTypeCode, action)
	if err != nil {
		return 0, err
	}
	tc, ok := v.(oci.TypeCode)
	if !ok {
		return 0, newError(action, ErrCodeWrongAttrType, oci.AttrTypeCode, v)
	}
	return tc, nil
}

// getAttrDesc reads a descriptor valued attribute (parameter or reference).
func getAttrDesc(ops oci.Ops, desc interface{}, attr oci.Attr, action string) (interface{}, error) {
	v, err := getAttr(ops, desc, attr, action)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, newError(action, ErrCodeWrongAttrType, attr, v)
	}
	return v, nil
}
