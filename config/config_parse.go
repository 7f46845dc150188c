package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	oracleconfig "github.com/actiontech/udt/driver/oracle/config"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl"
	"github.com/hashicorp/hcl/hcl/ast"
	"github.com/mitchellh/mapstructure"
)

// ParseConfigFile parses the given path as a config file.
func ParseConfigFile(path string) (*Config, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	config, err := ParseConfig(f)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// ParseConfig parses the config from the given io.Reader.
//
// Due to current internal limitations, the entire contents of the
// io.Reader will be copied into memory first before parsing.
func ParseConfig(r io.Reader) (*Config, error) {
	// Copy the reader into an in-memory buffer first since HCL requires it.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}

	// Parse the buffer
	root, err := hcl.Parse(buf.String())
	if err != nil {
		return nil, fmt.Errorf("error parsing: %s", err)
	}
	buf.Reset()

	// Top-level item should be a list
	list, ok := root.Node.(*ast.ObjectList)
	if !ok {
		return nil, fmt.Errorf("error parsing: root should be an object")
	}

	var config Config
	if err := parseConfig(&config, list); err != nil {
		return nil, fmt.Errorf("error parsing 'config': %v", err)
	}

	return &config, nil
}

func parseConfig(result *Config, list *ast.ObjectList) error {
	// Check for invalid keys
	valid := []string{
		"log_level",
		"log_file",
		"source",
		"catalog_file",
		"default_schema",
		"max_bytes_per_character",
		"nmax_bytes_per_character",
		"oracle",
		"metrics",
	}
	if err := checkHCLKeys(list, valid); err != nil {
		return multierror.Prefix(err, "config:")
	}

	// Decode the full thing into a map[string]interface for ease
	var m map[string]interface{}
	if err := hcl.DecodeObject(&m, list); err != nil {
		return err
	}
	delete(m, "oracle")
	delete(m, "metrics")

	// Decode the rest
	if err := mapstructure.WeakDecode(m, result); err != nil {
		return err
	}

	if o := list.Filter("oracle"); len(o.Items) > 0 {
		if err := parseOracle(&result.Oracle, o); err != nil {
			return multierror.Prefix(err, "oracle ->")
		}
	}

	if o := list.Filter("metrics"); len(o.Items) > 0 {
		if err := parseMetrics(&result.Metrics, o); err != nil {
			return multierror.Prefix(err, "metrics ->")
		}
	}

	return nil
}

func parseOracle(result **oracleconfig.OracleConfig, list *ast.ObjectList) error {
	list = list.Elem()
	if len(list.Items) > 1 {
		return fmt.Errorf("only one 'oracle' block allowed")
	}

	listVal := list.Items[0].Val

	valid := []string{
		"host",
		"port",
		"user",
		"password",
		"service_name",
	}
	if err := checkHCLKeys(listVal, valid); err != nil {
		return err
	}

	var m map[string]interface{}
	if err := hcl.DecodeObject(&m, listVal); err != nil {
		return err
	}

	var oracle oracleconfig.OracleConfig
	if err := mapstructure.WeakDecode(m, &oracle); err != nil {
		return err
	}
	*result = &oracle
	return nil
}

func parseMetrics(result **MetricsConfig, list *ast.ObjectList) error {
	list = list.Elem()
	if len(list.Items) > 1 {
		return fmt.Errorf("only one 'metrics' block allowed")
	}

	listVal := list.Items[0].Val

	valid := []string{
		"prometheus_push_addr",
		"push_interval",
	}
	if err := checkHCLKeys(listVal, valid); err != nil {
		return err
	}

	var m map[string]interface{}
	if err := hcl.DecodeObject(&m, listVal); err != nil {
		return err
	}

	var metrics MetricsConfig
	if err := mapstructure.WeakDecode(m, &metrics); err != nil {
		return err
	}
	if metrics.PushIntervalHCL != "" {
		d, err := time.ParseDuration(metrics.PushIntervalHCL)
		if err != nil {
			return fmt.Errorf("invalid push_interval: %v", err)
		}
		metrics.PushInterval = d
	}
	*result = &metrics
	return nil
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
