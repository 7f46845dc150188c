package config

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	oracleconfig "github.com/actiontech/udt/driver/oracle/config"
	"github.com/actiontech/udt/g"
	test "github.com/outbrain/golib/tests"
)

func TestConfig_ParseConfigFile(t *testing.T) {
	// Fails if the file doesn't exist
	if _, err := ParseConfigFile("/nonexistent/udt.conf"); err == nil {
		t.Fatalf("expected error, got nothing")
	}

	fh, err := ioutil.TempFile("", "udt")
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	defer os.RemoveAll(fh.Name())

	// Invalid content returns error
	if _, err := fh.WriteString("nope;!!!"); err != nil {
		t.Fatalf("err: %s", err)
	}
	if _, err := ParseConfigFile(fh.Name()); err == nil {
		t.Fatalf("expected load error, got nothing")
	}

	// Valid content parses successfully
	if err := fh.Truncate(0); err != nil {
		t.Fatalf("err: %s", err)
	}
	if _, err := fh.Seek(0, 0); err != nil {
		t.Fatalf("err: %s", err)
	}
	if _, err := fh.WriteString(`{"log_level":"info"}`); err != nil {
		t.Fatalf("err: %s", err)
	}

	config, err := ParseConfigFile(fh.Name())
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	if config.LogLevel != "info" {
		t.Fatalf("bad loglevel: %q", config.LogLevel)
	}
}

func TestConfig_LoadConfig(t *testing.T) {
	// Fails if the target doesn't exist
	if _, err := LoadConfig("/nonexistent/udt.conf"); err == nil {
		t.Fatalf("expected error, got nothing")
	}

	fh, err := ioutil.TempFile("", "udt")
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	defer os.Remove(fh.Name())

	if _, err := fh.WriteString("source = \"oracle\"\noracle {\n  host = \"db\"\n  user = \"hr\"\n  password = \"file\"\n}\n"); err != nil {
		t.Fatalf("err: %s", err)
	}

	os.Setenv(g.ENV_ORACLE_PASSWD, "env")
	defer os.Unsetenv(g.ENV_ORACLE_PASSWD)

	config, err := LoadConfig(fh.Name())
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	test.S(t).ExpectEquals(config.File, fh.Name())
	test.S(t).ExpectEquals(config.Oracle.Password, "env")
	test.S(t).ExpectEquals(config.Oracle.Host, "db")
}

func TestConfig_Merge(t *testing.T) {
	c1 := DefaultConfig()
	c2 := &Config{
		LogLevel:      "DEBUG",
		CatalogFile:   "/etc/udt/types.hcl",
		DefaultSchema: "HR",
		Oracle: &oracleconfig.OracleConfig{
			Host: "db1",
			Port: 1521,
		},
		Metrics: &MetricsConfig{
			PrometheusPushAddr: "pushgateway:9091",
		},
	}
	c3 := &Config{
		Source:               SourceOracle,
		MaxBytesPerCharacter: 3,
		Oracle: &oracleconfig.OracleConfig{
			Host: "db2",
			User: "hr",
		},
	}

	result := c1.Merge(c2).Merge(c3)
	test.S(t).ExpectEquals(result.LogLevel, "DEBUG")
	test.S(t).ExpectEquals(result.Source, SourceOracle)
	test.S(t).ExpectEquals(result.CatalogFile, "/etc/udt/types.hcl")
	test.S(t).ExpectEquals(result.MaxBytesPerCharacter, uint32(3))
	test.S(t).ExpectEquals(result.Oracle.Host, "db2")
	test.S(t).ExpectEquals(result.Oracle.Port, 1521)
	test.S(t).ExpectEquals(result.Oracle.User, "hr")
	test.S(t).ExpectEquals(result.Metrics.PrometheusPushAddr, "pushgateway:9091")
	test.S(t).ExpectEquals(result.Metrics.PushInterval, DefaultPushInterval)

	// inputs are left alone
	test.S(t).ExpectEquals(c2.Oracle.Host, "db1")
	test.S(t).ExpectEquals(c1.Source, SourceCatalog)
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		Name   string
		Config *Config
		Err    bool
	}{
		{"default", DefaultConfig(), true},
		{"catalog", &Config{Source: SourceCatalog, CatalogFile: "types.hcl"}, false},
		{"oracle without block", &Config{Source: SourceOracle}, true},
		{"oracle", &Config{Source: SourceOracle, Oracle: &oracleconfig.OracleConfig{Host: "db", User: "hr"}}, false},
		{"unknown source", &Config{Source: "ldap"}, true},
		{"negative interval", &Config{Source: SourceCatalog, CatalogFile: "types.hcl",
			Metrics: &MetricsConfig{PushInterval: -time.Second}}, true},
	}
	for _, tc := range cases {
		err := tc.Config.Validate()
		if (err != nil) != tc.Err {
			t.Fatalf("%s: %v", tc.Name, err)
		}
	}
}
