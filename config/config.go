package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	oracleconfig "github.com/actiontech/udt/driver/oracle/config"
	"github.com/actiontech/udt/g"
	"github.com/hashicorp/go-multierror"
)

const (
	SourceCatalog = "catalog"
	SourceOracle  = "oracle"

	DefaultPushInterval = 10 * time.Second
)

// Config is the configuration of the udt tool.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	// Source selects where type descriptors come from: a catalog file or an
	// Oracle data dictionary.
	Source        string `mapstructure:"source"`
	CatalogFile   string `mapstructure:"catalog_file"`
	DefaultSchema string `mapstructure:"default_schema"`

	// Charset sizing used to compute client buffer sizes. Zero keeps the
	// AL32UTF8 / AL16UTF16 defaults.
	MaxBytesPerCharacter  uint32 `mapstructure:"max_bytes_per_character"`
	NMaxBytesPerCharacter uint32 `mapstructure:"nmax_bytes_per_character"`

	Oracle  *oracleconfig.OracleConfig `mapstructure:"-"`
	Metrics *MetricsConfig             `mapstructure:"-"`

	// config file that has been loaded
	File string `mapstructure:"-"`
}

type MetricsConfig struct {
	PrometheusPushAddr string        `mapstructure:"prometheus_push_addr"`
	PushInterval       time.Duration `mapstructure:"-"`
	PushIntervalHCL    string        `mapstructure:"push_interval"`
}

// DefaultConfig is the baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "INFO",
		Source:   SourceCatalog,
		Metrics: &MetricsConfig{
			PushInterval: DefaultPushInterval,
		},
	}
}

// Merge merges two configurations.
func (c *Config) Merge(b *Config) *Config {
	result := *c

	if b.LogLevel != "" {
		result.LogLevel = b.LogLevel
	}
	if b.LogFile != "" {
		result.LogFile = b.LogFile
	}
	if b.Source != "" {
		result.Source = b.Source
	}
	if b.CatalogFile != "" {
		result.CatalogFile = b.CatalogFile
	}
	if b.DefaultSchema != "" {
		result.DefaultSchema = b.DefaultSchema
	}
	if b.MaxBytesPerCharacter != 0 {
		result.MaxBytesPerCharacter = b.MaxBytesPerCharacter
	}
	if b.NMaxBytesPerCharacter != 0 {
		result.NMaxBytesPerCharacter = b.NMaxBytesPerCharacter
	}

	if result.Oracle == nil && b.Oracle != nil {
		oracle := *b.Oracle
		result.Oracle = &oracle
	} else if b.Oracle != nil {
		result.Oracle = mergeOracle(result.Oracle, b.Oracle)
	}

	if result.Metrics == nil && b.Metrics != nil {
		metrics := *b.Metrics
		result.Metrics = &metrics
	} else if b.Metrics != nil {
		result.Metrics = result.Metrics.Merge(b.Metrics)
	}

	if b.File != "" {
		result.File = b.File
	}

	return &result
}

func mergeOracle(a, b *oracleconfig.OracleConfig) *oracleconfig.OracleConfig {
	result := *a
	if b.Host != "" {
		result.Host = b.Host
	}
	if b.Port != 0 {
		result.Port = b.Port
	}
	if b.User != "" {
		result.User = b.User
	}
	if b.Password != "" {
		result.Password = b.Password
	}
	if b.ServiceName != "" {
		result.ServiceName = b.ServiceName
	}
	return &result
}

func (a *MetricsConfig) Merge(b *MetricsConfig) *MetricsConfig {
	result := *a
	if b.PrometheusPushAddr != "" {
		result.PrometheusPushAddr = b.PrometheusPushAddr
	}
	if b.PushInterval != 0 {
		result.PushInterval = b.PushInterval
	}
	return &result
}

// Validate reports every inconsistency of a merged configuration.
func (c *Config) Validate() error {
	var result error
	switch c.Source {
	case SourceCatalog:
		if c.CatalogFile == "" {
			result = multierror.Append(result, fmt.Errorf("catalog_file is required for source %q", c.Source))
		}
	case SourceOracle:
		if c.Oracle == nil || c.Oracle.Host == "" || c.Oracle.User == "" {
			result = multierror.Append(result, fmt.Errorf("an oracle block with host and user is required for source %q", c.Source))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown source %q", c.Source))
	}
	if c.Metrics != nil && c.Metrics.PushInterval < 0 {
		result = multierror.Append(result, fmt.Errorf("metrics push_interval must not be negative"))
	}
	return result
}

// LoadConfig loads the configuration at the given path and applies
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	cleaned := filepath.Clean(path)
	config, err := ParseConfigFile(cleaned)
	if err != nil {
		return nil, err
	}

	config.File = cleaned
	if passwd, ok := os.LookupEnv(g.ENV_ORACLE_PASSWD); ok && config.Oracle != nil {
		config.Oracle.Password = passwd
	}
	return config, nil
}
