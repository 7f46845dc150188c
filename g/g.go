// global values
package g

import (
	"os"
	"strings"

	hclog "github.com/hashicorp/go-hclog"
)

var (
	Version   string
	GitBranch string
	GitCommit string
)

type LoggerType hclog.Logger

var Logger LoggerType = hclog.NewNullLogger()

const (
	ENV_LOG_LEVEL     = "UDT_LOG_LEVEL"
	ENV_CONFIG_FILE   = "UDT_CONFIG_FILE"
	ENV_TRACE_HANDLES = "UDT_TRACE_HANDLES"
	ENV_ORACLE_PASSWD = "UDT_ORACLE_PASSWORD"

	LONG_LOG_LIMIT = 256

	ProgramName = "udt"
)

// EnvIsTrue returns true if the env exists and is not "0".
func EnvIsTrue(env string) bool {
	val, exist := os.LookupEnv(env)
	if !exist {
		return false
	}
	return val != "0"
}

// NormalizeName uppercases an identifier unless it is double-quoted, in which
// case the quotes are stripped and the case is kept.
func NormalizeName(name string) string {
	if len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		return name[1 : len(name)-1]
	}
	return strings.ToUpper(name)
}

// SplitQualifiedName splits "SCHEMA.NAME" into its parts. The schema is empty
// when name is not qualified.
func SplitQualifiedName(name string) (schema string, typeName string) {
	if strings.HasPrefix(name, `"`) {
		if i := strings.Index(name, `"."`); i > 0 {
			return NormalizeName(name[:i+1]), NormalizeName(name[i+2:])
		}
		return "", NormalizeName(name)
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return NormalizeName(name[:i]), NormalizeName(name[i+1:])
	}
	return "", NormalizeName(name)
}
