package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/actiontech/udt/config"
	"github.com/actiontech/udt/driver/oracle/catalog"
	oracleconfig "github.com/actiontech/udt/driver/oracle/config"
	"github.com/actiontech/udt/driver/oracle/dictionary"
	"github.com/actiontech/udt/g"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// loadConfig merges the default configuration, the config file (from path
// or UDT_CONFIG_FILE) and the environment.
func loadConfig(path string) (*config.Config, error) {
	conf := config.DefaultConfig()
	if path == "" {
		path = os.Getenv(g.ENV_CONFIG_FILE)
	}
	if path != "" {
		fileConf, err := config.LoadConfig(path)
		if err != nil {
			return nil, errors.Wrapf(err, "error loading configuration from %s", path)
		}
		conf = conf.Merge(fileConf)
	}
	if level, ok := os.LookupEnv(g.ENV_LOG_LEVEL); ok {
		conf.LogLevel = level
	}
	return conf, nil
}

// setupLogger returns a logger writing to out, or to a rotating log_file.
func setupLogger(conf *config.Config, out io.Writer) (hclog.Logger, error) {
	logLevel := hclog.LevelFromString(conf.LogLevel)
	if logLevel == hclog.NoLevel {
		return nil, fmt.Errorf("log level should be TRACE, DEBUG, INFO, WARN or ERROR, got %v", conf.LogLevel)
	}

	if conf.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(conf.LogFile), 0755); err != nil {
			return nil, err
		}
		logFileName := conf.LogFile
		if strings.HasSuffix(logFileName, "/") {
			logFileName += "udt.log"
		}
		out = &lumberjack.Logger{
			Filename: logFileName,
			MaxSize:  512, // MB
			Compress: true,
		}
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   g.ProgramName,
		Level:  logLevel,
		Output: out,
	})
	g.Logger = logger
	return logger, nil
}

// openCatalog builds the type catalog for the configured source. The returned
// cleanup func releases the source.
func openCatalog(ctx context.Context, conf *config.Config, logger hclog.Logger) (*catalog.Catalog, func(), error) {
	opts := []catalog.Option{catalog.WithDefaultSchema(conf.DefaultSchema)}
	cleanup := func() {}

	if conf.Source == config.SourceOracle {
		db, err := oracleconfig.NewDB(ctx, conf.Oracle)
		if err != nil {
			return nil, nil, errors.Wrap(err, "error connecting to oracle")
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Warn("close oracle connection", "err", err)
			}
		}
		loader := dictionary.NewLoader(logger, db, int(conf.MaxBytesPerCharacter))
		opts = append(opts, catalog.WithSource(loader))
		logger.Info("using oracle data dictionary", "connect", conf.Oracle.ConnectString(), "user", conf.Oracle.User)
	}

	c, err := catalog.New(logger, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if conf.CatalogFile != "" {
		if err := c.LoadFile(conf.CatalogFile); err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.Info("loaded catalog", "file", conf.CatalogFile)
	}
	return c, cleanup, nil
}
