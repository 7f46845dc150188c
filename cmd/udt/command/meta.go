package command

import (
	"bytes"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/cli"
	"github.com/ryanuber/columnize"
)

// Meta contains the meta-options and functionality that nearly every
// udt command inherits.
type Meta struct {
	Ui cli.Ui

	// LogOutput receives the logs of a command when no log_file is set.
	LogOutput io.Writer
}

// FlagSet returns a FlagSet whose errors are written to the Ui.
func (m *Meta) FlagSet(n string) *flag.FlagSet {
	f := flag.NewFlagSet(n, flag.ContinueOnError)

	f.SetOutput(&uiErrorWriter{ui: m.Ui})
	return f
}

// uiErrorWriter passes every complete line written to it to Ui.Error.
type uiErrorWriter struct {
	ui  cli.Ui
	buf bytes.Buffer
}

func (w *uiErrorWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			return len(p), nil
		}
		line := string(w.buf.Next(i + 1))
		w.ui.Error(strings.TrimSuffix(line, "\n"))
	}
}

func (m *Meta) logOutput() io.Writer {
	if m.LogOutput == nil {
		return os.Stderr
	}
	return m.LogOutput
}

// generalOptionsUsage returns the help string for the global options.
func generalOptionsUsage() string {
	helpText := `
  -config=<path>
    The path to a udt configuration file. Overrides the UDT_CONFIG_FILE
    environment variable if set.

  -catalog=<path>
    The path to an HCL type catalog. Selects the catalog source and
    overrides catalog_file from the configuration.

  -schema=<name>
    The schema used for type names that are not qualified.
`
	return strings.TrimSpace(helpText)
}

// formatKV takes a set of strings and formats them into properly
// aligned k = v pairs using the columnize library.
func formatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "
	return columnize.Format(in, columnConf)
}

// formatList takes a set of strings and formats them into properly
// aligned output, replacing any blank fields with a placeholder.
func formatList(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	return columnize.Format(in, columnConf)
}
