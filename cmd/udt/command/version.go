package command

import (
	"flag"
	"fmt"
	"runtime"
	"strings"

	"github.com/actiontech/udt/g"
	"github.com/mitchellh/cli"
)

type VersionCommand struct {
	Ui      cli.Ui
	Version string
	Branch  string
	Commit  string
}

func (c *VersionCommand) Help() string {
	helpText := `
Usage: udt version [-short]

  Prints the udt release and the git revision and Go toolchain it was
  built from.

Version Options:

  -short
    Print the release only.
`
	return strings.TrimSpace(helpText)
}

func (c *VersionCommand) Synopsis() string {
	return "Prints the udt version"
}

func (c *VersionCommand) Run(args []string) int {
	var short bool

	flags := flag.NewFlagSet("version", flag.ContinueOnError)
	flags.SetOutput(&uiErrorWriter{ui: c.Ui})
	flags.Usage = func() { c.Ui.Output(c.Help()) }
	flags.BoolVar(&short, "short", false, "")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	if short {
		c.Ui.Output(c.Version)
		return 0
	}
	c.Ui.Output(fmt.Sprintf("%s %s (git: %s %s)", g.ProgramName, c.Version, c.Branch, c.Commit))
	c.Ui.Output(fmt.Sprintf("built with %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH))
	return 0
}
