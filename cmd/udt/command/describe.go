package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/actiontech/udt/config"
	"github.com/actiontech/udt/driver/oracle/udt"
	"github.com/actiontech/udt/g"
	"github.com/actiontech/udt/helper/metrics"
)

type DescribeCommand struct {
	Meta
}

func (c *DescribeCommand) Help() string {
	helpText := `
Usage: udt describe [options] <type> [<type>...]

  Describe Oracle object and collection types. Each type name may be
  qualified with its schema, e.g. HR.EMPLOYEE_T. Quoted names keep
  their case.

General Options:

  ` + generalOptionsUsage() + `

Describe Options:

  -attributes=<bool>
    List the attributes of object types. Defaults to true.
`
	return strings.TrimSpace(helpText)
}

func (c *DescribeCommand) Synopsis() string {
	return "Describe object types"
}

func (c *DescribeCommand) Run(args []string) int {
	var configPath, catalogPath, schema string
	var attributes bool

	flags := c.Meta.FlagSet("describe")
	flags.Usage = func() { c.Ui.Output(c.Help()) }
	flags.StringVar(&configPath, "config", "", "")
	flags.StringVar(&catalogPath, "catalog", "", "")
	flags.StringVar(&schema, "schema", "", "")
	flags.BoolVar(&attributes, "attributes", true, "")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	// Check that we got at least one type
	args = flags.Args()
	if len(args) == 0 {
		c.Ui.Error(c.Help())
		return 1
	}

	conf, err := loadConfig(configPath)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	if catalogPath != "" {
		conf.Source = config.SourceCatalog
		conf.CatalogFile = catalogPath
	}
	if schema != "" {
		conf.DefaultSchema = schema
	}
	if err := conf.Validate(); err != nil {
		c.Ui.Error(fmt.Sprintf("Invalid configuration: %s", err))
		return 1
	}

	logger, err := setupLogger(conf, c.Meta.logOutput())
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	m, err := metrics.Setup(conf.Metrics, logger)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error setting up metrics: %s", err))
		return 1
	}
	defer m.Shutdown()

	cat, cleanup, err := openCatalog(context.Background(), conf, logger)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error opening type source: %s", err))
		return 1
	}
	defer cleanup()

	conn, err := udt.NewConn(cat, udt.WithLogger(logger),
		udt.WithCharsetSizes(conf.MaxBytesPerCharacter, conf.NMaxBytesPerCharacter))
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	defer conn.Close()

	code := 0
	for i, name := range args {
		if i > 0 {
			c.Ui.Output("")
		}
		if err := c.describe(conn, name, attributes); err != nil {
			c.Ui.Error(fmt.Sprintf("Error describing type %q: %s", g.StrLim(name, g.LONG_LOG_LIMIT), err))
			code = 1
		}
	}
	return code
}

func (c *DescribeCommand) describe(conn *udt.Conn, name string, attributes bool) error {
	t, err := conn.GetObjectType(name)
	if err != nil {
		return err
	}
	defer t.Release()

	info, err := t.Info()
	if err != nil {
		return err
	}

	basic := []string{
		fmt.Sprintf("Schema|%s", info.Schema),
		fmt.Sprintf("Name|%s", info.Name),
		fmt.Sprintf("Collection|%v", info.IsCollection),
	}
	if info.IsCollection {
		elem := info.ElementTypeInfo
		basic = append(basic,
			fmt.Sprintf("Element Type|%s", elem),
			fmt.Sprintf("Element Native Type|%s", elem.DefaultNativeTypeNum))
	} else {
		basic = append(basic, fmt.Sprintf("Attributes|%d", info.NumAttributes))
	}
	c.Ui.Output(formatKV(basic))

	if info.IsCollection || !attributes || info.NumAttributes == 0 {
		return nil
	}

	attrs := make([]*udt.ObjectAttr, info.NumAttributes)
	defer func() {
		for _, a := range attrs {
			if a != nil {
				a.Release()
			}
		}
	}()
	if err := t.GetAttributes(attrs); err != nil {
		return err
	}

	out := make([]string, 0, len(attrs)+1)
	out = append(out, "Name|Type|Native Type|DB Size|Client Size")
	for _, a := range attrs {
		ai, err := a.Info()
		if err != nil {
			return err
		}
		ti := ai.TypeInfo
		out = append(out, fmt.Sprintf("%s|%s|%s|%d|%d",
			ai.Name, ti, ti.DefaultNativeTypeNum, ti.DBSizeInBytes, ti.ClientSizeInBytes))
	}
	c.Ui.Output("\nAttributes")
	c.Ui.Output(formatList(out))
	return nil
}
