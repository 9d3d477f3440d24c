package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/xuleilx/tscontainer/internal/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Validate the effective configuration",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	return rt.print(c, rt.cfg)
}

func configValidate(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if err := config.Verify(rt.cfg); err != nil {
		return err
	}

	source := "defaults"
	if path := rt.loader.FilePath(); path != "" {
		source = path
	}
	fmt.Fprintf(c.App.Writer, "Configuration is valid (%s)\n", source)
	return nil
}
