package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/xuleilx/tscontainer/internal/cli/output"
	"github.com/xuleilx/tscontainer/internal/config"
	"github.com/xuleilx/tscontainer/internal/infra/buildinfo"
	"github.com/xuleilx/tscontainer/internal/infra/confloader"
	"github.com/xuleilx/tscontainer/internal/telemetry/logger"
	"github.com/xuleilx/tscontainer/pkg/rwlock"
)

const runtimeKey = "runtime"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "tscontainer",
		Usage:   "Exercise thread-safe ordered containers under concurrent load",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			StressCommand(),
			SoakCommand(),
			SnapshotCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: setup,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"TSCONTAINER_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: json, text",
		},
		&cli.StringFlag{
			Name:  "locker",
			Usage: "Container lock implementation: standard, deadlock",
		},
		&cli.IntFlag{
			Name:  "degree",
			Usage: "B-tree degree of workload containers",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
	}
}

// globalOverrides maps global flags to configuration keys.
var globalOverrides = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"locker":     "container.locker",
	"degree":     "container.degree",
}

// runtime is the state shared by every command of one invocation.
type runtime struct {
	cfg    *config.Config
	loader *confloader.Loader
	log    logger.Logger
	format output.Format
}

// setup loads configuration, builds the logger and stores both for the
// commands.
func setup(c *cli.Context) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	overrides := make(map[string]any)
	for flag, key := range globalOverrides {
		if c.IsSet(flag) {
			overrides[key] = c.Value(flag)
		}
	}

	loader := confloader.NewLoader(
		confloader.WithConfigFile(c.String("config")),
		confloader.WithOverrides(overrides),
	)
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(cfg.Log.LoggerConfig(c.App.ErrWriter))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	logger.SetDefault(log)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[runtimeKey] = &runtime{
		cfg:    cfg,
		loader: loader,
		log:    log,
		format: format,
	}
	return nil
}

// runtimeFrom returns the state stored by setup.
func runtimeFrom(c *cli.Context) (*runtime, error) {
	rt, ok := c.App.Metadata[runtimeKey].(*runtime)
	if !ok {
		return nil, errors.New("command runtime not initialized")
	}
	return rt, nil
}

// verify validates the configuration after command flags were applied and
// configures deadlock detection when selected.
func (rt *runtime) verify(c *cli.Context) error {
	if err := config.Verify(rt.cfg); err != nil {
		return err
	}
	if rt.cfg.Container.Locker == config.LockerDeadlock {
		rwlock.ConfigureDetection(rt.cfg.Container.DeadlockTimeout, c.App.ErrWriter, nil)
	}
	return nil
}

// context returns the command context carrying the configured logger.
func (rt *runtime) context(c *cli.Context) context.Context {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithLogger(ctx, rt.log)
}

// print renders v with the selected output format.
func (rt *runtime) print(c *cli.Context, v any) error {
	return output.NewFormatter(rt.format).Format(c.App.Writer, v)
}
