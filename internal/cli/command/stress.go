package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/xuleilx/tscontainer/internal/config"
	"github.com/xuleilx/tscontainer/internal/stress"
	"github.com/xuleilx/tscontainer/internal/telemetry/metric"
)

// StressCommand returns the stress command.
func StressCommand() *cli.Command {
	return &cli.Command{
		Name:  "stress",
		Usage: "Insert distinct keys from concurrent workers and verify the container",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of concurrent inserting workers",
			},
			&cli.IntFlag{
				Name:    "keys",
				Aliases: []string{"k"},
				Usage:   "Distinct keys inserted by each worker",
			},
			&cli.BoolFlag{
				Name:  "set",
				Usage: "Exercise a Set instead of a Map",
			},
			&cli.BoolFlag{
				Name:  "detect-deadlocks",
				Usage: "Use the deadlock-detecting lock",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Seed for key generation and insert order (default: current time)",
			},
			&cli.TimestampFlag{
				Name:   "key-time",
				Usage:  "ULID timestamp of generated keys, RFC 3339 (default: now)",
				Layout: time.RFC3339,
			},
		},
		Action: runStress,
	}
}

func runStress(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	cfg := rt.cfg

	if c.IsSet("workers") {
		cfg.Stress.Workers = c.Int("workers")
	}
	if c.IsSet("keys") {
		cfg.Stress.Keys = c.Int("keys")
	}
	if c.IsSet("set") {
		cfg.Stress.Set = c.Bool("set")
	}
	if c.Bool("detect-deadlocks") {
		cfg.Container.Locker = config.LockerDeadlock
	}
	if err := rt.verify(c); err != nil {
		return err
	}

	report, err := stress.Run(rt.context(c), stress.Params{
		Workers:      cfg.Stress.Workers,
		Keys:         cfg.Stress.Keys,
		Set:          cfg.Stress.Set,
		Seed:         seed(c),
		At:           keyTime(c),
		Options:      cfg.Container.Options(nil),
		FreeListSize: cfg.Container.FreeListSize,
		Metrics:      metric.Global(),
	})
	if err != nil {
		return err
	}
	return rt.print(c, report)
}

// keyTime returns the --key-time flag, or the zero time when it is unset.
func keyTime(c *cli.Context) time.Time {
	if ts := c.Timestamp("key-time"); ts != nil {
		return *ts
	}
	return time.Time{}
}

// seed returns the --seed flag, or the current time when it is unset.
func seed(c *cli.Context) int64 {
	if c.IsSet("seed") {
		return c.Int64("seed")
	}
	return time.Now().UnixNano()
}
