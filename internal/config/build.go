package config

import (
	"io"
	"os"

	"github.com/xuleilx/tscontainer/internal/telemetry/logger"
	"github.com/xuleilx/tscontainer/pkg/ordered"
	"github.com/xuleilx/tscontainer/pkg/rwlock"
)

// LoggerConfig converts the section for logger.New. A nil out writes to stderr.
func (s LogSection) LoggerConfig(out io.Writer) logger.Config {
	if out == nil {
		out = os.Stderr
	}
	return logger.Config{
		Level:  s.Level,
		Format: s.Format,
		Output: out,
	}
}

// LockerFactory returns the lock implementation named by Locker.
func (s ContainerSection) LockerFactory() rwlock.Factory {
	if s.Locker == LockerDeadlock {
		return rwlock.DeadlockDetecting
	}
	return rwlock.Standard
}

// Options returns container options for this section. obs may be nil.
// Free lists are per element type and are left to the caller.
func (s ContainerSection) Options(obs rwlock.Observer) []ordered.Option {
	opts := []ordered.Option{
		ordered.WithDegree(s.Degree),
		ordered.WithLocker(s.LockerFactory()),
	}
	if obs != nil {
		opts = append(opts, ordered.WithObserver(obs))
	}
	return opts
}
