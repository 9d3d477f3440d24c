package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every Verify failure.
var ErrInvalid = errors.New("invalid configuration")

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	if err := verifyContainer(&cfg.Container); err != nil {
		return err
	}
	if err := verifyStress(&cfg.Stress); err != nil {
		return err
	}
	if err := verifySoak(&cfg.Soak); err != nil {
		return err
	}
	if err := verifySnapshot(&cfg.Snapshot); err != nil {
		return err
	}
	if err := verifyMetrics(&cfg.Metrics); err != nil {
		return err
	}
	if cfg.Shutdown.Timeout <= 0 {
		return invalid("shutdown.timeout must be positive")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return invalid("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}

func verifyContainer(cfg *ContainerSection) error {
	if cfg.Degree < 2 {
		return invalid("container.degree must be at least 2")
	}
	if cfg.FreeListSize < 0 {
		return invalid("container.free_list_size must not be negative")
	}
	switch cfg.Locker {
	case LockerStandard:
	case LockerDeadlock:
		if cfg.DeadlockTimeout <= 0 {
			return invalid("container.deadlock_timeout must be positive")
		}
	default:
		return invalid("container.locker %q is not one of %s, %s", cfg.Locker, LockerStandard, LockerDeadlock)
	}
	return nil
}

func verifyStress(cfg *StressSection) error {
	if cfg.Workers < 1 {
		return invalid("stress.workers must be at least 1")
	}
	if cfg.Keys < 1 {
		return invalid("stress.keys must be at least 1")
	}
	return nil
}

func verifySoak(cfg *SoakSection) error {
	if cfg.Duration <= 0 {
		return invalid("soak.duration must be positive")
	}
	if cfg.Workers < 1 {
		return invalid("soak.workers must be at least 1")
	}
	if cfg.Rate <= 0 {
		return invalid("soak.rate must be positive")
	}
	if cfg.Burst < 1 {
		return invalid("soak.burst must be at least 1")
	}
	if cfg.KeySpace < 1 {
		return invalid("soak.key_space must be at least 1")
	}
	if cfg.WriteRatio < 0 || cfg.WriteRatio > 1 {
		return invalid("soak.write_ratio must be within [0, 1]")
	}
	if cfg.ReportInterval <= 0 {
		return invalid("soak.report_interval must be positive")
	}
	return nil
}

func verifySnapshot(cfg *SnapshotSection) error {
	if cfg.Dir == "" {
		return invalid("snapshot.dir is required")
	}
	if cfg.Keys < 0 {
		return invalid("snapshot.keys must not be negative")
	}
	if cfg.ValueSize < 0 {
		return invalid("snapshot.value_size must not be negative")
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Addr == "" {
		return invalid("metrics.addr is required when metrics are enabled")
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		return invalid("metrics.path must start with /")
	}
	return nil
}
