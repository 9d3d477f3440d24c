package config

import (
	"time"

	"github.com/xuleilx/tscontainer/pkg/ordered"
)

// Default configuration values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultDegree          = ordered.DefaultDegree
	DefaultLocker          = LockerStandard
	DefaultDeadlockTimeout = 30 * time.Second

	DefaultStressWorkers = 8
	DefaultStressKeys    = 10000

	DefaultSoakDuration       = time.Minute
	DefaultSoakWorkers        = 8
	DefaultSoakRate           = 5000
	DefaultSoakBurst          = 100
	DefaultSoakKeySpace       = 100000
	DefaultSoakWriteRatio     = 0.2
	DefaultSoakReportInterval = 10 * time.Second

	DefaultSnapshotDir       = "./tscontainer-snapshot"
	DefaultSnapshotKeys      = 10000
	DefaultSnapshotValueSize = 64

	DefaultMetricsAddr = "127.0.0.1:9108"
	DefaultMetricsPath = "/metrics"

	DefaultShutdownTimeout = 10 * time.Second
)

// Lock implementations accepted by ContainerSection.Locker.
const (
	LockerStandard = "standard"
	LockerDeadlock = "deadlock"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Container: ContainerSection{
			Degree:          DefaultDegree,
			Locker:          DefaultLocker,
			DeadlockTimeout: DefaultDeadlockTimeout,
		},
		Stress: StressSection{
			Workers: DefaultStressWorkers,
			Keys:    DefaultStressKeys,
		},
		Soak: SoakSection{
			Duration:       DefaultSoakDuration,
			Workers:        DefaultSoakWorkers,
			Rate:           DefaultSoakRate,
			Burst:          DefaultSoakBurst,
			KeySpace:       DefaultSoakKeySpace,
			WriteRatio:     DefaultSoakWriteRatio,
			ReportInterval: DefaultSoakReportInterval,
		},
		Snapshot: SnapshotSection{
			Dir:       DefaultSnapshotDir,
			Keys:      DefaultSnapshotKeys,
			ValueSize: DefaultSnapshotValueSize,
		},
		Metrics: MetricsSection{
			Enabled: true,
			Addr:    DefaultMetricsAddr,
			Path:    DefaultMetricsPath,
		},
		Shutdown: ShutdownSection{
			Timeout: DefaultShutdownTimeout,
		},
	}
}
