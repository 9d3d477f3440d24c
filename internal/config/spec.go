package config

import "time"

// Config is the root configuration for the tscontainer command.
type Config struct {
	Log       LogSection       `koanf:"log" json:"log"`
	Container ContainerSection `koanf:"container" json:"container"`
	Stress    StressSection    `koanf:"stress" json:"stress"`
	Soak      SoakSection      `koanf:"soak" json:"soak"`
	Snapshot  SnapshotSection  `koanf:"snapshot" json:"snapshot"`
	Metrics   MetricsSection   `koanf:"metrics" json:"metrics"`
	Shutdown  ShutdownSection  `koanf:"shutdown" json:"shutdown"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"`
}

// ContainerSection configures how workload containers are built.
type ContainerSection struct {
	// Degree is the B-tree degree of every container.
	Degree int `koanf:"degree" json:"degree"`

	// FreeListSize enables a shared node free list of this capacity.
	// Zero disables it.
	FreeListSize int `koanf:"free_list_size" json:"free_list_size"`

	// Locker selects the lock implementation: "standard" or "deadlock".
	Locker string `koanf:"locker" json:"locker"`

	// DeadlockTimeout is how long a deadlock-detecting lock may wait before
	// it reports a potential deadlock.
	DeadlockTimeout time.Duration `koanf:"deadlock_timeout" json:"deadlock_timeout"`
}

// StressSection configures the one-shot concurrent insert workload.
type StressSection struct {
	Workers int  `koanf:"workers" json:"workers"`
	Keys    int  `koanf:"keys" json:"keys"`
	Set     bool `koanf:"set" json:"set"`
}

// SoakSection configures the long-running mixed workload.
type SoakSection struct {
	Duration time.Duration `koanf:"duration" json:"duration"`
	Workers  int           `koanf:"workers" json:"workers"`

	// Rate is the total operations per second across workers.
	Rate  float64 `koanf:"rate" json:"rate"`
	Burst int     `koanf:"burst" json:"burst"`

	// KeySpace bounds the number of distinct keys touched.
	KeySpace int `koanf:"key_space" json:"key_space"`

	// WriteRatio is the fraction of operations that mutate, in [0, 1].
	WriteRatio float64 `koanf:"write_ratio" json:"write_ratio"`

	// ReportInterval is how often progress is logged.
	ReportInterval time.Duration `koanf:"report_interval" json:"report_interval"`
}

// SnapshotSection configures Badger snapshots.
type SnapshotSection struct {
	Dir        string `koanf:"dir" json:"dir"`
	Keys       int    `koanf:"keys" json:"keys"`
	ValueSize  int    `koanf:"value_size" json:"value_size"`
	SyncWrites bool   `koanf:"sync_writes" json:"sync_writes"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled" json:"enabled"`
	Addr    string `koanf:"addr" json:"addr"`
	Path    string `koanf:"path" json:"path"`
}

// ShutdownSection configures graceful shutdown.
type ShutdownSection struct {
	Timeout time.Duration `koanf:"timeout" json:"timeout"`
}
