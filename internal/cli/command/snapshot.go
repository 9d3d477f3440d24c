package command

import (
	"fmt"
	"math/rand"
	"os"
	"slices"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/xuleilx/tscontainer/internal/config"
	"github.com/xuleilx/tscontainer/internal/snapshot"
	"github.com/xuleilx/tscontainer/internal/stress"
	"github.com/xuleilx/tscontainer/internal/telemetry/logger"
	"github.com/xuleilx/tscontainer/pkg/ordered"
)

// SnapshotCommand returns the snapshot command.
func SnapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Save and restore an ordered map through Badger",
		Subcommands: []*cli.Command{
			snapshotSaveCommand(),
			snapshotRestoreCommand(),
		},
	}
}

func snapshotDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "dir",
		Usage: "Badger directory holding the image",
	}
}

func snapshotSaveCommand() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Fill a map with generated entries and save it",
		Flags: []cli.Flag{
			snapshotDirFlag(),
			&cli.IntFlag{
				Name:  "keys",
				Usage: "Number of entries to generate",
			},
			&cli.IntFlag{
				Name:  "value-size",
				Usage: "Size of each generated value in bytes",
			},
			&cli.StringFlag{
				Name:  "backup",
				Usage: "Also write a portable backup stream to this file",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Seed for generated keys and values (default: current time)",
			},
		},
		Action: runSnapshotSave,
	}
}

func snapshotRestoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Restore a map from the store and verify it",
		Flags: []cli.Flag{
			snapshotDirFlag(),
			&cli.StringFlag{
				Name:  "from-backup",
				Usage: "Load this backup stream into the store first",
			},
		},
		Action: runSnapshotRestore,
	}
}

// SaveResult describes a saved image.
type SaveResult struct {
	Dir     string        `json:"dir"`
	Entries int           `json:"entries"`
	Backup  string        `json:"backup,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// RestoreResult describes a restored image.
type RestoreResult struct {
	Dir     string        `json:"dir"`
	Entries int           `json:"entries"`
	First   string        `json:"first"`
	Last    string        `json:"last"`
	Digest  string        `json:"digest"`
	Elapsed time.Duration `json:"elapsed"`
}

func applySnapshotFlags(c *cli.Context, cfg *config.SnapshotSection) {
	if c.IsSet("dir") {
		cfg.Dir = c.String("dir")
	}
	if c.IsSet("keys") {
		cfg.Keys = c.Int("keys")
	}
	if c.IsSet("value-size") {
		cfg.ValueSize = c.Int("value-size")
	}
}

func openStore(rt *runtime) (*snapshot.Store, error) {
	return snapshot.Open(rt.cfg.Snapshot.Dir, snapshot.Options{
		SyncWrites: rt.cfg.Snapshot.SyncWrites,
		Logger:     logger.Slog(rt.log),
	})
}

func runSnapshotSave(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	applySnapshotFlags(c, &rt.cfg.Snapshot)
	if err := rt.verify(c); err != nil {
		return err
	}
	cfg := rt.cfg.Snapshot

	s := seed(c)
	r := rand.New(rand.NewSource(s))
	m := ordered.NewMap[string, []byte](rt.cfg.Container.Options(nil)...)
	for _, k := range stress.Keys(cfg.Keys, s, time.Now()) {
		v := make([]byte, cfg.ValueSize)
		r.Read(v)
		m.Put(k, v)
	}

	store, err := openStore(rt)
	if err != nil {
		return err
	}
	defer store.Close()

	start := time.Now()
	n, err := store.SaveMap(rt.context(c), m)
	if err != nil {
		return err
	}

	result := &SaveResult{Dir: cfg.Dir, Entries: n}
	if path := c.String("backup"); path != "" {
		if err := writeBackup(store, path); err != nil {
			return err
		}
		result.Backup = path
	}
	result.Elapsed = time.Since(start)
	return rt.print(c, result)
}

func runSnapshotRestore(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	applySnapshotFlags(c, &rt.cfg.Snapshot)
	if err := rt.verify(c); err != nil {
		return err
	}

	store, err := openStore(rt)
	if err != nil {
		return err
	}
	defer store.Close()

	start := time.Now()
	if path := c.String("from-backup"); path != "" {
		if err := loadBackup(store, path); err != nil {
			return err
		}
	}

	m := ordered.NewMap[string, []byte](rt.cfg.Container.Options(nil)...)
	n, err := store.RestoreMap(rt.context(c), m)
	if err != nil {
		return err
	}

	keys := m.Keys()
	if !slices.IsSorted(keys) {
		return fmt.Errorf("restored keys are out of order: %w", stress.ErrVerification)
	}
	result := &RestoreResult{
		Dir:     rt.cfg.Snapshot.Dir,
		Entries: n,
		Digest:  fmt.Sprintf("%016x", stress.Digest(slices.Values(keys))),
		Elapsed: time.Since(start),
	}
	if first, ok := m.Min(); ok {
		result.First = first.Key
	}
	if last, ok := m.Max(); ok {
		result.Last = last.Key
	}
	return rt.print(c, result)
}

func writeBackup(store *snapshot.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if err := store.Backup(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadBackup(store *snapshot.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()
	return store.Load(f)
}
