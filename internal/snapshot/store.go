package snapshot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgraph-io/badger/v3"
)

// Common errors
var (
	ErrEmptyDir = errors.New("snapshot: dir is required")
	ErrNoImage  = errors.New("snapshot: store holds no image")
	ErrCorrupt  = errors.New("snapshot: image is inconsistent")
)

var (
	entryPrefix = []byte("e/")
	metaImage   = []byte("meta/image")
)

// image is the metadata record naming the current generation.
type image struct {
	gen   uint64
	count uint64
}

func (im image) encode() []byte {
	raw := make([]byte, 16)
	binary.BigEndian.PutUint64(raw[:8], im.gen)
	binary.BigEndian.PutUint64(raw[8:], im.count)
	return raw
}

func decodeImage(raw []byte) (image, error) {
	if len(raw) != 16 {
		return image{}, fmt.Errorf("%w: image record has %d bytes", ErrCorrupt, len(raw))
	}
	return image{
		gen:   binary.BigEndian.Uint64(raw[:8]),
		count: binary.BigEndian.Uint64(raw[8:]),
	}, nil
}

// checkEvery is how many entries are written or read between cancellation checks.
const checkEvery = 4096

// Options configures a Store.
type Options struct {
	// SyncWrites makes every write durable before it returns.
	SyncWrites bool
	// Logger receives Badger's own log lines. Nil uses slog.Default.
	Logger *slog.Logger
}

// Store is a Badger database holding one container image.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens or creates a store in dir.
func Open(dir string, opts Options) (*Store, error) {
	if dir == "" {
		return nil, ErrEmptyDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bopts := badger.DefaultOptions(dir).
		WithLogger(&badgerLogger{logger: logger}).
		WithSyncWrites(opts.SyncWrites).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", dir, err)
	}

	logger.Debug("snapshot store opened", "dir", dir)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// write stores kvs, which must be in ascending key order, as a new
// generation. The image record moves to it only after every entry is flushed,
// so a failed write leaves the previous image readable.
func (s *Store) write(ctx context.Context, kvs func(yield func(k string, v []byte) bool)) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("snapshot: write entries: %w", err)
	}
	prev, found, err := s.current()
	if err != nil {
		return 0, err
	}
	gen := prev.gen + 1
	if !found {
		gen = 1
	}

	n, err := s.writeEntries(ctx, gen, kvs)
	if err != nil {
		if derr := s.db.DropPrefix(genPrefix(gen)); derr != nil {
			s.logger.Warn("discard partial generation failed", "gen", gen, "error", derr)
		}
		return 0, err
	}

	next := image{gen: gen, count: uint64(n)}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaImage, next.encode())
	}); err != nil {
		return 0, fmt.Errorf("snapshot: write metadata: %w", err)
	}

	if found {
		if err := s.db.DropPrefix(genPrefix(prev.gen)); err != nil {
			s.logger.Warn("drop previous generation failed", "gen", prev.gen, "error", err)
		}
	}
	return n, nil
}

func (s *Store) writeEntries(ctx context.Context, gen uint64, kvs func(yield func(k string, v []byte) bool)) (int, error) {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	n := 0
	var werr error
	kvs(func(k string, v []byte) bool {
		if n%checkEvery == 0 {
			if werr = ctx.Err(); werr != nil {
				return false
			}
		}
		if werr = wb.Set(entryKey(gen, k), v); werr != nil {
			return false
		}
		n++
		return true
	})
	if werr != nil {
		return 0, fmt.Errorf("snapshot: write entries: %w", werr)
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("snapshot: flush: %w", err)
	}
	return n, nil
}

// current returns the stored image record, if any.
func (s *Store) current() (image, bool, error) {
	var im image
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaImage)
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		im, err = decodeImage(raw)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return image{}, false, nil
	}
	if err != nil {
		return image{}, false, fmt.Errorf("snapshot: read metadata: %w", err)
	}
	return im, true, nil
}

// read calls fn for every entry of the current image in ascending key order
// and checks the count against the image record.
func (s *Store) read(ctx context.Context, fn func(k string, v []byte)) (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaImage)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoImage
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		im, err := decodeImage(raw)
		if err != nil {
			return err
		}

		prefix := genPrefix(im.gen)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if n%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			fn(string(item.Key()[len(prefix):]), value)
			n++
		}

		if uint64(n) != im.count {
			return fmt.Errorf("%w: %d entries, metadata records %d", ErrCorrupt, n, im.count)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("snapshot: read: %w", err)
	}
	return n, nil
}

// Backup streams a full Badger backup of the store to w.
func (s *Store) Backup(w io.Writer) error {
	if _, err := s.db.Backup(w, 0); err != nil {
		return fmt.Errorf("snapshot: backup: %w", err)
	}
	return nil
}

// Load replaces the store's contents with a backup produced by Backup.
func (s *Store) Load(r io.Reader) error {
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("snapshot: clear before load: %w", err)
	}
	if err := s.db.Load(r, 256); err != nil {
		return fmt.Errorf("snapshot: load: %w", err)
	}
	s.logger.Info("snapshot backup loaded")
	return nil
}

// genPrefix is "e/" followed by the big-endian generation and "/".
func genPrefix(gen uint64) []byte {
	p := make([]byte, 0, len(entryPrefix)+9)
	p = append(p, entryPrefix...)
	p = binary.BigEndian.AppendUint64(p, gen)
	return append(p, '/')
}

func entryKey(gen uint64, k string) []byte {
	return append(genPrefix(gen), k...)
}
