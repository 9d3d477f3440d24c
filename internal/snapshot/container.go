package snapshot

import (
	"context"

	"github.com/xuleilx/tscontainer/pkg/ordered"
)

// SaveMap writes a point-in-time copy of m, taken under one shared
// acquisition, and returns the number of entries saved.
func (s *Store) SaveMap(ctx context.Context, m *ordered.Map[string, []byte]) (int, error) {
	entries := m.Entries()
	n, err := s.write(ctx, func(yield func(string, []byte) bool) {
		for _, e := range entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("map snapshot saved", "entries", n)
	return n, nil
}

// RestoreMap replaces the contents of m with the stored image.
func (s *Store) RestoreMap(ctx context.Context, m *ordered.Map[string, []byte]) (int, error) {
	var entries []ordered.Entry[string, []byte]
	n, err := s.read(ctx, func(k string, v []byte) {
		entries = append(entries, ordered.Entry[string, []byte]{Key: k, Value: v})
	})
	if err != nil {
		return 0, err
	}
	m.AssignEntries(entries...)
	s.logger.Info("map snapshot restored", "entries", n)
	return n, nil
}

// SaveSet writes a point-in-time copy of set.
func (s *Store) SaveSet(ctx context.Context, set *ordered.Set[string]) (int, error) {
	items := set.Items()
	n, err := s.write(ctx, func(yield func(string, []byte) bool) {
		for _, k := range items {
			if !yield(k, nil) {
				return
			}
		}
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("set snapshot saved", "entries", n)
	return n, nil
}

// RestoreSet replaces the contents of set with the stored keys.
func (s *Store) RestoreSet(ctx context.Context, set *ordered.Set[string]) (int, error) {
	var items []string
	n, err := s.read(ctx, func(k string, _ []byte) {
		items = append(items, k)
	})
	if err != nil {
		return 0, err
	}
	set.AssignItems(items...)
	s.logger.Info("set snapshot restored", "entries", n)
	return n, nil
}
