// Package snapshot persists ordered containers to Badger and restores them.
//
// A store holds one container image: entries under a per-generation "e/"
// key prefix and a metadata record naming the generation and its entry count.
// Saving writes a new generation and switches the record only once every
// entry is flushed, so a failed save leaves the previous image intact.
// Restoring replaces the whole container under a single exclusive
// acquisition, so readers see either the old contents or the restored ones.
package snapshot
