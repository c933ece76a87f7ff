// Package kfdb implements host.KeyFrameDatabase, a minimal bag-of-words
// inverted index the rebuilder reconstructs from scratch on load (phase A
// step 5 calls Add for every keyframe after its BoW vector is computed).
package kfdb

import (
	"encoding/binary"

	"github.com/vgraph/mapcore/mapmodel"
)

// Database is a bag-of-words inverted index keyed by the first 8 bytes of
// a keyframe's BoW vector (see host.DefaultBoWComputer). It is rebuilt,
// never persisted.
type Database struct {
	byWord map[uint64][]*mapmodel.Keyframe
}

// New returns an empty database.
func New() *Database {
	return &Database{byWord: make(map[uint64][]*mapmodel.Keyframe)}
}

// Add indexes kf under its BoW key. A keyframe with no BoW vector is
// skipped rather than indexed under a zero key.
func (d *Database) Add(kf *mapmodel.Keyframe) {
	if len(kf.BoW) < 8 {
		return
	}

	key := binary.LittleEndian.Uint64(kf.BoW[:8])
	d.byWord[key] = append(d.byWord[key], kf)
}

// Clear empties the index. The rebuilder calls this once before
// reprocessing keyframes on load (spec.md §4.6, the comment "Rebuilding
// map: keyFrameDatabase.clear()" in the original osmap source).
func (d *Database) Clear() {
	d.byWord = make(map[uint64][]*mapmodel.Keyframe)
}

// Query returns every keyframe sharing kf's exact BoW key, the simplest
// possible place-recognition candidate set for this stand-in vocabulary.
func (d *Database) Query(kf *mapmodel.Keyframe) []*mapmodel.Keyframe {
	if len(kf.BoW) < 8 {
		return nil
	}

	key := binary.LittleEndian.Uint64(kf.BoW[:8])

	return d.byWord[key]
}

// Len returns the number of distinct BoW buckets currently indexed.
func (d *Database) Len() int {
	return len(d.byWord)
}
