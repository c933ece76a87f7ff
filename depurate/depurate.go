// Package depurate implements spec.md §4.5: the pre-write repair pass that
// keeps a keyframe's feature-to-landmark references consistent with the
// live Map's landmark set before save hands the snapshot to the entity
// codecs. It mutates the live Map; it is a repair, not a validation.
package depurate

import "github.com/vgraph/mapcore/mapmodel"

// Options controls the one behavior spec.md §4.5 makes optional:
// reclaiming a reachable-but-unindexed landmark into the Map's landmark
// set.
type Options struct {
	// NoAppendFoundLandmarks disables reclaiming a landmark referenced by
	// a keyframe's feature but absent from the Map's landmark set (the
	// NO_APPEND_FOUND_MAPPOINTS option bit).
	NoAppendFoundLandmarks bool
}

// Run walks every keyframe's features in id order and repairs each
// landmark reference:
//   - a reference to a landmark flagged bad is cleared;
//   - a reference to a landmark absent from m is reclaimed into m, unless
//     NoAppendFoundLandmarks disables reclamation.
//
// It does not touch the loop graph; loop-graph inconsistencies are left to
// the rebuilder.
func Run(m *mapmodel.Map, opts Options) {
	for _, kf := range m.SortedKeyframes() {
		for i, f := range kf.Features {
			if f.Landmark == nil {
				continue
			}

			if f.Landmark.Bad {
				kf.Features[i].Landmark = nil

				continue
			}

			if _, present := m.Landmarks[f.Landmark.ID]; !present && !opts.NoAppendFoundLandmarks {
				m.AddLandmark(f.Landmark)
			}
		}
	}
}
