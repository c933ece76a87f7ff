package host

import (
	"sort"

	"github.com/vgraph/mapcore/mapmodel"
)

// DefaultConnectionUpdater rebuilds covisibility weights and the ordered
// connected-keyframe list by tallying, for each landmark kf observes, the
// other keyframes that also observe it — the edge weight spec.md's
// glossary defines as "number of shared observed landmarks."
//
// MinSharedLandmarks is the minimum weight an edge must carry to be kept,
// mirroring the covisibility graph's usual sparsification threshold; zero
// disables the threshold.
type DefaultConnectionUpdater struct {
	MinSharedLandmarks int
}

// UpdateConnections implements ConnectionUpdater. It counts only the
// observations already installed on kf's landmarks. During rebuild, phase
// A calls it (step 6) before installing kf's own observations (step 8), so
// each keyframe's connections cover only the earlier, smaller-id keyframes
// sharing its landmarks — consistent with an id-ordered pass.
func (u DefaultConnectionUpdater) UpdateConnections(kf *mapmodel.Keyframe) {
	counts := make(map[uint32]int)

	for _, f := range kf.Features {
		if f.Landmark == nil {
			continue
		}

		for _, obs := range f.Landmark.Observations {
			if obs.Keyframe.ID == kf.ID {
				continue
			}

			counts[obs.Keyframe.ID]++
		}
	}

	threshold := u.MinSharedLandmarks
	if threshold <= 0 {
		threshold = 1
	}

	weights := make(map[uint32]int, len(counts))
	ordered := make([]uint32, 0, len(counts))

	for id, weight := range counts {
		if weight < threshold {
			continue
		}

		weights[id] = weight
		ordered = append(ordered, id)
	}

	sort.Slice(ordered, func(i, j int) bool {
		if weights[ordered[i]] != weights[ordered[j]] {
			return weights[ordered[i]] > weights[ordered[j]]
		}

		return ordered[i] < ordered[j]
	})

	kf.ConnectedWeights = weights
	kf.OrderedConnected = ordered
}
