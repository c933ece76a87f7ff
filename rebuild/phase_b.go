package rebuild

import "github.com/vgraph/mapcore/mapmodel"

// runPhaseB grows the spanning tree: the keyframe of smallest id becomes
// the sole root, then every parentless non-root keyframe adopts the first
// of its ordered covisibility connections that already has a parent (or is
// the root), repeating until a pass assigns nothing — spec.md §4.6 phase
// B. Convergence is guaranteed because every connected component contains
// the root and parent-assignment only ever grows.
func runPhaseB(m *mapmodel.Map, keyframes []*mapmodel.Keyframe) {
	m.KeyframeOrigins = nil

	if len(keyframes) == 0 {
		return
	}

	byID := make(map[uint32]*mapmodel.Keyframe, len(keyframes))
	for _, kf := range keyframes {
		byID[kf.ID] = kf
	}

	root := keyframes[0]
	root.HasParent = true
	m.KeyframeOrigins = append(m.KeyframeOrigins, root)

	for {
		assigned := 0

		for _, kf := range keyframes {
			if kf.HasParent || kf.ID == 0 {
				continue
			}

			for _, candidateID := range kf.OrderedConnected {
				candidate := byID[candidateID]
				if candidate == nil {
					continue
				}

				if candidate.HasParent || candidate.ID == 0 {
					kf.Parent = candidate
					kf.HasParent = true
					assigned++

					break
				}
			}
		}

		if assigned == 0 {
			break
		}
	}
}
