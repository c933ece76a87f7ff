package rebuild

import "github.com/vgraph/mapcore/mapmodel"

// runPhaseC records the highest keyframe id seen and the next-id counter
// that follows it — spec.md §4.6 phase C.
func runPhaseC(m *mapmodel.Map, keyframes []*mapmodel.Keyframe) {
	if len(keyframes) == 0 {
		return
	}

	last := keyframes[len(keyframes)-1]
	m.MaxKeyframeID = last.ID
	m.NextKeyframeID = last.ID + 1
}
