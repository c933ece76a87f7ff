package depurate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vgraph/mapcore/mapmodel"
)

func TestRun_ClearsReferenceToBadLandmark(t *testing.T) {
	m := mapmodel.NewMap()
	bad := &mapmodel.Landmark{ID: 0, Bad: true}
	kf := &mapmodel.Keyframe{ID: 0, Features: []mapmodel.Feature{{Landmark: bad}}}
	m.AddKeyframe(kf)

	Run(m, Options{})

	require.Nil(t, kf.Features[0].Landmark)
}

func TestRun_ReclaimsUnindexedLandmark(t *testing.T) {
	m := mapmodel.NewMap()
	orphan := &mapmodel.Landmark{ID: 5}
	kf := &mapmodel.Keyframe{ID: 0, Features: []mapmodel.Feature{{Landmark: orphan}}}
	m.AddKeyframe(kf)

	Run(m, Options{})

	require.Same(t, orphan, m.Landmarks[5])
}

func TestRun_NoAppendFoundLandmarksDisablesReclamation(t *testing.T) {
	m := mapmodel.NewMap()
	orphan := &mapmodel.Landmark{ID: 5}
	kf := &mapmodel.Keyframe{ID: 0, Features: []mapmodel.Feature{{Landmark: orphan}}}
	m.AddKeyframe(kf)

	Run(m, Options{NoAppendFoundLandmarks: true})

	require.NotContains(t, m.Landmarks, uint32(5))
}
