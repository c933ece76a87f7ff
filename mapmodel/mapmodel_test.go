package mapmodel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/valuecodec"
)

func TestLandmark_AddObservation(t *testing.T) {
	kf := &Keyframe{ID: 1}
	l := &Landmark{ID: 0}

	require.False(t, l.HasObservations())

	l.AddObservation(kf, 3)

	require.True(t, l.HasObservations())
	require.Equal(t, kf, l.Observations[0].Keyframe)
	require.Equal(t, 3, l.Observations[0].FeatureIndex)
}

func TestAddLoopEdge_Symmetric(t *testing.T) {
	a := &Keyframe{ID: 5}
	b := &Keyframe{ID: 17}

	AddLoopEdge(a, b)

	_, aHasB := a.LoopEdges[17]
	_, bHasA := b.LoopEdges[5]
	require.True(t, aHasB)
	require.True(t, bHasA)
}

func TestSmallerLoopEdgePartners(t *testing.T) {
	a := &Keyframe{ID: 17}
	b := &Keyframe{ID: 5}

	AddLoopEdge(a, b)

	require.Equal(t, []uint32{5}, a.SmallerLoopEdgePartners())
	require.Empty(t, b.SmallerLoopEdgePartners())
}

func TestRebuildGrid_DropsOutOfRangeFeature(t *testing.T) {
	kf := &Keyframe{Features: []Feature{
		{Keypoint: valuecodec.Keypoint{X: 1, Y: 1}},
		{Keypoint: valuecodec.Keypoint{X: 1000, Y: 1000}},
	}}

	geom := GridGeometry{Cols: 4, Rows: 4, InvCellWidth: 1, InvCellHeight: 1}
	kf.RebuildGrid(geom)

	require.Equal(t, []int{0}, kf.Grid[1][1])
}

func TestMap_SortedOrder(t *testing.T) {
	m := NewMap()
	m.AddKeyframe(&Keyframe{ID: 2})
	m.AddKeyframe(&Keyframe{ID: 0})
	m.AddKeyframe(&Keyframe{ID: 1})

	ids := make([]uint32, 0, 3)
	for _, kf := range m.SortedKeyframes() {
		ids = append(ids, kf.ID)
	}

	require.Equal(t, []uint32{0, 1, 2}, ids)
}

func TestMap_Clear(t *testing.T) {
	m := NewMap()
	m.AddLandmark(&Landmark{ID: 0})
	m.Clear()

	require.Empty(t, m.Landmarks)
	require.Empty(t, m.Keyframes)
}

func TestMap_KeyframeLookup(t *testing.T) {
	m := NewMap()
	kf := &Keyframe{ID: 3}
	m.AddKeyframe(kf)

	got, err := m.Keyframe(3)
	require.NoError(t, err)
	require.Same(t, kf, got)

	_, err = m.Keyframe(99)
	require.ErrorIs(t, err, errs.ErrKeyframeNotFound)
}

func TestMap_LandmarkLookup(t *testing.T) {
	m := NewMap()
	l := &Landmark{ID: 4}
	m.AddLandmark(l)

	got, err := m.Landmark(4)
	require.NoError(t, err)
	require.Same(t, l, got)

	_, err = m.Landmark(99)
	require.ErrorIs(t, err, errs.ErrLandmarkNotFound)
}
