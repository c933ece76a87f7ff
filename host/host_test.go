package host

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vgraph/mapcore/mapmodel"
	"github.com/vgraph/mapcore/valuecodec"
)

func TestDefaultPoseSetter_DerivesCameraCenter(t *testing.T) {
	kf := &mapmodel.Keyframe{Pose: valuecodec.Identity4()}
	kf.Pose[3], kf.Pose[7], kf.Pose[11] = 1, 2, 3

	DefaultPoseSetter{}.SetPose(kf)

	require.Equal(t, [3]float32{-1, -2, -3}, kf.CameraCenter)
}

func TestDefaultConnectionUpdater_CountsSharedLandmarks(t *testing.T) {
	kfA := &mapmodel.Keyframe{ID: 0}
	kfB := &mapmodel.Keyframe{ID: 1}

	l0 := &mapmodel.Landmark{ID: 0}
	l0.AddObservation(kfA, 0)
	l0.AddObservation(kfB, 0)

	l1 := &mapmodel.Landmark{ID: 1}
	l1.AddObservation(kfA, 1)
	l1.AddObservation(kfB, 1)

	kfA.Features = []mapmodel.Feature{{Landmark: l0}, {Landmark: l1}}
	kfB.Features = []mapmodel.Feature{{Landmark: l0}, {Landmark: l1}}

	updater := DefaultConnectionUpdater{}
	updater.UpdateConnections(kfA)

	require.Equal(t, 2, kfA.ConnectedWeights[1])
	require.Equal(t, []uint32{1}, kfA.OrderedConnected)
}

func TestDefaultNormalDepthUpdater_SkipsEmptyObservationSet(t *testing.T) {
	l := &mapmodel.Landmark{ID: 0}

	DefaultNormalDepthUpdater{}.UpdateNormalAndDepth(l)

	require.Equal(t, [3]float32{}, l.Normal)
}

func TestDefaultNormalDepthUpdater_ComputesDistanceBand(t *testing.T) {
	kf := &mapmodel.Keyframe{ID: 0, CameraCenter: [3]float32{0, 0, 0}}
	l := &mapmodel.Landmark{ID: 0, Position: valuecodec.Position{0, 0, 10}}
	l.AddObservation(kf, 0)
	l.ReferenceKeyframe = kf

	DefaultNormalDepthUpdater{}.UpdateNormalAndDepth(l)

	require.Greater(t, l.MaxDistance, float32(0))
	require.Greater(t, l.MaxDistance, l.MinDistance)
}

func TestDefaultBoWComputer_DeterministicForSameDescriptors(t *testing.T) {
	kf1 := &mapmodel.Keyframe{Features: []mapmodel.Feature{
		{HasDescriptor: true, Descriptor: valuecodec.Descriptor{1, 2, 3}},
	}}
	kf2 := &mapmodel.Keyframe{Features: []mapmodel.Feature{
		{HasDescriptor: true, Descriptor: valuecodec.Descriptor{1, 2, 3}},
	}}

	DefaultBoWComputer{}.ComputeBoW(kf1)
	DefaultBoWComputer{}.ComputeBoW(kf2)

	require.Equal(t, kf1.BoW, kf2.BoW)
}
