package mapcore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vgraph/mapcore/artifact"
	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/host"
	"github.com/vgraph/mapcore/kfdb"
	"github.com/vgraph/mapcore/mapmodel"
	"github.com/vgraph/mapcore/valuecodec"
)

// fakeThread is a ThreadController test double that reports stopped as
// soon as RequestStop is called, so pauseThread never spins.
type fakeThread struct {
	stopped bool
	resumed bool
}

func (f *fakeThread) RequestStop() { f.stopped = true }
func (f *fakeThread) IsStopped() bool { return f.stopped }
func (f *fakeThread) Resume()       { f.resumed, f.stopped = true, false }

type fakeTracking struct {
	resetCalled bool
	lostCalled  bool
}

func (f *fakeTracking) Reset()   { f.resetCalled = true }
func (f *fakeTracking) SetLost() { f.lostCalled = true }

func defaultCapabilities() host.Capabilities {
	return host.Capabilities{
		BoW:         host.DefaultBoWComputer{},
		Pose:        host.DefaultPoseSetter{},
		Connections: host.DefaultConnectionUpdater{},
		NormalDepth: host.DefaultNormalDepthUpdater{},
		Database:    kfdb.New(),
		LocalMapper: &fakeThread{},
		Tracker:     &fakeThread{},
		Viewer:      &fakeThread{},
		Tracking:    &fakeTracking{},
	}
}

func identityPose() valuecodec.Pose {
	pose, err := valuecodec.PoseFromMatrix4([]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 1,
		0, 0, 0, 1,
	})
	if err != nil {
		panic(err)
	}

	return pose
}

// smallMap builds the spec.md §8 "small map" scenario: 3 keyframes, 10
// landmarks, one shared intrinsics matrix, keyframe 1 bridging both
// landmark groups so every non-root keyframe has a covisibility parent.
func smallMap() *mapmodel.Map {
	m := mapmodel.NewMap()

	intr := valuecodec.Intrinsics{FX: 500, FY: 500, CX: 320, CY: 240}

	landmarks := make([]*mapmodel.Landmark, 10)
	for i := range landmarks {
		landmarks[i] = &mapmodel.Landmark{ID: uint32(i), Position: valuecodec.Position{float32(i), 0, 1}}
		m.AddLandmark(landmarks[i])
	}

	kf0 := &mapmodel.Keyframe{ID: 0, Pose: identityPose(), Timestamp: 1.0, Intrinsics: intr}
	kf1 := &mapmodel.Keyframe{ID: 1, Pose: identityPose(), Timestamp: 2.0, Intrinsics: intr}
	kf2 := &mapmodel.Keyframe{ID: 2, Pose: identityPose(), Timestamp: 3.0, Intrinsics: intr}

	for i := 0; i < 5; i++ {
		kf0.Features = append(kf0.Features, mapmodel.Feature{Keypoint: valuecodec.Keypoint{X: float32(i), Y: 1}, Landmark: landmarks[i]})
	}

	for i := 0; i < 10; i++ {
		kf1.Features = append(kf1.Features, mapmodel.Feature{Keypoint: valuecodec.Keypoint{X: float32(i), Y: 2}, Landmark: landmarks[i]})
	}

	for i := 5; i < 10; i++ {
		kf2.Features = append(kf2.Features, mapmodel.Feature{Keypoint: valuecodec.Keypoint{X: float32(i), Y: 3}, Landmark: landmarks[i]})
	}

	m.AddKeyframe(kf0)
	m.AddKeyframe(kf1)
	m.AddKeyframe(kf2)

	return m
}

func TestSaveLoad_SmallMap_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "testmap.yaml")

	m := smallMap()

	require.NoError(t, Save(m, headerPath, defaultCapabilities()))

	loaded, report, err := Load(headerPath, defaultCapabilities(), WithGrid(mapmodel.GridGeometry{
		Cols: 10, Rows: 10,
		MinX: 0, MaxX: 20, MinY: 0, MaxY: 20,
		InvCellWidth: 0.5, InvCellHeight: 0.5,
	}))
	require.NoError(t, err)
	require.Empty(t, report.AbnormalLandmarks)

	require.Len(t, loaded.Keyframes, 3)
	require.Len(t, loaded.Landmarks, 10)

	require.Nil(t, loaded.Keyframes[0].Parent)
	require.NotNil(t, loaded.Keyframes[1].Parent)
	require.NotNil(t, loaded.Keyframes[2].Parent)

	for i := uint32(0); i < 5; i++ {
		require.Equal(t, uint32(0), loaded.Landmarks[i].ReferenceKeyframe.ID)
	}

	for i := uint32(5); i < 10; i++ {
		require.Equal(t, uint32(1), loaded.Landmarks[i].ReferenceKeyframe.ID)
	}
}

func TestSaveLoad_IntrinsicsTableDeduplicated(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "testmap.yaml")

	m := smallMap()
	require.NoError(t, Save(m, headerPath, defaultCapabilities()))

	h, err := readHeaderForTest(headerPath)
	require.NoError(t, err)
	require.Len(t, h.CameraMatrices, 1)
}

func TestSaveLoad_KInKeyframeSkipsTable(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "testmap.yaml")

	m := smallMap()
	require.NoError(t, Save(m, headerPath, defaultCapabilities(), WithSaveOptions(KInKeyframe)))

	h, err := readHeaderForTest(headerPath)
	require.NoError(t, err)
	require.Empty(t, h.CameraMatrices)

	loaded, _, err := Load(headerPath, defaultCapabilities())
	require.NoError(t, err)
	require.Len(t, loaded.Keyframes, 3)
}

func TestSaveLoad_LoopEdgeReciprocity(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "testmap.yaml")

	m := smallMap()
	kf5 := &mapmodel.Keyframe{ID: 5, Pose: identityPose(), Intrinsics: valuecodec.Intrinsics{FX: 500, FY: 500, CX: 320, CY: 240}}
	kf17 := &mapmodel.Keyframe{ID: 17, Pose: identityPose(), Intrinsics: valuecodec.Intrinsics{FX: 500, FY: 500, CX: 320, CY: 240}}
	mapmodel.AddLoopEdge(kf5, kf17)
	m.AddKeyframe(kf5)
	m.AddKeyframe(kf17)

	require.NoError(t, Save(m, headerPath, defaultCapabilities()))

	loaded, _, err := Load(headerPath, defaultCapabilities())
	require.NoError(t, err)

	_, ok5 := loaded.Keyframes[5].LoopEdges[17]
	_, ok17 := loaded.Keyframes[17].LoopEdges[5]
	require.True(t, ok5)
	require.True(t, ok17)
}

func TestSaveLoad_NoLoopsDropsLoopEdges(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "testmap.yaml")

	m := smallMap()
	kf5 := &mapmodel.Keyframe{ID: 5, Pose: identityPose(), Intrinsics: valuecodec.Intrinsics{FX: 500, FY: 500, CX: 320, CY: 240}}
	kf17 := &mapmodel.Keyframe{ID: 17, Pose: identityPose(), Intrinsics: valuecodec.Intrinsics{FX: 500, FY: 500, CX: 320, CY: 240}}
	mapmodel.AddLoopEdge(kf5, kf17)
	m.AddKeyframe(kf5)
	m.AddKeyframe(kf17)

	require.NoError(t, Save(m, headerPath, defaultCapabilities(), WithSaveOptions(NoLoops)))

	loaded, _, err := Load(headerPath, defaultCapabilities())
	require.NoError(t, err)
	require.Empty(t, loaded.Keyframes[5].LoopEdges)
	require.Empty(t, loaded.Keyframes[17].LoopEdges)
}

func TestSaveLoad_DanglingLandmarkReferenceSurvivesAsNoLandmark(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "testmap.yaml")

	m := mapmodel.NewMap()
	kf := &mapmodel.Keyframe{ID: 0, Pose: identityPose(), Intrinsics: valuecodec.Intrinsics{FX: 500, FY: 500, CX: 320, CY: 240}}
	kf.Features = append(kf.Features, mapmodel.Feature{Keypoint: valuecodec.Keypoint{X: 1, Y: 1}, Landmark: &mapmodel.Landmark{ID: 999}})
	m.AddKeyframe(kf)

	// The dangling landmark is deliberately never added to m, and
	// depuration is disabled so save doesn't repair the reference itself
	// (depurate.Run would otherwise reclaim it into m before the write).
	require.NoError(t, Save(m, headerPath, defaultCapabilities(), WithSaveOptions(NoDepuration)))

	loaded, _, err := Load(headerPath, defaultCapabilities())
	require.NoError(t, err)
	require.Nil(t, loaded.Keyframes[0].Features[0].Landmark)
}

func TestSaveLoad_HostPauseResumeAroundCalls(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "testmap.yaml")

	m := smallMap()

	saveCaps := defaultCapabilities()
	require.NoError(t, Save(m, headerPath, saveCaps))
	require.True(t, saveCaps.LocalMapper.(*fakeThread).resumed)

	loadCaps := defaultCapabilities()
	_, _, err := Load(headerPath, loadCaps)
	require.NoError(t, err)
	require.True(t, loadCaps.Tracking.(*fakeTracking).resetCalled)
	require.True(t, loadCaps.Tracking.(*fakeTracking).lostCalled)
	require.True(t, loadCaps.Viewer.(*fakeThread).resumed)
}

func TestSaveLoad_WithTargetPublishesIntoSuppliedMap(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "testmap.yaml")

	m := smallMap()
	require.NoError(t, Save(m, headerPath, defaultCapabilities()))

	target := mapmodel.NewMap()
	loaded, _, err := Load(headerPath, defaultCapabilities(), WithTarget(target))
	require.NoError(t, err)
	require.Same(t, target, loaded)
	require.Len(t, target.Keyframes, 3)
}

func TestSaveLoad_WithTargetDoublePublishFailsWithoutClear(t *testing.T) {
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "testmap.yaml")

	m := smallMap()
	require.NoError(t, Save(m, headerPath, defaultCapabilities()))

	target := mapmodel.NewMap()
	_, _, err := Load(headerPath, defaultCapabilities(), WithTarget(target))
	require.NoError(t, err)

	_, _, err = Load(headerPath, defaultCapabilities(), WithTarget(target))
	require.ErrorIs(t, err, errs.ErrAlreadyPublished)

	target.Clear()
	_, _, err = Load(headerPath, defaultCapabilities(), WithTarget(target))
	require.NoError(t, err)
}

// readHeaderForTest reads the header directly by its absolute path,
// bypassing Load's chdir dance since the test already has the full path.
func readHeaderForTest(headerPath string) (artifact.Header, error) {
	return artifact.ReadHeader(headerPath)
}
