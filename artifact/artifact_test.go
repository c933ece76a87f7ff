package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/record"
	"github.com/vgraph/mapcore/valuecodec"
)

// appendTrailingGarbage appends a length prefix claiming more body bytes
// than actually follow, forcing ReadDelimited to fail with a framing error
// on the next read past the genuine messages.
func appendTrailingGarbage(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write([]byte{50})

	return err
}

func TestOptions_HasAndDescribe(t *testing.T) {
	o := NoLoops | KInKeyframe

	require.True(t, o.Has(NoLoops))
	require.True(t, o.Has(KInKeyframe))
	require.False(t, o.Has(NoDepuration))
	require.False(t, o.Has(FeaturesFileDelimited|KInKeyframe))

	require.Equal(t, []string{"NO_LOOPS", "K_IN_KEYFRAME"}, o.Describe())
	require.Empty(t, Options(0).Describe())
}

func TestHeader_WriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yaml")

	h := Header{
		MappointsFile:       "map.mappoints",
		KeyframesFile:       "map.keyframes",
		FeaturesFile:        "map.features",
		NMappoints:          3,
		NKeyframes:          2,
		NFeatures:           7,
		Options:             NoLoops | FeaturesFileDelimited,
		CameraMatrices:      []KTuple{{FX: 700, FY: 700, CX: 320, CY: 240}},
		OptionsDescriptions: (NoLoops | FeaturesFileDelimited).Describe(),
		Checksum:            0xdeadbeef,
	}

	require.NoError(t, WriteHeader(path, h))

	got, err := ReadHeader(path)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestHeader_KTupleIntrinsicsConversion(t *testing.T) {
	table := []valuecodec.Intrinsics{
		{FX: 700, FY: 705, CX: 320, CY: 240},
		{FX: 710, FY: 715, CX: 321, CY: 241},
	}

	rows := KTuplesFromIntrinsics(table)
	require.Len(t, rows, 2)
	require.Equal(t, float32(700), rows[0].FX)

	back := IntrinsicsFromKTuples(rows)
	require.Equal(t, table, back)
}

func TestChecksum_VerifyChecksum(t *testing.T) {
	sum := Checksum(10, 20, 30, 1, 2, 3)

	require.NoError(t, VerifyChecksum(Header{Checksum: sum}, 10, 20, 30, 1, 2, 3))

	err := VerifyChecksum(Header{Checksum: sum}, 10, 20, 31, 1, 2, 3)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)

	require.NoError(t, VerifyChecksum(Header{Checksum: 0}, 999, 999, 999, 9, 9, 9))
}

func sampleLandmarks() record.LandmarkArray {
	return record.LandmarkArray{Landmarks: []record.Landmark{
		{ID: 0, Position: valuecodec.Position{1, 2, 3}, Visible: 5, Found: 4, Descriptor: valuecodec.Descriptor{1}, HasDescriptor: true},
		{ID: 1, Position: valuecodec.Position{4, 5, 6}, Visible: 2, Found: 2},
	}}
}

func sampleKeyframes() record.KeyframeArray {
	pose, err := valuecodec.PoseFromMatrix4([]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	if err != nil {
		panic(err)
	}

	return record.KeyframeArray{Keyframes: []record.Keyframe{
		{ID: 0, Pose: pose, Timestamp: 1.5, HasKIndex: true, KIndex: 0},
		{ID: 1, Pose: pose, Timestamp: 2.5, HasKIndex: true, KIndex: 0, LoopEdgePartners: []uint32{0}},
	}}
}

func sampleFeatureBlocks(n int) []record.FeatureBlock {
	blocks := make([]record.FeatureBlock, 0, n)

	for kf := 0; kf < n; kf++ {
		blocks = append(blocks, record.FeatureBlock{
			KeyframeID: uint32(kf),
			Features: []record.Feature{
				{Keypoint: valuecodec.Keypoint{X: 1, Y: 2, Octave: 0, Angle: 0.1}, HasLandmarkID: true, LandmarkID: 0},
				{Keypoint: valuecodec.Keypoint{X: 3, Y: 4, Octave: 1, Angle: 0.2}},
			},
		})
	}

	return blocks
}

func TestMappoints_WriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.mappoints")

	arr := sampleLandmarks()
	require.NoError(t, WriteMappoints(path, arr, 0))

	got, err := ReadMappoints(path)
	require.NoError(t, err)
	require.Equal(t, arr, got)
}

func TestMappoints_NoFeaturesDescriptorsStillKeepsLandmarkDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.mappoints")

	arr := sampleLandmarks()
	require.NoError(t, WriteMappoints(path, arr, NoFeaturesDescriptors))

	got, err := ReadMappoints(path)
	require.NoError(t, err)
	require.True(t, got.Landmarks[0].HasDescriptor)
}

func TestFeatures_NoFeaturesDescriptorsOmitsFeatureDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.features")

	blocks := []record.FeatureBlock{{
		KeyframeID: 0,
		Features: []record.Feature{
			{Keypoint: valuecodec.Keypoint{X: 1, Y: 2}, HasLandmarkID: true, LandmarkID: 0, HasDescriptor: true, Descriptor: valuecodec.Descriptor{1}},
		},
	}}

	_, err := WriteFeatures(path, blocks, NoFeaturesDescriptors)
	require.NoError(t, err)

	got, err := ReadFeatures(path, NoFeaturesDescriptors, nil)
	require.NoError(t, err)
	require.False(t, got[0].Features[0].HasDescriptor)
}

func TestKeyframes_WriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.keyframes")

	arr := sampleKeyframes()
	require.NoError(t, WriteKeyframes(path, arr, 0))

	got, err := ReadKeyframes(path)
	require.NoError(t, err)
	require.Equal(t, arr, got)
}

func TestKeyframes_NoLoopsDropsLoopEdges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.keyframes")

	arr := sampleKeyframes()
	require.NoError(t, WriteKeyframes(path, arr, NoLoops))

	got, err := ReadKeyframes(path)
	require.NoError(t, err)
	require.Empty(t, got.Keyframes[1].LoopEdgePartners)
}

func TestFeatures_SingleRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.features")

	blocks := sampleFeatureBlocks(3)
	delimited, err := WriteFeatures(path, blocks, 0)
	require.NoError(t, err)
	require.False(t, delimited)

	got, err := ReadFeatures(path, 0, nil)
	require.NoError(t, err)
	require.Equal(t, blocks, got)
}

func TestFeatures_ForcedDelimitedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.features")

	blocks := sampleFeatureBlocks(5)
	delimited, err := WriteFeatures(path, blocks, FeaturesFileDelimited)
	require.NoError(t, err)
	require.True(t, delimited)

	got, err := ReadFeatures(path, FeaturesFileDelimited, nil)
	require.NoError(t, err)
	require.Equal(t, blocks, got)
}

func TestFeatures_AutomaticDelimitedAboveLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.features")

	blocks := []record.FeatureBlock{
		{KeyframeID: 0, Features: make([]record.Feature, FeatureMessageLimit)},
		{KeyframeID: 1, Features: make([]record.Feature, 1)},
	}
	for i := range blocks[0].Features {
		blocks[0].Features[i] = record.Feature{Keypoint: valuecodec.Keypoint{X: float32(i), Y: 1, Octave: 0, Angle: 0}}
	}
	blocks[1].Features[0] = record.Feature{Keypoint: valuecodec.Keypoint{X: 9, Y: 9, Octave: 0, Angle: 0}}

	delimited, err := WriteFeatures(path, blocks, 0)
	require.NoError(t, err)
	require.True(t, delimited)

	got, err := ReadFeatures(path, FeaturesFileDelimited, nil)
	require.NoError(t, err)
	require.Equal(t, CountFeatures(blocks), CountFeatures(got))
}

func TestPackFeatureGroups_SplitsAtLimit(t *testing.T) {
	blocks := []record.FeatureBlock{
		{KeyframeID: 0, Features: make([]record.Feature, FeatureMessageLimit-1)},
		{KeyframeID: 1, Features: make([]record.Feature, 2)},
		{KeyframeID: 2, Features: make([]record.Feature, 1)},
	}

	groups := packFeatureGroups(blocks)
	require.Len(t, groups, 2)
	require.Equal(t, []record.FeatureBlock{blocks[0]}, groups[0])
	require.Equal(t, []record.FeatureBlock{blocks[1], blocks[2]}, groups[1])
}

func TestCountFeatures(t *testing.T) {
	require.Equal(t, 6, CountFeatures(sampleFeatureBlocks(3)))
}

type warnLogger struct {
	warnings []string
}

func (l *warnLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, format)
}

func TestReadFeaturesDelimited_FramingErrorTreatedAsEndOfStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.features")

	blocks := sampleFeatureBlocks(2)
	_, err := WriteFeatures(path, blocks, FeaturesFileDelimited)
	require.NoError(t, err)

	require.NoError(t, appendTrailingGarbage(path))

	logger := &warnLogger{}

	got, err := ReadFeatures(path, FeaturesFileDelimited, logger)
	require.NoError(t, err)
	require.Equal(t, blocks, got)
	require.NotEmpty(t, logger.warnings)
}

func TestVerifyChecksum_MismatchWraps(t *testing.T) {
	err := VerifyChecksum(Header{Checksum: 1}, 1, 1, 1, 1, 1, 1)
	require.True(t, errors.Is(err, errs.ErrChecksumMismatch))
}
