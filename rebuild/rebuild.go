// Package rebuild implements spec.md §4.6: the post-read pass that turns
// the disconnected records the entity codecs produce into a fully wired
// mapmodel.Map — observations, covisibility graph, spanning tree, feature
// grid, bag-of-words vectors, reference keyframes and normal/depth
// summaries, all reconstructed from the skeletal persisted form.
package rebuild

import (
	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/host"
	"github.com/vgraph/mapcore/mapmodel"
	"github.com/vgraph/mapcore/record"
	"github.com/vgraph/mapcore/valuecodec"
)

// Input bundles the three decoded record streams plus the intrinsics table
// a load needs to resolve each keyframe's calibration.
type Input struct {
	Landmarks       []record.Landmark
	Keyframes       []record.Keyframe
	FeatureBlocks   []record.FeatureBlock
	IntrinsicsTable []valuecodec.Intrinsics
}

// Config controls the two rebuild behaviors the option bitmask exposes,
// plus the host seams and shared grid geometry the algorithm needs.
type Config struct {
	NoLoops  bool
	NoSetBad bool

	Grid         mapmodel.GridGeometry
	Capabilities host.Capabilities
	Logger       errs.Logger
}

// Report surfaces the diagnostics the rebuild produced that callers may
// want to act on, beyond the published Map itself.
type Report struct {
	// AbnormalLandmarks lists landmark ids that reached phase D with an
	// empty observation set while NoSetBad was in effect (or whose id is
	// 0), per the open-question decision documented in DESIGN.md: such
	// landmarks are kept in the Map rather than silently dropped, but have
	// no reference keyframe or normal/depth summary.
	AbnormalLandmarks []uint32
}

// Run executes phases A through D and returns a freshly populated Map.
func Run(in Input, cfg Config) (*mapmodel.Map, Report, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = errs.NopLogger{}
	}

	m := mapmodel.NewMap()

	landmarks, err := assembleLandmarks(in.Landmarks)
	if err != nil {
		return nil, Report{}, err
	}

	keyframes, err := assembleKeyframes(in.Keyframes, in.IntrinsicsTable, cfg.NoLoops)
	if err != nil {
		return nil, Report{}, err
	}

	attachFeatures(in.FeatureBlocks, keyframes, landmarks, logger)

	orderedKeyframes := orderedKeyframeSlice(keyframes)
	runPhaseA(orderedKeyframes, cfg)

	runPhaseB(m, orderedKeyframes)

	runPhaseC(m, orderedKeyframes)

	orderedLandmarks := orderedLandmarkSlice(landmarks)
	report := runPhaseD(orderedLandmarks, cfg)

	if len(orderedLandmarks) > 0 {
		last := orderedLandmarks[len(orderedLandmarks)-1]
		m.MaxLandmarkID = last.ID
		m.NextLandmarkID = last.ID + 1
	}

	for _, kf := range orderedKeyframes {
		m.AddKeyframe(kf)
	}

	for _, l := range landmarks {
		m.AddLandmark(l)
	}

	return m, report, nil
}
