package mapcore

import (
	"github.com/vgraph/mapcore/artifact"
	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/host"
	"github.com/vgraph/mapcore/internal/option"
	"github.com/vgraph/mapcore/mapmodel"
	"github.com/vgraph/mapcore/rebuild"
	"github.com/vgraph/mapcore/record"
)

// LoadConfig holds Load's configurable behavior: the shared grid geometry
// the rebuilder needs (never persisted, supplied by the host), the logger
// non-fatal decode diagnostics go through, and whether to pause the host
// around the call.
type LoadConfig struct {
	grid     mapmodel.GridGeometry
	logger   errs.Logger
	pauseCtl bool
	target   *mapmodel.Map
}

// LoadOption configures a LoadConfig. See WithGrid, WithLoadLogger and
// WithoutLoadHostPause.
type LoadOption = option.Option[*LoadConfig]

// WithGrid supplies the feature-grid geometry the rebuilder buckets every
// keyframe's features into. Required for RebuildGrid to place anything;
// the zero value leaves every keyframe's grid empty.
func WithGrid(geom mapmodel.GridGeometry) LoadOption {
	return option.New(func(c *LoadConfig) { c.grid = geom })
}

// WithLoadLogger installs the logger dangling-reference and
// missing-owning-keyframe warnings (spec.md §7) are reported through.
func WithLoadLogger(l errs.Logger) LoadOption {
	return option.New(func(c *LoadConfig) { c.logger = l })
}

// WithoutLoadHostPause skips the tracker reset and local-mapper/viewer
// pause/resume around Load.
func WithoutLoadHostPause() LoadOption {
	return option.New(func(c *LoadConfig) { c.pauseCtl = false })
}

// WithTarget has Load publish the rebuilt vectors directly into target
// instead of only returning a freestanding Map, matching spec.md's
// "rebuilder → publish vectors into Map" control flow. Load guards this
// with target.Publish, so reusing the same target across two Load calls
// without an intervening target.Clear() fails with ErrAlreadyPublished
// rather than silently merging two maps together.
func WithTarget(target *mapmodel.Map) LoadOption {
	return option.New(func(c *LoadConfig) { c.target = target })
}

// Load parses the header at headerPath, decodes the three binary
// artifacts it names and invokes the rebuilder, following spec.md §4.7's
// seven-step load sequence. Without WithTarget it returns a freestanding
// Map the caller installs themselves; with WithTarget it publishes the
// rebuilt vectors directly into the supplied Map (see WithTarget) and
// returns that same Map.
func Load(headerPath string, caps host.Capabilities, opts ...LoadOption) (*mapmodel.Map, rebuild.Report, error) {
	cfg := &LoadConfig{pauseCtl: true}
	option.Apply(cfg, opts...)

	if cfg.pauseCtl {
		if caps.Tracking != nil {
			caps.Tracking.Reset()
		}

		pauseThread(caps.LocalMapper)
		pauseThread(caps.Viewer)
	}

	dir, base, err := splitHeaderPath(headerPath)
	if err != nil {
		return nil, rebuild.Report{}, err
	}

	restore, err := chdir(dir)
	if err != nil {
		return nil, rebuild.Report{}, err
	}
	defer restore()

	h, err := artifact.ReadHeader(base + ".yaml")
	if err != nil {
		return nil, rebuild.Report{}, err
	}

	var (
		landmarkArr   record.LandmarkArray
		keyframeArr   record.KeyframeArray
		featureBlocks []record.FeatureBlock

		mappointsSize, keyframesSize, featuresSize int64
	)

	if !h.Options.Has(NoMappointsFile) && h.MappointsFile != "" {
		landmarkArr, err = artifact.ReadMappoints(h.MappointsFile)
		if err != nil {
			return nil, rebuild.Report{}, err
		}

		mappointsSize = fileSize(h.MappointsFile)
	}

	if !h.Options.Has(NoKeyframesFile) && h.KeyframesFile != "" {
		keyframeArr, err = artifact.ReadKeyframes(h.KeyframesFile)
		if err != nil {
			return nil, rebuild.Report{}, err
		}

		keyframesSize = fileSize(h.KeyframesFile)
	}

	if !h.Options.Has(NoFeaturesFile) && h.FeaturesFile != "" {
		featureBlocks, err = artifact.ReadFeatures(h.FeaturesFile, h.Options, cfg.logger)
		if err != nil {
			return nil, rebuild.Report{}, err
		}

		featuresSize = fileSize(h.FeaturesFile)
	}

	if err := artifact.VerifyChecksum(h, mappointsSize, keyframesSize, featuresSize, h.NMappoints, h.NKeyframes, h.NFeatures); err != nil {
		return nil, rebuild.Report{}, err
	}

	in := rebuild.Input{
		Landmarks:       landmarkArr.Landmarks,
		Keyframes:       keyframeArr.Keyframes,
		FeatureBlocks:   featureBlocks,
		IntrinsicsTable: artifact.IntrinsicsFromKTuples(h.CameraMatrices),
	}

	rcfg := rebuild.Config{
		NoLoops:      h.Options.Has(NoLoops),
		NoSetBad:     h.Options.Has(NoSetBad),
		Grid:         cfg.grid,
		Capabilities: caps,
		Logger:       cfg.logger,
	}

	m, report, err := rebuild.Run(in, rcfg)
	if err != nil {
		return nil, rebuild.Report{}, err
	}

	if cfg.target != nil {
		if err := cfg.target.Publish(); err != nil {
			return nil, rebuild.Report{}, err
		}

		cfg.target.Landmarks = m.Landmarks
		cfg.target.Keyframes = m.Keyframes
		cfg.target.KeyframeOrigins = m.KeyframeOrigins
		cfg.target.MaxKeyframeID = m.MaxKeyframeID
		cfg.target.NextKeyframeID = m.NextKeyframeID
		cfg.target.MaxLandmarkID = m.MaxLandmarkID
		cfg.target.NextLandmarkID = m.NextLandmarkID
		m = cfg.target
	}

	if cfg.pauseCtl {
		if caps.Tracking != nil {
			caps.Tracking.SetLost()
		}

		resumeThread(caps.Viewer)
	}

	return m, report, nil
}
