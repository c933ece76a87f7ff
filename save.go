package mapcore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vgraph/mapcore/artifact"
	"github.com/vgraph/mapcore/depurate"
	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/host"
	"github.com/vgraph/mapcore/internal/option"
	"github.com/vgraph/mapcore/intrinsics"
	"github.com/vgraph/mapcore/mapmodel"
	"github.com/vgraph/mapcore/record"
)

// SaveConfig holds Save's configurable behavior: the option bitmask to
// write with, whether to pause the host around the call, and the logger
// the depurator/artifact layer should use for non-fatal diagnostics.
type SaveConfig struct {
	options  Options
	pauseCtl bool
	logger   errs.Logger
}

// SaveOption configures a SaveConfig. See WithSaveOptions, WithSaveLogger
// and WithoutSaveHostPause.
type SaveOption = option.Option[*SaveConfig]

// WithSaveOptions sets the option bitmask Save writes with. Unset by
// default (zero value: descriptors and loop edges included, single-record
// features layout unless the feature count forces streaming, an
// intrinsics table rather than inline per-keyframe intrinsics).
func WithSaveOptions(o Options) SaveOption {
	return option.New(func(c *SaveConfig) { c.options = o })
}

// WithSaveLogger installs the logger non-fatal save-time diagnostics are
// reported through (currently none originate in Save itself, but the
// option exists for parity with Load and future depurator diagnostics).
func WithSaveLogger(l errs.Logger) SaveOption {
	return option.New(func(c *SaveConfig) { c.logger = l })
}

// WithoutSaveHostPause skips the host local-mapper pause/resume around
// Save. Callers that have already paused the host themselves (e.g. to
// bracket several related calls) use this to avoid a redundant pause.
func WithoutSaveHostPause() SaveOption {
	return option.New(func(c *SaveConfig) { c.pauseCtl = false })
}

// Save encodes m's current landmarks and keyframes to the three binary
// artifacts and writes the yaml header at headerPath, following spec.md
// §4.7's eight-step sequence. Artifact filenames are derived from
// headerPath's base name (with any .yaml suffix stripped) and resolved
// relative to headerPath's directory.
func Save(m *mapmodel.Map, headerPath string, caps host.Capabilities, opts ...SaveOption) error {
	cfg := &SaveConfig{pauseCtl: true}
	option.Apply(cfg, opts...)

	if cfg.pauseCtl {
		pauseThread(caps.LocalMapper)
		defer resumeThread(caps.LocalMapper)
	}

	dir, base, err := splitHeaderPath(headerPath)
	if err != nil {
		return err
	}

	restore, err := chdir(dir)
	if err != nil {
		return err
	}
	defer restore()

	if !cfg.options.Has(NoDepuration) {
		depurate.Run(m, depurate.Options{NoAppendFoundLandmarks: cfg.options.Has(NoAppendFoundMappoints)})
	}

	landmarks := m.SortedLandmarks()
	keyframes := m.SortedKeyframes()

	table, indexMap := buildIntrinsicsTable(keyframes, cfg.options)

	landmarkArr := record.LandmarkArray{Landmarks: toLandmarkRecords(landmarks)}
	keyframeArr := record.KeyframeArray{Keyframes: toKeyframeRecords(keyframes, indexMap, cfg.options)}
	featureBlocks := toFeatureBlocks(keyframes)

	mappointsFile := base + ".mappoints"
	keyframesFile := base + ".keyframes"
	featuresFile := base + ".features"

	h := artifact.Header{
		Options: cfg.options,
	}

	var mappointsSize, keyframesSize, featuresSize int64

	if !cfg.options.Has(NoMappointsFile) {
		if err := artifact.WriteMappoints(mappointsFile, landmarkArr, cfg.options); err != nil {
			return err
		}

		h.MappointsFile = mappointsFile
		h.NMappoints = len(landmarkArr.Landmarks)
		mappointsSize = fileSize(mappointsFile)
	}

	if !cfg.options.Has(NoKeyframesFile) {
		if err := artifact.WriteKeyframes(keyframesFile, keyframeArr, cfg.options); err != nil {
			return err
		}

		h.KeyframesFile = keyframesFile
		h.NKeyframes = len(keyframeArr.Keyframes)
		keyframesSize = fileSize(keyframesFile)
	}

	if !cfg.options.Has(NoFeaturesFile) {
		delimited, err := artifact.WriteFeatures(featuresFile, featureBlocks, cfg.options)
		if err != nil {
			return err
		}

		if delimited {
			cfg.options |= FeaturesFileDelimited
			h.Options = cfg.options
		}

		h.FeaturesFile = featuresFile
		h.NFeatures = artifact.CountFeatures(featureBlocks)
		featuresSize = fileSize(featuresFile)
	}

	if table != nil {
		h.CameraMatrices = artifact.KTuplesFromIntrinsics(table.Values())
	}

	h.OptionsDescriptions = h.Options.Describe()
	h.Checksum = artifact.Checksum(mappointsSize, keyframesSize, featuresSize, h.NMappoints, h.NKeyframes, h.NFeatures)

	if err := artifact.WriteHeader(base+".yaml", h); err != nil {
		return err
	}

	if table != nil {
		table.Reset()
	}

	return nil
}

// splitHeaderPath strips an optional .yaml suffix from headerPath's base
// name, returning the directory to chdir into and the resulting base name
// artifact filenames are derived from.
func splitHeaderPath(headerPath string) (dir, base string, err error) {
	dir = filepath.Dir(headerPath)

	base = filepath.Base(headerPath)
	if ext := filepath.Ext(base); ext == ".yaml" {
		base = strings.TrimSuffix(base, ext)
	}

	return dir, base, nil
}

// chdir changes into dir and returns a function that restores the
// previous working directory, per spec.md §6's working-directory contract.
func chdir(dir string) (restore func(), err error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: getwd: %v", errs.ErrIO, err)
	}

	if err := os.Chdir(dir); err != nil {
		return nil, fmt.Errorf("%w: chdir %s: %v", errs.ErrIO, dir, err)
	}

	return func() { _ = os.Chdir(prev) }, nil
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}

	return fi.Size()
}

// buildIntrinsicsTable deduplicates every keyframe's resolved intrinsics
// under DELTA-tolerance equality, unless the caller asked for inline
// per-keyframe intrinsics instead of a shared table.
func buildIntrinsicsTable(keyframes []*mapmodel.Keyframe, opts Options) (*intrinsics.Table, intrinsics.IndexMap) {
	if opts.Has(KInKeyframe) {
		return nil, nil
	}

	table := intrinsics.NewTable()

	var maxID uint32
	for _, kf := range keyframes {
		if kf.ID > maxID {
			maxID = kf.ID
		}
	}

	indexMap := intrinsics.NewIndexMap(maxID)

	for _, kf := range keyframes {
		row := table.Index(intrinsics.Source{Key: &kf.Intrinsics, Values: kf.Intrinsics})
		indexMap.Set(kf.ID, uint32(row))
	}

	return table, indexMap
}

func toLandmarkRecords(landmarks []*mapmodel.Landmark) []record.Landmark {
	out := make([]record.Landmark, len(landmarks))
	for i, l := range landmarks {
		out[i] = record.Landmark{
			ID:            l.ID,
			Position:      l.Position,
			Visible:       l.Visible,
			Found:         l.Found,
			Descriptor:    l.Descriptor,
			HasDescriptor: l.HasDescriptor,
		}
	}

	return out
}

func toKeyframeRecords(keyframes []*mapmodel.Keyframe, indexMap intrinsics.IndexMap, opts Options) []record.Keyframe {
	out := make([]record.Keyframe, len(keyframes))

	for i, kf := range keyframes {
		kr := record.Keyframe{
			ID:               kf.ID,
			Pose:             kf.Pose,
			Timestamp:        kf.Timestamp,
			LoopEdgePartners: kf.SmallerLoopEdgePartners(),
		}

		if opts.Has(KInKeyframe) {
			kr.HasKInline, kr.KInline = true, kf.Intrinsics
		} else {
			kr.HasKIndex, kr.KIndex = true, indexMap.Get(kf.ID)
		}

		out[i] = kr
	}

	return out
}

func toFeatureBlocks(keyframes []*mapmodel.Keyframe) []record.FeatureBlock {
	out := make([]record.FeatureBlock, len(keyframes))

	for i, kf := range keyframes {
		fb := record.FeatureBlock{KeyframeID: kf.ID}

		for _, f := range kf.Features {
			rf := record.Feature{
				Keypoint:      f.Keypoint,
				HasDescriptor: f.HasDescriptor,
				Descriptor:    f.Descriptor,
			}

			if f.Landmark != nil {
				rf.HasLandmarkID, rf.LandmarkID = true, f.Landmark.ID
			}

			fb.Features = append(fb.Features, rf)
		}

		out[i] = fb
	}

	return out
}
