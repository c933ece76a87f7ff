package artifact

import (
	"bufio"
	"fmt"
	"os"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/internal/pool"
	"github.com/vgraph/mapcore/record"
	"github.com/vgraph/mapcore/wire"
)

// FeatureMessageLimit is the cumulative feature-count ceiling a single
// FeatureBlockArray record may hold before the writer must switch to the
// length-delimited-stream layout — the known size limit of the underlying
// tagged record codec (spec.md §9's "framing limit" design note).
const FeatureMessageLimit = 1_000_000

// WriteMappoints encodes arr as a single SerializedLandmarkArray record
// and writes it to path. The landmark descriptor is always included:
// NO_FEATURES_DESCRIPTORS only suppresses the per-feature copy, since a
// feature with an owning landmark can recover its descriptor from the
// landmark record alone.
func WriteMappoints(path string, arr record.LandmarkArray, opts Options) error {
	return os.WriteFile(path, arr.Marshal(false), 0o644)
}

// WriteKeyframes encodes arr as a single SerializedKeyframeArray record
// and writes it to path.
func WriteKeyframes(path string, arr record.KeyframeArray, opts Options) error {
	return os.WriteFile(path, arr.Marshal(opts.Has(NoLoops)), 0o644)
}

// WriteFeatures writes blocks to path using the single-record layout
// unless forced or automatically selected into the length-delimited
// stream layout, per spec.md §4.4. It returns the layout actually chosen
// so the caller can record the corresponding option bit in the header.
func WriteFeatures(path string, blocks []record.FeatureBlock, opts Options) (delimited bool, err error) {
	total := CountFeatures(blocks)

	delimited = opts.Has(FeaturesFileDelimited) || (!opts.Has(FeaturesFileNotDelimited) && total > FeatureMessageLimit)

	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("%w: create features file: %v", errs.ErrIO, err)
	}
	defer f.Close()

	omitDescriptor := opts.Has(NoFeaturesDescriptors)
	onlyMappointFeatures := opts.Has(OnlyMappointsFeatures)

	if !delimited {
		arr := record.FeatureBlockArray{Blocks: blocks}
		if _, err := f.Write(arr.Marshal(omitDescriptor, onlyMappointFeatures)); err != nil {
			return false, fmt.Errorf("%w: write features: %v", errs.ErrIO, err)
		}

		return false, nil
	}

	bw := bufio.NewWriter(f)
	scratch := pool.GetStreamBuffer()

	defer pool.PutStreamBuffer(scratch)

	for _, group := range packFeatureGroups(blocks) {
		arr := record.FeatureBlockArray{Blocks: group}
		scratch.B = arr.MarshalInto(scratch.B, omitDescriptor, onlyMappointFeatures)

		if err := wire.WriteDelimited(bw, scratch.B); err != nil {
			return false, err
		}
	}

	if err := bw.Flush(); err != nil {
		return false, fmt.Errorf("%w: flush features: %v", errs.ErrIO, err)
	}

	return true, nil
}

// packFeatureGroups greedily packs blocks into arrays whose cumulative
// feature count stays at or below FeatureMessageLimit, per spec.md §4.4.
// A single block whose own feature count exceeds the limit still gets its
// own group; the limit bounds how blocks are batched, not an individual
// block's size.
func packFeatureGroups(blocks []record.FeatureBlock) [][]record.FeatureBlock {
	var groups [][]record.FeatureBlock

	var current []record.FeatureBlock

	currentCount := 0

	for _, b := range blocks {
		if currentCount > 0 && currentCount+len(b.Features) > FeatureMessageLimit {
			groups = append(groups, current)
			current = nil
			currentCount = 0
		}

		current = append(current, b)
		currentCount += len(b.Features)
	}

	if len(current) > 0 {
		groups = append(groups, current)
	}

	return groups
}

// CountFeatures sums the feature count across every block, the value
// written into the header's nFeatures field.
func CountFeatures(blocks []record.FeatureBlock) int {
	n := 0
	for _, b := range blocks {
		n += len(b.Features)
	}

	return n
}
