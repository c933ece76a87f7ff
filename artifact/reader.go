package artifact

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/record"
	"github.com/vgraph/mapcore/wire"
)

// ReadMappoints decodes the mappoints artifact at path.
func ReadMappoints(path string) (record.LandmarkArray, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return record.LandmarkArray{}, fmt.Errorf("%w: read mappoints: %v", errs.ErrIO, err)
	}

	return record.UnmarshalLandmarkArray(data)
}

// ReadKeyframes decodes the keyframes artifact at path.
func ReadKeyframes(path string) (record.KeyframeArray, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return record.KeyframeArray{}, fmt.Errorf("%w: read keyframes: %v", errs.ErrIO, err)
	}

	return record.UnmarshalKeyframeArray(data)
}

// ReadFeatures decodes the features artifact at path, self-detecting
// which of the two layouts spec.md §4.4 defines was used based on the
// delimited option bit recorded in the header. It returns a flat,
// concatenated list of FeatureBlocks in the order they were written.
func ReadFeatures(path string, opts Options, logger errs.Logger) ([]record.FeatureBlock, error) {
	if logger == nil {
		logger = errs.NopLogger{}
	}

	if opts.Has(FeaturesFileDelimited) {
		return readFeaturesDelimited(path, logger)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read features: %v", errs.ErrIO, err)
	}

	arr, err := record.UnmarshalFeatureBlockArray(data)
	if err != nil {
		return nil, err
	}

	return arr.Blocks, nil
}

// readFeaturesDelimited reads successive length-delimited FeatureBlockArray
// messages. Per spec.md §7, a framing error partway through the stream is
// treated as end-of-stream (the remainder is presumed truncated, not
// corrupt) rather than a hard decode failure, which is reserved for the
// single-record layout.
func readFeaturesDelimited(path string, logger errs.Logger) ([]record.FeatureBlock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open features: %v", errs.ErrIO, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var blocks []record.FeatureBlock

	for {
		msg, err := wire.ReadDelimited(r)
		if errors.Is(err, io.EOF) {
			break
		}

		if errors.Is(err, errs.ErrFraming) {
			logger.Warnf("artifact: framing error in delimited features stream, treating remainder as end-of-stream: %v", err)

			break
		}

		if err != nil {
			return nil, err
		}

		arr, err := record.UnmarshalFeatureBlockArray(msg)
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, arr.Blocks...)
	}

	return blocks, nil
}
