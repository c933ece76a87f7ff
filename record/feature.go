package record

import (
	"fmt"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/valuecodec"
	"github.com/vgraph/mapcore/wire"
)

const (
	fieldFeatureKeypoint   wire.Number = 1
	fieldFeatureLandmarkID wire.Number = 2
	fieldFeatureDescriptor wire.Number = 3
)

// Feature is one detected keypoint inside a FeatureBlock, optionally bound
// to a landmark. HasLandmarkID distinguishes "no owning landmark" from
// landmark id 0.
type Feature struct {
	Keypoint      valuecodec.Keypoint
	HasLandmarkID bool
	LandmarkID    uint32
	HasDescriptor bool
	Descriptor    valuecodec.Descriptor
}

// Marshal encodes f. The descriptor is omitted when omitDescriptor is set,
// or when onlyMappointFeatures is set and f has no owning landmark — the
// two conditions spec.md §4.2 names for suppressing the per-feature
// descriptor.
func (f Feature) Marshal(omitDescriptor, onlyMappointFeatures bool) []byte {
	w := wire.NewWriter(nil)
	w.BytesField(fieldFeatureKeypoint, f.Keypoint.Marshal())

	if f.HasLandmarkID {
		w.Varint(fieldFeatureLandmarkID, uint64(f.LandmarkID))
	}

	suppressDescriptor := omitDescriptor || (onlyMappointFeatures && !f.HasLandmarkID)
	if f.HasDescriptor && !suppressDescriptor {
		w.BytesField(fieldFeatureDescriptor, f.Descriptor.Marshal())
	}

	return w.Bytes()
}

// UnmarshalFeature decodes a SerializedFeature record. The keypoint is
// required; landmark id and descriptor are optional.
func UnmarshalFeature(data []byte) (Feature, error) {
	r := wire.NewReader(data)

	var (
		f           Feature
		sawKeypoint bool
	)

	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return Feature{}, fmt.Errorf("%w: feature tag", errs.ErrFraming)
		}

		switch num {
		case fieldFeatureKeypoint:
			b, err := r.BytesField()
			if err != nil {
				return Feature{}, err
			}

			kp, err := valuecodec.UnmarshalKeypoint(b)
			if err != nil {
				return Feature{}, err
			}

			f.Keypoint, sawKeypoint = kp, true
		case fieldFeatureLandmarkID:
			v, err := r.Varint()
			if err != nil {
				return Feature{}, err
			}

			f.LandmarkID, f.HasLandmarkID = uint32(v), true
		case fieldFeatureDescriptor:
			b, err := r.BytesField()
			if err != nil {
				return Feature{}, err
			}

			d, err := valuecodec.UnmarshalDescriptor(b)
			if err != nil {
				return Feature{}, err
			}

			f.Descriptor, f.HasDescriptor = d, true
		default:
			if err := r.Skip(num, typ); err != nil {
				return Feature{}, err
			}
		}
	}

	if !sawKeypoint {
		return Feature{}, fmt.Errorf("%w: feature requires a keypoint", errs.ErrMissingRequiredField)
	}

	return f, nil
}

const (
	fieldFeatureBlockKFID    wire.Number = 1
	fieldFeatureBlockFeature wire.Number = 2
)

// FeatureBlock is the ordered list of Feature records observed by one
// keyframe. Feature order is preserved and is the feature-index the
// observation invariant keys on.
type FeatureBlock struct {
	KeyframeID uint32
	Features   []Feature
}

// Marshal encodes the block. kfid is required; each feature is emitted in
// list order as an embedded sub-message.
func (b FeatureBlock) Marshal(omitDescriptor, onlyMappointFeatures bool) []byte {
	w := wire.NewWriter(nil)
	w.Varint(fieldFeatureBlockKFID, uint64(b.KeyframeID))

	for _, f := range b.Features {
		w.BytesField(fieldFeatureBlockFeature, f.Marshal(omitDescriptor, onlyMappointFeatures))
	}

	return w.Bytes()
}

// UnmarshalFeatureBlock decodes a SerializedFeatureBlock record. The
// owning keyframe id is required.
func UnmarshalFeatureBlock(data []byte) (FeatureBlock, error) {
	r := wire.NewReader(data)

	var (
		b       FeatureBlock
		sawKFID bool
	)

	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return FeatureBlock{}, fmt.Errorf("%w: feature block tag", errs.ErrFraming)
		}

		switch num {
		case fieldFeatureBlockKFID:
			v, err := r.Varint()
			if err != nil {
				return FeatureBlock{}, err
			}

			b.KeyframeID, sawKFID = uint32(v), true
		case fieldFeatureBlockFeature:
			fb, err := r.BytesField()
			if err != nil {
				return FeatureBlock{}, err
			}

			f, err := UnmarshalFeature(fb)
			if err != nil {
				return FeatureBlock{}, err
			}

			b.Features = append(b.Features, f)
		default:
			if err := r.Skip(num, typ); err != nil {
				return FeatureBlock{}, err
			}
		}
	}

	if !sawKFID {
		return FeatureBlock{}, fmt.Errorf("%w: feature block requires a keyframe id", errs.ErrMissingRequiredField)
	}

	return b, nil
}

const fieldFeatureBlockArrayEntry wire.Number = 1

// FeatureBlockArray wraps repeated FeatureBlock records. The features
// artifact carries either exactly one of these (single-record layout) or a
// length-delimited stream of several (streamed layout), per spec.md §4.4.
type FeatureBlockArray struct {
	Blocks []FeatureBlock
}

// Marshal encodes every block in order, each as an embedded sub-message.
func (a FeatureBlockArray) Marshal(omitDescriptor, onlyMappointFeatures bool) []byte {
	return a.MarshalInto(nil, omitDescriptor, onlyMappointFeatures)
}

// MarshalInto encodes into buf[:0], growing and reusing the backing array
// when the caller supplies one (typically borrowed from
// internal/pool.GetStreamBuffer) instead of allocating a fresh slice per
// group — the streamed features layout marshals many groups back to back.
func (a FeatureBlockArray) MarshalInto(buf []byte, omitDescriptor, onlyMappointFeatures bool) []byte {
	w := wire.NewWriter(buf[:0])
	for _, b := range a.Blocks {
		w.BytesField(fieldFeatureBlockArrayEntry, b.Marshal(omitDescriptor, onlyMappointFeatures))
	}

	return w.Bytes()
}

// UnmarshalFeatureBlockArray decodes a SerializedFeatureBlockArray message.
func UnmarshalFeatureBlockArray(data []byte) (FeatureBlockArray, error) {
	r := wire.NewReader(data)

	var a FeatureBlockArray

	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return FeatureBlockArray{}, fmt.Errorf("%w: feature block array tag", errs.ErrFraming)
		}

		if typ != wire.BytesType || num != fieldFeatureBlockArrayEntry {
			if err := r.Skip(num, typ); err != nil {
				return FeatureBlockArray{}, err
			}

			continue
		}

		b, err := r.BytesField()
		if err != nil {
			return FeatureBlockArray{}, err
		}

		block, err := UnmarshalFeatureBlock(b)
		if err != nil {
			return FeatureBlockArray{}, err
		}

		a.Blocks = append(a.Blocks, block)
	}

	return a, nil
}

// FeatureCount returns the total number of Feature records across all
// blocks, the value the header's nFeatures and the feature-count
// conservation property (spec.md §8.8) both check against.
func (a FeatureBlockArray) FeatureCount() int {
	n := 0
	for _, b := range a.Blocks {
		n += len(b.Features)
	}

	return n
}
