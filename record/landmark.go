// Package record implements spec.md §4.2: entity codecs for the Landmark,
// Keyframe and FeatureBlock records, plus their Array wrapper messages.
// Every codec here delegates its fixed-shape tensor fields to valuecodec
// and builds its own tag/field framing on wire.
package record

import (
	"fmt"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/internal/pool"
	"github.com/vgraph/mapcore/valuecodec"
	"github.com/vgraph/mapcore/wire"
)

const (
	fieldLandmarkID         wire.Number = 1
	fieldLandmarkPosition   wire.Number = 2
	fieldLandmarkVisible    wire.Number = 3
	fieldLandmarkFound      wire.Number = 4
	fieldLandmarkDescriptor wire.Number = 5
)

// Landmark is the persisted form of a 3D map point: id, position, the two
// observation counters, and an optional descriptor. Everything else
// (observation set, reference keyframe, normal/depth, bad flag) is rebuilt,
// not stored.
type Landmark struct {
	ID            uint32
	Position      valuecodec.Position
	Visible       uint32
	Found         uint32
	Descriptor    valuecodec.Descriptor
	HasDescriptor bool
}

// Marshal encodes l. Descriptor is emitted unless omitDescriptor is set
// (the NO_FEATURES_DESCRIPTORS option does not apply to landmarks, but
// callers may still suppress the per-landmark descriptor for a stripped
// artifact).
func (l Landmark) Marshal(omitDescriptor bool) []byte {
	return l.MarshalInto(nil, omitDescriptor)
}

// MarshalInto encodes into buf[:0], letting a caller that marshals many
// landmarks back to back (LandmarkArray.Marshal) reuse one scratch buffer
// — typically borrowed from internal/pool.GetRecordBuffer — instead of
// allocating a fresh one per landmark.
func (l Landmark) MarshalInto(buf []byte, omitDescriptor bool) []byte {
	w := wire.NewWriter(buf[:0])
	w.Varint(fieldLandmarkID, uint64(l.ID))
	w.BytesField(fieldLandmarkPosition, l.Position.Marshal())
	w.Varint(fieldLandmarkVisible, uint64(l.Visible))
	w.Varint(fieldLandmarkFound, uint64(l.Found))

	if !omitDescriptor && l.HasDescriptor {
		w.BytesField(fieldLandmarkDescriptor, l.Descriptor.Marshal())
	}

	return w.Bytes()
}

// UnmarshalLandmark decodes a SerializedLandmark record. id, position,
// visible and found are required; a missing one is a corrupted artifact.
// The descriptor is optional; its absence is recorded in HasDescriptor
// rather than defaulted to a zero descriptor, preserving the "absent
// optional fields leave the target attribute at its default" contract
// without pretending a zero descriptor was actually written.
func UnmarshalLandmark(data []byte) (Landmark, error) {
	r := wire.NewReader(data)

	var (
		l    Landmark
		seen [4]bool
	)

	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return Landmark{}, fmt.Errorf("%w: landmark tag", errs.ErrFraming)
		}

		switch num {
		case fieldLandmarkID:
			v, err := r.Varint()
			if err != nil {
				return Landmark{}, err
			}

			l.ID, seen[0] = uint32(v), true
		case fieldLandmarkPosition:
			b, err := r.BytesField()
			if err != nil {
				return Landmark{}, err
			}

			pos, err := valuecodec.UnmarshalPosition(b)
			if err != nil {
				return Landmark{}, err
			}

			l.Position, seen[1] = pos, true
		case fieldLandmarkVisible:
			v, err := r.Varint()
			if err != nil {
				return Landmark{}, err
			}

			l.Visible, seen[2] = uint32(v), true
		case fieldLandmarkFound:
			v, err := r.Varint()
			if err != nil {
				return Landmark{}, err
			}

			l.Found, seen[3] = uint32(v), true
		case fieldLandmarkDescriptor:
			b, err := r.BytesField()
			if err != nil {
				return Landmark{}, err
			}

			desc, err := valuecodec.UnmarshalDescriptor(b)
			if err != nil {
				return Landmark{}, err
			}

			l.Descriptor, l.HasDescriptor = desc, true
		default:
			if err := r.Skip(num, typ); err != nil {
				return Landmark{}, err
			}
		}
	}

	for _, ok := range seen {
		if !ok {
			return Landmark{}, fmt.Errorf("%w: landmark requires id,position,visible,found", errs.ErrMissingRequiredField)
		}
	}

	return l, nil
}

const fieldLandmarkArrayEntry wire.Number = 1

// LandmarkArray wraps repeated Landmark records into the single
// SerializedLandmarkArray message a mappoints artifact carries.
type LandmarkArray struct {
	Landmarks []Landmark
}

// Marshal encodes every landmark in order, each as an embedded sub-message.
func (a LandmarkArray) Marshal(omitDescriptor bool) []byte {
	w := wire.NewWriter(nil)

	scratch := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(scratch)

	for _, l := range a.Landmarks {
		scratch.B = l.MarshalInto(scratch.B, omitDescriptor)
		w.BytesField(fieldLandmarkArrayEntry, scratch.B)
	}

	return w.Bytes()
}

// UnmarshalLandmarkArray decodes a SerializedLandmarkArray message.
func UnmarshalLandmarkArray(data []byte) (LandmarkArray, error) {
	r := wire.NewReader(data)

	var a LandmarkArray

	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return LandmarkArray{}, fmt.Errorf("%w: landmark array tag", errs.ErrFraming)
		}

		if typ != wire.BytesType || num != fieldLandmarkArrayEntry {
			if err := r.Skip(num, typ); err != nil {
				return LandmarkArray{}, err
			}

			continue
		}

		b, err := r.BytesField()
		if err != nil {
			return LandmarkArray{}, err
		}

		l, err := UnmarshalLandmark(b)
		if err != nil {
			return LandmarkArray{}, err
		}

		a.Landmarks = append(a.Landmarks, l)
	}

	return a, nil
}
