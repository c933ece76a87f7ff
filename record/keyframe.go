package record

import (
	"fmt"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/internal/pool"
	"github.com/vgraph/mapcore/valuecodec"
	"github.com/vgraph/mapcore/wire"
)

const (
	fieldKeyframeID        wire.Number = 1
	fieldKeyframePose      wire.Number = 2
	fieldKeyframeTimestamp wire.Number = 3
	fieldKeyframeKIndex    wire.Number = 4
	fieldKeyframeKInline   wire.Number = 5
	fieldKeyframeLoopEdge  wire.Number = 6
)

// Keyframe is the persisted form of a mapping anchor: id, pose, timestamp,
// and exactly one of an intrinsics-table index or an inline intrinsics
// matrix. LoopEdgePartners holds only the partner ids smaller than ID, per
// the "smaller-id only" persistence rule; reciprocity is restored by the
// rebuilder.
type Keyframe struct {
	ID               uint32
	Pose             valuecodec.Pose
	Timestamp        float64
	HasKIndex        bool
	KIndex           uint32
	HasKInline       bool
	KInline          valuecodec.Intrinsics
	LoopEdgePartners []uint32
}

// Marshal encodes k. Exactly one of KIndex/KInline must be set by the
// caller (enforced by the intrinsics table / K_IN_KEYFRAME option
// upstream, not here); loop edges are omitted entirely when noLoops is
// set.
func (k Keyframe) Marshal(noLoops bool) []byte {
	return k.MarshalInto(nil, noLoops)
}

// MarshalInto encodes k the same way Marshal does, reusing buf's backing
// array when it has enough capacity.
func (k Keyframe) MarshalInto(buf []byte, noLoops bool) []byte {
	w := wire.NewWriter(buf[:0])
	w.Varint(fieldKeyframeID, uint64(k.ID))
	w.BytesField(fieldKeyframePose, k.Pose.Marshal())
	w.Fixed64(fieldKeyframeTimestamp, float64bits(k.Timestamp))

	if k.HasKIndex {
		w.Varint(fieldKeyframeKIndex, uint64(k.KIndex))
	}

	if k.HasKInline {
		w.BytesField(fieldKeyframeKInline, k.KInline.Marshal())
	}

	if !noLoops {
		for _, partner := range k.LoopEdgePartners {
			w.Varint(fieldKeyframeLoopEdge, uint64(partner))
		}
	}

	return w.Bytes()
}

// UnmarshalKeyframe decodes a SerializedKeyframe record. id, pose and
// timestamp are required. Loop edges are decoded regardless of the writer's
// option; callers that want NO_LOOPS decode semantics should discard
// LoopEdgePartners themselves (the rebuilder does this via the noLoops
// flag it is given, so reciprocity is never installed for a dropped set).
func UnmarshalKeyframe(data []byte) (Keyframe, error) {
	r := wire.NewReader(data)

	var (
		k    Keyframe
		seen [3]bool
	)

	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return Keyframe{}, fmt.Errorf("%w: keyframe tag", errs.ErrFraming)
		}

		switch num {
		case fieldKeyframeID:
			v, err := r.Varint()
			if err != nil {
				return Keyframe{}, err
			}

			k.ID, seen[0] = uint32(v), true
		case fieldKeyframePose:
			b, err := r.BytesField()
			if err != nil {
				return Keyframe{}, err
			}

			pose, err := valuecodec.UnmarshalPose(b)
			if err != nil {
				return Keyframe{}, err
			}

			k.Pose, seen[1] = pose, true
		case fieldKeyframeTimestamp:
			v, err := r.Fixed64()
			if err != nil {
				return Keyframe{}, err
			}

			k.Timestamp, seen[2] = float64frombits(v), true
		case fieldKeyframeKIndex:
			v, err := r.Varint()
			if err != nil {
				return Keyframe{}, err
			}

			k.KIndex, k.HasKIndex = uint32(v), true
		case fieldKeyframeKInline:
			b, err := r.BytesField()
			if err != nil {
				return Keyframe{}, err
			}

			inline, err := valuecodec.UnmarshalIntrinsics(b)
			if err != nil {
				return Keyframe{}, err
			}

			k.KInline, k.HasKInline = inline, true
		case fieldKeyframeLoopEdge:
			v, err := r.Varint()
			if err != nil {
				return Keyframe{}, err
			}

			k.LoopEdgePartners = append(k.LoopEdgePartners, uint32(v))
		default:
			if err := r.Skip(num, typ); err != nil {
				return Keyframe{}, err
			}
		}
	}

	for _, ok := range seen {
		if !ok {
			return Keyframe{}, fmt.Errorf("%w: keyframe requires id,pose,timestamp", errs.ErrMissingRequiredField)
		}
	}

	return k, nil
}

const fieldKeyframeArrayEntry wire.Number = 1

// KeyframeArray wraps repeated Keyframe records into the single
// SerializedKeyframeArray message a keyframes artifact carries.
type KeyframeArray struct {
	Keyframes []Keyframe
}

// Marshal encodes every keyframe in order, each as an embedded sub-message.
func (a KeyframeArray) Marshal(noLoops bool) []byte {
	w := wire.NewWriter(nil)

	scratch := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(scratch)

	for _, k := range a.Keyframes {
		scratch.B = k.MarshalInto(scratch.B, noLoops)
		w.BytesField(fieldKeyframeArrayEntry, scratch.B)
	}

	return w.Bytes()
}

// UnmarshalKeyframeArray decodes a SerializedKeyframeArray message.
func UnmarshalKeyframeArray(data []byte) (KeyframeArray, error) {
	r := wire.NewReader(data)

	var a KeyframeArray

	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return KeyframeArray{}, fmt.Errorf("%w: keyframe array tag", errs.ErrFraming)
		}

		if typ != wire.BytesType || num != fieldKeyframeArrayEntry {
			if err := r.Skip(num, typ); err != nil {
				return KeyframeArray{}, err
			}

			continue
		}

		b, err := r.BytesField()
		if err != nil {
			return KeyframeArray{}, err
		}

		k, err := UnmarshalKeyframe(b)
		if err != nil {
			return KeyframeArray{}, err
		}

		a.Keyframes = append(a.Keyframes, k)
	}

	return a, nil
}
