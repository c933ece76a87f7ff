package valuecodec

import (
	"fmt"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/wire"
)

const (
	fieldKeypointX      wire.Number = 1
	fieldKeypointY      wire.Number = 2
	fieldKeypointOctave wire.Number = 3
	fieldKeypointAngle  wire.Number = 4
)

// Keypoint is a single detected ORB feature's 2D image-plane location plus
// the pyramid octave it was detected at and its dominant orientation.
type Keypoint struct {
	X, Y   float32
	Octave int32
	Angle  float32
}

// Marshal encodes k as four required fields: x, y, octave (zigzag signed
// varint, since upscaled levels use negative octaves), angle.
func (k Keypoint) Marshal() []byte {
	w := wire.NewWriter(nil)
	w.Fixed32(fieldKeypointX, float32bits(k.X))
	w.Fixed32(fieldKeypointY, float32bits(k.Y))
	w.SInt32(fieldKeypointOctave, k.Octave)
	w.Fixed32(fieldKeypointAngle, float32bits(k.Angle))

	return w.Bytes()
}

// UnmarshalKeypoint decodes a SerializedKeypoint record. All four fields
// are required.
func UnmarshalKeypoint(data []byte) (Keypoint, error) {
	r := wire.NewReader(data)

	var (
		k    Keypoint
		seen [4]bool
	)

	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return Keypoint{}, fmt.Errorf("%w: keypoint tag", errs.ErrFraming)
		}

		switch {
		case num == fieldKeypointX && typ == wire.Fixed32Type:
			v, err := r.Fixed32()
			if err != nil {
				return Keypoint{}, err
			}

			k.X, seen[0] = float32frombits(v), true
		case num == fieldKeypointY && typ == wire.Fixed32Type:
			v, err := r.Fixed32()
			if err != nil {
				return Keypoint{}, err
			}

			k.Y, seen[1] = float32frombits(v), true
		case num == fieldKeypointOctave && typ == wire.VarintType:
			v, err := r.SInt32()
			if err != nil {
				return Keypoint{}, err
			}

			k.Octave, seen[2] = v, true
		case num == fieldKeypointAngle && typ == wire.Fixed32Type:
			v, err := r.Fixed32()
			if err != nil {
				return Keypoint{}, err
			}

			k.Angle, seen[3] = float32frombits(v), true
		default:
			if err := r.Skip(num, typ); err != nil {
				return Keypoint{}, err
			}
		}
	}

	for _, ok := range seen {
		if !ok {
			return Keypoint{}, fmt.Errorf("%w: keypoint requires x,y,octave,angle", errs.ErrMissingRequiredField)
		}
	}

	return k, nil
}
