// Package valuecodec implements spec.md §4.1: pure, total encoders/decoders
// for the fixed-shape numeric tensors every entity record embeds
// (intrinsics, descriptor, pose, position, keypoint). On the encode side
// the only failure mode is an input-shape violation (ErrShapeViolation),
// a contract violation by the caller. Decoders fail only on a corrupted
// record: a missing or surplus field (ErrMissingRequiredField,
// ErrFieldCountMismatch) or malformed framing (ErrFraming).
package valuecodec

import (
	"fmt"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/wire"
)

const (
	fieldFx wire.Number = 1
	fieldFy wire.Number = 2
	fieldCx wire.Number = 3
	fieldCy wire.Number = 4
)

// Intrinsics holds the four scalars that characterize a pinhole camera
// calibration matrix: fx=M[0,0], fy=M[1,1], cx=M[0,2], cy=M[1,2].
type Intrinsics struct {
	FX, FY, CX, CY float32
}

// Matrix3 expands Intrinsics into the 3x3 row-major matrix it represents:
// an identity matrix with the four calibration entries filled in, matching
// spec.md's "decoding restores a 3x3 identity with these four entries
// filled."
func (k Intrinsics) Matrix3() [9]float32 {
	return [9]float32{
		k.FX, 0, k.CX,
		0, k.FY, k.CY,
		0, 0, 1,
	}
}

// IntrinsicsFromMatrix3 extracts an Intrinsics from a row-major 3x3 matrix.
// m must have exactly 9 elements; any other length is a shape violation.
func IntrinsicsFromMatrix3(m []float32) (Intrinsics, error) {
	if len(m) != 9 {
		return Intrinsics{}, fmt.Errorf("%w: intrinsics matrix must be 3x3 (9 elements), got %d", errs.ErrShapeViolation, len(m))
	}

	return Intrinsics{FX: m[0], FY: m[4], CX: m[2], CY: m[5]}, nil
}

// Equal reports whether k and other agree within abs tolerance on every
// parameter, the DELTA-tolerance equality spec.md §3/§4.3 defines for
// intrinsics-table deduplication.
func (k Intrinsics) Equal(other Intrinsics, tolerance float32) bool {
	return absDiff(k.FX, other.FX) < tolerance &&
		absDiff(k.FY, other.FY) < tolerance &&
		absDiff(k.CX, other.CX) < tolerance &&
		absDiff(k.CY, other.CY) < tolerance
}

func absDiff(a, b float32) float32 {
	if a < b {
		return b - a
	}

	return a - b
}

// Marshal encodes k as a SerializedK record: fx, fy, cx, cy, all required.
func (k Intrinsics) Marshal() []byte {
	w := wire.NewWriter(nil)
	w.Fixed32(fieldFx, float32bits(k.FX))
	w.Fixed32(fieldFy, float32bits(k.FY))
	w.Fixed32(fieldCx, float32bits(k.CX))
	w.Fixed32(fieldCy, float32bits(k.CY))

	return w.Bytes()
}

// UnmarshalIntrinsics decodes a SerializedK record. All four fields are
// required; a missing one is a corrupted artifact, not a recoverable
// default.
func UnmarshalIntrinsics(data []byte) (Intrinsics, error) {
	r := wire.NewReader(data)

	var (
		k    Intrinsics
		seen [4]bool
	)

	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return Intrinsics{}, fmt.Errorf("%w: intrinsics tag", errs.ErrFraming)
		}

		if typ != wire.Fixed32Type {
			if err := r.Skip(num, typ); err != nil {
				return Intrinsics{}, err
			}

			continue
		}

		v, err := r.Fixed32()
		if err != nil {
			return Intrinsics{}, err
		}

		switch num {
		case fieldFx:
			k.FX, seen[0] = float32frombits(v), true
		case fieldFy:
			k.FY, seen[1] = float32frombits(v), true
		case fieldCx:
			k.CX, seen[2] = float32frombits(v), true
		case fieldCy:
			k.CY, seen[3] = float32frombits(v), true
		}
	}

	for _, ok := range seen {
		if !ok {
			return Intrinsics{}, fmt.Errorf("%w: intrinsics requires fx,fy,cx,cy", errs.ErrMissingRequiredField)
		}
	}

	return k, nil
}
