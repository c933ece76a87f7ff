package valuecodec

import (
	"fmt"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/wire"
)

const fieldPositionElement wire.Number = 1

// Position is a 3x1 world-frame coordinate, the triangulated location of a
// landmark.
type Position [3]float32

// PositionFromVector3 validates and wraps a (3,1) matrix.
func PositionFromVector3(v []float32) (Position, error) {
	var p Position
	if len(v) != 3 {
		return Position{}, fmt.Errorf("%w: position must be shape (3,1), got %d", errs.ErrShapeViolation, len(v))
	}

	copy(p[:], v)

	return p, nil
}

// Marshal encodes p as three required fixed32 fields, x, y, z in order.
func (p Position) Marshal() []byte {
	w := wire.NewWriter(nil)
	for i := 0; i < 3; i++ {
		w.Fixed32(fieldPositionElement, float32bits(p[i]))
	}

	return w.Bytes()
}

// UnmarshalPosition decodes a SerializedPosition record. Exactly three
// elements are required.
func UnmarshalPosition(data []byte) (Position, error) {
	r := wire.NewReader(data)

	var p Position

	count := 0
	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return Position{}, fmt.Errorf("%w: position tag", errs.ErrFraming)
		}

		if typ != wire.Fixed32Type || num != fieldPositionElement {
			if err := r.Skip(num, typ); err != nil {
				return Position{}, err
			}

			continue
		}

		v, err := r.Fixed32()
		if err != nil {
			return Position{}, err
		}

		if count >= 3 {
			return Position{}, fmt.Errorf("%w: position has more than 3 elements", errs.ErrFieldCountMismatch)
		}

		p[count] = float32frombits(v)
		count++
	}

	if count != 3 {
		return Position{}, fmt.Errorf("%w: position requires exactly 3 elements, got %d", errs.ErrFieldCountMismatch, count)
	}

	return p, nil
}
