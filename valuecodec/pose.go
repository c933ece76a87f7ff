package valuecodec

import (
	"fmt"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/wire"
)

const fieldPoseElement wire.Number = 1

// Pose is a 4x4 homogeneous rigid transform (world->camera), stored
// row-major. Only the first three rows are persisted; the last row of a
// valid pose is always [0,0,0,1] and is reconstructed on decode rather than
// written.
type Pose [16]float32

// Identity4 returns the 4x4 identity matrix in row-major order.
func Identity4() Pose {
	return Pose{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// PoseFromMatrix4 validates and wraps a row-major 4x4 matrix.
func PoseFromMatrix4(m []float32) (Pose, error) {
	var p Pose
	if len(m) != 16 {
		return Pose{}, fmt.Errorf("%w: pose must be 4x4 (16 elements), got %d", errs.ErrShapeViolation, len(m))
	}

	copy(p[:], m)

	return p, nil
}

// Marshal flattens the first three rows (12 floats) of p row-major, per
// spec.md §4.1; the last row is never written.
func (p Pose) Marshal() []byte {
	w := wire.NewWriter(nil)
	for i := 0; i < 12; i++ {
		w.Fixed32(fieldPoseElement, float32bits(p[i]))
	}

	return w.Bytes()
}

// UnmarshalPose decodes a SerializedPose record into an identity matrix
// with the first three rows overwritten by the 12 decoded floats. Exactly
// 12 floats are required.
func UnmarshalPose(data []byte) (Pose, error) {
	r := wire.NewReader(data)
	p := Identity4()

	count := 0
	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return Pose{}, fmt.Errorf("%w: pose tag", errs.ErrFraming)
		}

		if typ != wire.Fixed32Type || num != fieldPoseElement {
			if err := r.Skip(num, typ); err != nil {
				return Pose{}, err
			}

			continue
		}

		v, err := r.Fixed32()
		if err != nil {
			return Pose{}, err
		}

		if count >= 12 {
			return Pose{}, fmt.Errorf("%w: pose has more than 12 elements", errs.ErrFieldCountMismatch)
		}

		p[count] = float32frombits(v)
		count++
	}

	if count != 12 {
		return Pose{}, fmt.Errorf("%w: pose requires exactly 12 elements, got %d", errs.ErrFieldCountMismatch, count)
	}

	return p, nil
}

// Rotation returns the upper-left 3x3 rotation block.
func (p Pose) Rotation() [9]float32 {
	return [9]float32{
		p[0], p[1], p[2],
		p[4], p[5], p[6],
		p[8], p[9], p[10],
	}
}

// Translation returns the rightmost column of the first three rows.
func (p Pose) Translation() [3]float32 {
	return [3]float32{p[3], p[7], p[11]}
}

// CameraCenter returns -R^T * t, the camera's position in world coordinates
// for a world->camera rigid transform.
func (p Pose) CameraCenter() [3]float32 {
	r := p.Rotation()
	t := p.Translation()

	// R^T * t
	rtx := r[0]*t[0] + r[3]*t[1] + r[6]*t[2]
	rty := r[1]*t[0] + r[4]*t[1] + r[7]*t[2]
	rtz := r[2]*t[0] + r[5]*t[1] + r[8]*t[2]

	return [3]float32{-rtx, -rty, -rtz}
}
