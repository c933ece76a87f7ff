package valuecodec

import (
	"fmt"

	"github.com/vgraph/mapcore/endian"
	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/wire"
)

const fieldDescriptorWord wire.Number = 1

// Descriptor is a 256-bit binary ORB descriptor: a 1x32 matrix of 8-bit
// unsigned integers in source form, packed here as 32 bytes.
type Descriptor [32]byte

// DescriptorFromBytes validates and wraps a raw byte slice. The source must
// be shape (1, 32) of 8-bit unsigned integers; any other length is a shape
// violation.
func DescriptorFromBytes(b []byte) (Descriptor, error) {
	var d Descriptor
	if len(b) != len(d) {
		return Descriptor{}, fmt.Errorf("%w: descriptor must be shape (1,32), got %d bytes", errs.ErrShapeViolation, len(b))
	}

	copy(d[:], b)

	return d, nil
}

// Marshal encodes d as exactly 8 little-endian 32-bit unsigned integers,
// four 8-bit bytes per integer via reinterpret-cast, the packing spec.md
// §4.1 mandates so the on-disk layout is independent of field-by-field
// wire overhead.
func (d Descriptor) Marshal() []byte {
	w := wire.NewWriter(nil)
	engine := endian.GetLittleEndianEngine()

	for i := 0; i < 8; i++ {
		word := engine.Uint32(d[i*4 : i*4+4])
		w.Fixed32(fieldDescriptorWord, word)
	}

	return w.Bytes()
}

// UnmarshalDescriptor decodes a SerializedDescriptor record. Exactly 8
// fixed32 words are required; any other count is a corrupted artifact.
func UnmarshalDescriptor(data []byte) (Descriptor, error) {
	r := wire.NewReader(data)
	engine := endian.GetLittleEndianEngine()

	var d Descriptor

	count := 0
	for !r.Done() {
		num, typ, ok := r.Next()
		if !ok {
			return Descriptor{}, fmt.Errorf("%w: descriptor tag", errs.ErrFraming)
		}

		if typ != wire.Fixed32Type || num != fieldDescriptorWord {
			if err := r.Skip(num, typ); err != nil {
				return Descriptor{}, err
			}

			continue
		}

		v, err := r.Fixed32()
		if err != nil {
			return Descriptor{}, err
		}

		if count >= 8 {
			return Descriptor{}, fmt.Errorf("%w: descriptor has more than 8 words", errs.ErrFieldCountMismatch)
		}

		engine.PutUint32(d[count*4:count*4+4], v)
		count++
	}

	if count != 8 {
		return Descriptor{}, fmt.Errorf("%w: descriptor requires exactly 8 words, got %d", errs.ErrFieldCountMismatch, count)
	}

	return d, nil
}
