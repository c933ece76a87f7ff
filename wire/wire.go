// Package wire implements the tagged record codec spec.md treats as an
// external dependency: "a record codec with optional fields and
// length-delimited framing." It is a thin, idiomatic wrapper around
// google.golang.org/protobuf/encoding/protowire — the same tag/varint/
// length-delimited wire format the original osmap implementation built on
// top of protocol buffers, and the family of library the example pool's
// hyperpb/protobuf stack confirms is in scope for this corpus.
//
// valuecodec and record build every record's Marshal/Unmarshal on top of
// Writer/Reader here; nothing above this package touches protowire
// directly.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/vgraph/mapcore/errs"
)

// Field numbers and wire types are re-exported under mapcore's own names so
// callers never need to import protowire directly.
type (
	Number = protowire.Number
	Type   = protowire.Type
)

const (
	VarintType  = protowire.VarintType
	Fixed32Type = protowire.Fixed32Type
	Fixed64Type = protowire.Fixed64Type
	BytesType   = protowire.BytesType
)

// Writer appends tagged fields to an in-progress record buffer.
//
// A zero Writer is ready to use; callers typically start from an existing
// scratch buffer (see internal/pool) to avoid an allocation per record.
type Writer struct {
	B []byte
}

// NewWriter wraps an existing buffer (often borrowed from a pool) for appending.
func NewWriter(buf []byte) *Writer {
	return &Writer{B: buf}
}

// Bytes returns the accumulated record bytes.
func (w *Writer) Bytes() []byte {
	return w.B
}

// Varint appends a required uvarint field.
func (w *Writer) Varint(num Number, v uint64) {
	w.B = protowire.AppendTag(w.B, num, VarintType)
	w.B = protowire.AppendVarint(w.B, v)
}

// Fixed32 appends a required fixed32 field (used for float32 bit patterns).
func (w *Writer) Fixed32(num Number, v uint32) {
	w.B = protowire.AppendTag(w.B, num, Fixed32Type)
	w.B = protowire.AppendFixed32(w.B, v)
}

// Fixed64 appends a required fixed64 field (used for float64 bit patterns).
func (w *Writer) Fixed64(num Number, v uint64) {
	w.B = protowire.AppendTag(w.B, num, Fixed64Type)
	w.B = protowire.AppendFixed64(w.B, v)
}

// BytesField appends a length-delimited byte field; used both for raw byte
// payloads and for embedded sub-messages (callers pass the sub-message's
// already-marshaled bytes).
func (w *Writer) BytesField(num Number, v []byte) {
	w.B = protowire.AppendTag(w.B, num, BytesType)
	w.B = protowire.AppendBytes(w.B, v)
}

// Reader consumes tagged fields from a record buffer in order.
//
// Fields are consumed one at a time with Next; presence of an optional field
// is exactly "Next returned that field's number before running out of
// bytes" — there is no sentinel default value to confuse with absence,
// which is the behavior spec.md's entity codecs rely on (e.g. a Feature
// with no landmark id simply never emits field 2).
type Reader struct {
	b []byte
}

// NewReader wraps buf for sequential field consumption.
func NewReader(buf []byte) *Reader {
	return &Reader{b: buf}
}

// Done reports whether every byte has been consumed.
func (r *Reader) Done() bool {
	return len(r.b) == 0
}

// Next consumes the next field's tag, returning its number and wire type.
// ok is false once the reader is exhausted or the tag is malformed.
func (r *Reader) Next() (num Number, typ Type, ok bool) {
	if len(r.b) == 0 {
		return 0, 0, false
	}

	n, t, size := protowire.ConsumeTag(r.b)
	if size < 0 {
		return 0, 0, false
	}

	r.b = r.b[size:]

	return n, t, true
}

// Varint consumes a varint-typed field value. Call immediately after Next
// reports VarintType.
func (r *Reader) Varint() (uint64, error) {
	v, size := protowire.ConsumeVarint(r.b)
	if size < 0 {
		return 0, fmt.Errorf("%w: varint", errs.ErrFraming)
	}

	r.b = r.b[size:]

	return v, nil
}

// Fixed32 consumes a fixed32-typed field value.
func (r *Reader) Fixed32() (uint32, error) {
	v, size := protowire.ConsumeFixed32(r.b)
	if size < 0 {
		return 0, fmt.Errorf("%w: fixed32", errs.ErrFraming)
	}

	r.b = r.b[size:]

	return v, nil
}

// Fixed64 consumes a fixed64-typed field value.
func (r *Reader) Fixed64() (uint64, error) {
	v, size := protowire.ConsumeFixed64(r.b)
	if size < 0 {
		return 0, fmt.Errorf("%w: fixed64", errs.ErrFraming)
	}

	r.b = r.b[size:]

	return v, nil
}

// BytesField consumes a length-delimited field value (raw bytes or an
// embedded sub-message's bytes, to be handed to that sub-message's own
// Reader).
func (r *Reader) BytesField() ([]byte, error) {
	v, size := protowire.ConsumeBytes(r.b)
	if size < 0 {
		return nil, fmt.Errorf("%w: bytes", errs.ErrFraming)
	}

	r.b = r.b[size:]

	return v, nil
}

// Skip discards the value of a field whose type was already consumed by
// Next, for forward-compatible decoding of unknown fields.
func (r *Reader) Skip(num Number, typ Type) error {
	size := protowire.ConsumeFieldValue(num, typ, r.b)
	if size < 0 {
		return fmt.Errorf("%w: skip", errs.ErrFraming)
	}

	r.b = r.b[size:]

	return nil
}

// SInt32 appends a zig-zag encoded signed varint field (keypoint octave,
// which is negative for upscaled pyramid levels).
func (w *Writer) SInt32(num Number, v int32) {
	w.B = protowire.AppendTag(w.B, num, VarintType)
	w.B = protowire.AppendVarint(w.B, protowire.EncodeZigZag(int64(v)))
}

// SInt32 consumes a zig-zag encoded signed varint field value.
func (r *Reader) SInt32() (int32, error) {
	v, size := protowire.ConsumeVarint(r.b)
	if size < 0 {
		return 0, fmt.Errorf("%w: sint32", errs.ErrFraming)
	}

	r.b = r.b[size:]

	return int32(protowire.DecodeZigZag(v)), nil
}
