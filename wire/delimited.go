package wire

import (
	"bufio"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/vgraph/mapcore/errs"
)

// WriteDelimited writes msg prefixed by its byte length as a uvarint, the
// length-delimited-stream layout spec.md §4.4 uses for the features
// artifact when the single-record layout would exceed FEATURE_MESSAGE_LIMIT.
func WriteDelimited(w io.Writer, msg []byte) error {
	var lenBuf [binary64MaxVarintLen]byte
	n := protowire.AppendVarint(lenBuf[:0], uint64(len(msg)))

	if _, err := w.Write(n); err != nil {
		return fmt.Errorf("%w: writing record length: %w", errs.ErrIO, err)
	}

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("%w: writing record body: %w", errs.ErrIO, err)
	}

	return nil
}

// binary64MaxVarintLen is the maximum number of bytes a uvarint encoding of
// a 64-bit length prefix can occupy.
const binary64MaxVarintLen = 10

// ReadDelimited reads one length-prefixed message from r. It returns io.EOF
// (unwrapped, so callers can use it as an ordinary loop terminator) when the
// stream ends cleanly on a message boundary, and a framing error wrapped
// around errs.ErrFraming if the length prefix is malformed or the stream
// ends mid-message.
func ReadDelimited(r *bufio.Reader) ([]byte, error) {
	length, err := readUvarint(r)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("%w: reading record length: %w", errs.ErrFraming, err)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading record body: %w", errs.ErrFraming, err)
	}

	return buf, nil
}

// readUvarint reads a protobuf-style uvarint one byte at a time from a
// buffered reader, since protowire.ConsumeVarint operates on an in-memory
// slice rather than a stream.
func readUvarint(r *bufio.Reader) (uint64, error) {
	var (
		result uint64
		shift  uint
	)

	for i := 0; i < binary64MaxVarintLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if i == 0 && err == io.EOF {
				return 0, io.EOF
			}

			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}

			return 0, err
		}

		result |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return result, nil
		}

		shift += 7
	}

	return 0, errs.ErrFraming
}
