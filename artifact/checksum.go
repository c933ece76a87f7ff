package artifact

import (
	"encoding/binary"
	"fmt"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/internal/hash"
)

// Checksum computes the optional header integrity digest: an xxhash64 sum
// over the three artifact byte sizes and their record counts, in a fixed
// field order. It is purely diagnostic and forward-compatible: an artifact
// written by a version that didn't compute one simply omits the header
// key, and VerifyChecksum treats a zero Header.Checksum as "not present,
// nothing to verify."
func Checksum(mappointsSize, keyframesSize, featuresSize int64, nMappoints, nKeyframes, nFeatures int) uint64 {
	var buf [48]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(mappointsSize))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(keyframesSize))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(featuresSize))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(nMappoints))
	binary.LittleEndian.PutUint64(buf[32:40], uint64(nKeyframes))
	binary.LittleEndian.PutUint64(buf[40:48], uint64(nFeatures))

	return hash.Sum64(buf[:])
}

// VerifyChecksum recomputes the checksum for the given sizes/counts and
// compares it against h.Checksum. A zero checksum in the header is treated
// as absent and always verifies.
func VerifyChecksum(h Header, mappointsSize, keyframesSize, featuresSize int64, nMappoints, nKeyframes, nFeatures int) error {
	if h.Checksum == 0 {
		return nil
	}

	got := Checksum(mappointsSize, keyframesSize, featuresSize, nMappoints, nKeyframes, nFeatures)
	if got != h.Checksum {
		return fmt.Errorf("%w: header checksum %x, computed %x", errs.ErrChecksumMismatch, h.Checksum, got)
	}

	return nil
}
