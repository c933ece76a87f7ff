package host

import (
	"encoding/binary"

	"github.com/vgraph/mapcore/internal/hash"
	"github.com/vgraph/mapcore/mapmodel"
)

// DefaultBoWComputer stands in for the visual vocabulary spec.md §1 treats
// as an opaque out-of-scope capability: it derives a deterministic,
// fixed-width vector from the keyframe's persisted descriptors so the rest
// of the pipeline (keyframe database lookups, tests) has something stable
// to key on, without depending on an actual trained vocabulary.
type DefaultBoWComputer struct{}

// ComputeBoW implements BoWComputer.
func (DefaultBoWComputer) ComputeBoW(kf *mapmodel.Keyframe) {
	var seed uint64 = 0xcbf29ce484222325

	for _, f := range kf.Features {
		if !f.HasDescriptor {
			continue
		}

		seed = hash.Sum64(f.Descriptor[:]) ^ (seed * 1099511628211)
	}

	kf.BoW = make([]byte, 8)
	binary.LittleEndian.PutUint64(kf.BoW, seed)
}
