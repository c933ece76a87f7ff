package artifact

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/valuecodec"
)

// KTuple is one row of the header's cameraMatrices list.
type KTuple struct {
	FX float32 `yaml:"fx"`
	FY float32 `yaml:"fy"`
	CX float32 `yaml:"cx"`
	CY float32 `yaml:"cy"`
}

// Header is the textual key/value document spec.md §6 defines, holding
// everything load needs before it can touch a binary artifact.
type Header struct {
	MappointsFile string `yaml:"mappointsFile,omitempty"`
	KeyframesFile string `yaml:"keyframesFile,omitempty"`
	FeaturesFile  string `yaml:"featuresFile,omitempty"`

	NMappoints int `yaml:"nMappoints"`
	NKeyframes int `yaml:"nKeyframes"`
	NFeatures  int `yaml:"nFeatures"`

	Options Options `yaml:"Options"`

	CameraMatrices []KTuple `yaml:"cameraMatrices,omitempty"`

	OptionsDescriptions []string `yaml:"Options descriptions,omitempty"`

	// Checksum is a supplement beyond spec.md's header fields: an xxhash64
	// digest over the written artifact sizes and counts, a cheap
	// forward-compatible integrity check the reader verifies when
	// present and ignores when absent (older artifacts have no checksum
	// key at all).
	Checksum uint64 `yaml:"checksum,omitempty"`
}

// KTuplesFromIntrinsics converts a resolved intrinsics table into the
// header's camera-matrices rows.
func KTuplesFromIntrinsics(table []valuecodec.Intrinsics) []KTuple {
	out := make([]KTuple, len(table))
	for i, k := range table {
		out[i] = KTuple{FX: k.FX, FY: k.FY, CX: k.CX, CY: k.CY}
	}

	return out
}

// IntrinsicsFromKTuples is the inverse of KTuplesFromIntrinsics.
func IntrinsicsFromKTuples(rows []KTuple) []valuecodec.Intrinsics {
	out := make([]valuecodec.Intrinsics, len(rows))
	for i, row := range rows {
		out[i] = valuecodec.Intrinsics{FX: row.FX, FY: row.FY, CX: row.CX, CY: row.CY}
	}

	return out
}

// WriteHeader marshals h as yaml and writes it to path.
func WriteHeader(path string, h Header) error {
	data, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("%w: marshal header: %v", errs.ErrHeaderParse, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write header: %v", errs.ErrIO, err)
	}

	return nil
}

// ReadHeader reads and parses the header document at path.
func ReadHeader(path string) (Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Header{}, fmt.Errorf("%w: read header: %v", errs.ErrIO, err)
	}

	var h Header
	if err := yaml.Unmarshal(data, &h); err != nil {
		return Header{}, fmt.Errorf("%w: unmarshal header: %v", errs.ErrHeaderParse, err)
	}

	return h, nil
}
