package mapmodel

import "github.com/vgraph/mapcore/valuecodec"

// GridGeometry is the shared image-plane geometry every keyframe's feature
// grid is rebuilt against: the undistorted image bounds and the cell size
// reciprocals used to bucket a keypoint into a grid cell. These values are
// a property of the camera/frame setup, not of any one keyframe, and are
// never persisted — the host supplies them before a rebuild runs.
type GridGeometry struct {
	Cols, Rows    int
	MinX, MaxX    float32
	MinY, MaxY    float32
	InvCellWidth  float32
	InvCellHeight float32
}

// Keyframe is a selected camera frame retained as a mapping anchor. Pose,
// Timestamp, the intrinsics selector (KIndex/KInline) and LoopEdges'
// smaller-id half are persisted; everything else is rebuilt.
type Keyframe struct {
	ID        uint32
	Pose      valuecodec.Pose
	Timestamp float64

	HasKIndex  bool
	KIndex     uint32
	HasKInline bool
	KInline    valuecodec.Intrinsics

	// Intrinsics is the resolved calibration this keyframe actually uses,
	// filled in from the header's table (via KIndex) or from KInline at
	// load time.
	Intrinsics valuecodec.Intrinsics

	Features []Feature

	// BoW is the bag-of-words vector computed by the host's vocabulary
	// capability; opaque to this package.
	BoW []byte

	Rotation     [9]float32
	Translation  [3]float32
	CameraCenter [3]float32

	Grid [][][]int

	ConnectedWeights map[uint32]int
	OrderedConnected []uint32

	Parent    *Keyframe
	HasParent bool

	// LoopEdges is the full bidirectional partner set after rebuild; on
	// disk only the half with the smaller partner id is ever written (see
	// record.Keyframe.LoopEdgePartners).
	LoopEdges map[uint32]struct{}

	NotErase bool
	Bad      bool
}

// AddLoopEdge installs a mutual loop-closure relationship between a and b,
// the symmetry every loop edge must have per spec.md §3.
func AddLoopEdge(a, b *Keyframe) {
	if a.LoopEdges == nil {
		a.LoopEdges = make(map[uint32]struct{})
	}

	if b.LoopEdges == nil {
		b.LoopEdges = make(map[uint32]struct{})
	}

	a.LoopEdges[b.ID] = struct{}{}
	b.LoopEdges[a.ID] = struct{}{}
}

// SmallerLoopEdgePartners returns the loop partners with id smaller than
// kf.ID, sorted ascending — the half of the symmetric relationship that
// gets persisted.
func (kf *Keyframe) SmallerLoopEdgePartners() []uint32 {
	var partners []uint32

	for partner := range kf.LoopEdges {
		if partner < kf.ID {
			partners = append(partners, partner)
		}
	}

	sortUint32s(partners)

	return partners
}

func sortUint32s(s []uint32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Feature is one detected keypoint within a keyframe, optionally bound to
// a landmark; the binding is the observation edge.
type Feature struct {
	Keypoint valuecodec.Keypoint

	Landmark *Landmark

	HasDescriptor bool
	Descriptor    valuecodec.Descriptor
}
