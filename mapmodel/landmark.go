package mapmodel

import "github.com/vgraph/mapcore/valuecodec"

// Landmark is a persistent 3D point estimated from multiple camera
// observations. Position, Visible, Found and Descriptor are persisted
// directly; everything else is rebuilt after load.
type Landmark struct {
	ID            uint32
	Position      valuecodec.Position
	Visible       uint32
	Found         uint32
	Descriptor    valuecodec.Descriptor
	HasDescriptor bool

	// Observations, ReferenceKeyframe, MinDistance, MaxDistance, Normal and
	// Bad are never persisted; they are installed by the rebuilder (see
	// package rebuild) from the observation set alone.
	Observations      []Observation
	ReferenceKeyframe *Keyframe
	MinDistance       float32
	MaxDistance       float32
	Normal            [3]float32
	Bad               bool
}

// AddObservation records that kf sees this landmark at featureIndex.
// Observations are installed in ascending keyframe id order during
// rebuild, so Observations[0] is always the first (smallest-id) observer.
func (l *Landmark) AddObservation(kf *Keyframe, featureIndex int) {
	l.Observations = append(l.Observations, Observation{Keyframe: kf, FeatureIndex: featureIndex})
}

// HasObservations reports whether any keyframe currently sees this
// landmark.
func (l *Landmark) HasObservations() bool {
	return len(l.Observations) > 0
}
