// Package mapmodel holds the live, in-memory SLAM map graph: Landmarks,
// Keyframes and the Feature observations binding them, plus the derived
// structures (covisibility, spanning tree, loop edges) the rebuilder
// restores and the depurator repairs. These types are the host's Map, not
// the wire records in package record — record.Landmark/Keyframe/Feature
// hold exactly what gets persisted; the types here hold everything,
// persisted or derived.
package mapmodel

// Observation is the relation "keyframe K sees landmark L at feature
// index i," restored by the rebuilder from each Feature's landmark id.
type Observation struct {
	Keyframe     *Keyframe
	FeatureIndex int
}
