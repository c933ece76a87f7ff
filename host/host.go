// Package host declares the capabilities the persistence core borrows
// from its surrounding SLAM engine rather than implementing itself:
// bag-of-words computation, pose derivation, covisibility/connection
// maintenance, normal-and-depth recomputation, the keyframe database and
// thread pause/resume. spec.md §9 is explicit that the rebuilder "must not
// bake in a particular tracker/mapper" — these interfaces are the seam.
package host

import "github.com/vgraph/mapcore/mapmodel"

// BoWComputer builds a keyframe's bag-of-words vector from its persisted
// descriptors. Grounded on the "opaque capability computeBoW(keyframe)"
// spec.md §1 names as out of scope.
type BoWComputer interface {
	ComputeBoW(kf *mapmodel.Keyframe)
}

// PoseSetter installs a keyframe's pose and recomputes the pose
// quantities derived from it (rotation, translation, camera center).
type PoseSetter interface {
	SetPose(kf *mapmodel.Keyframe)
}

// ConnectionUpdater rebuilds a keyframe's covisibility weights and ordered
// connected-keyframe list from its currently installed observations.
type ConnectionUpdater interface {
	UpdateConnections(kf *mapmodel.Keyframe)
}

// NormalDepthUpdater recomputes a landmark's mean viewing direction and
// min/max observable distance from its observation set.
type NormalDepthUpdater interface {
	UpdateNormalAndDepth(l *mapmodel.Landmark)
}

// KeyFrameDatabase indexes keyframes by their bag-of-words vector for
// place-recognition queries. Add and Clear are the only operations the
// rebuilder needs.
type KeyFrameDatabase interface {
	Add(kf *mapmodel.Keyframe)
	Clear()
}

// ThreadController is the blocking request/poll seam the orchestrator uses
// to pause and resume a host thread (tracker, local mapper, viewer) around
// a save or load. RequestStop is non-blocking; callers busy-wait on
// IsStopped per spec.md §5.
type ThreadController interface {
	RequestStop()
	IsStopped() bool
	Resume()
}

// TrackingState is the tracker's session-state seam: Reset discards the
// tracker's current pose anchor before a load replaces the map under it,
// and SetLost puts the tracker into the LOST state once the replacement
// map is published, since the freshly loaded map has no pose anchor
// relative to the live camera (spec.md §4.7 load steps 1 and 6).
type TrackingState interface {
	Reset()
	SetLost()
}

// Capabilities bundles every host seam the rebuilder and orchestrator
// need, so callers wire one value instead of passing each interface
// through every function signature.
type Capabilities struct {
	BoW         BoWComputer
	Pose        PoseSetter
	Connections ConnectionUpdater
	NormalDepth NormalDepthUpdater
	Database    KeyFrameDatabase
	LocalMapper ThreadController
	Tracker     ThreadController
	Viewer      ThreadController
	Tracking    TrackingState
}
