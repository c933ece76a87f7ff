package host

import "github.com/vgraph/mapcore/mapmodel"

// DefaultPoseSetter recomputes a keyframe's rotation, translation and
// camera center directly from its pose matrix, the same derivation
// spec.md's Data Model table lists as "not persisted; rebuilt."
type DefaultPoseSetter struct{}

// SetPose implements PoseSetter.
func (DefaultPoseSetter) SetPose(kf *mapmodel.Keyframe) {
	kf.Rotation = kf.Pose.Rotation()
	kf.Translation = kf.Pose.Translation()
	kf.CameraCenter = kf.Pose.CameraCenter()
}
