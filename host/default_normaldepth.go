package host

import (
	"math"

	"github.com/vgraph/mapcore/mapmodel"
)

// ScaleFactor and OctaveLevels mirror the ORB pyramid geometry a monocular
// SLAM front end typically runs (1.2x per level, 8 levels): the constants
// DefaultNormalDepthUpdater uses to turn a reference-keyframe distance
// into the min/max observable distance band.
const (
	ScaleFactor  = 1.2
	OctaveLevels = 8
)

// DefaultNormalDepthUpdater recomputes a landmark's mean viewing direction
// and min/max observable distance from its current observation set and
// reference keyframe, the recomputation spec.md §4.6 phase D step 3
// delegates to the host.
type DefaultNormalDepthUpdater struct{}

// UpdateNormalAndDepth implements NormalDepthUpdater. l.ReferenceKeyframe
// must already be set (phase D installs it immediately before calling
// this).
func (DefaultNormalDepthUpdater) UpdateNormalAndDepth(l *mapmodel.Landmark) {
	if !l.HasObservations() {
		return
	}

	var sum [3]float32

	for _, obs := range l.Observations {
		dir := viewingDirection(l.Position, obs.Keyframe.CameraCenter)
		sum[0] += dir[0]
		sum[1] += dir[1]
		sum[2] += dir[2]
	}

	n := float32(len(l.Observations))
	normal := [3]float32{sum[0] / n, sum[1] / n, sum[2] / n}
	l.Normal = normalize(normal)

	if l.ReferenceKeyframe == nil {
		return
	}

	dist := distance(l.Position, l.ReferenceKeyframe.CameraCenter)
	octave := 0

	for _, f := range l.ReferenceKeyframe.Features {
		if f.Landmark == l {
			octave = int(f.Keypoint.Octave)

			break
		}
	}

	scale := math.Pow(ScaleFactor, float64(octave))
	l.MaxDistance = dist * float32(scale)
	l.MinDistance = l.MaxDistance / float32(math.Pow(ScaleFactor, float64(OctaveLevels-1)))
}

func viewingDirection(position [3]float32, cameraCenter [3]float32) [3]float32 {
	d := [3]float32{position[0] - cameraCenter[0], position[1] - cameraCenter[1], position[2] - cameraCenter[2]}

	return normalize(d)
}

func normalize(v [3]float32) [3]float32 {
	length := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if length == 0 {
		return v
	}

	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}

func distance(a, b [3]float32) float32 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]

	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}
