package rebuild

import "github.com/vgraph/mapcore/mapmodel"

// runPhaseA processes every keyframe in ascending id order, rebuilding the
// BoW vector, derived pose quantities, feature grid, database registration,
// covisibility connections and bad-flagging, then installs this
// keyframe's observations — spec.md §4.6 phase A.
func runPhaseA(keyframes []*mapmodel.Keyframe, cfg Config) {
	caps := cfg.Capabilities

	if caps.Database != nil {
		caps.Database.Clear()
	}

	for _, kf := range keyframes {
		kf.NotErase = len(kf.LoopEdges) > 0

		if caps.BoW != nil {
			caps.BoW.ComputeBoW(kf)
		}

		if caps.Pose != nil {
			caps.Pose.SetPose(kf)
		}

		kf.RebuildGrid(cfg.Grid)

		if caps.Database != nil {
			caps.Database.Add(kf)
		}

		if caps.Connections != nil {
			caps.Connections.UpdateConnections(kf)
		}

		if !cfg.NoSetBad && kf.ID != 0 && len(kf.OrderedConnected) == 0 {
			kf.Bad = true
		}

		for i, f := range kf.Features {
			if f.Landmark != nil {
				f.Landmark.AddObservation(kf, i)
			}
		}
	}
}
