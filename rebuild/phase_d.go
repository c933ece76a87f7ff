package rebuild

import "github.com/vgraph/mapcore/mapmodel"

// runPhaseD processes every landmark in ascending id order, installing the
// reference keyframe and normal/depth summary for every landmark with a
// non-empty observation set, bad-flagging empty ones unless NoSetBad is
// set — spec.md §4.6 phase D. A landmark that reaches here with no
// observations and NoSetBad in effect (or id 0) is left in the Map and
// reported as abnormal rather than silently dropped (see DESIGN.md's open
// question decision).
func runPhaseD(landmarks []*mapmodel.Landmark, cfg Config) Report {
	var report Report

	for _, l := range landmarks {
		if !l.HasObservations() {
			if !cfg.NoSetBad && l.ID != 0 {
				l.Bad = true

				continue
			}

			report.AbnormalLandmarks = append(report.AbnormalLandmarks, l.ID)

			continue
		}

		l.ReferenceKeyframe = l.Observations[0].Keyframe

		if cfg.Capabilities.NormalDepth != nil {
			cfg.Capabilities.NormalDepth.UpdateNormalAndDepth(l)
		}
	}

	return report
}
