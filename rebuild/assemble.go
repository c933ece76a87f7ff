package rebuild

import (
	"fmt"
	"sort"

	"github.com/vgraph/mapcore/errs"
	"github.com/vgraph/mapcore/mapmodel"
	"github.com/vgraph/mapcore/record"
	"github.com/vgraph/mapcore/valuecodec"
)

func assembleLandmarks(in []record.Landmark) (map[uint32]*mapmodel.Landmark, error) {
	out := make(map[uint32]*mapmodel.Landmark, len(in))

	for _, rl := range in {
		if _, dup := out[rl.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate landmark id %d", errs.ErrFieldCountMismatch, rl.ID)
		}

		out[rl.ID] = &mapmodel.Landmark{
			ID:            rl.ID,
			Position:      rl.Position,
			Visible:       rl.Visible,
			Found:         rl.Found,
			Descriptor:    rl.Descriptor,
			HasDescriptor: rl.HasDescriptor,
		}
	}

	return out, nil
}

func assembleKeyframes(in []record.Keyframe, table []valuecodec.Intrinsics, noLoops bool) (map[uint32]*mapmodel.Keyframe, error) {
	out := make(map[uint32]*mapmodel.Keyframe, len(in))

	for _, rk := range in {
		if _, dup := out[rk.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate keyframe id %d", errs.ErrFieldCountMismatch, rk.ID)
		}

		kf := &mapmodel.Keyframe{
			ID:         rk.ID,
			Pose:       rk.Pose,
			Timestamp:  rk.Timestamp,
			HasKIndex:  rk.HasKIndex,
			KIndex:     rk.KIndex,
			HasKInline: rk.HasKInline,
			KInline:    rk.KInline,
		}

		switch {
		case rk.HasKInline:
			kf.Intrinsics = rk.KInline
		case rk.HasKIndex && int(rk.KIndex) < len(table):
			kf.Intrinsics = table[rk.KIndex]
		}

		out[rk.ID] = kf
	}

	if noLoops {
		return out, nil
	}

	for _, rk := range in {
		kf := out[rk.ID]
		for _, partner := range rk.LoopEdgePartners {
			partnerKF, ok := out[partner]
			if !ok {
				continue
			}

			mapmodel.AddLoopEdge(kf, partnerKF)
		}
	}

	return out, nil
}

func attachFeatures(blocks []record.FeatureBlock, keyframes map[uint32]*mapmodel.Keyframe, landmarks map[uint32]*mapmodel.Landmark, logger errs.Logger) {
	for _, block := range blocks {
		kf, ok := keyframes[block.KeyframeID]
		if !ok {
			logger.Warnf("rebuild: feature block names unknown owning keyframe %d, skipping", block.KeyframeID)

			continue
		}

		features := make([]mapmodel.Feature, len(block.Features))

		for i, rf := range block.Features {
			f := mapmodel.Feature{
				Keypoint:      rf.Keypoint,
				HasDescriptor: rf.HasDescriptor,
				Descriptor:    rf.Descriptor,
			}

			if rf.HasLandmarkID {
				if l, ok := landmarks[rf.LandmarkID]; ok {
					f.Landmark = l
				} else {
					logger.Warnf("rebuild: feature %d of keyframe %d names unknown landmark %d, treating as unbound", i, block.KeyframeID, rf.LandmarkID)
				}
			}

			features[i] = f
		}

		kf.Features = features
	}
}

func orderedKeyframeSlice(keyframes map[uint32]*mapmodel.Keyframe) []*mapmodel.Keyframe {
	out := make([]*mapmodel.Keyframe, 0, len(keyframes))
	for _, kf := range keyframes {
		out = append(out, kf)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func orderedLandmarkSlice(landmarks map[uint32]*mapmodel.Landmark) []*mapmodel.Landmark {
	out := make([]*mapmodel.Landmark, 0, len(landmarks))
	for _, l := range landmarks {
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
