package mapmodel

import "math"

// RebuildGrid allocates kf.Grid at geom's dimensions and buckets every
// feature index into its cell, per spec.md §4.6 phase A step 4. A feature
// whose computed cell falls outside the grid is silently dropped from the
// grid (it remains reachable through kf.Features).
func (kf *Keyframe) RebuildGrid(geom GridGeometry) {
	kf.Grid = make([][][]int, geom.Cols)
	for i := range kf.Grid {
		kf.Grid[i] = make([][]int, geom.Rows)
	}

	for i, f := range kf.Features {
		cellX := int(math.Round(float64((f.Keypoint.X - geom.MinX) * geom.InvCellWidth)))
		cellY := int(math.Round(float64((f.Keypoint.Y - geom.MinY) * geom.InvCellHeight)))

		if cellX < 0 || cellX >= geom.Cols || cellY < 0 || cellY >= geom.Rows {
			continue
		}

		kf.Grid[cellX][cellY] = append(kf.Grid[cellX][cellY], i)
	}
}
