// Package mesh turns a voxel world into drawable geometry: exposed-face
// extraction, greedy 2D merging of adjacent same-size faces into larger
// rectangles, and lightmap UV strip-packing.
package mesh

import "github.com/scathanna-go/scathanna/internal/voxel"

// CollectFacesByVoxel walks every maximal uniform cube in vx and emits one
// Rectangle per exposed face (or several, if a neighbor is Mixed and the
// face is only partially exposed), grouped by the voxel kind of the cube it
// belongs to.
func CollectFacesByVoxel(vx *voxel.Voxels) map[voxel.Voxel][]voxel.Rectangle {
	out := make(map[voxel.Voxel][]voxel.Rectangle)
	vx.VisitNonemptyCubes(func(c voxel.Cube, v voxel.Voxel) {
		for _, dir := range voxel.AllDirections {
			visitExposedFace(vx, c, c, dir, func(sub voxel.Cube) {
				out[v] = append(out[v], faceRectangle(sub, dir))
			})
		}
	})
	return out
}

// CollectFacesByVoxelInCell is CollectFacesByVoxel restricted to the single
// cell rooted at cellOrigin, returning faces in cell-local coordinates
// (origin at zero) so that the result can be fed straight to JoinSquares.
func CollectFacesByVoxelInCell(vx *voxel.Voxels, cellOrigin voxel.IVec3) map[voxel.Voxel][]voxel.Rectangle {
	root := vx.CellRoot(cellOrigin)
	if root == nil {
		return nil
	}
	out := make(map[voxel.Voxel][]voxel.Rectangle)
	root.VisitNonemptyCubes(voxel.IVec3{}, voxel.CellSize, func(localCube voxel.Cube, v voxel.Voxel) {
		worldCube := voxel.NewCube(localCube.Position().Add(cellOrigin), localCube.Size())
		for _, dir := range voxel.AllDirections {
			visitExposedFace(vx, worldCube, localCube, dir, func(sub voxel.Cube) {
				out[v] = append(out[v], faceRectangle(sub, dir))
			})
		}
	})
	return out
}

// visitExposedFace classifies the cube just beyond worldCube along dir:
//
//   - Uniform-empty: the whole dir-facing side of localCube is exposed, emit
//     it whole.
//   - Uniform-nonempty: the side is fully occluded, emit nothing.
//   - Mixed: the neighbor is part empty, part occupied. Split localCube (and
//     worldCube, to stay in lockstep) into the 4 quarter-size sub-cubes lying
//     against that side and recurse into each, so only the genuinely exposed
//     portion of the face survives.
func visitExposedFace(vx *voxel.Voxels, worldCube, localCube voxel.Cube, dir voxel.Direction, emit func(voxel.Cube)) {
	neighbor := worldCube.Translate(dir.Normal().Scale(worldCube.Size()))
	switch ct := vx.QueryCube(neighbor); {
	case ct.Uniform && ct.Voxel == voxel.Empty:
		emit(localCube)
	case !ct.Uniform:
		half := worldCube.Size() / 2
		for _, off := range faceSideOffsets(dir, half) {
			wSub := voxel.NewCube(worldCube.Min().Add(off), half)
			lSub := voxel.NewCube(localCube.Min().Add(off), half)
			visitExposedFace(vx, wSub, lSub, dir, emit)
		}
	}
}

// faceSideOffsets returns the 4 child-cube offsets (of the given half size)
// that lie against the dir-facing side of their parent cube: all 4
// combinations along the two axes perpendicular to dir, pinned to the near
// or far half along dir's own axis depending on its side.
func faceSideOffsets(dir voxel.Direction, half int32) [4]voxel.IVec3 {
	axis := dir.Axis()
	var onSide int32
	if dir.Side() == 1 {
		onSide = half
	}
	var perp [2]int
	i := 0
	for a := 0; a < 3; a++ {
		if a != axis {
			perp[i] = a
			i++
		}
	}
	var out [4]voxel.IVec3
	for i, combo := range [4][2]int32{{0, 0}, {0, half}, {half, 0}, {half, half}} {
		var off voxel.IVec3
		setAxis(&off, axis, onSide)
		setAxis(&off, perp[0], combo[0])
		setAxis(&off, perp[1], combo[1])
		out[i] = off
	}
	return out
}

func setAxis(p *voxel.IVec3, axis int, v int32) {
	switch axis {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	default:
		p.Z = v
	}
}

// faceRectangle builds the Rectangle covering the dir-facing side of c.
func faceRectangle(c voxel.Cube, dir voxel.Direction) voxel.Rectangle {
	size := c.Size()
	origin := c.Min()
	if dir.Side() == 1 {
		origin = origin.Add(dir.Normal().Scale(size))
	}
	return voxel.Rectangle{
		Position:  origin,
		W:         size,
		H:         size,
		Direction: dir,
	}
}
