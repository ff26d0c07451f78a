package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Intersect finds the closest non-empty voxel ray crosses within [0, maxDist].
// It walks the cells the ray passes through nearest-first (a 3D grid DDA)
// and descends each allocated cell's octree via Node.Intersect; since cells
// are visited in increasing distance order, the first hit found is already
// the closest, so cells beyond it are never even reached.
func (vx *Voxels) Intersect(ray Ray, maxDist float32) (v Voxel, t float32, ok bool) {
	dir := ray.Direction
	if dir.Len() == 0 {
		return Empty, 0, false
	}
	dir = dir.Normalize()
	r := Ray{Origin: ray.Origin, Direction: dir}

	cellf := float32(CellSize)
	origin := ray.Origin
	cellPos := AlignDown(floorToIVec3(origin), CellSize)

	stepX, tMaxX, tDeltaX := axisStep(origin.X(), float32(cellPos.X), dir.X(), cellf)
	stepY, tMaxY, tDeltaY := axisStep(origin.Y(), float32(cellPos.Y), dir.Y(), cellf)
	stepZ, tMaxZ, tDeltaZ := axisStep(origin.Z(), float32(cellPos.Z), dir.Z(), cellf)

	for t := float32(0); t <= maxDist; {
		if cell := vx.cellAt(cellPos); cell != nil {
			if hv, ht, hok := cell.Intersect(NewCube(cellPos, CellSize), r); hok && ht <= maxDist {
				return hv, ht, true
			}
		}

		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			cellPos.X += stepX * CellSize
			t, tMaxX = tMaxX, tMaxX+tDeltaX
		case tMaxY <= tMaxZ:
			cellPos.Y += stepY * CellSize
			t, tMaxY = tMaxY, tMaxY+tDeltaY
		default:
			cellPos.Z += stepZ * CellSize
			t, tMaxZ = tMaxZ, tMaxZ+tDeltaZ
		}
	}
	return Empty, 0, false
}

// axisStep computes one axis' grid-DDA step direction, the distance to the
// next cell boundary, and the distance a full cell spans along the ray.
func axisStep(origin, cellOrigin, dir, cellSize float32) (step int32, tMax, tDelta float32) {
	inf := float32(math.Inf(1))
	switch {
	case dir > 0:
		return 1, (cellOrigin + cellSize - origin) / dir, cellSize / dir
	case dir < 0:
		return -1, (cellOrigin - origin) / dir, cellSize / -dir
	default:
		return 0, inf, inf
	}
}

func floorToIVec3(p mgl32.Vec3) IVec3 {
	return IVec3{
		X: int32(math.Floor(float64(p.X()))),
		Y: int32(math.Floor(float64(p.Y()))),
		Z: int32(math.Floor(float64(p.Z()))),
	}
}

// March is an alias for Intersect kept for callers that think in terms of
// "marching" a ray through the world rather than an AABB query.
func (vx *Voxels) March(ray Ray, maxDist float32) (v Voxel, t float32, ok bool) {
	return vx.Intersect(ray, maxDist)
}

// Occluded reports whether any voxel blocks the ray within maxDist — a
// cheaper boolean form of Intersect for shadow/visibility tests that don't
// need to know what was hit.
func (vx *Voxels) Occluded(ray Ray, maxDist float32) bool {
	_, _, ok := vx.Intersect(ray, maxDist)
	return ok
}
