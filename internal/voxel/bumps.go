package voxel

import "math"

// BumpsBox reports whether any voxel enclosed by the float-coordinate box b
// is non-empty. The box is floored/ceiled to the smallest enclosing integer
// Cuboid before testing, matching the half-open voxel grid convention used
// throughout this package. Used by player movement to test whether a
// candidate position collides with the world.
func (vx *Voxels) BumpsBox(b FBox) bool {
	min := IVec3{
		int32(math.Floor(float64(b.Min.X()))),
		int32(math.Floor(float64(b.Min.Y()))),
		int32(math.Floor(float64(b.Min.Z()))),
	}
	max := IVec3{
		int32(math.Ceil(float64(b.Max.X()))),
		int32(math.Ceil(float64(b.Max.Y()))),
		int32(math.Ceil(float64(b.Max.Z()))),
	}
	return vx.Intersects(Cuboid{Min: min, Max: max})
}
