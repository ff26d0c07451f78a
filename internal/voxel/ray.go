package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a parametric ray Origin + t*Direction, t >= 0.
type Ray struct {
	Origin, Direction mgl32.Vec3
}

// FBox is an axis-aligned box in float coordinates, used for ray casts
// against a Cuboid or Cube converted via ToFBox.
type FBox struct {
	Min, Max mgl32.Vec3
}

func (c Cuboid) ToFBox() FBox {
	return FBox{
		Min: mgl32.Vec3{float32(c.Min.X), float32(c.Min.Y), float32(c.Min.Z)},
		Max: mgl32.Vec3{float32(c.Max.X), float32(c.Max.Y), float32(c.Max.Z)},
	}
}

// Intersect performs a slab test, returning the entry/exit distances
// [tMin, tMax] along the ray where it overlaps the box. ok is false if the
// ray misses the box entirely or the box is entirely behind the origin.
func (b FBox) Intersect(r Ray) (tMin, tMax float32, ok bool) {
	tMin, tMax = 0, float32(math.Inf(1))
	for axis := 0; axis < 3; axis++ {
		origin := r.Origin[axis]
		dir := r.Direction[axis]
		lo := b.Min[axis]
		hi := b.Max[axis]

		if dir == 0 {
			if origin < lo || origin > hi {
				return 0, 0, false
			}
			continue
		}

		t1 := (lo - origin) / dir
		t2 := (hi - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}
