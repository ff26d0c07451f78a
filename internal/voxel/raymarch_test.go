package voxel

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMarchHitsSetVoxel(t *testing.T) {
	vx := NewVoxels()
	vx.SetVoxel(IVec3{10, 0, 0}, Voxel(3))
	ray := Ray{Origin: mgl32.Vec3{0, 0.5, 0.5}, Direction: mgl32.Vec3{1, 0, 0}}
	v, _, ok := vx.March(ray, 20)
	if !ok || v != Voxel(3) {
		t.Fatalf("March = %v,%v want hit on voxel 3", v, ok)
	}
}

func TestMarchMissesBeyondRange(t *testing.T) {
	vx := NewVoxels()
	vx.SetVoxel(IVec3{100, 0, 0}, Voxel(3))
	ray := Ray{Origin: mgl32.Vec3{0, 0.5, 0.5}, Direction: mgl32.Vec3{1, 0, 0}}
	if vx.Occluded(ray, 10) {
		t.Fatalf("expected no occlusion within short range")
	}
}

func TestMarchZeroDirectionNeverHits(t *testing.T) {
	vx := NewVoxels()
	vx.SetVoxel(IVec3{0, 0, 0}, Voxel(1))
	ray := Ray{Origin: mgl32.Vec3{0.5, 0.5, 0.5}, Direction: mgl32.Vec3{0, 0, 0}}
	if vx.Occluded(ray, 10) {
		t.Fatalf("zero-length direction should never report occlusion")
	}
}

func TestMarchReportsExactDistanceOnDiagonalRay(t *testing.T) {
	vx := NewVoxels()
	vx.SetVoxel(IVec3{5, 5, 5}, Voxel(7))
	ray := Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{1, 1, 1}}
	v, got, ok := vx.March(ray, 50)
	if !ok || v != Voxel(7) {
		t.Fatalf("March = %v,%v want hit on voxel 7", v, ok)
	}
	// An axis-aligned slab test against [5,6)^3 along a normalized (1,1,1)
	// direction hits at exactly 5*sqrt(3), not a value quantized to any
	// fixed step size.
	want := float32(5 * math.Sqrt(3))
	if diff := got - want; diff < -0.01 || diff > 0.01 {
		t.Errorf("got distance %v, want %v (±0.01)", got, want)
	}
}
