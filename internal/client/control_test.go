package client

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestWalkDirForwardAtZeroYawFacesNegativeZ(t *testing.T) {
	var in InputState
	in.RecordKey(KeyForward, true)

	dir := walkDir(0, &in)
	if dir.Z() >= 0 {
		t.Errorf("walkDir() = %v, want negative Z (facing -Z at yaw 0)", dir)
	}
}

func TestWalkDirForwardRotatesWithYaw(t *testing.T) {
	var in InputState
	in.RecordKey(KeyForward, true)

	dir := walkDir(float32(math.Pi/2), &in)
	if dir.X() >= -0.9 {
		t.Errorf("walkDir() at yaw pi/2 = %v, want close to -X (LookDir at yaw pi/2)", dir)
	}
}

func TestWalkDirNoKeysIsZero(t *testing.T) {
	var in InputState
	if dir := walkDir(0, &in); dir != (mgl32.Vec3{}) {
		t.Errorf("walkDir() with no keys held = %v, want zero vector", dir)
	}
}

func TestWalkDirOppositeKeysCancel(t *testing.T) {
	var in InputState
	in.RecordKey(KeyLeft, true)
	in.RecordKey(KeyRight, true)

	if dir := walkDir(0, &in); dir != (mgl32.Vec3{}) {
		t.Errorf("walkDir() with opposing keys = %v, want zero vector", dir)
	}
}

func TestVoxelAtFloorsNegativeCoordinates(t *testing.T) {
	got := voxelAt(mgl32.Vec3{-0.5, 1.9, -3.1})
	want := struct{ X, Y, Z int32 }{-1, 1, -4}
	if got.X != want.X || got.Y != want.Y || got.Z != want.Z {
		t.Errorf("voxelAt() = %+v, want %+v", got, want)
	}
}
