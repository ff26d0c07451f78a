package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

func flatGround(vx *voxel.Voxels) {
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{-50, -1, -50}, voxel.IVec3{50, 0, 50}), voxel.Voxel(1))
}

func TestSkeletonRestsOnGround(t *testing.T) {
	vx := voxel.NewVoxels()
	flatGround(vx)

	s := NewSkeleton(mgl32.Vec3{0, 0, 0}, Orientation{}, 3.8, 5.8)
	if !s.OnGround(vx) {
		t.Fatal("expected skeleton standing at y=0 on ground at y=-1..0 to be grounded")
	}
}

func TestSkeletonFallsUnderGravity(t *testing.T) {
	vx := voxel.NewVoxels() // empty world, nothing to land on
	s := NewSkeleton(mgl32.Vec3{0, 100, 0}, Orientation{}, 3.8, 5.8)

	for i := 0; i < 10; i++ {
		s.Tick(vx, 1.0/60)
	}
	if s.Velocity.Y() >= 0 {
		t.Errorf("expected downward velocity after falling, got %v", s.Velocity.Y())
	}
	if s.Position.Y() >= 100 {
		t.Errorf("expected position to have dropped below 100, got %v", s.Position.Y())
	}
}

func TestSkeletonJumpOnlyFromGround(t *testing.T) {
	vx := voxel.NewVoxels()
	flatGround(vx)
	s := NewSkeleton(mgl32.Vec3{0, 0, 0}, Orientation{}, 3.8, 5.8)

	if !s.TryJump(vx, 24.0) {
		t.Fatal("expected jump to succeed while grounded")
	}
	if s.Velocity.Y() != 24.0 {
		t.Errorf("expected jump velocity 24.0, got %v", s.Velocity.Y())
	}

	// Airborne now (positive vertical velocity, no ground under the new position yet
	// since we haven't ticked): a second jump attempt without landing must fail.
	s.Position = mgl32.Vec3{0, 50, 0}
	if s.TryJump(vx, 24.0) {
		t.Error("expected jump to fail while airborne")
	}
}

func TestSkeletonStopsAtWall(t *testing.T) {
	vx := voxel.NewVoxels()
	flatGround(vx)
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{5, 0, -50}, voxel.IVec3{6, 10, 50}), voxel.Voxel(1))

	s := NewSkeleton(mgl32.Vec3{0, 0, 0}, Orientation{}, 3.8, 5.8)
	s.Velocity = mgl32.Vec3{100, 0, 0}
	for i := 0; i < 60; i++ {
		s.Tick(vx, 1.0/60)
	}
	if s.Position.X() >= 5 {
		t.Errorf("expected skeleton to be stopped by the wall near x=5, got x=%v", s.Position.X())
	}
}

func TestSkeletonRescuedWhenStuck(t *testing.T) {
	vx := voxel.NewVoxels()
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{-5, -5, -5}, voxel.IVec3{5, 5, 5}), voxel.Voxel(1))

	s := NewSkeleton(mgl32.Vec3{0, 0, 0}, Orientation{}, 3.8, 5.8)
	s.Tick(vx, 1.0/60)
	if s.Position.Y() <= 0 {
		t.Errorf("expected rescue to lift skeleton upward out of solid geometry, got y=%v", s.Position.Y())
	}
}
