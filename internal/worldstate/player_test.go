package worldstate

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/mapfile"
	"github.com/scathanna-go/scathanna/internal/physics"
	"github.com/scathanna-go/scathanna/internal/voxel"
)

func newTestWorld() *World {
	vx := voxel.NewVoxels()
	return NewWorld(&mapfile.Map{Name: "test", Voxels: vx})
}

func TestPlayerGunCooldownDefaultsToSlow(t *testing.T) {
	w := newTestWorld()
	p := NewPlayer(1, mgl32.Vec3{}, physics.Orientation{}, "p", 0, TeamRed)
	if got := p.GunCooldown(w); got != DefaultGunCooldown {
		t.Errorf("GunCooldown() = %v, want %v", got, DefaultGunCooldown)
	}
}

func TestPlayerGunCooldownFastWithCowboyHat(t *testing.T) {
	w := newTestWorld()
	p := NewPlayer(1, mgl32.Vec3{}, physics.Orientation{}, "p", 0, TeamRed)
	hat := CowboyHat
	p.Powerup = &hat
	if got := p.GunCooldown(w); got != fastGunCooldown {
		t.Errorf("GunCooldown() = %v, want %v", got, fastGunCooldown)
	}
}

func TestPlayerIsOnLavaDetectsLavaVoxelUnderfoot(t *testing.T) {
	w := newTestWorld()
	w.Map.Voxels.SetVoxel(voxel.IVec3{0, -1, 0}, voxel.Lava)

	p := NewPlayer(1, mgl32.Vec3{0, 0, 0}, physics.Orientation{}, "p", 0, TeamRed)
	if !p.IsOnLava(w) {
		t.Error("expected player standing above a lava voxel to be on lava")
	}
}

func TestPlayerCannotBeHitWhenUnspawned(t *testing.T) {
	p := NewPlayer(1, mgl32.Vec3{0, 0, 0}, physics.Orientation{}, "p", 0, TeamRed)
	ray := voxel.Ray{Origin: mgl32.Vec3{0, 1, -100}, Direction: mgl32.Vec3{0, 0, 1}}
	if _, ok := p.Intersect(ray); ok {
		t.Error("expected unspawned player to never be hit")
	}
}

func TestPlayerCanBeHitWhenSpawned(t *testing.T) {
	p := NewPlayer(1, mgl32.Vec3{0, 0, 0}, physics.Orientation{}, "p", 0, TeamRed)
	p.Spawned = true
	ray := voxel.Ray{Origin: mgl32.Vec3{0, 1, -100}, Direction: mgl32.Vec3{0, 0, 1}}
	if _, ok := p.Intersect(ray); !ok {
		t.Error("expected spawned player standing in the ray's path to be hit")
	}
}

func TestWorldIntersectExceptSkipsShooter(t *testing.T) {
	w := newTestWorld()
	shooter := NewPlayer(1, mgl32.Vec3{0, 0, 0}, physics.Orientation{}, "shooter", 0, TeamRed)
	shooter.Spawned = true
	w.Players[1] = shooter

	victim := NewPlayer(2, mgl32.Vec3{0, 0, 50}, physics.Orientation{}, "victim", 0, TeamBlue)
	victim.Spawned = true
	w.Players[2] = victim

	ray := voxel.Ray{Origin: mgl32.Vec3{0, 1, -100}, Direction: mgl32.Vec3{0, 0, 1}}
	_, hit, ok := w.IntersectExcept(1, ray)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit == nil || *hit != 2 {
		t.Errorf("expected to hit victim (2), got %v", hit)
	}
}

func TestWorldIntersectExceptHitsMapBeforeFartherPlayer(t *testing.T) {
	w := newTestWorld()
	w.Map.Voxels.SetRange(voxel.NewCuboid(voxel.IVec3{-5, -5, 40}, voxel.IVec3{5, 5, 45}), voxel.Voxel(1))

	victim := NewPlayer(2, mgl32.Vec3{0, 0, 100}, physics.Orientation{}, "victim", 0, TeamBlue)
	victim.Spawned = true
	w.Players[2] = victim

	ray := voxel.Ray{Origin: mgl32.Vec3{0, 1, -100}, Direction: mgl32.Vec3{0, 0, 1}}
	_, hit, ok := w.IntersectExcept(1, ray)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit != nil {
		t.Errorf("expected the wall to be hit (nil player), got %v", *hit)
	}
}
