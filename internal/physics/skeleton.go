// Package physics implements the player movement model: an axis-aligned
// capsule approximated as a box, integrated against a voxel world via small
// substeps.
package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

// Gravity and stair-climb constants, in world units per second (squared for
// gravity).
const (
	Gravity         float32 = 48.0
	StairClimbSpeed float32 = 15.0

	moveSubsteps = 16
	stairProbeY  = 2.1
	gravityDamp  = 0.05
)

// Skeleton is the physical body of a player: a box of size
// (HSize, VSize, HSize) with its bottom-center at Position.
type Skeleton struct {
	HSize, VSize float32
	Position     mgl32.Vec3
	Velocity     mgl32.Vec3
	Orientation  Orientation
}

func NewSkeleton(pos mgl32.Vec3, orientation Orientation, hsize, vsize float32) Skeleton {
	return Skeleton{
		HSize:       hsize,
		VSize:       vsize,
		Position:    pos,
		Orientation: orientation,
	}
}

// Tick advances the skeleton by dt seconds against the given world. It
// returns true if the skeleton landed this tick (was falling, is now at
// rest vertically) so callers can trigger a landing sound.
func (s *Skeleton) Tick(vx *voxel.Voxels, dt float32) (landed bool) {
	v1 := s.Velocity.Y()
	s.tickGravity(Gravity, dt)
	s.tickMove(vx, dt)
	v2 := s.Velocity.Y()
	landed = v1 < -1.0 && v2 == 0.0
	s.tickRescue(vx, dt)
	return landed
}

func (s *Skeleton) tickGravity(g, dt float32) {
	s.Velocity[1] -= g * dt
	s.Velocity = s.Velocity.Mul(1 - gravityDamp*dt)
}

func (s *Skeleton) tickMove(vx *voxel.Voxels, dt float32) {
	var xbump, zbump bool
	delta := s.Velocity.Mul(dt)
	sub := delta.Mul(1.0 / moveSubsteps)

	for i := 0; i < moveSubsteps; i++ {
		dx := mgl32.Vec3{sub.X(), 0, 0}
		dy := mgl32.Vec3{0, sub.Y(), 0}
		dz := mgl32.Vec3{0, 0, sub.Z()}

		if s.posOK(vx, s.Position.Add(dx)) {
			s.Position = s.Position.Add(dx)
		} else {
			xbump = true
		}

		if s.posOK(vx, s.Position.Add(dy)) {
			s.Position = s.Position.Add(dy)
		} else {
			s.Velocity[1] = 0
		}

		if s.posOK(vx, s.Position.Add(dz)) {
			s.Position = s.Position.Add(dz)
		} else {
			zbump = true
		}
	}

	if (xbump || zbump) && s.Velocity.Y() >= 0 {
		probe := s.Position.Add(mgl32.Vec3{delta.X(), stairProbeY, delta.Z()})
		if s.posOK(vx, probe) {
			s.Position = s.Position.Add(mgl32.Vec3{delta.X(), 0, delta.Z()})
		} else {
			if xbump {
				s.Velocity[0] = 0
			}
			if zbump {
				s.Velocity[2] = 0
			}
		}
	}
}

// tickRescue lifts the skeleton out of solid geometry it somehow ended up
// stuck inside (e.g. a just-edited voxel, or a map change).
func (s *Skeleton) tickRescue(vx *voxel.Voxels, dt float32) {
	if !s.posOK(vx, s.Position) {
		s.Position[1] += StairClimbSpeed * dt
	}
}

// OnGround reports whether the skeleton is resting on solid ground: probing
// a tiny distance below the current position collides.
func (s *Skeleton) OnGround(vx *voxel.Voxels) bool {
	return !s.posOK(vx, s.Position.Sub(mgl32.Vec3{0, 0.05, 0}))
}

// TryJump sets vertical velocity to jumpSpeed only if currently grounded,
// returning whether the jump was applied.
func (s *Skeleton) TryJump(vx *voxel.Voxels, jumpSpeed float32) bool {
	if s.OnGround(vx) {
		s.UnconditionalJump(jumpSpeed)
		return true
	}
	return false
}

// UnconditionalJump sets vertical velocity regardless of ground contact,
// used by the xmas-hat powerup's unlimited jumping.
func (s *Skeleton) UnconditionalJump(jumpSpeed float32) {
	s.Velocity[1] = jumpSpeed
}

const (
	airControlAccel = 2.0
	airDamp         = 0.1
)

// TryWalk sets horizontal velocity to walkSpeed while grounded, or applies
// damped air control while airborne.
func (s *Skeleton) TryWalk(dt float32, vx *voxel.Voxels, walkSpeed mgl32.Vec3, maxAirCtlSpeed float32) {
	if s.OnGround(vx) {
		s.Velocity[0] = walkSpeed.X()
		s.Velocity[2] = walkSpeed.Z()
		return
	}

	// flying through the air: always slightly damp movement.
	s.Velocity = s.Velocity.Mul(1 - airDamp*dt)

	horiz := mgl32.Vec3{s.Velocity.X(), 0, s.Velocity.Z()}
	if horiz.Len() > maxAirCtlSpeed {
		// flying too fast, damp aggressively
		s.Velocity = s.Velocity.Mul(1 - 4*airDamp*dt)
	} else {
		// flying not too fast, allow some slow control
		s.Velocity = s.Velocity.Add(walkSpeed.Mul(airControlAccel * dt))
	}
}

func (s *Skeleton) SetFrame(f Frame) {
	s.Position = f.Position
	s.Velocity = f.Velocity
	s.Orientation = f.Orientation
}

func (s *Skeleton) Frame() Frame {
	return Frame{Position: s.Position, Velocity: s.Velocity, Orientation: s.Orientation}
}

// posOK reports whether the skeleton's box at pos is free of solid voxels.
func (s *Skeleton) posOK(vx *voxel.Voxels, pos mgl32.Vec3) bool {
	return !vx.BumpsBox(s.boundsFor(pos))
}

func (s *Skeleton) boundsFor(pos mgl32.Vec3) voxel.FBox {
	half := mgl32.Vec3{s.HSize / 2, 0, s.HSize / 2}
	return voxel.FBox{
		Min: pos.Sub(half),
		Max: pos.Add(mgl32.Vec3{s.HSize / 2, s.VSize, s.HSize / 2}),
	}
}

// Bounds returns the skeleton's current world-space bounding box.
func (s *Skeleton) Bounds() voxel.FBox {
	return s.boundsFor(s.Position)
}
