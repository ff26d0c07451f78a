package worldstate

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/physics"
	"github.com/scathanna-go/scathanna/internal/voxel"
)

// PlayerID uniquely identifies a player across the server and all clients
// for the lifetime of one connection.
type PlayerID = uint32

// Player-shape constants, carried verbatim from the reference movement feel.
const (
	HSize     float32 = 3.8
	VSize     float32 = 5.8
	CamHeight float32 = 5.4
	WalkSpeed float32 = 24.0
	JumpSpeed float32 = 24.0

	DefaultGunCooldown float32 = 0.7 // seconds
	fastGunCooldown    float32 = 0.05

	feetAnimSpeed = 12.0
	feetAnimDamp  = 6.0

	maxShootFromGunDeviation = 2.0
	lookAtFallbackDistance   = 10000.0
)

// LocalState is controlled by the client that owns this player and never
// overwritten by the server: gun cooldown, and procedural feet animation.
type LocalState struct {
	GunCooldown float32
	FeetPhase   float32
	FeetPitch   float32
}

// Player is the full per-player record. The server owns every field except
// Skeleton and Local, which are owned by the client controlling this player
// and merely relayed by the server to everyone else.
type Player struct {
	ID                 PlayerID
	Name               string
	AvatarID           uint8
	Team               Team
	Health             int32
	Spawned            bool
	NextSpawnPoint     mgl32.Vec3
	Powerup            *EKind
	InvulnerabilityTTL *float32

	Skeleton physics.Skeleton
	Local    LocalState
}

func NewPlayer(id PlayerID, position mgl32.Vec3, orientation physics.Orientation, name string, avatarID uint8, team Team) *Player {
	return &Player{
		ID:             id,
		Name:           name,
		AvatarID:       avatarID,
		Team:           team,
		Health:         100,
		NextSpawnPoint: position,
		Skeleton:       physics.NewSkeleton(position, orientation, HSize, VSize),
	}
}

// Position is the center-bottom of the player's bounding box.
func (p *Player) Position() mgl32.Vec3 { return p.Skeleton.Position }

// Center is the midpoint of the player's bounding box.
func (p *Player) Center() mgl32.Vec3 {
	b := p.Skeleton.Bounds()
	return b.Min.Add(b.Max).Mul(0.5)
}

func (p *Player) Orientation() physics.Orientation { return p.Skeleton.Orientation }

// CameraPosition is the eye position used for line-of-sight rays.
func (p *Player) CameraPosition() mgl32.Vec3 {
	return p.Position().Add(mgl32.Vec3{0, CamHeight, 0})
}

// LineOfSight is the ray through the player's crosshair.
func (p *Player) LineOfSight() voxel.Ray {
	return voxel.Ray{Origin: p.CameraPosition(), Direction: p.Orientation().LookDir()}
}

// GunPosInternal is the gun's offset from Position in the player's own
// local (right, up, forward) frame.
func (p *Player) GunPosInternal() mgl32.Vec3 {
	return mgl32.Vec3{0.5*p.Skeleton.HSize + 0.4, 0.66 * p.Skeleton.VSize, 0}
}

// GunCenter is the absolute position of the player's gun, which can differ
// noticeably from CameraPosition since the gun is held away from the eye.
func (p *Player) GunCenter() mgl32.Vec3 {
	internal := p.GunPosInternal()
	return p.Position().
		Add(p.Skeleton.Orientation.LookRight().Mul(internal.X())).
		Add(mgl32.Vec3{0, internal.Y(), 0})
}

// LookAt is the point the player is looking at: where the line of sight
// hits something, or a far-away point in the looking direction if it hits
// nothing (looking at the sky).
func (p *Player) LookAt(world *World) mgl32.Vec3 {
	los := p.LineOfSight()
	if t, _, ok := world.IntersectExcept(p.ID, los); ok {
		return rayAt(los, t)
	}
	return p.CameraPosition().Add(los.Direction.Mul(lookAtFallbackDistance))
}

// LineOfFire is the ray a bullet fired right now would follow: usually from
// the gun nozzle towards LookAt, but falls back to the line of sight if an
// obstruction near the nozzle would otherwise cause a seemingly inexplicable
// miss (an object blocks the gun but not the eye).
func (p *Player) LineOfFire(world *World) voxel.Ray {
	start := p.GunCenter()
	lookAt := p.LookAt(world)
	dir := lookAt.Sub(start)
	if dir.Len() > 1e-6 {
		dir = dir.Normalize()
	}
	fromGun := voxel.Ray{Origin: start, Direction: dir}

	if t, _, ok := world.IntersectExcept(p.ID, fromGun); ok {
		shootAt := rayAt(fromGun, t)
		if shootAt.Sub(lookAt).Len() > maxShootFromGunDeviation {
			return p.LineOfSight()
		}
	}
	return fromGun
}

// ShootAt is the absolute position the player's gun would hit right now.
func (p *Player) ShootAt(world *World) mgl32.Vec3 {
	fire := p.LineOfFire(world)
	t, _, ok := world.IntersectExcept(p.ID, fire)
	if !ok {
		t = lookAtFallbackDistance
	} else {
		t += 0.01
	}
	return rayAt(fire, t)
}

// IsOnLava reports whether the player is currently standing in lava.
func (p *Player) IsOnLava(world *World) bool {
	probe := p.Position().Sub(mgl32.Vec3{0, 0.2, 0})
	pos := voxel.IVec3{
		X: int32(math.Floor(float64(probe.X()))),
		Y: int32(math.Floor(float64(probe.Y()))),
		Z: int32(math.Floor(float64(probe.Z()))),
	}
	return world.Map.Voxels.At(pos) == voxel.Lava
}

// CanShootBerserk reports whether the held powerup allows firing while the
// trigger is merely held down, rather than only on each individual click.
func (p *Player) CanShootBerserk(world *World) bool {
	if p.Powerup == nil {
		return false
	}
	switch *p.Powerup {
	case BerserkerHelmet:
		return true
	case PartyHat:
		return p.IsOnLava(world)
	default:
		return false
	}
}

// GunCooldown is the delay, in seconds, the player must wait between shots.
func (p *Player) GunCooldown(world *World) float32 {
	if p.Powerup == nil {
		return DefaultGunCooldown
	}
	switch *p.Powerup {
	case CowboyHat, BerserkerHelmet:
		return fastGunCooldown
	case PartyHat:
		if p.IsOnLava(world) {
			return fastGunCooldown
		}
		return DefaultGunCooldown
	default:
		return DefaultGunCooldown
	}
}

// AnimateFeet advances the procedural leg-swing animation: a semicircular
// phase while moving, relaxing back to rest while still.
func (p *Player) AnimateFeet(dt float32) {
	vspeed := p.Skeleton.Velocity.Y()
	if p.Skeleton.Velocity != (mgl32.Vec3{}) {
		p.Local.FeetPhase += dt * feetAnimSpeed
		if p.Local.FeetPhase > math.Pi {
			p.Local.FeetPhase = -math.Pi
		}
	} else {
		p.Local.FeetPhase *= 1 - feetAnimDamp*dt
		p.Local.FeetPhase = clampF(p.Local.FeetPhase, -math.Pi, math.Pi)
	}

	var targetPitch float32
	switch {
	case vspeed > 0:
		targetPitch = -30 * degToRad
	case vspeed < 0:
		targetPitch = 30 * degToRad
	}
	damp := feetAnimDamp * dt
	p.Local.FeetPitch = (1-damp)*p.Local.FeetPitch + damp*targetPitch
}

// Intersect tests a ray against this player's hitbox. Unspawned players
// cannot be hit.
func (p *Player) Intersect(ray voxel.Ray) (float32, bool) {
	if !p.Spawned {
		return 0, false
	}
	b := p.Skeleton.Bounds()
	tMin, _, ok := b.Intersect(ray)
	if !ok {
		return 0, false
	}
	if tMin < 0 {
		tMin = 0
	}
	return tMin, true
}

func rayAt(r voxel.Ray, t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
