package worldstate

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/physics"
)

// EffectType distinguishes the transient visual-only records carried in
// World.Effects. Exactly one of the fields on Effect relevant to the kind
// is populated; the rest are zero.
type EffectType uint8

const (
	SimpleLine EffectType = iota
	LaserBeam
	ParticleExplosion
	ParticleBeam
	Respawn
)

const (
	LaserBeamTTL  float32 = 0.25 // seconds
	ParticlesTTL  float32 = 1.0  // seconds
	RespawnTTL    float32 = 1.5  // seconds
)

// Effect is a client-visible-only event: a gun beam, an explosion puff, a
// respawn flare. It carries its own time-to-live and is discarded once
// expired; it never affects gameplay state.
type Effect struct {
	TTL  float32
	Type EffectType

	Start, End  mgl32.Vec3
	Orientation physics.Orientation
	Len         float32
	Pos         mgl32.Vec3
	Color       mgl32.Vec3
	ColorFilter mgl32.Vec3
}

func SimpleLineEffect(start, end mgl32.Vec3) Effect {
	return Effect{TTL: LaserBeamTTL, Type: SimpleLine, Start: start, End: end}
}

func LaserBeamEffect(start mgl32.Vec3, orientation physics.Orientation, length float32) Effect {
	return Effect{TTL: LaserBeamTTL, Type: LaserBeam, Start: start, Orientation: orientation, Len: length}
}

func ParticleExplosionEffect(pos, color mgl32.Vec3) Effect {
	return Effect{TTL: ParticlesTTL, Type: ParticleExplosion, Pos: pos, Color: color}
}

func ParticleBeamEffect(start mgl32.Vec3, orientation physics.Orientation, length float32, colorFilter mgl32.Vec3) Effect {
	return Effect{TTL: ParticlesTTL, Type: ParticleBeam, Start: start, Orientation: orientation, Len: length, ColorFilter: colorFilter}
}

// RicochetEffect fires a short particle beam in a random direction from a
// deflected shot.
func RicochetEffect(start, colorFilter mgl32.Vec3) Effect {
	const length = 50.0
	orientation := physics.Orientation{
		Pitch: (20 + rand.Float32()*70) * degToRad,
		Yaw:   (rand.Float32()*360 - 180) * degToRad,
	}
	return Effect{TTL: ParticlesTTL, Type: ParticleBeam, Start: start, Orientation: orientation, Len: length, ColorFilter: colorFilter}
}

func RespawnEffect(pos mgl32.Vec3) Effect {
	return Effect{TTL: RespawnTTL, Type: Respawn, Pos: pos}
}

const degToRad = float32(math.Pi / 180)
