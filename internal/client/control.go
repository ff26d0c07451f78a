package client

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/physics"
	"github.com/scathanna-go/scathanna/internal/protocol"
	"github.com/scathanna-go/scathanna/internal/voxel"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

// walkDir is the horizontal unit direction the player wants to move in,
// given the currently held movement keys, rotated into world space by yaw.
func walkDir(yaw float32, in *InputState) mgl32.Vec3 {
	var dir mgl32.Vec3
	if in.IsDown(KeyLeft) {
		dir[0] -= 1
	}
	if in.IsDown(KeyRight) {
		dir[0] += 1
	}
	if in.IsDown(KeyForward) {
		dir[2] -= 1
	}
	if in.IsDown(KeyBackward) {
		dir[2] += 1
	}
	if dir == (mgl32.Vec3{}) {
		return mgl32.Vec3{}
	}
	sin, cos := float32(math.Sin(float64(yaw))), float32(math.Cos(float64(yaw)))
	rotated := mgl32.Vec3{
		cos*dir.X() + sin*dir.Z(),
		dir.Y(),
		-sin*dir.X() + cos*dir.Z(),
	}
	return rotated.Normalize()
}

// controlPlayer drives p for one tick from the local player's input,
// returning every client message the tick produced. p is mutated in place;
// shots are traced with IntersectExcept(p.ID, ...), so a ray never hits the
// mover's own hitbox.
func controlPlayer(p *worldstate.Player, in *InputState, world *worldstate.World, dt float32) []protocol.ClientMsg {
	var msgs []protocol.ClientMsg
	if p.Spawned {
		tickMovement(p, &msgs, in, world, dt)
		controlShooting(p, &msgs, in, world, dt)
	} else {
		setOrientation(p, in)
		if in.IsPressed(KeyMouse1) {
			p.Skeleton.Position = p.NextSpawnPoint
			msgs = append(msgs, protocol.ReadyToSpawnMsg())
		}
	}
	msgs = append(msgs, protocol.MovePlayerMsg(p.Skeleton.Frame()))
	return msgs
}

func setOrientation(p *worldstate.Player, in *InputState) {
	p.Skeleton.Orientation = physics.Orientation{Yaw: in.MouseYaw(), Pitch: in.MousePitch()}
}

func tickMovement(p *worldstate.Player, msgs *[]protocol.ClientMsg, in *InputState, world *worldstate.World, dt float32) {
	setOrientation(p, in)
	tickWalk(p, in, world, dt)
	tickJump(p, msgs, in, world)
	p.Skeleton.Tick(world.Map.Voxels, dt)
}

func tickWalk(p *worldstate.Player, in *InputState, world *worldstate.World, dt float32) {
	speed := walkDir(p.Orientation().Yaw, in).Mul(worldstate.WalkSpeed)
	p.Skeleton.TryWalk(dt, world.Map.Voxels, speed, worldstate.WalkSpeed)
}

func tickJump(p *worldstate.Player, msgs *[]protocol.ClientMsg, in *InputState, world *worldstate.World) {
	if in.IsDown(KeyJump) {
		if p.Skeleton.TryJump(world.Map.Voxels, worldstate.JumpSpeed) {
			*msgs = append(*msgs, protocol.PlaySoundMsg(worldstate.SpatialSound("jump", p.Position(), 0.3)))
		}
	}
	if p.Powerup != nil && *p.Powerup == worldstate.XMasHat && in.IsPressed(KeyJump) {
		p.Skeleton.UnconditionalJump(worldstate.JumpSpeed)
		*msgs = append(*msgs, protocol.PlaySoundMsg(worldstate.SpatialSound("fly", p.Position(), 0.3)))
	}
}

func controlShooting(p *worldstate.Player, msgs *[]protocol.ClientMsg, in *InputState, world *worldstate.World, dt float32) {
	p.Local.GunCooldown -= dt
	if p.Local.GunCooldown > 0 {
		return
	}
	if in.IsPressed(KeyMouse1) || (in.IsDown(KeyMouse1) && p.CanShootBerserk(world)) {
		shoot(p, msgs, world)
	}
}

var bangClips = []string{"bang1", "bang2", "bang3", "bang4"}
var ricochetClips = []string{"ricochet1", "ricochet2", "ricochet3", "ricochet4"}

func shoot(p *worldstate.Player, msgs *[]protocol.ClientMsg, world *worldstate.World) {
	p.Local.GunCooldown = p.GunCooldown(world)

	fire := p.LineOfFire(world)
	start := fire.Origin
	end := p.ShootAt(world)
	length := end.Sub(start).Len()

	*msgs = append(*msgs,
		protocol.AddEffectMsg(worldstate.ParticleBeamEffect(start, p.Orientation(), length, p.Team.ColorFilter())),
		protocol.PlaySoundMsg(worldstate.SpatialSound(pickClip(bangClips), p.Position(), 30.0)),
		protocol.PlaySoundMsg(worldstate.SpatialSound(pickClip(ricochetClips), end, 1.0)),
	)

	if _, victim, ok := world.IntersectExcept(p.ID, fire); ok && victim != nil {
		*msgs = append(*msgs, protocol.HitPlayerMsg(*victim))
	}

	if world.Map.Voxels.At(voxelAt(end)) == voxel.Lava {
		*msgs = append(*msgs,
			protocol.AddEffectMsg(worldstate.ParticleExplosionEffect(end, mgl32.Vec3{1, 0, 0})),
			protocol.PlaySoundMsg(worldstate.SpatialSound("lava", end, 1.0)),
		)
	}
}

func pickClip(clips []string) string { return clips[rand.Intn(len(clips))] }

func voxelAt(pos mgl32.Vec3) voxel.IVec3 {
	return voxel.IVec3{
		X: int32(math.Floor(float64(pos.X()))),
		Y: int32(math.Floor(float64(pos.Y()))),
		Z: int32(math.Floor(float64(pos.Z()))),
	}
}
