package protocol

import (
	"io"

	"github.com/scathanna-go/scathanna/internal/mapfile"
	"github.com/scathanna-go/scathanna/internal/physics"
	"github.com/scathanna-go/scathanna/internal/ui"
	"github.com/scathanna-go/scathanna/internal/voxel"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

func writeOrientation(w io.Writer, o physics.Orientation) error {
	if err := writeF32(w, o.Yaw); err != nil {
		return err
	}
	return writeF32(w, o.Pitch)
}

func readOrientation(r io.Reader) (physics.Orientation, error) {
	yaw, err := readF32(r)
	if err != nil {
		return physics.Orientation{}, err
	}
	pitch, err := readF32(r)
	if err != nil {
		return physics.Orientation{}, err
	}
	return physics.Orientation{Yaw: yaw, Pitch: pitch}, nil
}

func writeFrame(w io.Writer, f physics.Frame) error {
	if err := writeVec3(w, f.Position); err != nil {
		return err
	}
	if err := writeVec3(w, f.Velocity); err != nil {
		return err
	}
	return writeOrientation(w, f.Orientation)
}

func readFrame(r io.Reader) (physics.Frame, error) {
	pos, err := readVec3(r)
	if err != nil {
		return physics.Frame{}, err
	}
	vel, err := readVec3(r)
	if err != nil {
		return physics.Frame{}, err
	}
	o, err := readOrientation(r)
	if err != nil {
		return physics.Frame{}, err
	}
	return physics.Frame{Position: pos, Velocity: vel, Orientation: o}, nil
}

func writeIVec3(w io.Writer, v voxel.IVec3) error {
	if err := writeI32(w, v.X); err != nil {
		return err
	}
	if err := writeI32(w, v.Y); err != nil {
		return err
	}
	return writeI32(w, v.Z)
}

func readIVec3(r io.Reader) (voxel.IVec3, error) {
	x, err := readI32(r)
	if err != nil {
		return voxel.IVec3{}, err
	}
	y, err := readI32(r)
	if err != nil {
		return voxel.IVec3{}, err
	}
	z, err := readI32(r)
	if err != nil {
		return voxel.IVec3{}, err
	}
	return voxel.IVec3{X: x, Y: y, Z: z}, nil
}

func writeSpawnPoint(w io.Writer, sp mapfile.SpawnPoint) error {
	return writeIVec3(w, sp.Pos)
}

func readSpawnPoint(r io.Reader) (mapfile.SpawnPoint, error) {
	pos, err := readIVec3(r)
	return mapfile.SpawnPoint{Pos: pos}, err
}

func writeOptionalEKind(w io.Writer, k *worldstate.EKind) error {
	if k == nil {
		return writeBool(w, false)
	}
	if err := writeBool(w, true); err != nil {
		return err
	}
	return writeU8(w, uint8(*k))
}

func readOptionalEKind(r io.Reader) (*worldstate.EKind, error) {
	present, err := readBool(r)
	if err != nil || !present {
		return nil, err
	}
	b, err := readU8(r)
	if err != nil {
		return nil, err
	}
	k := worldstate.EKind(b)
	return &k, nil
}

func writeOptionalInt(w io.Writer, v *int) error {
	if v == nil {
		return writeBool(w, false)
	}
	if err := writeBool(w, true); err != nil {
		return err
	}
	return writeI32(w, int32(*v))
}

func readOptionalInt(r io.Reader) (*int, error) {
	present, err := readBool(r)
	if err != nil || !present {
		return nil, err
	}
	v, err := readI32(r)
	if err != nil {
		return nil, err
	}
	vi := int(v)
	return &vi, nil
}

func writePlayer(w io.Writer, p *worldstate.Player) error {
	if err := writeU32(w, p.ID); err != nil {
		return err
	}
	if err := writeString(w, p.Name); err != nil {
		return err
	}
	if err := writeU8(w, p.AvatarID); err != nil {
		return err
	}
	if err := writeU8(w, uint8(p.Team)); err != nil {
		return err
	}
	if err := writeI32(w, p.Health); err != nil {
		return err
	}
	if err := writeBool(w, p.Spawned); err != nil {
		return err
	}
	if err := writeVec3(w, p.NextSpawnPoint); err != nil {
		return err
	}
	if err := writeOptionalEKind(w, p.Powerup); err != nil {
		return err
	}
	if err := writeOptionalF32(w, p.InvulnerabilityTTL); err != nil {
		return err
	}
	if err := writeVec3(w, p.Skeleton.Position); err != nil {
		return err
	}
	if err := writeVec3(w, p.Skeleton.Velocity); err != nil {
		return err
	}
	if err := writeOrientation(w, p.Skeleton.Orientation); err != nil {
		return err
	}
	if err := writeF32(w, p.Skeleton.HSize); err != nil {
		return err
	}
	if err := writeF32(w, p.Skeleton.VSize); err != nil {
		return err
	}
	if err := writeF32(w, p.Local.GunCooldown); err != nil {
		return err
	}
	if err := writeF32(w, p.Local.FeetPhase); err != nil {
		return err
	}
	return writeF32(w, p.Local.FeetPitch)
}

func readPlayer(r io.Reader) (*worldstate.Player, error) {
	id, err := readU32(r)
	if err != nil {
		return nil, err
	}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	avatarID, err := readU8(r)
	if err != nil {
		return nil, err
	}
	team, err := readU8(r)
	if err != nil {
		return nil, err
	}
	health, err := readI32(r)
	if err != nil {
		return nil, err
	}
	spawned, err := readBool(r)
	if err != nil {
		return nil, err
	}
	nextSpawn, err := readVec3(r)
	if err != nil {
		return nil, err
	}
	powerup, err := readOptionalEKind(r)
	if err != nil {
		return nil, err
	}
	ttl, err := readOptionalF32(r)
	if err != nil {
		return nil, err
	}
	pos, err := readVec3(r)
	if err != nil {
		return nil, err
	}
	vel, err := readVec3(r)
	if err != nil {
		return nil, err
	}
	orientation, err := readOrientation(r)
	if err != nil {
		return nil, err
	}
	hsize, err := readF32(r)
	if err != nil {
		return nil, err
	}
	vsize, err := readF32(r)
	if err != nil {
		return nil, err
	}
	gunCooldown, err := readF32(r)
	if err != nil {
		return nil, err
	}
	feetPhase, err := readF32(r)
	if err != nil {
		return nil, err
	}
	feetPitch, err := readF32(r)
	if err != nil {
		return nil, err
	}

	p := &worldstate.Player{
		ID:                 id,
		Name:               name,
		AvatarID:           avatarID,
		Team:               worldstate.Team(team),
		Health:             health,
		Spawned:            spawned,
		NextSpawnPoint:     nextSpawn,
		Powerup:            powerup,
		InvulnerabilityTTL: ttl,
		Skeleton:           physics.NewSkeleton(pos, orientation, hsize, vsize),
		Local: worldstate.LocalState{
			GunCooldown: gunCooldown,
			FeetPhase:   feetPhase,
			FeetPitch:   feetPitch,
		},
	}
	p.Skeleton.Velocity = vel
	return p, nil
}

func writeEntity(w io.Writer, e *worldstate.Entity) error {
	if err := writeU64(w, uint64(e.ID)); err != nil {
		return err
	}
	if err := writeVec3(w, e.Position); err != nil {
		return err
	}
	if err := writeU8(w, uint8(e.Kind)); err != nil {
		return err
	}
	return writeOptionalInt(w, e.PickupPointID)
}

func readEntity(r io.Reader) (*worldstate.Entity, error) {
	id, err := readU64(r)
	if err != nil {
		return nil, err
	}
	pos, err := readVec3(r)
	if err != nil {
		return nil, err
	}
	kind, err := readU8(r)
	if err != nil {
		return nil, err
	}
	pickupID, err := readOptionalInt(r)
	if err != nil {
		return nil, err
	}
	return &worldstate.Entity{ID: worldstate.EID(id), Position: pos, Kind: worldstate.EKind(kind), PickupPointID: pickupID}, nil
}

func writeEffect(w io.Writer, e worldstate.Effect) error {
	if err := writeF32(w, e.TTL); err != nil {
		return err
	}
	if err := writeU8(w, uint8(e.Type)); err != nil {
		return err
	}
	if err := writeVec3(w, e.Start); err != nil {
		return err
	}
	if err := writeVec3(w, e.End); err != nil {
		return err
	}
	if err := writeOrientation(w, e.Orientation); err != nil {
		return err
	}
	if err := writeF32(w, e.Len); err != nil {
		return err
	}
	if err := writeVec3(w, e.Pos); err != nil {
		return err
	}
	if err := writeVec3(w, e.Color); err != nil {
		return err
	}
	return writeVec3(w, e.ColorFilter)
}

func readEffect(r io.Reader) (worldstate.Effect, error) {
	var e worldstate.Effect
	var err error
	if e.TTL, err = readF32(r); err != nil {
		return e, err
	}
	kind, err := readU8(r)
	if err != nil {
		return e, err
	}
	e.Type = worldstate.EffectType(kind)
	if e.Start, err = readVec3(r); err != nil {
		return e, err
	}
	if e.End, err = readVec3(r); err != nil {
		return e, err
	}
	if e.Orientation, err = readOrientation(r); err != nil {
		return e, err
	}
	if e.Len, err = readF32(r); err != nil {
		return e, err
	}
	if e.Pos, err = readVec3(r); err != nil {
		return e, err
	}
	if e.Color, err = readVec3(r); err != nil {
		return e, err
	}
	if e.ColorFilter, err = readVec3(r); err != nil {
		return e, err
	}
	return e, nil
}

func writeSoundEffect(w io.Writer, s worldstate.SoundEffect) error {
	if err := writeString(w, s.ClipName); err != nil {
		return err
	}
	if err := writeF32(w, s.Volume); err != nil {
		return err
	}
	if err := writeBool(w, s.Spatial); err != nil {
		return err
	}
	return writeVec3(w, s.Location)
}

func readSoundEffect(r io.Reader) (worldstate.SoundEffect, error) {
	var s worldstate.SoundEffect
	var err error
	if s.ClipName, err = readString(r); err != nil {
		return s, err
	}
	if s.Volume, err = readF32(r); err != nil {
		return s, err
	}
	if s.Spatial, err = readBool(r); err != nil {
		return s, err
	}
	if s.Location, err = readVec3(r); err != nil {
		return s, err
	}
	return s, nil
}

func writeHUDUpdate(w io.Writer, u ui.HUDUpdate) error {
	if err := writeU8(w, uint8(u.Kind)); err != nil {
		return err
	}
	return writeString(w, u.Text)
}

func readHUDUpdate(r io.Reader) (ui.HUDUpdate, error) {
	kind, err := readU8(r)
	if err != nil {
		return ui.HUDUpdate{}, err
	}
	text, err := readString(r)
	if err != nil {
		return ui.HUDUpdate{}, err
	}
	return ui.HUDUpdate{Kind: ui.HUDUpdateKind(kind), Text: text}, nil
}
