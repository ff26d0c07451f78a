package protocol

import (
	"fmt"
	"io"

	"github.com/scathanna-go/scathanna/internal/worldstate"
)

// WriteMagic writes the fixed preamble a peer checks before trusting
// anything else on the connection.
func WriteMagic(w io.Writer) error {
	return writeU64(w, Magic)
}

// ReadMagic reads the preamble and reports a version mismatch as an error
// rather than letting garbage flow into the message decoders.
func ReadMagic(r io.Reader) error {
	got, err := readU64(r)
	if err != nil {
		return fmt.Errorf("protocol: reading magic: %w", err)
	}
	if got != Magic {
		return fmt.Errorf("protocol: bad magic %#x, want %#x (incompatible peer version)", got, Magic)
	}
	return nil
}

// WriteJoin encodes a client's initial handshake message.
func WriteJoin(w io.Writer, j JoinMsg) error {
	if err := writeString(w, j.Name); err != nil {
		return err
	}
	if err := writeU8(w, j.AvatarID); err != nil {
		return err
	}
	return writeU8(w, uint8(j.Team))
}

// ReadJoin decodes a client's initial handshake message.
func ReadJoin(r io.Reader) (JoinMsg, error) {
	name, err := readString(r)
	if err != nil {
		return JoinMsg{}, err
	}
	avatarID, err := readU8(r)
	if err != nil {
		return JoinMsg{}, err
	}
	team, err := readU8(r)
	if err != nil {
		return JoinMsg{}, err
	}
	return JoinMsg{Name: name, AvatarID: avatarID, Team: worldstate.Team(team)}, nil
}

// WriteClientMsg encodes any post-handshake message a client sends.
func WriteClientMsg(w io.Writer, m ClientMsg) error {
	if err := writeU8(w, uint8(m.Kind)); err != nil {
		return err
	}
	switch m.Kind {
	case CMovePlayer:
		return writeFrame(w, m.Frame)
	case CReadyToSpawn:
		return nil
	case CAddEffect:
		return writeEffect(w, m.Effect)
	case CPlaySound:
		return writeSoundEffect(w, m.Sound)
	case CHitPlayer:
		return writeU32(w, m.Victim)
	case CCommand:
		return writeString(w, m.Command)
	default:
		return fmt.Errorf("protocol: unknown ClientMsgKind %d", m.Kind)
	}
}

// ReadClientMsg decodes any post-handshake message a client sends.
func ReadClientMsg(r io.Reader) (ClientMsg, error) {
	kind, err := readU8(r)
	if err != nil {
		return ClientMsg{}, err
	}
	m := ClientMsg{Kind: ClientMsgKind(kind)}
	switch m.Kind {
	case CMovePlayer:
		m.Frame, err = readFrame(r)
	case CReadyToSpawn:
		// no payload
	case CAddEffect:
		m.Effect, err = readEffect(r)
	case CPlaySound:
		m.Sound, err = readSoundEffect(r)
	case CHitPlayer:
		m.Victim, err = readU32(r)
	case CCommand:
		m.Command, err = readString(r)
	default:
		return ClientMsg{}, fmt.Errorf("protocol: unknown ClientMsgKind %d", kind)
	}
	return m, err
}

// WriteServerMsg encodes any post-handshake message the server sends.
func WriteServerMsg(w io.Writer, m ServerMsg) error {
	if err := writeU8(w, uint8(m.Kind)); err != nil {
		return err
	}
	switch m.Kind {
	case SAddPlayer:
		return writePlayer(w, m.Player)
	case SDropPlayer:
		return writeU32(w, m.PlayerID)
	case SSwitchMap:
		if err := writeString(w, m.MapName); err != nil {
			return err
		}
		if err := writeU32(w, uint32(len(m.Players))); err != nil {
			return err
		}
		for _, p := range m.Players {
			if err := writePlayer(w, p); err != nil {
				return err
			}
		}
		if err := writeU32(w, uint32(len(m.Entities))); err != nil {
			return err
		}
		for _, e := range m.Entities {
			if err := writeEntity(w, e); err != nil {
				return err
			}
		}
		return writeU32(w, m.SelfID)
	case SRequestRespawn:
		return writeSpawnPoint(w, m.SpawnPoint)
	case SMovePlayer:
		if err := writeU32(w, m.PlayerID); err != nil {
			return err
		}
		return writeFrame(w, m.Frame)
	case SUpdatePlayer:
		return writePlayer(w, m.Player)
	case SForceMovePlayer:
		if err := writeU32(w, m.PlayerID); err != nil {
			return err
		}
		return writeVec3(w, m.Position)
	case SUpdateEntity:
		return writeEntity(w, m.Entity)
	case SRemoveEntity:
		return writeU64(w, uint64(m.EntityID))
	case SAddEffect:
		return writeEffect(w, m.Effect)
	case SPlaySound:
		return writeSoundEffect(w, m.Sound)
	case SUpdateHUD:
		return writeHUDUpdate(w, m.HUD)
	default:
		return fmt.Errorf("protocol: unknown ServerMsgKind %d", m.Kind)
	}
}

// ReadServerMsg decodes any post-handshake message the server sends.
func ReadServerMsg(r io.Reader) (ServerMsg, error) {
	kind, err := readU8(r)
	if err != nil {
		return ServerMsg{}, err
	}
	m := ServerMsg{Kind: ServerMsgKind(kind)}
	switch m.Kind {
	case SAddPlayer:
		m.Player, err = readPlayer(r)
	case SDropPlayer:
		m.PlayerID, err = readU32(r)
	case SSwitchMap:
		if m.MapName, err = readString(r); err != nil {
			return m, err
		}
		var n uint32
		if n, err = readU32(r); err != nil {
			return m, err
		}
		m.Players = make([]*worldstate.Player, 0, n)
		for i := uint32(0); i < n; i++ {
			p, perr := readPlayer(r)
			if perr != nil {
				return m, perr
			}
			m.Players = append(m.Players, p)
		}
		if n, err = readU32(r); err != nil {
			return m, err
		}
		m.Entities = make([]*worldstate.Entity, 0, n)
		for i := uint32(0); i < n; i++ {
			e, eerr := readEntity(r)
			if eerr != nil {
				return m, eerr
			}
			m.Entities = append(m.Entities, e)
		}
		m.SelfID, err = readU32(r)
	case SRequestRespawn:
		m.SpawnPoint, err = readSpawnPoint(r)
	case SMovePlayer:
		if m.PlayerID, err = readU32(r); err != nil {
			return m, err
		}
		m.Frame, err = readFrame(r)
	case SUpdatePlayer:
		m.Player, err = readPlayer(r)
	case SForceMovePlayer:
		if m.PlayerID, err = readU32(r); err != nil {
			return m, err
		}
		m.Position, err = readVec3(r)
	case SUpdateEntity:
		m.Entity, err = readEntity(r)
	case SRemoveEntity:
		var id uint64
		id, err = readU64(r)
		m.EntityID = worldstate.EID(id)
	case SAddEffect:
		m.Effect, err = readEffect(r)
	case SPlaySound:
		m.Sound, err = readSoundEffect(r)
	case SUpdateHUD:
		m.HUD, err = readHUDUpdate(r)
	default:
		return ServerMsg{}, fmt.Errorf("protocol: unknown ServerMsgKind %d", kind)
	}
	return m, err
}
