// Package protocol defines the client/server wire messages and their
// framing: a fixed magic preamble followed by a small hand-rolled binary
// codec. There is no serialization library in the retrieval pack's Go
// dependency surface (no gob/protobuf/msgpack pulled in by the teacher or
// by any networked example); every networked example hand-rolls its own
// framed binary codec the same way, so this package does too.
package protocol

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/mapfile"
	"github.com/scathanna-go/scathanna/internal/physics"
	"github.com/scathanna-go/scathanna/internal/ui"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

// Magic is the fixed preamble both peers exchange once, at the start of a
// connection, before the JoinMsg; later messages are not prefixed with it. A
// mismatch means the peer speaks an incompatible protocol version and the
// connection is rejected immediately.
const Magic uint64 = 0x5343415448414e4e // "SCATHANN"

// Addressee selects which connected clients a ServerMsg is delivered to.
type Addressee struct {
	Kind AddresseeKind
	ID   worldstate.PlayerID
}

type AddresseeKind uint8

const (
	AddrAll AddresseeKind = iota
	AddrJust
	AddrNot
)

func All() Addressee              { return Addressee{Kind: AddrAll} }
func Just(id worldstate.PlayerID) Addressee { return Addressee{Kind: AddrJust, ID: id} }
func Not(id worldstate.PlayerID) Addressee  { return Addressee{Kind: AddrNot, ID: id} }

// Envelope pairs a ServerMsg with its intended recipients.
type Envelope struct {
	To  Addressee
	Msg ServerMsg
}

// JoinMsg is the first message a client sends after connecting.
type JoinMsg struct {
	Name     string
	AvatarID uint8
	Team     worldstate.Team
}

// ClientMsgKind tags the variant carried by a ClientMsg.
type ClientMsgKind uint8

const (
	CMovePlayer ClientMsgKind = iota
	CReadyToSpawn
	CAddEffect
	CPlaySound
	CHitPlayer
	CCommand
)

// ClientMsg is any message a client sends after its initial JoinMsg. Only
// the field(s) relevant to Kind are populated.
type ClientMsg struct {
	Kind ClientMsgKind

	Frame   physics.Frame          // CMovePlayer
	Effect  worldstate.Effect      // CAddEffect
	Sound   worldstate.SoundEffect // CPlaySound
	Victim  worldstate.PlayerID    // CHitPlayer
	Command string                 // CCommand
}

func MovePlayerMsg(f physics.Frame) ClientMsg { return ClientMsg{Kind: CMovePlayer, Frame: f} }
func ReadyToSpawnMsg() ClientMsg               { return ClientMsg{Kind: CReadyToSpawn} }
func AddEffectMsg(e worldstate.Effect) ClientMsg {
	return ClientMsg{Kind: CAddEffect, Effect: e}
}
func PlaySoundMsg(s worldstate.SoundEffect) ClientMsg {
	return ClientMsg{Kind: CPlaySound, Sound: s}
}
func HitPlayerMsg(victim worldstate.PlayerID) ClientMsg {
	return ClientMsg{Kind: CHitPlayer, Victim: victim}
}
func CommandMsg(cmd string) ClientMsg { return ClientMsg{Kind: CCommand, Command: cmd} }

// ServerMsgKind tags the variant carried by a ServerMsg.
type ServerMsgKind uint8

const (
	SAddPlayer ServerMsgKind = iota
	SDropPlayer
	SSwitchMap
	SRequestRespawn
	SMovePlayer
	SUpdatePlayer
	SForceMovePlayer
	SUpdateEntity
	SRemoveEntity
	SAddEffect
	SPlaySound
	SUpdateHUD
)

// ServerMsg is any message the server sends after its initial SwitchMap.
type ServerMsg struct {
	Kind ServerMsgKind

	Player   *worldstate.Player   // SAddPlayer, SUpdatePlayer
	PlayerID worldstate.PlayerID  // SDropPlayer, SMovePlayer, SForceMovePlayer
	MapName  string               // SSwitchMap
	Players  []*worldstate.Player // SSwitchMap
	Entities []*worldstate.Entity // SSwitchMap
	SelfID   worldstate.PlayerID  // SSwitchMap: assigned id for the receiving client

	SpawnPoint mapfile.SpawnPoint // SRequestRespawn
	Frame      physics.Frame      // SMovePlayer
	Position   mgl32.Vec3         // SForceMovePlayer

	Entity   *worldstate.Entity // SUpdateEntity
	EntityID worldstate.EID     // SRemoveEntity

	Effect worldstate.Effect      // SAddEffect
	Sound  worldstate.SoundEffect // SPlaySound
	HUD    ui.HUDUpdate           // SUpdateHUD
}

func SwitchMapMsg(mapName string, players []*worldstate.Player, entities []*worldstate.Entity, selfID worldstate.PlayerID) ServerMsg {
	return ServerMsg{Kind: SSwitchMap, MapName: mapName, Players: players, Entities: entities, SelfID: selfID}
}
func AddPlayerMsg(p *worldstate.Player) ServerMsg { return ServerMsg{Kind: SAddPlayer, Player: p} }
func DropPlayerMsg(id worldstate.PlayerID) ServerMsg {
	return ServerMsg{Kind: SDropPlayer, PlayerID: id}
}
func RequestRespawnMsg(sp mapfile.SpawnPoint) ServerMsg {
	return ServerMsg{Kind: SRequestRespawn, SpawnPoint: sp}
}
func ServerMovePlayerMsg(id worldstate.PlayerID, f physics.Frame) ServerMsg {
	return ServerMsg{Kind: SMovePlayer, PlayerID: id, Frame: f}
}
func UpdatePlayerMsg(p *worldstate.Player) ServerMsg {
	return ServerMsg{Kind: SUpdatePlayer, Player: p}
}
func ForceMovePlayerMsg(id worldstate.PlayerID, pos mgl32.Vec3) ServerMsg {
	return ServerMsg{Kind: SForceMovePlayer, PlayerID: id, Position: pos}
}
func UpdateEntityMsg(e *worldstate.Entity) ServerMsg {
	return ServerMsg{Kind: SUpdateEntity, Entity: e}
}
func RemoveEntityMsg(id worldstate.EID) ServerMsg {
	return ServerMsg{Kind: SRemoveEntity, EntityID: id}
}
func ServerAddEffectMsg(e worldstate.Effect) ServerMsg {
	return ServerMsg{Kind: SAddEffect, Effect: e}
}
func ServerPlaySoundMsg(s worldstate.SoundEffect) ServerMsg {
	return ServerMsg{Kind: SPlaySound, Sound: s}
}
func UpdateHUDMsg(id worldstate.PlayerID, u ui.HUDUpdate) Envelope {
	return Envelope{To: Just(id), Msg: ServerMsg{Kind: SUpdateHUD, HUD: u}}
}
