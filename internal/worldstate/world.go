package worldstate

import (
	"math"

	"github.com/scathanna-go/scathanna/internal/mapfile"
	"github.com/scathanna-go/scathanna/internal/voxel"
)

// maxRayDistance bounds the cell-by-cell march used for line-of-sight and
// line-of-fire queries against the voxel world.
const maxRayDistance = 10000.0

// World is the in-memory representation of everything that can be drawn or
// interacted with: the map (immovable geometry, loaded from disk) and the
// players/entities/effects (dynamically added and removed). Both the server
// and each client hold their own copy; each is responsible for mutating
// only the parts it owns (spec.md §3 Player).
type World struct {
	Map      *mapfile.Map
	Players  map[PlayerID]*Player
	Entities map[EID]*Entity
	Effects  []Effect
}

func NewWorld(m *mapfile.Map) *World {
	return &World{
		Map:      m,
		Players:  make(map[PlayerID]*Player),
		Entities: make(map[EID]*Entity),
	}
}

// IntersectExcept intersects ray with the map and every spawned player
// except playerID (so a player never shoots themself where the ray exits
// their own hitbox). Returns the distance to the nearest hit and, if a
// player was the nearest thing hit, their id.
func (w *World) IntersectExcept(playerID PlayerID, ray voxel.Ray) (t float32, hitPlayer *PlayerID, ok bool) {
	nearest := float32(math.Inf(1))
	found := false

	if _, mt, mok := w.Map.Voxels.March(ray, maxRayDistance); mok {
		nearest = mt
		found = true
	}

	for id, p := range w.Players {
		if id == playerID {
			continue
		}
		pt, pok := p.Intersect(ray)
		if !pok || pt >= nearest {
			continue
		}
		nearest = pt
		found = true
		idCopy := id
		hitPlayer = &idCopy
	}

	if !found {
		return 0, nil, false
	}
	return nearest, hitPlayer, true
}

// EntityIDs returns a snapshot of every entity id currently in the world,
// safe to range over while mutating w.Entities.
func (w *World) EntityIDs() []EID {
	ids := make([]EID, 0, len(w.Entities))
	for id := range w.Entities {
		ids = append(ids, id)
	}
	return ids
}
