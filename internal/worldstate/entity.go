package worldstate

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

// EID uniquely identifies an Entity within a running process. Monotonic,
// never reused, never persisted.
type EID uint64

var nextEntityID uint64 = 1

// NewEntityID returns a fresh, process-unique entity id.
func NewEntityID() EID {
	return EID(atomic.AddUint64(&nextEntityID, 1) - 1)
}

// EKind enumerates the pickupable things a GiftBox can turn into, plus the
// GiftBox itself.
type EKind uint8

const (
	GiftBox EKind = iota
	CowboyHat
	BerserkerHelmet
	PartyHat
	XMasHat
)

// AllPowerups is every kind a gift box can yield, excluding the gift box
// itself being rolled again.
var AllPowerups = [...]EKind{CowboyHat, BerserkerHelmet, PartyHat, XMasHat}

// AllEKinds is every entity kind that can appear in the world, including
// the gift box.
var AllEKinds = [...]EKind{GiftBox, CowboyHat, BerserkerHelmet, PartyHat, XMasHat}

func (k EKind) String() string {
	switch k {
	case GiftBox:
		return "gift_box"
	case CowboyHat:
		return "cowboy_hat"
	case BerserkerHelmet:
		return "berserker_helmet"
	case PartyHat:
		return "party_hat"
	case XMasHat:
		return "xmas_hat"
	default:
		return "unknown"
	}
}

func (k EKind) Description() string {
	switch k {
	case CowboyHat:
		return "Shoot as fast as you can pull the trigger"
	case BerserkerHelmet:
		return "It's self-explanatory"
	case PartyHat:
		return "One extra life, love lava"
	case XMasHat:
		return "Unlimited jumping"
	case GiftBox:
		return "There's a prize on your head"
	default:
		return ""
	}
}

// RandomPowerup picks one of the four powerup hats uniformly.
func RandomPowerup() EKind {
	return AllPowerups[rand.Intn(len(AllPowerups))]
}

// RandomPowerupExcept picks a random powerup different from current (or any,
// if current is nil).
func RandomPowerupExcept(current *EKind) EKind {
	if current == nil {
		return RandomPowerup()
	}
	for {
		k := RandomPowerup()
		if k != *current {
			return k
		}
	}
}

func ParseEKind(s string) (EKind, error) {
	for _, k := range AllEKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown entity: %s", s)
}

// Entity is a world object a player can walk into: a powerup hat, or a gift
// box that yields a random powerup when picked up.
type Entity struct {
	ID       EID
	Position mgl32.Vec3
	Kind     EKind

	// PickupPointID back-references the spawn slot this entity occupies, if
	// it was spawned from a map's pickup point rather than summoned ad hoc.
	PickupPointID *int
}

func NewEntity(position mgl32.Vec3, kind EKind) *Entity {
	return &Entity{ID: NewEntityID(), Position: position, Kind: kind}
}

// Bounds is the entity's pickup hitbox.
func (e *Entity) Bounds() voxel.FBox {
	const hsize, vsize = 3.0, 3.0
	half := mgl32.Vec3{hsize / 2, 0, hsize / 2}
	return voxel.FBox{
		Min: e.Position.Sub(half),
		Max: e.Position.Add(mgl32.Vec3{hsize / 2, vsize, hsize / 2}),
	}
}

// Touches reports whether point lies within bounds — used for pickup
// collision against a player's center point.
func Touches(bounds voxel.FBox, point mgl32.Vec3) bool {
	return point.X() >= bounds.Min.X() && point.X() <= bounds.Max.X() &&
		point.Y() >= bounds.Min.Y() && point.Y() <= bounds.Max.Y() &&
		point.Z() >= bounds.Min.Z() && point.Z() <= bounds.Max.Z()
}
