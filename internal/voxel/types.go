// Package voxel implements the sparse voxel octree store: aligned cells of
// recursive octree nodes, integer-indexed geometric primitives (Cuboid,
// Cube, Rectangle, Direction), and ray/AABB intersection.
package voxel

import "fmt"

// Voxel identifies a material kind. Zero is empty.
type Voxel uint8

const (
	Empty Voxel = 0
	Lava  Voxel = 2
)

func (v Voxel) IsEmpty() bool { return v == Empty }

// IVec3 is an integer 3-vector used throughout the voxel store to index
// cells, cubes and cuboids.
type IVec3 struct {
	X, Y, Z int32
}

func IV(x, y, z int32) IVec3 { return IVec3{x, y, z} }

func (a IVec3) Add(b IVec3) IVec3 { return IVec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a IVec3) Sub(b IVec3) IVec3 { return IVec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a IVec3) Scale(s int32) IVec3 {
	return IVec3{a.X * s, a.Y * s, a.Z * s}
}

func (a IVec3) String() string { return fmt.Sprintf("(%d,%d,%d)", a.X, a.Y, a.Z) }

// Map applies f to each component.
func (a IVec3) Map(f func(int32) int32) IVec3 {
	return IVec3{f(a.X), f(a.Y), f(a.Z)}
}

// Cuboid is a half-open integer box [Min, Max).
type Cuboid struct {
	Min, Max IVec3
}

func NewCuboid(min, max IVec3) Cuboid { return Cuboid{min, max} }

// CubeRange returns the cubic Cuboid [min, min+size).
func CubeRange(min IVec3, size int32) Cuboid {
	return Cuboid{min, min.Add(IVec3{size, size, size})}
}

func (c Cuboid) Size() IVec3 {
	return c.Max.Sub(c.Min)
}

func (c Cuboid) Translate(delta IVec3) Cuboid {
	return Cuboid{c.Min.Add(delta), c.Max.Add(delta)}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func (c Cuboid) Intersect(o Cuboid) Cuboid {
	return Cuboid{
		Min: IVec3{max32(c.Min.X, o.Min.X), max32(c.Min.Y, o.Min.Y), max32(c.Min.Z, o.Min.Z)},
		Max: IVec3{min32(c.Max.X, o.Max.X), min32(c.Max.Y, o.Max.Y), min32(c.Max.Z, o.Max.Z)},
	}
}

func (c Cuboid) Intersects(o Cuboid) bool {
	return !c.Intersect(o).IsEmpty()
}

func (c Cuboid) IsEmpty() bool {
	return c.Min.X >= c.Max.X || c.Min.Y >= c.Max.Y || c.Min.Z >= c.Max.Z
}

func (c Cuboid) Contains(p IVec3) bool {
	return p.X >= c.Min.X && p.Y >= c.Min.Y && p.Z >= c.Min.Z &&
		p.X < c.Max.X && p.Y < c.Max.Y && p.Z < c.Max.Z
}

func (c Cuboid) ContainsRange(o Cuboid) bool {
	return c.Min.X <= o.Min.X && c.Min.Y <= o.Min.Y && c.Min.Z <= o.Min.Z &&
		c.Max.X >= o.Max.X && c.Max.Y >= o.Max.Y && c.Max.Z >= o.Max.Z
}

// Iter calls f for every integer position inside c, in Z,Y,X order, stepping
// by stride (which must evenly divide each axis of c's size).
func (c Cuboid) Iter(stride int32, f func(IVec3)) {
	for z := c.Min.Z; z < c.Max.Z; z += stride {
		for y := c.Min.Y; y < c.Max.Y; y += stride {
			for x := c.Min.X; x < c.Max.X; x += stride {
				f(IVec3{x, y, z})
			}
		}
	}
}

func (c Cuboid) String() string { return fmt.Sprintf("Range%s-%s", c.Min, c.Max) }

// Cube is an aligned cubic range: Size is a power of two and Position is a
// multiple of Size.
type Cube struct {
	position IVec3
	size     int32
}

// NewCube panics if size is not a power of two or position is not aligned
// to it — both are programmer errors, never caused by external input.
func NewCube(position IVec3, size int32) Cube {
	if size <= 0 || size&(size-1) != 0 {
		panic(fmt.Sprintf("voxel: Cube size not a power of two: %d", size))
	}
	if !isAlignedTo(position, size) {
		panic(fmt.Sprintf("voxel: Cube position %v not aligned to size %d", position, size))
	}
	return Cube{position, size}
}

func isAlignedTo(p IVec3, size int32) bool {
	m := size - 1
	return p.X&m == 0 && p.Y&m == 0 && p.Z&m == 0
}

func (c Cube) Position() IVec3 { return c.position }
func (c Cube) Size() int32     { return c.size }

func (c Cube) Translate(delta IVec3) Cube {
	return Cube{c.position.Add(delta), c.size}
}

func (c Cube) Min() IVec3 { return c.position }
func (c Cube) Max() IVec3 {
	return c.position.Add(IVec3{c.size, c.size, c.size})
}

func (c Cube) Cuboid() Cuboid { return Cuboid{c.Min(), c.Max()} }

func (c Cube) String() string { return fmt.Sprintf("%s-%d", c.position, c.size) }

// CubeType summarizes the contents of a Cube.
type CubeType struct {
	Uniform bool
	Voxel   Voxel // valid only if Uniform
}

func Uniform(v Voxel) CubeType { return CubeType{Uniform: true, Voxel: v} }
func Mixed() CubeType          { return CubeType{Uniform: false} }

// Direction is one of the six axis-aligned face normals.
type Direction uint8

const (
	MinusX Direction = iota
	PlusX
	MinusY
	PlusY
	MinusZ
	PlusZ
)

var AllDirections = [6]Direction{MinusX, PlusX, MinusY, PlusY, MinusZ, PlusZ}

// Axis returns the unoriented axis index: 0=X, 1=Y, 2=Z.
func (d Direction) Axis() int {
	switch d {
	case MinusX, PlusX:
		return 0
	case MinusY, PlusY:
		return 1
	default:
		return 2
	}
}

// Side returns 0 for the negative-facing directions, 1 for positive.
func (d Direction) Side() int {
	if d == PlusX || d == PlusY || d == PlusZ {
		return 1
	}
	return 0
}

// Normal returns the integer face normal.
func (d Direction) Normal() IVec3 {
	switch d {
	case PlusX:
		return IVec3{1, 0, 0}
	case MinusX:
		return IVec3{-1, 0, 0}
	case PlusY:
		return IVec3{0, 1, 0}
	case MinusY:
		return IVec3{0, -1, 0}
	case PlusZ:
		return IVec3{0, 0, 1}
	case MinusZ:
		return IVec3{0, 0, -1}
	}
	panic("voxel: invalid direction")
}

// UnorientedAxisVec returns the unit vector of the direction's axis,
// regardless of side (e.g. MinusX and PlusX both return (1,0,0)).
func (d Direction) UnorientedAxisVec() IVec3 {
	switch d.Axis() {
	case 0:
		return IVec3{1, 0, 0}
	case 1:
		return IVec3{0, 1, 0}
	default:
		return IVec3{0, 0, 1}
	}
}

// Tangents returns the two directions spanning the plane perpendicular to d,
// in a fixed, consistent order used to build face rectangles.
func (d Direction) Tangents() [2]Direction {
	switch d.Axis() {
	case 0:
		return [2]Direction{PlusY, PlusZ}
	case 1:
		return [2]Direction{PlusX, PlusZ}
	default:
		return [2]Direction{PlusX, PlusY}
	}
}

// Rectangle is an axis-aligned face: an origin, integer (w,h) in the two
// tangent directions, and the direction it faces.
type Rectangle struct {
	Position  IVec3
	W, H      int32
	Direction Direction
}

// Vertices returns the four corners in counter-clockwise order as seen
// looking onto the face from outside (along -Direction.Normal()).
func (r Rectangle) Vertices() [4]IVec3 {
	tangents := r.Direction.Tangents()
	du := tangents[0].Normal().Scale(r.W)
	dv := tangents[1].Normal().Scale(r.H)
	o := r.Position
	return [4]IVec3{
		o,
		o.Add(du),
		o.Add(du).Add(dv),
		o.Add(dv),
	}
}
