package voxel

// CellSize is the edge length of one octree cell; LogCellSize is its
// base-2 logarithm (CellSize must stay a power of two).
const (
	CellSize    int32 = 64
	LogCellSize int32 = 6
)

// Voxels is a sparse, unbounded voxel world: a map from cell-aligned origin
// to the octree root covering that cell. Missing cells are implicitly all
// Empty.
type Voxels struct {
	cells map[IVec3]*Node
}

func NewVoxels() *Voxels {
	return &Voxels{cells: make(map[IVec3]*Node)}
}

func alignDown(v, size int32) int32 {
	if v >= 0 {
		return v - v%size
	}
	r := v % size
	if r == 0 {
		return v
	}
	return v - size - r
}

func alignUp(v, size int32) int32 {
	return alignDown(v+size-1, size)
}

// AlignDown floors every component of p to the nearest multiple of size at
// or below it.
func AlignDown(p IVec3, size int32) IVec3 {
	return IVec3{alignDown(p.X, size), alignDown(p.Y, size), alignDown(p.Z, size)}
}

// AlignUp ceils every component of p to the nearest multiple of size at or
// above it.
func AlignUp(p IVec3, size int32) IVec3 {
	return IVec3{alignUp(p.X, size), alignUp(p.Y, size), alignUp(p.Z, size)}
}

// AlignedHull returns the smallest cell-aligned Cuboid containing r.
func AlignedHull(r Cuboid) Cuboid {
	return Cuboid{AlignDown(r.Min, CellSize), AlignUp(r.Max, CellSize)}
}

func (vx *Voxels) cellAt(origin IVec3) *Node {
	n, ok := vx.cells[origin]
	if !ok {
		return nil
	}
	return n
}

func (vx *Voxels) cellOrCreate(origin IVec3) *Node {
	n, ok := vx.cells[origin]
	if ok {
		return n
	}
	n = new(Node)
	*n = NewUniform(Empty)
	vx.cells[origin] = n
	return n
}

// At returns the voxel at the given absolute position.
func (vx *Voxels) At(p IVec3) Voxel {
	origin := AlignDown(p, CellSize)
	cell := vx.cellAt(origin)
	if cell == nil {
		return Empty
	}
	return cell.At(p.Sub(origin), CellSize)
}

// SetRange sets every voxel in the absolute-coordinate cuboid r to v,
// touching every cell it overlaps.
func (vx *Voxels) SetRange(r Cuboid, v Voxel) {
	hull := AlignedHull(r)
	for cellOrigin := hull.Min; cellOrigin.Z < hull.Max.Z; cellOrigin.Z += CellSize {
		for cellOrigin.Y = hull.Min.Y; cellOrigin.Y < hull.Max.Y; cellOrigin.Y += CellSize {
			for cellOrigin.X = hull.Min.X; cellOrigin.X < hull.Max.X; cellOrigin.X += CellSize {
				cellCuboid := CubeRange(cellOrigin, CellSize)
				local := r.Intersect(cellCuboid)
				if local.IsEmpty() {
					continue
				}
				local = local.Translate(IVec3{-cellOrigin.X, -cellOrigin.Y, -cellOrigin.Z})
				cell := vx.cellOrCreate(cellOrigin)
				cell.SetRange(local, CellSize, v)
			}
		}
	}
}

// SetVoxel sets a single absolute position.
func (vx *Voxels) SetVoxel(p IVec3, v Voxel) {
	vx.SetRange(Cuboid{p, p.Add(IVec3{1, 1, 1})}, v)
}

// QueryCube classifies the absolute cube c.
func (vx *Voxels) QueryCube(c Cube) CubeType {
	if c.Size() <= CellSize {
		origin := AlignDown(c.Min(), CellSize)
		cell := vx.cellAt(origin)
		if cell == nil {
			return Uniform(Empty)
		}
		local := c.Cuboid().Translate(IVec3{-origin.X, -origin.Y, -origin.Z})
		return cell.QueryCube(local, CellSize)
	}
	// Larger than a cell: merge across covered cells.
	var found Voxel
	haveFound := false
	for cellOrigin := c.Min(); cellOrigin.Z < c.Max().Z; cellOrigin.Z += CellSize {
		for cellOrigin.Y = c.Min().Y; cellOrigin.Y < c.Max().Y; cellOrigin.Y += CellSize {
			for cellOrigin.X = c.Min().X; cellOrigin.X < c.Max().X; cellOrigin.X += CellSize {
				cell := vx.cellAt(cellOrigin)
				var v Voxel
				if cell == nil {
					v = Empty
				} else {
					ct := cell.QueryCube(CubeRange(IVec3{}, CellSize), CellSize)
					if !ct.Uniform {
						return Mixed()
					}
					v = ct.Voxel
				}
				if !haveFound {
					found = v
					haveFound = true
				} else if found != v {
					return Mixed()
				}
			}
		}
	}
	if !haveFound {
		return Uniform(Empty)
	}
	return Uniform(found)
}

// Intersects reports whether any voxel in the absolute cuboid r is non-empty.
func (vx *Voxels) Intersects(r Cuboid) bool {
	hull := AlignedHull(r)
	for cellOrigin := hull.Min; cellOrigin.Z < hull.Max.Z; cellOrigin.Z += CellSize {
		for cellOrigin.Y = hull.Min.Y; cellOrigin.Y < hull.Max.Y; cellOrigin.Y += CellSize {
			for cellOrigin.X = hull.Min.X; cellOrigin.X < hull.Max.X; cellOrigin.X += CellSize {
				cell := vx.cellAt(cellOrigin)
				if cell == nil {
					continue
				}
				cellCuboid := CubeRange(cellOrigin, CellSize)
				local := r.Intersect(cellCuboid).Translate(IVec3{-cellOrigin.X, -cellOrigin.Y, -cellOrigin.Z})
				if cell.Intersect(local, CellSize) {
					return true
				}
			}
		}
	}
	return false
}

// VisitNonemptyCubes calls f for every maximal uniform non-empty cube in the
// whole world, in absolute coordinates.
func (vx *Voxels) VisitNonemptyCubes(f func(Cube, Voxel)) {
	for origin, cell := range vx.cells {
		cell.VisitNonemptyCubes(origin, CellSize, f)
	}
}

// CellOrigins returns the origins of every allocated cell, in no particular
// order.
func (vx *Voxels) CellOrigins() []IVec3 {
	out := make([]IVec3, 0, len(vx.cells))
	for origin := range vx.cells {
		out = append(out, origin)
	}
	return out
}

// CellRoot returns the octree root for the cell at origin, or nil if the
// cell has never been touched.
func (vx *Voxels) CellRoot(origin IVec3) *Node {
	return vx.cellAt(origin)
}

// SetCellRoot replaces the entire octree root for the cell at origin. Used
// to push a cloned snapshot of a cell into a second, independent Voxels
// instance (the bakery's own copy of the world).
func (vx *Voxels) SetCellRoot(origin IVec3, root Node) {
	n := new(Node)
	*n = root
	vx.cells[origin] = n
}

// CloneCell returns a deep copy of the cell rooted at origin, suitable for
// handing to a concurrent reader (the bakery) while edits continue on the
// live world. Returns a fresh all-Empty node if the cell doesn't exist yet.
func (vx *Voxels) CloneCell(origin IVec3) Node {
	cell := vx.cellAt(origin)
	if cell == nil {
		return NewUniform(Empty)
	}
	return cell.Clone()
}

// Bumps returns the set of cell-aligned cubes adjoining any face of c that
// also lies within hull — the neighbor cells a caller must re-mesh after an
// edit to c, because a change at a cell boundary can expose or hide faces in
// the neighbor.
func Bumps(c Cuboid, hull Cuboid) []Cuboid {
	var out []Cuboid
	for _, d := range AllDirections {
		n := d.Normal()
		shifted := c.Translate(IVec3{n.X * CellSize, n.Y * CellSize, n.Z * CellSize})
		if shifted.Intersects(hull) {
			out = append(out, shifted.Intersect(hull))
		}
	}
	return out
}
