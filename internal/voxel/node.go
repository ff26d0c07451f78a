package voxel

import "math"

// Node is a sparse octree node: either Uniform (a single voxel value fills
// the whole cube) or Composite (eight equally-sized child octants, in
// Z-major, Y, X order — matching octantIndex below).
type Node struct {
	uniform  bool
	voxel    Voxel
	children *[8]Node
}

func NewUniform(v Voxel) Node {
	return Node{uniform: true, voxel: v}
}

func newComposite(children [8]Node) Node {
	return Node{uniform: false, children: &children}
}

// octantIndex maps a position within a size-2 cube's local coordinates
// {0,1}^3 to a child slot 0..7.
func octantIndex(local IVec3) int {
	idx := 0
	if local.X != 0 {
		idx |= 1
	}
	if local.Y != 0 {
		idx |= 2
	}
	if local.Z != 0 {
		idx |= 4
	}
	return idx
}

func octantOrigin(i int) IVec3 {
	return IVec3{int32(i & 1), int32((i >> 1) & 1), int32((i >> 2) & 1)}
}

// IsUniform reports whether the node is a single value, and returns it.
func (n Node) IsUniform() (Voxel, bool) {
	return n.voxel, n.uniform
}

// At returns the voxel at local position p within a cube of the given size.
func (n Node) At(p IVec3, size int32) Voxel {
	if n.uniform {
		return n.voxel
	}
	half := size / 2
	local := IVec3{p.X / half, p.Y / half, p.Z / half}
	rem := IVec3{p.X % half, p.Y % half, p.Z % half}
	return n.children[octantIndex(local)].At(rem, half)
}

// SetRange sets every voxel within cuboid r (given in local coordinates of a
// cube of the given size rooted at origin 0) to v, then collapses any
// resulting uniform subtrees.
func (n *Node) SetRange(r Cuboid, size int32, v Voxel) {
	full := CubeRange(IVec3{}, size)
	clipped := r.Intersect(full)
	if clipped.IsEmpty() {
		return
	}
	if clipped == full {
		*n = NewUniform(v)
		return
	}
	if size == 1 {
		*n = NewUniform(v)
		return
	}
	n.split()
	half := size / 2
	for i := 0; i < 8; i++ {
		origin := octantOrigin(i).Scale(half)
		childCuboid := Cuboid{origin, origin.Add(IVec3{half, half, half})}
		sub := clipped.Intersect(childCuboid).Translate(IVec3{-origin.X, -origin.Y, -origin.Z})
		if sub.IsEmpty() {
			continue
		}
		n.children[i].SetRange(sub, half, v)
	}
	n.collapse()
}

// split turns a Uniform node into a Composite of eight Uniform children with
// the same value. No-op if already Composite.
func (n *Node) split() {
	if n.uniform {
		var children [8]Node
		for i := range children {
			children[i] = NewUniform(n.voxel)
		}
		n.children = &children
		n.uniform = false
	}
}

// collapse turns a Composite node whose children are all Uniform with the
// same value back into a single Uniform node.
func (n *Node) collapse() {
	if n.uniform {
		return
	}
	first, ok := n.children[0].IsUniform()
	if !ok {
		return
	}
	for i := 1; i < 8; i++ {
		v, ok := n.children[i].IsUniform()
		if !ok || v != first {
			return
		}
	}
	*n = NewUniform(first)
}

// QueryCube classifies the cube region [origin, origin+size) as uniform or
// mixed, without allocating.
func (n Node) QueryCube(local Cuboid, size int32) CubeType {
	full := CubeRange(IVec3{}, size)
	if n.uniform {
		return Uniform(n.voxel)
	}
	if !full.ContainsRange(local) {
		// Only ever called with local fully inside [0,size); defensive clip.
		local = local.Intersect(full)
	}
	half := size / 2
	var found Voxel
	haveFound := false
	for i := 0; i < 8; i++ {
		origin := octantOrigin(i).Scale(half)
		childCuboid := Cuboid{origin, origin.Add(IVec3{half, half, half})}
		overlap := local.Intersect(childCuboid)
		if overlap.IsEmpty() {
			continue
		}
		sub := overlap.Translate(IVec3{-origin.X, -origin.Y, -origin.Z})
		ct := n.children[i].QueryCube(sub, half)
		if !ct.Uniform {
			return Mixed()
		}
		if !haveFound {
			found = ct.Voxel
			haveFound = true
		} else if found != ct.Voxel {
			return Mixed()
		}
	}
	if !haveFound {
		return Uniform(Empty)
	}
	return Uniform(found)
}

// VisitNonemptyCubes calls f once for every maximal uniform non-empty cube
// contained in the node, in the node's own coordinate frame scaled by size
// and translated by origin.
func (n Node) VisitNonemptyCubes(origin IVec3, size int32, f func(Cube, Voxel)) {
	if n.uniform {
		if !n.voxel.IsEmpty() {
			f(NewCube(origin, size), n.voxel)
		}
		return
	}
	half := size / 2
	for i := 0; i < 8; i++ {
		childOrigin := origin.Add(octantOrigin(i).Scale(half))
		n.children[i].VisitNonemptyCubes(childOrigin, half, f)
	}
}

// Intersect reports whether any voxel in r (local coordinates of a cube of
// the given size) is non-empty.
func (n Node) Intersect(r Cuboid, size int32) bool {
	full := CubeRange(IVec3{}, size)
	clipped := r.Intersect(full)
	if clipped.IsEmpty() {
		return false
	}
	if n.uniform {
		return !n.voxel.IsEmpty()
	}
	half := size / 2
	for i := 0; i < 8; i++ {
		origin := octantOrigin(i).Scale(half)
		childCuboid := Cuboid{origin, origin.Add(IVec3{half, half, half})}
		sub := clipped.Intersect(childCuboid)
		if sub.IsEmpty() {
			continue
		}
		sub = sub.Translate(IVec3{-origin.X, -origin.Y, -origin.Z})
		if n.children[i].Intersect(sub, half) {
			return true
		}
	}
	return false
}

// Intersect recursively finds the closest non-empty voxel inside selfRange
// that ray crosses. An AABB-slab test rejects the whole subtree at every
// level before descending into it, so an empty region is skipped in one
// comparison regardless of how many leaf voxels it covers.
func (n Node) Intersect(selfRange Cube, ray Ray) (Voxel, float32, bool) {
	if n.uniform && n.voxel == Empty {
		return Empty, 0, false
	}
	tMin, _, ok := selfRange.Cuboid().ToFBox().Intersect(ray)
	if !ok {
		return Empty, 0, false
	}
	if n.uniform {
		return n.voxel, tMin, true
	}

	half := selfRange.Size() / 2
	var best Voxel
	bestT := float32(math.Inf(1))
	found := false
	for i := 0; i < 8; i++ {
		childOrigin := selfRange.Min().Add(octantOrigin(i).Scale(half))
		if v, t, ok := n.children[i].Intersect(NewCube(childOrigin, half), ray); ok && t < bestT {
			best, bestT, found = v, t, true
		}
	}
	if !found {
		return Empty, 0, false
	}
	return best, bestT, true
}

// Clone deep-copies the node. Uniform nodes are copied by value; Composite
// nodes allocate a fresh child array. Used to give a bakery snapshot its own
// copy of a cell while edits continue against the live one.
func (n Node) Clone() Node {
	if n.uniform {
		return n
	}
	var children [8]Node
	for i := range children {
		children[i] = n.children[i].Clone()
	}
	return newComposite(children)
}
