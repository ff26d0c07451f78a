package mapconvert

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/mapfile"
	"github.com/scathanna-go/scathanna/internal/voxel"
)

// sampleRes is the fraction of a world unit between triangle surface
// samples; finer than 1 guarantees no gap wide enough to leave an
// unvoxelized hole in an otherwise solid surface.
const sampleRes = 0.3

// Convert voxelizes mesh into a size x size x size map: every triangle is
// densely sampled and rasterized into the nearest voxel, the mesh is
// centered and scaled to fill the cube, and the enclosed interior is
// flood-filled solid from the outside in (the mesh need only describe a
// closed surface, not a filled volume).
func Convert(mesh *Mesh, name string, size int32) (*mapfile.Map, error) {
	vx := voxel.NewVoxels()

	transform := fitTransform(mesh.Vertices, size)
	for _, g := range mesh.groups {
		for _, tri := range g.triangles {
			v0 := transform(mesh.Vertices[tri[0]])
			v1 := transform(mesh.Vertices[tri[1]])
			v2 := transform(mesh.Vertices[tri[2]])
			rasterizeTriangle(vx, v0, v1, v2, voxel.Voxel(g.voxel))
		}
	}

	fillInterior(vx, size)

	return &mapfile.Map{
		Name:   name,
		Voxels: vx,
		Metadata: mapfile.Metadata{
			SpawnPoints: []mapfile.SpawnPoint{{Pos: voxel.IVec3{X: size / 2, Y: size - 2, Z: size / 2}}},
		},
	}, nil
}

// fitTransform centers the mesh's horizontal extent and scales it so its
// largest horizontal dimension fills the target cube, mirroring the
// original's "normalize by mesh_hsize, recenter at cube center" transform.
func fitTransform(vertices []mgl32.Vec3, size int32) func(mgl32.Vec3) mgl32.Vec3 {
	if len(vertices) == 0 {
		return func(v mgl32.Vec3) mgl32.Vec3 { return v }
	}

	min, max := vertices[0], vertices[0]
	for _, v := range vertices {
		min = componentMin(min, v)
		max = componentMax(max, v)
	}
	extent := max.Sub(min)
	hsize := extent.X()
	if extent.Z() > hsize {
		hsize = extent.Z()
	}
	if hsize == 0 {
		hsize = 1
	}

	center := min.Add(max).Mul(0.5)
	offset := mgl32.Vec3{center.X(), 0, center.Z()}
	worldSize := float32(size)
	return func(pos mgl32.Vec3) mgl32.Vec3 {
		return pos.Sub(offset).Mul(1 / hsize).Add(mgl32.Vec3{0.5, 0, 0.5}).Mul(worldSize)
	}
}

func componentMin(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{minF(a.X(), b.X()), minF(a.Y(), b.Y()), minF(a.Z(), b.Z())}
}

func componentMax(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{maxF(a.X(), b.X()), maxF(a.Y(), b.Y()), maxF(a.Z(), b.Z())}
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// rasterizeTriangle samples v0,v1,v2 densely in barycentric coordinates
// and sets the voxel nearest each sample point, densely enough (sampleRes
// world units between samples) that no surface gap is left unvoxelized.
func rasterizeTriangle(vx *voxel.Voxels, v0, v1, v2 mgl32.Vec3, vox voxel.Voxel) {
	a := v1.Sub(v0)
	b := v2.Sub(v0)

	nu := int(a.Len()/sampleRes) + 1
	nv := int(b.Len()/sampleRes) + 1

	for iu := 0; iu <= nu; iu++ {
		for iv := 0; iv <= nv; iv++ {
			u := float32(iu) / float32(nu)
			v := float32(iv) / float32(nv)
			if u+v > 1.0 {
				continue
			}
			pos := v0.Add(a.Mul(u)).Add(b.Mul(v))
			vx.SetVoxel(floorVec(pos), vox)
		}
	}
}

func floorVec(pos mgl32.Vec3) voxel.IVec3 {
	return voxel.IVec3{
		X: int32(pos.X() + 0.5),
		Y: int32(pos.Y() + 0.5),
		Z: int32(pos.Z() + 0.5),
	}
}

// fillInterior flood-fills from the cube's outer corner inward over empty
// voxels, marking everything the flood reaches; whatever the flood never
// reaches is enclosed by the mesh surface and gets solidified in a second
// column-wise sweep, exactly mirroring the original's two-pass fill.
func fillInterior(vx *voxel.Voxels, size int32) {
	const mark = voxel.Voxel(255)

	start := voxel.IVec3{X: size - 1, Y: size - 1, Z: size - 1}
	stack := []voxel.IVec3{start}

	for len(stack) > 0 {
		pos := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		vx.SetVoxel(pos, mark)

		for _, d := range []voxel.IVec3{
			{X: -1}, {X: 1}, {Y: -1}, {Y: 1}, {Z: -1}, {Z: 1},
		} {
			n := pos.Add(d)
			if !inBounds(n, size) {
				continue
			}
			if vx.At(n) == voxel.Empty {
				stack = append(stack, n)
			}
		}
	}

	last := voxel.Empty
	for x := int32(0); x < size; x++ {
		for z := int32(0); z < size; z++ {
			for iy := int32(0); iy < size; iy++ {
				y := size - 1 - iy
				p := voxel.IVec3{X: x, Y: y, Z: z}
				v := vx.At(p)
				if v == voxel.Empty {
					vx.SetVoxel(p, last)
				}
				if v != voxel.Empty && v != mark {
					last = v
				}
				if v == mark {
					vx.SetVoxel(p, voxel.Empty)
				}
			}
		}
	}
}

func inBounds(p voxel.IVec3, size int32) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size && p.Z >= 0 && p.Z < size
}
