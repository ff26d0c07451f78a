package bake

import (
	"math/rand"

	"github.com/scathanna-go/scathanna/internal/mesh"
	"github.com/scathanna-go/scathanna/internal/voxel"
)

// FaceUV pairs a merged face rectangle with its allocated lightmap origin.
type FaceUV struct {
	Rect voxel.Rectangle
	UV   mesh.UV
}

// CellBuffer is the renderer-agnostic output of baking one cell: a finished
// lightmap image and, per voxel kind, the merged face rectangles mapped
// into it. A renderer turns this into GPU vertex/index buffers and texture
// uploads; this package never touches a GPU.
type CellBuffer struct {
	Lightmap *Lightmap
	Faces    map[voxel.Voxel][]FaceUV
}

// emissiveVoxels are painted flat white regardless of lighting — they are
// themselves light sources, not lit surfaces.
var emissiveVoxels = map[voxel.Voxel]bool{
	voxel.Lava:     true,
	voxel.Voxel(10): true, // "light" block in the original palette
}

// BakeCellBuffer builds a CellBuffer for the cell at cellOrigin. traced
// selects the expensive path-traced mode (full bake) over the cheap
// four-probe mode (interactive preview). Returns ok=false for a cell with
// no exposed faces at all (nothing to draw).
func BakeCellBuffer(vx *voxel.Voxels, cellOrigin voxel.IVec3, traced bool) (*CellBuffer, bool) {
	byVoxel := mesh.CollectFacesByVoxelInCell(vx, cellOrigin)
	if len(byVoxel) == 0 {
		return nil, false
	}

	merged := make(map[voxel.Voxel][]voxel.Rectangle, len(byVoxel))
	var allFaces []voxel.Rectangle
	faceVoxel := map[voxel.Rectangle]voxel.Voxel{}
	for v, faces := range byVoxel {
		joined := mesh.JoinSquares(faces, voxel.IVec3{})
		merged[v] = joined
		for _, r := range joined {
			allFaces = append(allFaces, r)
			faceVoxel[r] = v
		}
	}

	alloc := mesh.NewLightmapAllocator(LightmapSize)
	placed := alloc.AllocAll(allFaces)

	lm := NewLightmap(LightmapSize)
	rng := rand.New(rand.NewSource(int64(cellOrigin.X)<<42 ^ int64(cellOrigin.Y)<<21 ^ int64(cellOrigin.Z)))

	out := &CellBuffer{Lightmap: lm, Faces: make(map[voxel.Voxel][]FaceUV)}
	for _, p := range placed {
		v := faceVoxel[p.Face]
		worldRect := p.Face
		worldRect.Position = worldRect.Position.Add(cellOrigin)
		bakeFace(rng, vx, lm, p.UV, worldRect, v, traced)
		out.Faces[v] = append(out.Faces[v], FaceUV{Rect: p.Face, UV: p.UV})
	}
	out.Lightmap = AddBorders(lm)
	return out, true
}

// bakeFace paints the (w+1)x(h+1) island backing rect into lm starting at
// uv. Lightmaps are built with a 0.5-texel inset so that bilinear sampling
// never crosses into a neighboring island.
//
// The traced path probes every texel directly. The fast (preview) path
// instead probes a quarter-resolution grid and upsamples it with a bilinear
// filter, since it reruns on every world edit and full-resolution probing
// would make editing feel laggy.
func bakeFace(rng *rand.Rand, vx *voxel.Voxels, lm *Lightmap, uv mesh.UV, rect voxel.Rectangle, v voxel.Voxel, traced bool) {
	if emissiveVoxels[v] {
		for dy := int32(0); dy <= rect.H; dy++ {
			for dx := int32(0); dx <= rect.W; dx++ {
				lm.Set(int(uv.X+dx), int(uv.Y+dy), White)
			}
		}
		return
	}

	if !traced {
		island := bakePreviewIsland(vx, rect)
		for dy := int32(0); dy <= rect.H; dy++ {
			for dx := int32(0); dx <= rect.W; dx++ {
				c := island.RGBA64At(int(dx), int(dy))
				lm.Set(int(uv.X+dx), int(uv.Y+dy), rgba64ToColor(c))
			}
		}
		return
	}

	tangents := rect.Direction.Tangents()
	tanU, tanV := tangents[0].Normal(), tangents[1].Normal()
	for dy := int32(0); dy <= rect.H; dy++ {
		for dx := int32(0); dx <= rect.W; dx++ {
			worldPos := rect.Position.Add(tanU.Scale(dx)).Add(tanV.Scale(dy))
			c := BakePointTraced(rng, vx, worldPos, rect.Direction)
			lm.Set(int(uv.X+dx), int(uv.Y+dy), c)
		}
	}
}
