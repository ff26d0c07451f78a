package mesh

import (
	"sort"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

// lightmapMargin is the minimum gap between packed islands; 1 texel is the
// bare minimum needed to avoid bleed, the second is slack against rounding
// error at grazing incidence during border bleed-fill.
const lightmapMargin = int32(2)

// UV is an integer texel offset into a lightmap atlas.
type UV struct {
	X, Y int32
}

// LightmapAllocator packs rectangular face islands into a square atlas of
// the given size using a row-based strip packer: islands are placed left to
// right, wrapping to a new row once they no longer fit, with lightmapMargin
// texels between islands and along the atlas's top and left edges.
type LightmapAllocator struct {
	size   int32
	curX   int32
	curY   int32
	nextY  int32
}

func NewLightmapAllocator(size int32) *LightmapAllocator {
	return &LightmapAllocator{size: size, curX: lightmapMargin, curY: lightmapMargin, nextY: lightmapMargin}
}

// AllocAll allocates every face, widest-saving first (sorted by ascending
// height, which empirically keeps the atlas 3-10x fuller than allocating in
// arbitrary order). Returns each face paired with its allocated origin; the
// returned order does not necessarily match faces' input order.
func (a *LightmapAllocator) AllocAll(faces []voxel.Rectangle) []struct {
	Face voxel.Rectangle
	UV   UV
} {
	sorted := make([]voxel.Rectangle, len(faces))
	copy(sorted, faces)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].H < sorted[j].H })

	out := make([]struct {
		Face voxel.Rectangle
		UV   UV
	}, len(sorted))
	for i, f := range sorted {
		out[i].Face = f
		out[i].UV = a.Alloc(f.W, f.H)
	}
	return out
}

// Alloc reserves a (w+1)x(h+1) island for a wxh face — the extra texel of
// padding on the high edge avoids light bleeding between neighboring
// islands — and returns its origin.
func (a *LightmapAllocator) Alloc(w, h int32) UV {
	if w <= 0 || h <= 0 {
		panic("mesh: Alloc requires positive size")
	}
	w, h = w+1, h+1

	if a.curX+w >= a.size {
		a.curX = lightmapMargin
		a.curY = a.nextY
	}

	if a.curY+h+lightmapMargin > a.nextY {
		a.nextY = a.curY + h + lightmapMargin
	}

	result := UV{a.curX, a.curY}
	a.curX += w + lightmapMargin
	return result
}
