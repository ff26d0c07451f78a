package mesh

import (
	"testing"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

func TestLightmapAllocatorPacksWithoutOverlap(t *testing.T) {
	a := NewLightmapAllocator(64)
	type placed struct {
		x0, y0, x1, y1 int32
	}
	var rects []placed
	for i := 0; i < 5; i++ {
		uv := a.Alloc(4, 3)
		rects = append(rects, placed{uv.X, uv.Y, uv.X + 4, uv.Y + 3})
	}
	for i := range rects {
		for j := range rects {
			if i == j {
				continue
			}
			a, b := rects[i], rects[j]
			overlap := a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1
			if overlap {
				t.Fatalf("islands %d and %d overlap: %+v %+v", i, j, a, b)
			}
		}
	}
}

func TestLightmapAllocatorWrapsRows(t *testing.T) {
	a := NewLightmapAllocator(16)
	first := a.Alloc(10, 2)
	second := a.Alloc(10, 2)
	if second.Y <= first.Y {
		t.Fatalf("expected second wide island to wrap to a new row, got first=%v second=%v", first, second)
	}
}

func TestLightmapAllocatorAllocAllSortsByHeight(t *testing.T) {
	a := NewLightmapAllocator(128)
	faces := []voxel.Rectangle{
		{Position: voxel.IVec3{}, W: 3, H: 9},
		{Position: voxel.IVec3{}, W: 3, H: 1},
		{Position: voxel.IVec3{}, W: 3, H: 5},
	}
	placed := a.AllocAll(faces)
	if len(placed) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(placed))
	}
	for i := 1; i < len(placed); i++ {
		if placed[i].Face.H < placed[i-1].Face.H {
			t.Fatalf("expected non-decreasing height order, got %v then %v", placed[i-1].Face.H, placed[i].Face.H)
		}
	}
}
