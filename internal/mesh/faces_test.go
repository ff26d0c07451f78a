package mesh

import (
	"testing"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

func TestCollectFacesByVoxelSingleCube(t *testing.T) {
	vx := voxel.NewVoxels()
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{0, 0, 0}, voxel.IVec3{4, 4, 4}), voxel.Voxel(1))

	byVoxel := CollectFacesByVoxel(vx)
	faces := byVoxel[voxel.Voxel(1)]
	if len(faces) != 6 {
		t.Fatalf("expected 6 exposed faces for an isolated cube, got %d", len(faces))
	}
	for _, f := range faces {
		if f.W <= 0 || f.H <= 0 {
			t.Errorf("degenerate face %+v", f)
		}
	}
}

func TestCollectFacesByVoxelHidesSharedFace(t *testing.T) {
	vx := voxel.NewVoxels()
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{0, 0, 0}, voxel.IVec3{4, 4, 4}), voxel.Voxel(1))
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{4, 0, 0}, voxel.IVec3{8, 4, 4}), voxel.Voxel(1))

	byVoxel := CollectFacesByVoxel(vx)
	faces := byVoxel[voxel.Voxel(1)]
	// Two 4x4x4 cubes glued along X: 6+6 faces minus the 2 touching faces = 10.
	if len(faces) != 10 {
		t.Fatalf("expected 10 exposed faces for two glued cubes, got %d", len(faces))
	}
}

func TestCollectFacesByVoxelSplitsFaceAgainstMixedNeighbor(t *testing.T) {
	vx := voxel.NewVoxels()
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{0, 0, 0}, voxel.IVec3{4, 4, 4}), voxel.Voxel(1))
	// Only the y<2 half of the +X neighbor is filled, so that neighbor cube
	// is Mixed and the +X face must be split rather than fully hidden.
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{4, 0, 0}, voxel.IVec3{8, 2, 4}), voxel.Voxel(2))

	byVoxel := CollectFacesByVoxel(vx)
	faces := byVoxel[voxel.Voxel(1)]

	var plusX []voxel.Rectangle
	for _, f := range faces {
		if f.Direction == voxel.PlusX {
			plusX = append(plusX, f)
		}
	}
	if len(plusX) != 2 {
		t.Fatalf("expected the +X face split into 2 exposed quadrants, got %d: %+v", len(plusX), plusX)
	}
	for _, f := range plusX {
		if f.W != 2 || f.H != 2 {
			t.Errorf("expected half-size (2x2) quadrants, got %dx%d", f.W, f.H)
		}
		if f.Position.Y != 2 {
			t.Errorf("expected the exposed quadrants in the unoccupied y>=2 half, got y=%d", f.Position.Y)
		}
	}

	// The other 5 sides have no occluding neighbor at all, so they stay whole.
	wholeFaces := 0
	for _, f := range faces {
		if f.Direction != voxel.PlusX {
			wholeFaces++
			if f.W != 4 || f.H != 4 {
				t.Errorf("expected a whole 4x4 face on %v, got %dx%d", f.Direction, f.W, f.H)
			}
		}
	}
	if wholeFaces != 5 {
		t.Fatalf("expected 5 whole faces on the unobstructed sides, got %d", wholeFaces)
	}
}
