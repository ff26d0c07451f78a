package mapconvert

import (
	"strings"
	"testing"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

// cubeOBJ is a closed box half as tall as it is wide, so the voxelized map
// has genuine empty space above it (margin the flood fill needs to reach
// true exterior space rather than get trapped inside the box itself).
const cubeOBJ = `
v -1  0 -1
v  1  0 -1
v  1  1 -1
v -1  1 -1
v -1  0  1
v  1  0  1
v  1  1  1
v -1  1  1
usemtl wall.1
f 1 2 3 4
f 5 8 7 6
f 1 5 6 2
f 2 6 7 3
f 3 7 8 4
f 4 8 5 1
`

func TestParseOBJReadsVerticesAndFaces(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(cubeOBJ))
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Vertices) != 8 {
		t.Fatalf("len(Vertices) = %v, want 8", len(mesh.Vertices))
	}
	if len(mesh.groups) != 1 {
		t.Fatalf("len(groups) = %v, want 1", len(mesh.groups))
	}
	// each quad face fan-triangulates into 2 triangles, 6 faces total
	if got := len(mesh.groups[0].triangles); got != 12 {
		t.Errorf("triangle count = %v, want 12", got)
	}
	if mesh.groups[0].voxel != 1 {
		t.Errorf("group voxel = %v, want 1 (from usemtl wall.1)", mesh.groups[0].voxel)
	}
}

func TestMaterialVoxelParsesTrailingNumber(t *testing.T) {
	if got := materialVoxel("wall.3"); got != 3 {
		t.Errorf("materialVoxel(wall.3) = %v, want 3", got)
	}
	if got := materialVoxel("grass"); got != 1 {
		t.Errorf("materialVoxel(grass) = %v, want 1 (default)", got)
	}
}

func TestConvertVoxelizesClosedCubeAndFillsInterior(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(cubeOBJ))
	if err != nil {
		t.Fatal(err)
	}

	m, err := Convert(mesh, "cube", 16)
	if err != nil {
		t.Fatal(err)
	}

	center := voxel.IVec3{X: 8, Y: 4, Z: 8}
	if m.Voxels.At(center) == voxel.Empty {
		t.Error("expected the box's hollow interior to be filled solid")
	}

	outside := voxel.IVec3{X: 100, Y: 100, Z: 100}
	if m.Voxels.At(outside) != voxel.Empty {
		t.Error("expected voxels far outside the cube's bounds to remain empty")
	}
}

func TestParseFaceIndicesHandlesSlashSuffixesAndOneBasing(t *testing.T) {
	idx, err := parseFaceIndices([]string{"1/2/3", "2//4", "3"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 2}
	for i, w := range want {
		if idx[i] != w {
			t.Errorf("idx[%d] = %v, want %v", i, idx[i], w)
		}
	}
}
