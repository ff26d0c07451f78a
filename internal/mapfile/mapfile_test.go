package mapfile

import (
	"path/filepath"
	"testing"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()

	vx := voxel.NewVoxels()
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{0, 0, 0}, voxel.IVec3{8, 8, 8}), voxel.Voxel(4))

	m := &Map{
		Name:   "test_map",
		Voxels: vx,
		Metadata: Metadata{
			SpawnPoints:  []SpawnPoint{{Pos: voxel.IVec3{0, 1, 0}}},
			PickupPoints: []PickupPoint{{Pos: voxel.IVec3{10, 1, 10}}},
		},
	}

	if err := m.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load("test_map", dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := loaded.Voxels.At(voxel.IVec3{1, 1, 1}); got != voxel.Voxel(4) {
		t.Errorf("reloaded voxel = %v, want 4", got)
	}
	if len(loaded.Metadata.SpawnPoints) != 1 || loaded.Metadata.SpawnPoints[0].Pos != (voxel.IVec3{0, 1, 0}) {
		t.Errorf("spawn points did not round-trip: %+v", loaded.Metadata.SpawnPoints)
	}
	if len(loaded.Metadata.PickupPoints) != 1 {
		t.Errorf("pickup points did not round-trip: %+v", loaded.Metadata.PickupPoints)
	}
}

func TestDirBuildsConventionalPath(t *testing.T) {
	got := Dir("/assets", "fun_map")
	want := filepath.Join("/assets", "maps", "fun_map.sc")
	if got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestLightmapFileNamesByHexCoordinate(t *testing.T) {
	got := LightmapFile("/x", voxel.IVec3{64, 0, -64})
	want := filepath.Join("/x", "lm_0040_0000_ffc0.png")
	if got != want {
		t.Errorf("LightmapFile() = %q, want %q", got, want)
	}
}
