// Package mapfile reads and writes a map's on-disk representation: a
// gzip-compressed voxel dump, a JSON metadata document, and one baked
// lightmap PNG per cell.
package mapfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/scathanna-go/scathanna/internal/bake"
	"github.com/scathanna-go/scathanna/internal/voxel"
)

const (
	VoxelFile    = "voxels.bin.gz"
	MetadataFile = "metadata.json"
)

// SpawnPoint is a player spawn location.
type SpawnPoint struct {
	Pos voxel.IVec3 `json:"pos"`
}

// PickupPoint is a fixed location where a powerup entity respawns once
// taken; Taken tracks live server state, not persisted map layout, but
// round-trips through metadata so a saved-and-reloaded map keeps it.
type PickupPoint struct {
	Pos   voxel.IVec3 `json:"pos"`
	Taken bool        `json:"taken,omitempty"`
}

// Metadata is the hand-authored part of a map: everything that isn't
// voxels.
type Metadata struct {
	SpawnPoints  []SpawnPoint  `json:"spawn_points"`
	PickupPoints []PickupPoint `json:"pickup_points"`
}

// Map is a complete, loaded map: its name, voxel world, and metadata.
type Map struct {
	Name     string
	Voxels   *voxel.Voxels
	Metadata Metadata
}

// Dir returns the on-disk directory a map named name lives in, rooted at
// assetsRoot/maps.
func Dir(assetsRoot, name string) string {
	return filepath.Join(assetsRoot, "maps", name+".sc")
}

// Load reads a map's voxels and metadata from dir.
func Load(name, dir string) (*Map, error) {
	vx, err := loadVoxels(filepath.Join(dir, VoxelFile))
	if err != nil {
		return nil, fmt.Errorf("mapfile: load voxels: %w", err)
	}
	md, err := loadMetadata(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("mapfile: load metadata: %w", err)
	}
	return &Map{Name: name, Voxels: vx, Metadata: md}, nil
}

// Save writes m's voxels and metadata into dir, creating it if necessary.
func (m *Map) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mapfile: mkdir %s: %w", dir, err)
	}
	if err := saveVoxels(m.Voxels, filepath.Join(dir, VoxelFile)); err != nil {
		return fmt.Errorf("mapfile: save voxels: %w", err)
	}
	if err := saveMetadata(m.Metadata, filepath.Join(dir, MetadataFile)); err != nil {
		return fmt.Errorf("mapfile: save metadata: %w", err)
	}
	return nil
}

func loadMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()
	var md Metadata
	if err := json.NewDecoder(f).Decode(&md); err != nil {
		return Metadata{}, err
	}
	return md, nil
}

func saveMetadata(md Metadata, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(md)
}

// LightmapFile names the PNG a cell's baked lightmap is persisted to,
// matching the hex-coordinate naming scheme of the format this was
// distilled from.
func LightmapFile(dir string, cellPos voxel.IVec3) string {
	return filepath.Join(dir, fmt.Sprintf("lm_%04x_%04x_%04x.png", uint16(cellPos.X), uint16(cellPos.Y), uint16(cellPos.Z)))
}

// SaveLightmap satisfies bakery.SaveLightmap: it writes a baked cell's
// lightmap image to its conventional path under dir.
func SaveLightmap(dir string) func(pos voxel.IVec3, cell *bake.CellBuffer) error {
	return func(pos voxel.IVec3, cell *bake.CellBuffer) error {
		return savePNG(LightmapFile(dir, pos), cell.Lightmap)
	}
}

// gzipLevel trades a little compression ratio for bake/save turnaround;
// voxel cell dumps are mostly large runs of identical bytes regardless of
// level, so there is little to gain from max compression.
const gzipLevel = gzip.DefaultCompression

func newGzipWriter(w *os.File) (*gzip.Writer, error) {
	return gzip.NewWriterLevel(w, gzipLevel)
}
