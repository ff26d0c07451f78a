package mapfile

import (
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

func loadVoxels(path string) (*voxel.Voxels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	return voxel.ReadVoxels(gz)
}

func saveVoxels(vx *voxel.Voxels, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := newGzipWriter(f)
	if err != nil {
		return err
	}
	if _, err := vx.WriteTo(gz); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}
