package mapfile

import (
	"image/png"
	"os"

	"github.com/scathanna-go/scathanna/internal/bake"
)

func savePNG(path string, lm *bake.Lightmap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, lm.ToImage())
}
