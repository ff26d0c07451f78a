package bake

import "image"

// Size of baked lightmap textures, one per voxel cell.
const LightmapSize = 512

// Lightmap is a square float-color raster accumulated during baking and
// finally converted to an 8-bit image for upload/storage.
type Lightmap struct {
	Size int
	pix  []Color
}

func NewLightmap(size int) *Lightmap {
	return &Lightmap{Size: size, pix: make([]Color, size*size)}
}

func (lm *Lightmap) index(x, y int) int { return y*lm.Size + x }

func (lm *Lightmap) At(x, y int) Color {
	if x < 0 || y < 0 || x >= lm.Size || y >= lm.Size {
		return Black
	}
	return lm.pix[lm.index(x, y)]
}

func (lm *Lightmap) Set(x, y int, c Color) {
	lm.pix[lm.index(x, y)] = c
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToImage converts the accumulated float color buffer to an 8-bit RGBA
// image suitable for PNG encoding.
func (lm *Lightmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, lm.Size, lm.Size))
	for y := 0; y < lm.Size; y++ {
		for x := 0; x < lm.Size; x++ {
			c := lm.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = byte(clamp01(c.R) * 255)
			img.Pix[i+1] = byte(clamp01(c.G) * 255)
			img.Pix[i+2] = byte(clamp01(c.B) * 255)
			img.Pix[i+3] = 255
		}
	}
	return img
}

// AddBorders fills every never-painted (pure black) texel with the average
// of its painted 8-neighbors. Triangles viewed from far away at grazing
// incidence sample slightly outside their island due to round-off, and
// without this pass that reads back the unpainted border color, producing
// visible seams.
func AddBorders(src *Lightmap) *Lightmap {
	dst := NewLightmap(src.Size)
	copy(dst.pix, src.pix)

	for y := 0; y < src.Size; y++ {
		for x := 0; x < src.Size; x++ {
			if src.At(x, y) != Black {
				continue
			}
			var acc Color
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					px, py := x+dx, y+dy
					if px < 0 || py < 0 || px >= src.Size || py >= src.Size {
						continue
					}
					c := src.At(px, py)
					if c != Black {
						acc = acc.Add(c)
						n++
					}
				}
			}
			if n > 0 {
				dst.Set(x, y, acc.Scale(1/float32(n)))
			}
		}
	}
	return dst
}
