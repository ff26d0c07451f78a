// Package assets locates texture and mesh files on disk and decodes
// textures through a narrow Decoder interface, so the image codec stays a
// swappable external concern. A missing or corrupt texture never aborts
// the caller: it's logged and replaced by a synthesized solid-color
// fallback.
package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
)

// textureExtensions is the fixed search order tried for every texture name;
// names are given without an extension.
var textureExtensions = []string{"png", "jpg", "jpeg"}

// Decoder decodes one image format. image/png and image/jpeg both satisfy
// this via their package-level Decode functions.
type Decoder interface {
	Decode(r io.Reader) (image.Image, error)
}

type decoderFunc func(io.Reader) (image.Image, error)

func (f decoderFunc) Decode(r io.Reader) (image.Image, error) { return f(r) }

var decodersByExt = map[string]Decoder{
	"png":  decoderFunc(png.Decode),
	"jpg":  decoderFunc(jpeg.Decode),
	"jpeg": decoderFunc(jpeg.Decode),
}

// Root is a directory to resolve asset names against: the executable's own
// directory, falling back to the current working directory, matching a
// player launching the binary from an arbitrary shell location.
type Root struct {
	dir string
}

// DefaultRoot resolves the root next to the running executable, or the
// current directory if the executable's path can't be determined.
func DefaultRoot() Root {
	if exe, err := os.Executable(); err == nil {
		return Root{dir: filepath.Dir(exe)}
	}
	if wd, err := os.Getwd(); err == nil {
		return Root{dir: wd}
	}
	return Root{dir: "."}
}

// NewRoot builds a Root rooted explicitly at dir, for tests and for a
// client pointed at an assets directory via config/flag.
func NewRoot(dir string) Root { return Root{dir: dir} }

// ResolveTexture finds name (without extension) under r using the fixed
// png/jpg/jpeg search order, returning the first existing path.
func (r Root) ResolveTexture(name string) (string, bool) {
	for _, ext := range textureExtensions {
		path := filepath.Join(r.dir, name+"."+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// ResolveMesh finds an OBJ mesh file by name under r. Parsing the OBJ
// format itself is left to whatever mesh loader the renderer brings; this
// only locates the file.
func (r Root) ResolveMesh(name string) (string, bool) {
	path := filepath.Join(r.dir, name+".obj")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// LoadTexture decodes the texture named name, falling back to a 2x2
// solid-color image and a logged warning if the file is missing or fails
// to decode, per the "asset load failure at runtime" handling policy.
func (r Root) LoadTexture(name string) image.Image {
	path, ok := r.ResolveTexture(name)
	if !ok {
		log.Printf("assets: texture %q not found under %s, using fallback", name, r.dir)
		return fallbackTexture()
	}

	img, err := decodeFile(path)
	if err != nil {
		log.Printf("assets: decode texture %q: %v, using fallback", path, err)
		return fallbackTexture()
	}
	return img
}

func decodeFile(path string) (image.Image, error) {
	ext := filepath.Ext(path)
	if len(ext) > 0 {
		ext = ext[1:]
	}
	dec, ok := decodersByExt[ext]
	if !ok {
		return nil, fmt.Errorf("no decoder registered for extension %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return dec.Decode(f)
}

// fallbackTexture synthesizes a 2x2 solid magenta image, the conventional
// "missing texture" color: loud enough on screen to notice, never mistaken
// for an intentional asset.
func fallbackTexture() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	fallback := color.RGBA{R: 255, G: 0, B: 255, A: 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, fallback)
		}
	}
	return img
}
