// Command mapconvert voxelizes a Wavefront OBJ mesh into a playable map
// directory, the Go stand-in for the original obj2map tool.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/scathanna-go/scathanna/internal/mapconvert"
)

func main() {
	size := flag.Int("size", 256, "map size, in voxels, along each axis")
	outDir := flag.String("out", "", "output map directory (default: <obj file>.sc next to the source file)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mapconvert [-size N] [-out dir] <mesh.obj>")
		os.Exit(1)
	}
	objPath := flag.Arg(0)

	if err := run(objPath, *outDir, int32(*size)); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

func run(objPath, outDir string, size int32) error {
	f, err := os.Open(objPath)
	if err != nil {
		return fmt.Errorf("mapconvert: %w", err)
	}
	defer f.Close()

	mesh, err := mapconvert.ParseOBJ(f)
	if err != nil {
		return fmt.Errorf("mapconvert: %w", err)
	}
	log.Printf("mapconvert: %d vertices", len(mesh.Vertices))

	name := strings.TrimSuffix(filepath.Base(objPath), filepath.Ext(objPath))
	m, err := mapconvert.Convert(mesh, name, size)
	if err != nil {
		return fmt.Errorf("mapconvert: %w", err)
	}

	if outDir == "" {
		outDir = filepath.Join(filepath.Dir(objPath), name+".sc")
	}
	if err := m.Save(outDir); err != nil {
		return fmt.Errorf("mapconvert: save %s: %w", outDir, err)
	}

	log.Printf("mapconvert: wrote %s", outDir)
	return nil
}
