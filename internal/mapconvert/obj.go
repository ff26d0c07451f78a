// Package mapconvert turns a Wavefront OBJ mesh into a playable Map:
// voxelizing its triangles, flood-filling the enclosed interior solid, and
// packing the result into a mapfile.Map. This is the stand-in for the
// original obj2map tool; the OBJ format itself is parsed here rather than
// through a library, since no such parser appears anywhere in the example
// pack (spec.md's "OBJ mesh loader" external-collaborator note describes
// the renderer's loader, not this offline conversion step).
package mapconvert

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// group is every triangle using one material, tagged with the voxel kind
// that material converts to.
type group struct {
	voxel     uint8
	triangles [][3]int // indices into Mesh.Vertices
}

// Mesh is the subset of an OBJ file this converter needs: vertex positions
// and triangles grouped by material.
type Mesh struct {
	Vertices []mgl32.Vec3
	groups   []group
}

// ParseOBJ reads vertex positions and triangulated faces from r. Only `v`,
// `f`, and `usemtl` lines are understood; faces with more than 3 vertices
// are fan-triangulated around their first vertex, matching how most OBJ
// exporters emit convex polygons.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	currentVoxel := uint8(1)
	haveGroup := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("mapconvert: parse vertex: %w", err)
			}
			m.Vertices = append(m.Vertices, v)

		case "usemtl":
			currentVoxel = materialVoxel(fields[1])
			haveGroup = false

		case "f":
			idx, err := parseFaceIndices(fields[1:], len(m.Vertices))
			if err != nil {
				return nil, fmt.Errorf("mapconvert: parse face: %w", err)
			}
			if !haveGroup {
				m.groups = append(m.groups, group{voxel: currentVoxel})
				haveGroup = true
			}
			g := &m.groups[len(m.groups)-1]
			for i := 1; i+1 < len(idx); i++ {
				g.triangles = append(g.triangles, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mapconvert: read obj: %w", err)
	}
	return m, nil
}

func parseVertex(fields []string) (mgl32.Vec3, error) {
	if len(fields) < 3 {
		return mgl32.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseFaceIndices parses the vertex-index component of each "f" field
// (ignoring any "/vt/vn" suffix), converting OBJ's 1-based indices (or
// negative, relative-to-end indices) to 0-based ones.
func parseFaceIndices(fields []string, vertexCount int) ([]int, error) {
	idx := make([]int, len(fields))
	for i, f := range fields {
		f = strings.SplitN(f, "/", 2)[0]
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n = vertexCount + n
		} else {
			n--
		}
		idx[i] = n
	}
	return idx, nil
}

// materialVoxel derives a voxel kind from a material name, following the
// original's convention of reading a trailing number (e.g. "wall.3" -> 3,
// "grass" -> 1).
func materialVoxel(name string) uint8 {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		if n, err := strconv.Atoi(name[i+1:]); err == nil && n > 0 && n < 256 {
			return uint8(n)
		}
	}
	return 1
}
