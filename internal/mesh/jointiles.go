package mesh

import "github.com/scathanna-go/scathanna/internal/voxel"

// JoinSquares fuses adjacent same-axis square faces within one cell into
// fewer, larger rectangles: first merging horizontally adjacent tiles, then
// same-length vertically adjacent strips. squares must all lie within one
// CellSize-aligned cell at cellPos.
func JoinSquares(squares []voxel.Rectangle, cellPos voxel.IVec3) []voxel.Rectangle {
	var buf tileBuffer
	for _, s := range squares {
		if s.W != s.H {
			panic("mesh: JoinSquares requires square input tiles")
		}
		buf.pushSquare(s.Position.Sub(cellPos), s.Direction, s.W)
	}
	return buf.join(cellPos)
}

type tile struct {
	u, v int32
	size int32
}

// tileBuffer groups square tiles by axis and side, then by position along
// the face normal, so that tiles in the same plane can be rasterized and
// merged together.
type tileBuffer struct {
	// tiles[axis][side][normalPos] is the set of tiles in that plane.
	tiles [3][2]map[int32][]tile
}

func component(v voxel.IVec3, axis int) int32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (b *tileBuffer) pushSquare(pos voxel.IVec3, dir voxel.Direction, size int32) {
	axis := dir.Axis()
	side := dir.Side()
	tangents := dir.Tangents()
	u := component(pos, tangents[0].Axis())
	v := component(pos, tangents[1].Axis())
	normal := component(pos, axis)

	if b.tiles[axis][side] == nil {
		b.tiles[axis][side] = make(map[int32][]tile)
	}
	b.tiles[axis][side][normal] = append(b.tiles[axis][side][normal], tile{u, v, size})
}

func (b *tileBuffer) join(posOffset voxel.IVec3) []voxel.Rectangle {
	var out []voxel.Rectangle
	for _, dir := range voxel.AllDirections {
		axis := dir.Axis()
		side := dir.Side()
		for normalPos, tiles := range b.tiles[axis][side] {
			buildPlane(&out, tiles, normalPos, dir, posOffset)
		}
	}
	return out
}

type size2D struct{ w, h int32 }

func buildPlane(out *[]voxel.Rectangle, plane []tile, normalPos int32, dir voxel.Direction, posOffset voxel.IVec3) {
	grid := rasterizeTo1x1(plane)
	mergeHorizontal(grid)
	mergeVertical(grid)

	axis := dir.Axis()
	tangents := dir.Tangents()
	for iv, row := range grid {
		for iu, sz := range row {
			if sz.w == 0 || sz.h == 0 {
				continue
			}
			pos := voxel.IVec3{}
			pos = setComponent(pos, tangents[0].Axis(), int32(iu))
			pos = setComponent(pos, tangents[1].Axis(), int32(iv))
			pos = setComponent(pos, axis, normalPos)
			pos = pos.Add(posOffset)
			*out = append(*out, voxel.Rectangle{
				Position:  pos,
				W:         sz.w,
				H:         sz.h,
				Direction: dir,
			})
		}
	}
}

func setComponent(v voxel.IVec3, axis int, val int32) voxel.IVec3 {
	switch axis {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

func rasterizeTo1x1(plane []tile) [][]size2D {
	grid := make([][]size2D, voxel.CellSize)
	for i := range grid {
		grid[i] = make([]size2D, voxel.CellSize)
	}
	for _, t := range plane {
		for dv := int32(0); dv < t.size; dv++ {
			for du := int32(0); du < t.size; du++ {
				iu := t.u + du
				iv := t.v + dv
				grid[iv][iu] = size2D{1, 1}
			}
		}
	}
	return grid
}

// mergeHorizontal fuses runs of adjacent 1x1 tiles along each row into
// single-row strips.
func mergeHorizontal(grid [][]size2D) {
	for iv := range grid {
		runStart := -1
		for iu := 0; iu < len(grid[iv]); iu++ {
			switch grid[iv][iu] {
			case size2D{0, 0}:
				runStart = -1
			case size2D{1, 1}:
				if runStart < 0 {
					runStart = iu
				} else {
					grid[iv][runStart].w++
					grid[iv][iu] = size2D{0, 0}
				}
			}
		}
	}
}

// mergeVertical fuses vertically stacked strips of equal width into larger
// rectangles.
func mergeVertical(grid [][]size2D) {
	width := len(grid[0])
	for iu := 0; iu < width; iu++ {
		runStart := -1
		for iv := 0; iv < len(grid); iv++ {
			sz := grid[iv][iu]
			if sz.h == 0 {
				runStart = -1
				continue
			}
			if sz.h != 1 {
				// A tile taller than 1 here would mean a prior vertical
				// merge already claimed this column; skip.
				runStart = -1
				continue
			}
			if runStart < 0 {
				runStart = iv
				continue
			}
			if sz.w == grid[runStart][iu].w {
				grid[runStart][iu].h++
				grid[iv][iu] = size2D{0, 0}
			} else {
				runStart = iv
			}
		}
	}
}
