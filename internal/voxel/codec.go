package voxel

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Binary layout: uint32 cell count, then per cell: 3x int32 origin followed
// by the cell's octree node. A node is one tag byte — 0 for Uniform
// (followed by one Voxel byte), 1 for Composite (followed by its eight
// children in octant order) — recursively.

func writeI32(w io.Writer, v int32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readI32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func (n Node) encode(w io.Writer) error {
	if n.uniform {
		if _, err := w.Write([]byte{0, byte(n.voxel)}); err != nil {
			return err
		}
		return nil
	}
	if _, err := w.Write([]byte{1}); err != nil {
		return err
	}
	for i := range n.children {
		if err := n.children[i].encode(w); err != nil {
			return err
		}
	}
	return nil
}

func decodeNode(r io.Reader) (Node, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return Node{}, err
	}
	switch tag[0] {
	case 0:
		var v [1]byte
		if _, err := io.ReadFull(r, v[:]); err != nil {
			return Node{}, err
		}
		return NewUniform(Voxel(v[0])), nil
	case 1:
		var children [8]Node
		for i := range children {
			c, err := decodeNode(r)
			if err != nil {
				return Node{}, err
			}
			children[i] = c
		}
		return newComposite(children), nil
	default:
		return Node{}, fmt.Errorf("voxel: invalid node tag %d", tag[0])
	}
}

// WriteTo serializes the whole sparse cell map.
func (vx *Voxels) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	origins := vx.CellOrigins()
	if err := binary.Write(cw, binary.LittleEndian, uint32(len(origins))); err != nil {
		return cw.n, err
	}
	for _, origin := range origins {
		if err := writeI32(cw, origin.X); err != nil {
			return cw.n, err
		}
		if err := writeI32(cw, origin.Y); err != nil {
			return cw.n, err
		}
		if err := writeI32(cw, origin.Z); err != nil {
			return cw.n, err
		}
		if err := vx.cellAt(origin).encode(cw); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

// ReadVoxels deserializes a cell map previously written by WriteTo.
func ReadVoxels(r io.Reader) (*Voxels, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	vx := NewVoxels()
	for i := uint32(0); i < count; i++ {
		x, err := readI32(r)
		if err != nil {
			return nil, err
		}
		y, err := readI32(r)
		if err != nil {
			return nil, err
		}
		z, err := readI32(r)
		if err != nil {
			return nil, err
		}
		node, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		vx.SetCellRoot(IVec3{x, y, z}, node)
	}
	return vx, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
