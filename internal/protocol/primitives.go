package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// All multi-byte values are little-endian; variable-length data (strings,
// byte blobs) is preceded by a uint32 length. This mirrors spec.md §6.1's
// framing choice and is exercised the same way by every hand-rolled codec
// in the retrieval pack's networked examples.

func writeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func readU8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func writeBool(w io.Writer, v bool) error {
	if v {
		return writeU8(w, 1)
	}
	return writeU8(w, 0)
}

func readBool(r io.Reader) (bool, error) {
	b, err := readU8(r)
	return b != 0, err
}

func writeU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeU64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func writeI32(w io.Writer, v int32) error { return writeU32(w, uint32(v)) }
func readI32(r io.Reader) (int32, error) {
	v, err := readU32(r)
	return int32(v), err
}

func writeF32(w io.Writer, v float32) error {
	return writeU32(w, math.Float32bits(v))
}

func readF32(r io.Reader) (float32, error) {
	v, err := readU32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func writeString(w io.Writer, s string) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

const maxStringLen = 1 << 20

func readString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("protocol: string length %d exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeVec3(w io.Writer, v mgl32.Vec3) error {
	if err := writeF32(w, v.X()); err != nil {
		return err
	}
	if err := writeF32(w, v.Y()); err != nil {
		return err
	}
	return writeF32(w, v.Z())
}

func readVec3(r io.Reader) (mgl32.Vec3, error) {
	x, err := readF32(r)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	y, err := readF32(r)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	z, err := readF32(r)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{x, y, z}, nil
}

// writeOptionalF32 writes a presence flag followed by the value if present.
func writeOptionalF32(w io.Writer, v *float32) error {
	if v == nil {
		return writeBool(w, false)
	}
	if err := writeBool(w, true); err != nil {
		return err
	}
	return writeF32(w, *v)
}

func readOptionalF32(r io.Reader) (*float32, error) {
	present, err := readBool(r)
	if err != nil || !present {
		return nil, err
	}
	v, err := readF32(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
