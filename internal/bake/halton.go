package bake

import "math"

// Halton returns the i'th element (i starting from 0) of the Halton
// low-discrepancy sequence with base b (b must be >= 2).
func Halton(b, i uint32) float32 {
	n := i + 1 // the series itself starts from 1
	bf := float32(b)
	f := float32(1.0)
	r := float32(0.0)
	for n > 0 {
		f = f / bf
		r = r + f*float32(n%b)
		n = uint32(math.Floor(float64(n) / float64(b)))
	}
	return r
}

// Halton23 returns the i'th point of the (base 2, base 3) Halton sequence,
// the standard low-discrepancy sequence for 2D sample placement.
func Halton23(i uint32) (u, v float32) {
	return Halton(2, i), Halton(3, i)
}

// Halton23Scrambled shifts Halton23 by a per-pixel random offset (Cranley-
// Patterson rotation) so that neighboring texels don't share correlated
// sample patterns.
func Halton23Scrambled(i uint32, shiftU, shiftV float32) (u, v float32) {
	bu, bv := Halton23(i)
	return wrap01(bu + shiftU), wrap01(bv + shiftV)
}

func wrap01(x float32) float32 {
	y := float32(math.Mod(float64(x), 1.0))
	if y < 0 {
		y += 1
	}
	return y
}
