package bake

// Color is a linear RGB light value; components are not clamped to [0,1]
// during accumulation so that HDR-ish directional+ambient sums stay exact
// until the image is finally written out.
type Color struct {
	R, G, B float32
}

var (
	White = Color{1, 1, 1}
	Black = Color{0, 0, 0}
)

func Gray(l float32) Color { return Color{l, l, l} }

func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}
