package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orientation is a camera/player facing: yaw around the vertical axis and
// pitch above/below the horizon, both in radians.
type Orientation struct {
	Yaw, Pitch float32
}

// LookDir is the unit vector a viewer with this orientation is facing.
func (o Orientation) LookDir() mgl32.Vec3 {
	cp := float32(math.Cos(float64(o.Pitch)))
	return mgl32.Vec3{
		-float32(math.Sin(float64(o.Yaw))) * cp,
		float32(math.Sin(float64(o.Pitch))),
		-float32(math.Cos(float64(o.Yaw))) * cp,
	}
}

// LookRight is the unit vector pointing to the viewer's right, in the
// horizontal plane.
func (o Orientation) LookRight() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Cos(float64(o.Yaw))),
		0,
		-float32(math.Sin(float64(o.Yaw))),
	}
}

// Frame is the subset of a Skeleton that is synced over the wire each tick:
// position, velocity, and facing, without hsize/vsize (those never change
// after construction).
type Frame struct {
	Position    mgl32.Vec3
	Velocity    mgl32.Vec3
	Orientation Orientation
}
