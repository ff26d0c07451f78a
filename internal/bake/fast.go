package bake

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

// SunDirection is the fixed directional-light vector used by both bake
// modes.
var SunDirection = mgl32.Vec3{0.304855380424846, 0.609710760849692, 0.731652913019631}

func directionVecF(d voxel.Direction) mgl32.Vec3 {
	n := d.Normal()
	return mgl32.Vec3{float32(n.X), float32(n.Y), float32(n.Z)}
}

func tangentVecsF(d voxel.Direction) (mgl32.Vec3, mgl32.Vec3) {
	t := d.Tangents()
	return directionVecF(t[0]), directionVecF(t[1])
}

// BakePointFast estimates a single texel's light with four cheap queries:
// a 4-sample staggered direct-sunlight probe and a 4-corner ambient
// occlusion estimate blended with a fake sky tint. No rays are traced
// beyond the four sun-visibility probes, so this mode is cheap enough to
// run on every edit.
func BakePointFast(vx *voxel.Voxels, pos voxel.IVec3, dir voxel.Direction) Color {
	posF := mgl32.Vec3{float32(pos.X), float32(pos.Y), float32(pos.Z)}
	sun := staggeredProbe(vx, posF, dir)
	amb := simpleOcclusion(vx, pos, dir) * fakeOrientedAmbient(dir)
	const ambFrac = 0.3
	l := (1-ambFrac)*sun + ambFrac*amb
	return Gray(l)
}

// staggeredProbe averages directSunlightPoint over four sub-texel offsets,
// giving a cheap poor-man's antialiasing of the sun term along the face's
// two tangent directions.
func staggeredProbe(vx *voxel.Voxels, pos mgl32.Vec3, dir voxel.Direction) float32 {
	u, v := tangentVecsF(dir)
	offsets := [4][2]float32{{-0.5, -0.5}, {-0.5, 0.5}, {0.5, -0.5}, {0.5, 0.5}}
	var acc float32
	for _, o := range offsets {
		probe := pos.Add(u.Mul(o[0])).Add(v.Mul(o[1]))
		acc += directSunlightPoint(vx, probe, dir)
	}
	return acc * 0.25
}

// directSunlightPoint returns 0 if the surface faces away from the sun or
// is shadowed, else the cosine-falloff intensity.
func directSunlightPoint(vx *voxel.Voxels, pos mgl32.Vec3, dir voxel.Direction) float32 {
	normal := directionVecF(dir)
	cosTheta := normal.Dot(SunDirection)
	if cosTheta <= 0 {
		return 0
	}
	ray := voxel.Ray{Origin: pos.Add(SunDirection.Mul(0.01)), Direction: SunDirection}
	if vx.Occluded(ray, 1000) {
		return 0
	}
	if cosTheta > 1 {
		return 1
	}
	return cosTheta
}

// simpleOcclusion sums occlusion over the four voxel corners adjoining this
// face, giving cheap per-texel ambient occlusion without any ray tracing.
func simpleOcclusion(vx *voxel.Voxels, pos voxel.IVec3, dir voxel.Direction) float32 {
	tangents := dir.Tangents()
	tan0, tan1 := tangents[0].Normal(), tangents[1].Normal()

	var n voxel.IVec3
	if dir.Side() == 0 {
		n = dir.Normal()
	}

	probes := [4]voxel.IVec3{
		n.Add(pos),
		n.Add(pos).Sub(tan0),
		n.Add(pos).Sub(tan1),
		n.Add(pos).Sub(tan0).Sub(tan1),
	}

	ambient := float32(-0.2)
	for _, p := range probes {
		if vx.At(p).IsEmpty() {
			ambient += 0.25
		}
	}
	return ambient
}

func fakeOrientedAmbient(dir voxel.Direction) float32 {
	return 0.5 * (1 + directionVecF(dir).Dot(SunDirection))
}

// previewDownsampleStep is the stride in texels between direct BakePointFast
// probes in preview mode; the gaps are filled in by a bilinear upscale.
const previewDownsampleStep = 4

// bakePreviewIsland evaluates BakePointFast on a quarter-resolution grid and
// upsamples with golang.org/x/image/draw's BiLinear kernel, trading a
// blurred result for a 16x reduction in point samples — cheap enough to
// re-bake on every edit while the player is editing the world live.
func bakePreviewIsland(vx *voxel.Voxels, rect voxel.Rectangle) *image.RGBA64 {
	tangents := rect.Direction.Tangents()
	tanU, tanV := tangents[0].Normal(), tangents[1].Normal()

	step := int32(previewDownsampleStep)
	lowW := int(rect.W/step) + 2
	lowH := int(rect.H/step) + 2
	low := image.NewRGBA64(image.Rect(0, 0, lowW, lowH))
	for ly := 0; ly < lowH; ly++ {
		dy := int32(ly) * step
		if dy > rect.H {
			dy = rect.H
		}
		for lx := 0; lx < lowW; lx++ {
			dx := int32(lx) * step
			if dx > rect.W {
				dx = rect.W
			}
			worldPos := rect.Position.Add(tanU.Scale(dx)).Add(tanV.Scale(dy))
			c := BakePointFast(vx, worldPos, rect.Direction)
			low.SetRGBA64(lx, ly, colorToRGBA64(c))
		}
	}

	full := image.NewRGBA64(image.Rect(0, 0, int(rect.W)+1, int(rect.H)+1))
	draw.BiLinear.Scale(full, full.Bounds(), low, low.Bounds(), draw.Src, nil)
	return full
}

func colorToRGBA64(c Color) color.RGBA64 {
	return color.RGBA64{
		R: uint16(clamp01(c.R) * 0xffff),
		G: uint16(clamp01(c.G) * 0xffff),
		B: uint16(clamp01(c.B) * 0xffff),
		A: 0xffff,
	}
}

func rgba64ToColor(c color.RGBA64) Color {
	return Color{
		R: float32(c.R) / 0xffff,
		G: float32(c.G) / 0xffff,
		B: float32(c.B) / 0xffff,
	}
}
