package bake

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/scathanna-go/scathanna/internal/voxel"
)

// sampleRange bounds how many samples integrate takes: at least Min, at
// most Max, stopping early once the running standard error of the mean
// drops below the caller's threshold.
type sampleRange struct{ Min, Max uint32 }

var (
	directRange  = sampleRange{32, 256}
	ambientRange = sampleRange{300, 9000}
)

// BakePointTraced path-traces a single texel: one adaptively-sampled direct
// term (hard sun shadow with a small cone jitter) plus one adaptively-
// sampled ambient term (cosine-hemisphere bounce with one indirect bounce
// off whatever it hits), summed.
func BakePointTraced(rng *rand.Rand, vx *voxel.Voxels, pos voxel.IVec3, dir voxel.Direction) Color {
	posF := mgl32.Vec3{float32(pos.X), float32(pos.Y), float32(pos.Z)}
	direct := integrate(rng, directRange, 0.002, func(i uint32, shiftU, shiftV float32) Color {
		return sampleDirectLight(rng, i, shiftU, shiftV, vx, posF, dir)
	})
	ambient := integrate(rng, ambientRange, 0.002, func(i uint32, shiftU, shiftV float32) Color {
		return sampleAmbientLight(rng, i, shiftU, shiftV, vx, posF, dir)
	})
	return direct.Add(ambient)
}

// integrate averages f over a Halton(2,3) sequence (scrambled by a random
// per-call shift), stopping once r.Min samples have been taken and the
// running standard error of the mean (estimated from sample luminance)
// falls below maxErr, or r.Max samples have been taken, whichever comes
// first.
func integrate(rng *rand.Rand, r sampleRange, maxErr float64, f func(i uint32, shiftU, shiftV float32) Color) Color {
	shiftU, shiftV := rng.Float32(), rng.Float32()

	var sum Color
	var sumLum, sumLumSq float64
	var n uint32
	for ; n < r.Max; n++ {
		c := f(n, shiftU, shiftV)
		sum = sum.Add(c)
		lum := float64(c.R+c.G+c.B) / 3
		sumLum += lum
		sumLumSq += lum * lum

		if n+1 >= r.Min {
			count := float64(n + 1)
			mean := sumLum / count
			variance := sumLumSq/count - mean*mean
			if variance < 0 {
				variance = 0
			}
			stderr := math.Sqrt(variance / count)
			if stderr < maxErr {
				n++
				break
			}
		}
	}
	if n == 0 {
		return Black
	}
	return sum.Scale(1 / float32(n))
}

func buildONB(normal mgl32.Vec3) (tangent, bitangent mgl32.Vec3) {
	var up mgl32.Vec3
	if math.Abs(float64(normal.Z())) < 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	} else {
		up = mgl32.Vec3{1, 0, 0}
	}
	tangent = up.Cross(normal).Normalize()
	bitangent = normal.Cross(tangent)
	return
}

// cosineSphere draws a cosine-weighted direction on the hemisphere around
// normal from two uniform [0,1) samples.
func cosineSphere(r, s float32, normal mgl32.Vec3) mgl32.Vec3 {
	tangent, bitangent := buildONB(normal)
	phi := 2 * math.Pi * float64(r)
	cosTheta := float32(math.Sqrt(1 - float64(s)))
	sinTheta := float32(math.Sqrt(float64(s)))
	local := tangent.Mul(sinTheta * float32(math.Cos(phi))).
		Add(bitangent.Mul(sinTheta * float32(math.Sin(phi)))).
		Add(normal.Mul(cosTheta))
	return local.Normalize()
}

func jitteredPos(rng *rand.Rand, pos mgl32.Vec3, dir voxel.Direction) mgl32.Vec3 {
	u, v := tangentVecsF(dir)
	du := rng.Float32() - 0.5
	dv := rng.Float32() - 0.5
	return pos.Add(u.Mul(du)).Add(v.Mul(dv))
}

func sampleDirectLight(rng *rand.Rand, i uint32, shiftU, shiftV float32, vx *voxel.Voxels, pos mgl32.Vec3, dir voxel.Direction) Color {
	jittered := jitteredPos(rng, pos, dir)
	normal := directionVecF(dir)

	r, s := Halton23Scrambled(i, shiftU, shiftV)
	coneJitter := cosineSphere(r, s, normal).Mul(0.04)
	sampleDir := SunDirection.Add(coneJitter).Normalize()

	ray := voxel.Ray{Origin: jittered.Add(sampleDir.Mul(0.01)), Direction: sampleDir}
	if vx.Occluded(ray, 1000) {
		return Black
	}
	cos := normal.Dot(SunDirection)
	if cos < 0 {
		cos = 0
	}
	return Color{1.0, 0.98, 0.9}.Scale(cos)
}

func sampleAmbientLight(rng *rand.Rand, i uint32, shiftU, shiftV float32, vx *voxel.Voxels, pos mgl32.Vec3, dir voxel.Direction) Color {
	jittered := jitteredPos(rng, pos, dir)
	normal := directionVecF(dir)

	r, s := Halton23Scrambled(i, shiftU, shiftV)
	sampleDir := cosineSphere(r, s, normal)
	ray := voxel.Ray{Origin: jittered.Add(sampleDir.Mul(0.01)), Direction: sampleDir}

	v, t, hit := vx.March(ray, 64)
	if !hit {
		return Color{0.85, 0.85, 1.0} // sky
	}
	switch v {
	case voxel.Lava:
		return Color{1.0, 0.2, 0.2}
	}
	hitPos := ray.Origin.Add(sampleDir.Mul(t - 0.01))
	secondary := directSunlightPoint(vx, hitPos, dir)
	spatialOcclusion := float32(1)
	if x := (t / 32); x*x < 1 {
		spatialOcclusion = x * x
	}
	return White.Scale(0.5*secondary + 0.03*spatialOcclusion)
}
