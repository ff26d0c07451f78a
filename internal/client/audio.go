package client

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/physics"
	"github.com/scathanna-go/scathanna/internal/voxel"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

// nearFieldDistance is the radius within which a sound plays monaurally
// rather than panned: close enough that azimuth stops being meaningful.
// referenceDistance is the distance at which a sound's nominal volume is
// heard unattenuated; falloff beyond it follows an inverse-square law.
// Both are a fixed 8 world units.
const (
	nearFieldDistance = 8.0
	referenceDistance = 8.0
	obstructedMuffle  = 0.3
)

// Sound is what gets handed to whatever plays audio: a clip name, a pan
// angle (0 = straight ahead, positive = to the listener's left, unused
// when Monaural), and a playback volume already clamped to [0,1].
type Sound struct {
	ClipName string
	Monaural bool
	Azimuth  float32
	Volume   float32
}

// Sink is the audio back end's entry point; the client core never touches
// an actual device or mixing library, matching the rendering split (no
// audio codec/output library appears anywhere in the retrieval pack).
type Sink interface {
	Play(Sound)
}

// locate converts a SoundEffect into a Sound relative to a listener at ear,
// facing f, against world for the obstruction check. Non-spatial sounds
// (announcer lines, etc.) pass through unchanged but for volume clamping.
func locate(s worldstate.SoundEffect, world *worldstate.World, ear mgl32.Vec3, orientation physics.Orientation) Sound {
	if !s.Spatial {
		return Sound{ClipName: s.ClipName, Monaural: true, Volume: clampF(s.Volume, 0, 1)}
	}

	delta := s.Location.Sub(ear)
	dist := delta.Len()
	if dist < nearFieldDistance {
		return Sound{ClipName: s.ClipName, Monaural: true, Volume: clampF(s.Volume, 0, 1)}
	}

	f := orientation.LookDir()
	f = mgl32.Vec3{f.X(), 0, f.Z()}.Normalize()
	d := mgl32.Vec3{delta.X(), 0, delta.Z()}.Normalize()

	sin := f.Cross(d).Y()
	cos := f.Dot(d)
	azimuth := float32(math.Atan2(float64(sin), float64(cos)))

	volume := s.Volume * (referenceDistance * referenceDistance) / (dist * dist)
	volume = clampF(volume, 0, 1)

	ray := voxel.Ray{Origin: ear, Direction: delta.Normalize()}
	if world.Map.Voxels.Occluded(ray, dist) {
		volume *= obstructedMuffle
	}

	return Sound{ClipName: s.ClipName, Azimuth: azimuth, Volume: volume}
}
