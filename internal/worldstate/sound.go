package worldstate

import "github.com/go-gl/mathgl/mgl32"

// SoundEffect names a clip to play client-side, optionally anchored to a
// world position for spatialization.
type SoundEffect struct {
	ClipName string
	Volume   float32
	Spatial  bool
	Location mgl32.Vec3
}

// RawSound plays a clip with no spatial positioning (e.g. an announcer
// voice, always at full presence regardless of listener position).
func RawSound(clipName string) SoundEffect {
	return SoundEffect{ClipName: clipName, Volume: 1.0}
}

// SpatialSound plays a clip anchored at location, attenuated and panned by
// the listener's position and facing.
func SpatialSound(clipName string, location mgl32.Vec3, volume float32) SoundEffect {
	return SoundEffect{ClipName: clipName, Volume: volume, Spatial: true, Location: location}
}
