package client

// Key identifies a logical game action, already mapped from whatever
// physical key or button produced it. Mapping physical keys onto these
// values is the concern of whatever front end drives InputState; this
// package only ever sees the logical form.
type Key uint8

const (
	KeyLeft Key = iota
	KeyRight
	KeyForward
	KeyBackward
	KeyJump
	KeyCrouch
	KeySprint
	KeyMouse1

	NumKeys
)
