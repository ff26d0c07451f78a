package client

import "testing"

func TestInputStateKeyTappedBetweenTicksIsStillDownForThatTick(t *testing.T) {
	var in InputState
	in.RecordKey(KeyJump, true)
	in.RecordKey(KeyJump, false)

	if !in.IsDown(KeyJump) {
		t.Error("expected a press+release within one tick to still read as down")
	}
	if !in.IsPressed(KeyJump) {
		t.Error("expected IsPressed to report the press edge")
	}
	if !in.IsReleased(KeyJump) {
		t.Error("expected IsReleased to report the release edge")
	}
}

func TestInputStateClearDropsDownAfterRelease(t *testing.T) {
	var in InputState
	in.RecordKey(KeyJump, true)
	in.RecordKey(KeyJump, false)
	in.Clear()

	if in.IsDown(KeyJump) {
		t.Error("expected Clear to drop down state for a key released during the tick")
	}
	if in.IsPressed(KeyJump) || in.IsReleased(KeyJump) {
		t.Error("expected Clear to reset the press/release edges")
	}
}

func TestInputStateClearKeepsStillHeldKeyDown(t *testing.T) {
	var in InputState
	in.RecordKey(KeyForward, true)
	in.Clear()

	if !in.IsDown(KeyForward) {
		t.Error("expected a key never released to remain down across Clear")
	}
}

func TestInputStateMouseYawWraps(t *testing.T) {
	var in InputState
	in.RecordMouse(-100, 0)
	if yaw := in.MouseYaw(); yaw < -3.2 || yaw > 3.2 {
		t.Errorf("MouseYaw() = %v, want within [-pi, pi]", yaw)
	}
}

func TestInputStateMousePitchClamped(t *testing.T) {
	var in InputState
	in.RecordMouse(0, 100)
	if pitch := in.MousePitch(); pitch > 1.58 {
		t.Errorf("MousePitch() = %v, want clamped near pi/2", pitch)
	}
}
