// Package ui holds the client's on-screen display state: score line, a
// transient center message, and a scrolling log. Pure data and tick logic —
// actual drawing is the renderer's concern, kept outside this package.
package ui

// Time-to-live, in seconds, for the centered "you killed..." message and
// for each line pushed to the scrolling log.
const (
	MessageTTL float32 = 4.0
	LogTTL     float32 = 4.0

	maxLogMessages = 8
)

// HUD is the client's heads-up display model.
type HUD struct {
	TopLeft string

	message    string
	messageTTL float32

	log    []string
	logTTL float32
}

// HUDUpdateKind distinguishes the three update variants broadcast over the
// wire (spec.md §6.1 UpdateHUD).
type HUDUpdateKind uint8

const (
	HUDMessage HUDUpdateKind = iota
	HUDLog
	HUDScore
)

// HUDUpdate is a single wire-carried instruction to the client's HUD.
type HUDUpdate struct {
	Kind HUDUpdateKind
	Text string
}

// Apply dispatches an incoming HUDUpdate to the matching mutator.
func (h *HUD) Apply(u HUDUpdate) {
	switch u.Kind {
	case HUDMessage:
		h.Show(u.Text)
	case HUDLog:
		h.Log(u.Text)
	case HUDScore:
		h.TopLeft = u.Text
	}
}

// Show sets the centered transient message, resetting its countdown.
func (h *HUD) Show(message string) {
	h.message = message
	h.messageTTL = MessageTTL
}

// Log appends a line to the scrolling log, evicting the oldest line once
// the log exceeds its cap.
func (h *HUD) Log(message string) {
	h.log = append(h.log, message)
	if len(h.log) > maxLogMessages {
		h.log = h.log[1:]
	}
	h.logTTL = LogTTL
}

// Message is the current centered transient message, or "" if expired.
func (h *HUD) Message() string { return h.message }

// LogLines is the current scrolling log, oldest first.
func (h *HUD) LogLines() []string { return h.log }

// Tick ages the message and log countdowns by dt seconds.
func (h *HUD) Tick(dt float32) {
	h.messageTTL -= dt
	h.logTTL -= dt

	if h.messageTTL < 0 {
		h.message = ""
	}

	if h.logTTL < 0 && len(h.log) != 0 {
		h.log = h.log[1:]
		h.logTTL = LogTTL
	}
}
