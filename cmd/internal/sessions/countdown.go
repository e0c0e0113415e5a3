package sessions

import (
	"fmt"
	"time"
)

// DefaultReferenceWindow is the normalization window for Countdown
// progress when the caller supplies none. It only scales ring-style
// visuals and has no bearing on lifecycle state.
const DefaultReferenceWindow = 24 * time.Hour

// Countdown is a display-ready rendering of remaining time.
type Countdown struct {
	Display  string
	Progress float64 // remaining/reference, clamped to [0,1]
}

// FormatCountdown renders remaining time for display:
//
//	elapsed             -> "Expired"
//	>= 1 day            -> "2d 5h"
//	>= 1 hour           -> "1h 1m"
//	otherwise           -> "01:30" (zero-padded MM:SS)
//
// A non-positive reference falls back to DefaultReferenceWindow.
func FormatCountdown(remaining, reference time.Duration) Countdown {
	if remaining <= 0 {
		return Countdown{Display: "Expired", Progress: 0}
	}
	if reference <= 0 {
		reference = DefaultReferenceWindow
	}

	progress := float64(remaining) / float64(reference)
	if progress > 1 {
		progress = 1
	}

	days := int(remaining / (24 * time.Hour))
	hours := int(remaining/time.Hour) % 24
	minutes := int(remaining/time.Minute) % 60
	seconds := int(remaining/time.Second) % 60

	var display string
	switch {
	case days > 0:
		display = fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		display = fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		display = fmt.Sprintf("%02d:%02d", minutes, seconds)
	}

	return Countdown{Display: display, Progress: progress}
}
