package progress

import "fmt"

// FormatTime renders milliseconds as m:ss, or h:mm:ss when reference is at
// least an hour long so that both sides of "pos / total" line up.
func FormatTime(ms, referenceMs int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 || referenceMs >= 3600*1000 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// Label renders "position / total" for the progress text.
func (p Progress) Label() string {
	return FormatTime(p.PositionMs, p.TotalMs) + " / " + FormatTime(p.TotalMs, p.TotalMs)
}
