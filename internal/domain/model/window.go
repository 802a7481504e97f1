package model

import "time"

// Window is the half-open interval [Start, End) under evaluation for one
// report. Both bounds sit at UTC midnight. Start stays fixed while the
// adaptive controller grows End.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days returns the number of whole days the window spans.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start) / (24 * time.Hour))
}

// DisplayEnd returns the last day covered by the window, the date shown to
// readers and written into the report footer. The exclusive End bound is the
// midnight after it.
func (w Window) DisplayEnd() time.Time {
	return w.End.AddDate(0, 0, -1)
}

// Midnight truncates t to UTC midnight.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
