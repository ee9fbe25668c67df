package model

import (
	"fmt"
	"time"
)

// Window is a half-open time interval [Start, End). The start instant is
// included, the end instant is not, so windows that merely touch do not
// overlap. This is the standard convention for adjacent calendar slots.
type Window struct {
	Start time.Time `json:"start_time" bson:"start_time"`
	End   time.Time `json:"end_time" bson:"end_time"`
}

func NewWindow(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// Validate rejects zero-duration and inverted windows.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return ErrInvalidWindow
	}
	if !w.Start.Before(w.End) {
		return ErrInvalidWindow
	}
	return nil
}

// Overlaps reports whether two half-open intervals intersect:
// [a1,a2) and [b1,b2) overlap iff a1 < b2 && b1 < a2.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// String renders the window in wall-clock form for conflict messages,
// e.g. "14:00 - 15:00".
func (w Window) String() string {
	if w.Start.Truncate(24 * time.Hour).Equal(w.End.Truncate(24 * time.Hour)) {
		return fmt.Sprintf("%s - %s", w.Start.Format("15:04"), w.End.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}
