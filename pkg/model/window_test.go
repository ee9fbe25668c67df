package model

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func TestWindowValidate(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		window  Window
		wantErr bool
	}{
		{
			name:   "valid window",
			window: Window{Start: base, End: base.Add(time.Hour)},
		},
		{
			name:    "zero start",
			window:  Window{End: base},
			wantErr: true,
		},
		{
			name:    "zero end",
			window:  Window{Start: base},
			wantErr: true,
		},
		{
			name:    "inverted",
			window:  Window{Start: base.Add(time.Hour), End: base},
			wantErr: true,
		},
		{
			name:    "zero duration",
			window:  Window{Start: base, End: base},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWindowOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    [2]string
		b    [2]string
		want bool
	}{
		{
			name: "identical windows overlap",
			a:    [2]string{"2026-09-01T10:00:00Z", "2026-09-01T11:00:00Z"},
			b:    [2]string{"2026-09-01T10:00:00Z", "2026-09-01T11:00:00Z"},
			want: true,
		},
		{
			name: "partial overlap",
			a:    [2]string{"2026-09-01T10:00:00Z", "2026-09-01T11:00:00Z"},
			b:    [2]string{"2026-09-01T10:30:00Z", "2026-09-01T11:30:00Z"},
			want: true,
		},
		{
			name: "containment overlaps",
			a:    [2]string{"2026-09-01T10:00:00Z", "2026-09-01T12:00:00Z"},
			b:    [2]string{"2026-09-01T10:30:00Z", "2026-09-01T11:00:00Z"},
			want: true,
		},
		{
			name: "abutting windows do not overlap",
			a:    [2]string{"2026-09-01T10:00:00Z", "2026-09-01T11:00:00Z"},
			b:    [2]string{"2026-09-01T11:00:00Z", "2026-09-01T12:00:00Z"},
			want: false,
		},
		{
			name: "abutting windows reversed do not overlap",
			a:    [2]string{"2026-09-01T11:00:00Z", "2026-09-01T12:00:00Z"},
			b:    [2]string{"2026-09-01T10:00:00Z", "2026-09-01T11:00:00Z"},
			want: false,
		},
		{
			name: "disjoint windows do not overlap",
			a:    [2]string{"2026-09-01T10:00:00Z", "2026-09-01T11:00:00Z"},
			b:    [2]string{"2026-09-01T14:00:00Z", "2026-09-01T15:00:00Z"},
			want: false,
		},
		{
			name: "one minute overlap",
			a:    [2]string{"2026-09-01T10:00:00Z", "2026-09-01T11:00:00Z"},
			b:    [2]string{"2026-09-01T10:59:00Z", "2026-09-01T12:00:00Z"},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Window{Start: mustTime(t, tt.a[0]), End: mustTime(t, tt.a[1])}
			b := Window{Start: mustTime(t, tt.b[0]), End: mustTime(t, tt.b[1])}

			if got := a.Overlaps(b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := b.Overlaps(a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{
		Start: mustTime(t, "2026-09-01T10:00:00Z"),
		End:   mustTime(t, "2026-09-01T11:00:00Z"),
	}

	if !w.Contains(w.Start) {
		t.Error("window should contain its start")
	}
	if w.Contains(w.End) {
		t.Error("window should not contain its end (half-open)")
	}
	if !w.Contains(mustTime(t, "2026-09-01T10:30:00Z")) {
		t.Error("window should contain its midpoint")
	}
}
