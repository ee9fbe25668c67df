package model

import (
	"testing"
	"time"
)

func TestHoldDue(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		hold BookingHold
		want bool
	}{
		{
			name: "active and past expiry",
			hold: BookingHold{Status: HoldActive, ExpiresAt: now.Add(-time.Minute)},
			want: true,
		},
		{
			name: "active and not yet expired",
			hold: BookingHold{Status: HoldActive, ExpiresAt: now.Add(time.Minute)},
			want: false,
		},
		{
			name: "active expiring exactly now is not due",
			hold: BookingHold{Status: HoldActive, ExpiresAt: now},
			want: false,
		},
		{
			name: "already expired is never due again",
			hold: BookingHold{Status: HoldExpired, ExpiresAt: now.Add(-time.Hour)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hold.Due(now); got != tt.want {
				t.Errorf("Due() = %v, want %v", got, tt.want)
			}
		})
	}
}
