package subscription

import (
	"testing"
)

func intPtr(v int) *int { return &v }

func TestComputeLimitStatus_QuotaBoundary(t *testing.T) {
	tests := []struct {
		name          string
		limitPerDay   int
		usedToday     int
		wantKind      LimitKind
		wantCanTake   bool
		wantRemaining int
		wantReason    bool
	}{
		{
			name:          "under limit",
			limitPerDay:   3,
			usedToday:     2,
			wantKind:      LimitKindLimited,
			wantCanTake:   true,
			wantRemaining: 1,
		},
		{
			name:          "at limit",
			limitPerDay:   3,
			usedToday:     3,
			wantKind:      LimitKindExhausted,
			wantCanTake:   false,
			wantRemaining: 0,
			wantReason:    true,
		},
		{
			name:          "over limit clamps to zero",
			limitPerDay:   3,
			usedToday:     5,
			wantKind:      LimitKindExhausted,
			wantCanTake:   false,
			wantRemaining: 0,
			wantReason:    true,
		},
		{
			name:          "unused",
			limitPerDay:   3,
			usedToday:     0,
			wantKind:      LimitKindLimited,
			wantCanTake:   true,
			wantRemaining: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ComputeLimitStatus(intPtr(tt.limitPerDay), tt.usedToday)

			if status.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", status.Kind, tt.wantKind)
			}
			if status.CanTake != tt.wantCanTake {
				t.Errorf("CanTake = %v, want %v", status.CanTake, tt.wantCanTake)
			}
			if status.RemainingToday != tt.wantRemaining {
				t.Errorf("RemainingToday = %v, want %v", status.RemainingToday, tt.wantRemaining)
			}
			if status.IsUnlimited {
				t.Errorf("IsUnlimited = true for a limited plan")
			}
			if status.LimitPerDay == nil || *status.LimitPerDay != tt.limitPerDay {
				t.Errorf("LimitPerDay = %v, want %v", status.LimitPerDay, tt.limitPerDay)
			}
			if tt.wantReason && status.Reason == "" {
				t.Errorf("Reason should be set when quota is exhausted")
			}
			if !tt.wantReason && status.Reason != "" {
				t.Errorf("Reason = %q, want empty", status.Reason)
			}
		})
	}
}

func TestComputeLimitStatus_UnlimitedPlan(t *testing.T) {
	for _, usedToday := range []int{0, 3, 1000} {
		status := ComputeLimitStatus(nil, usedToday)

		if !status.IsUnlimited {
			t.Errorf("IsUnlimited = false, want true (usedToday=%d)", usedToday)
		}
		if !status.CanTake {
			t.Errorf("CanTake = false, want true regardless of usage (usedToday=%d)", usedToday)
		}
		if status.Kind != LimitKindUnlimited {
			t.Errorf("Kind = %v, want %v", status.Kind, LimitKindUnlimited)
		}
		if status.LimitPerDay != nil {
			t.Errorf("LimitPerDay = %v, want nil", *status.LimitPerDay)
		}
		if status.Reason != "" {
			t.Errorf("Reason = %q, want empty", status.Reason)
		}
	}
}
