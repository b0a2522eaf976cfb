package sanction

import (
	"testing"
	"time"

	"github.com/magabrotheeeer/portainfo/internal/models"
)

func TestUntil(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		amount      int
		unit        string
		wantUntil   time.Time
		wantForever bool
		wantErr     bool
	}{
		{
			name:      "three hours",
			amount:    3,
			unit:      UnitHours,
			wantUntil: now.Add(3 * time.Hour),
		},
		{
			name:      "two days",
			amount:    2,
			unit:      UnitDays,
			wantUntil: now.Add(48 * time.Hour),
		},
		{
			name:      "one week",
			amount:    1,
			unit:      UnitWeeks,
			wantUntil: now.Add(7 * 24 * time.Hour),
		},
		{
			name:      "month is thirty days",
			amount:    1,
			unit:      UnitMonths,
			wantUntil: now.Add(30 * 24 * time.Hour),
		},
		{
			name:        "forever ignores amount",
			amount:      0,
			unit:        UnitForever,
			wantForever: true,
		},
		{
			name:    "unknown unit",
			amount:  1,
			unit:    "minutes",
			wantErr: true,
		},
		{
			name:    "zero amount",
			amount:  0,
			unit:    UnitDays,
			wantErr: true,
		},
		{
			name:    "negative amount",
			amount:  -5,
			unit:    UnitHours,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			until, forever, err := Until(now, tt.amount, tt.unit)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Until() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if forever != tt.wantForever {
				t.Errorf("Until() forever = %v, want %v", forever, tt.wantForever)
			}
			if !tt.wantForever && !until.Equal(tt.wantUntil) {
				t.Errorf("Until() = %v, want %v", until, tt.wantUntil)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(90 * time.Minute)
	past := now.Add(-time.Minute)

	tests := []struct {
		name string
		user *models.User
		want Status
	}{
		{
			name: "clean user is not blocked",
			user: &models.User{Role: models.RoleUser},
			want: Status{},
		},
		{
			name: "creator is never blocked",
			user: &models.User{
				Role:           models.RoleCreator,
				BlockedForever: true,
				IsTerminated:   true,
			},
			want: Status{},
		},
		{
			name: "terminated account",
			user: &models.User{
				Role:         models.RoleUser,
				IsTerminated: true,
				BlockReason:  "critical violation",
			},
			want: Status{Blocked: true, Terminated: true, Forever: true, Reason: "critical violation"},
		},
		{
			name: "forever block",
			user: &models.User{
				Role:           models.RoleUser,
				BlockedForever: true,
				BlockReason:    "spam",
			},
			want: Status{Blocked: true, Forever: true, Reason: "spam"},
		},
		{
			name: "active temporary block",
			user: &models.User{
				Role:         models.RoleUser,
				BlockedUntil: &future,
				BlockReason:  "offensive content",
			},
			want: Status{Blocked: true, Remaining: 90 * time.Minute, Reason: "offensive content"},
		},
		{
			name: "expired temporary block",
			user: &models.User{
				Role:         models.RoleUser,
				BlockedUntil: &past,
				BlockReason:  "offensive content",
			},
			want: Status{Expired: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.user, now)
			if got != tt.want {
				t.Errorf("Evaluate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_TerminationOverridesExpiredUntil(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	u := &models.User{
		Role:         models.RoleUser,
		IsTerminated: true,
		BlockedUntil: &past,
	}

	got := Evaluate(u, now)
	if !got.Blocked || !got.Terminated {
		t.Errorf("Evaluate() = %+v, want blocked terminated account", got)
	}
}

func TestCountdown(t *testing.T) {
	tests := []struct {
		name string
		st   Status
		want string
	}{
		{
			name: "forever block",
			st:   Status{Blocked: true, Forever: true},
			want: "SIEMPRE",
		},
		{
			name: "terminated account",
			st:   Status{Blocked: true, Terminated: true, Forever: true},
			want: "SIEMPRE",
		},
		{
			name: "expired block",
			st:   Status{Expired: true},
			want: "TERMINADO",
		},
		{
			name: "hours minutes seconds",
			st:   Status{Blocked: true, Remaining: 2*time.Hour + 5*time.Minute + 30*time.Second},
			want: "2h 5m 30s",
		},
		{
			name: "more than a day stays in hours",
			st:   Status{Blocked: true, Remaining: 26*time.Hour + time.Second},
			want: "26h 0m 1s",
		},
		{
			name: "under a minute",
			st:   Status{Blocked: true, Remaining: 42 * time.Second},
			want: "0h 0m 42s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Countdown(tt.st); got != tt.want {
				t.Errorf("Countdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{LevelLight, LevelModerate, LevelIntense} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false, want true", level)
		}
	}
	if ValidLevel("critica") {
		t.Error("ValidLevel(\"critica\") = true, want false")
	}
}
