package strava

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRateLimiterCounts(t *testing.T) {
	r := NewRateLimiterWithLimits(10, 100, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := r.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	short, daily := r.Usage()
	if short != 3 || daily != 3 {
		t.Errorf("Usage() = %d, %d, want 3, 3", short, daily)
	}
	shortLeft, dailyLeft := r.Status()
	if shortLeft != 7 || dailyLeft != 97 {
		t.Errorf("Status() = %d, %d, want 7, 97", shortLeft, dailyLeft)
	}
}

func TestRateLimiterUpdateFromHeaders(t *testing.T) {
	tests := []struct {
		name      string
		limit     string
		usage     string
		wantShort int
		wantDaily int
	}{
		{"both headers", "200,2000", "50,400", 150, 1600},
		{"usage only", "", "99,999", 1, 1},
		{"malformed usage ignored", "", "abc", 100, 1000},
		{"single value ignored", "300", "", 100, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRateLimiter()
			h := http.Header{}
			if tt.limit != "" {
				h.Set("X-RateLimit-Limit", tt.limit)
			}
			if tt.usage != "" {
				h.Set("X-RateLimit-Usage", tt.usage)
			}
			r.UpdateFromHeaders(h)

			short, daily := r.Status()
			if short != tt.wantShort || daily != tt.wantDaily {
				t.Errorf("Status() = %d, %d, want %d, %d", short, daily, tt.wantShort, tt.wantDaily)
			}
		})
	}
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	r := NewRateLimiterWithLimits(1, 1000, 0)
	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	// The short window is exhausted, so the next call blocks until cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestNextDailyReset(t *testing.T) {
	now := time.Date(2024, 5, 10, 17, 45, 0, 0, time.UTC)
	want := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)
	if got := nextDailyReset(now); !got.Equal(want) {
		t.Errorf("nextDailyReset() = %v, want %v", got, want)
	}
}

func TestRateLimiterReserve(t *testing.T) {
	r := NewRateLimiterWithLimits(2, 1000, time.Second)
	now := time.Now()

	if wait := r.reserve(now); wait != 0 {
		t.Fatalf("first reserve wait = %v, want 0", wait)
	}
	// Too soon after the previous request
	if wait := r.reserve(now.Add(400 * time.Millisecond)); wait != 600*time.Millisecond {
		t.Errorf("reserve wait = %v, want 600ms", wait)
	}
	if wait := r.reserve(now.Add(time.Second)); wait != 0 {
		t.Fatalf("second reserve wait = %v, want 0", wait)
	}
	// Short window exhausted
	if wait := r.reserve(now.Add(2 * time.Second)); wait <= 10*time.Minute {
		t.Errorf("reserve wait = %v, want close to 15m", wait)
	}
	// After the window rolls over requests are allowed again
	if wait := r.reserve(now.Add(16 * time.Minute)); wait != 0 {
		t.Errorf("reserve after window wait = %v, want 0", wait)
	}
}
