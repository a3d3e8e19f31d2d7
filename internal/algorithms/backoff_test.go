package algorithms

import (
	"sync"
	"testing"
	"time"
)

func TestExponential_Delay(t *testing.T) {
	tests := []struct {
		name    string
		base    time.Duration
		ceiling time.Duration
		retry   int
		want    time.Duration
	}{
		{"first retry is base", 100 * time.Millisecond, 10 * time.Second, 0, 100 * time.Millisecond},
		{"doubles", 100 * time.Millisecond, 10 * time.Second, 1, 200 * time.Millisecond},
		{"doubles again", 100 * time.Millisecond, 10 * time.Second, 3, 800 * time.Millisecond},
		{"capped", time.Second, 5 * time.Second, 4, 5 * time.Second},
		{"huge retry is capped", time.Second, time.Minute, 200, time.Minute},
		{"overflow is capped", time.Hour, 0, 61, time.Duration(1<<63 - 1)},
		{"negative retry", time.Second, time.Minute, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackoff(Exponential, tt.base, tt.ceiling, 0)
			if got := b.Delay(tt.retry); got != tt.want {
				t.Errorf("Delay(%d) = %v, want %v", tt.retry, got, tt.want)
			}
		})
	}
}

func TestConstant_Delay(t *testing.T) {
	b := NewBackoff(Constant, 50*time.Millisecond, time.Second, 0)
	for retry := range 5 {
		if got := b.Delay(retry); got != 50*time.Millisecond {
			t.Errorf("Delay(%d) = %v, want 50ms", retry, got)
		}
	}

	capped := NewBackoff(Constant, time.Minute, time.Second, 0)
	if got := capped.Delay(0); got != time.Second {
		t.Errorf("expected ceiling to cap constant delay, got %v", got)
	}
}

func TestJittered_Delay(t *testing.T) {
	b := NewBackoff(Jittered, 100*time.Millisecond, 10*time.Second, 0.2)

	for retry := range 5 {
		base := grow(retry, 100*time.Millisecond, 10*time.Second)
		lo := time.Duration(float64(base) * 0.8)
		hi := time.Duration(float64(base) * 1.2)

		for range 50 {
			got := b.Delay(retry)
			if got < lo || got > hi {
				t.Fatalf("Delay(%d) = %v, want within [%v, %v]", retry, got, lo, hi)
			}
		}
	}
}

func TestJittered_ClampsFactor(t *testing.T) {
	b := NewBackoff(Jittered, 100*time.Millisecond, time.Second, 5)
	for range 100 {
		if got := b.Delay(0); got < 0 || got > 200*time.Millisecond {
			t.Fatalf("jitter above 1 should be clamped, got %v", got)
		}
	}
}

func TestDecorrelated_Delay(t *testing.T) {
	tests := []struct {
		name    string
		base    time.Duration
		ceiling time.Duration
		retry   int
		wantMin time.Duration
		wantMax time.Duration
	}{
		{"first retry is base", 100 * time.Millisecond, 10 * time.Second, 0, 100 * time.Millisecond, 100 * time.Millisecond},
		{"second retry within 3x", 100 * time.Millisecond, 10 * time.Second, 1, 100 * time.Millisecond, 300 * time.Millisecond},
		{"respects ceiling", time.Second, 2 * time.Second, 10, time.Second, 2 * time.Second},
		{"ceiling below base", time.Second, 500 * time.Millisecond, 1, time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackoff(Decorrelated, tt.base, tt.ceiling, 0)

			var got time.Duration
			for retry := 0; retry <= tt.retry; retry++ {
				got = b.Delay(retry)
			}

			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("Delay(%d) = %v, want between %v and %v", tt.retry, got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestBackoff_ConcurrentUse(t *testing.T) {
	for _, kind := range []Kind{Exponential, Constant, Jittered, Decorrelated} {
		b := NewBackoff(kind, time.Millisecond, time.Second, 0.1)

		var wg sync.WaitGroup
		wg.Add(8)
		for range 8 {
			go func() {
				defer wg.Done()
				for retry := range 100 {
					if d := b.Delay(retry % 10); d < 0 || d > time.Second {
						t.Errorf("kind %d: delay %v out of range", kind, d)
					}
				}
			}()
		}
		wg.Wait()
	}
}
