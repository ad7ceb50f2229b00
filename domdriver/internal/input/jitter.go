package input

import (
	"context"
	"math/rand/v2"
	"time"
)

// jitterPx offsets a coordinate by up to ±px. Pointer events landing on
// the exact element centre every time are a detection signal.
func jitterPx(v, px float64) float64 {
	if px <= 0 {
		return v
	}
	return v + (rand.Float64()*2-1)*px
}

// jitterDelay varies d by up to ±40%, floor 1ms. Fixed keystroke cadence
// is as detectable as fixed coordinates.
func jitterDelay(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	f := 1 + (rand.Float64()*2-1)*0.4
	out := time.Duration(float64(d) * f)
	if out < time.Millisecond {
		out = time.Millisecond
	}
	return out
}

// sleepJitter waits for a jittered duration, honouring context cancellation.
func sleepJitter(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(jitterDelay(d))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
