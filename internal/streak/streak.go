// Package streak tracks runs of rapid presses. Every press that follows its
// predecessor within the reset window extends the streak; hitting a positive
// multiple of the target flags that press as a bonus, which the caller maps
// to feedback (the rapid-pop sound in the original game).
package streak

import (
	"sync"
	"time"
)

type Config struct {
	Target      int
	ResetWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		Target:      30,
		ResetWindow: 1500 * time.Millisecond,
	}
}

// Advance is the pure transition function. Given the current count, the
// previous press time and now, it returns the new count, the new press time
// and whether this press is a bonus. A zero lastAt means no prior press, so
// the gap check is skipped.
func Advance(count int, lastAt, now time.Time, cfg Config) (int, time.Time, bool) {
	if !lastAt.IsZero() && now.Sub(lastAt) > cfg.ResetWindow {
		count = 0
	}
	count++
	bonus := cfg.Target > 0 && count%cfg.Target == 0
	return count, now, bonus
}

// Detector is the stateful wrapper around Advance.
type Detector struct {
	mu     sync.Mutex
	cfg    Config
	count  int
	lastAt time.Time
}

func NewDetector(cfg Config) *Detector {
	if cfg.Target <= 0 {
		cfg.Target = DefaultConfig().Target
	}
	if cfg.ResetWindow <= 0 {
		cfg.ResetWindow = DefaultConfig().ResetWindow
	}
	return &Detector{cfg: cfg}
}

// Press records a qualifying press at t and reports whether it lands on a
// bonus position.
func (d *Detector) Press(t time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	var bonus bool
	d.count, d.lastAt, bonus = Advance(d.count, d.lastAt, t, d.cfg)
	return bonus
}

// Cancel drops the current streak, e.g. when the app is backgrounded. The
// next press starts at position 1 regardless of elapsed time.
func (d *Detector) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.count = 0
	d.lastAt = time.Time{}
}

// Count returns the current streak length.
func (d *Detector) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}
