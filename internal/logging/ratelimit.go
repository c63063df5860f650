package logging

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

const defaultThrottleKeys = 256

// Throttle drops repeated log entries for a key inside an interval. It keeps
// pointer-move and drag logging readable at debug level.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	maxKeys  int
	last     map[string]time.Time
	now      func() time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		maxKeys:  defaultThrottleKeys,
		last:     map[string]time.Time{},
		now:      time.Now,
	}
}

// Allow reports whether key may log now and records the attempt when it may.
func (t *Throttle) Allow(key string) bool {
	if t == nil || key == "" || t.interval <= 0 {
		return true
	}
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, ok := t.last[key]; ok && now.Sub(last) < t.interval {
		return false
	}
	t.last[key] = now
	if len(t.last) > t.maxKeys {
		t.prune()
	}
	return true
}

// Log writes through logger when the level is enabled and key is not throttled.
func (t *Throttle) Log(ctx context.Context, logger *slog.Logger, key string, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		logger = slog.Default()
	}
	if !logger.Enabled(ctx, level) || !t.Allow(key) {
		return
	}
	logger.LogAttrs(ctx, level, msg, attrs...)
}

func (t *Throttle) prune() {
	type entry struct {
		key string
		at  time.Time
	}
	entries := make([]entry, 0, len(t.last))
	for key, at := range t.last {
		entries = append(entries, entry{key: key, at: at})
	}
	slices.SortFunc(entries, func(a, b entry) int { return a.at.Compare(b.at) })
	for _, e := range entries[:len(entries)-t.maxKeys] {
		delete(t.last, e.key)
	}
}
