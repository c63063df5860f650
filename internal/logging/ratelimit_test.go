package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestThrottleDropsRepeatsInsideInterval(t *testing.T) {
	clock := time.Unix(100, 0)
	th := NewThrottle(time.Second)
	th.now = func() time.Time { return clock }

	if !th.Allow("move") {
		t.Fatalf("first call should pass")
	}
	if th.Allow("move") {
		t.Fatalf("repeat inside interval should be dropped")
	}
	if !th.Allow("down") {
		t.Fatalf("other keys are independent")
	}
	clock = clock.Add(time.Second)
	if !th.Allow("move") {
		t.Fatalf("call after interval should pass")
	}
}

func TestThrottlePrunesOldestKeys(t *testing.T) {
	clock := time.Unix(0, 0)
	th := NewThrottle(time.Minute)
	th.maxKeys = 3
	th.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		th.Allow(key)
	}
	if len(th.last) > 3 {
		t.Fatalf("expected at most 3 keys, got %d", len(th.last))
	}
	if _, ok := th.last["a"]; ok {
		t.Fatalf("expected oldest key pruned")
	}
}

func TestThrottleLogSkipsDisabledLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	th := NewThrottle(time.Minute)

	th.Log(context.Background(), logger, "key", slog.LevelDebug, "hidden")
	if len(th.last) != 0 {
		t.Fatalf("disabled level must not consume the key")
	}
	th.Log(context.Background(), logger, "key", slog.LevelWarn, "shown")
	th.Log(context.Background(), logger, "key", slog.LevelWarn, "shown")
	if got := strings.Count(buf.String(), "shown"); got != 1 {
		t.Fatalf("expected one entry, got %d: %s", got, buf.String())
	}
}

func TestNilThrottleAllowsEverything(t *testing.T) {
	var th *Throttle
	if !th.Allow("x") || !th.Allow("x") {
		t.Fatalf("nil throttle should never drop")
	}
}
