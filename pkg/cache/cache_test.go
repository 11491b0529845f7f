package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const testDate = "2025-03-01"

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewWithClient(client, Config{AvailabilityTTL: time.Minute, DisableOnError: true}, zap.NewNop()), mr
}

func TestDisabledCacheMisses(t *testing.T) {
	c := New(Config{}, zap.NewNop())
	if c.IsAvailable() {
		t.Fatalf("Expected a cache without an address to be disabled")
	}

	ctx := context.Background()
	version := c.CurrentVersion(ctx, testDate)
	if version != "" {
		t.Errorf("Expected no version from a disabled cache, got %q", version)
	}
	c.SetAvailability(ctx, "consecutive", testDate, version, "req", []int{1})
	c.InvalidateDate(ctx, testDate)
	c.InvalidateCatalog(ctx)

	var out []int
	if c.GetAvailability(ctx, "consecutive", testDate, version, "req", &out) {
		t.Errorf("Expected a miss from a disabled cache")
	}
	if err := c.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAvailabilityKey(t *testing.T) {
	type req struct {
		Date     string   `json:"date"`
		Services []string `json:"services"`
	}
	a, err := AvailabilityKey("vip", testDate, "0.3", req{testDate, []string{"mani", "pedi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(a, KeyAvailability+"vip:2025-03-01:v0.3:") {
		t.Errorf("Unexpected key %s", a)
	}

	same, _ := AvailabilityKey("vip", testDate, "0.3", req{testDate, []string{"mani", "pedi"}})
	swapped, _ := AvailabilityKey("vip", testDate, "0.3", req{testDate, []string{"pedi", "mani"}})
	bumped, _ := AvailabilityKey("vip", testDate, "0.4", req{testDate, []string{"mani", "pedi"}})
	if a != same {
		t.Errorf("Expected identical requests to share a key")
	}
	if a == swapped || a == bumped {
		t.Errorf("Expected different requests or versions to get different keys")
	}
}

func TestGetAfterSet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	version := c.CurrentVersion(ctx, testDate)
	if version != "0.0" {
		t.Fatalf("Expected version 0.0 on an empty store, got %q", version)
	}
	c.SetAvailability(ctx, "consecutive", testDate, version, "req", []int{7, 8})

	var out []int
	if !c.GetAvailability(ctx, "consecutive", testDate, version, "req", &out) {
		t.Fatalf("Expected a hit")
	}
	if len(out) != 2 || out[1] != 8 {
		t.Errorf("Expected [7 8], got %v", out)
	}
	if c.GetAvailability(ctx, "vip_combo", testDate, version, "req", &out) {
		t.Errorf("Expected modes not to share entries")
	}
}

func TestBookingDuringSearchLeavesNoStaleAnswer(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	// version read before the search, booking committed before the answer is stored
	before := c.CurrentVersion(ctx, testDate)
	c.InvalidateDate(ctx, testDate)
	c.SetAvailability(ctx, "consecutive", testDate, before, "req", []int{1})

	after := c.CurrentVersion(ctx, testDate)
	if after == before {
		t.Fatalf("Expected the booking to change the version, still %q", after)
	}
	var out []int
	if c.GetAvailability(ctx, "consecutive", testDate, after, "req", &out) {
		t.Errorf("Expected the pre-booking answer to be unreachable at %q", after)
	}
}

func TestInvalidateDateIsPerDate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	other := "2025-03-02"
	v := c.CurrentVersion(ctx, other)
	c.SetAvailability(ctx, "consecutive", other, v, "req", []int{1})
	c.InvalidateDate(ctx, testDate)

	var out []int
	if !c.GetAvailability(ctx, "consecutive", other, c.CurrentVersion(ctx, other), "req", &out) {
		t.Errorf("Expected another date's answer to survive")
	}
}

func TestInvalidateCatalogRetiresEveryDate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	dates := []string{testDate, "2025-03-02"}
	for _, d := range dates {
		c.SetAvailability(ctx, "consecutive", d, c.CurrentVersion(ctx, d), "req", []int{1})
	}
	c.InvalidateCatalog(ctx)

	var out []int
	for _, d := range dates {
		v := c.CurrentVersion(ctx, d)
		if !strings.HasPrefix(string(v), "1.") {
			t.Errorf("Expected catalog version 1 for %s, got %q", d, v)
		}
		if c.GetAvailability(ctx, "consecutive", d, v, "req", &out) {
			t.Errorf("Expected no answer for %s after a catalog change", d)
		}
	}
}

func TestRedisErrorDisablesCache(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	if v := c.CurrentVersion(context.Background(), testDate); v != "" {
		t.Errorf("Expected no version with redis down, got %q", v)
	}
	if c.IsAvailable() {
		t.Errorf("Expected the cache to disable itself")
	}
}
