package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"experimentation-control-plane/internal/experiment/domain"
)

func TestAssignmentKey(t *testing.T) {
	if got := assignmentKey("exp-1", "user-9"); got != "ab:assignment:exp-1:user-9" {
		t.Errorf("assignmentKey = %q", got)
	}
}

func TestNoop(t *testing.T) {
	var c AssignmentCache = Noop{}
	ctx := context.Background()
	if err := c.Set(ctx, &domain.Assignment{ExperimentID: "e", UserID: "u", Variant: "A"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	a, err := c.Get(ctx, "e", "u")
	if err != nil || a != nil {
		t.Errorf("Get = %v, %v; want miss", a, err)
	}
	if err := c.Evict(ctx, "e", "u"); err != nil {
		t.Errorf("Evict: %v", err)
	}
}

func TestNewRedisCache_DefaultTTL(t *testing.T) {
	c := NewRedisCache(nil, 0)
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}

func TestRedisCache_Integration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis unavailable: %v", err)
	}

	c := NewRedisCache(client, time.Minute)
	expID := uuid.New().String()
	if a, err := c.Get(ctx, expID, "user-1"); err != nil || a != nil {
		t.Fatalf("Get before Set = %v, %v", a, err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	for _, u := range []string{"user-1", "user-2"} {
		if err := c.Set(ctx, &domain.Assignment{ExperimentID: expID, UserID: u, Variant: "B", AssignedAt: now}); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	a, err := c.Get(ctx, expID, "user-1")
	if err != nil || a == nil || a.Variant != "B" || !a.AssignedAt.Equal(now) {
		t.Fatalf("Get = %+v, %v", a, err)
	}
	if err := c.Evict(ctx, expID, "user-1"); err != nil {
		t.Fatalf("Evict: %v", err)
	}
	if a, _ := c.Get(ctx, expID, "user-1"); a != nil {
		t.Error("assignment still cached after Evict")
	}
	if err := c.Purge(ctx, expID); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if a, _ := c.Get(ctx, expID, "user-2"); a != nil {
		t.Error("assignment still cached after Purge")
	}
}
