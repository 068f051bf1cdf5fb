package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/classpoint/classroom-service/internal/models"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestCacheHelperRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	helper := NewCacheHelper(client, "test:")
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := helper.Set(ctx, "k1", payload{Name: "alpha", Count: 3}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "k1", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "alpha" || got.Count != 3 {
		t.Errorf("got %+v", got)
	}

	if err := helper.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := helper.Get(ctx, "k1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get after delete = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelperMiss(t *testing.T) {
	client, _ := newTestClient(t)
	helper := NewCacheHelper(client, "test:")

	var dest struct{}
	if err := helper.Get(context.Background(), "absent", &dest); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("miss = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelperTTL(t *testing.T) {
	client, mr := newTestClient(t)
	helper := NewCacheHelper(client, "test:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k1", "value", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var got string
	if err := helper.Get(ctx, "k1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expired key = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelperInvalidatePattern(t *testing.T) {
	client, _ := newTestClient(t)
	helper := NewCacheHelper(client, "channel:")
	ctx := context.Background()

	for _, key := range []string{"7:members", "7:stats", "8:members"} {
		if err := helper.Set(ctx, key, "cached", time.Minute); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "7:*"); err != nil {
		t.Fatalf("InvalidatePattern: %v", err)
	}

	var got string
	if err := helper.Get(ctx, "7:members", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("7:members survived invalidation: %v", err)
	}
	if err := helper.Get(ctx, "8:members", &got); err != nil {
		t.Errorf("8:members was wrongly invalidated: %v", err)
	}
}

func TestCacheHelperWithoutRedis(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k1", "value", time.Minute); err != nil {
		t.Errorf("nil-client Set: %v", err)
	}
	var dest string
	if err := helper.Get(ctx, "k1", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("nil-client Get = %v, want ErrCacheNotAvailable", err)
	}
	if err := helper.Delete(ctx, "k1"); err != nil {
		t.Errorf("nil-client Delete: %v", err)
	}
}

func TestCacheManagerAssessments(t *testing.T) {
	client, _ := newTestClient(t)
	manager := NewCacheManager(client)
	ctx := context.Background()

	if _, ok := manager.GetAssessment(ctx, 1); ok {
		t.Error("unexpected hit on empty cache")
	}

	manager.SetAssessment(ctx, &models.Assessment{ID: 1, Title: "Sorting Basics", Kind: models.KindQuizManual})
	cached, ok := manager.GetAssessment(ctx, 1)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if cached.Title != "Sorting Basics" {
		t.Errorf("title = %q", cached.Title)
	}

	manager.DeleteAssessment(ctx, 1)
	if _, ok := manager.GetAssessment(ctx, 1); ok {
		t.Error("hit after invalidation")
	}
}
