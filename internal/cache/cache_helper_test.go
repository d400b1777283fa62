package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "test:"), mr
}

type cachedStudent struct {
	ID     string `json:"id"`
	Rating int    `json:"rating"`
}

func TestCacheHelper_GetSet(t *testing.T) {
	ctx := context.Background()
	helper, mr := newTestHelper(t)

	t.Run("round trip", func(t *testing.T) {
		in := cachedStudent{ID: "s1", Rating: 1500}
		if err := helper.Set(ctx, "student:id:s1", in, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		var out cachedStudent
		if err := helper.Get(ctx, "student:id:s1", &out); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if out != in {
			t.Errorf("got %+v, want %+v", out, in)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		var out cachedStudent
		err := helper.Get(ctx, "student:id:missing", &out)
		if !errors.Is(err, ErrCacheNotFound) {
			t.Fatalf("expected ErrCacheNotFound, got %v", err)
		}
	})

	t.Run("ttl expiry", func(t *testing.T) {
		if err := helper.Set(ctx, "student:id:ttl", cachedStudent{ID: "ttl"}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		mr.FastForward(2 * time.Minute)

		var out cachedStudent
		if err := helper.Get(ctx, "student:id:ttl", &out); !errors.Is(err, ErrCacheNotFound) {
			t.Fatalf("expected ErrCacheNotFound after expiry, got %v", err)
		}
	})

	t.Run("nil client degrades gracefully", func(t *testing.T) {
		nilHelper := NewCacheHelper(nil, "test:")
		if err := nilHelper.Set(ctx, "k", "v", time.Minute); err != nil {
			t.Errorf("Set with nil client should be a no-op, got %v", err)
		}
		var out string
		if err := nilHelper.Get(ctx, "k", &out); !errors.Is(err, ErrCacheNotAvailable) {
			t.Errorf("expected ErrCacheNotAvailable, got %v", err)
		}
	})
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("list:page:%d", i)
		if err := helper.Set(ctx, key, i, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := helper.Set(ctx, "student:id:s1", "kept", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		exists, err := helper.Exists(ctx, fmt.Sprintf("list:page:%d", i))
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists {
			t.Errorf("list:page:%d should have been invalidated", i)
		}
	}

	exists, err := helper.Exists(ctx, "student:id:s1")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("student key outside the pattern must survive")
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedStudent{ID: "s1", Rating: 1500}, nil
	}

	var first cachedStudent
	if err := helper.CacheOrExecute(ctx, "student:id:s1", &first, time.Minute, fetch); err != nil {
		t.Fatalf("first CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 fetch call, got %d", calls)
	}

	var second cachedStudent
	if err := helper.CacheOrExecute(ctx, "student:id:s1", &second, time.Minute, fetch); err != nil {
		t.Fatalf("second CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("second call should be served from cache, fetch ran %d times", calls)
	}
	if second != first {
		t.Errorf("cached value %+v differs from original %+v", second, first)
	}

	t.Run("fetch error propagates", func(t *testing.T) {
		err := helper.CacheOrExecute(ctx, "student:id:bad", &cachedStudent{}, time.Minute, func() (interface{}, error) {
			return nil, fmt.Errorf("db down")
		})
		if err == nil {
			t.Fatal("expected the fetch error to propagate")
		}
	})
}

func TestInvalidateStudentCache(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	if err := helper.Set(ctx, StudentCacheConfig.Prefix+"id:s1", "detail", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := helper.Set(ctx, ListCacheConfig.Prefix+"all", "roster", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	InvalidateStudentCache(ctx, helper, "s1")

	for _, key := range []string{StudentCacheConfig.Prefix + "id:s1", ListCacheConfig.Prefix + "all"} {
		exists, err := helper.Exists(ctx, key)
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists {
			t.Errorf("%s should have been invalidated", key)
		}
	}
}
