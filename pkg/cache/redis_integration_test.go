//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCacheIntegration(t *testing.T) {
	url := os.Getenv("GITSEEKER_TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "gitseeker-test:")
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestRedisCacheClearIntegration(t *testing.T) {
	url := os.Getenv("GITSEEKER_TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "gitseeker-clear-test:")
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer c.Close()
	other := NewRedisCacheFromClient(c.client, "gitseeker-other:")
	defer other.Delete(ctx, "keep")

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	_ = other.Set(ctx, "keep", []byte("x"), time.Minute)

	n, err := c.Clear(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	if _, hit, _ := other.Get(ctx, "keep"); !hit {
		t.Error("Clear removed a key outside its prefix")
	}
	if _, err := NewRedisCacheFromClient(c.client, "").Clear(ctx); err == nil {
		t.Error("Clear without prefix should be refused")
	}
}
