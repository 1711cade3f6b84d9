package cache

import (
	"context"
	"testing"
	"time"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	c.Set(ctx, "k", entry{Name: "a", Count: 2})

	var got entry
	if !c.Get(ctx, "k", &got) {
		t.Fatal("expected cache hit")
	}
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryMiss(t *testing.T) {
	c := NewMemory(time.Minute)
	var got entry
	if c.Get(context.Background(), "absent", &got) {
		t.Error("expected miss")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10 * time.Millisecond)
	c.Set(ctx, "k", entry{Name: "x"})

	time.Sleep(30 * time.Millisecond)

	var got entry
	if c.Get(ctx, "k", &got) {
		t.Error("expected entry to expire")
	}
}

func TestMemoryFlushAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	c.Set(ctx, "a", entry{})
	c.Set(ctx, "b", entry{})

	c.Delete(ctx, "a")
	var got entry
	if c.Get(ctx, "a", &got) {
		t.Error("deleted key still present")
	}

	c.Flush(ctx)
	if c.Get(ctx, "b", &got) {
		t.Error("flush left entries behind")
	}
}

func TestMemorySetIsolation(t *testing.T) {
	set := NewMemorySet()
	ctx := context.Background()
	set.Review.Set(ctx, "k", entry{Name: "review"})

	var got entry
	if set.Price.Get(ctx, "k", &got) {
		t.Error("caches must not share keyspace")
	}
	if !set.Review.Get(ctx, "k", &got) {
		t.Error("review cache lost its entry")
	}
}
