package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory(8)
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != "v" {
		t.Fatalf("val = %q", got)
	}

	if _, ok, _ := m.Get(ctx, "absent"); ok {
		t.Fatal("absent key reported present")
	}
}

func TestMemoryTTL(t *testing.T) {
	m := NewMemory(8)
	ctx := context.Background()

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	if err := m.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatal("fresh entry missing")
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expired entry still served")
	}
	// expired entry is evicted, not just hidden
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expired entry resurfaced")
	}
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	m := NewMemory(8)
	ctx := context.Background()

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	if err := m.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	clock = clock.Add(1000 * time.Hour)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatal("zero-TTL entry expired")
	}
}

func TestMemoryEviction(t *testing.T) {
	m := NewMemory(2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if _, ok, _ := m.Get(ctx, "k0"); ok {
		t.Fatal("oldest entry survived past capacity")
	}
	if _, ok, _ := m.Get(ctx, "k2"); !ok {
		t.Fatal("newest entry evicted")
	}
}
