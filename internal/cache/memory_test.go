package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10)

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get(missing) error = %v, want ErrMiss", err)
	}

	value := []byte(`{"balances":[]}`)
	if err := store.Set(ctx, "k", value, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"balances":[]}` {
		t.Errorf("Get() = %q, stored value must not alias the caller's slice", got)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(ctx, "short", []byte("a"), time.Second)
	store.Set(ctx, "long", []byte("b"), time.Hour)

	now = now.Add(2 * time.Second)

	if _, err := store.Get(ctx, "short"); !errors.Is(err, ErrMiss) {
		t.Errorf("expired entry returned, error = %v", err)
	}
	if _, err := store.Get(ctx, "long"); err != nil {
		t.Errorf("live entry missing: %v", err)
	}
}

func TestMemoryStoreCleanExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(ctx, "a", []byte("1"), time.Second)
	store.Set(ctx, "b", []byte("2"), time.Second)
	store.Set(ctx, "c", []byte("3"), time.Hour)

	now = now.Add(time.Minute)

	if removed := store.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestMemoryStoreEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)

	store.Set(ctx, "a", []byte("1"), time.Hour)
	store.Set(ctx, "b", []byte("2"), time.Hour)
	store.Get(ctx, "a")
	store.Set(ctx, "c", []byte("3"), time.Hour)

	if _, err := store.Get(ctx, "b"); !errors.Is(err, ErrMiss) {
		t.Errorf("b should have been evicted, error = %v", err)
	}
	for _, key := range []string{"a", "c"} {
		if _, err := store.Get(ctx, key); err != nil {
			t.Errorf("%s should be present: %v", key, err)
		}
	}
}

func TestMemoryStoreVersions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10)

	if v, _ := store.Version(ctx, LedgerScope); v != 0 {
		t.Errorf("initial version = %d, want 0", v)
	}
	for want := int64(1); want <= 3; want++ {
		v, err := store.Bump(ctx, LedgerScope)
		if err != nil || v != want {
			t.Fatalf("Bump() = %d, %v, want %d", v, err, want)
		}
	}
	if v, _ := store.Version(ctx, LedgerScope); v != 3 {
		t.Errorf("Version() = %d, want 3", v)
	}
	if v, _ := store.Version(ctx, "other"); v != 0 {
		t.Errorf("scopes must be independent, got %d", v)
	}
}

func TestMemoryStoreStartCleanupStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore(10)
	store.Set(ctx, "gone", []byte("x"), time.Nanosecond)

	store.StartCleanup(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if store.Len() != 0 {
		t.Errorf("background cleanup did not run, Len() = %d", store.Len())
	}
}
