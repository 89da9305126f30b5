package storage

import (
	"reflect"
	"testing"
	"time"

	"qber/internal/logging"
	"qber/internal/taxonomy"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRecords() []taxonomy.LeafRecord {
	return []taxonomy.LeafRecord{
		{ID: "a", Category1: "health", Category1Display: "Health", Type: taxonomy.Matrix1D, Order: 1},
		{ID: "b", Category1: "health", Category1Display: "Health", Category2: "wash", Category2Display: "WASH",
			Type: taxonomy.Matrix2D, IsHidden: true, Order: 2},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewTocCache(openTestDB(t))

	if err := cache.Set("p1", "q1", sampleRecords(), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok, err := cache.Get("p1", "q1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !reflect.DeepEqual(got, sampleRecords()) {
		t.Errorf("Get() = %+v, want %+v", got, sampleRecords())
	}
}

func TestCacheMiss(t *testing.T) {
	cache := NewTocCache(openTestDB(t))

	_, ok, err := cache.Get("p1", "never-set")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("expected cache miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewTocCache(openTestDB(t))

	if err := cache.Set("p1", "q1", sampleRecords(), -time.Second); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	_, ok, err := cache.Get("p1", "q1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("expected expired entry to miss")
	}
}

func TestCacheReplace(t *testing.T) {
	cache := NewTocCache(openTestDB(t))

	if err := cache.Set("p1", "q1", sampleRecords(), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	updated := []taxonomy.LeafRecord{{ID: "only", Order: 1}}
	if err := cache.Set("p1", "q1", updated, time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok, err := cache.Get("p1", "q1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if len(got) != 1 || got[0].ID != "only" {
		t.Errorf("expected replaced payload, got %+v", got)
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewTocCache(openTestDB(t))

	if err := cache.Set("p1", "q1", sampleRecords(), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := cache.Invalidate("p1", "q1"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}

	_, ok, err := cache.Get("p1", "q1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("expected miss after invalidation")
	}
}
