package cachestore

import (
	"path/filepath"
	"testing"
)

// runCallCacheSuite exercises the CallCache contract against any
// implementation.
func runCallCacheSuite(t *testing.T, cache CallCache) {
	t.Helper()

	// Missing key
	if _, ok, err := cache.Get("absent"); err != nil || ok {
		t.Errorf("Get(absent) = ok=%v err=%v, want miss", ok, err)
	}
	if ok, err := cache.Contains("absent"); err != nil || ok {
		t.Errorf("Contains(absent) = %v, %v, want false", ok, err)
	}

	// Roundtrip
	if err := cache.Put("k1", "v1"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	value, ok, err := cache.Get("k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != "v1" {
		t.Errorf("Get(k1) = %q, %v, want \"v1\", true", value, ok)
	}
	if ok, _ := cache.Contains("k1"); !ok {
		t.Error("Contains(k1) = false after Put")
	}

	// Overwrite replaces the previous value
	if err := cache.Put("k1", "v2"); err != nil {
		t.Fatalf("Put overwrite failed: %v", err)
	}
	if value, _, _ := cache.Get("k1"); value != "v2" {
		t.Errorf("Get after overwrite = %q, want \"v2\"", value)
	}

	// Values with delimiters and newlines survive intact
	payload := "[[[a summary\nwith newlines]]]"
	if err := cache.Put("k2", payload); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if value, _, _ := cache.Get("k2"); value != payload {
		t.Errorf("Get(k2) = %q, want %q", value, payload)
	}
}

func TestMemoryCallCache(t *testing.T) {
	cache := NewMemoryCallCache()
	defer cache.Close()

	runCallCacheSuite(t, cache)

	if got := cache.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestSQLiteCallCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	cache := NewSQLiteCallCache()
	if err := cache.Initialize(dbPath); err != nil {
		t.Fatalf("Failed to initialize cache: %v", err)
	}
	defer cache.Close()

	runCallCacheSuite(t, cache)
}

func TestSQLiteCallCachePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	first := NewSQLiteCallCache()
	if err := first.Initialize(dbPath); err != nil {
		t.Fatalf("Failed to initialize cache: %v", err)
	}
	if err := first.Put("persisted", "value"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := NewSQLiteCallCache()
	if err := second.Initialize(dbPath); err != nil {
		t.Fatalf("Failed to reopen cache: %v", err)
	}
	defer second.Close()

	value, ok, err := second.Get("persisted")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != "value" {
		t.Errorf("Entry did not survive reopen: %q, %v", value, ok)
	}
}
