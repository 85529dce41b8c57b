package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGormStore(t *testing.T, ttl time.Duration) *Gorm {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGorm(db, ttl)
}

// exerciseStore runs the common contract against any backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok:%v err:%v", ok, err)
	}
	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, err := s.Get(ctx, "k"); err != nil || !ok || v != "v1" {
		t.Fatalf("Get(k) = %q ok:%v err:%v", v, ok, err)
	}
	if err := s.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if v, _, _ := s.Get(ctx, "k"); v != "v2" {
		t.Fatalf("expected overwrite, got %q", v)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected key removed")
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove absent key: %v", err)
	}
}

func TestMemory_Contract(t *testing.T) {
	exerciseStore(t, NewMemory(0))
}

func TestGorm_Contract(t *testing.T) {
	exerciseStore(t, setupGormStore(t, 0))
}

func TestScoped_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	base := NewMemory(0)
	a := Scoped(base, "a")
	b := Scoped(base, "b")

	exerciseStore(t, a)

	if err := a.Set(ctx, HandoffKey, "for-a"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := b.Get(ctx, HandoffKey); ok {
		t.Fatalf("session b sees session a's value")
	}
	if v, ok, _ := base.Get(ctx, "session:a:"+HandoffKey); !ok || v != "for-a" {
		t.Fatalf("unexpected base key layout: %q %v", v, ok)
	}
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	now := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "a", "1")
	_ = m.Set(ctx, "b", "2")
	now = now.Add(2 * time.Minute)

	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Fatalf("expected a to be expired")
	}
	n, err := m.Sweep(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Sweep = %d, %v; want 1", n, err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty store, got %d", m.Len())
	}
}

func TestGorm_Expiry(t *testing.T) {
	ctx := context.Background()
	g := setupGormStore(t, time.Minute)
	now := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	if err := g.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := g.Set(ctx, "b", "2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := g.Get(ctx, "a"); !ok {
		t.Fatalf("expected a before expiry")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := g.Get(ctx, "a"); ok {
		t.Fatalf("expected a to be expired")
	}
	n, err := g.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("Sweep removed %d rows, want 1", n)
	}
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	h, err := Open(ctx, Options{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := h.Store.(*Memory); !ok {
		t.Errorf("expected *Memory, got %T", h.Store)
	}
	_ = h.Close()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	h, err = Open(ctx, Options{Driver: DriverSQLite, SQLitePath: dsn, Migrate: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	exerciseStore(t, h.Store)
	if err := h.Close(); err != nil {
		t.Errorf("close sqlite: %v", err)
	}

	if _, err := Open(ctx, Options{Driver: "etcd"}); err == nil {
		t.Errorf("expected error for unknown driver")
	}
}

func TestGorm_Ping(t *testing.T) {
	var p Pinger = setupGormStore(t, 0)
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
