package sessionstore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"quotebuilder/services"
)

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "http://localhost:6379", time.Hour)
	if err == nil || !strings.Contains(err.Error(), "parse Redis URL") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, "redis://127.0.0.1:1/0", time.Hour)
	if err == nil || !strings.Contains(err.Error(), "connect to Redis") {
		t.Errorf("expected connection error, got %v", err)
	}
}

func newMiniRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, mr := newMiniRedisStore(t, time.Hour)
	ctx := context.Background()

	empty, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load(unknown) error = %v", err)
	}
	if empty.State != services.QuoteEmpty || empty.ProjectID != "" {
		t.Errorf("unknown key should load an empty session, got %+v", empty)
	}

	sess := services.QuoteSession{
		ProjectID: "p1",
		Labor: []services.LaborType{
			{ID: "l1", Name: "Installer", HourlyRate: 85, HoursAdjustment: services.SomeNumber(-5)},
			{ID: "l2", Name: "Engineer", HourlyRate: 140},
		},
		CustomItems: []services.CustomItem{{ID: "c1", Description: "Freight", Quantity: 3, UnitPrice: 10, Category: services.CustomCategoryShipping, TotalPrice: 30}},
		State:       services.QuoteBuilding,
	}
	if err := store.Save(ctx, "s1", sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !mr.Exists(redisKeyPrefix + "s1") {
		t.Fatalf("expected key %q in redis, have %v", redisKeyPrefix+"s1", mr.Keys())
	}

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ProjectID != "p1" || len(got.Labor) != 2 || len(got.CustomItems) != 1 || got.State != services.QuoteBuilding {
		t.Fatalf("unexpected session %+v", got)
	}
	if got.Labor[0].HoursAdjustment != services.SomeNumber(-5) || got.Labor[1].HoursAdjustment.Valid {
		t.Errorf("hours adjustments not preserved: %+v", got.Labor)
	}

	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := store.Clear(ctx, "s1"); err != nil {
		t.Errorf("Clear() of a missing session should be a no-op, got %v", err)
	}
	cleared, _ := store.Load(ctx, "s1")
	if len(cleared.Labor) != 0 || cleared.State != services.QuoteEmpty {
		t.Errorf("expected empty session after Clear, got %+v", cleared)
	}
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newMiniRedisStore(t, time.Hour)
	ctx := context.Background()
	key := redisKeyPrefix + "s1"

	store.Save(ctx, "s1", services.QuoteSession{ProjectID: "p1", State: services.QuoteBuilding})
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Fatalf("TTL after Save = %v, want 1h", ttl)
	}

	// Each save refreshes the expiry.
	mr.FastForward(40 * time.Minute)
	store.Save(ctx, "s1", services.QuoteSession{ProjectID: "p1", State: services.QuoteBuilding})
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("TTL after second Save = %v, want refreshed to 1h", ttl)
	}

	mr.FastForward(time.Hour + time.Second)
	sess, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load() after expiry error = %v", err)
	}
	if sess.ProjectID != "" || sess.State != services.QuoteEmpty {
		t.Errorf("expired session should load empty, got %+v", sess)
	}
}

func TestRedisStore_NoTTL(t *testing.T) {
	store, mr := newMiniRedisStore(t, 0)

	store.Save(context.Background(), "s1", services.QuoteSession{ProjectID: "p1"})
	if ttl := mr.TTL(redisKeyPrefix + "s1"); ttl != 0 {
		t.Errorf("TTL = %v, want no expiry", ttl)
	}
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newMiniRedisStore(t, time.Hour)
	mr.Set(redisKeyPrefix+"s1", "{not json")

	if _, err := store.Load(context.Background(), "s1"); err == nil || !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("expected unmarshal error, got %v", err)
	}
}

func TestRedisStore_WithAssembler(t *testing.T) {
	store, _ := newMiniRedisStore(t, time.Hour)
	a := services.NewQuoteAssembler(store)
	ctx := context.Background()

	if _, err := a.BindProject(ctx, "k", "p1"); err != nil {
		t.Fatalf("BindProject() error = %v", err)
	}
	if err := a.AddLabor(ctx, "k", services.LaborType{ID: "l1", Name: "Installer"}); err != nil {
		t.Fatalf("AddLabor() error = %v", err)
	}
	if err := a.AddLabor(ctx, "k", services.LaborType{ID: "l1", Name: "Installer"}); err == nil {
		t.Error("expected AlreadyAddedError through the redis store")
	}
	sess, _ := a.Session(ctx, "k")
	if len(sess.Labor) != 1 || sess.State != services.QuoteBuilding {
		t.Errorf("unexpected session %+v", sess)
	}

	if err := a.Clear(ctx, "k"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	sess, _ = a.Session(ctx, "k")
	if sess.ProjectID != "" || len(sess.Labor) != 0 {
		t.Errorf("expected cleared session, got %+v", sess)
	}
}
