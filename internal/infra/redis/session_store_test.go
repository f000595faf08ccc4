package redis

import (
	"context"
	"sort"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	ctx := context.Background()

	if err := store.SaveUsedCities(ctx, "alice", []string{"Paris", "Tokyo"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("play:session:alice") {
		t.Fatalf("expected session key to be set")
	}

	cities, err := store.UsedCities(ctx, "alice")
	if err != nil {
		t.Fatalf("used cities: %v", err)
	}
	sort.Strings(cities)
	if len(cities) != 2 || cities[0] != "Paris" || cities[1] != "Tokyo" {
		t.Fatalf("unexpected cities: %v", cities)
	}
}

func TestSessionStoreSaveReplacesSet(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	ctx := context.Background()

	_ = store.SaveUsedCities(ctx, "alice", []string{"Paris", "Tokyo"})
	// a reset after exhausting the dataset stores only the fresh pick
	if err := store.SaveUsedCities(ctx, "alice", []string{"Rome"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	cities, err := store.UsedCities(ctx, "alice")
	if err != nil {
		t.Fatalf("used cities: %v", err)
	}
	if len(cities) != 1 || cities[0] != "Rome" {
		t.Fatalf("expected only Rome, got %v", cities)
	}
}
