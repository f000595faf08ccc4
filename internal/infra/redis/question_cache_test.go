package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"globetrotter-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionCacheFillsRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{dataset: sampleQuestions()}
	cache := NewQuestionCache(client, loader, 5*time.Minute)

	questions, err := cache.Questions(context.Background())
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if !mr.Exists("questions:all") {
		t.Fatalf("expected cache key to be set")
	}

	if _, err := cache.Questions(context.Background()); err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls.Load())
	}
}

func TestQuestionCacheFallsBackOnMiss(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{dataset: sampleQuestions()}
	cache := NewQuestionCache(client, loader, 5*time.Minute)

	if _, err := cache.Questions(context.Background()); err != nil {
		t.Fatalf("questions: %v", err)
	}

	mr.FlushAll()
	if _, err := cache.Questions(context.Background()); err != nil {
		t.Fatalf("questions after flush: %v", err)
	}
	if loader.calls.Load() != 2 {
		t.Fatalf("expected reload after eviction, loader calls %d", loader.calls.Load())
	}
}

func TestQuestionCacheCollapsesConcurrentMisses(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{dataset: sampleQuestions(), delay: 50 * time.Millisecond}
	cache := NewQuestionCache(client, loader, 5*time.Minute)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Questions(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent questions: %v", err)
	}
	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("expected concurrent misses to collapse into one load, got %d", got)
	}
}

type countingLoader struct {
	dataset []domain.Question
	delay   time.Duration
	calls   atomic.Int32
}

func (l *countingLoader) LoadQuestions(context.Context) ([]domain.Question, error) {
	l.calls.Add(1)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	return l.dataset, nil
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{City: "Paris", Country: "France", Clues: []string{"City of lights"}},
		{City: "Tokyo", Country: "Japan", Clues: []string{"Busiest crossing"}},
	}
}
