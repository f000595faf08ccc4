package app_test

import (
	"math/rand"
	"testing"

	"globetrotter-service/internal/app"
	"globetrotter-service/internal/domain"
)

func TestPickQuestionSkipsUsedCities(t *testing.T) {
	dataset := cityDataset("Paris", "Tokyo", "Rome", "Sydney", "Cairo")
	used := map[string]bool{"Paris": true, "Tokyo": true, "Rome": true, "Sydney": true}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		round, usedAfter, err := app.PickQuestion(dataset, used, rng)
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		if round.CorrectAnswer != "Cairo" {
			t.Fatalf("expected the only unused city, got %q", round.CorrectAnswer)
		}
		if !usedAfter["Cairo"] || len(usedAfter) != 5 {
			t.Fatalf("expected Cairo marked used, got %v", usedAfter)
		}
	}
}

func TestPickQuestionResetsWhenExhausted(t *testing.T) {
	dataset := cityDataset("Paris", "Tokyo", "Rome", "Sydney", "Cairo")
	used := map[string]bool{"Paris": true, "Tokyo": true, "Rome": true, "Sydney": true, "Cairo": true}
	rng := rand.New(rand.NewSource(2))

	round, usedAfter, err := app.PickQuestion(dataset, used, rng)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if len(usedAfter) != 1 {
		t.Fatalf("expected used set reset to the fresh pick, got %v", usedAfter)
	}
	if !usedAfter[round.CorrectAnswer] {
		t.Fatalf("expected %q marked used after reset", round.CorrectAnswer)
	}
}

func TestPickQuestionEmptyDataset(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	if _, _, err := app.PickQuestion(nil, nil, rng); err != domain.ErrNoQuestions {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestBuildOptionsContainsAnswerExactlyOnce(t *testing.T) {
	dataset := cityDataset("Paris", "Tokyo", "Rome", "Sydney", "Cairo", "London")
	rng := rand.New(rand.NewSource(4))

	for _, q := range dataset {
		options := app.BuildOptions(dataset, q.City, rng)
		if len(options) != 4 {
			t.Fatalf("expected 4 options, got %v", options)
		}
		count := 0
		for _, o := range options {
			if o == q.City {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("expected %q once among options, got %v", q.City, options)
		}
	}
}

func TestBuildOptionsSmallDataset(t *testing.T) {
	dataset := cityDataset("Paris", "Tokyo")
	rng := rand.New(rand.NewSource(5))

	options := app.BuildOptions(dataset, "Paris", rng)
	if len(options) != 2 {
		t.Fatalf("expected min(4, dataset size) options, got %v", options)
	}
}

func TestBuildOptionsDistractorsAreFirstThreeOthers(t *testing.T) {
	dataset := cityDataset("Paris", "Tokyo", "Rome", "Sydney", "Cairo")
	rng := rand.New(rand.NewSource(6))

	options := app.BuildOptions(dataset, "Cairo", rng)
	want := map[string]bool{"Cairo": true, "Paris": true, "Tokyo": true, "Rome": true}
	if len(options) != len(want) {
		t.Fatalf("expected %d options, got %v", len(want), options)
	}
	for _, o := range options {
		if !want[o] {
			t.Fatalf("unexpected distractor %q in %v", o, options)
		}
	}
}

func cityDataset(cities ...string) []domain.Question {
	dataset := make([]domain.Question, 0, len(cities))
	for _, city := range cities {
		dataset = append(dataset, domain.Question{
			City:   city,
			Clues:  []string{"clue for " + city},
			Trivia: []string{"trivia for " + city},
		})
	}
	return dataset
}
