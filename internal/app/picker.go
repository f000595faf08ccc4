package app

import (
	"math/rand"

	"globetrotter-service/internal/domain"
)

// maxOptions is the target size of the multiple-choice set: the correct city
// plus three distractors.
const maxOptions = 4

// PickQuestion selects one question whose city is not in used, uniformly at
// random among the eligible entries. When every city has been used the set
// resets and the full dataset becomes eligible again, so picking never stalls.
// It returns the round and the used set including the newly served city.
// The function is pure apart from rng so it can back either a server endpoint
// or client-side selection.
func PickQuestion(dataset []domain.Question, used map[string]bool, rng *rand.Rand) (domain.Round, map[string]bool, error) {
	if len(dataset) == 0 {
		return domain.Round{}, nil, domain.ErrNoQuestions
	}

	eligible := make([]domain.Question, 0, len(dataset))
	for _, q := range dataset {
		if !used[q.City] {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		used = nil
		eligible = dataset
	}

	picked := eligible[rng.Intn(len(eligible))]

	usedAfter := make(map[string]bool, len(used)+1)
	for city := range used {
		usedAfter[city] = true
	}
	usedAfter[picked.City] = true

	round := domain.Round{
		Clues:         picked.Clues,
		Trivia:        picked.Trivia,
		Options:       BuildOptions(dataset, picked.City, rng),
		CorrectAnswer: picked.City,
	}
	return round, usedAfter, nil
}

// BuildOptions assembles the answer set: the correct city plus the first three
// other cities in dataset order. The distractor policy is positional on
// purpose; only the display order is randomized, with a uniform shuffle.
// Datasets smaller than four entries yield a smaller set.
func BuildOptions(dataset []domain.Question, correct string, rng *rand.Rand) []string {
	options := make([]string, 0, maxOptions)
	options = append(options, correct)
	for _, q := range dataset {
		if len(options) == maxOptions {
			break
		}
		if q.City != correct {
			options = append(options, q.City)
		}
	}

	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
