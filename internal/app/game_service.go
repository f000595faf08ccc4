package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"globetrotter-service/internal/domain"
	"github.com/google/uuid"
)

// referralCodeLength matches the short shareable code format: the first four
// characters of a random UUID.
const referralCodeLength = 4

// maxCodeAttempts bounds the retry loop when a generated code collides with an
// existing one.
const maxCodeAttempts = 10

// UserRepository abstracts how player records are stored (in-memory, Postgres, etc).
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	ByUsername(ctx context.Context, username string) (domain.User, error)
	ByReferralCode(ctx context.Context, code string) (domain.User, error)
	// IncrementScore bumps exactly one counter by one and returns the updated record.
	IncrementScore(ctx context.Context, username string, correct bool) (domain.User, error)
}

// QuestionRepository serves the read-only question collection (from cache/backing store).
type QuestionRepository interface {
	Questions(ctx context.Context) ([]domain.Question, error)
}

// SessionRepository tracks which cities have already been served to a player.
type SessionRepository interface {
	UsedCities(ctx context.Context, username string) ([]string, error)
	SaveUsedCities(ctx context.Context, username string, cities []string) error
}

// GameService contains the quiz use cases: registration, referral resolution,
// question access, round picking, and scoring.
type GameService struct {
	users     UserRepository
	questions QuestionRepository
	sessions  SessionRepository

	// rngMu guards rng: handlers call NextQuestion from concurrent
	// goroutines and rand.Rand is not safe for concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewGameService(users UserRepository, questions QuestionRepository, sessions SessionRepository) *GameService {
	return &GameService{
		users:     users,
		questions: questions,
		sessions:  sessions,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Register creates a player record with a fresh referral code. Registering an
// existing username is not an error: the call reports AlreadyRegistered and
// writes nothing.
func (s *GameService) Register(ctx context.Context, username, referralCode string) (domain.RegisterResult, error) {
	if username == "" {
		return domain.RegisterResult{}, domain.ErrUsernameRequired
	}

	if existing, err := s.users.ByUsername(ctx, username); err == nil {
		return domain.RegisterResult{AlreadyRegistered: true, User: existing}, nil
	} else if err != domain.ErrUserNotFound {
		return domain.RegisterResult{}, fmt.Errorf("register %q: %w", username, err)
	}

	code, err := s.newReferralCode(ctx)
	if err != nil {
		return domain.RegisterResult{}, fmt.Errorf("register %q: %w", username, err)
	}

	user := domain.User{
		Username:     username,
		ReferralCode: code,
		ReferredBy:   referralCode,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.RegisterResult{}, fmt.Errorf("register %q: %w", username, err)
	}

	if referralCode != "" {
		// Referral acknowledgment is deliberately effect-free: the referrer is
		// looked up for validity but no reward counter exists yet.
		if referrer, err := s.users.ByReferralCode(ctx, referralCode); err == nil {
			log.Printf("user %s registered via referral from %s", username, referrer.Username)
		}
	}

	return domain.RegisterResult{User: user}, nil
}

// newReferralCode draws short codes until one is unused. Collisions are rare but
// possible with 4-character codes, so generation is checked against the store.
func (s *GameService) newReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := uuid.New().String()[:referralCodeLength]
		_, err := s.users.ByReferralCode(ctx, code)
		if err == domain.ErrUserNotFound {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate a unique referral code after %d attempts", maxCodeAttempts)
}

// ResolveReferral returns the record of the player owning the given referral code.
func (s *GameService) ResolveReferral(ctx context.Context, code string) (domain.User, error) {
	user, err := s.users.ByReferralCode(ctx, code)
	if err == domain.ErrUserNotFound {
		return domain.User{}, domain.ErrInvalidReferralCode
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("resolve referral %q: %w", code, err)
	}
	return user, nil
}

// Questions returns the full collection, unfiltered, in storage order.
func (s *GameService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.questions.Questions(ctx)
}

// NextQuestion picks an unseen question for the player and persists the updated
// used set. Once every city has been served, the set resets and picking starts over.
func (s *GameService) NextQuestion(ctx context.Context, username string) (domain.Round, error) {
	if _, err := s.users.ByUsername(ctx, username); err != nil {
		return domain.Round{}, err
	}

	dataset, err := s.questions.Questions(ctx)
	if err != nil {
		return domain.Round{}, fmt.Errorf("next question: %w", err)
	}

	usedList, err := s.sessions.UsedCities(ctx, username)
	if err != nil {
		return domain.Round{}, fmt.Errorf("next question: %w", err)
	}
	used := make(map[string]bool, len(usedList))
	for _, city := range usedList {
		used[city] = true
	}

	s.rngMu.Lock()
	round, usedAfter, err := PickQuestion(dataset, used, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		return domain.Round{}, err
	}

	cities := make([]string, 0, len(usedAfter))
	for city := range usedAfter {
		cities = append(cities, city)
	}
	if err := s.sessions.SaveUsedCities(ctx, username, cities); err != nil {
		return domain.Round{}, fmt.Errorf("next question: %w", err)
	}
	return round, nil
}

// SubmitAnswer checks the answer by exact equality and bumps the matching
// counter. Resubmission for the same question is not prevented.
func (s *GameService) SubmitAnswer(ctx context.Context, username, answer, correctAnswer string) (domain.AnswerResult, domain.User, error) {
	isCorrect := answer == correctAnswer

	user, err := s.users.IncrementScore(ctx, username, isCorrect)
	if err != nil {
		return domain.AnswerResult{}, domain.User{}, err
	}

	result := domain.AnswerResult{IsCorrect: isCorrect, Message: "🎉 Correct!"}
	if !isCorrect {
		result.Message = "😢 Incorrect!"
	}
	return result, user, nil
}

// Score returns the full player record including counters and referral code.
func (s *GameService) Score(ctx context.Context, username string) (domain.User, error) {
	return s.users.ByUsername(ctx, username)
}
