package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"globetrotter-service/internal/app"
	"globetrotter-service/internal/config"
	"globetrotter-service/internal/domain"
	"globetrotter-service/internal/infra/memory"
	"globetrotter-service/internal/infra/postgres"
	redisinfra "globetrotter-service/internal/infra/redis"
	transport "globetrotter-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the Globetrotter server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestionLoader
	switch {
	case pool != nil:
		loader = postgres.NewQuestionLoader(pool)
	case cfg.Questions.Dataset != "":
		questions, err := loadDataset(cfg.Questions.Dataset)
		if err != nil {
			return err
		}
		loader = memory.NewStaticQuestionLoader(questions)
	default:
		loader = memory.NewStaticQuestionLoader(sampleQuestions())
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questionRepo app.QuestionRepository
	if redisClient != nil {
		questionRepo = redisinfra.NewQuestionCache(redisClient, loader, questionTTL)
	} else {
		questionRepo = memory.NewQuestionCache(loader, questionTTL)
	}

	var userRepo app.UserRepository
	if pool != nil {
		userRepo = postgres.NewUserRepository(pool)
	} else {
		userRepo = memory.NewUserRepository()
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	service := app.NewGameService(userRepo, questionRepo, sessions)
	router := transport.Router(service, cfg.Server.CORSOrigins)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting globetrotter service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions provides a minimal built-in dataset; point questions.dataset
// at a real file (or seed Postgres) for the full game.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			City:    "Paris",
			Country: "France",
			Clues:   []string{"This city is home to a famous tower that sparkles every night.", "Known as the City of Love."},
			FunFact: []string{"The Eiffel Tower was supposed to be dismantled after 20 years."},
			Trivia:  []string{"Croissants were actually invented in Austria, not here."},
		},
		{
			City:    "Tokyo",
			Country: "Japan",
			Clues:   []string{"This city has the busiest pedestrian crossing in the world.", "You can eat sushi at 3 AM here."},
			FunFact: []string{"More than 14 million people live in the city proper."},
			Trivia:  []string{"The city's metro network moves billions of passengers a year."},
		},
		{
			City:    "New York",
			Country: "USA",
			Clues:   []string{"Home to a green statue gifted by France.", "Nicknamed the Big Apple."},
			FunFact: []string{"The subway runs 24 hours a day."},
			Trivia:  []string{"Times Square is named after a newspaper."},
		},
		{
			City:    "Rome",
			Country: "Italy",
			Clues:   []string{"An ancient amphitheatre dominates this city's skyline.", "All roads lead here."},
			FunFact: []string{"Visitors throw about a million euros into one fountain each year."},
			Trivia:  []string{"It is the only city with a whole country inside it."},
		},
		{
			City:    "Sydney",
			Country: "Australia",
			Clues:   []string{"Its opera house looks like sails in the harbour."},
			FunFact: []string{"The harbour bridge is nicknamed the Coathanger."},
			Trivia:  []string{"The opera house roof is covered in over a million tiles."},
		},
	}
}
