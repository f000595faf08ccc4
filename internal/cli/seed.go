package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"globetrotter-service/internal/config"
	"globetrotter-service/internal/domain"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

// questionRow is the persisted shape: one JSONB document per city.
type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	City string          `bun:"city,pk"`
	Data json.RawMessage `bun:"data,type:jsonb"`
}

// NewSeedCmd loads a question dataset file into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var datasetPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the question dataset into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, datasetPath)
		},
	}
	cmd.Flags().StringVar(&datasetPath, "file", "", "dataset JSON file (defaults to questions.dataset from config)")
	return cmd
}

func runSeed(ctx context.Context, configPath, datasetPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if datasetPath == "" {
		datasetPath = cfg.Questions.Dataset
	}
	if datasetPath == "" {
		return fmt.Errorf("no dataset file given (use --file or questions.dataset in config)")
	}

	questions, err := loadDataset(datasetPath)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("dataset %s is empty", datasetPath)
	}

	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal question %q: %w", q.City, err)
		}
		rows = append(rows, questionRow{City: q.City, Data: data})
	}

	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	if _, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (city) DO UPDATE").
		Set("data = EXCLUDED.data").
		Exec(ctx); err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}

	log.Printf("seeded %d questions from %s", len(rows), datasetPath)
	return nil
}

func loadDataset(path string) ([]domain.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return questions, nil
}
