package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/emotipal/psychobot/core/logger"
)

type seedOption struct {
	text   string
	weight string
}

type seedQuestion struct {
	text    string
	options []seedOption
}

type seedTest struct {
	slug      string
	title     string
	questions []seedQuestion
}

// demoTests is a minimal catalog so a fresh install has something to
// offer. Real instruments are loaded through migrations or an import job.
var demoTests = []seedTest{
	{
		slug:  "mbti-mini",
		title: "MBTI (short form)",
		questions: []seedQuestion{
			{
				text: "At a party you usually...",
				options: []seedOption{
					{text: "Talk to as many people as possible", weight: `{"E": 1}`},
					{text: "Stay with a few people you know well", weight: `{"I": 1}`},
				},
			},
			{
				text: "When solving a problem you trust...",
				options: []seedOption{
					{text: "Concrete facts and experience", weight: `{"S": 1}`},
					{text: "Hunches and patterns", weight: `{"N": 1}`},
				},
			},
			{
				text: "Decisions should be made...",
				options: []seedOption{
					{text: "With the head", weight: `{"T": 1}`},
					{text: "With the heart", weight: `{"F": 1}`},
				},
			},
		},
	},
}

// SeedDemoCatalog inserts the demo catalog if it is not present yet.
// Inserts are keyed by slug/position so reruns are no-ops.
func SeedDemoCatalog(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, t := range demoTests {
		var testID int64
		err := tx.GetContext(ctx, &testID, `
			INSERT INTO tests (slug, title, is_active)
			VALUES ($1, $2, TRUE)
			ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title
			RETURNING id`, t.slug, t.title)
		if err != nil {
			return fmt.Errorf("seed: test %s: %w", t.slug, err)
		}

		for i, q := range t.questions {
			var questionID int64
			err := tx.GetContext(ctx, &questionID, `
				INSERT INTO questions (test_id, question_text, ord)
				VALUES ($1, $2, $3)
				ON CONFLICT (test_id, ord) DO UPDATE SET question_text = EXCLUDED.question_text
				RETURNING id`, testID, q.text, i+1)
			if err != nil {
				return fmt.Errorf("seed: question %d of %s: %w", i+1, t.slug, err)
			}

			for _, o := range q.options {
				res, err := tx.ExecContext(ctx, `
					INSERT INTO options (question_id, option_text, score_weight)
					SELECT $1, $2, $3::jsonb
					WHERE NOT EXISTS (
						SELECT 1 FROM options WHERE question_id = $1 AND option_text = $2
					)`, questionID, o.text, o.weight)
				if err != nil {
					return fmt.Errorf("seed: option %q of %s: %w", o.text, t.slug, err)
				}
				if n, _ := res.RowsAffected(); n > 0 {
					inserted++
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}

	logger.SEED.Info("catalog seeded",
		slog.String("event", "db.seed"),
		slog.Int("tests_total", len(demoTests)),
		slog.Int("count", inserted),
	)
	return nil
}
