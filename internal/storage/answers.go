package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/emotipal/psychobot/core/logger"
	"github.com/emotipal/psychobot/internal/models"
)

// AnswerRepo persists the user's chosen options. The table carries a
// UNIQUE (user_id, question_id) constraint, so Upsert is atomic even
// when a double-tapped button fires two submissions at once.
type AnswerRepo struct {
	db *sqlx.DB
}

// NewAnswerRepo wraps the shared database handle.
func NewAnswerRepo(db *sqlx.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// Upsert records the user's choice for a question, replacing any prior
// choice. Last write wins; rows are never duplicated.
func (r *AnswerRepo) Upsert(ctx context.Context, userID, testID, questionID, optionID int64) error {
	start := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO answers (user_id, test_id, question_id, option_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, question_id)
		DO UPDATE SET option_id = EXCLUDED.option_id, test_id = EXCLUDED.test_id, answered_at = now()`,
		userID, testID, questionID, optionID)
	if err != nil {
		return fmt.Errorf("upsert answer (user=%d question=%d): %w", userID, questionID, err)
	}
	logger.Debug(ctx, "service.exam", "answer.upserted",
		slog.Int64("test_id", testID),
		slog.Int64("question_id", questionID),
		slog.Int64("option_id", optionID),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// FullHistory returns every answer of the user joined with question
// text, option text, score weight, and the owning test slug. Rows come
// back ordered by test and question position so aggregation output is
// deterministic.
func (r *AnswerRepo) FullHistory(ctx context.Context, userID int64) ([]models.AnswerRecord, error) {
	var rows []models.AnswerRecord
	err := r.db.SelectContext(ctx, &rows, `
		SELECT t.slug          AS test_slug,
		       q.id            AS question_id,
		       q.ord           AS question_ord,
		       q.question_text AS question_text,
		       o.option_text   AS option_text,
		       o.score_weight  AS score_weight
		FROM answers a
		JOIN questions q ON q.id = a.question_id
		JOIN options o   ON o.id = a.option_id
		JOIN tests t     ON t.id = a.test_id
		WHERE a.user_id = $1
		ORDER BY t.slug, q.ord`, userID)
	if err != nil {
		return nil, fmt.Errorf("select answer history (user=%d): %w", userID, err)
	}
	return rows, nil
}

// CountAll reports the total number of stored answers, for the admin panel.
func (r *AnswerRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM answers`); err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}
	return n, nil
}
