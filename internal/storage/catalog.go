package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/emotipal/psychobot/core/logger"
	"github.com/emotipal/psychobot/internal/models"
)

// CatalogRepo provides read-only access to published tests, their
// questions, and options. The catalog never mutates through this type.
type CatalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo wraps the shared database handle.
func NewCatalogRepo(db *sqlx.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// ActiveTests returns all tests currently offered to users.
func (r *CatalogRepo) ActiveTests(ctx context.Context) ([]models.Test, error) {
	var tests []models.Test
	err := r.db.SelectContext(ctx, &tests,
		`SELECT id, slug, title, is_active FROM tests WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select active tests: %w", err)
	}
	return tests, nil
}

// TestByID returns a single test regardless of its active flag.
func (r *CatalogRepo) TestByID(ctx context.Context, testID int64) (*models.Test, error) {
	var t models.Test
	err := r.db.GetContext(ctx, &t,
		`SELECT id, slug, title, is_active FROM tests WHERE id = $1`, testID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select test %d: %w", testID, err)
	}
	return &t, nil
}

// QuestionByOrder returns the question at the 1-based position ord
// within the test, or ErrNotFound when the position is out of range.
func (r *CatalogRepo) QuestionByOrder(ctx context.Context, testID int64, ord int) (*models.Question, error) {
	start := time.Now()
	var q models.Question
	err := r.db.GetContext(ctx, &q,
		`SELECT id, test_id, question_text, ord FROM questions WHERE test_id = $1 AND ord = $2`,
		testID, ord)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select question (test=%d ord=%d): %w", testID, ord, err)
	}
	logger.Debug(ctx, "service.catalog", "question.fetched",
		slog.Int64("test_id", testID),
		slog.Int("order", ord),
		slog.Duration("duration", logger.Took(start)),
	)
	return &q, nil
}

// Options returns the ordered option list of a question.
func (r *CatalogRepo) Options(ctx context.Context, questionID int64) ([]models.Option, error) {
	var opts []models.Option
	err := r.db.SelectContext(ctx, &opts,
		`SELECT id, question_id, option_text, score_weight FROM options WHERE question_id = $1 ORDER BY id`,
		questionID)
	if err != nil {
		return nil, fmt.Errorf("select options (question=%d): %w", questionID, err)
	}
	return opts, nil
}

// TotalQuestions returns the number of questions in a test. The count
// is taken fresh on every call so navigation never acts on a stale
// test definition.
func (r *CatalogRepo) TotalQuestions(ctx context.Context, testID int64) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM questions WHERE test_id = $1`, testID)
	if err != nil {
		return 0, fmt.Errorf("count questions (test=%d): %w", testID, err)
	}
	return total, nil
}

// QuestionOrder resolves a question id to its position within its test.
func (r *CatalogRepo) QuestionOrder(ctx context.Context, questionID int64) (int, error) {
	var ord int
	err := r.db.GetContext(ctx, &ord,
		`SELECT ord FROM questions WHERE id = $1`, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("select question order (question=%d): %w", questionID, err)
	}
	return ord, nil
}

// CompletedTestIDs returns ids of tests for which the user has answered
// every question. Used for checkmarks in the tests list; completion is
// a derived view, not a stored flag.
func (r *CatalogRepo) CompletedTestIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `
		SELECT q.test_id
		FROM questions q
		LEFT JOIN answers a ON a.question_id = q.id AND a.user_id = $1
		GROUP BY q.test_id
		HAVING COUNT(*) = COUNT(a.id)`, userID)
	if err != nil {
		return nil, fmt.Errorf("select completed tests (user=%d): %w", userID, err)
	}
	return ids, nil
}
