package exam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/emotipal/psychobot/core/logger"
	"github.com/emotipal/psychobot/internal/models"
	"github.com/emotipal/psychobot/internal/storage"
)

// Catalog is the read-only view of published tests the engine navigates over.
type Catalog interface {
	QuestionByOrder(ctx context.Context, testID int64, ord int) (*models.Question, error)
	Options(ctx context.Context, questionID int64) ([]models.Option, error)
	TotalQuestions(ctx context.Context, testID int64) (int, error)
	QuestionOrder(ctx context.Context, questionID int64) (int, error)
}

// Answers is the durable per-(user, question) answer store.
type Answers interface {
	Upsert(ctx context.Context, userID, testID, questionID, optionID int64) error
	FullHistory(ctx context.Context, userID int64) ([]models.AnswerRecord, error)
}

// Users resolves Telegram ids to internal user ids. Unregistered users
// resolve to storage.ErrNotFound.
type Users interface {
	ResolveTelegramID(ctx context.Context, telegramID int64) (int64, error)
}

// QuestionView is the UI state returned for one question: everything a
// renderer needs to draw the message and its inline keyboard.
type QuestionView struct {
	QuestionID int64
	TestID     int64
	Text       string
	Order      int
	Total      int
	Options    []models.Option
}

// SubmitOutcome is the result of recording an answer: either the next
// question or a completion signal when the test has no further questions.
type SubmitOutcome struct {
	Completed bool
	Next      *QuestionView
}

// Engine runs exam sessions without storing any session object. The
// user's position is derived per event from the caller-supplied order
// and the catalog, so the engine survives restarts and scales out with
// no shared state.
type Engine struct {
	catalog Catalog
	answers Answers
	users   Users

	now func() time.Time
}

// NewEngine wires the engine with its collaborators.
func NewEngine(catalog Catalog, answers Answers, users Users) *Engine {
	return &Engine{
		catalog: catalog,
		answers: answers,
		users:   users,
		now:     time.Now,
	}
}

// StartTest begins (or resumes at the top) a test for a registered
// user, returning the first question.
func (e *Engine) StartTest(ctx context.Context, telegramID, testID int64) (*QuestionView, error) {
	if _, err := e.resolveUser(ctx, telegramID); err != nil {
		return nil, err
	}

	total, err := e.catalog.TotalQuestions(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("total questions (test=%d): %w", testID, err)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w (test=%d)", ErrTestEmpty, testID)
	}

	view, err := e.QuestionByOrder(ctx, testID, 1)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "service.exam", "test.started",
		slog.Int64("user_id", telegramID),
		slog.Int64("test_id", testID),
		slog.Int("total", total),
	)
	return view, nil
}

// QuestionByOrder returns the full view of the question at the given
// 1-based position. Out-of-range positions fail with ErrQuestionNotFound;
// this also serves the review/jump navigation action.
func (e *Engine) QuestionByOrder(ctx context.Context, testID int64, ord int) (*QuestionView, error) {
	q, err := e.catalog.QuestionByOrder(ctx, testID, ord)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w (test=%d order=%d)", ErrQuestionNotFound, testID, ord)
		}
		return nil, fmt.Errorf("question by order (test=%d order=%d): %w", testID, ord, err)
	}

	opts, err := e.catalog.Options(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("options (question=%d): %w", q.ID, err)
	}

	total, err := e.catalog.TotalQuestions(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("total questions (test=%d): %w", testID, err)
	}

	return &QuestionView{
		QuestionID: q.ID,
		TestID:     testID,
		Text:       q.Text,
		Order:      ord,
		Total:      total,
		Options:    opts,
	}, nil
}

// SubmitAnswer validates the user and question, upserts the choice
// (last write wins), and derives the next UI state. The question is
// resolved before the write so a bad question id never leaves a
// half-written answer. The total is recomputed fresh: the completion
// decision never trusts a stale count.
func (e *Engine) SubmitAnswer(ctx context.Context, telegramID, testID, questionID, optionID int64) (*SubmitOutcome, error) {
	userID, err := e.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	ord, err := e.catalog.QuestionOrder(ctx, questionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w (question=%d)", ErrQuestionNotFound, questionID)
		}
		return nil, fmt.Errorf("question order (question=%d): %w", questionID, err)
	}

	if err := e.answers.Upsert(ctx, userID, testID, questionID, optionID); err != nil {
		return nil, err
	}

	total, err := e.catalog.TotalQuestions(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("total questions (test=%d): %w", testID, err)
	}

	nextOrd := ord + 1
	if nextOrd > total {
		logger.Info(ctx, "service.exam", "test.completed",
			slog.Int64("user_id", telegramID),
			slog.Int64("test_id", testID),
			slog.Int("total", total),
		)
		return &SubmitOutcome{Completed: true}, nil
	}

	next, err := e.QuestionByOrder(ctx, testID, nextOrd)
	if err != nil {
		return nil, err
	}
	return &SubmitOutcome{Next: next}, nil
}

// AggregateForAnalysis assembles the user's complete answer corpus into
// the canonical payload for the analysis stage: history grouped by test
// slug, entries ordered by question position, weights passed through
// untouched. Built fresh on every call, never cached.
func (e *Engine) AggregateForAnalysis(ctx context.Context, telegramID int64) (*ResultPayload, error) {
	userID, err := e.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	history, err := e.answers.FullHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The store already orders rows, but determinism here must not
	// depend on the store's contract alone.
	sort.SliceStable(history, func(i, j int) bool {
		if history[i].TestSlug != history[j].TestSlug {
			return history[i].TestSlug < history[j].TestSlug
		}
		return history[i].QuestionOrd < history[j].QuestionOrd
	})

	payload := &ResultPayload{
		UserContext: UserContext{
			ID:          telegramID,
			CompletedAt: e.now().Format("2006-01-02 15:04:05"),
		},
		Tests: make(map[string][]ResultEntry),
	}
	for _, rec := range history {
		payload.Tests[rec.TestSlug] = append(payload.Tests[rec.TestSlug], ResultEntry{
			Question:       rec.QuestionText,
			SelectedOption: rec.OptionText,
			Weights:        rec.ScoreWeight,
		})
	}

	logger.Info(ctx, "service.exam", "results.aggregated",
		slog.Int64("user_id", telegramID),
		slog.Int("answers_total", len(history)),
		slog.Int("tests_total", len(payload.Tests)),
	)
	return payload, nil
}

func (e *Engine) resolveUser(ctx context.Context, telegramID int64) (int64, error) {
	userID, err := e.users.ResolveTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("%w (user=%d)", ErrNotRegistered, telegramID)
		}
		return 0, fmt.Errorf("resolve user (tg=%d): %w", telegramID, err)
	}
	return userID, nil
}
