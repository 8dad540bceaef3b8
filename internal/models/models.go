package models

import (
	"encoding/json"
	"time"
)

// User is a registered Telegram user. Users are created by /start and
// referenced by internal id everywhere else.
type User struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	Username   *string   `db:"username"`
	IsBlocked  bool      `db:"is_blocked"`
	CreatedAt  time.Time `db:"created_at"`
}

// Test is a published psychometric instrument. Immutable once active.
type Test struct {
	ID       int64  `db:"id"`
	Slug     string `db:"slug"`
	Title    string `db:"title"`
	IsActive bool   `db:"is_active"`
}

// Question belongs to exactly one test. Ord is the 1-based dense
// position inside the test; the navigator relies on ords being
// contiguous with no gaps.
type Question struct {
	ID     int64  `db:"id"`
	TestID int64  `db:"test_id"`
	Text   string `db:"question_text"`
	Ord    int    `db:"ord"`
}

// Option is one selectable choice of a question. ScoreWeight is opaque
// structured data consumed only by the analysis stage.
type Option struct {
	ID          int64           `db:"id"`
	QuestionID  int64           `db:"question_id"`
	Text        string          `db:"option_text"`
	ScoreWeight json.RawMessage `db:"score_weight"`
}

// AnswerRecord is a row of the user's full answer history: the answer
// joined with its question, chosen option, and originating test.
type AnswerRecord struct {
	TestSlug     string          `db:"test_slug"`
	QuestionID   int64           `db:"question_id"`
	QuestionOrd  int             `db:"question_ord"`
	QuestionText string          `db:"question_text"`
	OptionText   string          `db:"option_text"`
	ScoreWeight  json.RawMessage `db:"score_weight"`
}
