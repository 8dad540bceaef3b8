package exam

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emotipal/psychobot/internal/models"
	"github.com/emotipal/psychobot/internal/storage"
)

type fakeQuestion struct {
	id      int64
	text    string
	options []models.Option
}

type fakeTest struct {
	id        int64
	slug      string
	questions []fakeQuestion // index = ord-1
}

type answerKey struct {
	userID     int64
	questionID int64
}

type fakeAnswer struct {
	testID   int64
	optionID int64
}

// fakeStore implements Catalog, Answers, and Users in memory.
type fakeStore struct {
	users   map[int64]int64 // telegram id -> user id
	tests   []*fakeTest
	answers map[answerKey]fakeAnswer
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[int64]int64),
		answers: make(map[answerKey]fakeAnswer),
	}
}

func (s *fakeStore) testByID(id int64) *fakeTest {
	for _, t := range s.tests {
		if t.id == id {
			return t
		}
	}
	return nil
}

func (s *fakeStore) findQuestion(questionID int64) (*fakeTest, int, *fakeQuestion) {
	for _, t := range s.tests {
		for i := range t.questions {
			if t.questions[i].id == questionID {
				return t, i + 1, &t.questions[i]
			}
		}
	}
	return nil, 0, nil
}

func (s *fakeStore) QuestionByOrder(_ context.Context, testID int64, ord int) (*models.Question, error) {
	t := s.testByID(testID)
	if t == nil || ord < 1 || ord > len(t.questions) {
		return nil, storage.ErrNotFound
	}
	q := t.questions[ord-1]
	return &models.Question{ID: q.id, TestID: testID, Text: q.text, Ord: ord}, nil
}

func (s *fakeStore) Options(_ context.Context, questionID int64) ([]models.Option, error) {
	if _, _, q := s.findQuestion(questionID); q != nil {
		return q.options, nil
	}
	return nil, nil
}

func (s *fakeStore) TotalQuestions(_ context.Context, testID int64) (int, error) {
	if t := s.testByID(testID); t != nil {
		return len(t.questions), nil
	}
	return 0, nil
}

func (s *fakeStore) QuestionOrder(_ context.Context, questionID int64) (int, error) {
	if _, ord, q := s.findQuestion(questionID); q != nil {
		return ord, nil
	}
	return 0, storage.ErrNotFound
}

func (s *fakeStore) Upsert(_ context.Context, userID, testID, questionID, optionID int64) error {
	s.answers[answerKey{userID, questionID}] = fakeAnswer{testID: testID, optionID: optionID}
	return nil
}

func (s *fakeStore) FullHistory(_ context.Context, userID int64) ([]models.AnswerRecord, error) {
	var out []models.AnswerRecord
	// Map iteration order is intentionally random here so the engine's
	// own sorting is what the assertions depend on.
	for key, ans := range s.answers {
		if key.userID != userID {
			continue
		}
		t, ord, q := s.findQuestion(key.questionID)
		if q == nil {
			continue
		}
		var opt models.Option
		for _, o := range q.options {
			if o.ID == ans.optionID {
				opt = o
			}
		}
		out = append(out, models.AnswerRecord{
			TestSlug:     t.slug,
			QuestionID:   q.id,
			QuestionOrd:  ord,
			QuestionText: q.text,
			OptionText:   opt.Text,
			ScoreWeight:  opt.ScoreWeight,
		})
	}
	return out, nil
}

func (s *fakeStore) ResolveTelegramID(_ context.Context, telegramID int64) (int64, error) {
	if id, ok := s.users[telegramID]; ok {
		return id, nil
	}
	return 0, storage.ErrNotFound
}

const (
	tgAlice   = int64(1001)
	userAlice = int64(1)
)

// demoStore builds a registered user and a two-question test "demo"
// with option ids {10, 11} and {20, 21}.
func demoStore() *fakeStore {
	s := newFakeStore()
	s.users[tgAlice] = userAlice
	s.tests = append(s.tests, &fakeTest{
		id:   7,
		slug: "demo",
		questions: []fakeQuestion{
			{
				id:   100,
				text: "Parties or books?",
				options: []models.Option{
					{ID: 10, QuestionID: 100, Text: "Parties", ScoreWeight: json.RawMessage(`{"E":2}`)},
					{ID: 11, QuestionID: 100, Text: "Books", ScoreWeight: json.RawMessage(`{"I":2}`)},
				},
			},
			{
				id:   101,
				text: "Plans or improvisation?",
				options: []models.Option{
					{ID: 20, QuestionID: 101, Text: "Plans", ScoreWeight: json.RawMessage(`{"J":2}`)},
					{ID: 21, QuestionID: 101, Text: "Improvisation", ScoreWeight: json.RawMessage(`{"P":2}`)},
				},
			},
		},
	})
	return s
}

func newTestEngine(s *fakeStore) *Engine {
	e := NewEngine(s, s, s)
	e.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return e
}

func TestStartTestReturnsFirstQuestion(t *testing.T) {
	s := demoStore()
	e := newTestEngine(s)

	view, err := e.StartTest(context.Background(), tgAlice, 7)
	require.NoError(t, err)

	assert.Equal(t, int64(100), view.QuestionID)
	assert.Equal(t, 1, view.Order)
	assert.Equal(t, 2, view.Total)
	assert.Len(t, view.Options, 2)
}

func TestStartTestRequiresRegistration(t *testing.T) {
	s := demoStore()
	e := newTestEngine(s)

	_, err := e.StartTest(context.Background(), 9999, 7)
	require.ErrorIs(t, err, ErrNotRegistered)
	assert.Empty(t, s.answers)
}

func TestStartTestEmptyCatalog(t *testing.T) {
	s := demoStore()
	s.tests = append(s.tests, &fakeTest{id: 8, slug: "draft"})
	e := newTestEngine(s)

	_, err := e.StartTest(context.Background(), tgAlice, 8)
	require.ErrorIs(t, err, ErrTestEmpty)
}

func TestQuestionByOrderOutOfRange(t *testing.T) {
	e := newTestEngine(demoStore())

	for _, ord := range []int{0, 3, -1} {
		_, err := e.QuestionByOrder(context.Background(), 7, ord)
		require.ErrorIs(t, err, ErrQuestionNotFound, "order %d", ord)
	}
}

func TestSubmitAnswerAdvances(t *testing.T) {
	s := demoStore()
	e := newTestEngine(s)

	out, err := e.SubmitAnswer(context.Background(), tgAlice, 7, 100, 11)
	require.NoError(t, err)

	assert.False(t, out.Completed)
	require.NotNil(t, out.Next)
	assert.Equal(t, 2, out.Next.Order)
	assert.Equal(t, int64(101), out.Next.QuestionID)
	assert.Equal(t, fakeAnswer{testID: 7, optionID: 11}, s.answers[answerKey{userAlice, 100}])
}

func TestSubmitAnswerLastQuestionCompletes(t *testing.T) {
	s := demoStore()
	e := newTestEngine(s)

	out, err := e.SubmitAnswer(context.Background(), tgAlice, 7, 101, 20)
	require.NoError(t, err)

	assert.True(t, out.Completed)
	assert.Nil(t, out.Next)
}

func TestSubmitAnswerLastWriteWins(t *testing.T) {
	s := demoStore()
	e := newTestEngine(s)
	ctx := context.Background()

	_, err := e.SubmitAnswer(ctx, tgAlice, 7, 100, 10)
	require.NoError(t, err)
	_, err = e.SubmitAnswer(ctx, tgAlice, 7, 100, 11)
	require.NoError(t, err)
	_, err = e.SubmitAnswer(ctx, tgAlice, 7, 100, 11)
	require.NoError(t, err)

	assert.Len(t, s.answers, 1)
	assert.Equal(t, int64(11), s.answers[answerKey{userAlice, 100}].optionID)
}

func TestSubmitAnswerUnknownQuestionWritesNothing(t *testing.T) {
	s := demoStore()
	e := newTestEngine(s)

	_, err := e.SubmitAnswer(context.Background(), tgAlice, 7, 555, 10)
	require.ErrorIs(t, err, ErrQuestionNotFound)
	assert.Empty(t, s.answers)
}

func TestSubmitAnswerUnregisteredWritesNothing(t *testing.T) {
	s := demoStore()
	e := newTestEngine(s)

	_, err := e.SubmitAnswer(context.Background(), 9999, 7, 100, 10)
	require.ErrorIs(t, err, ErrNotRegistered)
	assert.Empty(t, s.answers)
}

func TestAggregateGroupsBySlugAndOrders(t *testing.T) {
	s := demoStore()
	s.tests = append(s.tests, &fakeTest{
		id:   8,
		slug: "big5",
		questions: []fakeQuestion{
			{
				id:   200,
				text: "Tidy desk?",
				options: []models.Option{
					{ID: 30, QuestionID: 200, Text: "Always", ScoreWeight: json.RawMessage(`{"C":2}`)},
				},
			},
		},
	})
	e := newTestEngine(s)
	ctx := context.Background()

	// Answered out of question order on purpose.
	_, err := e.SubmitAnswer(ctx, tgAlice, 7, 101, 21)
	require.NoError(t, err)
	_, err = e.SubmitAnswer(ctx, tgAlice, 8, 200, 30)
	require.NoError(t, err)
	_, err = e.SubmitAnswer(ctx, tgAlice, 7, 100, 10)
	require.NoError(t, err)

	payload, err := e.AggregateForAnalysis(ctx, tgAlice)
	require.NoError(t, err)

	require.Len(t, payload.Tests, 2)

	demo := payload.Tests["demo"]
	require.Len(t, demo, 2)
	assert.Equal(t, "Parties or books?", demo[0].Question)
	assert.Equal(t, "Parties", demo[0].SelectedOption)
	assert.JSONEq(t, `{"E":2}`, string(demo[0].Weights))
	assert.Equal(t, "Improvisation", demo[1].SelectedOption)

	big5 := payload.Tests["big5"]
	require.Len(t, big5, 1)
	assert.Equal(t, "Always", big5[0].SelectedOption)

	assert.Equal(t, tgAlice, payload.UserContext.ID)
	assert.Equal(t, "2025-03-14 09:26:53", payload.UserContext.CompletedAt)
}

func TestAggregateReflectsLatestAnswer(t *testing.T) {
	s := demoStore()
	e := newTestEngine(s)
	ctx := context.Background()

	_, err := e.SubmitAnswer(ctx, tgAlice, 7, 100, 10)
	require.NoError(t, err)
	_, err = e.SubmitAnswer(ctx, tgAlice, 7, 100, 11)
	require.NoError(t, err)

	payload, err := e.AggregateForAnalysis(ctx, tgAlice)
	require.NoError(t, err)

	demo := payload.Tests["demo"]
	require.Len(t, demo, 1)
	assert.Equal(t, "Books", demo[0].SelectedOption)
}

func TestAggregateOmitsUnansweredTests(t *testing.T) {
	s := demoStore()
	s.tests = append(s.tests, &fakeTest{
		id:   8,
		slug: "big5",
		questions: []fakeQuestion{
			{id: 200, text: "Tidy desk?", options: []models.Option{{ID: 30, Text: "Always"}}},
		},
	})
	e := newTestEngine(s)
	ctx := context.Background()

	_, err := e.SubmitAnswer(ctx, tgAlice, 7, 100, 10)
	require.NoError(t, err)
	_, err = e.SubmitAnswer(ctx, tgAlice, 7, 101, 20)
	require.NoError(t, err)

	payload, err := e.AggregateForAnalysis(ctx, tgAlice)
	require.NoError(t, err)

	require.Len(t, payload.Tests, 1)
	assert.Len(t, payload.Tests["demo"], 2)
	assert.NotContains(t, payload.Tests, "big5")
}

func TestFullExamScenario(t *testing.T) {
	s := demoStore()
	e := newTestEngine(s)
	ctx := context.Background()

	view, err := e.StartTest(ctx, tgAlice, 7)
	require.NoError(t, err)
	require.Equal(t, 1, view.Order)
	require.Len(t, view.Options, 2)
	assert.Equal(t, "Parties", view.Options[0].Text)
	assert.Equal(t, "Books", view.Options[1].Text)

	out, err := e.SubmitAnswer(ctx, tgAlice, 7, view.QuestionID, view.Options[0].ID)
	require.NoError(t, err)
	require.False(t, out.Completed)
	require.Equal(t, 2, out.Next.Order)

	out, err = e.SubmitAnswer(ctx, tgAlice, 7, out.Next.QuestionID, out.Next.Options[1].ID)
	require.NoError(t, err)
	require.True(t, out.Completed)

	payload, err := e.AggregateForAnalysis(ctx, tgAlice)
	require.NoError(t, err)
	demo := payload.Tests["demo"]
	require.Len(t, demo, 2)
	assert.Equal(t, "Parties", demo[0].SelectedOption)
	assert.Equal(t, "Improvisation", demo[1].SelectedOption)
}

func TestAggregateEmptyHistory(t *testing.T) {
	e := newTestEngine(demoStore())

	payload, err := e.AggregateForAnalysis(context.Background(), tgAlice)
	require.NoError(t, err)

	assert.Empty(t, payload.Tests)
	assert.Equal(t, tgAlice, payload.UserContext.ID)
}

func TestAggregateUnregistered(t *testing.T) {
	e := newTestEngine(demoStore())

	_, err := e.AggregateForAnalysis(context.Background(), 9999)
	require.ErrorIs(t, err, ErrNotRegistered)
}
