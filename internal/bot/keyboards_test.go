package bot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emotipal/psychobot/internal/analysis"
	"github.com/emotipal/psychobot/internal/exam"
	"github.com/emotipal/psychobot/internal/models"
)

func TestTestsListMarkupMarksCompleted(t *testing.T) {
	tests := []models.Test{
		{ID: 1, Slug: "mbti", Title: "MBTI"},
		{ID: 2, Slug: "big5", Title: "Big Five"},
	}
	markup := testsListMarkup(tests, map[int64]bool{2: true})

	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "MBTI", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "✅ Big Five", markup.InlineKeyboard[1][0].Text)
	// The unique key and payload live in separate fields until telebot
	// joins them at marshal time.
	assert.Equal(t, cbStartTest, markup.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "1", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, cbStartTest, markup.InlineKeyboard[1][0].Unique)
	assert.Equal(t, "2", markup.InlineKeyboard[1][0].Data)
}

func TestExamMarkupNavigationRow(t *testing.T) {
	view := &exam.QuestionView{
		QuestionID: 100,
		TestID:     7,
		Order:      2,
		Total:      3,
		Options: []models.Option{
			{ID: 10, Text: "Yes", ScoreWeight: json.RawMessage(`{}`)},
			{ID: 11, Text: "No", ScoreWeight: json.RawMessage(`{}`)},
		},
	}
	markup := examMarkup(view)

	// Two option rows plus one nav row with both arrows.
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Equal(t, cbAnswer, markup.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "7|100|10", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, cbAnswer, markup.InlineKeyboard[1][0].Unique)
	assert.Equal(t, "7|100|11", markup.InlineKeyboard[1][0].Data)

	nav := markup.InlineKeyboard[2]
	require.Len(t, nav, 2)
	assert.Equal(t, cbNavigate, nav[0].Unique)
	assert.Equal(t, "7|1", nav[0].Data)
	assert.Equal(t, cbNavigate, nav[1].Unique)
	assert.Equal(t, "7|3", nav[1].Data)
}

func TestExamMarkupFirstQuestionHasNoBackArrow(t *testing.T) {
	view := &exam.QuestionView{
		QuestionID: 100,
		TestID:     7,
		Order:      1,
		Total:      2,
		Options:    []models.Option{{ID: 10, Text: "Yes"}},
	}
	markup := examMarkup(view)

	require.Len(t, markup.InlineKeyboard, 2)
	nav := markup.InlineKeyboard[1]
	require.Len(t, nav, 1)
	assert.Equal(t, "➡️", nav[0].Text)
}

func TestExamMarkupLastQuestionHasNoForwardArrow(t *testing.T) {
	view := &exam.QuestionView{
		QuestionID: 101,
		TestID:     7,
		Order:      2,
		Total:      2,
		Options:    []models.Option{{ID: 20, Text: "Yes"}},
	}
	markup := examMarkup(view)

	require.Len(t, markup.InlineKeyboard, 2)
	nav := markup.InlineKeyboard[1]
	require.Len(t, nav, 1)
	assert.Equal(t, "⬅️", nav[0].Text)
}

func TestExamMarkupSingleQuestionHasNoNavRow(t *testing.T) {
	view := &exam.QuestionView{
		QuestionID: 100,
		TestID:     7,
		Order:      1,
		Total:      1,
		Options:    []models.Option{{ID: 10, Text: "Yes"}},
	}
	markup := examMarkup(view)
	require.Len(t, markup.InlineKeyboard, 1)
}

func TestQuestionText(t *testing.T) {
	view := &exam.QuestionView{Order: 2, Total: 5, Text: "Plans or improvisation?"}
	assert.Equal(t, "Question 2 of 5:\n\nPlans or improvisation?", questionText(view))
}

func TestRenderReportSectionsAndEscaping(t *testing.T) {
	report := &analysis.Report{
		Typology:        "INTJ with strong *analytical* drive",
		CareerRoadmap:   "Engineering",
		SocialRelations: "Direct communicator",
	}
	text := renderReport(report)

	assert.Contains(t, text, "*🧠 Typology*")
	assert.Contains(t, text, "*💼 Career roadmap*")
	assert.Contains(t, text, "*🤝 Social relations*")
	// Empty sections are skipped entirely.
	assert.NotContains(t, text, "Lifestyle")
	assert.NotContains(t, text, "Locations")
	// Markdown inside model output is escaped, not rendered.
	assert.Contains(t, text, `\*analytical\*`)
}
