package bot

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/emotipal/psychobot/core/telegram/keyboard"
	"github.com/emotipal/psychobot/internal/exam"
	"github.com/emotipal/psychobot/internal/models"
)

// Callback keys. Payloads after '|' carry int64 ids only; everything
// about the session is reconstructed from them on each event.
const (
	cbStartTest = "start_test"
	cbNavigate  = "nav"
	cbAnswer    = "answer"
	cbConfirmAI = "confirm_ai"
	cbShowTests = "show_tests"
)

func mainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{btnTests},
		[]string{btnAnalysis, btnHelp},
	)
}

func testsListMarkup(tests []models.Test, completed map[int64]bool) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(tests))
	for _, t := range tests {
		title := t.Title
		if completed[t.ID] {
			title = "✅ " + title
		}
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   title,
			Unique: cbStartTest,
			Data:   strconv.FormatInt(t.ID, 10),
		})
	}
	return keyboard.InlineButtons(buttons)
}

// examMarkup renders one option per row plus a navigation row. The nav
// buttons jump without submitting, so answered questions can be reviewed.
func examMarkup(view *exam.QuestionView) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(view.Options)+1)
	for _, o := range view.Options {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   o.Text,
			Unique: cbAnswer,
			Data:   fmt.Sprintf("%d|%d|%d", view.TestID, view.QuestionID, o.ID),
		}})
	}

	var nav []keyboard.InlineBtn
	if view.Order > 1 {
		nav = append(nav, keyboard.InlineBtn{
			Text:   "⬅️",
			Unique: cbNavigate,
			Data:   fmt.Sprintf("%d|%d", view.TestID, view.Order-1),
		})
	}
	if view.Order < view.Total {
		nav = append(nav, keyboard.InlineBtn{
			Text:   "➡️",
			Unique: cbNavigate,
			Data:   fmt.Sprintf("%d|%d", view.TestID, view.Order+1),
		})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return keyboard.InlineButtonsRows(rows...)
}

func completionMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🤖 AI analysis", Unique: cbConfirmAI, Data: "go"}},
		[]keyboard.InlineBtn{{Text: "📋 Back to tests", Unique: cbShowTests, Data: "list"}},
	)
}

func questionText(view *exam.QuestionView) string {
	return fmt.Sprintf("Question %d of %d:\n\n%s", view.Order, view.Total, view.Text)
}
