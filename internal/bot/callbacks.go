package bot

import (
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/emotipal/psychobot/core/logger"
	"github.com/emotipal/psychobot/core/telegram/callbacks"
	"github.com/emotipal/psychobot/core/telegram/format"
	tghelpers "github.com/emotipal/psychobot/core/telegram/helpers"
	"github.com/emotipal/psychobot/internal/analysis"
)

func (h *handlers) onStartTest(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start_test")

	testID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: msgInternalError})
	}

	view, err := h.engine.StartTest(ctx, c.Sender().ID, testID)
	if err != nil {
		return h.replyExamError(c, err)
	}
	return tghelpers.EditOrSendMD(c, questionText(view), examMarkup(view))
}

func (h *handlers) onNavigate(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "nav")

	testID, ord, err := callbacks.PayloadTwoInt64(c, "|")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: msgInternalError})
	}

	view, err := h.engine.QuestionByOrder(ctx, testID, int(ord))
	if err != nil {
		return h.replyExamError(c, err)
	}
	return tghelpers.EditOrSendMD(c, questionText(view), examMarkup(view))
}

func (h *handlers) onAnswer(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "answer")

	ids, err := callbacks.PayloadInt64s(c, "|", 3)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: msgInternalError})
	}
	testID, questionID, optionID := ids[0], ids[1], ids[2]

	outcome, err := h.engine.SubmitAnswer(ctx, c.Sender().ID, testID, questionID, optionID)
	if err != nil {
		return h.replyExamError(c, err)
	}
	if outcome.Completed {
		return tghelpers.EditOrSendMD(c, msgTestCompleted, completionMarkup())
	}
	return tghelpers.EditOrSendMD(c, questionText(outcome.Next), examMarkup(outcome.Next))
}

func (h *handlers) onConfirmAI(c tele.Context) error {
	return h.runAnalysis(c)
}

func (h *handlers) onShowTests(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "show_tests")

	tests, err := h.catalog.ActiveTests(ctx)
	if err != nil {
		logger.Error(ctx, "tg", "tests.list_failed", slog.String("err", err.Error()))
		return tghelpers.EditOrSendMD(c, msgInternalError)
	}
	completed := h.completedTests(ctx, c.Sender().ID)
	return tghelpers.EditOrSendMD(c, msgTestsHeader, testsListMarkup(tests, completed))
}

// runAnalysis aggregates the full answer history and sends it to the LLM.
// The placeholder message goes out first because the request can take
// tens of seconds.
func (h *handlers) runAnalysis(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "confirm_ai")

	if h.analyzer == nil {
		return tghelpers.SendText(c, msgNoAnalysis)
	}

	payload, err := h.engine.AggregateForAnalysis(ctx, c.Sender().ID)
	if err != nil {
		return h.replyExamError(c, err)
	}
	if len(payload.Tests) == 0 {
		return tghelpers.SendText(c, msgNoAnswers)
	}

	if err := tghelpers.SendText(c, msgAnalyzing); err != nil {
		return err
	}

	report, err := h.analyzer.Analyze(ctx, payload)
	if err != nil {
		logger.Error(ctx, "tg", "analysis.failed", slog.String("err", err.Error()))
		return tghelpers.SendText(c, msgAnalysisFailed)
	}
	return tghelpers.SendMD(c, renderReport(report), mainMenu())
}

// renderReport formats the five report sections as bold headers with the
// model text escaped so stray markdown cannot break the message.
func renderReport(r *analysis.Report) string {
	sections := []struct {
		title string
		body  string
	}{
		{"🧠 Typology", r.Typology},
		{"💼 Career roadmap", r.CareerRoadmap},
		{"🎧 Lifestyle", r.Lifestyle},
		{"🌍 Locations", r.Locations},
		{"🤝 Social relations", r.SocialRelations},
	}

	var b strings.Builder
	for _, s := range sections {
		if s.body == "" {
			continue
		}
		body, err := format.EscapeMarkdown(s.body, format.MarkdownV1, "")
		if err != nil {
			body = s.body
		}
		fmt.Fprintf(&b, "*%s*\n%s\n\n", s.title, body)
	}
	return strings.TrimRight(b.String(), "\n")
}
