package bot

import (
	"context"
	"errors"

	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/emotipal/psychobot/core/telegram"
	"github.com/emotipal/psychobot/core/telegram/commands"
	tghelpers "github.com/emotipal/psychobot/core/telegram/helpers"
	"github.com/emotipal/psychobot/core/telegram/ui"
	"github.com/emotipal/psychobot/internal/analysis"
	"github.com/emotipal/psychobot/internal/exam"
	"github.com/emotipal/psychobot/internal/models"
	"github.com/emotipal/psychobot/internal/storage"
)

// handlers binds chat interactions to the exam engine and repositories.
// It doubles as the fallback provider for unmatched updates.
type handlers struct {
	users    *storage.UserRepo
	catalog  *storage.CatalogRepo
	answers  *storage.AnswerRepo
	engine   *exam.Engine
	analyzer *analysis.Service
}

var _ ui.FallbackProvider = (*handlers)(nil)

func newHandlers(users *storage.UserRepo, catalog *storage.CatalogRepo, answers *storage.AnswerRepo, engine *exam.Engine, analyzer *analysis.Service) *handlers {
	return &handlers{
		users:    users,
		catalog:  catalog,
		answers:  answers,
		engine:   engine,
		analyzer: analyzer,
	}
}

// register wires commands (menu buttons are aliases) and the closed set
// of callback actions. Anything outside this set lands in the
// registry's not-found fallback instead of falling through silently.
func (h *handlers) register(reg *coretelegram.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.cmdStart,
		Description: "Register and show the main menu",
	})
	reg.RegisterCommand("/tests", commands.Command{
		Handler:     h.cmdTests,
		Description: "List available tests",
		Aliases:     []string{btnTests},
	})
	reg.RegisterCommand("/analyze", commands.Command{
		Handler:     h.cmdAnalyze,
		Description: "Get the AI analysis of your answers",
		Aliases:     []string{btnAnalysis},
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     h.cmdHelp,
		Description: "How to use the bot",
		Aliases:     []string{btnHelp},
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     h.cmdAdmin,
		Description: "Usage statistics",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.SetTextFallback(h.UnknownText())
	reg.SetCallbackNotFound(h.UnknownCallback())

	cbs := map[string]tele.HandlerFunc{
		cbStartTest: h.onStartTest,
		cbNavigate:  h.onNavigate,
		cbAnswer:    h.onAnswer,
		cbConfirmAI: h.onConfirmAI,
		cbShowTests: h.onShowTests,
	}
	for key, handler := range cbs {
		if err := reg.RegisterCallback(key, handler); err != nil {
			return err
		}
	}
	return nil
}

// UnknownText handles free-form text that matches no command or alias.
func (h *handlers) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, msgUnknownInput)
	}
}

// UnknownCallback answers stale inline buttons with a toast so the
// client spinner does not hang.
func (h *handlers) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: msgUnknownInput})
	}
}

func (h *handlers) blocked(c tele.Context) error {
	return tghelpers.SendText(c, msgBlocked)
}

func (h *handlers) adminRejected(c tele.Context) error {
	return tghelpers.SendText(c, msgAdminOnly)
}

// replyExamError maps engine faults to user-facing messages. Unexpected
// errors get a generic apology and propagate so the router logs them.
func (h *handlers) replyExamError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, exam.ErrNotRegistered):
		return tghelpers.SendText(c, msgNotRegistered)
	case errors.Is(err, exam.ErrQuestionNotFound):
		return c.Respond(&tele.CallbackResponse{Text: msgQuestionMissing})
	case errors.Is(err, exam.ErrTestEmpty):
		_ = tghelpers.SendText(c, msgInternalError)
		return err
	}
	_ = tghelpers.SendText(c, msgInternalError)
	return err
}

func (h *handlers) completedTests(ctx context.Context, telegramID int64) map[int64]bool {
	user, err := tghelpers.CurrentUser[*models.User](ctx, h.users, telegramID)
	if err != nil {
		return nil
	}
	ids, err := h.catalog.CompletedTestIDs(ctx, user.ID)
	if err != nil {
		return nil
	}
	completed := make(map[int64]bool, len(ids))
	for _, id := range ids {
		completed[id] = true
	}
	return completed
}
