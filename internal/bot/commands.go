package bot

import (
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/emotipal/psychobot/core/logger"
	"github.com/emotipal/psychobot/core/telegram/format"
	tghelpers "github.com/emotipal/psychobot/core/telegram/helpers"
)

func (h *handlers) cmdStart(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start")
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, err := h.users.Sync(ctx, sender.ID, sender.Username)
	if err != nil {
		logger.Error(ctx, "tg", "user.sync_failed", slog.String("err", err.Error()))
		return tghelpers.SendText(c, msgInternalError)
	}
	logger.Info(ctx, "tg", "user.synced",
		slog.Int64("user_id", user.ID),
		slog.String("username", format.DerefString(user.Username, "-")),
	)

	return tghelpers.SendMD(c, msgWelcome, mainMenu())
}

func (h *handlers) cmdHelp(c tele.Context) error {
	return tghelpers.SendMD(c, msgHelp, mainMenu())
}

func (h *handlers) cmdTests(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "tests")

	tests, err := h.catalog.ActiveTests(ctx)
	if err != nil {
		logger.Error(ctx, "tg", "tests.list_failed", slog.String("err", err.Error()))
		return tghelpers.SendText(c, msgInternalError)
	}

	completed := h.completedTests(ctx, c.Sender().ID)
	return tghelpers.SendMD(c, msgTestsHeader, testsListMarkup(tests, completed))
}

// cmdAnalyze runs the same flow as the inline confirm button so that the
// menu text button works without a prior completion screen.
func (h *handlers) cmdAnalyze(c tele.Context) error {
	return h.runAnalysis(c)
}

func (h *handlers) cmdAdmin(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "admin")

	usersTotal, err := h.users.CountAll(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	answersTotal, err := h.answers.CountAll(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	tests, err := h.catalog.ActiveTests(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}

	logger.Info(ctx, "tg", "admin.stats",
		slog.Int("users_total", usersTotal),
		slog.Int("answers_total", answersTotal),
		slog.Int("tests_total", len(tests)),
	)
	text := fmt.Sprintf("*Stats*\nUsers: %d\nAnswers: %d\nActive tests: %d",
		usersTotal, answersTotal, len(tests))
	return tghelpers.SendMD(c, text)
}
