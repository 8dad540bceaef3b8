package middleware

import (
	"log/slog"

	"github.com/emotipal/psychobot/core/logger"
	tghelpers "github.com/emotipal/psychobot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only the admin user can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.AdminID != 0 && int64(c.Sender().ID) != opts.AdminID {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}

// BlocklistChecker reports whether a Telegram user is blocked from the bot.
// Unknown users are not blocked; they must be able to reach /start to register.
type BlocklistChecker interface {
	IsBlocked(userID int64) bool
}

// AccessOptions configures the blocked-user gate.
type AccessOptions struct {
	Blocklist BlocklistChecker
	OnBlocked tele.HandlerFunc
}

// AccessMiddleware terminates updates from blocked users before any handler runs.
func AccessMiddleware(opts AccessOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Blocklist == nil {
				return next(c)
			}
			if !opts.Blocklist.IsBlocked(user.ID) {
				return next(c)
			}
			ctx := tghelpers.BuildContext(c)
			logger.TG.LogAttrs(ctx, slog.LevelInfo, "access.blocked",
				slog.String("event", "access.blocked"),
				slog.Int64("user_id", user.ID),
			)
			if opts.OnBlocked != nil {
				return opts.OnBlocked(c)
			}
			return nil
		}
	}
}
