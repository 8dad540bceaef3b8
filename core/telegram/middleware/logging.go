package middleware

import (
	"sync"
	"time"

	"github.com/emotipal/psychobot/core/logger"
	"github.com/emotipal/psychobot/core/telegram/callbacks"
	tghelpers "github.com/emotipal/psychobot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Update IDs seen recently. The middleware can run on several router
// branches for the same update, so receipt logging dedupes on the ID.
var (
	seenMu       sync.Mutex
	seenUpdates  = make(map[int]time.Time)
	dedupeWindow = 10 * time.Second
)

func markSeen(updateID int) bool {
	now := time.Now()
	seenMu.Lock()
	defer seenMu.Unlock()
	for id, ts := range seenUpdates {
		if now.Sub(ts) > dedupeWindow {
			delete(seenUpdates, id)
		}
	}
	if _, ok := seenUpdates[updateID]; ok {
		return true
	}
	seenUpdates[updateID] = now
	return false
}

// LoggerMiddleware assigns a request id to the update, stores the logging
// context for downstream handlers, and emits one debug receipt line per
// update when sampling allows.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		chatID, userID := int64(0), int64(0)
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		ctx := logger.WithRID(logger.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		tghelpers.StoreContext(c, ctx)

		if logger.ShouldSampleDebug() && !markSeen(upd.ID) {
			attrs := []slog.Attr{
				slog.String("status", "ok"),
				slog.String("rid", rid),
				slog.Int("update_id", upd.ID),
			}
			if chatID != 0 {
				attrs = append(attrs, slog.Int64("chat_id", chatID))
				attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
			}
			if userID != 0 {
				attrs = append(attrs, slog.Int64("user_id", userID))
				if user != nil && user.Username != "" {
					attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
				}
				if user != nil && user.LanguageCode != "" {
					attrs = append(attrs, slog.String("lang", user.LanguageCode))
				}
			}

			switch {
			case upd.Callback != nil:
				key, payload := callbackParts(upd.Callback)
				if key != "" {
					attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
				}
				if payload != "" {
					attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
				}
			case upd.Message != nil:
				if t := c.Text(); t != "" {
					attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
				}
			}
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", attrs...)
		}

		return next(c)
	}
}

// callbackParts extracts key and payload for the receipt line. Unique is
// already split out when telebot dispatched via a registered endpoint.
func callbackParts(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	return callbacks.ParseCallbackData(cb)
}
