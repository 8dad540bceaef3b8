package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData splits callback data encoded as <unique>|<payload>.
// Telebot prefixes the data with a formfeed byte; older clients escape it
// as a literal "\f" sequence, so both forms are stripped.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	raw := cb.Data
	raw = strings.TrimPrefix(raw, "\f")
	raw = strings.TrimPrefix(raw, "\\f")
	unique, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(unique), payload
}

// CallbackKey returns the routing key of a callback update. It prefers
// cb.Unique and falls back to parsing cb.Data, since Unique is empty when
// the update arrives through the generic OnCallback endpoint.
func CallbackKey(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}
	key, _ := ParseCallbackData(cb)
	return key
}

// CallbackPayload returns everything after the first '|' in the callback
// data. Empty when the callback carries no payload.
func CallbackPayload(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	_, payload := ParseCallbackData(cb)
	return payload
}
