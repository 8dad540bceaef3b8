package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command describes a slash command registered with the bot. Description is
// what Telegram shows in the command menu; Hidden keeps the command working
// while leaving it out of that menu. Aliases let reply-keyboard button texts
// route to the same handler.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}
