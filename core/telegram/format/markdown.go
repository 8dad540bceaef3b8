package format

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MarkdownV1 denotes Telegram markdown version 1.
	MarkdownV1 = 1
	// MarkdownV2 denotes Telegram markdown version 2.
	MarkdownV2 = 2
)

const mdV2Specials = "_*[]()~`>#+-=|{}.!"

var (
	mdV1Re = regexp.MustCompile("([_*\\[`\\\\])")
	// QuoteMeta leaves '-' alone, which inside a character class would
	// turn "#+-=" into the range 0x2B..0x3D. Escape it explicitly.
	mdV2Re     = regexp.MustCompile("([" + strings.ReplaceAll(regexp.QuoteMeta(mdV2Specials), "-", `\-`) + "\\\\])")
	mdV2CodeRe = regexp.MustCompile("([`\\\\])")
	mdV2LinkRe = regexp.MustCompile(`([)\\])`)
)

// EscapeMarkdown escapes special characters for MarkdownV1 or V2.
// For V2, entityType narrows the escape set: inside "pre" and "code"
// only backtick and backslash are special, inside "text_link" URLs
// only the closing parenthesis and backslash.
func EscapeMarkdown(text string, version int, entityType string) (string, error) {
	switch version {
	case MarkdownV1:
		return mdV1Re.ReplaceAllString(text, `\$1`), nil
	case MarkdownV2:
		re := mdV2Re
		switch entityType {
		case "pre", "code":
			re = mdV2CodeRe
		case "text_link":
			re = mdV2LinkRe
		}
		return re.ReplaceAllString(text, `\$1`), nil
	}
	return "", fmt.Errorf("unsupported markdown version: %d", version)
}
