package render

import "strings"

// markdownV2Escaper backslash-escapes every character Telegram MarkdownV2
// treats as syntax. It is applied exactly once, at render time, to raw feed
// or user supplied text; URLs inside link parentheses stay unescaped.
var markdownV2Escaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`(`, `\(`,
	`)`, `\)`,
	`~`, `\~`,
	"`", "\\`",
	`>`, `\>`,
	`#`, `\#`,
	`+`, `\+`,
	`-`, `\-`,
	`=`, `\=`,
	`|`, `\|`,
	`{`, `\{`,
	`}`, `\}`,
	`.`, `\.`,
	`!`, `\!`,
)

// EscapeText escapes MarkdownV2 reserved characters in raw text.
func EscapeText(text string) string {
	return markdownV2Escaper.Replace(text)
}
