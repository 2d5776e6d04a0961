package dateparse

import (
	"regexp"
	"strings"
)

// duePhraseRe matches a trailing due phrase on an "add" command, e.g.
// "buy milk tomorrow 5pm" -> title "buy milk", phrase "tomorrow 5pm".
var duePhraseRe = regexp.MustCompile(`(?i)(` +
	`(?:today|tomorrow)(?:\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?)?` +
	`|next\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)(?:\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?)?` +
	`|(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?` +
	`|\d{4}-\d{2}-\d{2}(?:\s+\d{1,2}(?::\d{2})?)?` +
	`|\d{1,2}/\d{1,2}(?:\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?)?` +
	`|in\s+\d+\s+(?:minutes?|min|hours?|days?|weeks?)` +
	`|\d{1,2}(?::\d{2})?\s*(?:am|pm)` +
	`)\s*$`)

// ExtractDuePhrase splits a trailing due phrase off raw input. When no
// phrase is found, title is the whole input and phrase is empty.
func ExtractDuePhrase(raw string) (title, phrase string) {
	raw = strings.TrimSpace(raw)
	loc := duePhraseRe.FindStringSubmatchIndex(raw)
	if loc == nil {
		return raw, ""
	}

	// When the whole input is the phrase, keep it as the title too: the
	// user typed something like "add tomorrow 5pm".
	phrase = strings.TrimSpace(raw[loc[2]:loc[3]])
	title = strings.Trim(raw[:loc[0]], " ,.-")
	if title == "" {
		title = raw
	}
	return title, phrase
}
