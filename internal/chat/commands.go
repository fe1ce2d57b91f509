package chat

import (
	"strconv"
	"strings"
)

// Kind is the action a chat input maps to
type Kind int

const (
	KindUnknown Kind = iota
	KindShowLatest
	KindGenerateReply
	KindSendReply
	KindDelete
	KindConfirm
	KindCancel
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindShowLatest:    "show_latest",
	KindGenerateReply: "generate_reply",
	KindSendReply:     "send_reply",
	KindDelete:        "delete",
	KindConfirm:       "confirm",
	KindCancel:        "cancel",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Command is a parsed chat input. Index is zero-based and -1 when the
// command does not target an email.
type Command struct {
	Kind  Kind
	Index int
}

// Phrases recognised by Parse, matched against the lower-cased input
const (
	phraseLastFive      = "last 5"
	phraseLastFiveWords = "last five"
	prefixGenerate      = "generate reply for email"
	prefixSend          = "send reply for email"
	prefixDelete        = "delete email"
)

var indexedCommands = []struct {
	prefix string
	kind   Kind
}{
	{prefixGenerate, KindGenerateReply},
	{prefixSend, KindSendReply},
	{prefixDelete, KindDelete},
}

// Parse maps free-text input to a command. emailCount bounds the accepted
// email numbers; numbers outside 1..emailCount yield KindUnknown.
func Parse(input string, emailCount int) Command {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "" {
		return Command{Kind: KindUnknown, Index: -1}
	}

	if strings.Contains(lower, phraseLastFive) || strings.Contains(lower, phraseLastFiveWords) {
		return Command{Kind: KindShowLatest, Index: -1}
	}

	for _, c := range indexedCommands {
		if !strings.HasPrefix(lower, c.prefix) {
			continue
		}
		if n, ok := extractNumber(lower); ok && n >= 1 && n <= emailCount {
			return Command{Kind: c.kind, Index: n - 1}
		}
	}

	return Command{Kind: KindUnknown, Index: -1}
}

// ParseConfirmation interprets an answer to the delete confirmation prompt
func ParseConfirmation(input string) Kind {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "yes", "y", "confirm":
		return KindConfirm
	case "no", "n", "cancel":
		return KindCancel
	}
	return KindUnknown
}

// extractNumber concatenates every digit in s and parses the result, so
// "delete email 3" is 3 and "email 1 and 2" is 12.
func extractNumber(s string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
