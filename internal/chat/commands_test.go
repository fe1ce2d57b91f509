package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		emailCount int
		want       Command
	}{
		{"empty", "", 5, Command{KindUnknown, -1}},
		{"whitespace", "   ", 5, Command{KindUnknown, -1}},
		{"show_latest", "Show my last 5 emails", 0, Command{KindShowLatest, -1}},
		{"show_latest_words", "what are my LAST FIVE mails?", 0, Command{KindShowLatest, -1}},
		{"show_latest_anywhere", "please, last 5", 3, Command{KindShowLatest, -1}},
		{"generate", "Generate reply for email 2", 5, Command{KindGenerateReply, 1}},
		{"generate_padded", "  generate reply for email 5  ", 5, Command{KindGenerateReply, 4}},
		{"generate_out_of_range", "generate reply for email 6", 5, Command{KindUnknown, -1}},
		{"generate_zero", "generate reply for email 0", 5, Command{KindUnknown, -1}},
		{"generate_no_number", "generate reply for email", 5, Command{KindUnknown, -1}},
		{"generate_no_emails", "generate reply for email 1", 0, Command{KindUnknown, -1}},
		{"send", "Send reply for email 1", 5, Command{KindSendReply, 0}},
		{"send_word_number", "send reply for email two", 5, Command{KindUnknown, -1}},
		{"delete", "Delete email 3", 5, Command{KindDelete, 2}},
		{"delete_digits_concatenated", "delete email 1 or 2", 20, Command{KindDelete, 11}},
		{"delete_concatenated_out_of_range", "delete email 1 or 2", 5, Command{KindUnknown, -1}},
		{"delete_huge_number", "delete email 99999999999999999999999", 5, Command{KindUnknown, -1}},
		{"not_a_prefix", "please delete email 3", 5, Command{KindUnknown, -1}},
		{"reply_without_generate", "reply for email 1", 5, Command{KindUnknown, -1}},
		{"gibberish", "hello there", 5, Command{KindUnknown, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input, tt.emailCount))
		})
	}
}

func TestParse_LatestTakesPrecedence(t *testing.T) {
	// "last 5" is matched before any prefix command
	got := Parse("delete email from last 5", 5)
	assert.Equal(t, KindShowLatest, got.Kind)
}

func TestParseConfirmation(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"yes", KindConfirm},
		{"Y", KindConfirm},
		{" confirm ", KindConfirm},
		{"no", KindCancel},
		{"N", KindCancel},
		{"Cancel", KindCancel},
		{"yes please", KindUnknown},
		{"sure", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseConfirmation(tt.input))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "delete", KindDelete.String())
	assert.Equal(t, "show_latest", KindShowLatest.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
