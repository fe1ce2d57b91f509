package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who wrote a chat message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one entry of the chat transcript
type Message struct {
	ID   string
	From Sender
	Text string
	At   time.Time
}

// NewUserMessage creates a message written by the user
func NewUserMessage(text string) Message {
	return newMessage(SenderUser, text)
}

// NewAssistantMessage creates a message written by the assistant
func NewAssistantMessage(text string) Message {
	return newMessage(SenderAssistant, text)
}

func newMessage(from Sender, text string) Message {
	return Message{
		ID:   uuid.NewString(),
		From: from,
		Text: text,
		At:   time.Now(),
	}
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.From == SenderUser
}
