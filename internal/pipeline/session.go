package pipeline

import (
	"slices"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Greeting seeds every new Session.
const Greeting = "Hello! Enter a video link to transcribe."

// Message is one entry in a Session's history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the caller-owned conversation history. It is a value: Run
// returns an updated copy and never mutates the one passed in.
type Session struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// NewSession returns a Session seeded with the greeting.
func NewSession() Session {
	return Session{
		ID:       uuid.NewString(),
		Messages: []Message{{Role: RoleAssistant, Content: Greeting}},
	}
}

// With returns a copy of s with a message appended.
func (s Session) With(role, content string) Session {
	s.Messages = append(slices.Clip(s.Messages), Message{Role: role, Content: content})
	return s
}
