// Package chat holds the conversation controller: an explicit Session value and
// the operations that advance it (submit, model selection, reset).
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/GFT-POC/Ollama-Chat/internal/ai"
)

// Session is the state of one conversation. Operations take a Session and
// return an updated copy; a Session value is never modified in place, so
// earlier values stay valid snapshots.
type Session struct {
	ID        string
	Model     ai.ModelProfile
	Log       []ai.Message
	StartedAt time.Time
}

// NewSession starts an empty conversation with the given model.
func NewSession(profile ai.ModelProfile) Session {
	return Session{
		ID:        uuid.NewString(),
		Model:     profile,
		Log:       []ai.Message{},
		StartedAt: time.Now(),
	}
}

// append returns a copy of s with msgs added to the log.
func (s Session) append(msgs ...ai.Message) Session {
	log := make([]ai.Message, 0, len(s.Log)+len(msgs))
	log = append(log, s.Log...)
	s.Log = append(log, msgs...)
	return s
}
