package chat

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/GFT-POC/Ollama-Chat/internal/ai"
	"github.com/GFT-POC/Ollama-Chat/internal/utils"
)

// Transcript is the exported form of a session.
type Transcript struct {
	SessionID  string       `json:"session_id"`
	Model      string       `json:"model"`
	StartedAt  time.Time    `json:"started_at"`
	ExportedAt time.Time    `json:"exported_at"`
	Messages   []ai.Message `json:"messages"`
}

// Export writes the full, untruncated log of s to path. The format follows the
// extension: .json, .md/.markdown, anything else is plain text.
func Export(s Session, path string) error {
	data, err := MarshalTranscript(s, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("export transcript: %w", err)
	}
	return nil
}

// MarshalTranscript encodes s for the given file extension.
func MarshalTranscript(s Session, ext string) ([]byte, error) {
	switch ext {
	case ".json":
		return utils.PrettyJSON(Transcript{
			SessionID:  s.ID,
			Model:      s.Model.ID,
			StartedAt:  s.StartedAt,
			ExportedAt: time.Now(),
			Messages:   s.Log,
		})
	case ".md", ".markdown":
		var b strings.Builder
		fmt.Fprintf(&b, "# Chat with %s\n\n", s.Model.ID)
		for _, m := range s.Log {
			fmt.Fprintf(&b, "**%s:** %s\n\n", m.Role.DisplayName(), m.Content)
		}
		return []byte(b.String()), nil
	default:
		var b strings.Builder
		for _, m := range s.Log {
			fmt.Fprintf(&b, "%s: %s\n", m.Role.DisplayName(), m.Content)
		}
		return []byte(b.String()), nil
	}
}
