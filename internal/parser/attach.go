package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Attachment reads path and formats it as a user message, followed by an optional note.
func Attachment(path, note string) (string, error) {
	text, err := ParseFile(path)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%s has no text content", filepath.Base(path))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Contents of %s:\n\n%s", filepath.Base(path), text)
	if note = strings.TrimSpace(note); note != "" {
		b.WriteString("\n\n")
		b.WriteString(note)
	}
	return b.String(), nil
}
