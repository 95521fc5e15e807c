// Package parser extracts plain text from files attached to a conversation.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Parser turns the raw bytes of one file format into text.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) (string, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrUnsupported indicates the file is not text and no parser handles its format.
var ErrUnsupported = errors.New("unsupported document format")

// MaxFileBytes caps how much of a file is read for an attachment.
const MaxFileBytes = 8 << 20

// ParseFile selects a parser based on filename and returns the extracted text.
// Files without a dedicated parser are accepted when they are valid UTF-8.
func ParseFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileBytes {
		return "", fmt.Errorf("%s is %d bytes, larger than the %d byte attachment limit", filepath.Base(path), info.Size(), MaxFileBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	for _, p := range registry {
		if p.CanParse(path) {
			return p.Parse(data)
		}
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	return normalizeText(string(data)), nil
}

// normalizeText converts line endings to \n and collapses runs of blank lines.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

func init() {
	Register(markdownParser{})
	Register(docxParser{})
}
