package parser

import "strings"

type markdownParser struct{}

func (markdownParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

// Parse keeps markdown as-is apart from line-ending and blank-line cleanup,
// so the model sees headings and code fences.
func (markdownParser) Parse(content []byte) (string, error) {
	return normalizeText(string(content)), nil
}
