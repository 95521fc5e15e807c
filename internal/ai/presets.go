package ai

import "fmt"

// defaultProfiles are common local Ollama tags with their context windows.
var defaultProfiles = []ModelProfile{
	{
		ID:          "llama3.2:1b",
		MaxTokens:   128000,
		Parameters:  "1 billion parameters",
		Description: "Fast and efficient, suited for simple, quick-response tasks.",
	},
	{
		ID:          "llama3.2:latest",
		MaxTokens:   128000,
		Parameters:  "3 billion parameters",
		Description: "Enhanced reasoning, ideal for moderately complex applications.",
	},
	{
		ID:          "llama3.1:latest",
		MaxTokens:   128000,
		Parameters:  "8 billion parameters",
		Description: "High-capacity, suitable for in-depth analyses and detailed responses.",
	},
	{
		ID:          "gemma2:2b",
		MaxTokens:   8196,
		Parameters:  "2 billion parameters",
		Description: "Balanced for speed and accuracy, handles general queries well.",
	},
	{
		ID:          "gemma2:9b",
		MaxTokens:   8196,
		Parameters:  "9 billion parameters",
		Description: "Increased accuracy, excellent for nuanced, complex question answering.",
	},
	{
		ID:          "nemotron-mini",
		MaxTokens:   4096,
		Parameters:  "4 billion parameters",
		Description: "Compact model, optimal for concise contexts with reliable accuracy.",
	},
	{
		ID:          "mistral",
		MaxTokens:   32768,
		Parameters:  "7 billion parameters",
		Description: "Balanced for speed and complexity, suitable for mid-level tasks.",
	},
	{
		ID:          "mistral-nemo",
		MaxTokens:   128000,
		Parameters:  "12 billion parameters",
		Description: "High-capacity, tailored for complex, multi-turn conversations.",
	},
	{
		ID:          "smollm2",
		MaxTokens:   2048,
		Parameters:  "1.7 billion parameters",
		Description: "Efficient and compact, best for brief, straightforward tasks.",
	},
	{
		ID:          "llama2-uncensored:latest",
		MaxTokens:   4096,
		Parameters:  "7 billion parameters",
		Description: "Open-ended, ideal for exploratory, unrestricted dialogues.",
	},
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultProfiles)
	if err != nil {
		// built-in table is static; a failure here is a programming error
		panic(err)
	}
	return c
}

// LoadCatalog builds the startup catalog: the built-in profiles, optionally
// merged with (or replaced by) the profiles stored at path.
func LoadCatalog(path string, merge bool) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	profiles, err := LoadProfiles(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if merge {
		return DefaultCatalog().Merge(profiles)
	}
	return NewCatalog(profiles)
}
