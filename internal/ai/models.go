package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GFT-POC/Ollama-Chat/internal/utils"
)

// Rough conversion factors used for the model card.
const (
	TokensPerWord = 1.3653
	WordsPerPage  = 500
)

// ErrUnknownModel is returned when a model identifier is not in the catalog.
var ErrUnknownModel = errors.New("unknown model")

// ModelProfile describes a model's context window and human-facing metadata.
type ModelProfile struct {
	ID          string `json:"id" yaml:"id"`
	MaxTokens   int    `json:"max_tokens" yaml:"max_tokens"`
	Parameters  string `json:"parameters" yaml:"parameters"`
	Description string `json:"description" yaml:"description"`
}

// ApproxWords converts the context window into an approximate word count.
func (p ModelProfile) ApproxWords() int {
	return int(math.Round(float64(p.MaxTokens) / TokensPerWord))
}

// ApproxPages converts ApproxWords into pages of WordsPerPage words.
func (p ModelProfile) ApproxPages() int {
	return int(math.Round(float64(p.ApproxWords()) / WordsPerPage))
}

// Catalog is an immutable lookup table of model profiles. It preserves
// declaration order so listings and the default selection are stable.
type Catalog struct {
	order    []string
	profiles map[string]ModelProfile
}

// NewCatalog validates profiles and builds a catalog from them.
func NewCatalog(profiles []ModelProfile) (*Catalog, error) {
	c := &Catalog{
		order:    make([]string, 0, len(profiles)),
		profiles: make(map[string]ModelProfile, len(profiles)),
	}
	for i, p := range profiles {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("profile %d: id cannot be empty", i)
		}
		if p.MaxTokens <= 0 {
			return nil, fmt.Errorf("profile %s: max_tokens must be > 0 (got %d)", p.ID, p.MaxTokens)
		}
		if _, dup := c.profiles[p.ID]; dup {
			return nil, fmt.Errorf("profile %s: duplicate id", p.ID)
		}
		c.order = append(c.order, p.ID)
		c.profiles[p.ID] = p
	}
	return c, nil
}

// Lookup returns the profile for id or an error wrapping ErrUnknownModel.
func (c *Catalog) Lookup(id string) (ModelProfile, error) {
	if c != nil {
		if p, ok := c.profiles[strings.TrimSpace(id)]; ok {
			return p, nil
		}
	}
	return ModelProfile{}, fmt.Errorf("%w: %q", ErrUnknownModel, id)
}

// Profiles returns all profiles in declaration order.
func (c *Catalog) Profiles() []ModelProfile {
	out := make([]ModelProfile, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.profiles[id])
	}
	return out
}

// Len reports the number of profiles.
func (c *Catalog) Len() int { return len(c.order) }

// Default returns the first declared profile.
func (c *Catalog) Default() (ModelProfile, bool) {
	if c == nil || len(c.order) == 0 {
		return ModelProfile{}, false
	}
	return c.profiles[c.order[0]], true
}

// Merge returns a new catalog where profiles override entries with the same
// id and new ids are appended. The receiver is left unchanged.
func (c *Catalog) Merge(profiles []ModelProfile) (*Catalog, error) {
	merged := c.Profiles()
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.ID] = i
	}
	for _, p := range profiles {
		p.ID = strings.TrimSpace(p.ID)
		if i, ok := index[p.ID]; ok {
			merged[i] = p
			continue
		}
		index[p.ID] = len(merged)
		merged = append(merged, p)
	}
	return NewCatalog(merged)
}

// LoadProfiles reads a profile list from a JSON or YAML file, chosen by extension.
// Example YAML entry:
//
//   - id: qwen2.5:7b
//     max_tokens: 32768
//     parameters: 7 billion parameters
//     description: Multilingual general purpose model.
func LoadProfiles(path string) ([]ModelProfile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []ModelProfile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &out); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return out, nil
}

// WriteProfiles writes profiles as JSON or YAML depending on the file extension.
func WriteProfiles(path string, profiles []ModelProfile) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(profiles)
	default:
		data, err = utils.PrettyJSON(profiles)
	}
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return utils.SafeWriteFile(path, data)
}
