package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Priority is the closed set of category priorities, ordered by rank.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// Rank returns the sort position of a priority; lower sorts first.
// Unknown values rank as normal.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// Matcher holds the pattern lists that assign emails to a category.
// Sender and subject patterns are stored lowercased; label names keep
// their configured case and are compared case-insensitively at match time.
type Matcher struct {
	Senders  []string `yaml:"senders"`
	Subjects []string `yaml:"subjects"`
	Labels   []string `yaml:"labels"`
}

// Category is one user-configured email bucket.
type Category struct {
	Key         string   `yaml:"-"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Priority    Priority `yaml:"priority"`
	Matcher     Matcher  `yaml:"matchers"`
}

// SummarySettings tunes digest generation.
type SummarySettings struct {
	DailyLookbackHours int  `yaml:"daily_lookback_hours"`
	MaxPerCategory     int  `yaml:"max_per_category"`
	IncludeRead        bool `yaml:"include_read"`
}

// Categories is the full loaded ruleset. Categories keep the file's
// mapping order, which is also rule-evaluation order. The config is
// immutable after load; categorization behavior only changes by
// reloading the file and rebuilding the service.
type Categories struct {
	ordered []Category
	index   map[string]int

	DefaultCategory Category
	Summary         SummarySettings
}

type categoriesFile struct {
	Categories      yaml.Node       `yaml:"categories"`
	DefaultCategory *Category       `yaml:"default_category"`
	Summary         SummarySettings `yaml:"summary"`
}

// LoadCategories reads the category ruleset from a YAML file. A missing
// file yields an empty ruleset rather than an error, matching a fresh
// install with no categories configured yet.
func LoadCategories(path string) (*Categories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyCategories(), nil
		}
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}
	return ParseCategories(data)
}

// ParseCategories decodes a category ruleset from raw YAML.
func ParseCategories(data []byte) (*Categories, error) {
	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse categories file: %w", err)
	}

	cfg := emptyCategories()
	if file.DefaultCategory != nil {
		cfg.DefaultCategory = *file.DefaultCategory
		cfg.DefaultCategory.Key = "default"
		if cfg.DefaultCategory.Priority == "" {
			cfg.DefaultCategory.Priority = PriorityNormal
		}
	}
	cfg.Summary = file.Summary

	// yaml.Node preserves mapping order where a map[string]Category
	// would not; Content holds alternating key/value nodes.
	if file.Categories.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(file.Categories.Content); i += 2 {
			key := file.Categories.Content[i].Value
			var cat Category
			if err := file.Categories.Content[i+1].Decode(&cat); err != nil {
				return nil, fmt.Errorf("failed to parse category %q: %w", key, err)
			}
			cat.Key = key
			if cat.Name == "" {
				cat.Name = key
			}
			if cat.Priority == "" {
				cat.Priority = PriorityNormal
			}
			cat.Matcher.Senders = lowerAll(cat.Matcher.Senders)
			cat.Matcher.Subjects = lowerAll(cat.Matcher.Subjects)
			cfg.index[key] = len(cfg.ordered)
			cfg.ordered = append(cfg.ordered, cat)
		}
	}
	return cfg, nil
}

func emptyCategories() *Categories {
	return &Categories{
		index: map[string]int{},
		DefaultCategory: Category{
			Key:      "general",
			Name:     "General",
			Priority: PriorityNormal,
		},
	}
}

// Ordered returns all categories in rule-evaluation order.
func (c *Categories) Ordered() []Category {
	return c.ordered
}

// Get looks up a category by key.
func (c *Categories) Get(key string) (Category, bool) {
	i, ok := c.index[key]
	if !ok {
		return Category{}, false
	}
	return c.ordered[i], true
}

// Len returns the number of configured categories.
func (c *Categories) Len() int { return len(c.ordered) }

// LookbackHours returns the digest lookback window, defaulting to 24.
func (c *Categories) LookbackHours() int {
	if c.Summary.DailyLookbackHours > 0 {
		return c.Summary.DailyLookbackHours
	}
	return 24
}

// MaxPerCategory returns the per-category display cap, defaulting to 10.
func (c *Categories) MaxPerCategory() int {
	if c.Summary.MaxPerCategory > 0 {
		return c.Summary.MaxPerCategory
	}
	return 10
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
