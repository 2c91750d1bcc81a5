package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesetYAML = `
categories:
  security:
    name: Security Alerts
    priority: critical
    matchers:
      senders: ["Security@", "no-reply@accounts"]
      subjects: ["Suspicious Sign-In"]
  work:
    priority: high
    matchers:
      senders: ["@corp.example.com"]
      labels: ["Work"]
  newsletters:
    name: Newsletters
    priority: low
    matchers:
      subjects: ["newsletter", "digest"]
summary:
  daily_lookback_hours: 48
  max_per_category: 3
  include_read: true
`

func TestParseCategoriesPreservesOrder(t *testing.T) {
	t.Parallel()

	cfg, err := ParseCategories([]byte(rulesetYAML))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Len())

	keys := make([]string, 0, cfg.Len())
	for _, cat := range cfg.Ordered() {
		keys = append(keys, cat.Key)
	}
	assert.Equal(t, []string{"security", "work", "newsletters"}, keys)
}

func TestParseCategoriesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ParseCategories([]byte(rulesetYAML))
	require.NoError(t, err)

	// Name defaults to the key, priority to normal.
	work, ok := cfg.Get("work")
	require.True(t, ok)
	assert.Equal(t, "work", work.Name)
	assert.Equal(t, PriorityHigh, work.Priority)

	minimal, err := ParseCategories([]byte("categories:\n  misc: {}\n"))
	require.NoError(t, err)
	cat, ok := minimal.Get("misc")
	require.True(t, ok)
	assert.Equal(t, "misc", cat.Name)
	assert.Equal(t, PriorityNormal, cat.Priority)
}

func TestParseCategoriesLowercasesPatterns(t *testing.T) {
	t.Parallel()

	cfg, err := ParseCategories([]byte(rulesetYAML))
	require.NoError(t, err)

	sec, ok := cfg.Get("security")
	require.True(t, ok)
	assert.Equal(t, []string{"security@", "no-reply@accounts"}, sec.Matcher.Senders)
	assert.Equal(t, []string{"suspicious sign-in"}, sec.Matcher.Subjects)

	// Label names keep their configured case.
	work, _ := cfg.Get("work")
	assert.Equal(t, []string{"Work"}, work.Matcher.Labels)
}

func TestParseCategoriesSummarySettings(t *testing.T) {
	t.Parallel()

	cfg, err := ParseCategories([]byte(rulesetYAML))
	require.NoError(t, err)

	assert.Equal(t, 48, cfg.LookbackHours())
	assert.Equal(t, 3, cfg.MaxPerCategory())
	assert.True(t, cfg.Summary.IncludeRead)
}

func TestLoadCategoriesMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadCategories(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Len())
	assert.Equal(t, 24, cfg.LookbackHours())
	assert.Equal(t, 10, cfg.MaxPerCategory())
}

func TestGetUnknownCategory(t *testing.T) {
	t.Parallel()

	cfg, err := ParseCategories([]byte(rulesetYAML))
	require.NoError(t, err)

	_, ok := cfg.Get("nope")
	assert.False(t, ok)
}

func TestPriorityRank(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, PriorityCritical.Rank())
	assert.Equal(t, 1, PriorityHigh.Rank())
	assert.Equal(t, 2, PriorityNormal.Rank())
	assert.Equal(t, 3, PriorityLow.Rank())
	assert.Equal(t, 2, Priority("whatever").Rank())
}
