package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StyNW7/Zenium/internal/config"
)

func defaultGate(t *testing.T) *Gate {
	t.Helper()
	g, err := NewGate(config.SafetyConfig{})
	require.NoError(t, err)
	return g
}

func TestCheckCrisisLanguage(t *testing.T) {
	g := defaultGate(t)

	tests := []struct {
		message string
		ids     []string
	}{
		{"I want to end it all", []string{"self-harm"}},
		{"i've been thinking about suicide", []string{"self-harm"}},
		{"I WANT TO KILL MYSELF", []string{"self-harm"}},
		{"aku mau mati", []string{"self-harm"}},
		{"i want to hurt someone", []string{"harm-others"}},
	}
	for _, tt := range tests {
		match := g.Check(tt.message)
		assert.True(t, match.Matched, "message %q", tt.message)
		assert.Equal(t, tt.ids, match.PatternIDs, "message %q", tt.message)
	}
}

func TestCheckBenignMessages(t *testing.T) {
	g := defaultGate(t)

	for _, msg := range []string{
		"I feel anxious about work",
		"my day was fine",
		"the deadline is killing my schedule", // no pattern term
		"",
	} {
		match := g.Check(msg)
		assert.False(t, match.Matched, "message %q", msg)
		assert.Empty(t, match.PatternIDs)
	}
}

func TestCheckNormalizesBeforeMatching(t *testing.T) {
	g := defaultGate(t)
	assert.True(t, g.Check("I want to   End It ALL 😞").Matched)
}

func TestCrisisMessageFixed(t *testing.T) {
	g := defaultGate(t)
	assert.Equal(t, DefaultCrisisMessage, g.CrisisMessage())
	assert.Contains(t, g.CrisisMessage(), "988")
}

func TestConfiguredPatternsReplaceDefaults(t *testing.T) {
	g, err := NewGate(config.SafetyConfig{
		Patterns:      []config.SafetyPattern{{ID: "custom", Pattern: `danger word`}},
		CrisisMessage: "custom crisis reply",
	})
	require.NoError(t, err)

	match := g.Check("this contains the danger word here")
	assert.True(t, match.Matched)
	assert.Equal(t, []string{"custom"}, match.PatternIDs)
	assert.Equal(t, "custom crisis reply", g.CrisisMessage())

	// Defaults no longer apply.
	assert.False(t, g.Check("i want to end it all").Matched)
}

func TestInvalidPatternRejected(t *testing.T) {
	_, err := NewGate(config.SafetyConfig{
		Patterns: []config.SafetyPattern{{ID: "bad", Pattern: `([unclosed`}},
	})
	assert.Error(t, err)
}
