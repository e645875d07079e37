// Package safety implements the crisis-language gate that precedes and
// overrides the rest of the pipeline.
package safety

import (
	"fmt"
	"regexp"

	"github.com/StyNW7/Zenium/internal/config"
	"github.com/StyNW7/Zenium/internal/corpus"
	"github.com/StyNW7/Zenium/pkg/models"
)

// DefaultCrisisMessage is returned verbatim on any pattern match. It is a
// fixed resource message, never a generated reply.
const DefaultCrisisMessage = "I'm very concerned about your safety. " +
	"If you are in immediate danger, please contact local emergency services now. " +
	"If you're in the U.S., call 988. Are you in a safe place right now?"

// DefaultPatterns is the built-in crisis pattern set. Deployments replace
// or extend it through configuration; pattern coverage is a product
// decision, not a code constant. False positives are preferred over false
// negatives.
func DefaultPatterns() []config.SafetyPattern {
	return []config.SafetyPattern{
		{
			ID:      "self-harm",
			Pattern: `suicid|kill myself|want to die|end it all|end my life|mau mati|bunuh diri|mengakhiri hidup`,
		},
		{
			ID:      "harm-others",
			Pattern: `kill someone|hurt someone|membunuh|menyakiti orang`,
		},
	}
}

type compiledPattern struct {
	id string
	re *regexp.Regexp
}

// Gate matches messages against a fixed pattern set. It holds no mutable
// state and is safe for concurrent use.
type Gate struct {
	patterns      []compiledPattern
	crisisMessage string
}

// NewGate compiles the configured patterns. Empty patterns or message
// fall back to the defaults.
func NewGate(cfg config.SafetyConfig) (*Gate, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	message := cfg.CrisisMessage
	if message == "" {
		message = DefaultCrisisMessage
	}

	g := &Gate{crisisMessage: message}
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling crisis pattern %q: %w", p.ID, err)
		}
		g.patterns = append(g.patterns, compiledPattern{id: p.ID, re: re})
	}
	return g, nil
}

// Check matches the normalized message against every pattern and returns
// the ids of those that hit. Callers must treat a match as a mandatory
// control-flow override: no retrieval, no generation.
func (g *Gate) Check(message string) models.CrisisMatch {
	normalized := corpus.Normalize(message)
	var match models.CrisisMatch
	for _, p := range g.patterns {
		if p.re.MatchString(normalized) {
			match.Matched = true
			match.PatternIDs = append(match.PatternIDs, p.id)
		}
	}
	return match
}

// CrisisMessage returns the fixed crisis-resource reply.
func (g *Gate) CrisisMessage() string {
	return g.crisisMessage
}
