// Package generation implements the ordered fallback chain of reply
// backends.
package generation

import (
	"context"
	"log"
	"strings"

	"github.com/StyNW7/Zenium/pkg/models"
)

// Request carries everything a strategy may need to produce a reply.
type Request struct {
	System    string
	Prompt    string
	Retrieved []models.RetrievedExample
}

// Strategy is one generation backend. Returning an error or an empty
// string passes control to the next strategy in the chain; a strategy
// must never panic across this boundary.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// GenericReply is the last-resort acknowledgment when no backend and no
// retrieved example is available.
const GenericReply = "I'm here to listen. Can you say a bit more about what's been happening?"

// Chain tries each strategy strictly in order and returns the first
// non-empty result. Backend errors are logged and swallowed: total
// unavailability of every backend is a handled steady state, and the
// terminal static strategy guarantees the user always receives a reply.
type Chain struct {
	strategies []Strategy
}

// NewChain builds a chain over the given strategies, in order.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Generate runs the chain. It never returns an empty string.
func (c *Chain) Generate(ctx context.Context, req Request) string {
	for _, s := range c.strategies {
		out, err := s.Generate(ctx, req)
		if err != nil {
			log.Printf("Generation backend %s failed: %v", s.Name(), err)
			continue
		}
		if reply := strings.TrimSpace(out); reply != "" {
			return reply
		}
	}
	return GenericReply
}
