// Package prompt assembles the bounded context window sent to a
// generation backend.
package prompt

import (
	"strings"

	"github.com/StyNW7/Zenium/pkg/models"
)

// SystemInstructions is the persona sent as the system message to hosted
// backends and prefixed to local-backend prompts.
const SystemInstructions = "You are Zenium, a professional trauma-informed therapist. " +
	"Be empathetic, validate feelings, use reflective listening, and offer low-burden " +
	"coping steps when appropriate. Keep responses conversational, warm, and concise " +
	"(3-6 sentences). If safety risk detected, prioritize crisis instructions."

const defaultPersona = "You are Zenium, a warm trauma-informed therapist. " +
	"Be empathic, reflective, and conversational."

const closingInstruction = "Now respond to the user below in a conversational, " +
	"empathetic, and helpful way. Keep it natural and not robotic; 3-6 sentences."

// Composer renders the generation prompt. Section order is fixed: persona,
// retrieved examples, recent history, closing instruction, current
// message. Empty sections are omitted entirely, never rendered as bare
// headers, and no section is truncated mid-sentence.
type Composer struct {
	persona       string
	historyWindow int
}

// NewComposer creates a composer with the given history window (turns).
func NewComposer(historyWindow int) *Composer {
	if historyWindow <= 0 {
		historyWindow = 6
	}
	return &Composer{persona: defaultPersona, historyWindow: historyWindow}
}

// Compose renders the prompt for the current message.
func (c *Composer) Compose(message string, retrieved []models.RetrievedExample, history []models.Turn) string {
	sections := []string{c.persona}

	if block := renderExamples(retrieved); block != "" {
		sections = append(sections, block)
	}
	if block := renderHistory(history, c.historyWindow); block != "" {
		sections = append(sections, block)
	}

	sections = append(sections, closingInstruction)
	sections = append(sections, "User: "+message)

	return strings.Join(sections, "\n\n")
}

func renderExamples(retrieved []models.RetrievedExample) string {
	if len(retrieved) == 0 {
		return ""
	}
	examples := make([]string, len(retrieved))
	for i, r := range retrieved {
		examples[i] = "User: " + r.Entry.Query + "\nAssistant: " + r.Entry.Response
	}
	return "Examples of similar exchanges (use these as style + content guides):\n" +
		strings.Join(examples, "\n\n")
}

func renderHistory(history []models.Turn, window int) string {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, len(history))
	for i, t := range history {
		role := "Assistant"
		if t.Role == models.RoleUser {
			role = "User"
		}
		lines[i] = role + ": " + t.Content
	}
	return "Conversation so far:\n" + strings.Join(lines, "\n")
}
