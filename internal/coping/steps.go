// Package coping maps detected conversation themes to small, low-burden
// coping steps.
package coping

import (
	"strings"

	"github.com/StyNW7/Zenium/internal/corpus"
	"github.com/StyNW7/Zenium/pkg/models"
)

// Themes recognized by the keyword detector.
const (
	ThemeAnxiety = "anxiety"
	ThemeSadness = "sadness"
	ThemeLonely  = "lonely"
	ThemeGeneral = "general"
)

// DetectTheme classifies a message into a coping theme by keyword. The
// heavy emotion dictionaries live outside this service; this covers only
// what the step table needs.
func DetectTheme(text string) string {
	t := corpus.Normalize(text)
	switch {
	case strings.Contains(t, "anxi") || strings.Contains(t, "panic"):
		return ThemeAnxiety
	case strings.Contains(t, "sad") || strings.Contains(t, "down"):
		return ThemeSadness
	case strings.Contains(t, "lonely") || strings.Contains(t, "alone"):
		return ThemeLonely
	default:
		return ThemeGeneral
	}
}

// StepFor returns the coping step for a theme, defaulting to a short
// breathing exercise.
func StepFor(theme string) models.Suggestion {
	switch theme {
	case ThemeAnxiety:
		return models.Suggestion{
			Title:       "Box breathing",
			Instruction: "Inhale 4 / Hold 4 / Exhale 4 / Hold 4. Repeat 3 times.",
		}
	case ThemeSadness:
		return models.Suggestion{
			Title:       "List 3 small things",
			Instruction: "Write 3 tiny things that went okay today.",
		}
	case ThemeLonely:
		return models.Suggestion{
			Title:       "Send a message",
			Instruction: "Send one short message: 'Hey, are you free to talk?'",
		}
	default:
		return models.Suggestion{
			Title:       "Short breathing",
			Instruction: "Take 4 slow breaths, focusing on the exhale. Repeat 3 times.",
		}
	}
}
