package coping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTheme(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"I feel anxious about tomorrow", ThemeAnxiety},
		{"had a panic attack", ThemeAnxiety},
		{"I'm so sad lately", ThemeSadness},
		{"feeling down today", ThemeSadness},
		{"I'm lonely", ThemeLonely},
		{"i'm all alone here", ThemeLonely},
		{"work was fine", ThemeGeneral},
		{"", ThemeGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectTheme(tt.message), "message %q", tt.message)
	}
}

func TestStepForEveryTheme(t *testing.T) {
	for _, theme := range []string{ThemeAnxiety, ThemeSadness, ThemeLonely, ThemeGeneral, "unknown"} {
		step := StepFor(theme)
		assert.NotEmpty(t, step.Title, "theme %s", theme)
		assert.NotEmpty(t, step.Instruction, "theme %s", theme)
	}
	assert.Equal(t, "Box breathing", StepFor(ThemeAnxiety).Title)
	assert.Equal(t, StepFor("unknown"), StepFor(ThemeGeneral))
}
