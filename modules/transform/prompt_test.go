package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptAge(t *testing.T) {
	prompt := BuildPrompt("age", "Age", AgeParams{Age: 45})
	assert.Contains(t, prompt, "45 years old")
}

func TestBuildPromptFallback(t *testing.T) {
	prompt := BuildPrompt("mystery-tool", "Mystery Tool", GenericParams{})
	assert.Equal(t, "Apply the Mystery Tool transformation.", prompt)
}

func TestBuildPromptHairstyle(t *testing.T) {
	prompt := BuildPrompt("hairstyle", "Hairstyle", HairstyleParams{Style: "Buzz Cut"})
	assert.Contains(t, prompt, `"Buzz Cut"`)
	assert.NotContains(t, prompt, "hair color should be")

	withColor := BuildPrompt("hairstyle", "Hairstyle", HairstyleParams{Style: "Buzz Cut", Color: "blonde"})
	assert.Contains(t, withColor, "The hair color should be blonde.")
}

func TestBuildPromptIntensityTools(t *testing.T) {
	tests := []struct {
		toolID string
		want   string
	}{
		{"smile", "intensity of 70%"},
		{"fat", "heavier by an intensity of 70%"},
		{"bald", "bald with an intensity of 70%"},
	}

	for _, tt := range tests {
		prompt := BuildPrompt(tt.toolID, "", IntensityParams{ToolID: tt.toolID, Intensity: 70})
		if !strings.Contains(prompt, tt.want) {
			t.Errorf("BuildPrompt(%s) = %q, want substring %q", tt.toolID, prompt, tt.want)
		}
	}
}

func TestBuildPromptBeardAndHalloween(t *testing.T) {
	assert.Equal(t, `Apply a "Goatee" beard style.`,
		BuildPrompt("beard", "Beard", BeardParams{BeardStyle: "Goatee"}))
	assert.Equal(t, `Apply a halloween filter. The style should focus on "face only".`,
		BuildPrompt("halloween", "Halloween", HalloweenParams{HalloweenStyle: "face only"}))
}
