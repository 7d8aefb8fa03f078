package ark

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendDirectives(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		ratio    string
		duration string
		want     string
	}{
		{
			name:     "both appended ratio first",
			prompt:   "a cat surfing",
			ratio:    "9:16",
			duration: "8",
			want:     "a cat surfing --ratio 9:16 --duration 8",
		},
		{
			name:     "existing duration kept",
			prompt:   "a cat surfing --duration 10",
			ratio:    "16:9",
			duration: "5",
			want:     "a cat surfing --duration 10 --ratio 16:9",
		},
		{
			name:     "abbreviated duration kept",
			prompt:   "a cat surfing --dur 10",
			ratio:    "16:9",
			duration: "5",
			want:     "a cat surfing --dur 10 --ratio 16:9",
		},
		{
			name:     "existing ratio kept",
			prompt:   "a cat --ratio 1:1",
			ratio:    "16:9",
			duration: "5",
			want:     "a cat --ratio 1:1 --duration 5",
		},
		{
			name:   "empty values append nothing",
			prompt: "a cat",
			want:   "a cat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendDirectives(tt.prompt, tt.ratio, tt.duration)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, strings.Count(got, "--dur"), 1)
		})
	}
}

func TestAppendDirectives_RatioBeforeDuration(t *testing.T) {
	got := AppendDirectives("waves", "9:16", "8")
	ratioAt := strings.Index(got, "--ratio 9:16")
	durationAt := strings.Index(got, "--duration 8")
	assert.GreaterOrEqual(t, ratioAt, 0)
	assert.Greater(t, durationAt, ratioAt)
}
