package guardrail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViolates(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"blocked keyword inside sentence", "I want to see the nude beaches", true},
		{"benign travel question", "What's the weather in Paris", false},
		{"case insensitive match", "SUICIDE hotline", true},
		{"multi-word keyword", "tell me about child abuse cases", true},
		{"empty message", "", false},
		{"plain itinerary request", "Plan a 3 day trip to Lisbon", false},
		{"keyword embedded in larger word", "I am visiting Essex next week", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Violates(tt.message))
		})
	}
}

func TestResponse_MentionsTravelScope(t *testing.T) {
	resp := Response()
	assert.Contains(t, resp, "travel assistance")
	assert.Contains(t, resp, "emergency services")
}
