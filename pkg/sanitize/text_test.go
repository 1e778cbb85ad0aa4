package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Amazon SDE intern", "Amazon SDE intern"},
		{"tags removed", "<b>Prepare</b> DSA", "Prepare DSA"},
		{"script dropped", "Hello <script>alert('xss')</script>World", "Hello World"},
		{"apostrophe kept", "Don't skip system design", "Don't skip system design"},
		{"ampersand kept", "R&D role", "R&D role"},
		{"trimmed", "   spaced out  ", "spaced out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestTextPtr(t *testing.T) {
	assert.Nil(t, TextPtr(nil))

	in := " <i>hi</i> "
	out := TextPtr(&in)
	if assert.NotNil(t, out) {
		assert.Equal(t, "hi", *out)
	}
}
