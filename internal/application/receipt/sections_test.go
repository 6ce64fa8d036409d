package receipt

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

func TestWrapComment(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"empty", "", 10, nil},
		{"fits", "all good", 10, []string{"all good"}},
		{"one word over", "aaaa bbbb cccc", 10, []string{"aaaa bbbb", "cccc"}},
		{"forced break", "left front\nnail", 40, []string{"left front", "nail"}},
		{"blank line", "a\n\nb", 40, []string{"a", "", "b"}},
		{"carriage returns", "a\r\nb", 40, []string{"a", "b"}},
		{"long word kept whole", "x supercalifragilistic y", 5, []string{"x", "supercalifragilistic", "y"}},
		{"trailing break", "done\n", 40, []string{"done"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapComment(tt.text, tt.width, runeWidth))
		})
	}
}

func TestWrapComment_NoWordLost(t *testing.T) {
	text := "Left rear inner tire has a slow leak near the valve stem, recommend replacement soon"
	lines := WrapComment(text, 24, runeWidth)
	assert.Greater(t, len(lines), 2)

	joined := ""
	for i, l := range lines {
		if i > 0 {
			joined += " "
		}
		joined += l
	}
	assert.Equal(t, text, joined)
}

func TestFixed2(t *testing.T) {
	assert.Equal(t, "15.63", fixed2(15.625))
	assert.Equal(t, "-5.00", fixed2(-5))
	assert.Equal(t, "0.00", fixed2(0))
}
