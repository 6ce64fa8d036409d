package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fueltire/receipts/internal/domain/shared"
)

func TestNewPageGeometry(t *testing.T) {
	tests := []struct {
		name        string
		width       float64
		margin      float64
		expectError bool
	}{
		{"kiosk roll", 2.75, 0.125, false},
		{"no margin", 3.15, 0, false},
		{"zero width", 0, 0, true},
		{"negative margin", 2.75, -0.1, true},
		{"margins wider than page", 1, 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewPageGeometry(tt.width, tt.margin)
			if tt.expectError {
				require.Error(t, err)
				var de *shared.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, "INVALID_GEOMETRY", de.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.width, g.WidthInches)
		})
	}
}

func TestPageGeometry_Points(t *testing.T) {
	g := ReceiptGeometry()
	assert.InDelta(t, 198.0, g.WidthPoints(), 0.001)
	assert.InDelta(t, 198.0, g.ContentWidthPoints(), 0.001)

	g, err := NewPageGeometry(2.75, 0.125)
	require.NoError(t, err)
	assert.InDelta(t, 180.0, g.ContentWidthPoints(), 0.001)
}

func TestTextOptions(t *testing.T) {
	opts := Text(10).Centered().Emphasized()
	assert.Equal(t, TextOptions{Size: 10, Bold: true, Align: AlignCenter}, opts)

	merged := Text(8).With(Style{Italic: true})
	assert.True(t, merged.Italic)
	assert.False(t, merged.Bold)
	assert.True(t, Text(11).Slanted().Italic)
}
