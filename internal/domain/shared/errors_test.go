package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Withf(t *testing.T) {
	err := ErrInvalidFormat.Withf("Unsupported output format %q", "docx")

	assert.Equal(t, `Unsupported output format "docx"`, err.Error())
	assert.Equal(t, "INVALID_FORMAT", err.Code)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.ErrorIs(t, fmt.Errorf("render: %w", err), ErrInvalidFormat)
	assert.NotErrorIs(t, err, ErrInvalidGeometry)
	assert.Equal(t, "Unsupported output format", ErrInvalidFormat.Message)
}

func TestDomainError_As(t *testing.T) {
	var de *DomainError
	assert.True(t, errors.As(fmt.Errorf("bulk: %w", ErrNoCharges), &de))
	assert.Equal(t, "NO_CHARGES", de.Code)
	assert.False(t, errors.Is(errors.New("NO_CHARGES"), ErrNoCharges))
}
