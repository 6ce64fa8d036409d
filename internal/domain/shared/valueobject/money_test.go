package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		expected string
	}{
		{"whole dollars", NewMoneyFromFloat(12), "$12.00"},
		{"cents", NewMoneyFromFloat(9.5), "$9.50"},
		{"rounds half up", NewMoneyFromFloat(0.125), "$0.13"},
		{"zero", Zero(), "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.money.String())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	labor := NewMoneyFromFloat(25)
	tire := NewMoneyFromFloat(110.5).Multiply(decimal.NewFromInt(2))

	assert.Equal(t, "$221.00", tire.String())
	assert.Equal(t, "$246.00", labor.Add(tire).String())
	assert.InDelta(t, 246.0, labor.Add(tire).Float64(), 0.0001)
	assert.True(t, Zero().IsZero())
}

func TestMoney_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Number Money `json:"number"`
		Text   Money `json:"text"`
	}
	err := json.Unmarshal([]byte(`{"number": 19.99, "text": "5.25"}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, "$19.99", payload.Number.String())
	assert.Equal(t, "$5.25", payload.Text.String())

	err = json.Unmarshal([]byte(`{"number": "abc"}`), &payload)
	assert.Error(t, err)
}
