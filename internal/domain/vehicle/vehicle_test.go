package vehicle

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fueltire/receipts/internal/domain/shared/valueobject"
)

func TestConfig_Costs(t *testing.T) {
	cfg := Config{
		LaborCost:    valueobject.NewMoneyFromFloat(40),
		TireCost:     valueobject.NewMoneyFromFloat(120),
		TireQuantity: decimal.NewFromInt(2),
		SalesTaxRate: decimal.NewFromFloat(0.06),
		RecyclingFee: valueobject.NewMoneyFromFloat(3.5),
	}

	b := cfg.Costs()
	assert.Equal(t, "$40.00", b.Labor.String())
	assert.Equal(t, "$240.00", b.Tires.String())
	assert.Equal(t, "$7.20", b.SalesTax.String())
	assert.Equal(t, "$7.00", b.RecyclingFee.String())
	assert.Equal(t, "$294.20", b.Total.String())
}

func TestInfo_Address(t *testing.T) {
	tests := []struct {
		name    string
		address string
		street  string
		city    string
	}{
		{"two lines", "45915 Maries Rd\nDulles, VA 20166", "45915 Maries Rd", "Dulles, VA 20166"},
		{"single line", "45915 Maries Rd", "45915 Maries Rd", ""},
		{"extra lines stay in city", "A\nB\nC", "A", "B\nC"},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Info{Address: tt.address}
			assert.Equal(t, tt.street, info.Street())
			assert.Equal(t, tt.city, info.City())
		})
	}
}

func TestInfo_Plate(t *testing.T) {
	assert.Equal(t, "VA ABC1234", Info{PlateState: "VA", PlateNumber: "ABC1234"}.Plate())
	assert.Equal(t, "", Info{}.Plate())
}
