// Package vehicle holds the identity and pricing of the serviced vehicle.
package vehicle

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fueltire/receipts/internal/domain/shared/valueobject"
)

// Config carries pricing parameters for tire replacement and repairs
type Config struct {
	// Price is the list value of the service, printed for prepaid receipts
	Price          valueobject.Money `json:"price"`
	LaborCost      valueobject.Money `json:"labor_cost"`
	TireCost       valueobject.Money `json:"tire_cost"`
	TireQuantity   decimal.Decimal   `json:"tire_quantity"`
	SalesTaxRate   decimal.Decimal   `json:"sales_tax_rate"`
	RecyclingFee   valueobject.Money `json:"recycling_fee"`
	RepairQuantity int               `json:"repair_quantity"`
}

// CostBreakdown is the itemized cost of a replacement service
type CostBreakdown struct {
	Labor        valueobject.Money
	Tires        valueobject.Money
	SalesTax     valueobject.Money
	RecyclingFee valueobject.Money
	Total        valueobject.Money
}

// Costs computes the replacement breakdown. Sales tax applies to the unit tire cost.
func (c Config) Costs() CostBreakdown {
	b := CostBreakdown{
		Labor:        c.LaborCost,
		Tires:        c.TireCost.Multiply(c.TireQuantity),
		SalesTax:     c.TireCost.Multiply(c.SalesTaxRate),
		RecyclingFee: c.RecyclingFee.Multiply(c.TireQuantity),
	}
	b.Total = b.Labor.Add(b.Tires).Add(b.SalesTax).Add(b.RecyclingFee)
	return b
}

// Info identifies the serviced vehicle
type Info struct {
	PlateState    string `json:"plate_state,omitempty"`
	PlateNumber   string `json:"plate_number,omitempty"`
	VIN           string `json:"vin,omitempty"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
	Company       string `json:"company,omitempty"`
	Mileage       *int   `json:"mileage,omitempty"`
	// Address holds street and city separated by a newline
	Address string `json:"address,omitempty"`
}

// Plate returns "STATE NUMBER", or "" when no plate was captured
func (i Info) Plate() string {
	return strings.TrimSpace(i.PlateState + " " + i.PlateNumber)
}

// Street returns the first address line
func (i Info) Street() string {
	street, _ := i.addressLines()
	return street
}

// City returns the second address line
func (i Info) City() string {
	_, city := i.addressLines()
	return city
}

func (i Info) addressLines() (string, string) {
	if i.Address == "" {
		return "", ""
	}
	parts := strings.SplitN(i.Address, "\n", 2)
	if len(parts) == 1 {
		return strings.TrimSpace(parts[0]), ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
