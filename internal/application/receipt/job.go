package receipt

import (
	"time"

	"github.com/fueltire/receipts/internal/domain/payment"
	"github.com/fueltire/receipts/internal/domain/shared/valueobject"
	"github.com/fueltire/receipts/internal/domain/tire"
	"github.com/fueltire/receipts/internal/domain/vehicle"
)

// Job is everything a receipt prints besides the page furniture.
type Job struct {
	// Service is nil for declined and bulk receipts.
	Service *tire.Service
	Data    tire.DataSet
	Comment string

	AcceptedAt    time.Time
	ControlNumber *int64
	// KioskID overrides the configured kiosk id when set.
	KioskID string
	Email   string

	Vehicle vehicle.Info
	Pricing vehicle.Config
	Payment payment.Info

	Charges []BulkCharge
}

// BulkCharge is one line of a bulk receipt.
type BulkCharge struct {
	Service       string            `json:"service"`
	Amount        valueobject.Money `json:"amount"`
	ControlNumber int64             `json:"control_number"`
	Vehicle       string            `json:"vehicle"`
}
