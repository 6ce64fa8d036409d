package receipt

import (
	"context"
	"math/rand/v2"
	"time"
)

// SettingsReader is a read-only lookup of numeric kiosk settings.
type SettingsReader interface {
	GetFloat(key string) (float64, bool)
}

// CounterSink accumulates running totals. Increments are fire-and-forget:
// implementations handle their own failures and must be safe for concurrent use.
type CounterSink interface {
	Increment(ctx context.Context, name string, amount float64)
}

// Clock returns the current time
type Clock func() time.Time

// Chooser picks one of the given options; options is never empty
type Chooser func(options []string) string

// RandomChooser picks uniformly at random
func RandomChooser(options []string) string {
	return options[rand.IntN(len(options))]
}

// Setting keys read by the composer
const (
	SettingGasPrice        = "gas_price"
	SettingNitrogenPercent = "nitrogen_percent"
)

// Counter names written by the composer
const (
	CounterRecentSavedDollars      = "recent_saved_dollars"
	CounterTotalSavedDollars       = "total_saved_dollars"
	CounterRecentMaterialCosts     = "recent_material_costs"
	CounterTotalMaterialCosts      = "total_material_costs"
	CounterRecentSalesTaxCollected = "recent_salestax_collected"
	CounterTotalSalesTaxCollected  = "total_salestax_collected"
	CounterRecentRecyclingFees     = "recent_tire_recycling_fees"
	CounterTotalRecyclingFees      = "total_tire_recycling_fees"
)

type noSettings struct{}

func (noSettings) GetFloat(string) (float64, bool) { return 0, false }

type noCounters struct{}

func (noCounters) Increment(context.Context, string, float64) {}
