package receipt

import (
	"maps"
	"math"
	"slices"

	"github.com/fueltire/receipts/internal/domain/tire"
)

// DefaultGasPrice is used when no gas price setting is configured, in $/gal.
const DefaultGasPrice = 3.00

// HeavyFleetTires is the tire count from which heavy-vehicle constants apply.
const HeavyFleetTires = 6

// FleetProfile holds the fuel calibration of a vehicle class.
type FleetProfile struct {
	// SavedPerPSI is the fuel economy gain, in percent, per PSI of underinflation
	SavedPerPSI float64
	MilesMin    float64 // miles per year
	MilesMax    float64
	MPGBest     float64
	MPGWorst    float64
}

var (
	// HeavyFleet covers 6+ tire vehicles: 1800-2500 mi/yr at 6.8 MPG.
	HeavyFleet = FleetProfile{SavedPerPSI: 0.82, MilesMin: 1800, MilesMax: 2500, MPGBest: 6.8, MPGWorst: 6.8}
	// LightFleet covers cars: 30000 mi/yr between 13 and 28 MPG.
	LightFleet = FleetProfile{SavedPerPSI: 0.3, MilesMin: 30000, MilesMax: 30000, MPGBest: 28, MPGWorst: 13}
)

// WearBand is the tire wear savings range for an overinflated fleet.
type WearBand struct {
	Message string
	Min     int // dollars per year
	Max     int
}

// OverinflationBand classifies an average overpressure in PSI.
func OverinflationBand(avg float64) WearBand {
	switch {
	case avg <= 2:
		return WearBand{Message: "Your tires were over-pressured.", Min: 14, Max: 27}
	case avg <= 8:
		return WearBand{Message: "Your tires were moderately over-pressured.", Min: 27, Max: 53}
	default:
		return WearBand{Message: "Your tires were significantly over-pressured.", Min: 53, Max: 80}
	}
}

// SavingsReport aggregates pressure differences of a tire set.
type SavingsReport struct {
	Tires   int
	Profile FleetProfile

	// AverageDiff is the mean signed difference over valid tires, negative when underinflated.
	AverageDiff float64
	// MostSevereUI is the lowest difference among valid tires with a target pressure.
	MostSevereUI float64
	// MostSeverePercent is the largest deviation from target, in percent.
	MostSeverePercent float64
	// AveragePercent is the mean deviation from target, in percent.
	AveragePercent float64

	SavingsPercent float64 // fuel economy gained
	FuelMin        float64 // dollars per year
	FuelMax        float64
	Wear           WearBand
}

// Underinflated reports a net underinflated set
func (r SavingsReport) Underinflated() bool {
	return r.AverageDiff < 0
}

// Overinflated reports a net overinflated set
func (r SavingsReport) Overinflated() bool {
	return r.AverageDiff > 0
}

// AverageDollars is the midpoint of the fuel and wear ranges; one of them is always zero.
func (r SavingsReport) AverageDollars() float64 {
	return (r.FuelMin + r.FuelMax + float64(r.Wear.Min) + float64(r.Wear.Max)) / 2
}

// ComputeSavings aggregates the tire set. strict selects which readings are valid.
func ComputeSavings(data tire.DataSet, strict bool, gasPrice float64) SavingsReport {
	report := SavingsReport{Tires: len(data), Profile: LightFleet}
	if report.Tires >= HeavyFleetTires {
		report.Profile = HeavyFleet
	}

	var sum, ratioSum float64
	var valid, targeted int
	minDiff, minRatio := math.Inf(1), math.Inf(1)
	// sorted so float sums are reproducible
	for _, label := range slices.Sorted(maps.Keys(data)) {
		td := data[label]
		if !td.Valid(strict) {
			continue
		}
		diff := td.Diff(strict)
		sum += diff
		valid++
		if td.SpecifiedPressure == 0 {
			continue
		}
		ratio := diff / td.SpecifiedPressure
		ratioSum += ratio
		targeted++
		minDiff = math.Min(minDiff, diff)
		minRatio = math.Min(minRatio, ratio)
	}

	if valid > 0 {
		report.AverageDiff = sum / float64(valid)
	}
	if targeted > 0 {
		report.MostSevereUI = minDiff
		report.MostSeverePercent = math.Abs(minRatio) * 100
		report.AveragePercent = math.Abs(ratioSum/float64(targeted)) * 100
	}

	p := report.Profile
	report.SavingsPercent = math.Max(-report.AverageDiff, 0) * p.SavedPerPSI
	fraction := report.SavingsPercent / 100
	report.FuelMin = p.MilesMin / p.MPGBest * gasPrice * fraction
	report.FuelMax = p.MilesMax / p.MPGWorst * gasPrice * fraction

	if report.Overinflated() {
		report.Wear = OverinflationBand(report.AverageDiff)
	}
	return report
}
