package tire

import "fmt"

// TireData holds the readings taken on one tire position.
// Zero values mean "not measured".
type TireData struct {
	Label             string   `json:"label"`
	Sidewall          string   `json:"sidewall,omitempty"`
	Tread             string   `json:"tread,omitempty"`
	TreadDepth        int      `json:"tread_depth,omitempty"` // 32nds of an inch
	Puncture          string   `json:"puncture,omitempty"`
	DOT               string   `json:"dot,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"` // degrees F
	Uncorrected       *float64 `json:"uncorrected,omitempty"` // PSI before service
	Corrected         *float64 `json:"corrected,omitempty"`   // PSI after service, temperature corrected
	Nitrogen          float64  `json:"nitrogen,omitempty"`    // percent
	SpecifiedPressure float64  `json:"specified_pressure"`    // PSI
	NoSavings         bool     `json:"no_savings,omitempty"`  // reading excluded from strict statistics
}

// DataSet maps tire position labels to their readings.
type DataSet map[string]TireData

// Get returns the readings of a position, or nil when it was not measured.
func (d DataSet) Get(label string) *TireData {
	if label == "" {
		return nil
	}
	td, ok := d[label]
	if !ok {
		return nil
	}
	return &td
}

// TreadDepthInches returns the tread depth normalized to inches
func (t TireData) TreadDepthInches() float64 {
	return float64(t.TreadDepth) / 32
}

// TreadDepth32 formats the tread depth in 32nds
func (t TireData) TreadDepth32() (string, bool) {
	if t.TreadDepth <= 0 {
		return "", false
	}
	return fmt.Sprintf("%d/32\"", t.TreadDepth), true
}

// HasInspection reports whether a tread depth or DOT reading was taken
func (t TireData) HasInspection() bool {
	return t.TreadDepth > 0 || t.DOT != ""
}

// Reading returns the pre-service pressure used for statistics.
// Non-strict mode falls back to the corrected reading.
func (t TireData) Reading(strict bool) (float64, bool) {
	if t.Uncorrected != nil {
		return *t.Uncorrected, true
	}
	if !strict && t.Corrected != nil {
		return *t.Corrected, true
	}
	return 0, false
}

// Valid reports whether the readings count toward savings statistics.
func (t TireData) Valid(strict bool) bool {
	if _, ok := t.Reading(strict); !ok {
		return false
	}
	if strict {
		return t.SpecifiedPressure > 0 && !t.NoSavings
	}
	return true
}

// Diff returns the measured pressure minus the specified pressure.
// Negative values mean the tire was underinflated.
func (t TireData) Diff(strict bool) float64 {
	r, ok := t.Reading(strict)
	if !ok {
		return 0
	}
	return r - t.SpecifiedPressure
}
