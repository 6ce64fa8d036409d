package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/fueltire/receipts/internal/domain/tire"
)

// InspectionRule controls when inspection-gated fields are printed.
type InspectionRule int

const (
	// InspectNever prints no inspection fields
	InspectNever InspectionRule = iota
	// InspectWhenMeasured prints them for tires with a tread depth or DOT reading
	InspectWhenMeasured
	// InspectAlways prints them whenever the value exists
	InspectAlways
)

// Shows reports whether inspection fields are printed for a tire.
func (r InspectionRule) Shows(td *tire.TireData) bool {
	switch r {
	case InspectNever:
		return false
	case InspectWhenMeasured:
		return td != nil && td.HasInspection()
	default:
		return true
	}
}

// TableOptions parameterize the tire table of a receipt.
type TableOptions struct {
	Inspection InspectionRule
	// Inflation prints Temp, Before and After instead of a single Act reading
	Inflation bool
	// MRSP labels the target pressure MRSP with whole PSI instead of SP
	MRSP bool
}

// DefaultTableOptions is the verbose inflation table
func DefaultTableOptions() TableOptions {
	return TableOptions{Inspection: InspectAlways, Inflation: true}
}

// Field is one line of the per-tire table.
type Field struct {
	Name string
	// Value returns the text to print, or false when the tire has no value.
	Value func(tire.TireData) (string, bool)
	// Emphasis returns true when the value is printed bold; nil never bolds.
	Emphasis func(tire.TireData) bool
	// Gated fields are inspection data, subject to the InspectionRule.
	Gated bool
}

// Side is one tire of a table row with its inspection verbosity.
type Side struct {
	Data    *tire.TireData
	Inspect bool
}

// Row is a formatted two-column line.
type Row struct {
	Left, Right         string
	LeftBold, RightBold bool
}

// FormatRow renders a field for both sides. It returns false when neither
// side has anything to print.
func FormatRow(left, right Side, f Field) (Row, bool) {
	var row Row
	if text, bold, ok := formatSide(left, f); ok {
		row.Left, row.LeftBold = f.Name+": "+text, bold
	}
	if text, bold, ok := formatSide(right, f); ok {
		row.Right, row.RightBold = text+" :"+f.Name, bold
	}
	return row, row.Left != "" || row.Right != ""
}

func formatSide(s Side, f Field) (string, bool, bool) {
	if s.Data == nil || (f.Gated && !s.Inspect) {
		return "", false, false
	}
	text, ok := f.Value(*s.Data)
	if !ok {
		return "", false, false
	}
	bold := f.Emphasis != nil && f.Emphasis(*s.Data)
	return text, bold, true
}

func always(tire.TireData) bool { return true }

func nonEmpty(s string) (string, bool) { return s, s != "" }

func pressure(v *float64, format string) (string, bool) {
	if v == nil {
		return "", false
	}
	return fmt.Sprintf(format, *v), true
}

// TireFields returns the table fields in print order. now dates DOT codes.
func TireFields(opts TableOptions, now time.Time) []Field {
	fields := []Field{
		{
			Name:     "SW",
			Value:    func(td tire.TireData) (string, bool) { return nonEmpty(td.Sidewall) },
			Emphasis: func(td tire.TireData) bool { return tire.CheckSidewall(td.Sidewall) },
			Gated:    true,
		},
		{
			Name:     "T",
			Value:    func(td tire.TireData) (string, bool) { return nonEmpty(td.Tread) },
			Emphasis: func(td tire.TireData) bool { return tire.CheckTread(td.Tread) },
			Gated:    true,
		},
		{
			Name:     "TD",
			Value:    func(td tire.TireData) (string, bool) { return td.TreadDepth32() },
			Emphasis: func(td tire.TireData) bool { return tire.CheckTreadDepth(td.TreadDepthInches()) },
			Gated:    true,
		},
		{
			Name:     "Punc",
			Value:    func(td tire.TireData) (string, bool) { return nonEmpty(td.Puncture) },
			Emphasis: func(td tire.TireData) bool { return tire.CheckPuncture(td.Puncture) },
			Gated:    true,
		},
		{
			Name:     "DOT",
			Value:    func(td tire.TireData) (string, bool) { return nonEmpty(td.DOT) },
			Emphasis: func(td tire.TireData) bool { return tire.CheckDOT(td.DOT, now) },
			Gated:    true,
		},
	}

	if opts.Inflation {
		fields = append(fields, Field{
			Name:  "Temp",
			Value: func(td tire.TireData) (string, bool) { return pressure(td.Temperature, "%.1f°F") },
		})
	}

	before := "Act"
	if opts.Inflation {
		before = "Before"
	}
	fields = append(fields, Field{
		Name:  before,
		Value: func(td tire.TireData) (string, bool) { return pressure(td.Uncorrected, "%.2f PSI") },
	})

	if opts.Inflation {
		fields = append(fields, Field{
			Name:  "After",
			Value: func(td tire.TireData) (string, bool) { return pressure(td.Corrected, "%.2f PSI") },
		})
	}

	fields = append(fields,
		Field{
			Name: "Diff",
			Value: func(td tire.TireData) (string, bool) {
				if _, ok := td.Reading(false); !ok {
					return "", false
				}
				return fmt.Sprintf("%.2f PSI", td.Diff(false)), true
			},
			Emphasis: always,
		},
		Field{
			Name: "N2",
			Value: func(td tire.TireData) (string, bool) {
				if td.Nitrogen == 0 {
					return "", false
				}
				return fmt.Sprintf("%.1f%%", td.Nitrogen), true
			},
			Emphasis: always,
		},
	)

	target := Field{
		Name: "SP",
		Value: func(td tire.TireData) (string, bool) {
			return fmt.Sprintf("%.2f PSI", td.SpecifiedPressure), true
		},
		Emphasis: always,
	}
	if opts.MRSP {
		target.Name = "MRSP"
		target.Value = func(td tire.TireData) (string, bool) {
			return fmt.Sprintf("%.0f PSI", td.SpecifiedPressure), true
		}
	}
	return append(fields, target)
}

// tirePair is one printed table block: a left and right tire position with display titles.
type tirePair struct {
	leftKey, rightKey     string
	leftTitle, rightTitle string
	abbr                  Abbreviator
}

// tirePairs walks the template front to back. A two tire, two axle template
// folds into a single front/rear pair.
func tirePairs(tmpl tire.Template) []tirePair {
	if tmpl.IsTwoWheeler() {
		front, rear := tmpl.Axles[0], tmpl.Axles[1]
		return []tirePair{{
			leftKey:    firstTire(front),
			rightKey:   firstTire(rear),
			leftTitle:  front.Title + " Tire",
			rightTitle: rear.Title + " Tire",
		}}
	}

	var pairs []tirePair
	for _, axle := range tmpl.Axles {
		n := max(len(axle.Left), len(axle.Right))
		for i := 0; i < n; i++ {
			inout := axle.InOutLabel(i)
			base := strings.Join(strings.Fields(axle.Title+" "+inout+" Tire"), " ")
			p := tirePair{
				leftKey:    at(axle.Left, i),
				rightKey:   at(axle.Right, i),
				leftTitle:  base,
				rightTitle: base,
				abbr:       Abbreviator{AxleTitle: axle.Title, InOut: inout},
			}
			if !axle.OneSided() {
				p.leftTitle = "Left " + base
				p.rightTitle = "Right " + base
			}
			pairs = append(pairs, p)
		}
	}
	return pairs
}

func firstTire(a tire.Axle) string {
	if len(a.Left) > 0 {
		return a.Left[0]
	}
	return at(a.Right, 0)
}

func at(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}
