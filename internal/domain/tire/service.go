// Package tire holds the service, template and per-tire measurement model
// that receipts are composed from.
package tire

import (
	"strings"

	"github.com/fueltire/receipts/internal/domain/shared/valueobject"
)

// Routine is the kind of work performed during a service
type Routine string

const (
	RoutineRepair       Routine = "REPAIR"
	RoutineAudit        Routine = "AUDIT"
	RoutineInflation    Routine = "INFLATION"
	RoutinePurgeFill    Routine = "PURGE_FILL"
	RoutineVerification Routine = "VERIFICATION"
)

// IsValid returns true if the routine is a known value
func (r Routine) IsValid() bool {
	switch r {
	case RoutineRepair, RoutineAudit, RoutineInflation, RoutinePurgeFill, RoutineVerification:
		return true
	}
	return false
}

// Axle is one lateral tire group of a template, ordered front to back.
type Axle struct {
	Position    int      `json:"position"`
	Title       string   `json:"title"`
	Left        []string `json:"left"`
	Right       []string `json:"right"`
	InOutLabels []string `json:"inout_labels,omitempty"`
}

// InOutLabel returns the inner/outer label of the i-th tire on one side.
func (a Axle) InOutLabel(i int) string {
	labels := a.InOutLabels
	if len(labels) == 0 {
		labels = DefaultInOutLabels(a.sideCount())
	}
	if i < 0 || i >= len(labels) {
		return ""
	}
	return labels[i]
}

// OneSided reports whether the axle has tires on a single side only.
func (a Axle) OneSided() bool {
	return len(a.Left) == 0 || len(a.Right) == 0
}

func (a Axle) sideCount() int {
	if len(a.Left) > len(a.Right) {
		return len(a.Left)
	}
	return len(a.Right)
}

// DefaultInOutLabels returns the labeling scheme for n tires on one side.
func DefaultInOutLabels(n int) []string {
	switch n {
	case 0, 1:
		return []string{""}
	case 2:
		return []string{"Outer", "Inner"}
	case 3:
		return []string{"Outer", "Middle", "Inner"}
	}
	labels := make([]string, n)
	labels[0] = "Outer"
	labels[n-1] = "Inner"
	for i := 1; i < n-1; i++ {
		labels[i] = "Middle"
	}
	return labels
}

// Template describes the axle/tire topology of a vehicle type.
type Template struct {
	Axles []Axle `json:"axles"`
}

// NumTires counts tire positions across all axles
func (t Template) NumTires() int {
	n := 0
	for _, a := range t.Axles {
		n += len(a.Left) + len(a.Right)
	}
	return n
}

// NumAxles returns the number of axles
func (t Template) NumAxles() int {
	return len(t.Axles)
}

// IsTwoWheeler reports the two tires on two axles layout (bikes, motorcycles).
func (t Template) IsTwoWheeler() bool {
	return t.NumTires() == 2 && t.NumAxles() == 2
}

// Service describes a performed service. It is not modified during composition.
type Service struct {
	Routine      Routine           `json:"routine"`
	TypeID       string            `json:"type_id"`
	Type         string            `json:"type"`
	Name         string            `json:"name"`
	ShortName    string            `json:"short_name"`
	Vehicle      string            `json:"vehicle"`
	Template     Template          `json:"template"`
	DefaultPrice valueobject.Money `json:"default_price"`
	Image        string            `json:"image,omitempty"`
	ImageScale   float64           `json:"image_scale,omitempty"`
}

// FullName joins the display type and name, e.g. "Truck Steer Axle"
func (s Service) FullName() string {
	return strings.TrimSpace(s.Type + " " + s.Name)
}

// DisplayShortName falls back to the name when no short name is set
func (s Service) DisplayShortName() string {
	if s.ShortName != "" {
		return s.ShortName
	}
	return s.Name
}

// IsBus reports whether the vehicle category is a bus
func (s Service) IsBus() bool {
	return strings.Contains(strings.ToLower(s.Vehicle), "bus")
}

// NumTires counts tire positions of the template
func (s Service) NumTires() int {
	return s.Template.NumTires()
}

// NumAxles counts axles of the template
func (s Service) NumAxles() int {
	return s.Template.NumAxles()
}
