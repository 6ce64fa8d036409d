package receipt

import (
	"fmt"
	"strings"

	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/domain/tire"
)

// TypeIDTireAssurance is the partner service type printed as an assurance receipt.
const TypeIDTireAssurance = "tireassurance"

// Select maps a service to its receipt kind. Declined and bulk receipts have
// their own entry points and are never selected.
func Select(service tire.Service) printing.ReceiptKind {
	switch service.Routine {
	case tire.RoutineRepair:
		return printing.ReceiptKindMisc
	case tire.RoutineAudit:
		return printing.ReceiptKindAssessment
	}
	if service.TypeID == TypeIDTireAssurance {
		return printing.ReceiptKindAssurance
	}
	return printing.ReceiptKindStandard
}

var standardDescription = []string{"Mobile Nitrogen Tire", "Inspection & Inflation"}

func (s *session) misc() {
	svc := s.job.Service
	s.contactHeader(standardDescription...)
	s.authorization()
	s.serviceDetails("Tire Inspection & Pressure Service", "TIPS")
	s.text(printing.Text(9))
	s.pair("Ea. Price", svc.DefaultPrice.String())
	s.pair("Quantity", fmt.Sprint(s.job.Pricing.RepairQuantity))
	s.comment(s.job.Comment)
	s.closing(false)
}

func (s *session) standard() {
	svc := s.job.Service
	s.contactHeader(standardDescription...)
	s.authorization()
	s.serviceDetails("Tire Inspection & Pressure Service", strings.TrimSpace(svc.Type+" TIPS"))
	s.tireTable(DefaultTableOptions())
	// steer services never print savings
	noSavings := strings.Contains(svc.FullName(), "Steer")
	s.savingsReport(noSavings, false)
	s.closing(false)
}

func (s *session) assessment() {
	svc := s.job.Service
	s.contactHeader(standardDescription...)
	s.authorization()
	s.serviceDetails("Tire Assessment Service", strings.TrimSpace(svc.Type+" TAS"))
	s.tireTable(TableOptions{Inspection: InspectWhenMeasured, Inflation: false, MRSP: true})
	s.savingsReport(true, true)
	s.closing(false)
}

func (s *session) assurance() {
	s.contactHeader("Astrae Tire Assurance", "TIIR Service")
	s.authorization()
	details := "TIIR Service"
	if company := s.job.Vehicle.Company; company != "" {
		details = company + " - TIIR Service"
	}
	s.serviceDetails("Tire Insp., Inflation & Replacement", details)
	s.tireTable(DefaultTableOptions())
	s.savingsReport(true, false)
	s.closing(true)
}

func (s *session) declined() {
	s.contactHeader()
	s.authorization()
	s.closing(false)
}

func (s *session) bulk() {
	s.contactHeader(standardDescription...)
	s.authorization()
	s.serviceDetails("Tire Inspection & Pressure Service", "TIPS")
	s.text(printing.Text(10))
	for _, charge := range s.job.Charges {
		s.page.WritePair(charge.Service, charge.Amount.String(), true, true)
		s.line(fmt.Sprintf("  %010d - %s", charge.ControlNumber, charge.Vehicle))
	}
	s.closing(false)
}
