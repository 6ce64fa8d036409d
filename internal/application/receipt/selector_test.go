package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/domain/tire"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		routine tire.Routine
		typeID  string
		want    printing.ReceiptKind
	}{
		{"repair", tire.RoutineRepair, "car", printing.ReceiptKindMisc},
		{"repair ignores type", tire.RoutineRepair, TypeIDTireAssurance, printing.ReceiptKindMisc},
		{"audit", tire.RoutineAudit, "truck", printing.ReceiptKindAssessment},
		{"inflation", tire.RoutineInflation, "car", printing.ReceiptKindStandard},
		{"purge fill", tire.RoutinePurgeFill, "car", printing.ReceiptKindStandard},
		{"verification", tire.RoutineVerification, "bus", printing.ReceiptKindStandard},
		{"tire assurance", tire.RoutineInflation, TypeIDTireAssurance, printing.ReceiptKindAssurance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tire.Service{Routine: tt.routine, TypeID: tt.typeID}))
		})
	}
}
