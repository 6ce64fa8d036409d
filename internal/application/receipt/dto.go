package receipt

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fueltire/receipts/internal/domain/payment"
	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/domain/tire"
	"github.com/fueltire/receipts/internal/domain/vehicle"
)

// =============================================================================
// Render request DTOs
// =============================================================================

// RenderRequest is a receipt job as submitted by a kiosk
type RenderRequest struct {
	Service       *tire.Service  `json:"service"`
	Data          tire.DataSet   `json:"data"`
	Comment       string         `json:"comment" binding:"max=2000"`
	AcceptedAt    *time.Time     `json:"accepted_at"`
	ControlNumber *int64         `json:"control_number" binding:"omitempty,min=0"`
	KioskID       string         `json:"kiosk_id" binding:"max=64"`
	Email         string         `json:"email" binding:"omitempty,email,max=254"`
	Vehicle       vehicle.Info   `json:"vehicle"`
	Pricing       vehicle.Config `json:"pricing"`
	Payment       payment.Info   `json:"payment"`
}

// BulkRenderRequest is a batch of charges printed on one receipt
type BulkRenderRequest struct {
	Charges       []BulkCharge   `json:"charges" binding:"required,min=1,max=500,dive"`
	AcceptedAt    *time.Time     `json:"accepted_at"`
	ControlNumber *int64         `json:"control_number" binding:"omitempty,min=0"`
	KioskID       string         `json:"kiosk_id" binding:"max=64"`
	Email         string         `json:"email" binding:"omitempty,email,max=254"`
	Vehicle       vehicle.Info   `json:"vehicle"`
	Pricing       vehicle.Config `json:"pricing"`
	Payment       payment.Info   `json:"payment"`
}

// ToJob converts the request to a render job; now fills a missing acceptance time
func (r *RenderRequest) ToJob(now time.Time) *Job {
	return &Job{
		Service:       r.Service,
		Data:          r.Data,
		Comment:       r.Comment,
		AcceptedAt:    timeOr(r.AcceptedAt, now),
		ControlNumber: r.ControlNumber,
		KioskID:       r.KioskID,
		Email:         r.Email,
		Vehicle:       r.Vehicle,
		Pricing:       r.Pricing,
		Payment:       r.Payment,
	}
}

// ToJob converts the request to a render job; now fills a missing acceptance time
func (r *BulkRenderRequest) ToJob(now time.Time) *Job {
	return &Job{
		AcceptedAt:    timeOr(r.AcceptedAt, now),
		ControlNumber: r.ControlNumber,
		KioskID:       r.KioskID,
		Email:         r.Email,
		Vehicle:       r.Vehicle,
		Pricing:       r.Pricing,
		Payment:       r.Payment,
		Charges:       r.Charges,
	}
}

func timeOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil || t.IsZero() {
		return fallback
	}
	return *t
}

// =============================================================================
// Render result
// =============================================================================

// RenderResult is one rendered receipt
type RenderResult struct {
	RenderID    uuid.UUID
	Kind        printing.ReceiptKind
	Format      printing.OutputFormat
	ContentType string
	Data        []byte
	Size        int
	// ArchivePath is empty when archiving is disabled or failed
	ArchivePath string
	Duration    time.Duration
}

// Filename suggests a download name, e.g. "standard-<id>.pdf"
func (r *RenderResult) Filename() string {
	return strings.ToLower(string(r.Kind)) + "-" + r.RenderID.String() + r.Format.Extension()
}

// RenderResponse describes a render without its content, for JSON clients
type RenderResponse struct {
	RenderID    string `json:"render_id"`
	Kind        string `json:"kind"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	ArchivePath string `json:"archive_path,omitempty"`
	DurationMs  int64  `json:"duration_ms"`
}

// ToResponse converts the result to its JSON description
func (r *RenderResult) ToResponse() RenderResponse {
	return RenderResponse{
		RenderID:    r.RenderID.String(),
		Kind:        string(r.Kind),
		Format:      string(r.Format),
		ContentType: r.ContentType,
		Size:        r.Size,
		ArchivePath: r.ArchivePath,
		DurationMs:  r.Duration.Milliseconds(),
	}
}
