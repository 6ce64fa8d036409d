package printing

// ReceiptKind identifies which composition recipe produced a receipt
type ReceiptKind string

const (
	ReceiptKindMisc       ReceiptKind = "MISC"       // repairs and other flat-priced work
	ReceiptKindAssessment ReceiptKind = "ASSESSMENT" // tire assessment service (audit)
	ReceiptKindStandard   ReceiptKind = "STANDARD"   // tire inspection and pressure service
	ReceiptKindAssurance  ReceiptKind = "ASSURANCE"  // inspection, inflation and replacement
	ReceiptKindDeclined   ReceiptKind = "DECLINED"   // payment declined, no service
	ReceiptKindBulk       ReceiptKind = "BULK"       // batch of charges
)

// IsValid checks if the ReceiptKind is a valid value
func (k ReceiptKind) IsValid() bool {
	switch k {
	case ReceiptKindMisc, ReceiptKindAssessment, ReceiptKindStandard,
		ReceiptKindAssurance, ReceiptKindDeclined, ReceiptKindBulk:
		return true
	}
	return false
}

// String returns the string representation of ReceiptKind
func (k ReceiptKind) String() string {
	return string(k)
}

// DisplayName returns a human readable name for ReceiptKind
func (k ReceiptKind) DisplayName() string {
	switch k {
	case ReceiptKindMisc:
		return "Miscellaneous"
	case ReceiptKindAssessment:
		return "Tire Assessment"
	case ReceiptKindStandard:
		return "Tire Inspection & Pressure"
	case ReceiptKindAssurance:
		return "Tire Assurance"
	case ReceiptKindDeclined:
		return "Declined"
	case ReceiptKindBulk:
		return "Bulk"
	default:
		return string(k)
	}
}

// AllReceiptKinds returns all valid ReceiptKind values
func AllReceiptKinds() []ReceiptKind {
	return []ReceiptKind{
		ReceiptKindMisc, ReceiptKindAssessment, ReceiptKindStandard,
		ReceiptKindAssurance, ReceiptKindDeclined, ReceiptKindBulk,
	}
}

// PaperSize represents the paper roll a receipt is printed on
type PaperSize string

const (
	PaperSizeReceipt58MM PaperSize = "RECEIPT_58MM" // 58mm thermal receipt
	PaperSizeReceipt70MM PaperSize = "RECEIPT_70MM" // 2.75in kiosk roll
	PaperSizeReceipt80MM PaperSize = "RECEIPT_80MM" // 80mm thermal receipt
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeReceipt58MM, PaperSizeReceipt70MM, PaperSizeReceipt80MM:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height).
// Receipt rolls have variable height.
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeReceipt58MM:
		return 58, 0
	case PaperSizeReceipt80MM:
		return 80, 0
	default:
		return 70, 0
	}
}

// WidthInches returns the roll width in inches
func (p PaperSize) WidthInches() float64 {
	w, _ := p.Dimensions()
	return float64(w) / 25.4
}

// IsReceipt returns true for roll paper; every supported size is a roll
func (p PaperSize) IsReceipt() bool {
	return p.IsValid()
}

// OutputFormat is the encoding of a finished receipt document
type OutputFormat string

const (
	OutputFormatPDF    OutputFormat = "pdf"
	OutputFormatHTML   OutputFormat = "html"
	OutputFormatLayout OutputFormat = "layout" // JSON lines of page operations
)

// IsValid checks if the OutputFormat is a valid value
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatPDF, OutputFormatHTML, OutputFormatLayout:
		return true
	}
	return false
}

// ContentType returns the MIME type of the format
func (f OutputFormat) ContentType() string {
	switch f {
	case OutputFormatPDF:
		return "application/pdf"
	case OutputFormatHTML:
		return "text/html; charset=utf-8"
	case OutputFormatLayout:
		return "application/x-ndjson"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension of the format, with a leading dot
func (f OutputFormat) Extension() string {
	switch f {
	case OutputFormatLayout:
		return ".jsonl"
	default:
		return "." + string(f)
	}
}

// Align is horizontal text alignment
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)
