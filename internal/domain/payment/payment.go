// Package payment models how a service was paid for and the authorization
// detail captured by the card terminal or the card-on-file processor.
package payment

import "github.com/fueltire/receipts/internal/domain/shared/valueobject"

// Method classifies how a receipt was settled
type Method string

const (
	MethodPrepaid    Method = "PREPAID"
	MethodAltBilling Method = "ALT_BILLING"
	MethodCard       Method = "CARD"
)

// Info is the payment state of one receipt.
type Info struct {
	// PrepaidCode is either a prepaid code or a free-text reason for a no-charge service.
	PrepaidCode string `json:"prepaid_code,omitempty"`
	// PrepaidIndex is set when PrepaidCode refers to an issued prepaid code.
	PrepaidIndex *int   `json:"prepaid_index,omitempty"`
	AltBilling   string `json:"alt_billing,omitempty"`
	AltAccount   string `json:"alt_account,omitempty"`

	PricePaid   valueobject.Money   `json:"price_paid"`
	Status      string              `json:"status,omitempty"`
	Voided      bool                `json:"voided,omitempty"`
	Approved    bool                `json:"approved,omitempty"`
	CheckNumber string              `json:"check_number,omitempty"`
	Record      AuthorizationRecord `json:"record"`
}

// Method derives the settlement path; prepaid wins over alternate billing.
func (i Info) Method() Method {
	switch {
	case i.PrepaidCode != "":
		return MethodPrepaid
	case i.AltBilling != "":
		return MethodAltBilling
	default:
		return MethodCard
	}
}

// IsPrepaid reports a prepaid settlement
func (i Info) IsPrepaid() bool {
	return i.Method() == MethodPrepaid
}

// IsAltBilling reports an alternate billing settlement
func (i Info) IsAltBilling() bool {
	return i.Method() == MethodAltBilling
}
