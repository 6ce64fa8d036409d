package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RecordKind discriminates AuthorizationRecord
type RecordKind string

const (
	RecordAbsent      RecordKind = ""
	RecordPointOfSale RecordKind = "point_of_sale"
	RecordReader      RecordKind = "reader"
)

// AuthorizationRecord is the transaction detail of a card payment. Exactly
// one of PointOfSale and Reader is set, as named by Kind.
type AuthorizationRecord struct {
	Kind        RecordKind        `json:"kind"`
	PointOfSale PointOfSaleRecord `json:"point_of_sale,omitempty"`
	Reader      *ReaderRecord     `json:"reader,omitempty"`
}

// NewPointOfSaleRecord wraps a card-on-file processor response
func NewPointOfSaleRecord(fields map[string]any) AuthorizationRecord {
	return AuthorizationRecord{Kind: RecordPointOfSale, PointOfSale: fields}
}

// NewReaderRecord wraps a card reader authorization
func NewReaderRecord(r ReaderRecord) AuthorizationRecord {
	return AuthorizationRecord{Kind: RecordReader, Reader: &r}
}

// Resolve normalizes the variant so that Kind always matches the populated payload.
func (r AuthorizationRecord) Resolve() AuthorizationRecord {
	switch {
	case r.Kind == RecordReader && r.Reader != nil:
		return r
	case r.Kind == RecordPointOfSale && r.PointOfSale != nil:
		return r
	case r.Kind == RecordAbsent && r.Reader != nil:
		return NewReaderRecord(*r.Reader)
	case r.Kind == RecordAbsent && r.PointOfSale != nil:
		return NewPointOfSaleRecord(r.PointOfSale)
	}
	return AuthorizationRecord{}
}

// ReaderRecord is an EMV authorization captured by the card reader.
type ReaderRecord struct {
	TransactionDBID string `json:"transaction_db_id"`
	TID             string `json:"tid"`
	CardType        string `json:"card_type,omitempty"`
	PartialPAN      string `json:"partial_pan,omitempty"`
	Channel         string `json:"channel,omitempty"`
	CVM             string `json:"cvm,omitempty"`
	AuthID          string `json:"auth_id,omitempty"`
	AID             string `json:"aid,omitempty"`
	TVR             string `json:"tvr,omitempty"`
	IAD             string `json:"iad,omitempty"`
	TSI             string `json:"tsi,omitempty"`
	ARC             string `json:"arc,omitempty"`
}

// HasCard reports whether a card was read
func (r ReaderRecord) HasCard() bool {
	return r.CardType != "" || r.PartialPAN != ""
}

// EntryMethod names how the card was presented
func (r ReaderRecord) EntryMethod() string {
	if r.Channel == "Contact" {
		return "Chip"
	}
	return r.Channel
}

// MissingKeyError is returned when a point-of-sale record lacks an expected field.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("authorization record: missing key %q", e.Key)
}

// PointOfSaleRecord is the raw card-on-file processor response.
type PointOfSaleRecord map[string]any

// UnmarshalJSON keeps numbers as json.Number so long transaction ids print
// exactly.
func (p *PointOfSaleRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("invalid point-of-sale record: %w", err)
	}
	*p = fields
	return nil
}

// Has reports whether a key is present
func (p PointOfSaleRecord) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns a field formatted as text
func (p PointOfSaleRecord) String(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", &MissingKeyError{Key: key}
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%f", t), "0"), "."), nil
	case json.Number:
		return t.String(), nil
	default:
		return fmt.Sprint(t), nil
	}
}

// Object returns a nested object field
func (p PointOfSaleRecord) Object(key string) (PointOfSaleRecord, error) {
	v, ok := p[key]
	if !ok {
		return nil, &MissingKeyError{Key: key}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &MissingKeyError{Key: key}
	}
	return PointOfSaleRecord(m), nil
}

// CardOnFileCharge is the resolved view of a "charge" transaction.
type CardOnFileCharge struct {
	TransactionID string
	MID           string
	TID           string
	Last4         string
	AuthCode      string
}

// TransactionType returns the transaction type and whether it is present
func (p PointOfSaleRecord) TransactionType() (string, bool) {
	if !p.Has("transaction_type") {
		return "", false
	}
	s, err := p.String("transaction_type")
	return s, err == nil
}

// Charge resolves every field of a charge transaction, failing on the first missing key.
func (p PointOfSaleRecord) Charge() (CardOnFileCharge, error) {
	var c CardOnFileCharge
	var err error
	if c.TransactionID, err = p.String("host_transaction_id"); err != nil {
		return c, err
	}
	if c.MID, err = p.String("mid"); err != nil {
		return c, err
	}
	if c.TID, err = p.String("tid"); err != nil {
		return c, err
	}
	card, err := p.Object("tokenized_card_info")
	if err != nil {
		return c, err
	}
	if c.Last4, err = card.String("last_four"); err != nil {
		return c, err
	}
	if c.AuthCode, err = p.String("auth_code"); err != nil {
		return c, err
	}
	return c, nil
}

// MaskTail keeps the last n characters of s and stars the rest.
func MaskTail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.Repeat("*", len(s)-n) + s[len(s)-n:]
}
