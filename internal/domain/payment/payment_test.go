package payment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_Method(t *testing.T) {
	idx := 3
	tests := []struct {
		name     string
		info     Info
		expected Method
	}{
		{"prepaid", Info{PrepaidCode: "ABC123", PrepaidIndex: &idx}, MethodPrepaid},
		{"prepaid wins over alt billing", Info{PrepaidCode: "Warranty", AltBilling: "INT"}, MethodPrepaid},
		{"alt billing", Info{AltBilling: "INT", AltAccount: "1001"}, MethodAltBilling},
		{"card", Info{}, MethodCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.info.Method())
		})
	}
}

func chargeFields() map[string]any {
	return map[string]any{
		"transaction_type":    "charge",
		"host_transaction_id": "T-998",
		"mid":                 "496000123456789",
		"tid":                 float64(77),
		"auth_code":           "OK1234",
		"tokenized_card_info": map[string]any{"last_four": "4242"},
	}
}

func TestPointOfSaleRecord_Charge(t *testing.T) {
	rec := PointOfSaleRecord(chargeFields())

	typ, ok := rec.TransactionType()
	require.True(t, ok)
	assert.Equal(t, "charge", typ)

	c, err := rec.Charge()
	require.NoError(t, err)
	assert.Equal(t, "T-998", c.TransactionID)
	assert.Equal(t, "77", c.TID)
	assert.Equal(t, "4242", c.Last4)
	assert.Equal(t, "OK1234", c.AuthCode)
}

func TestPointOfSaleRecord_ChargeMissingKey(t *testing.T) {
	fields := chargeFields()
	delete(fields, "tid")

	_, err := PointOfSaleRecord(fields).Charge()
	require.Error(t, err)
	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "tid", missing.Key)

	fields = chargeFields()
	fields["tokenized_card_info"] = "not an object"
	_, err = PointOfSaleRecord(fields).Charge()
	assert.Error(t, err)
}

func TestAuthorizationRecord_Resolve(t *testing.T) {
	reader := ReaderRecord{TID: "1"}

	assert.Equal(t, RecordReader, AuthorizationRecord{Reader: &reader}.Resolve().Kind)
	assert.Equal(t, RecordPointOfSale, AuthorizationRecord{PointOfSale: chargeFields()}.Resolve().Kind)
	assert.Equal(t, RecordAbsent, AuthorizationRecord{Kind: RecordReader}.Resolve().Kind)
	assert.Equal(t, RecordAbsent, AuthorizationRecord{}.Resolve().Kind)
}

func TestAuthorizationRecord_JSON(t *testing.T) {
	var info Info
	err := json.Unmarshal([]byte(`{
		"price_paid": "42.00",
		"approved": true,
		"record": {"kind": "reader", "reader": {"tid": "9", "channel": "Contact", "card_type": "VISA"}}
	}`), &info)
	require.NoError(t, err)

	rec := info.Record.Resolve()
	require.Equal(t, RecordReader, rec.Kind)
	assert.Equal(t, "Chip", rec.Reader.EntryMethod())
	assert.True(t, rec.Reader.HasCard())
	assert.Equal(t, "$42.00", info.PricePaid.String())
}

func TestPointOfSaleRecord_UnmarshalJSON(t *testing.T) {
	var info Info
	err := json.Unmarshal([]byte(`{
		"record": {"kind": "point_of_sale", "point_of_sale": {
			"transaction_type": "charge",
			"host_transaction_id": 9007199254740993,
			"mid": 4445001098869,
			"tid": "COF1",
			"tokenized_card_info": {"last_four": 1111},
			"auth_code": "OK1234"
		}}
	}`), &info)
	require.NoError(t, err)

	charge, err := info.Record.Resolve().PointOfSale.Charge()
	require.NoError(t, err)
	assert.Equal(t, "9007199254740993", charge.TransactionID)
	assert.Equal(t, "4445001098869", charge.MID)
	assert.Equal(t, "1111", charge.Last4)

	var rec PointOfSaleRecord
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &rec))
}

func TestMaskTail(t *testing.T) {
	assert.Equal(t, "********3456789", MaskTail("496000123456789", 7))
	assert.Equal(t, "123", MaskTail("123", 7))
}
