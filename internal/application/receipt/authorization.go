package receipt

import (
	"strings"

	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/domain/payment"
	"github.com/fueltire/receipts/internal/domain/printing"
)

const maskedPAN = "************"

// authorization prints how the receipt was paid. Branches are exclusive:
// prepaid code, then alternate billing, then the card transaction record.
func (s *session) authorization() {
	s.page.Skip(5)
	pay := s.job.Payment

	switch pay.Method() {
	case payment.MethodPrepaid:
		s.text(printing.Text(14).Centered())
		// codes without an index are no-charge reasons rather than issued codes
		if pay.PrepaidIndex != nil {
			s.line("Prepaid Code:")
		}
		s.line(pay.PrepaidCode)
		s.page.Skip(5)
		s.text(printing.Text(9).Centered())
		s.pair("Value", "USD "+s.job.Pricing.Price.String())

	case payment.MethodAltBilling:
		s.text(printing.Text(30).Emphasized().Centered())
		s.line(pay.PricePaid.String())
		s.page.Skip(5)
		s.text(printing.Text(14).Centered())
		if pay.Voided {
			s.line("Transaction VOIDED")
		} else {
			s.line("Charged to " + s.c.identity.InternalAccount)
		}
		s.line(strings.TrimSpace("Acct. " + pay.AltAccount + " " + pay.AltBilling))
		s.page.Skip(5)

	default:
		s.text(printing.Text(9).Centered())
		rec := pay.Record.Resolve()
		switch rec.Kind {
		case payment.RecordPointOfSale:
			s.pointOfSale(rec.PointOfSale, pay)
		case payment.RecordReader:
			s.reader(*rec.Reader, pay)
		default:
			s.noAuthorization()
		}
	}
}

func (s *session) noAuthorization() {
	s.pair("AP CODE", "None")
}

func (s *session) pointOfSale(rec payment.PointOfSaleRecord, pay payment.Info) {
	if typ, ok := rec.TransactionType(); !ok || typ != "charge" {
		s.line("Unknown transaction")
		return
	}
	charge, err := rec.Charge()
	if err != nil {
		s.c.logger.Warn("malformed card-on-file record", zap.Error(err))
		s.noAuthorization()
		return
	}

	s.pair("Transaction ID", charge.TransactionID)
	s.pair("MID", payment.MaskTail(charge.MID, 7))
	s.pair("TID", charge.TID)
	s.line("Purchase")
	s.pair("PAN", maskedPAN+charge.Last4)
	s.pair("Method", "Card On File")
	s.pair("Auth Mode", "Issuer")
	s.pair("Amount", "USD "+pay.PricePaid.String())
	s.pair("Auth Code", charge.AuthCode)
}

func (s *session) reader(rec payment.ReaderRecord, pay payment.Info) {
	s.pair("Transaction ID", rec.TransactionDBID)
	s.pair("MID", s.c.identity.ReaderMID)
	s.pair("TID", rec.TID)
	s.line("Purchase")
	if rec.PartialPAN != "" {
		s.pair(rec.CardType, maskedPAN+rec.PartialPAN)
	} else {
		s.line("No card")
	}
	s.pair("Method", rec.EntryMethod())
	s.pair("CVM", rec.CVM)
	s.pair("Auth Mode", "Issuer")
	s.pair("Amount", "USD "+pay.PricePaid.String())
	s.pair("Auth Code", rec.AuthID)

	s.line("EMV Details")
	s.pair("AID", rec.AID)
	s.pair("TVR", rec.TVR)
	s.text(printing.Text(8))
	s.pair("IAD", rec.IAD)
	s.text(printing.Text(9))
	s.pair("TSI", rec.TSI)
	s.pair("ARC", rec.ARC)
}
