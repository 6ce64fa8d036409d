package receipt

import (
	"fmt"

	"github.com/fueltire/receipts/internal/domain/payment"
	"github.com/fueltire/receipts/internal/domain/printing"
)

func (s *session) closing(tireCosts bool) {
	job := s.job
	s.page.Skip(10)
	s.text(printing.Text(10).Centered())
	if job.ControlNumber != nil {
		s.page.InsertBarcode(fmt.Sprintf("%010d", *job.ControlNumber), 64)
	}
	if job.Vehicle.VIN != "" {
		s.page.InsertBarcode(job.Vehicle.VIN, 14)
	}

	if job.Payment.Method() == payment.MethodCard {
		if tireCosts {
			s.tireCosts()
		}
		s.pair("Charged Amount:", job.Payment.PricePaid.String())
		s.pair("Response:", job.Payment.Status)
	}
	if job.Payment.Approved {
		s.line("No Refunds,")
		s.line("Service Credit Only.")
		s.page.Skip(5)
		s.line("I agree to pay above total amount")
		s.line("according to card issuer agreement.")
		s.line("Retain this copy for your")
		s.line("statement verification.")
	}
	s.page.Skip(3)
	s.line("Cardholder Copy")
	s.page.Skip(3)

	s.text(printing.Text(10))
	s.line("Service End Time:")
	s.pair(s.now.Format("01/02/2006"), s.now.Format("15:04:05"))
	s.text(printing.Text(14).Emphasized().Slanted().Centered())
	s.page.Skip(5)
	s.line("Thanks for your business!")
	s.page.Skip(5)

	s.text(printing.Text(8).Centered())
	year := s.c.identity.CopyrightYear
	if year == 0 {
		year = s.now.Year()
	}
	s.line(fmt.Sprintf("©%d %s", year, s.c.identity.CopyrightHolder))
	s.line("All Rights Reserved.")
	s.couponImage()
	s.page.Skip(2)
}

func (s *session) tireCosts() {
	pricing := s.job.Pricing
	costs := pricing.Costs()

	s.pair("TIIR Service Labor:", costs.Labor.String())
	s.pair("Tire Cost:", costs.Tires.String())
	s.pair("Sales Tax:", costs.SalesTax.String())
	s.pair(fmt.Sprintf("Tire Recycling Fee - Qty %s:", pricing.TireQuantity.StringFixed(2)), costs.RecyclingFee.String())
	s.page.Skip(3)
	s.page.DrawRule(1)
	s.pair("Total Monthly Payment:", costs.Total.String())
	s.page.Skip(3)

	s.increment(CounterRecentMaterialCosts, costs.Tires.Float64())
	s.increment(CounterTotalMaterialCosts, costs.Tires.Float64())
	s.increment(CounterRecentSalesTaxCollected, costs.SalesTax.Float64())
	s.increment(CounterTotalSalesTaxCollected, costs.SalesTax.Float64())
	s.increment(CounterRecentRecyclingFees, costs.RecyclingFee.Float64())
	s.increment(CounterTotalRecyclingFees, costs.RecyclingFee.Float64())
}

func (s *session) couponImage() {
	img := s.c.coupon.Image
	if img == CouponRandom {
		if len(s.c.coupon.Candidates) == 0 {
			return
		}
		img = s.c.choose(s.c.coupon.Candidates)
	}
	if img == "" {
		return
	}
	s.page.Skip(5)
	s.page.InsertImage(img, printing.ImageOptions{Fit: true, Align: printing.AlignCenter})
}
