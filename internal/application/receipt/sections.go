package receipt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fueltire/receipts/internal/domain/printing"
)

// DefaultNitrogenPercent is printed when the nitrogen purity setting is missing.
const DefaultNitrogenPercent = 95.0

// commentWidthRatio is the share of the content width a comment line may use.
const commentWidthRatio = 0.95

func (s *session) contactHeader(description ...string) {
	id := s.c.identity
	accepted := s.job.AcceptedAt
	if accepted.IsZero() {
		accepted = s.now
	}

	s.text(printing.Text(10))
	s.pair(accepted.Format("01/02/2006"), accepted.Format("15:04:05"))
	if id.Logo != "" {
		s.page.InsertImage(id.Logo, printing.ImageOptions{Scale: id.LogoScale, OffsetY: 2})
	}
	s.page.Skip(70)
	s.text(printing.Text(9).Emphasized().Centered())
	for _, l := range id.CompanyLines {
		s.line(l)
	}
	s.page.Skip(5)
	s.text(printing.Text(14).Emphasized().Slanted().Centered())
	for _, l := range description {
		s.line(l)
	}
	s.page.Skip(5)
	s.text(printing.Text(11).Centered())
	s.line(id.Website)
}

func (s *session) serviceDetails(description, details string) {
	job := s.job
	s.page.Skip(2)
	s.text(printing.Text(9))
	s.pair("Description:", description)
	email := job.Email
	if email == "" {
		email = "<No Email>"
	}
	s.pair("Email:", email)
	if job.Vehicle.Mileage != nil {
		s.pair("Mileage:", message.NewPrinter(language.AmericanEnglish).Sprintf("%d", *job.Vehicle.Mileage))
	}
	if job.Payment.CheckNumber != "" {
		s.pair("Check #:", job.Payment.CheckNumber)
	}
	if street := job.Vehicle.Street(); street != "" {
		s.pair("Street:", street)
	}
	if city := job.Vehicle.City(); city != "" {
		s.pair("City:", city)
	}
	var control int64
	if job.ControlNumber != nil {
		control = *job.ControlNumber
	}
	s.pair("Control Number:", fmt.Sprintf("%010d", control))
	kiosk := job.KioskID
	if kiosk == "" {
		kiosk = s.c.identity.KioskID
	}
	s.pair("Miosk ID:", kiosk)

	s.page.Skip(5)
	s.text(printing.Text(12).Emphasized().Centered())
	s.line(details)
	if job.Service != nil {
		s.page.Skip(5)
		s.text(printing.Text(18).Emphasized().Centered())
		s.line(job.Service.DisplayShortName())
	}
	s.page.Skip(5)
	if job.Vehicle.PlateNumber != "" {
		s.text(printing.Text(16).Emphasized().Centered())
		s.line(job.Vehicle.Plate())
	}
	if job.Vehicle.VehicleNumber != "" {
		s.text(printing.Text(16).Centered())
		s.line("#" + job.Vehicle.VehicleNumber)
	}
	if job.Vehicle.VIN != "" {
		s.text(printing.Text(12).Centered())
		s.line(job.Vehicle.VIN)
	}
	s.page.Skip(10)
}

// tireTable prints one block per tire pair. Pairs with no readings on either
// side are left out entirely.
func (s *session) tireTable(opts TableOptions) {
	svc := s.job.Service
	fields := TireFields(opts, s.now)
	start := s.page.Position()

	for _, p := range tirePairs(svc.Template) {
		left, right := s.job.Data.Get(p.leftKey), s.job.Data.Get(p.rightKey)
		if left == nil && right == nil {
			continue
		}
		var leftTitle, rightTitle string
		if left != nil {
			leftTitle = p.abbr.Abbreviate(p.leftTitle, s.c.labelWidth)
		}
		if right != nil {
			rightTitle = p.abbr.Abbreviate(p.rightTitle, s.c.labelWidth)
		}

		s.text(printing.Text(10).Emphasized())
		s.pair(leftTitle, rightTitle)
		s.page.Skip(2)
		s.text(printing.Text(8))

		ls := Side{Data: left, Inspect: opts.Inspection.Shows(left)}
		rs := Side{Data: right, Inspect: opts.Inspection.Shows(right)}
		for _, f := range fields {
			if row, ok := FormatRow(ls, rs, f); ok {
				s.page.WritePair(row.Left, row.Right, row.LeftBold, row.RightBold)
			}
		}
	}

	if svc.Image != "" {
		scale := svc.ImageScale
		if scale == 0 {
			scale = 1
		}
		height := s.page.Position() - start
		s.page.InsertImage(svc.Image, printing.ImageOptions{
			Scale:   scale,
			Align:   printing.AlignCenter,
			OffsetY: -height / 2,
		})
	}
}

func (s *session) savingsReport(noSavings, noNitrogen bool) {
	gasPrice := s.setting(SettingGasPrice, DefaultGasPrice)
	report := ComputeSavings(s.job.Data, !noSavings, gasPrice)

	s.page.Skip(10)
	s.text(printing.Text(12).Centered())
	s.boldLine("Most Severe UI: " + fixed2(report.MostSevereUI) + " PSI")
	s.boldLine("%UI: " + fixed2(report.MostSeverePercent) + "%")
	s.boldLine("Avg UI: " + fixed2(report.AverageDiff) + " PSI")
	s.boldLine("%Avg UI: " + fixed2(report.AveragePercent) + "%")
	s.page.Skip(5)
	s.comment(s.job.Comment)

	if !noSavings && report.AverageDiff != 0 {
		if report.Underinflated() {
			s.underinflationText(report)
		} else {
			s.overinflationText(report.Wear)
		}
		avg := report.AverageDollars()
		s.increment(CounterRecentSavedDollars, avg)
		s.increment(CounterTotalSavedDollars, avg)
	}

	if !noNitrogen {
		purity := s.setting(SettingNitrogenPercent, DefaultNitrogenPercent)
		s.page.Skip(5)
		s.text(printing.Text(9).Slanted().Centered())
		s.line("Tires inflated with " + strconv.FormatFloat(purity, 'f', -1, 64) + "% pure " + s.c.identity.NitrogenSource)
		s.text(printing.Text(11).Slanted().Emphasized().Centered())
		s.line(s.c.identity.NitrogenBrand)
	}
}

func (s *session) underinflationText(report SavingsReport) {
	if s.job.Service != nil && s.job.Service.IsBus() {
		s.line("Our service increases fuel economy")
		s.line("by 3-10% and can reduce tire wear")
		s.line("and extend life as much as 20%")
		s.line("while greatly improving safety!")
		return
	}
	s.line("By proper inflation,")
	s.boldLine(fmt.Sprintf("you just saved %.1f%%", report.SavingsPercent))
	s.line("fuel economy.")
	s.text(printing.Text(10).Centered())
	s.page.Skip(10)
	s.line("Your average fuel savings:")
	s.line("Contact our office: " + s.c.identity.OfficePhone)
}

func (s *session) overinflationText(band WearBand) {
	s.text(printing.Text(9).Centered())
	s.line(band.Message)
	s.line("We have set them to the proper pressure.")
	s.page.Skip(10)
	s.line("Your estimated savings is:")
	s.text(printing.Text(10).Centered())
	s.boldLine(fmt.Sprintf("between $%d-$%d annually", band.Min, band.Max))
	s.text(printing.Text(9).Centered())
	s.line("from excessive tire wear.")
}

func (s *session) comment(text string) {
	if text == "" {
		return
	}
	s.page.Skip(5)
	s.text(printing.Text(13).Centered())
	s.line("Service Note:")
	s.text(printing.Text(11))

	italic := printing.Style{Italic: true}
	measure := func(t string) float64 {
		return s.page.TextWidth(t, 11, italic)
	}
	for _, l := range WrapComment(text, s.page.ContentWidth()*commentWidthRatio, measure) {
		s.page.WriteLine(l, italic)
	}
	s.text(printing.Text(12).Centered())
	s.page.Skip(5)
}

// fixed2 rounds half away from zero, so 15.625 prints as 15.63.
func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// WrapComment greedily wraps text to maxWidth as measured by measure. Line
// breaks in text force a new line; consecutive breaks produce blank lines.
func WrapComment(text string, maxWidth float64, measure func(string) float64) []string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", " \n ")

	var lines []string
	partial := ""
	for _, word := range strings.Split(text, " ") {
		if word == "" {
			continue
		}
		forced := word == "\n"
		if forced || (partial != "" && measure(partial)+measure(word) > maxWidth) {
			lines = append(lines, strings.TrimRight(partial, " "))
			partial = ""
		}
		if !forced {
			partial += word + " "
		}
	}
	if strings.TrimSpace(partial) != "" {
		lines = append(lines, strings.TrimRight(partial, " "))
	}
	return lines
}
