package printing

// PageBuilder draws a receipt onto a single fixed-width page that grows
// downward. Positions and sizes are in points. A builder is used by one
// composition at a time.
type PageBuilder interface {
	// Begin starts a page of the given geometry; it must be called first.
	Begin(geometry PageGeometry)
	SetText(opts TextOptions)
	// WriteLine writes one line using the current options merged with style.
	WriteLine(text string, style Style)
	// WritePair writes a two-column row, left and right aligned.
	WritePair(left, right string, leftBold, rightBold bool)
	// InsertImage places an image at the cursor. Fit images advance the
	// cursor by their height; other images overlay the page in place.
	InsertImage(src string, opts ImageOptions)
	InsertBarcode(payload string, offsetX float64)
	DrawRule(thickness float64)
	// TextWidth measures text in points for a font size and style.
	TextWidth(text string, size float64, style Style) float64
	Skip(points float64)
	// Position returns the distance from the top of the page to the cursor.
	Position() float64
	// ContentWidth returns the usable width between the margins.
	ContentWidth() float64
	// Finish seals the page and returns the encoded document.
	Finish() ([]byte, error)
}
