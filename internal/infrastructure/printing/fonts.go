package printing

// Advance widths of the printable ASCII range (0x20-0x7E) in 1/1000 em,
// from the Adobe core font metrics. Oblique faces share the upright widths.
var (
	helvetica = [95]int{
		278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
		556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
		1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
		667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
		333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
		556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
	}
	helveticaBold = [95]int{
		278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
		556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
		975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
		667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
		333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
		611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
	}
	// widths of the Latin-1 glyphs receipts use, identical in both weights
	helveticaExtra = map[rune]int{
		'©': 737,
		'°': 400,
		'Å': 667,
		'É': 667,
		'é': 556,
	}
)

const defaultGlyphWidth = 556

// TextWidth measures text set in Helvetica at size points.
func TextWidth(text string, size float64, bold bool) float64 {
	table := &helvetica
	if bold {
		table = &helveticaBold
	}
	units := 0
	for _, r := range text {
		switch {
		case r >= 0x20 && r <= 0x7E:
			units += table[r-0x20]
		default:
			if w, ok := helveticaExtra[r]; ok {
				units += w
			} else {
				units += defaultGlyphWidth
			}
		}
	}
	return float64(units) * size / 1000
}
