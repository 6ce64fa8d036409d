package printing

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fueltire/receipts/internal/domain/printing"
)

func TestLayoutPage_Records(t *testing.T) {
	p := NewLayoutPage()
	p.Begin(printing.ReceiptGeometry())
	p.SetText(printing.Text(12).Centered())
	p.WriteLine("Most Severe UI: -5.00 PSI", printing.Style{Bold: true})
	p.SetText(printing.Text(8))
	p.WritePair("Diff: -5.00 PSI", "-5.00 PSI :Diff", true, true)
	p.InsertImage("files/coupon.png", printing.ImageOptions{Fit: true})
	p.InsertBarcode("1HGCM82633A004352", 14)
	p.DrawRule(1)

	doc, err := p.Finish()
	require.NoError(t, err)

	var ops []LayoutOp
	scanner := bufio.NewScanner(bytes.NewReader(doc))
	for scanner.Scan() {
		var op LayoutOp
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &op))
		ops = append(ops, op)
	}
	require.Len(t, ops, 7)

	assert.Equal(t, "begin", ops[0].Op)
	assert.Equal(t, LayoutOp{Op: "line", Text: "Most Severe UI: -5.00 PSI", Size: 12, Bold: true, Align: "center"}, ops[1])
	assert.Equal(t, "pair", ops[2].Op)
	assert.InDelta(t, 14.4, ops[2].Y, 1e-9)
	assert.True(t, ops[2].RightBold)
	assert.Equal(t, "files/coupon.png", ops[3].Src)
	assert.Equal(t, ops[3].Y, ops[4].Y, "images do not move the cursor")
	assert.Equal(t, 14.0, ops[4].OffsetX)
	assert.Equal(t, "rule", ops[5].Op)
	assert.Equal(t, "finish", ops[6].Op)
	assert.Equal(t, ops, p.Ops())
}

func TestLayoutPage_MeasuresLikeHTML(t *testing.T) {
	layout, html := NewLayoutPage(), NewHTMLPage()
	style := printing.Style{Italic: true}
	assert.Equal(t,
		html.TextWidth("Service Note:", 11, style),
		layout.TextWidth("Service Note:", 11, style))
}

func TestLayoutPage_FinishBeforeBegin(t *testing.T) {
	_, err := NewLayoutPage().Finish()
	assert.Error(t, err)
}
