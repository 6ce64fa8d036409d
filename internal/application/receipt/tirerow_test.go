package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fueltire/receipts/internal/domain/tire"
)

func psi(v float64) *float64 { return &v }

var testNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func fieldByName(t *testing.T, fields []Field, name string) Field {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	require.FailNow(t, "field not found", name)
	return Field{}
}

func TestTireFields_Order(t *testing.T) {
	assert.Equal(t,
		[]string{"SW", "T", "TD", "Punc", "DOT", "Temp", "Before", "After", "Diff", "N2", "SP"},
		fieldNames(TireFields(DefaultTableOptions(), testNow)))
	assert.Equal(t,
		[]string{"SW", "T", "TD", "Punc", "DOT", "Act", "Diff", "N2", "MRSP"},
		fieldNames(TireFields(TableOptions{Inspection: InspectWhenMeasured, MRSP: true}, testNow)))
}

func TestFormatRow(t *testing.T) {
	fields := TireFields(DefaultTableOptions(), testNow)
	left := &tire.TireData{Uncorrected: psi(30), Corrected: psi(35), SpecifiedPressure: 35}
	right := &tire.TireData{Uncorrected: psi(36.5), SpecifiedPressure: 35}

	t.Run("both sides", func(t *testing.T) {
		row, ok := FormatRow(Side{Data: left}, Side{Data: right}, fieldByName(t, fields, "Diff"))
		require.True(t, ok)
		assert.Equal(t, Row{Left: "Diff: -5.00 PSI", Right: "1.50 PSI :Diff", LeftBold: true, RightBold: true}, row)
	})

	t.Run("one side missing a value", func(t *testing.T) {
		row, ok := FormatRow(Side{Data: left}, Side{Data: right}, fieldByName(t, fields, "After"))
		require.True(t, ok)
		assert.Equal(t, "After: 35.00 PSI", row.Left)
		assert.Empty(t, row.Right)
	})

	t.Run("both sides absent", func(t *testing.T) {
		for _, f := range fields {
			_, ok := FormatRow(Side{}, Side{}, f)
			assert.False(t, ok, f.Name)
		}
	})

	t.Run("mrsp in whole psi", func(t *testing.T) {
		mrsp := TireFields(TableOptions{MRSP: true}, testNow)
		row, ok := FormatRow(Side{Data: left}, Side{}, fieldByName(t, mrsp, "MRSP"))
		require.True(t, ok)
		assert.Equal(t, "MRSP: 35 PSI", row.Left)
	})
}

func TestFormatRow_InspectionGating(t *testing.T) {
	measured := &tire.TireData{Sidewall: "Cracked", Tread: "Ok", TreadDepth: 3, Puncture: "Nail", DOT: "DOT U2LL LMLR 0115"}
	bare := &tire.TireData{Sidewall: "Ok"}

	rules := []struct {
		rule      InspectionRule
		wantLeft  bool
		wantRight bool
	}{
		{InspectNever, false, false},
		{InspectWhenMeasured, true, false},
		{InspectAlways, true, true},
	}
	for _, r := range rules {
		fields := TireFields(TableOptions{Inspection: r.rule}, testNow)
		ls := Side{Data: measured, Inspect: r.rule.Shows(measured)}
		rs := Side{Data: bare, Inspect: r.rule.Shows(bare)}
		row, _ := FormatRow(ls, rs, fieldByName(t, fields, "SW"))
		assert.Equal(t, r.wantLeft, row.Left != "", "rule %d left", r.rule)
		assert.Equal(t, r.wantRight, row.Right != "", "rule %d right", r.rule)
	}

	fields := TireFields(DefaultTableOptions(), testNow)
	side := Side{Data: measured, Inspect: true}
	for name, want := range map[string]Row{
		"SW":   {Left: "SW: Cracked", LeftBold: true},
		"T":    {Left: "T: Ok"},
		"TD":   {Left: `TD: 3/32"`, LeftBold: true},
		"Punc": {Left: "Punc: Nail", LeftBold: true},
		"DOT":  {Left: "DOT: DOT U2LL LMLR 0115", LeftBold: true},
	} {
		row, ok := FormatRow(side, Side{}, fieldByName(t, fields, name))
		require.True(t, ok, name)
		assert.Equal(t, want, row, name)
	}
}

func TestTirePairs(t *testing.T) {
	t.Run("dual axle", func(t *testing.T) {
		tmpl := tire.Template{Axles: []tire.Axle{
			{Position: 0, Title: "Steer", Left: []string{"LS"}, Right: []string{"RS"}},
			{Position: 1, Title: "Drive", Left: []string{"LDO", "LDI"}, Right: []string{"RDO", "RDI"}},
		}}
		pairs := tirePairs(tmpl)
		require.Len(t, pairs, 3)
		assert.Equal(t, "Left Steer Tire", pairs[0].leftTitle)
		assert.Equal(t, "Right Drive Outer Tire", pairs[1].rightTitle)
		assert.Equal(t, "LDI", pairs[2].leftKey)
		assert.Equal(t, "RDI", pairs[2].rightKey)
		assert.Equal(t, Abbreviator{AxleTitle: "Drive", InOut: "Inner"}, pairs[2].abbr)
	})

	t.Run("one sided axle", func(t *testing.T) {
		tmpl := tire.Template{Axles: []tire.Axle{
			{Title: "Spare", Left: []string{"SP"}},
		}}
		pairs := tirePairs(tmpl)
		require.Len(t, pairs, 1)
		assert.Equal(t, "Spare Tire", pairs[0].leftTitle)
		assert.Empty(t, pairs[0].rightKey)
	})

	t.Run("two wheeler folds", func(t *testing.T) {
		tmpl := tire.Template{Axles: []tire.Axle{
			{Title: "Front", Left: []string{"F"}},
			{Title: "Rear", Right: []string{"R"}},
		}}
		pairs := tirePairs(tmpl)
		require.Len(t, pairs, 1)
		assert.Equal(t, tirePair{leftKey: "F", rightKey: "R", leftTitle: "Front Tire", rightTitle: "Rear Tire"}, pairs[0])
	})
}
