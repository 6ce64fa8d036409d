package printing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fueltire/receipts/internal/domain/printing"
)

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, defaultChromeTimeout, r.timeout)
	assert.NotNil(t, r.logger)
}

func TestExecOptions_Sandbox(t *testing.T) {
	base := len(execOptions(false))
	assert.Len(t, execOptions(true), base+1)
}

func TestPaperSize(t *testing.T) {
	size := paperSize(&RenderRequest{
		HTML:         "<html>receipt</html>",
		Geometry:     printing.ReceiptGeometry(),
		HeightPoints: 1440,
	})
	assert.InDelta(t, 2.75, size.width, 0.001)
	assert.InDelta(t, 20.0, size.height, 0.001)

	short := paperSize(&RenderRequest{Geometry: printing.ReceiptGeometry(), HeightPoints: 10})
	assert.Equal(t, minPageHeightInches, short.height)
}

func TestChromedpRenderer_RejectsInvalidRequest(t *testing.T) {
	r, err := NewChromedpRenderer(&ChromedpConfig{DefaultTimeout: time.Second})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Render(context.Background(), &RenderRequest{Geometry: printing.ReceiptGeometry()})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestChromedpRenderer_CancelledContext(t *testing.T) {
	r, err := NewChromedpRenderer(&ChromedpConfig{RemoteURL: "ws://127.0.0.1:1/devtools/browser/none"})
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Render(ctx, &RenderRequest{HTML: "<html>receipt</html>", Geometry: printing.ReceiptGeometry()})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
}
