package printing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fueltire/receipts/internal/domain/printing"
)

func TestRenderRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      *RenderRequest
		wantCode string
	}{
		{name: "nil request", req: nil, wantCode: ErrCodeInvalidHTML},
		{name: "empty HTML", req: &RenderRequest{Geometry: printing.ReceiptGeometry()}, wantCode: ErrCodeInvalidHTML},
		{name: "whitespace only HTML", req: &RenderRequest{HTML: "  \n\t ", Geometry: printing.ReceiptGeometry()}, wantCode: ErrCodeInvalidHTML},
		{name: "zero width", req: &RenderRequest{HTML: "<html>receipt</html>"}, wantCode: ErrCodeInvalidGeometry},
		{
			name: "margins wider than page",
			req: &RenderRequest{
				HTML:     "<html>receipt</html>",
				Geometry: printing.PageGeometry{WidthInches: 1, MarginInches: 0.6},
			},
			wantCode: ErrCodeInvalidGeometry,
		},
		{name: "valid receipt", req: &RenderRequest{HTML: "<html>receipt</html>", Geometry: printing.ReceiptGeometry()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, tt.wantCode, renderErr.Code)
		})
	}
}

func TestRenderError(t *testing.T) {
	cause := errors.New("chrome exited")
	err := NewRenderError(ErrCodeRenderFailed, "render failed", cause)

	assert.Equal(t, "render failed: chrome exited", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "render failed", NewRenderError(ErrCodeRenderFailed, "render failed", nil).Error())
}
