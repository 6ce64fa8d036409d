package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fueltire/receipts/internal/application/receipt"
	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/domain/shared"
	"github.com/fueltire/receipts/internal/infrastructure/logger"
	"github.com/fueltire/receipts/internal/interfaces/http/dto"
	"github.com/fueltire/receipts/internal/interfaces/http/middleware"
)

var (
	handlerNow   = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)
	testRenderID = uuid.MustParse("0d3f9b52-6a4e-4f8b-9a71-5c2e8d1b7f40")
)

type MockReceiptRenderer struct {
	mock.Mock
}

func (m *MockReceiptRenderer) Render(ctx context.Context, format printing.OutputFormat, job *receipt.Job) (*receipt.RenderResult, error) {
	args := m.Called(ctx, format, job)
	if r := args.Get(0); r != nil {
		return r.(*receipt.RenderResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReceiptRenderer) RenderDeclined(ctx context.Context, format printing.OutputFormat, job *receipt.Job) (*receipt.RenderResult, error) {
	args := m.Called(ctx, format, job)
	if r := args.Get(0); r != nil {
		return r.(*receipt.RenderResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReceiptRenderer) RenderBulk(ctx context.Context, format printing.OutputFormat, job *receipt.Job) (*receipt.RenderResult, error) {
	args := m.Called(ctx, format, job)
	if r := args.Get(0); r != nil {
		return r.(*receipt.RenderResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func htmlResult(kind printing.ReceiptKind) *receipt.RenderResult {
	body := []byte("<html><body>receipt</body></html>")
	return &receipt.RenderResult{
		RenderID:    testRenderID,
		Kind:        kind,
		Format:      printing.OutputFormatHTML,
		ContentType: printing.OutputFormatHTML.ContentType(),
		Data:        body,
		Size:        len(body),
		ArchivePath: "2024/03/15/" + testRenderID.String() + ".html",
		Duration:    120 * time.Millisecond,
	}
}

func newReceiptRouter(svc ReceiptRenderer, kioskID string) *gin.Engine {
	middleware.SetupValidator()

	h := NewReceiptHandler(svc, WithHandlerClock(func() time.Time { return handlerNow }))
	router := gin.New()
	router.Use(middleware.RequestID())
	if kioskID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(logger.GinKioskIDKey, kioskID)
			c.Next()
		})
	}
	router.POST("/receipts", h.Render)
	router.POST("/receipts/declined", h.RenderDeclined)
	router.POST("/receipts/bulk", h.RenderBulk)
	return router
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReceiptHandler_Render(t *testing.T) {
	svc := new(MockReceiptRenderer)
	svc.On("Render", mock.Anything, printing.OutputFormatHTML, mock.MatchedBy(func(job *receipt.Job) bool {
		return job.Comment == "Rotate next visit" &&
			job.KioskID == "K-100" &&
			job.AcceptedAt.Equal(handlerNow)
	})).Return(htmlResult(printing.ReceiptKindStandard), nil)

	w := postJSON(newReceiptRouter(svc, ""), "/receipts", `{"comment":"Rotate next visit","kiosk_id":"K-100"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, testRenderID.String(), w.Header().Get(HeaderRenderID))
	assert.Equal(t, "STANDARD", w.Header().Get(HeaderReceiptKind))
	assert.Equal(t, "2024/03/15/"+testRenderID.String()+".html", w.Header().Get(HeaderArchivePath))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "standard-"+testRenderID.String()+".html")
	assert.Equal(t, "<html><body>receipt</body></html>", w.Body.String())
	svc.AssertExpectations(t)
}

func TestReceiptHandler_TokenKioskWins(t *testing.T) {
	svc := new(MockReceiptRenderer)
	svc.On("Render", mock.Anything, printing.OutputFormatHTML, mock.MatchedBy(func(job *receipt.Job) bool {
		return job.KioskID == "K-7"
	})).Return(htmlResult(printing.ReceiptKindStandard), nil)

	w := postJSON(newReceiptRouter(svc, "K-7"), "/receipts", `{"kiosk_id":"K-100"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestReceiptHandler_FormatQuery(t *testing.T) {
	t.Run("layout", func(t *testing.T) {
		result := htmlResult(printing.ReceiptKindStandard)
		result.Format = printing.OutputFormatLayout
		result.ContentType = printing.OutputFormatLayout.ContentType()

		svc := new(MockReceiptRenderer)
		svc.On("Render", mock.Anything, printing.OutputFormatLayout, mock.Anything).Return(result, nil)

		w := postJSON(newReceiptRouter(svc, ""), "/receipts?format=layout", `{}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))
		svc.AssertExpectations(t)
	})

	t.Run("unknown format", func(t *testing.T) {
		svc := new(MockReceiptRenderer)

		w := postJSON(newReceiptRouter(svc, ""), "/receipts?format=docx", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidFormat, decodeResponse(t, w).Error.Code)
		svc.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReceiptHandler_Describe(t *testing.T) {
	svc := new(MockReceiptRenderer)
	svc.On("Render", mock.Anything, printing.OutputFormatHTML, mock.Anything).
		Return(htmlResult(printing.ReceiptKindAssessment), nil)

	w := postJSON(newReceiptRouter(svc, ""), "/receipts?describe=true", `{}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, testRenderID.String(), data["render_id"])
	assert.Equal(t, "ASSESSMENT", data["kind"])
	assert.Equal(t, float64(33), data["size"])
	assert.Equal(t, float64(120), data["duration_ms"])
}

func TestReceiptHandler_Declined(t *testing.T) {
	svc := new(MockReceiptRenderer)
	svc.On("RenderDeclined", mock.Anything, printing.OutputFormatHTML, mock.Anything).
		Return(htmlResult(printing.ReceiptKindDeclined), nil)

	w := postJSON(newReceiptRouter(svc, ""), "/receipts/declined", `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DECLINED", w.Header().Get(HeaderReceiptKind))
	svc.AssertExpectations(t)
}

func TestReceiptHandler_DomainErrors(t *testing.T) {
	svc := new(MockReceiptRenderer)
	svc.On("Render", mock.Anything, printing.OutputFormatHTML, mock.Anything).Return(nil, shared.ErrEmptyTemplate)

	w := postJSON(newReceiptRouter(svc, ""), "/receipts", `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeEmptyTemplate, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestReceiptHandler_InvalidBody(t *testing.T) {
	svc := new(MockReceiptRenderer)
	router := newReceiptRouter(svc, "")

	t.Run("malformed json", func(t *testing.T) {
		w := postJSON(router, "/receipts", `{"comment":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
	})

	t.Run("bad email", func(t *testing.T) {
		w := postJSON(router, "/receipts", `{"email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "email", resp.Error.Details[0].Field)
	})

	svc.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiptHandler_Bulk(t *testing.T) {
	t.Run("renders charges", func(t *testing.T) {
		svc := new(MockReceiptRenderer)
		svc.On("RenderBulk", mock.Anything, printing.OutputFormatHTML, mock.MatchedBy(func(job *receipt.Job) bool {
			return len(job.Charges) == 2 && job.KioskID == "K-7"
		})).Return(htmlResult(printing.ReceiptKindBulk), nil)

		body := `{"charges":[{"service":"Car inflation","amount":29.99},{"service":"Truck inflation","amount":39.99}]}`
		w := postJSON(newReceiptRouter(svc, "K-7"), "/receipts/bulk", body)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "BULK", w.Header().Get(HeaderReceiptKind))
		svc.AssertExpectations(t)
	})

	t.Run("no charges", func(t *testing.T) {
		svc := new(MockReceiptRenderer)

		w := postJSON(newReceiptRouter(svc, ""), "/receipts/bulk", `{"charges":[]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
		svc.AssertNotCalled(t, "RenderBulk", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReceiptHandler_BodyLimit(t *testing.T) {
	svc := new(MockReceiptRenderer)
	h := NewReceiptHandler(svc)

	router := gin.New()
	router.Use(middleware.BodyLimit(16))
	router.POST("/receipts", h.Render)

	req := httptest.NewRequest(http.MethodPost, "/receipts",
		strings.NewReader(`{"comment":"`+strings.Repeat("x", 64)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
}
