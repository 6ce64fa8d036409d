package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fueltire/receipts/internal/domain/shared"
	"github.com/fueltire/receipts/internal/interfaces/http/dto"
	"github.com/fueltire/receipts/internal/interfaces/http/middleware"
)

type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) All(ctx context.Context) (map[string]float64, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(map[string]float64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSettingsStore) Set(ctx context.Context, key string, value float64) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockSettingsStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls++
	return r.err
}

func newSettingsRouter(store SettingsStore, refresher SettingsRefresher) *gin.Engine {
	middleware.SetupValidator()

	h := NewSettingsHandler(store, refresher)
	router := gin.New()
	router.GET("/settings", h.List)
	router.PUT("/settings/:key", h.Put)
	router.DELETE("/settings/:key", h.Delete)
	return router
}

func sendJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSettingsHandler_List(t *testing.T) {
	store := new(MockSettingsStore)
	store.On("All", mock.Anything).Return(map[string]float64{"gas_price": 3.49, "nitrogen_percent": 95}, nil)

	w := sendJSON(newSettingsRouter(store, nil), http.MethodGet, "/settings", "")

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, 3.49, data["gas_price"])
	assert.Equal(t, float64(95), data["nitrogen_percent"])
}

func TestSettingsHandler_ListError(t *testing.T) {
	store := new(MockSettingsStore)
	store.On("All", mock.Anything).Return(nil, errors.New("connection refused"))

	w := sendJSON(newSettingsRouter(store, nil), http.MethodGet, "/settings", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrCodeInternal, decodeResponse(t, w).Error.Code)
}

func TestSettingsHandler_Put(t *testing.T) {
	store := new(MockSettingsStore)
	store.On("Set", mock.Anything, "gas_price", 3.29).Return(nil)
	refresher := &countingRefresher{}

	w := sendJSON(newSettingsRouter(store, refresher), http.MethodPut, "/settings/gas_price", `{"value":3.29}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "gas_price", data["key"])
	assert.Equal(t, 3.29, data["value"])
	assert.Equal(t, 1, refresher.calls)
	store.AssertExpectations(t)
}

func TestSettingsHandler_PutZeroValue(t *testing.T) {
	store := new(MockSettingsStore)
	store.On("Set", mock.Anything, "gas_price", float64(0)).Return(nil)

	w := sendJSON(newSettingsRouter(store, nil), http.MethodPut, "/settings/gas_price", `{"value":0}`)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestSettingsHandler_PutMissingValue(t *testing.T) {
	store := new(MockSettingsStore)

	w := sendJSON(newSettingsRouter(store, nil), http.MethodPut, "/settings/gas_price", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettingsHandler_PutInvalidKey(t *testing.T) {
	store := new(MockSettingsStore)
	store.On("Set", mock.Anything, mock.Anything, mock.Anything).
		Return(shared.NewDomainError("INVALID_SETTING_KEY", "Setting key must be 1 to 64 characters"))
	refresher := &countingRefresher{}

	key := strings.Repeat("k", 65)
	w := sendJSON(newSettingsRouter(store, refresher), http.MethodPut, "/settings/"+key, `{"value":1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidSettingKey, decodeResponse(t, w).Error.Code)
	assert.Zero(t, refresher.calls)
}

func TestSettingsHandler_Delete(t *testing.T) {
	store := new(MockSettingsStore)
	store.On("Delete", mock.Anything, "gas_price").Return(nil)
	refresher := &countingRefresher{err: errors.New("db down")}

	w := sendJSON(newSettingsRouter(store, refresher), http.MethodDelete, "/settings/gas_price", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, refresher.calls)
	store.AssertExpectations(t)
}
