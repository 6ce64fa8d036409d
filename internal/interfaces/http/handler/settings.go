package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/infrastructure/logger"
)

// SettingsStore persists numeric kiosk settings
type SettingsStore interface {
	All(ctx context.Context) (map[string]float64, error)
	Set(ctx context.Context, key string, value float64) error
	Delete(ctx context.Context, key string) error
}

// SettingsRefresher reloads a cached view of the settings
type SettingsRefresher interface {
	Refresh(ctx context.Context) error
}

// SettingsHandler manages the settings consulted while composing receipts
type SettingsHandler struct {
	BaseHandler
	store     SettingsStore
	refresher SettingsRefresher
}

// NewSettingsHandler creates a new SettingsHandler. refresher may be nil.
func NewSettingsHandler(store SettingsStore, refresher SettingsRefresher) *SettingsHandler {
	return &SettingsHandler{store: store, refresher: refresher}
}

// SettingValueRequest is the body of PUT /settings/:key
type SettingValueRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

// SettingResponse is a single stored setting
type SettingResponse struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// List handles GET /settings
func (h *SettingsHandler) List(c *gin.Context) {
	values, err := h.store.All(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, values)
}

// Put handles PUT /settings/:key
func (h *SettingsHandler) Put(c *gin.Context) {
	var req SettingValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	key := c.Param("key")
	if err := h.store.Set(c.Request.Context(), key, *req.Value); err != nil {
		h.HandleError(c, err)
		return
	}
	h.refresh(c)
	h.Success(c, SettingResponse{Key: key, Value: *req.Value})
}

// Delete handles DELETE /settings/:key
func (h *SettingsHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.refresh(c)
	h.NoContent(c)
}

// refresh makes a change visible to the next render. A failed refresh is
// picked up by the periodic reload, so it only gets logged.
func (h *SettingsHandler) refresh(c *gin.Context) {
	if h.refresher == nil {
		return
	}
	if err := h.refresher.Refresh(c.Request.Context()); err != nil {
		logger.GetGinLogger(c).Warn("failed to refresh settings", zap.Error(err))
	}
}
