package handler

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/domain/printing"
	infra "github.com/fueltire/receipts/internal/infrastructure/printing"
	"github.com/fueltire/receipts/internal/infrastructure/logger"
)

// ArchiveHandler serves previously rendered receipts
type ArchiveHandler struct {
	BaseHandler
	archive infra.ReceiptArchive
}

// NewArchiveHandler creates a new ArchiveHandler
func NewArchiveHandler(archive infra.ReceiptArchive) *ArchiveHandler {
	return &ArchiveHandler{archive: archive}
}

// Get handles GET /receipts/archive/*path
func (h *ArchiveHandler) Get(c *gin.Context) {
	archivePath := strings.TrimPrefix(c.Param("path"), "/")
	if archivePath == "" {
		h.BadRequest(c, "Archive path is required")
		return
	}

	rc, err := h.archive.Get(c.Request.Context(), archivePath)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", formatFromPath(archivePath).ContentType())
	c.Header("Content-Disposition", "inline; filename=\""+path.Base(archivePath)+"\"")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.GetGinLogger(c).Warn("failed to stream archived receipt",
			zap.String("path", archivePath),
			zap.Error(err),
		)
	}
}

func formatFromPath(p string) printing.OutputFormat {
	switch path.Ext(p) {
	case printing.OutputFormatPDF.Extension():
		return printing.OutputFormatPDF
	case printing.OutputFormatHTML.Extension():
		return printing.OutputFormatHTML
	case printing.OutputFormatLayout.Extension():
		return printing.OutputFormatLayout
	}
	return ""
}
