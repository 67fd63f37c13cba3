package barcode

import (
	"errors"
	"net/http"

	barcodeService "smartfridge/internal/core/barcode"
	"smartfridge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 條碼查詢處理程序
type Handler struct {
	service *barcodeService.Service
}

// NewHandler 創建新的條碼查詢處理程序
func NewHandler(service *barcodeService.Service) *Handler {
	return &Handler{service: service}
}

// HandleLookup 依條碼查詢產品資訊
func (h *Handler) HandleLookup(c *gin.Context) {
	code := c.Param("code")

	info, err := h.service.Lookup(c.Request.Context(), code)
	if err != nil {
		var customErr *common.CustomError
		if errors.As(err, &customErr) {
			c.JSON(customErr.Status, gin.H{
				"error": customErr.Message,
				"code":  customErr.Code,
			})
			return
		}

		common.LogError("條碼查詢失敗",
			zap.String("barcode", code),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Barcode lookup failed",
			"code":  common.ErrCodeServiceUnavailable,
		})
		return
	}

	c.JSON(http.StatusOK, info)
}
