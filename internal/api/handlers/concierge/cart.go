package concierge

import (
	"errors"
	"net/http"

	"hotpot-concierge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartUpdateRequest 按勾選結果整體覆寫購物車
type CartUpdateRequest struct {
	SessionID string   `json:"session_id" binding:"required"`
	Cart      []string `json:"cart"`
}

// HandleCartUpdate 覆寫 session 購物車
func (h *Handler) HandleCartUpdate(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req CartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.router.UpdateCart(c.Request.Context(), req.SessionID, req.Cart)
	if err != nil {
		if errors.Is(err, common.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
				"code":  common.ErrSessionNotFound.Code,
			})
			return
		}
		common.LogError("購物車更新失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("session_id", req.SessionID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	common.LogInfo("購物車更新完成",
		zap.String("request_id", requestID),
		zap.String("session_id", result.SessionID),
		zap.Int("items", len(result.Cart)),
	)

	c.JSON(http.StatusOK, result)
}
