package concierge

import (
	"net/http"

	coreConcierge "hotpot-concierge/internal/core/concierge"
	"hotpot-concierge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleRecommend 跳過對話收集，按人數與過敏直接生成推薦方案
func (h *Handler) HandleRecommend(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req coreConcierge.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := h.router.Recommend(c.Request.Context(), req)

	common.LogInfo("推薦方案生成完成",
		zap.String("request_id", requestID),
		zap.String("session_id", result.SessionID),
		zap.Int("num_guests", result.NumGuests),
		zap.Int("items", len(result.Items)),
		zap.Float64("total", result.Total),
	)

	c.JSON(http.StatusOK, result)
}
