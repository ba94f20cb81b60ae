package concierge

import (
	"net/http"

	coreConcierge "hotpot-concierge/internal/core/concierge"
	"hotpot-concierge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatRequest 一輪對話請求
type ChatRequest struct {
	SessionID string                         `json:"session_id,omitempty"`
	Message   string                         `json:"message" binding:"required"`
	NumGuests *int                           `json:"num_guests,omitempty"`
	Allergies []string                       `json:"allergies,omitempty"`
	Broths    []coreConcierge.BrothSelection `json:"broths,omitempty"`
}

// HandleChat 處理一輪點餐對話
func (h *Handler) HandleChat(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	common.LogInfo("開始處理對話請求",
		zap.String("request_id", requestID),
		zap.String("session_id", req.SessionID),
		zap.String("client_ip", c.ClientIP()),
	)

	result := h.router.HandleTurn(c.Request.Context(), coreConcierge.TurnRequest{
		SessionID:       req.SessionID,
		Message:         req.Message,
		NumGuests:       req.NumGuests,
		Allergies:       req.Allergies,
		BrothSelections: req.Broths,
	})

	common.LogInfo("對話請求處理完成",
		zap.String("request_id", requestID),
		zap.String("session_id", result.SessionID),
		zap.String("source", result.Source),
		zap.Bool("has_order", result.Order != nil),
	)

	c.JSON(http.StatusOK, result)
}
