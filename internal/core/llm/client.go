package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hotpot-concierge/internal/infrastructure/config"
	"hotpot-concierge/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenRouter 風格 chat-completion 客戶端，
// 畫像抽取與知識問答兩個 Oracle 共用
type Client struct {
	config *config.LLMConfig
	client *resty.Client
}

// NewClient 創建模型服務客戶端
func NewClient(cfg *config.LLMConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://hotpot-concierge.com").
		SetHeader("X-Title", "Hotpot Concierge")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Chat 發送 system + user 消息並返回模型文本
func (c *Client) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := map[string]interface{}{
		"model": c.config.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"max_tokens": c.config.MaxTokens,
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	common.LogOracleCall("llm", time.Since(start), err)

	if err != nil {
		return "", fmt.Errorf("failed to send request to model service: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("模型服務返回錯誤狀態",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.config.Model),
		)
		return "", fmt.Errorf("model service returned error: %s", resp.String())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse model response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in model response")
	}

	return result.Choices[0].Message.Content, nil
}
