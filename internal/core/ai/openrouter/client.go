package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"ingredient-engine/internal/infrastructure/config"
	"ingredient-engine/internal/pkg/common"
)

// Message 消息結構
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示 API 請求
type Request struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

// Response OpenRouter 響應結構
type Response struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Usage   UsageInfo `json:"usage"`
}

// Choice 選擇結構
type Choice struct {
	Message Message `json:"message"`
}

// UsageInfo 使用量信息
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Error 表示 API 錯誤
type Error struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// Client OpenRouter 相容的聊天補全客戶端
type Client struct {
	client *resty.Client
	cfg    config.RemoteConfig
}

// NewClient 創建客戶端
func NewClient(cfg config.RemoteConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://github.com/ingredient-engine").
		SetHeader("X-Title", "Ingredient Engine")

	return &Client{client: client, cfg: cfg}
}

// Complete 送出單輪對話並回傳第一個選項的內容
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := Request{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: "user", Content: strings.TrimSpace(prompt)},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: 0,
	}

	var result Response
	var apiErr Error
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: failed to send request: %v", common.ErrRemoteParseError, err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("OpenRouter API returned error",
			zap.Int("status", resp.StatusCode()),
			zap.String("message", apiErr.Error.Message),
		)
		return "", fmt.Errorf("%w: status %d: %s", common.ErrRemoteParseError, resp.StatusCode(), apiErr.Error.Message)
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty response", common.ErrRemoteParseError)
	}

	common.LogDebug("OpenRouter usage",
		zap.String("id", result.ID),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
