package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"smartfridge/internal/infrastructure/config"
	"smartfridge/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenRouter 食譜生成客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建 OpenRouter 客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL("https://openrouter.ai/api/v1").
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://smartfridge.app").
		SetHeader("X-Title", "SmartFridge")

	return &Client{
		config: cfg,
		client: client,
	}
}

// GenerateDrafts 根據可用食材生成食譜草稿
// 每次呼叫產生一份草稿，最多嘗試 min(maxResults, 3) 次；無法解析的回應直接略過
func (c *Client) GenerateDrafts(ctx context.Context, items []common.AvailableItem, maxResults int) ([]common.SuggestionDraft, error) {
	prompt := buildPrompt(items)

	attempts := maxResults
	if attempts > 3 {
		attempts = 3
	}

	var results []common.SuggestionDraft
	for i := 0; i < attempts; i++ {
		content, err := c.complete(ctx, prompt)
		if err != nil {
			return nil, err
		}

		draft, ok := parseDraft(content)
		if !ok {
			common.LogWarn("AI 回應無法解析為食譜草稿",
				zap.Int("attempt", i+1),
				zap.Int("response_length", len(content)),
			)
			continue
		}
		results = append(results, *draft)
	}

	return results, nil
}

// GetModel 獲取當前使用的模型名稱
func (c *Client) GetModel() string {
	return c.config.OpenRouter.Model
}

// Close 關閉客戶端
func (c *Client) Close() error {
	return nil
}

// complete 發送 chat completion 請求並回傳模型輸出
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	req := map[string]interface{}{
		"model": c.config.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": "You are a helpful cooking assistant.",
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"max_tokens":  c.config.OpenRouter.MaxTokens,
		"temperature": 0.7,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned error: %s", resp.String())
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
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	return result.Choices[0].Message.Content, nil
}

// buildPrompt 組裝食譜生成的 prompt
func buildPrompt(items []common.AvailableItem) string {
	ingredients := common.FormatAvailableItems(items)

	return fmt.Sprintf(`You are a helpful cooking assistant. Based on the following ingredients available in the user's fridge, suggest a recipe they could make.

Available ingredients: %s

Please provide:
1. Recipe title
2. List of ingredients (including amounts)
3. Step-by-step cooking instructions
4. Approximate prep and cook times

Format your response as:
TITLE: [recipe name]
SERVINGS: [number]
PREP_TIME: [minutes]
COOK_TIME: [minutes]
INGREDIENTS:
- [ingredient 1]
- [ingredient 2]
...
INSTRUCTIONS:
1. [step 1]
2. [step 2]
...`, ingredients)
}
