package provider

import (
	"context"
	"time"

	"smartfridge/internal/pkg/common"
)

// Provider 定義食譜生成提供者介面
//
// 單一明確介面：每個提供者（OpenRouter、本地引擎）各有一個實作，
// 由設定決定選用哪一個，而非依賴隱式的共同形狀。
type Provider interface {
	// GenerateDrafts 根據可用食材生成食譜草稿
	GenerateDrafts(ctx context.Context, items []common.AvailableItem, maxResults int) ([]common.SuggestionDraft, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// Close 關閉提供者連接
	Close() error
}

// Config 定義提供者配置
type Config struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	BaseURL    string
}
