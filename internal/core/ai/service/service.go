package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"smartfridge/internal/core/ai/openrouter"
	"smartfridge/internal/core/ai/provider"
	"smartfridge/internal/core/cache"
	"smartfridge/internal/core/engine"
	"smartfridge/internal/infrastructure/config"
	"smartfridge/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜生成服務
//
// 提供者失敗時明確退回本地引擎：生成流程對 handler 永遠不回傳錯誤，
// 只透過 source 欄位標示結果來自 "ai" 或 "local"。
type Service struct {
	config       *config.Config
	provider     provider.Provider // local 模式時為 nil
	engine       *engine.Engine
	cacheManager *cache.Manager

	mu          sync.Mutex
	lastRequest time.Time
}

// NewService 創建食譜生成服務
func NewService(cfg *config.Config, eng *engine.Engine, cacheManager *cache.Manager) *Service {
	s := &Service{
		config:       cfg,
		engine:       eng,
		cacheManager: cacheManager,
	}

	if cfg.AI.Provider == "openrouter" && cfg.OpenRouter.APIKey != "" {
		s.provider = openrouter.NewClient(cfg)
		common.LogInfo("AI 生成服務已初始化",
			zap.String("提供者", "openrouter"),
			zap.String("模型", s.provider.GetModel()),
		)
	} else {
		if cfg.AI.Provider == "openrouter" {
			common.LogWarn("未設定 OpenRouter API Key，生成請求將退回本地引擎")
		}
		common.LogInfo("AI 生成服務已初始化",
			zap.String("提供者", "local"),
		)
	}

	return s
}

// Generate 生成食譜草稿
//
// 回傳草稿與來源（"ai" 或 "local"）。空的食材清單直接回空結果；
// 提供者缺席、出錯或一份草稿都解析不出來時，退回本地引擎。
func (s *Service) Generate(ctx context.Context, items []common.AvailableItem, maxResults int) ([]common.SuggestionDraft, string) {
	if len(items) == 0 {
		return []common.SuggestionDraft{}, "local"
	}

	if maxResults <= 0 {
		maxResults = engine.DefaultMaxResults
	}

	if s.provider == nil {
		return s.fallback(items, maxResults), "local"
	}

	// 請求頻率保護
	if err := s.checkRequestRate(); err != nil {
		common.LogWarn("AI 請求過於頻繁，退回本地引擎",
			zap.Error(err),
		)
		return s.fallback(items, maxResults), "local"
	}

	fingerprint := s.fingerprint(items, maxResults)

	// 查詢快取
	if s.config.AI.EnableCache && s.cacheManager != nil {
		if cached, err := s.cacheManager.Get(ctx, fingerprint); err == nil {
			var drafts []common.SuggestionDraft
			if err := json.Unmarshal([]byte(cached), &drafts); err == nil && len(drafts) > 0 {
				return drafts, "ai"
			}
		}
	}

	start := time.Now()
	drafts, err := s.provider.GenerateDrafts(ctx, items, maxResults)
	common.LogAICall("openrouter", time.Since(start), err, common.GenerateUUID())

	if err != nil {
		common.LogWarn("AI 生成失敗，退回本地引擎",
			zap.Error(err),
			zap.String("食材", common.FormatAvailableItems(items)),
		)
		return s.fallback(items, maxResults), "local"
	}

	if len(drafts) == 0 {
		common.LogWarn("AI 未產生任何有效草稿，退回本地引擎",
			zap.String("食材", common.FormatAvailableItems(items)),
		)
		return s.fallback(items, maxResults), "local"
	}

	// 寫入快取（失敗不影響回應）
	if s.config.AI.EnableCache && s.cacheManager != nil {
		if data, err := json.Marshal(drafts); err == nil {
			if err := s.cacheManager.Set(ctx, fingerprint, string(data)); err != nil {
				common.LogWarn("AI 結果寫入快取失敗",
					zap.Error(err),
				)
			}
		}
	}

	return drafts, "ai"
}

// GetModel 獲取當前使用的模型名稱
func (s *Service) GetModel() string {
	if s.provider == nil {
		return "local"
	}
	return s.provider.GetModel()
}

// Close 關閉服務
func (s *Service) Close() error {
	if s.provider != nil {
		return s.provider.Close()
	}
	return nil
}

// fallback 以本地規則引擎產生推薦
func (s *Service) fallback(items []common.AvailableItem, maxResults int) []common.SuggestionDraft {
	return s.engine.Suggest(items, s.config.Engine.MinScore, maxResults)
}

// checkRequestRate 檢查請求頻率
func (s *Service) checkRequestRate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if since := time.Since(s.lastRequest); since < s.config.AI.MinInterval {
		return fmt.Errorf("request too frequent, wait %v", s.config.AI.MinInterval-since)
	}

	s.lastRequest = time.Now()
	return nil
}

// fingerprint 以正規化後排序的食材名稱產生快取指紋
// 同一組食材不論順序或修飾詞差異都命中同一份快取
func (s *Service) fingerprint(items []common.AvailableItem, maxResults int) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, engine.Normalize(item.Name))
	}
	sort.Strings(names)

	hash := sha256.Sum256([]byte(strings.Join(names, "|")))
	return fmt.Sprintf("%s:%d", hex.EncodeToString(hash[:]), maxResults)
}
