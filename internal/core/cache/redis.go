package cache

import (
	"context"
	"fmt"

	"smartfridge/internal/infrastructure/config"
	"smartfridge/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ProductCache 條碼產品查詢結果的 Redis 快取
// Redis 未啟用時所有操作皆為 no-op，條碼查詢直接走外部 API
type ProductCache struct {
	client *redis.Client
	config *config.RedisConfig
}

// NewProductCache 創建產品快取
func NewProductCache(cfg *config.RedisConfig) (*ProductCache, error) {
	if !cfg.Enabled {
		return &ProductCache{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("產品快取已連線 Redis",
		zap.String("addr", cfg.Addr),
		zap.Duration("ttl", cfg.TTL),
	)

	return &ProductCache{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取快取的產品資料
func (p *ProductCache) Get(ctx context.Context, barcode string) ([]byte, error) {
	if !p.config.Enabled || p.client == nil {
		return nil, fmt.Errorf("cache is disabled")
	}

	data, err := p.client.Get(ctx, p.generateKey(barcode)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache miss")
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	return data, nil
}

// Set 設置快取的產品資料
func (p *ProductCache) Set(ctx context.Context, barcode string, data []byte) error {
	if !p.config.Enabled || p.client == nil {
		return nil
	}

	if err := p.client.Set(ctx, p.generateKey(barcode), data, p.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Close 關閉 Redis 連線
func (p *ProductCache) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}

// generateKey 生成快取鍵
func (p *ProductCache) generateKey(barcode string) string {
	return fmt.Sprintf("barcode:product:%s", barcode)
}
