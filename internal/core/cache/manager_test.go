package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"smartfridge/internal/infrastructure/config"
	"smartfridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func testConfig(maxSize int, ttl time.Duration) *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         maxSize,
			TTL:             ttl,
			CleanupInterval: time.Hour,
		},
	}
}

func TestNewManagerDisabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Enabled = false

	m := NewManager(cfg)
	assert.Nil(t, m)
}

func TestManagerSetAndGet(t *testing.T) {
	m := NewManager(testConfig(10, time.Minute))
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "fingerprint-a", "value-a"))

	value, err := m.Get(ctx, "fingerprint-a")
	require.NoError(t, err)
	assert.Equal(t, "value-a", value)
}

func TestManagerGetMiss(t *testing.T) {
	m := NewManager(testConfig(10, time.Minute))
	defer m.Close()

	_, err := m.Get(context.Background(), "never-set")
	assert.Error(t, err)
}

func TestManagerExpiry(t *testing.T) {
	m := NewManager(testConfig(10, 10*time.Millisecond))
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "short-lived", "value"))

	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "short-lived")
	assert.Error(t, err)
}

func TestManagerLRUEviction(t *testing.T) {
	m := NewManager(testConfig(2, time.Minute))
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))

	// 提高 a 的訪問次數，b 成為 LRU 淘汰對象
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.Error(t, err)

	value, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func TestManagerStats(t *testing.T) {
	m := NewManager(testConfig(10, time.Minute))
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "a", "1"))

	_, _ = m.Get(ctx, "a")
	_, _ = m.Get(ctx, "missing")

	stats := m.GetStats()
	assert.Equal(t, 1, stats["size"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestManagerCloseStopsCleanup(t *testing.T) {
	m := NewManager(testConfig(10, time.Minute))

	require.NoError(t, m.Close())

	// 關閉後清理協程的停止通道必須已關閉
	select {
	case <-m.stop:
	default:
		t.Fatal("stop channel 應在 Close 後關閉")
	}

	// 重複關閉不應 panic
	require.NoError(t, m.Close())
}

func TestProductCacheDisabled(t *testing.T) {
	pc, err := NewProductCache(&config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, pc)

	ctx := context.Background()

	// 未啟用時 Set 靜默成功，Get 一律未命中
	assert.NoError(t, pc.Set(ctx, "12345678", []byte("{}")))
	_, err = pc.Get(ctx, "12345678")
	assert.Error(t, err)
	assert.NoError(t, pc.Close())
}
