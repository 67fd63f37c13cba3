package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"smartfridge/internal/infrastructure/config"
	"smartfridge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestRateLimiterAllowExhaustsTokens(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(1, time.Minute))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestDeduplicationBlocksRepeatedPost(t *testing.T) {
	cfg := &config.Config{DedupWindow: time.Minute}

	router := gin.New()
	router.Use(Deduplication(cfg))
	router.POST("/submit", func(c *gin.Context) { c.Status(http.StatusOK) })

	body := []byte(`{"name":"milk","unique":"dedup-test-1"}`)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestDeduplicationScopedByOwner(t *testing.T) {
	cfg := &config.Config{DedupWindow: time.Minute}

	router := gin.New()
	router.Use(Deduplication(cfg))
	router.POST("/submit", func(c *gin.Context) { c.Status(http.StatusOK) })

	body := []byte(`{"name":"milk","unique":"dedup-test-2"}`)

	first := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body))
	first.Header.Set("X-Owner-ID", "u1")
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, first)
	assert.Equal(t, http.StatusOK, w1.Code)

	// 不同使用者的相同請求體不會被去重
	second := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body))
	second.Header.Set("X-Owner-ID", "u2")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, second)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestDeduplicationIgnoresGet(t *testing.T) {
	cfg := &config.Config{DedupWindow: time.Minute}

	router := gin.New()
	router.Use(Deduplication(cfg))
	router.GET("/list", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/list", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestBodySizeLimitRejectsLargeBody(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(16))
	router.POST("/submit", func(c *gin.Context) { c.Status(http.StatusOK) })

	big := bytes.Repeat([]byte("a"), 64)
	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(big))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBodySizeLimitAllowsSmallBody(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(1024))
	router.POST("/submit", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader([]byte("ok")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggerMiddlewarePassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(Logger())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRecoveryMiddlewareCatchesPanic(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
