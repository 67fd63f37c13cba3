package recipe

import (
	"net/http"
	"strings"

	aiService "smartfridge/internal/core/ai/service"
	"smartfridge/internal/core/engine"
	"smartfridge/internal/infrastructure/config"
	"smartfridge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler 食譜推薦處理程序
type Handler struct {
	config    *config.Config
	engine    *engine.Engine
	aiService *aiService.Service
}

// NewHandler 創建新的食譜推薦處理程序
func NewHandler(cfg *config.Config, eng *engine.Engine, ai *aiService.Service) *Handler {
	return &Handler{
		config:    cfg,
		engine:    eng,
		aiService: ai,
	}
}

// HandleSuggest 以可用食材推薦標準食譜
//
// 純規則引擎路徑：不打外部服務，永遠回 200，沒有任何匹配時
// 回傳空的 suggestions 陣列而非錯誤。
func (h *Handler) HandleSuggest(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req common.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	minScore := h.config.Engine.MinScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}
	maxResults := h.config.Engine.MaxResults
	if req.MaxResults != nil && *req.MaxResults > 0 {
		maxResults = *req.MaxResults
	}

	common.LogInfo("開始處理食譜推薦請求",
		zap.String("request_id", requestID),
		zap.Int("item_count", len(req.AvailableItems)),
		zap.Float64("min_score", minScore),
		zap.Int("max_results", maxResults),
	)

	suggestions := h.engine.Suggest(req.AvailableItems, minScore, maxResults)

	c.JSON(http.StatusOK, common.SuggestResponse{
		Suggestions: suggestions,
		Source:      "local",
	})
}

// HandleGenerate 以可用食材生成食譜
//
// 優先走 AI 提供者，失敗時由服務層退回本地引擎；
// 回應以 source 欄位標示結果來源。
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req common.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	maxResults := h.config.Engine.MaxResults
	if req.MaxResults != nil && *req.MaxResults > 0 {
		maxResults = *req.MaxResults
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.Int("item_count", len(req.AvailableItems)),
		zap.String("model", h.aiService.GetModel()),
	)

	suggestions, source := h.aiService.Generate(c.Request.Context(), req.AvailableItems, maxResults)

	c.JSON(http.StatusOK, common.SuggestResponse{
		Suggestions: suggestions,
		Source:      source,
	})
}

// HandleCatalogList 列出標準食譜目錄，支援 search 參數過濾
func (h *Handler) HandleCatalogList(c *gin.Context) {
	query := strings.TrimSpace(c.Query("search"))

	recipes := h.engine.Catalog().Search(query)

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"total":   len(recipes),
	})
}

// HandleCatalogGet 依 ID 取得單一標準食譜
func (h *Handler) HandleCatalogGet(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe id"})
		return
	}

	recipe, ok := h.engine.Catalog().ByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrRecipeNotFound.Message,
			"code":  common.ErrRecipeNotFound.Code,
		})
		return
	}

	c.JSON(http.StatusOK, recipe)
}
