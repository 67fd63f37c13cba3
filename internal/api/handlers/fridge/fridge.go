package fridge

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	aiService "smartfridge/internal/core/ai/service"
	"smartfridge/internal/core/engine"
	fridgeCore "smartfridge/internal/core/fridge"
	"smartfridge/internal/infrastructure/config"
	"smartfridge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ItemRequest 新增或更新食材的請求
type ItemRequest struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity,omitempty"`
	Category   string `json:"category,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"` // YYYY-MM-DD
	Notes      string `json:"notes,omitempty"`
}

// ItemResponse 食材回應，附上計算出的到期資訊
type ItemResponse struct {
	fridgeCore.Item
	DaysUntilExpiry *int   `json:"days_until_expiry"`
	ExpiryStatus    string `json:"expiry_status"`
}

// SaveSuggestionRequest 將推薦結果存為個人食譜的請求
type SaveSuggestionRequest struct {
	Title           string `json:"title" binding:"required"`
	IngredientsText string `json:"ingredients_text" binding:"required"`
	Instructions    string `json:"instructions" binding:"required"`
	SourceURL       string `json:"source_url,omitempty"`
	Servings        int    `json:"servings,omitempty"`
	PrepTimeMinutes int    `json:"prep_time_minutes,omitempty"`
	CookTimeMinutes int    `json:"cook_time_minutes,omitempty"`
	IsAIGenerated   bool   `json:"is_ai_generated,omitempty"`
}

// Handler 冰箱管理處理程序
type Handler struct {
	config    *config.Config
	store     *fridgeCore.Store
	engine    *engine.Engine
	aiService *aiService.Service
}

// NewHandler 創建新的冰箱管理處理程序
func NewHandler(cfg *config.Config, store *fridgeCore.Store, eng *engine.Engine, ai *aiService.Service) *Handler {
	return &Handler{
		config:    cfg,
		store:     store,
		engine:    eng,
		aiService: ai,
	}
}

// ownerID 從請求頭取得使用者識別；缺少時回 400 並中止
func ownerID(c *gin.Context) (string, bool) {
	owner := strings.TrimSpace(c.GetHeader("X-Owner-ID"))
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing X-Owner-ID header",
			"code":  common.ErrCodeInvalidRequest,
		})
		return "", false
	}
	return owner, true
}

// itemID 解析路徑中的食材 ID
func itemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item id",
			"code":  common.ErrCodeInvalidRequest,
		})
		return 0, false
	}
	return id, true
}

// toResponse 轉換為附帶到期資訊的回應
func toResponse(item fridgeCore.Item) ItemResponse {
	return ItemResponse{
		Item:            item,
		DaysUntilExpiry: item.DaysUntilExpiry(),
		ExpiryStatus:    item.ExpiryStatus(),
	}
}

// parseExpiryDate 解析 YYYY-MM-DD 格式的到期日
func parseExpiryDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	// 當天結束前都不算過期
	t = t.Add(24*time.Hour - time.Second)
	return &t, nil
}

// HandleCreateItem 新增食材
func (h *Handler) HandleCreateItem(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item name is required"})
		return
	}

	expiry, err := parseExpiryDate(req.ExpiryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expiry_date, expected YYYY-MM-DD"})
		return
	}

	item := h.store.CreateItem(fridgeCore.Item{
		OwnerID:    owner,
		Name:       strings.TrimSpace(req.Name),
		Quantity:   req.Quantity,
		Category:   req.Category,
		ExpiryDate: expiry,
		Notes:      req.Notes,
	})

	common.LogInfo("食材已新增",
		zap.String("owner_id", owner),
		zap.Int("item_id", item.ID),
		zap.String("name", item.Name),
	)

	c.JSON(http.StatusCreated, toResponse(item))
}

// HandleListItems 列出食材；include_expired=true 時包含已過期者
func (h *Handler) HandleListItems(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	includeExpired := c.Query("include_expired") == "true"
	items := h.store.ItemsByOwner(owner, includeExpired)

	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toResponse(item))
	}

	c.JSON(http.StatusOK, gin.H{
		"items": responses,
		"total": len(responses),
	})
}

// HandleGetItem 依 ID 取得食材
func (h *Handler) HandleGetItem(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}

	item, err := h.store.ItemByID(owner, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrItemNotFound.Message,
			"code":  common.ErrItemNotFound.Code,
		})
		return
	}

	c.JSON(http.StatusOK, toResponse(item))
}

// HandleUpdateItem 更新食材
func (h *Handler) HandleUpdateItem(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	expiry, err := parseExpiryDate(req.ExpiryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expiry_date, expected YYYY-MM-DD"})
		return
	}

	item, updateErr := h.store.UpdateItem(owner, id, fridgeCore.Item{
		Name:       strings.TrimSpace(req.Name),
		Quantity:   req.Quantity,
		Category:   req.Category,
		ExpiryDate: expiry,
		Notes:      req.Notes,
	})
	if updateErr != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrItemNotFound.Message,
			"code":  common.ErrItemNotFound.Code,
		})
		return
	}

	c.JSON(http.StatusOK, toResponse(item))
}

// HandleDeleteItem 刪除食材
func (h *Handler) HandleDeleteItem(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteItem(owner, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrItemNotFound.Message,
			"code":  common.ErrItemNotFound.Code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// HandleExpiringItems 列出即將到期（含已過期）的食材，預設 3 天內
func (h *Handler) HandleExpiringItems(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	days := 3
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			days = n
		}
	}

	items := h.store.ExpiringSoon(owner, days)

	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toResponse(item))
	}

	c.JSON(http.StatusOK, gin.H{
		"items": responses,
		"total": len(responses),
		"days":  days,
	})
}

// HandleSuggestions 以冰箱內未過期的食材推薦食譜
func (h *Handler) HandleSuggestions(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	maxResults := h.config.Engine.MaxResults
	if v := c.Query("max_results"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxResults = n
		}
	}

	available := h.store.AvailableItems(owner)

	common.LogInfo("以冰箱食材推薦食譜",
		zap.String("owner_id", owner),
		zap.Int("item_count", len(available)),
	)

	suggestions := h.engine.Suggest(available, h.config.Engine.MinScore, maxResults)

	c.JSON(http.StatusOK, common.SuggestResponse{
		Suggestions: suggestions,
		Source:      "local",
	})
}

// HandleGenerate 以冰箱內未過期的食材生成食譜
//
// 走 AI 提供者，失敗時由服務層退回本地引擎。
func (h *Handler) HandleGenerate(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	maxResults := h.config.Engine.MaxResults
	if v := c.Query("max_results"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxResults = n
		}
	}

	available := h.store.AvailableItems(owner)

	common.LogInfo("以冰箱食材生成食譜",
		zap.String("owner_id", owner),
		zap.Int("item_count", len(available)),
		zap.String("model", h.aiService.GetModel()),
	)

	suggestions, source := h.aiService.Generate(c.Request.Context(), available, maxResults)

	c.JSON(http.StatusOK, common.SuggestResponse{
		Suggestions: suggestions,
		Source:      source,
	})
}

// HandleListRecipes 列出使用者儲存的食譜
func (h *Handler) HandleListRecipes(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	recipes := h.store.RecipesByOwner(owner)
	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"total":   len(recipes),
	})
}

// HandleGetRecipe 依 ID 取得儲存的食譜
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}

	recipe, err := h.store.RecipeByID(owner, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrRecipeNotFound.Message,
			"code":  common.ErrRecipeNotFound.Code,
		})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// HandleSaveSuggestion 將推薦或生成結果存為個人食譜
func (h *Handler) HandleSaveSuggestion(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req SaveSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	servings := req.Servings
	if servings <= 0 {
		servings = 4
	}
	prep := req.PrepTimeMinutes
	if prep <= 0 {
		prep = 15
	}
	cook := req.CookTimeMinutes
	if cook <= 0 {
		cook = 30
	}

	recipe := h.store.CreateRecipe(fridgeCore.Recipe{
		OwnerID:         owner,
		Title:           strings.TrimSpace(req.Title),
		IngredientsText: req.IngredientsText,
		Instructions:    req.Instructions,
		SourceURL:       req.SourceURL,
		Servings:        servings,
		PrepTimeMinutes: prep,
		CookTimeMinutes: cook,
		IsAIGenerated:   req.IsAIGenerated,
	})

	common.LogInfo("食譜已儲存",
		zap.String("owner_id", owner),
		zap.Int("recipe_id", recipe.ID),
		zap.Bool("ai_generated", recipe.IsAIGenerated),
	)

	c.JSON(http.StatusCreated, recipe)
}

// HandleDeleteRecipe 刪除儲存的食譜
func (h *Handler) HandleDeleteRecipe(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteRecipe(owner, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrRecipeNotFound.Message,
			"code":  common.ErrRecipeNotFound.Code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
