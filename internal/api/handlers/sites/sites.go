package sites

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	fridgeCore "smartfridge/internal/core/fridge"
	"smartfridge/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SiteRequest 收藏食譜網站的請求
type SiteRequest struct {
	Title       string `json:"title" binding:"required"`
	URL         string `json:"url" binding:"required"`
	Tags        string `json:"tags,omitempty"`
	Description string `json:"description,omitempty"`
}

// Handler 食譜網站收藏處理程序
type Handler struct {
	store *fridgeCore.Store
}

// NewHandler 創建新的網站收藏處理程序
func NewHandler(store *fridgeCore.Store) *Handler {
	return &Handler{store: store}
}

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

// HandleCreate 收藏網站
func (h *Handler) HandleCreate(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req SiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid url, expected http or https"})
		return
	}

	site := h.store.CreateSite(fridgeCore.Site{
		OwnerID:     owner,
		Title:       strings.TrimSpace(req.Title),
		URL:         req.URL,
		Tags:        req.Tags,
		Description: req.Description,
	})

	c.JSON(http.StatusCreated, site)
}

// HandleList 列出收藏的網站
func (h *Handler) HandleList(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	sites := h.store.SitesByOwner(owner)
	c.JSON(http.StatusOK, gin.H{
		"sites": sites,
		"total": len(sites),
	})
}

// HandleDelete 移除收藏的網站
func (h *Handler) HandleDelete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid site id",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	if err := h.store.DeleteSite(owner, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrSiteNotFound.Message,
			"code":  common.ErrSiteNotFound.Code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
