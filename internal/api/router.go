package api

import (
	"context"
	"net/http"
	"time"

	barcodeHandler "smartfridge/internal/api/handlers/barcode"
	fridgeHandler "smartfridge/internal/api/handlers/fridge"
	"smartfridge/internal/api/handlers/health"
	recipeHandler "smartfridge/internal/api/handlers/recipe"
	sitesHandler "smartfridge/internal/api/handlers/sites"
	"smartfridge/internal/api/middleware"
	aiService "smartfridge/internal/core/ai/service"
	barcodeService "smartfridge/internal/core/barcode"
	"smartfridge/internal/core/cache"
	"smartfridge/internal/core/engine"
	"smartfridge/internal/core/fridge"
	"smartfridge/internal/infrastructure/config"
	"smartfridge/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，純 JSON API 不需要更大
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Owner-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("catalog_path", cfg.Engine.CatalogPath),
	)

	// 載入食譜目錄並初始化推薦引擎
	catalog := engine.LoadCatalog(cfg.Engine.CatalogPath)
	eng := engine.New(catalog)

	// 初始化 AI 生成服務
	ai := aiService.NewService(cfg, eng, cacheManager)

	// 初始化冰箱儲存
	store := fridge.NewStore()

	// 初始化條碼查詢服務（Redis 未啟用時快取為 no-op）
	productCache, err := cache.NewProductCache(&cfg.Redis)
	if err != nil {
		common.LogWarn("Redis 連線失敗，條碼查詢不使用快取",
			zap.Error(err),
		)
		productCache = nil
	}
	barcodeSvc := barcodeService.NewService(cfg, productCache)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 注入設定與核心服務，供健康檢查等處理器使用
		c.Set("config", cfg)
		c.Set("engine", eng)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipes := recipeHandler.NewHandler(cfg, eng, ai)
		fridges := fridgeHandler.NewHandler(cfg, store, eng, ai)
		sites := sitesHandler.NewHandler(store)
		barcodes := barcodeHandler.NewHandler(barcodeSvc)

		// 食譜推薦與生成
		recipeGroup := api.Group("/recipe")
		{
			// 規則引擎推薦
			recipeGroup.POST("/suggest", recipes.HandleSuggest)

			// AI 生成（失敗時退回規則引擎）
			recipeGroup.POST("/generate", recipes.HandleGenerate)

			// 標準食譜目錄
			recipeGroup.GET("/catalog", recipes.HandleCatalogList)
			recipeGroup.GET("/catalog/:id", recipes.HandleCatalogGet)
		}

		// 冰箱管理
		fridgeGroup := api.Group("/fridge")
		{
			fridgeGroup.POST("/items", fridges.HandleCreateItem)
			fridgeGroup.GET("/items", fridges.HandleListItems)
			fridgeGroup.GET("/items/expiring", fridges.HandleExpiringItems)
			fridgeGroup.GET("/items/:id", fridges.HandleGetItem)
			fridgeGroup.PUT("/items/:id", fridges.HandleUpdateItem)
			fridgeGroup.DELETE("/items/:id", fridges.HandleDeleteItem)

			// 以冰箱內容推薦與生成
			fridgeGroup.GET("/suggestions", fridges.HandleSuggestions)
			fridgeGroup.POST("/generate", fridges.HandleGenerate)

			// 個人食譜
			fridgeGroup.GET("/recipes", fridges.HandleListRecipes)
			fridgeGroup.GET("/recipes/:id", fridges.HandleGetRecipe)
			fridgeGroup.POST("/recipes", fridges.HandleSaveSuggestion)
			fridgeGroup.DELETE("/recipes/:id", fridges.HandleDeleteRecipe)
		}

		// 食譜網站收藏
		sitesGroup := api.Group("/sites")
		{
			sitesGroup.POST("", sites.HandleCreate)
			sitesGroup.GET("", sites.HandleList)
			sitesGroup.DELETE("/:id", sites.HandleDelete)
		}

		// 條碼查詢
		api.GET("/barcode/:code", barcodes.HandleLookup)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Int("catalog_recipes", catalog.Len()),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
