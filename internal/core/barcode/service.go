package barcode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"smartfridge/internal/core/cache"
	"smartfridge/internal/core/fridge"
	"smartfridge/internal/infrastructure/config"
	"smartfridge/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var nonDigits = regexp.MustCompile(`\D`)

// ProductInfo 條碼查詢結果
type ProductInfo struct {
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category"`
	Quantity string `json:"quantity,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// categoryKeyword 關鍵字與分類的對應
// 以 slice 保持比對順序固定，避免 map 迭代順序造成結果不穩定
type categoryKeyword struct {
	keyword  string
	category string
}

var categoryKeywords = []categoryKeyword{
	// 乳製品
	{"dairy", fridge.CategoryDairy},
	{"milk", fridge.CategoryDairy},
	{"cheese", fridge.CategoryDairy},
	{"yogurt", fridge.CategoryDairy},
	{"butter", fridge.CategoryDairy},
	{"cream", fridge.CategoryDairy},
	{"eggs", fridge.CategoryDairy},

	// 肉類
	{"meat", fridge.CategoryMeat},
	{"beef", fridge.CategoryMeat},
	{"pork", fridge.CategoryMeat},
	{"chicken", fridge.CategoryMeat},
	{"poultry", fridge.CategoryMeat},
	{"lamb", fridge.CategoryMeat},
	{"sausage", fridge.CategoryMeat},
	{"bacon", fridge.CategoryMeat},
	{"ham", fridge.CategoryMeat},

	// 海鮮
	{"fish", fridge.CategoryFish},
	{"seafood", fridge.CategoryFish},
	{"salmon", fridge.CategoryFish},
	{"tuna", fridge.CategoryFish},
	{"shrimp", fridge.CategoryFish},
	{"prawns", fridge.CategoryFish},

	// 蔬菜
	{"vegetable", fridge.CategoryVegetables},
	{"vegetables", fridge.CategoryVegetables},
	{"salad", fridge.CategoryVegetables},
	{"tomato", fridge.CategoryVegetables},
	{"potato", fridge.CategoryVegetables},
	{"carrot", fridge.CategoryVegetables},
	{"onion", fridge.CategoryVegetables},

	// 水果
	{"fruit", fridge.CategoryFruits},
	{"fruits", fridge.CategoryFruits},
	{"apple", fridge.CategoryFruits},
	{"banana", fridge.CategoryFruits},
	{"orange", fridge.CategoryFruits},
	{"berry", fridge.CategoryFruits},
	{"berries", fridge.CategoryFruits},

	// 飲料
	{"beverage", fridge.CategoryBeverages},
	{"beverages", fridge.CategoryBeverages},
	{"drink", fridge.CategoryBeverages},
	{"drinks", fridge.CategoryBeverages},
	{"juice", fridge.CategoryBeverages},
	{"soda", fridge.CategoryBeverages},
	{"water", fridge.CategoryBeverages},
	{"coffee", fridge.CategoryBeverages},
	{"tea", fridge.CategoryBeverages},
	{"beer", fridge.CategoryBeverages},
	{"wine", fridge.CategoryBeverages},

	// 調味料
	{"condiment", fridge.CategoryCondiments},
	{"sauce", fridge.CategoryCondiments},
	{"sauces", fridge.CategoryCondiments},
	{"ketchup", fridge.CategoryCondiments},
	{"mustard", fridge.CategoryCondiments},
	{"mayonnaise", fridge.CategoryCondiments},
	{"dressing", fridge.CategoryCondiments},
	{"spice", fridge.CategoryCondiments},
	{"spices", fridge.CategoryCondiments},
	{"seasoning", fridge.CategoryCondiments},
	{"oil", fridge.CategoryCondiments},
	{"vinegar", fridge.CategoryCondiments},

	// 冷凍食品
	{"frozen", fridge.CategoryFrozen},
	{"ice cream", fridge.CategoryFrozen},
	{"frozen food", fridge.CategoryFrozen},
}

// Service 條碼查詢服務（Open Food Facts，免費且不需 API Key）
type Service struct {
	config *config.Config
	client *resty.Client
	cache  *cache.ProductCache
}

// NewService 創建條碼查詢服務
func NewService(cfg *config.Config, productCache *cache.ProductCache) *Service {
	client := resty.New().
		SetBaseURL(cfg.Barcode.BaseURL).
		SetTimeout(cfg.Barcode.Timeout).
		SetHeader("User-Agent", cfg.Barcode.UserAgent)

	return &Service{
		config: cfg,
		client: client,
		cache:  productCache,
	}
}

// CleanBarcode 清理條碼，移除非數字字符並檢查長度
func CleanBarcode(barcode string) (string, error) {
	cleaned := nonDigits.ReplaceAllString(barcode, "")
	if len(cleaned) < 8 {
		return "", common.ErrInvalidBarcode
	}
	return cleaned, nil
}

// Lookup 依條碼查詢產品資訊
//
// 先查 Redis 快取，未命中時呼叫 Open Food Facts v2 API，
// 成功的查詢結果寫回快取。查無產品時回傳 ErrProductNotFound。
func (s *Service) Lookup(ctx context.Context, barcode string) (*ProductInfo, error) {
	cleaned, err := CleanBarcode(barcode)
	if err != nil {
		return nil, err
	}

	// 查詢快取
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cleaned); err == nil {
			var info ProductInfo
			if err := json.Unmarshal(data, &info); err == nil {
				common.LogCacheHit("product", cleaned)
				return &info, nil
			}
		}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/api/v2/product/%s.json", cleaned))
	if err != nil {
		return nil, fmt.Errorf("barcode lookup request failed: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, common.ErrProductNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("barcode lookup returned status %d", resp.StatusCode())
	}

	var result struct {
		Status  int `json:"status"`
		Product struct {
			ProductNameEn      string   `json:"product_name_en"`
			ProductName        string   `json:"product_name"`
			GenericNameEn      string   `json:"generic_name_en"`
			GenericName        string   `json:"generic_name"`
			Brands             string   `json:"brands"`
			Quantity           string   `json:"quantity"`
			ServingSize        string   `json:"serving_size"`
			CategoriesTags     []string `json:"categories_tags"`
			ImageFrontSmallURL string   `json:"image_front_small_url"`
			ImageURL           string   `json:"image_url"`
		} `json:"product"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse barcode response: %w", err)
	}

	if result.Status != 1 {
		return nil, common.ErrProductNotFound
	}

	product := result.Product

	name := firstNonEmpty(
		product.ProductNameEn,
		product.ProductName,
		product.GenericNameEn,
		product.GenericName,
		"Unknown Product",
	)

	brand := ""
	if product.Brands != "" {
		brand = strings.TrimSpace(strings.Split(product.Brands, ",")[0])
	}

	info := &ProductInfo{
		Barcode:  cleaned,
		Name:     strings.TrimSpace(name),
		Brand:    brand,
		Category: detectCategory(product.CategoriesTags, name),
		Quantity: firstNonEmpty(product.Quantity, product.ServingSize),
		ImageURL: firstNonEmpty(product.ImageFrontSmallURL, product.ImageURL),
	}

	// 寫入快取（失敗不影響回應）
	if s.cache != nil {
		if data, err := json.Marshal(info); err == nil {
			if err := s.cache.Set(ctx, cleaned, data); err != nil {
				common.LogWarn("產品資訊寫入快取失敗",
					zap.String("barcode", cleaned),
					zap.Error(err),
				)
			}
		}
	}

	return info, nil
}

// detectCategory 從分類標籤推斷食材分類，標籤沒有命中時退回以產品名稱比對
func detectCategory(categoriesTags []string, productName string) string {
	for _, tag := range categoriesTags {
		tagLower := strings.ReplaceAll(strings.ReplaceAll(strings.ToLower(tag), "en:", ""), "-", " ")
		for _, ck := range categoryKeywords {
			if strings.Contains(tagLower, ck.keyword) {
				return ck.category
			}
		}
	}

	nameLower := strings.ToLower(productName)
	for _, ck := range categoryKeywords {
		if strings.Contains(nameLower, ck.keyword) {
			return ck.category
		}
	}

	return fridge.CategoryOther
}

// firstNonEmpty 回傳第一個非空字串
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
