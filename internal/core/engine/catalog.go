package engine

import (
	"encoding/json"
	"os"
	"strings"

	"smartfridge/internal/pkg/common"

	"go.uber.org/zap"
)

// IngredientSpec 食譜中的單一食材需求
type IngredientSpec struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"` // 僅供顯示
	Optional bool   `json:"optional,omitempty"`
}

// CanonicalRecipe 食譜目錄中的標準食譜（載入後不可變）
type CanonicalRecipe struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Ingredients     []IngredientSpec `json:"ingredients"`
	Instructions    []string         `json:"instructions"`
	Servings        int              `json:"servings"`
	PrepTimeMinutes int              `json:"prep_time_minutes"`
	CookTimeMinutes int              `json:"cook_time_minutes"`
	Tags            []string         `json:"tags"`
}

// Catalog 標準食譜目錄，啟動時載入一次後只讀
type Catalog struct {
	recipes []CanonicalRecipe
}

// catalogFile 目錄檔案結構
type catalogFile struct {
	Recipes []struct {
		ID              string           `json:"id"`
		Title           string           `json:"title"`
		Ingredients     []IngredientSpec `json:"ingredients"`
		Instructions    []string         `json:"instructions"`
		Servings        *int             `json:"servings"`
		PrepTimeMinutes *int             `json:"prep_time_minutes"`
		CookTimeMinutes *int             `json:"cook_time_minutes"`
		Tags            []string         `json:"tags"`
	} `json:"recipes"`
}

// LoadCatalog 從 JSON 檔案載入食譜目錄
// 載入失敗不視為致命錯誤：記錄警告並回傳空目錄，推薦請求退化為「無匹配」
func LoadCatalog(path string) *Catalog {
	data, err := os.ReadFile(path)
	if err != nil {
		common.LogWarn("食譜目錄載入失敗，使用空目錄",
			zap.String("path", path),
			zap.Error(err),
		)
		return &Catalog{}
	}

	var doc catalogFile
	if err := json.Unmarshal(data, &doc); err != nil {
		common.LogWarn("食譜目錄解析失敗，使用空目錄",
			zap.String("path", path),
			zap.Error(err),
		)
		return &Catalog{}
	}

	recipes := make([]CanonicalRecipe, 0, len(doc.Recipes))
	for _, r := range doc.Recipes {
		recipes = append(recipes, CanonicalRecipe{
			ID:              r.ID,
			Title:           r.Title,
			Ingredients:     r.Ingredients,
			Instructions:    r.Instructions,
			Servings:        intOrDefault(r.Servings, 4),
			PrepTimeMinutes: intOrDefault(r.PrepTimeMinutes, 15),
			CookTimeMinutes: intOrDefault(r.CookTimeMinutes, 30),
			Tags:            r.Tags,
		})
	}

	common.LogInfo("食譜目錄已載入",
		zap.String("path", path),
		zap.Int("recipes", len(recipes)),
	)

	return &Catalog{recipes: recipes}
}

// NewCatalog 以現成的食譜建立目錄（測試與內嵌使用）
func NewCatalog(recipes []CanonicalRecipe) *Catalog {
	return &Catalog{recipes: recipes}
}

// Recipes 回傳目錄內的所有食譜
func (c *Catalog) Recipes() []CanonicalRecipe {
	return c.recipes
}

// Len 回傳目錄大小
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// ByID 以 ID 取得食譜
func (c *Catalog) ByID(id string) (*CanonicalRecipe, bool) {
	for i := range c.recipes {
		if c.recipes[i].ID == id {
			return &c.recipes[i], true
		}
	}
	return nil, false
}

// Search 以標題或標籤搜尋食譜（不分大小寫的子字串比對）
func (c *Catalog) Search(query string) []CanonicalRecipe {
	queryLower := strings.ToLower(query)
	results := make([]CanonicalRecipe, 0, len(c.recipes))

	for _, recipe := range c.recipes {
		if strings.Contains(strings.ToLower(recipe.Title), queryLower) {
			results = append(results, recipe)
			continue
		}
		for _, tag := range recipe.Tags {
			if strings.Contains(strings.ToLower(tag), queryLower) {
				results = append(results, recipe)
				break
			}
		}
	}

	return results
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
