package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"smartfridge/internal/pkg/common"
)

const (
	// DefaultMinScore 預設的最低匹配分數門檻
	DefaultMinScore = 50.0
	// DefaultMaxResults 預設的最大推薦數量
	DefaultMaxResults = 5
)

// Engine 規則式食譜推薦引擎
//
// 將可用食材與標準食譜目錄比對，依食材可得性與新鮮度評分。
// 引擎本身無副作用：同樣的 (目錄, 食材) 輸入永遠得到同樣的輸出，
// 目錄載入後只讀，因此併發呼叫不需要加鎖。
type Engine struct {
	catalog *Catalog
}

// New 以已載入的目錄建立推薦引擎
func New(catalog *Catalog) *Engine {
	if catalog == nil {
		catalog = &Catalog{}
	}
	return &Engine{catalog: catalog}
}

// Catalog 回傳引擎使用的目錄
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Suggest 根據可用食材推薦食譜
//
// 對目錄內每道食譜評分，保留分數達 minScore 者，依分數遞減排序
// （同分維持目錄順序），最多回傳 maxResults 筆。
// 無可用食材時直接回傳空清單，不掃描目錄。
func (e *Engine) Suggest(items []common.AvailableItem, minScore float64, maxResults int) []common.SuggestionDraft {
	if len(items) == 0 {
		return []common.SuggestionDraft{}
	}

	available := AvailableSet(items)

	type scoredRecipe struct {
		score   float64
		recipe  CanonicalRecipe
		missing []string
	}

	var scored []scoredRecipe
	for _, recipe := range e.catalog.Recipes() {
		score, missing := ScoreRecipe(recipe, available, items)
		if score >= minScore {
			scored = append(scored, scoredRecipe{score: score, recipe: recipe, missing: missing})
		}
	}

	// 分數遞減排序；穩定排序保證同分時維持目錄順序
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}

	results := make([]common.SuggestionDraft, 0, len(scored))
	for _, s := range scored {
		results = append(results, common.SuggestionDraft{
			Title:              s.recipe.Title,
			IngredientsText:    renderIngredients(s.recipe.Ingredients),
			Instructions:       renderInstructions(s.recipe.Instructions),
			Servings:           s.recipe.Servings,
			PrepTimeMinutes:    s.recipe.PrepTimeMinutes,
			CookTimeMinutes:    s.recipe.CookTimeMinutes,
			MatchScore:         math.Round(s.score*10) / 10,
			MissingIngredients: s.missing,
		})
	}

	return results
}

// renderIngredients 將食材清單渲染為逐行的項目符號文字
func renderIngredients(ingredients []IngredientSpec) string {
	lines := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("• %s %s", ing.Quantity, ing.Name)))
	}
	return strings.Join(lines, "\n")
}

// renderInstructions 將步驟渲染為 1 起始的編號文字
func renderInstructions(instructions []string) string {
	lines := make([]string, 0, len(instructions))
	for i, step := range instructions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, step))
	}
	return strings.Join(lines, "\n")
}
