package common

import (
	"strings"
)

// AvailableItem 呼叫端提供的可用食材，僅存在於單次推薦請求
type AvailableItem struct {
	Name            string `json:"name"`
	DaysUntilExpiry *int   `json:"days_until_expiry,omitempty"` // 負數代表已過期，nil 代表未追蹤效期
}

// SuggestionDraft 引擎輸出的食譜草稿（DTO，不由引擎保存）
type SuggestionDraft struct {
	Title              string   `json:"title"`
	IngredientsText    string   `json:"ingredients_text"`
	Instructions       string   `json:"instructions"`
	SourceURL          string   `json:"source_url,omitempty"`
	Servings           int      `json:"servings"`
	PrepTimeMinutes    int      `json:"prep_time_minutes"`
	CookTimeMinutes    int      `json:"cook_time_minutes"`
	MatchScore         float64  `json:"match_score"`
	MissingIngredients []string `json:"missing_ingredients"`
}

// SuggestRequest 食譜推薦請求
type SuggestRequest struct {
	AvailableItems []AvailableItem `json:"available_items" binding:"required"`
	MinScore       *float64        `json:"min_score,omitempty"`
	MaxResults     *int            `json:"max_results,omitempty"`
}

// SuggestResponse 食譜推薦回應
type SuggestResponse struct {
	Suggestions []SuggestionDraft `json:"suggestions"`
	Source      string            `json:"source,omitempty"` // "ai" 或 "local"
}

// FormatAvailableItems 格式化可用食材清單，提供給 AI prompt 使用（最多取前 20 項）
func FormatAvailableItems(items []AvailableItem) string {
	names := make([]string, 0, len(items))
	for i, item := range items {
		if i >= 20 {
			break
		}
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
