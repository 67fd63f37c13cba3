package fridge

import (
	"time"
)

// 食材分類
const (
	CategoryDairy      = "dairy"
	CategoryMeat       = "meat"
	CategoryFish       = "fish"
	CategoryVegetables = "vegetables"
	CategoryFruits     = "fruits"
	CategoryBeverages  = "beverages"
	CategoryCondiments = "condiments"
	CategoryLeftovers  = "leftovers"
	CategoryFrozen     = "frozen"
	CategoryOther      = "other"
)

// 到期狀態（前端顯示用）
const (
	StatusFresh   = "fresh"   // 綠色：距到期超過 3 天
	StatusWarning = "warning" // 黃色：3 天內到期
	StatusExpired = "expired" // 紅色：已過期
)

// ValidCategories 合法的食材分類集合
var ValidCategories = map[string]bool{
	CategoryDairy:      true,
	CategoryMeat:       true,
	CategoryFish:       true,
	CategoryVegetables: true,
	CategoryFruits:     true,
	CategoryBeverages:  true,
	CategoryCondiments: true,
	CategoryLeftovers:  true,
	CategoryFrozen:     true,
	CategoryOther:      true,
}

// Item 冰箱內的食材
type Item struct {
	ID         int        `json:"id"`
	OwnerID    string     `json:"owner_id"`
	Name       string     `json:"name"`
	Quantity   string     `json:"quantity,omitempty"`
	Category   string     `json:"category"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DaysUntilExpiry 距到期天數（日曆日差：今天到期為 0，昨天到期為 -1）；
// 未設定到期日時回傳 nil
func (i *Item) DaysUntilExpiry() *int {
	if i.ExpiryDate == nil {
		return nil
	}
	days := int(calendarDate(*i.ExpiryDate).Sub(calendarDate(time.Now())).Hours() / 24)
	return &days
}

// calendarDate 取時間所在的日曆日；統一以 UTC 建構，日差才會是 24 小時的整數倍
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ExpiryStatus 依到期日計算顯示狀態
func (i *Item) ExpiryStatus() string {
	days := i.DaysUntilExpiry()
	if days == nil {
		return StatusFresh
	}
	switch {
	case *days < 0:
		return StatusExpired
	case *days <= 3:
		return StatusWarning
	default:
		return StatusFresh
	}
}

// IsExpired 是否已過期
func (i *Item) IsExpired() bool {
	return i.ExpiryStatus() == StatusExpired
}

// Recipe 使用者儲存的食譜
type Recipe struct {
	ID              int       `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	IngredientsText string    `json:"ingredients_text"`
	Instructions    string    `json:"instructions"`
	SourceURL       string    `json:"source_url,omitempty"`
	Servings        int       `json:"servings"`
	PrepTimeMinutes int       `json:"prep_time_minutes"`
	CookTimeMinutes int       `json:"cook_time_minutes"`
	IsAIGenerated   bool      `json:"is_ai_generated"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Site 使用者收藏的食譜網站
type Site struct {
	ID          int       `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Tags        string    `json:"tags,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
