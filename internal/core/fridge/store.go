package fridge

import (
	"sort"
	"strings"
	"sync"
	"time"

	"smartfridge/internal/pkg/common"
)

// Store 冰箱資料的行程內儲存
//
// 以 RWMutex 保護的 map 實作，所有讀寫皆以 owner 為範圍。
// 回傳的皆為複本，呼叫端修改不影響內部狀態。
type Store struct {
	mu sync.RWMutex

	items   map[int]*Item
	recipes map[int]*Recipe
	sites   map[int]*Site

	nextItemID   int
	nextRecipeID int
	nextSiteID   int
}

// NewStore 創建儲存
func NewStore() *Store {
	return &Store{
		items:        make(map[int]*Item),
		recipes:      make(map[int]*Recipe),
		sites:        make(map[int]*Site),
		nextItemID:   1,
		nextRecipeID: 1,
		nextSiteID:   1,
	}
}

// CreateItem 新增食材
func (s *Store) CreateItem(item Item) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	item.ID = s.nextItemID
	s.nextItemID++
	item.CreatedAt = now
	item.UpdatedAt = now

	if item.Category == "" || !ValidCategories[item.Category] {
		item.Category = CategoryOther
	}

	stored := item
	s.items[item.ID] = &stored
	return item
}

// ItemByID 依 ID 取得食材
func (s *Store) ItemByID(ownerID string, id int) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return Item{}, common.ErrItemNotFound
	}
	return *item, nil
}

// ItemsByOwner 取得某使用者的食材，依到期日遞增排序（無到期日排最後）
func (s *Store) ItemsByOwner(ownerID string, includeExpired bool) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Item
	for _, item := range s.items {
		if item.OwnerID != ownerID {
			continue
		}
		if !includeExpired && item.IsExpired() {
			continue
		}
		result = append(result, *item)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].ExpiryDate, result[j].ExpiryDate
		switch {
		case a == nil && b == nil:
			return result[i].ID < result[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return result[i].ID < result[j].ID
		default:
			return a.Before(*b)
		}
	})

	if result == nil {
		result = []Item{}
	}
	return result
}

// UpdateItem 更新食材；只更新非零值欄位
func (s *Store) UpdateItem(ownerID string, id int, update Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return Item{}, common.ErrItemNotFound
	}

	if update.Name != "" {
		item.Name = update.Name
	}
	if update.Quantity != "" {
		item.Quantity = update.Quantity
	}
	if update.Category != "" && ValidCategories[update.Category] {
		item.Category = update.Category
	}
	if update.ExpiryDate != nil {
		item.ExpiryDate = update.ExpiryDate
	}
	if update.Notes != "" {
		item.Notes = update.Notes
	}
	item.UpdatedAt = time.Now()

	return *item, nil
}

// DeleteItem 刪除食材
func (s *Store) DeleteItem(ownerID string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return common.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}

// ExpiringSoon 取得 days 天內到期（含已過期）的食材，依到期日遞增排序
func (s *Store) ExpiringSoon(ownerID string, days int) []Item {
	items := s.ItemsByOwner(ownerID, true)

	var result []Item
	for _, item := range items {
		d := item.DaysUntilExpiry()
		if d != nil && *d <= days {
			result = append(result, item)
		}
	}

	if result == nil {
		result = []Item{}
	}
	return result
}

// AvailableItems 將未過期的食材轉為推薦引擎的輸入
func (s *Store) AvailableItems(ownerID string) []common.AvailableItem {
	items := s.ItemsByOwner(ownerID, false)

	result := make([]common.AvailableItem, 0, len(items))
	for _, item := range items {
		result = append(result, common.AvailableItem{
			Name:            strings.TrimSpace(item.Name),
			DaysUntilExpiry: item.DaysUntilExpiry(),
		})
	}
	return result
}

// CreateRecipe 儲存食譜
func (s *Store) CreateRecipe(recipe Recipe) Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	recipe.ID = s.nextRecipeID
	s.nextRecipeID++
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	stored := recipe
	s.recipes[recipe.ID] = &stored
	return recipe
}

// RecipeByID 依 ID 取得食譜
func (s *Store) RecipeByID(ownerID string, id int) (Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipe, ok := s.recipes[id]
	if !ok || recipe.OwnerID != ownerID {
		return Recipe{}, common.ErrRecipeNotFound
	}
	return *recipe, nil
}

// RecipesByOwner 取得某使用者儲存的食譜，依建立時間遞減排序
func (s *Store) RecipesByOwner(ownerID string) []Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Recipe
	for _, recipe := range s.recipes {
		if recipe.OwnerID == ownerID {
			result = append(result, *recipe)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if result == nil {
		result = []Recipe{}
	}
	return result
}

// DeleteRecipe 刪除食譜
func (s *Store) DeleteRecipe(ownerID string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipe, ok := s.recipes[id]
	if !ok || recipe.OwnerID != ownerID {
		return common.ErrRecipeNotFound
	}
	delete(s.recipes, id)
	return nil
}

// CreateSite 收藏食譜網站
func (s *Store) CreateSite(site Site) Site {
	s.mu.Lock()
	defer s.mu.Unlock()

	site.ID = s.nextSiteID
	s.nextSiteID++
	site.CreatedAt = time.Now()

	stored := site
	s.sites[site.ID] = &stored
	return site
}

// SitesByOwner 取得某使用者收藏的網站，依建立時間遞減排序
func (s *Store) SitesByOwner(ownerID string) []Site {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Site
	for _, site := range s.sites {
		if site.OwnerID == ownerID {
			result = append(result, *site)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if result == nil {
		result = []Site{}
	}
	return result
}

// DeleteSite 移除收藏的網站
func (s *Store) DeleteSite(ownerID string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	site, ok := s.sites[id]
	if !ok || site.OwnerID != ownerID {
		return common.ErrSiteNotFound
	}
	delete(s.sites, id)
	return nil
}
