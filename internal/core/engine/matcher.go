package engine

import (
	"smartfridge/internal/pkg/common"
	"strings"
)

// matches 雙向子字串比對：x 是 a 的子字串，或 a 是 x 的子字串
// 刻意寬鬆以容忍不完整的名稱（"egg" 可比對 "eggs"、"free-range eggs"）。
// 代價是可能誤判（"pea" 會比對到 "peach"），此為既定行為，測試有明確固定。
func matches(ingredient string, available map[string]struct{}) bool {
	for avail := range available {
		if strings.Contains(avail, ingredient) || strings.Contains(ingredient, avail) {
			return true
		}
	}
	return false
}

// ScoreRecipe 計算食譜的匹配分數
//
// 分數組成：
//   - 基礎分：必要食材匹配比例 * 80（無必要食材時為 100）
//   - 選用分：選用食材匹配比例 * 10
//   - 新鮮度加成：每項匹配的必要食材依效期加 0.5～2.0，總計上限 10
//
// 回傳 0～100 的分數與缺少的必要食材清單（依食譜順序、正規化後的名稱）
func ScoreRecipe(recipe CanonicalRecipe, available map[string]struct{}, items []common.AvailableItem) (float64, []string) {
	var required []string
	var optional []string

	for _, ing := range recipe.Ingredients {
		name := Normalize(ing.Name)
		if ing.Optional {
			optional = append(optional, name)
		} else {
			required = append(required, name)
		}
	}

	// 檢查各食材是否可用
	missing := []string{}
	matchedRequired := 0
	matchedOptional := 0

	for _, ing := range required {
		if matches(ing, available) {
			matchedRequired++
		} else {
			missing = append(missing, ing)
		}
	}

	for _, ing := range optional {
		if matches(ing, available) {
			matchedOptional++
		}
	}

	// 基礎分 (0-100)
	var baseScore float64
	if len(required) == 0 {
		baseScore = 100.0
	} else {
		baseScore = float64(matchedRequired) / float64(len(required)) * 80
	}

	// 選用食材加成（最多 10 分）
	if len(optional) > 0 {
		baseScore += float64(matchedOptional) / float64(len(optional)) * 10
	}

	// 新鮮度加成（最多 10 分）
	// 對每項必要食材取呼叫端清單順序中第一個匹配的項目
	freshnessBonus := 0.0
	for _, ing := range required {
		for _, item := range items {
			availName := Normalize(item.Name)
			if strings.Contains(availName, ing) || strings.Contains(ing, availName) {
				if item.DaysUntilExpiry != nil {
					days := *item.DaysUntilExpiry
					switch {
					case days > 7:
						freshnessBonus += 2.0
					case days > 3:
						freshnessBonus += 1.0
					case days > 0:
						freshnessBonus += 0.5
					}
				}
				break
			}
		}
	}

	if freshnessBonus > 10.0 {
		freshnessBonus = 10.0
	}

	score := baseScore + freshnessBonus
	if score > 100.0 {
		score = 100.0
	}

	return score, missing
}
