package engine

import (
	"strings"

	"smartfridge/internal/pkg/common"
)

// 要移除的修飾詞（固定詞彙表，不做詞幹還原或拼字修正）
var removeWords = []string{
	"fresh", "frozen", "canned", "diced", "sliced",
	"chopped", "minced", "large", "small", "medium",
}

// Normalize 正規化食材名稱以利比對
// 轉小寫、去除前後空白，並以子字串方式移除固定修飾詞。純函數，對一般
// 食材名稱冪等；單次掃過詞彙表，移除後若拼出新的修飾詞（如 "ffreshresh"
// 去掉 "fresh" 後剩下 "fresh"）不會再處理。
func Normalize(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))

	for _, word := range removeWords {
		name = strings.TrimSpace(strings.ReplaceAll(name, word, ""))
	}

	return name
}

// AvailableSet 建立正規化後的可用食材名稱集合
// 重複名稱會合併；集合只用於存在性檢查，效期資訊保留在原始清單
func AvailableSet(items []common.AvailableItem) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[Normalize(item.Name)] = struct{}{}
	}
	return set
}
