package openrouter

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"smartfridge/internal/pkg/common"
)

var (
	digitsPattern  = regexp.MustCompile(`\d+`)
	numberedLine   = regexp.MustCompile(`^\d+\.`)
	numberedPrefix = regexp.MustCompile(`^\d+\.\s*`)
	scriptPattern  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	jsPattern      = regexp.MustCompile(`(?i)javascript:`)
	eventPattern   = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// sanitizeOutput 清理 AI 輸出以防止 XSS
func sanitizeOutput(text string) string {
	// HTML 轉義
	text = html.EscapeString(text)

	// 移除 script 相關模式
	text = scriptPattern.ReplaceAllString(text, "")
	text = jsPattern.ReplaceAllString(text, "")
	text = eventPattern.ReplaceAllString(text, "")

	// 長度上限
	if len(text) > 5000 {
		text = text[:5000] + "..."
	}

	return text
}

// parseDraft 將模型的行式輸出解析為食譜草稿
// 容忍大小寫與雜訊行；沒有標題或食材的回應視為無效
func parseDraft(responseText string) (*common.SuggestionDraft, bool) {
	lines := strings.Split(strings.TrimSpace(responseText), "\n")

	title := ""
	servings := 4
	prepTime := 15
	cookTime := 30
	var ingredients []string
	var instructions []string

	section := ""

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "TITLE:"):
			title = strings.TrimSpace(line[6:])
		case strings.HasPrefix(upper, "SERVINGS:"):
			if n, ok := firstInt(line); ok {
				servings = n
			}
		case strings.HasPrefix(upper, "PREP_TIME:"):
			if n, ok := firstInt(line); ok {
				prepTime = n
			}
		case strings.HasPrefix(upper, "COOK_TIME:"):
			if n, ok := firstInt(line); ok {
				cookTime = n
			}
		case strings.HasPrefix(upper, "INGREDIENTS:"):
			section = "ingredients"
		case strings.HasPrefix(upper, "INSTRUCTIONS:"):
			section = "instructions"
		case section == "ingredients" && (strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•")):
			ingredients = append(ingredients, strings.TrimSpace(strings.TrimLeft(line, "-•")))
		case section == "instructions" && numberedLine.MatchString(line):
			instructions = append(instructions, numberedPrefix.ReplaceAllString(line, ""))
		}
	}

	if title == "" || len(ingredients) == 0 {
		return nil, false
	}

	ingredientLines := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		ingredientLines = append(ingredientLines, "• "+sanitizeOutput(ing))
	}
	instructionLines := make([]string, 0, len(instructions))
	for i, step := range instructions {
		instructionLines = append(instructionLines, fmt.Sprintf("%d. %s", i+1, sanitizeOutput(step)))
	}

	return &common.SuggestionDraft{
		Title:              sanitizeOutput(title),
		IngredientsText:    strings.Join(ingredientLines, "\n"),
		Instructions:       strings.Join(instructionLines, "\n"),
		Servings:           servings,
		PrepTimeMinutes:    prepTime,
		CookTimeMinutes:    cookTime,
		MatchScore:         85.0, // AI 生成的草稿給予固定的良好分數
		MissingIngredients: []string{},
	}, true
}

// firstInt 取出行內第一個整數
func firstInt(line string) (int, bool) {
	match := digitsPattern.FindString(line)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}
