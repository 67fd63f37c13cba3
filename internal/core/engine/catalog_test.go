package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCatalogMissingFile(t *testing.T) {
	catalog := LoadCatalog(filepath.Join(t.TempDir(), "does-not-exist.json"))

	require.NotNil(t, catalog)
	assert.Equal(t, 0, catalog.Len())
}

func TestLoadCatalogInvalidJSON(t *testing.T) {
	path := writeTempCatalog(t, "{not valid json")

	catalog := LoadCatalog(path)

	require.NotNil(t, catalog)
	assert.Equal(t, 0, catalog.Len())
}

func TestLoadCatalogAppliesDefaults(t *testing.T) {
	path := writeTempCatalog(t, `{
		"recipes": [
			{
				"id": "minimal",
				"title": "Minimal",
				"ingredients": [{"name": "salt"}],
				"instructions": ["Season."]
			}
		]
	}`)

	catalog := LoadCatalog(path)

	require.Equal(t, 1, catalog.Len())
	recipe := catalog.Recipes()[0]
	assert.Equal(t, 4, recipe.Servings)
	assert.Equal(t, 15, recipe.PrepTimeMinutes)
	assert.Equal(t, 30, recipe.CookTimeMinutes)
}

func TestLoadCatalogKeepsExplicitValues(t *testing.T) {
	path := writeTempCatalog(t, `{
		"recipes": [
			{
				"id": "explicit",
				"title": "Explicit",
				"ingredients": [{"name": "salt"}],
				"instructions": ["Season."],
				"servings": 2,
				"prep_time_minutes": 0,
				"cook_time_minutes": 1
			}
		]
	}`)

	catalog := LoadCatalog(path)

	require.Equal(t, 1, catalog.Len())
	recipe := catalog.Recipes()[0]
	assert.Equal(t, 2, recipe.Servings)
	assert.Equal(t, 0, recipe.PrepTimeMinutes)
	assert.Equal(t, 1, recipe.CookTimeMinutes)
}

func TestCatalogByID(t *testing.T) {
	catalog := testCatalog()

	recipe, ok := catalog.ByID("omelette")
	require.True(t, ok)
	assert.Equal(t, "Omelette", recipe.Title)

	_, ok = catalog.ByID("nonexistent")
	assert.False(t, ok)
}

func TestCatalogSearch(t *testing.T) {
	catalog := NewCatalog([]CanonicalRecipe{
		{ID: "a", Title: "Cheese Toast", Tags: []string{"quick", "snack"}},
		{ID: "b", Title: "Tomato Pasta", Tags: []string{"dinner"}},
		{ID: "c", Title: "Fruit Salad", Tags: []string{"snack"}},
	})

	// 標題比對不分大小寫
	results := catalog.Search("cheese")
	require.Len(t, results, 1)
	assert.Equal(t, "Cheese Toast", results[0].Title)

	// 標籤比對
	results = catalog.Search("snack")
	assert.Len(t, results, 2)

	// 空查詢回傳全部
	results = catalog.Search("")
	assert.Len(t, results, 3)

	// 無結果回傳空清單而非 nil
	results = catalog.Search("zzz")
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestLoadCatalogBundledFile(t *testing.T) {
	// 內附目錄需可解析且每道食譜皆有標題與食材
	catalog := LoadCatalog(filepath.Join("..", "..", "..", "data", "canonical_recipes.json"))

	require.Greater(t, catalog.Len(), 0)
	for _, recipe := range catalog.Recipes() {
		assert.NotEmpty(t, recipe.ID)
		assert.NotEmpty(t, recipe.Title)
		assert.NotEmpty(t, recipe.Ingredients)
		assert.NotEmpty(t, recipe.Instructions)
	}
}
