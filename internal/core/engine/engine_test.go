package engine

import (
	"testing"

	"smartfridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return NewCatalog([]CanonicalRecipe{
		{
			ID:    "cheese-toast",
			Title: "Cheese Toast",
			Ingredients: []IngredientSpec{
				{Name: "bread", Quantity: "2 slices"},
				{Name: "cheese", Quantity: "2 slices"},
			},
			Instructions:    []string{"Assemble the sandwich.", "Toast until golden."},
			Servings:        1,
			PrepTimeMinutes: 5,
			CookTimeMinutes: 10,
		},
		{
			ID:    "omelette",
			Title: "Omelette",
			Ingredients: []IngredientSpec{
				{Name: "eggs", Quantity: "3"},
				{Name: "butter", Quantity: "1 tbsp", Optional: true},
			},
			Instructions:    []string{"Whisk the eggs.", "Cook in a buttered pan."},
			Servings:        1,
			PrepTimeMinutes: 5,
			CookTimeMinutes: 5,
		},
		{
			ID:    "fruit-salad",
			Title: "Fruit Salad",
			Ingredients: []IngredientSpec{
				{Name: "apple"},
				{Name: "banana"},
				{Name: "orange"},
			},
			Instructions: []string{"Chop and mix the fruit."},
			Servings:     2,
		},
	})
}

func TestSuggestEmptyItemsShortCircuits(t *testing.T) {
	eng := New(testCatalog())

	result := eng.Suggest([]common.AvailableItem{}, DefaultMinScore, DefaultMaxResults)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestSuggestNilItemsShortCircuits(t *testing.T) {
	eng := New(testCatalog())

	result := eng.Suggest(nil, DefaultMinScore, DefaultMaxResults)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestSuggestScenarioBreadAndCheese(t *testing.T) {
	eng := New(testCatalog())

	items := []common.AvailableItem{
		{Name: "bread", DaysUntilExpiry: intPtr(10)},
		{Name: "cheese", DaysUntilExpiry: intPtr(10)},
	}

	result := eng.Suggest(items, DefaultMinScore, DefaultMaxResults)

	require.Len(t, result, 1)
	assert.Equal(t, "Cheese Toast", result[0].Title)
	assert.Equal(t, 84.0, result[0].MatchScore)
	assert.Empty(t, result[0].MissingIngredients)
}

func TestSuggestScenarioBreadOnly(t *testing.T) {
	eng := New(testCatalog())

	items := []common.AvailableItem{{Name: "bread"}}

	// 分數 40 低於預設門檻，需降低 minScore 才會出現
	result := eng.Suggest(items, 0.0, DefaultMaxResults)

	require.NotEmpty(t, result)
	assert.Equal(t, "Cheese Toast", result[0].Title)
	assert.Equal(t, 40.0, result[0].MatchScore)
	assert.Equal(t, []string{"cheese"}, result[0].MissingIngredients)
}

func TestSuggestMinScoreFiltering(t *testing.T) {
	eng := New(testCatalog())

	items := []common.AvailableItem{{Name: "bread"}}

	result := eng.Suggest(items, DefaultMinScore, DefaultMaxResults)

	assert.Empty(t, result)
}

func TestSuggestSortedDescendingAndStable(t *testing.T) {
	catalog := NewCatalog([]CanonicalRecipe{
		{ID: "a", Title: "A", Ingredients: []IngredientSpec{{Name: "rice"}, {Name: "beans"}}},
		{ID: "b", Title: "B", Ingredients: []IngredientSpec{{Name: "rice"}}},
		{ID: "c", Title: "C", Ingredients: []IngredientSpec{{Name: "rice"}}},
	})
	eng := New(catalog)

	items := []common.AvailableItem{{Name: "rice"}}
	result := eng.Suggest(items, 0.0, 10)

	require.Len(t, result, 3)
	// B 與 C 同分 80，A 為 40；同分時維持目錄順序
	assert.Equal(t, "B", result[0].Title)
	assert.Equal(t, "C", result[1].Title)
	assert.Equal(t, "A", result[2].Title)
	assert.Equal(t, result[0].MatchScore, result[1].MatchScore)
	assert.Greater(t, result[0].MatchScore, result[2].MatchScore)
}

func TestSuggestMaxResultsTruncation(t *testing.T) {
	catalog := NewCatalog([]CanonicalRecipe{
		{ID: "a", Title: "A", Ingredients: []IngredientSpec{{Name: "rice"}}},
		{ID: "b", Title: "B", Ingredients: []IngredientSpec{{Name: "rice"}}},
		{ID: "c", Title: "C", Ingredients: []IngredientSpec{{Name: "rice"}}},
	})
	eng := New(catalog)

	items := []common.AvailableItem{{Name: "rice"}}
	result := eng.Suggest(items, 0.0, 2)

	require.Len(t, result, 2)
	assert.Equal(t, "A", result[0].Title)
	assert.Equal(t, "B", result[1].Title)
}

func TestSuggestRendersIngredientsAndInstructions(t *testing.T) {
	eng := New(testCatalog())

	items := []common.AvailableItem{
		{Name: "bread"},
		{Name: "cheese"},
	}

	result := eng.Suggest(items, DefaultMinScore, DefaultMaxResults)

	require.Len(t, result, 1)
	assert.Equal(t, "• 2 slices bread\n• 2 slices cheese", result[0].IngredientsText)
	assert.Equal(t, "1. Assemble the sandwich.\n2. Toast until golden.", result[0].Instructions)
	assert.Equal(t, 1, result[0].Servings)
	assert.Equal(t, 5, result[0].PrepTimeMinutes)
	assert.Equal(t, 10, result[0].CookTimeMinutes)
}

func TestSuggestIngredientWithoutQuantity(t *testing.T) {
	catalog := NewCatalog([]CanonicalRecipe{
		{ID: "plain", Title: "Plain", Ingredients: []IngredientSpec{{Name: "apple"}}},
	})
	eng := New(catalog)

	items := []common.AvailableItem{{Name: "apple"}}
	result := eng.Suggest(items, 0.0, 1)

	require.Len(t, result, 1)
	assert.Equal(t, "• apple", result[0].IngredientsText)
}

func TestSuggestScoreRoundedToOneDecimal(t *testing.T) {
	catalog := NewCatalog([]CanonicalRecipe{
		{ID: "trio", Title: "Trio", Ingredients: []IngredientSpec{
			{Name: "aaa"}, {Name: "bbb"}, {Name: "ccc"},
		}},
	})
	eng := New(catalog)

	// (1/3)*80 = 26.666... → 26.7
	items := []common.AvailableItem{{Name: "aaa"}}
	result := eng.Suggest(items, 0.0, 1)

	require.Len(t, result, 1)
	assert.Equal(t, 26.7, result[0].MatchScore)
}

func TestNewWithNilCatalog(t *testing.T) {
	eng := New(nil)

	result := eng.Suggest([]common.AvailableItem{{Name: "anything"}}, 0.0, 5)
	assert.Empty(t, result)
	assert.Equal(t, 0, eng.Catalog().Len())
}
