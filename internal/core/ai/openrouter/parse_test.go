package openrouter

import (
	"os"
	"strings"
	"testing"

	"smartfridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

const validResponse = `TITLE: Cheese Omelette
SERVINGS: 2
PREP_TIME: 10 minutes
COOK_TIME: 5 minutes
INGREDIENTS:
- 3 eggs
- 50g cheese
INSTRUCTIONS:
1. Whisk the eggs.
2. Cook and fold with cheese.`

func TestParseDraftValidResponse(t *testing.T) {
	draft, ok := parseDraft(validResponse)

	require.True(t, ok)
	assert.Equal(t, "Cheese Omelette", draft.Title)
	assert.Equal(t, 2, draft.Servings)
	assert.Equal(t, 10, draft.PrepTimeMinutes)
	assert.Equal(t, 5, draft.CookTimeMinutes)
	assert.Equal(t, "• 3 eggs\n• 50g cheese", draft.IngredientsText)
	assert.Equal(t, "1. Whisk the eggs.\n2. Cook and fold with cheese.", draft.Instructions)
	assert.Equal(t, 85.0, draft.MatchScore)
	assert.NotNil(t, draft.MissingIngredients)
	assert.Empty(t, draft.MissingIngredients)
}

func TestParseDraftMissingTitle(t *testing.T) {
	response := `INGREDIENTS:
- 3 eggs
INSTRUCTIONS:
1. Cook.`

	_, ok := parseDraft(response)
	assert.False(t, ok)
}

func TestParseDraftMissingIngredients(t *testing.T) {
	response := `TITLE: Mystery Dish
INSTRUCTIONS:
1. Cook.`

	_, ok := parseDraft(response)
	assert.False(t, ok)
}

func TestParseDraftDefaultsWhenFieldsAbsent(t *testing.T) {
	response := `TITLE: Simple Toast
INGREDIENTS:
- bread`

	draft, ok := parseDraft(response)

	require.True(t, ok)
	assert.Equal(t, 4, draft.Servings)
	assert.Equal(t, 15, draft.PrepTimeMinutes)
	assert.Equal(t, 30, draft.CookTimeMinutes)
	assert.Empty(t, draft.Instructions)
}

func TestParseDraftCaseInsensitiveSections(t *testing.T) {
	response := `title: Lowercase Dish
ingredients:
- rice
instructions:
1. Steam the rice.`

	draft, ok := parseDraft(response)

	require.True(t, ok)
	assert.Equal(t, "Lowercase Dish", draft.Title)
	assert.Equal(t, "• rice", draft.IngredientsText)
}

func TestParseDraftIgnoresNoiseLines(t *testing.T) {
	response := `Here is a recipe for you!
TITLE: Fried Rice
INGREDIENTS:
- rice
random commentary in between
- soy sauce
INSTRUCTIONS:
1. Fry the rice.
Enjoy your meal!`

	draft, ok := parseDraft(response)

	require.True(t, ok)
	assert.Equal(t, "• rice\n• soy sauce", draft.IngredientsText)
	assert.Equal(t, "1. Fry the rice.", draft.Instructions)
}

func TestParseDraftBulletVariants(t *testing.T) {
	response := `TITLE: Bullets
INGREDIENTS:
• one
- two`

	draft, ok := parseDraft(response)

	require.True(t, ok)
	assert.Equal(t, "• one\n• two", draft.IngredientsText)
}

func TestSanitizeOutputEscapesHTML(t *testing.T) {
	out := sanitizeOutput(`<b>bold</b> & "quoted"`)

	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;")
	assert.Contains(t, out, "&amp;")
}

func TestSanitizeOutputStripsJavascriptScheme(t *testing.T) {
	out := sanitizeOutput("click javascript:alert(1) here")

	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "alert(1)")
}

func TestSanitizeOutputStripsEventHandlers(t *testing.T) {
	out := sanitizeOutput("a onclick=evil() b ONLOAD = evil2()")

	assert.NotContains(t, out, "onclick=")
	assert.NotContains(t, out, "ONLOAD =")
}

func TestSanitizeOutputCapsLength(t *testing.T) {
	out := sanitizeOutput(strings.Repeat("a", 6000))

	assert.Len(t, out, 5003)
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestFirstInt(t *testing.T) {
	n, ok := firstInt("SERVINGS: about 4 people")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = firstInt("SERVINGS: some")
	assert.False(t, ok)
}
