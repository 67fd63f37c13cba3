package service

import (
	"context"
	"os"
	"testing"
	"time"

	"smartfridge/internal/core/engine"
	"smartfridge/internal/infrastructure/config"
	"smartfridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func localConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			MinScore:   50.0,
			MaxResults: 5,
		},
		AI: config.AIConfig{
			Provider:    "local",
			MinInterval: time.Millisecond,
		},
	}
}

func testEngine() *engine.Engine {
	return engine.New(engine.NewCatalog([]engine.CanonicalRecipe{
		{
			ID:    "cheese-toast",
			Title: "Cheese Toast",
			Ingredients: []engine.IngredientSpec{
				{Name: "bread", Quantity: "2 slices"},
				{Name: "cheese", Quantity: "2 slices"},
			},
			Instructions: []string{"Toast it."},
			Servings:     1,
		},
	}))
}

func TestGenerateLocalProviderUsesEngine(t *testing.T) {
	svc := NewService(localConfig(), testEngine(), nil)

	items := []common.AvailableItem{
		{Name: "bread"},
		{Name: "cheese"},
	}
	drafts, source := svc.Generate(context.Background(), items, 5)

	assert.Equal(t, "local", source)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Cheese Toast", drafts[0].Title)
	assert.Equal(t, 80.0, drafts[0].MatchScore)
}

func TestGenerateEmptyItems(t *testing.T) {
	svc := NewService(localConfig(), testEngine(), nil)

	drafts, source := svc.Generate(context.Background(), nil, 5)

	assert.Equal(t, "local", source)
	assert.NotNil(t, drafts)
	assert.Empty(t, drafts)
}

func TestGenerateOpenRouterWithoutKeyFallsBack(t *testing.T) {
	cfg := localConfig()
	cfg.AI.Provider = "openrouter"
	cfg.OpenRouter.APIKey = ""

	svc := NewService(cfg, testEngine(), nil)

	items := []common.AvailableItem{
		{Name: "bread"},
		{Name: "cheese"},
	}
	drafts, source := svc.Generate(context.Background(), items, 5)

	assert.Equal(t, "local", source)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Cheese Toast", drafts[0].Title)
}

func TestGetModelLocal(t *testing.T) {
	svc := NewService(localConfig(), testEngine(), nil)

	assert.Equal(t, "local", svc.GetModel())
	assert.NoError(t, svc.Close())
}

func TestGenerateZeroMaxResultsUsesDefault(t *testing.T) {
	svc := NewService(localConfig(), testEngine(), nil)

	items := []common.AvailableItem{{Name: "bread"}, {Name: "cheese"}}
	drafts, _ := svc.Generate(context.Background(), items, 0)

	assert.Len(t, drafts, 1)
}

func TestFingerprintOrderInsensitive(t *testing.T) {
	svc := NewService(localConfig(), testEngine(), nil)

	a := svc.fingerprint([]common.AvailableItem{{Name: "bread"}, {Name: "cheese"}}, 5)
	b := svc.fingerprint([]common.AvailableItem{{Name: "cheese"}, {Name: "bread"}}, 5)
	c := svc.fingerprint([]common.AvailableItem{{Name: "Fresh Cheese"}, {Name: "bread"}}, 5)
	d := svc.fingerprint([]common.AvailableItem{{Name: "bread"}, {Name: "cheese"}}, 3)

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.NotEqual(t, a, d)
}
