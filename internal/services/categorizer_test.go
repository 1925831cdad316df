package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Bagiswari/finance-tracker/internal/core"
)

// fakeDirectory is an in-memory category lookup keyed by lowercase
// name.
type fakeDirectory map[string]core.Category

func (d fakeDirectory) FindCategoryByName(_ context.Context, name string) (core.Category, error) {
	c, ok := d[strings.ToLower(name)]
	if !ok {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func seededDirectory() fakeDirectory {
	return fakeDirectory{
		"food & dining": {ID: 1, Name: "Food & Dining", Type: core.Expense},
		"others":        {ID: 8, Name: "Others", Type: core.Expense},
		"salary":        {ID: 9, Name: "Salary", Type: core.Income},
	}
}

func TestResolveExplicitCategoryWins(t *testing.T) {
	model := &fakeAI{err: errors.New("should not be called")}
	r := NewResolver(model, seededDirectory(), true)

	explicit := int64(42)
	id, aiCategorized := r.Resolve(context.Background(), &explicit, "coffee", decimal.NewFromInt(4), core.Expense, true)

	require.NotNil(t, id)
	require.Equal(t, int64(42), *id)
	require.False(t, aiCategorized)
	require.Empty(t, model.prompts)
}

func TestResolveUsesModel(t *testing.T) {
	model := &fakeAI{reply: "Food & Dining"}
	r := NewResolver(model, seededDirectory(), true)

	id, aiCategorized := r.Resolve(context.Background(), nil, "pizza night", decimal.NewFromInt(25), core.Expense, true)

	require.NotNil(t, id)
	require.Equal(t, int64(1), *id)
	require.True(t, aiCategorized)
	require.Len(t, model.prompts, 1)
	require.Contains(t, model.prompts[0], "pizza night")
	require.Contains(t, model.prompts[0], "- Food & Dining")
}

func TestResolveFallsBackOnModelFailure(t *testing.T) {
	model := &fakeAI{err: errors.New("quota exceeded")}
	r := NewResolver(model, seededDirectory(), true)

	id, aiCategorized := r.Resolve(context.Background(), nil, "mystery", decimal.NewFromInt(10), core.Expense, true)
	require.NotNil(t, id)
	require.Equal(t, int64(8), *id) // Others
	require.False(t, aiCategorized)

	id, aiCategorized = r.Resolve(context.Background(), nil, "deposit", decimal.NewFromInt(10), core.Income, true)
	require.NotNil(t, id)
	require.Equal(t, int64(9), *id) // Salary
	require.False(t, aiCategorized)
}

func TestResolveUnknownLabelFallsBackToDefault(t *testing.T) {
	model := &fakeAI{reply: "Space Travel"}
	r := NewResolver(model, seededDirectory(), true)

	id, aiCategorized := r.Resolve(context.Background(), nil, "rocket fuel", decimal.NewFromInt(10), core.Expense, true)
	require.NotNil(t, id)
	require.Equal(t, int64(8), *id) // Others
	require.False(t, aiCategorized)

	model = &fakeAI{reply: "Lottery Winnings"}
	r = NewResolver(model, seededDirectory(), true)
	id, aiCategorized = r.Resolve(context.Background(), nil, "jackpot", decimal.NewFromInt(10), core.Income, true)
	require.NotNil(t, id)
	require.Equal(t, int64(9), *id) // Salary
	require.False(t, aiCategorized)
}

func TestResolveSkipsModelWhenDisabled(t *testing.T) {
	model := &fakeAI{reply: "Food & Dining"}

	r := NewResolver(model, seededDirectory(), false)
	id, _ := r.Resolve(context.Background(), nil, "lunch", decimal.NewFromInt(10), core.Expense, true)
	require.Nil(t, id)

	r = NewResolver(model, seededDirectory(), true)
	id, _ = r.Resolve(context.Background(), nil, "lunch", decimal.NewFromInt(10), core.Expense, false)
	require.Nil(t, id)

	// No description means nothing to categorize on.
	id, _ = r.Resolve(context.Background(), nil, "", decimal.NewFromInt(10), core.Expense, true)
	require.Nil(t, id)

	require.Empty(t, model.prompts)
}

func TestSuggest(t *testing.T) {
	model := &fakeAI{reply: "food & dining\n"}
	r := NewResolver(model, seededDirectory(), true)

	s, err := r.Suggest(context.Background(), "sushi", decimal.NewFromInt(30), core.Expense)
	require.NoError(t, err)
	require.Equal(t, "food & dining", s.Category)
	require.NotNil(t, s.CategoryID)
	require.Equal(t, int64(1), *s.CategoryID)
	require.Equal(t, 0.85, s.Confidence)
}

func TestSuggestUnknownLabelHasNoID(t *testing.T) {
	model := &fakeAI{reply: "Subscriptions"}
	r := NewResolver(model, seededDirectory(), true)

	s, err := r.Suggest(context.Background(), "netflix", decimal.NewFromInt(15), core.Expense)
	require.NoError(t, err)
	require.Equal(t, "Subscriptions", s.Category)
	require.Nil(t, s.CategoryID)
}

func TestSuggestPropagatesModelFailure(t *testing.T) {
	model := &fakeAI{err: errors.New("unavailable")}
	r := NewResolver(model, seededDirectory(), true)

	_, err := r.Suggest(context.Background(), "sushi", decimal.NewFromInt(30), core.Expense)
	require.Error(t, err)
}
