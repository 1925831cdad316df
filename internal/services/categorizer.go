package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Bagiswari/finance-tracker/internal/ai"
	"github.com/Bagiswari/finance-tracker/internal/core"
	applog "github.com/Bagiswari/finance-tracker/internal/log"
)

// CategoryDirectory resolves category labels to stored categories.
type CategoryDirectory interface {
	FindCategoryByName(ctx context.Context, name string) (core.Category, error)
}

// Suggestion is the outcome of a one-shot categorization request.
type Suggestion struct {
	Category   string
	CategoryID *int64
	Confidence float64
}

// Resolver decides which category a transaction belongs to. An explicit
// category always wins; otherwise it asks the model and falls back to a
// deterministic default when the model is unavailable or unhelpful.
type Resolver struct {
	ai        ai.Client
	directory CategoryDirectory
	enabled   bool
	log       *applog.Logger
}

func NewResolver(aiClient ai.Client, directory CategoryDirectory, enabled bool) *Resolver {
	return &Resolver{
		ai:        aiClient,
		directory: directory,
		enabled:   enabled,
		log:       applog.ForComponent("categorizer"),
	}
}

// Resolve returns the category id to store for a new transaction and
// whether it was chosen by the model. It never returns an error: any
// model failure degrades to the default category for the type.
func (r *Resolver) Resolve(ctx context.Context, explicitID *int64, description string, amount decimal.Decimal, typ core.TransactionType, autoCategorize bool) (*int64, bool) {
	if explicitID != nil {
		return explicitID, false
	}
	if !autoCategorize || !r.enabled || description == "" {
		return nil, false
	}

	label, err := r.askModel(ctx, description, amount, typ)
	if err != nil {
		r.log.WarnContext(ctx, "AI categorization failed, using default",
			"error", err)
		return r.defaultCategoryID(ctx, typ), false
	}

	category, err := r.directory.FindCategoryByName(ctx, label)
	if err != nil {
		// An unknown label counts as a failed resolution, same as a
		// model error: degrade to the type default.
		if errors.Is(err, core.ErrNotFound) {
			r.log.WarnContext(ctx, "Model returned unknown category, using default", "label", label)
		} else {
			r.log.WarnContext(ctx, "Category lookup failed, using default", "label", label, "error", err)
		}
		return r.defaultCategoryID(ctx, typ), false
	}

	r.log.InfoContext(ctx, "Auto-categorized transaction",
		"category", category.Name, "category_id", category.ID)
	return &category.ID, true
}

// Suggest runs a single categorization and reports the label, the
// matching stored category if any, and a confidence score. Unlike
// Resolve, model failures propagate to the caller.
func (r *Resolver) Suggest(ctx context.Context, description string, amount decimal.Decimal, typ core.TransactionType) (Suggestion, error) {
	label, err := r.askModel(ctx, description, amount, typ)
	if err != nil {
		return Suggestion{}, fmt.Errorf("categorize: %w", err)
	}

	s := Suggestion{Category: label, Confidence: 0.85}
	category, err := r.directory.FindCategoryByName(ctx, label)
	if err == nil {
		s.CategoryID = &category.ID
	} else if !errors.Is(err, core.ErrNotFound) {
		return Suggestion{}, fmt.Errorf("look up category: %w", err)
	}
	return s, nil
}

func (r *Resolver) askModel(ctx context.Context, description string, amount decimal.Decimal, typ core.TransactionType) (string, error) {
	if r.ai == nil {
		return "", errors.New("AI client not configured")
	}

	answer, err := r.ai.Generate(ctx, categorizePrompt(description, amount, typ))
	if err != nil {
		return "", err
	}
	label := strings.TrimSpace(answer)
	if label == "" {
		return "", errors.New("empty category from model")
	}
	return label, nil
}

func (r *Resolver) defaultCategoryID(ctx context.Context, typ core.TransactionType) *int64 {
	name := "Others"
	if typ == core.Income {
		name = "Salary"
	}
	category, err := r.directory.FindCategoryByName(ctx, name)
	if err != nil {
		r.log.WarnContext(ctx, "Default category missing", "name", name, "error", err)
		return nil
	}
	return &category.ID
}

func categorizePrompt(description string, amount decimal.Decimal, typ core.TransactionType) string {
	return fmt.Sprintf(`You are a financial assistant. Categorize this transaction into ONE of these categories:

EXPENSE CATEGORIES:
- Food & Dining
- Transportation
- Shopping
- Entertainment
- Bills & Utilities
- Healthcare
- Education
- Others

INCOME CATEGORIES:
- Salary
- Freelance
- Investments
- Gifts

Transaction Details:
Type: %s
Description: %s
Amount: %s

Respond with ONLY the category name, nothing else. Pick the most appropriate category.`, typ, description, amount)
}
