package services

import (
	"context"
	"fmt"

	"github.com/Bagiswari/finance-tracker/internal/core"
	"github.com/Bagiswari/finance-tracker/internal/storage"
)

// CategoryService exposes the category directory: shared defaults plus
// the user's own categories.
type CategoryService struct {
	storage *storage.SQLiteRepository
}

func NewCategoryService(storage *storage.SQLiteRepository) *CategoryService {
	return &CategoryService{storage: storage}
}

// List returns the default categories followed by the user's own.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]core.Category, error) {
	return s.storage.ListCategories(ctx, userID)
}

// Create adds a custom category for the user.
func (s *CategoryService) Create(ctx context.Context, userID int64, name string, typ core.TransactionType, icon string) (core.Category, error) {
	c := core.Category{Name: name, Type: typ, Icon: icon}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	created, err := s.storage.CreateCategory(ctx, userID, name, typ, icon)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}
