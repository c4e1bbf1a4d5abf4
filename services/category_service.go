package services

import (
	"context"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

type CategoryService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewCategoryService(logger *gecho.Logger, db *database.DB) *CategoryService {
	return &CategoryService{
		logger: logger,
		db:     db,
	}
}

func (cs *CategoryService) List(ctx context.Context) ([]tables.Category, error) {
	categories, err := database.Query[tables.Category](cs.db).
		OrderBy("name", database.ASC).
		Retry().
		Timeout(5 * time.Second).
		All(ctx)
	if err != nil {
		cs.logger.Error("Failed to list categories", gecho.Field("error", err.Error()))
		return nil, lib.MapPgError(err)
	}
	return categories, nil
}

func (cs *CategoryService) Get(ctx context.Context, id int) (*tables.Category, error) {
	category, err := database.Query[tables.Category](cs.db).Where("id", id).Retry().First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if category == nil {
		return nil, lib.ErrNotFound
	}
	return category, nil
}

func (cs *CategoryService) Create(ctx context.Context, name string) (*tables.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, lib.BadRequest("name is required")
	}

	category, err := database.Create(cs.db, ctx, &tables.Category{Name: name})
	if err != nil {
		cs.logger.Warn("Failed to create category", gecho.Field("name", name), gecho.Field("error", err.Error()))
		return nil, lib.MapPgError(err)
	}

	cs.logger.Info("Category created", gecho.Field("category_id", category.ID))
	return category, nil
}

func (cs *CategoryService) Rename(ctx context.Context, id int, name string) (*tables.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, lib.BadRequest("name is required")
	}

	updated, err := database.Query[tables.Category](cs.db).Where("id", id).UpdateReturning(ctx, map[string]any{
		"name":       name,
		"updated_at": time.Now(),
	})
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if len(updated) == 0 {
		return nil, lib.ErrNotFound
	}

	cs.logger.Info("Category renamed", gecho.Field("category_id", id))
	return &updated[0], nil
}

// Delete removes the category, products keep existing with category_id set to NULL
func (cs *CategoryService) Delete(ctx context.Context, id int) error {
	n, err := database.DeleteByID[tables.Category](cs.db, ctx, id)
	if err != nil {
		return lib.MapPgError(err)
	}
	if n == 0 {
		return lib.ErrNotFound
	}

	cs.logger.Info("Category deleted", gecho.Field("category_id", id))
	return nil
}
