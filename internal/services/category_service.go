package services

import (
	"context"
	"fmt"
	"strings"

	"catalog/internal/domain/models"
	"catalog/internal/query"
	"catalog/internal/utils"
)

type CategoryStore interface {
	ListSource[models.Category]
	GetByID(ctx context.Context, id int64) (models.Category, error)
	CountProducts(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, in models.CategoryInput) (int64, error)
	Update(ctx context.Context, id int64, in models.CategoryInput) error
	Delete(ctx context.Context, id int64) error
}

type CategoryService struct {
	Categories CategoryStore
	RequestID  string
}

var categoryFactory = query.NewFactory(query.CategorySchema)

func identity[T any](v T) T { return v }

func (s CategoryService) Page(ctx context.Context, p query.ListingParams) (query.PageResult[models.Category], error) {
	q, err := categoryFactory.Build(p)
	if err != nil {
		return query.PageResult[models.Category]{}, err
	}
	return Lister[models.Category, models.Category]{Source: s.Categories, Map: identity[models.Category]}.Page(ctx, q)
}

func (s CategoryService) Get(ctx context.Context, id int64) (models.Category, error) {
	if err := requirePositiveID("id", id); err != nil {
		return models.Category{}, err
	}
	return s.Categories.GetByID(ctx, id)
}

// CountProducts returns the number of products in an existing category.
func (s CategoryService) CountProducts(ctx context.Context, id int64) (int64, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return 0, err
	}
	return s.Categories.CountProducts(ctx, id)
}

func (s CategoryService) Create(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	in, err := normalizeCategory(in)
	if err != nil {
		return models.Category{}, err
	}
	id, err := s.Categories.Create(ctx, in)
	if err != nil {
		return models.Category{}, err
	}
	utils.LogEvent(s.RequestID, "categories", "create", fmt.Sprintf("category_id=%d", id))
	return s.Categories.GetByID(ctx, id)
}

func (s CategoryService) Update(ctx context.Context, id int64, in models.CategoryInput) (models.Category, error) {
	in, err := normalizeCategory(in)
	if err != nil {
		return models.Category{}, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return models.Category{}, err
	}
	if err := s.Categories.Update(ctx, id, in); err != nil {
		return models.Category{}, err
	}
	utils.LogEvent(s.RequestID, "categories", "update", fmt.Sprintf("category_id=%d", id))
	return s.Categories.GetByID(ctx, id)
}

func (s CategoryService) Delete(ctx context.Context, id int64) error {
	if err := requirePositiveID("id", id); err != nil {
		return err
	}
	if err := s.Categories.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "categories", "delete", fmt.Sprintf("category_id=%d", id))
	return nil
}

func normalizeCategory(in models.CategoryInput) (models.CategoryInput, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := requireLength("name", in.Name, 2, 100); err != nil {
		return in, err
	}
	if err := requireMaxLength("description", in.Description, 500); err != nil {
		return in, err
	}
	return in, nil
}
