package usecase

import (
	"context"
	"net/http"
	"strings"

	"farmmart/internal/domain/model"
	repo "farmmart/internal/repository"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
}

func NewCategoryUsecase(categories repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories}
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categories.List(ctx)
	if err != nil {
		return []model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, sess Session, name string, imageURL string) (model.Category, error) {
	if !sess.IsValid() {
		return model.Category{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleAdmin {
		return model.Category{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	if strings.TrimSpace(name) == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	c, err := u.categories.Create(ctx, model.Category{
		Name:     strings.TrimSpace(name),
		ImageURL: imageURL,
	})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}
