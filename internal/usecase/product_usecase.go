package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"farmmart/internal/domain/model"
	repo "farmmart/internal/repository"
)

type ProductUsecase struct {
	products repo.ProductRepository
	users    repo.UserRepository
}

func NewProductUsecase(products repo.ProductRepository, users repo.UserRepository) *ProductUsecase {
	return &ProductUsecase{products: products, users: users}
}

type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	SellerID *int64
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid min_price")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid max_price")
	}

	items, total, err := u.products.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        in.Q,
		Category: in.Category,
		SellerID: in.SellerID,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return p, nil
}

type CreateProductInput struct {
	Name        string
	Category    string
	Tag         string
	Description string
	Price       int64
	Stock       int64
	ImageURL    string
}

// CreateProduct は承認済み出品者だけが使える。
// sellerName は非正規化して商品に焼き込む。
func (u *ProductUsecase) CreateProduct(ctx context.Context, sess Session, in CreateProductInput) (model.Product, error) {
	seller, err := u.requireApprovedSeller(ctx, sess)
	if err != nil {
		return model.Product{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid stock")
	}

	p := model.Product{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Tag:         strings.TrimSpace(in.Tag),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		SellerID:    seller.ID,
		SellerName:  seller.ShopName,
		IsActive:    true,
	}

	created, err := u.products.Create(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

type UpdateProductInput struct {
	Name        string
	Category    string
	Tag         string
	Description string
	Price       int64
	Stock       int64
	ImageURL    string
	IsActive    bool
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, sess Session, productID int64, in UpdateProductInput) error {
	if _, err := u.requireApprovedSeller(ctx, sess); err != nil {
		return err
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他の出品者の商品は「存在しない扱い」にする
	if p.SellerID != sess.UserID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Category = strings.TrimSpace(in.Category)
	p.Tag = strings.TrimSpace(in.Tag)
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.ImageURL = in.ImageURL
	p.IsActive = in.IsActive

	if err := u.products.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, sess Session, productID int64) error {
	if _, err := u.requireApprovedSeller(ctx, sess); err != nil {
		return err
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.SellerID != sess.UserID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.products.SoftDelete(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 審査ステータスはトークンのclaimを信用せず毎回DBから読み直す。
// 停止・却下は古いトークンが生きていても即時に効かせる。
func (u *ProductUsecase) requireApprovedSeller(ctx context.Context, sess Session) (model.User, error) {
	if !sess.IsValid() {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleSeller {
		return model.User{}, NewHTTPError(http.StatusForbidden, "seller only")
	}

	user, err := u.users.FindByID(ctx, sess.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user.Status != model.UserStatusApproved {
		return model.User{}, NewHTTPError(http.StatusForbidden, "seller not approved")
	}
	return user, nil
}
