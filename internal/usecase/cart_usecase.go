package usecase

import (
	"context"
	"errors"
	"net/http"

	"farmmart/internal/domain/model"
	repo "farmmart/internal/repository"
)

// チェックアウト時にsubtotalへ掛ける固定税率（8%）。
// 商品・地域ごとの設定にはしない業務定数。
const checkoutTaxPercent = 8

type CartUsecase struct {
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
}

func NewCartUsecase(cartItems repo.CartItemRepository, products repo.ProductRepository) *CartUsecase {
	return &CartUsecase{cartItems: cartItems, products: products}
}

type CartItemResponse struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Category     string `json:"category"`
	SellerID     int64  `json:"seller_id"`
	SellerName   string `json:"seller_name"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int64  `json:"quantity"`
}

// 件数と小計は保存せず、明細から毎回計算し直す
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	CartCount int64              `json:"cart_count"`
	Subtotal  int64              `json:"subtotal"`
	Tax       int64              `json:"tax"`
	Total     int64              `json:"total"`
}

type AddToCartInput struct {
	ProductID int64
}

type UpdateQuantityInput struct {
	Delta int64
}

func (u *CartUsecase) GetCart(ctx context.Context, sess Session) (CartResponse, error) {
	if !sess.IsValid() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.buildCartResponse(ctx, sess.UserID)
}

// AddToCart はカートに追加。(user, product) で一意なので
// 既にあれば数量を+1するだけで、2行目は決して作らない。
// 商品情報は追加時点のスナップショットを保存する（後の価格変更は反映しない）。
func (u *CartUsecase) AddToCart(ctx context.Context, sess Session, in AddToCartInput) (CartResponse, error) {
	if !sess.IsValid() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}

	item := model.CartItem{
		UserID:       sess.UserID,
		ProductID:    p.ID,
		Quantity:     1,
		ProductName:  p.Name,
		UnitPrice:    p.Price,
		ProductImage: p.ImageURL,
		Category:     p.Category,
		SellerID:     p.SellerID,
		SellerName:   p.SellerName,
	}

	if err := u.cartItems.UpsertByUserAndProduct(ctx, item); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, sess.UserID)
}

// UpdateQuantity は差分適用。新数量 = max(1, 現数量 + delta)。
// 1未満には決してしない（下限で止めるだけで、削除はしない）。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, sess Session, cartItemID int64, in UpdateQuantityInput) (CartResponse, error) {
	if !sess.IsValid() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.cartItems.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if item.UserID != sess.UserID {
		//他人の明細は「存在しない扱い」にする
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	newQty := item.Quantity + in.Delta
	if newQty < 1 {
		newQty = 1
	}

	if newQty != item.Quantity {
		if err := u.cartItems.UpdateQuantity(ctx, cartItemID, newQty); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
			}
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.buildCartResponse(ctx, sess.UserID)
}

// 削除は数量変更とは別の明示的な操作
func (u *CartUsecase) RemoveItem(ctx context.Context, sess Session, cartItemID int64) (CartResponse, error) {
	if !sess.IsValid() {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.cartItems.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if item.UserID != sess.UserID {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItems.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, sess.UserID)
}

func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64) (CartResponse, error) {
	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var count int64 = 0
	var subtotal int64 = 0

	for _, it := range items {
		respItems = append(respItems, CartItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			Category:     it.Category,
			SellerID:     it.SellerID,
			SellerName:   it.SellerName,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
		})

		count += it.Quantity
		subtotal += it.UnitPrice * it.Quantity
	}

	tax := subtotal * checkoutTaxPercent / 100

	return CartResponse{
		Items:     respItems,
		CartCount: count,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal + tax,
	}, nil
}
