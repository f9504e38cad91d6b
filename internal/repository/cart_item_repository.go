package repository

import (
	"context"

	"farmmart/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID int64) (model.CartItem, error)
	// (user, product) をキーに同一商品は数量加算
	UpsertByUserAndProduct(ctx context.Context, item model.CartItem) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	DeleteByUserID(ctx context.Context, userID int64) error
}
