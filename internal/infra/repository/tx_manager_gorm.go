package repository

import (
	"context"

	repo "farmmart/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users     repo.UserRepository
	sellers   repo.SellerRepository
	products  repo.ProductRepository
	cartItems repo.CartItemRepository
	orders    repo.OrderRepository
}

func (r *txReposGorm) Users() repo.UserRepository         { return r.users }
func (r *txReposGorm) Sellers() repo.SellerRepository     { return r.sellers }
func (r *txReposGorm) Products() repo.ProductRepository   { return r.products }
func (r *txReposGorm) CartItems() repo.CartItemRepository { return r.cartItems }
func (r *txReposGorm) Orders() repo.OrderRepository       { return r.orders }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			users:     NewUserGormRepository(tx),
			sellers:   NewSellerGormRepository(tx),
			products:  NewProductGormRepository(tx),
			cartItems: NewCartItemGormRepository(tx),
			orders:    NewOrderGormRepository(tx),
		}
		return fn(r)
	})
}
