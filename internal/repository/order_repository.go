package repository

import (
	"context"
	"time"

	"farmmart/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page     int
	Limit    int
	Status   string
	SellerID *int64
	From     *time.Time
	To       *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	Update(ctx context.Context, order model.Order) error

	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error)
	ListBySellerID(ctx context.Context, sellerID int64) ([]model.Order, error)
	//配達員が見るのは OUT_FOR_DELIVERY の注文だけ
	ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)

	//集計は読み出しモデル。カウンタを持たず毎回合計し直す。
	//CANCELLEDを除いた出品者の売上合計
	SumTotalsBySeller(ctx context.Context, sellerID int64) (int64, error)
	//全注文の売上合計（こちらはCANCELLEDも含める）
	SumTotalsAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	//商品のレビュー平均と件数
	ReviewStatsByProduct(ctx context.Context, productID int64) (float64, int64, error)
}
