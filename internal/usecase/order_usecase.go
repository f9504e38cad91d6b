package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"farmmart/internal/domain/model"
	"farmmart/internal/feed"
	repo "farmmart/internal/repository"
)

// 配達確認コードの有効期限。OUT_FOR_DELIVERY遷移時に発行して
// 使用か期限切れで無効になる（固定の共有コードは使わない）。
const deliveryCodeTTL = 24 * time.Hour

// 注文番号・配達コードの生成の約束
type OrderNumberGenerator interface {
	NewOrderNo() string
}

type DeliveryCodeGenerator interface {
	NewCode() string
}

type OrderUsecase struct {
	tx      repo.TransactionManager
	users   repo.UserRepository
	hub     *feed.Hub
	clock   Clock
	orderNo OrderNumberGenerator
	codes   DeliveryCodeGenerator
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	hub *feed.Hub,
	clock Clock,
	orderNo OrderNumberGenerator,
	codes DeliveryCodeGenerator,
) *OrderUsecase {
	return &OrderUsecase{
		tx:      tx,
		users:   users,
		hub:     hub,
		clock:   clock,
		orderNo: orderNo,
		codes:   codes,
	}
}

type CheckoutInput struct {
	Address       string
	City          string
	Zip           string
	PaymentMethod string
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	OrderNo         string                `json:"order_no"`
	ProductID       int64                 `json:"product_id"`
	ProductName     string                `json:"product_name"`
	ProductImage    string                `json:"product_image"`
	Price           int64                 `json:"price"`
	Quantity        int64                 `json:"quantity"`
	Total           int64                 `json:"total"`
	SellerID        int64                 `json:"seller_id"`
	SellerName      string                `json:"seller_name"`
	CustomerName    string                `json:"customer_name"`
	Status          string                `json:"status"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	ReviewRating    int                   `json:"review_rating,omitempty"`
	ReviewComment   string                `json:"review_comment,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

type CheckoutOutput struct {
	Orders   []OrderOutput `json:"orders"`
	Subtotal int64         `json:"subtotal"`
	Tax      int64         `json:"tax"`
	Total    int64         `json:"total"`
}

// Checkout はカート明細1行につき注文を1件作る（カート全体で1件ではない）。
// 各注文の total は作成時点の price × quantity で確定し、以後再計算しない。
// 支払額はsubtotalに固定8%の税を足したもの。
func (u *OrderUsecase) Checkout(ctx context.Context, sess Session, in CheckoutInput) (CheckoutOutput, error) {
	if !sess.IsValid() {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Address) == "" || strings.TrimSpace(in.City) == "" || strings.TrimSpace(in.Zip) == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "shipping address is required")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "payment_method is required")
	}

	customer, err := u.users.FindByID(ctx, sess.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var out CheckoutOutput
	var events []feed.Event

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, err := r.CartItems().ListByUserID(ctx, sess.UserID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(items) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		now := u.clock.Now()
		out = CheckoutOutput{Orders: make([]OrderOutput, 0, len(items))}
		events = events[:0]

		for _, it := range items {
			order := model.Order{
				OrderNo:       u.orderNo.NewOrderNo(),
				ProductID:     it.ProductID,
				ProductName:   it.ProductName,
				ProductImage:  it.ProductImage,
				Price:         it.UnitPrice,
				Quantity:      it.Quantity,
				Total:         it.UnitPrice * it.Quantity,
				SellerID:      it.SellerID,
				SellerName:    it.SellerName,
				CustomerID:    customer.ID,
				CustomerName:  customer.Name,
				CustomerEmail: customer.Email,
				CustomerPhone: customer.PhoneNumber,
				ShippingAddress: model.ShippingAddress{
					Address: strings.TrimSpace(in.Address),
					City:    strings.TrimSpace(in.City),
					Zip:     strings.TrimSpace(in.Zip),
				},
				PaymentMethod: strings.TrimSpace(in.PaymentMethod),
				Status:        model.OrderStatusPending,
				CreatedAt:     now,
				UpdatedAt:     now,
			}

			orderID, err := r.Orders().Create(ctx, order)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			order.ID = orderID

			out.Orders = append(out.Orders, toOrderOutput(order))
			out.Subtotal += order.Total

			events = append(events, feed.Event{
				Type:       feed.EventOrderCreated,
				OrderID:    orderID,
				SellerID:   order.SellerID,
				CustomerID: order.CustomerID,
				Status:     string(order.Status),
			})
		}

		out.Tax = out.Subtotal * checkoutTaxPercent / 100
		out.Total = out.Subtotal + out.Tax

		//注文に変換し終えたカートは空にする
		if err := r.CartItems().DeleteByUserID(ctx, sess.UserID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
	if err != nil {
		return CheckoutOutput{}, err
	}

	//commit後にまとめて配る
	for _, e := range events {
		u.hub.Publish(e)
	}

	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, sess Session) ([]OrderOutput, error) {
	if !sess.IsValid() {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByCustomerID(ctx, sess.UserID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = toOrderOutputs(orders)
		return nil
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) ListSellerOrders(ctx context.Context, sess Session) ([]OrderOutput, error) {
	if !sess.IsValid() {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleSeller {
		return []OrderOutput{}, NewHTTPError(http.StatusForbidden, "seller only")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListBySellerID(ctx, sess.UserID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = toOrderOutputs(orders)
		return nil
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

type UpdateOrderStatusInput struct {
	Status string
}

// SellerUpdateStatus は出品者による注文の進行。
// 遷移表にある前進とキャンセルだけを受け付ける（自由なジャンプは許さない）。
func (u *OrderUsecase) SellerUpdateStatus(ctx context.Context, sess Session, orderID int64, in UpdateOrderStatusInput) error {
	if !sess.IsValid() {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleSeller {
		return NewHTTPError(http.StatusForbidden, "seller only")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	target, ok := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var event *feed.Event

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//自分の商品の注文だけ
		if o.SellerID != sess.UserID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		changed, err := transitionOrder(ctx, r, &o, target, u.clock.Now(), u.codes)
		if err != nil {
			return err
		}
		if changed {
			event = &feed.Event{
				Type:       feed.EventOrderUpdated,
				OrderID:    o.ID,
				SellerID:   o.SellerID,
				CustomerID: o.CustomerID,
				Status:     string(o.Status),
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if event != nil {
		u.hub.Publish(*event)
	}
	return nil
}

type SubmitReviewInput struct {
	Rating  int
	Comment string
}

// SubmitReview はレビューの作成または編集。
// DELIVERED の注文にだけ書ける。レビューは注文への可変な注記なので編集は何度でも可。
func (u *OrderUsecase) SubmitReview(ctx context.Context, sess Session, orderID int64, in SubmitReviewInput) error {
	if !sess.IsValid() {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return NewHTTPError(http.StatusBadRequest, "rating must be 1-5")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if o.CustomerID != sess.UserID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if o.Status != model.OrderStatusDelivered {
			return NewHTTPError(http.StatusConflict, "review allowed only after delivery")
		}

		now := u.clock.Now()
		o.ReviewRating = in.Rating
		o.ReviewComment = strings.TrimSpace(in.Comment)
		o.ReviewedAt = &now
		o.ReviewerName = o.CustomerName

		if err := r.Orders().Update(ctx, o); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//商品側の評価は保存済みカウンタではなく集計し直して上書き
		avg, count, err := r.Orders().ReviewStatsByProduct(ctx, o.ProductID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Products().UpdateRating(ctx, o.ProductID, avg, count); err != nil {
			if !errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			//商品が消えていてもレビュー自体は残す
		}

		return nil
	})
}

// transitionOrder はステータス遷移の共通処理。
// 終端チェック→遷移表チェック→副作用（コード発行・売上の読み直し）の順。
// 同じステータスへの再設定は何もしないでfalseを返す。
func transitionOrder(
	ctx context.Context,
	r repo.TxRepos,
	o *model.Order,
	to model.OrderStatus,
	now time.Time,
	codes DeliveryCodeGenerator,
) (bool, error) {
	if o.Status == to {
		return false, nil
	}
	if model.IsTerminalOrderStatus(o.Status) {
		return false, NewHTTPError(http.StatusConflict,
			fmt.Sprintf("cannot change %s order", strings.ToLower(string(o.Status))))
	}
	if !model.CanTransitionOrderStatus(o.Status, to) {
		return false, NewHTTPError(http.StatusConflict,
			fmt.Sprintf("cannot move from %s to %s", o.Status, to))
	}

	o.Status = to

	switch to {
	case model.OrderStatusOutForDelivery:
		//配達確認コードを発行（注文ごと・使い切り・期限つき）
		expires := now.Add(deliveryCodeTTL)
		o.DeliveryCode = codes.NewCode()
		o.DeliveryCodeExpiresAt = &expires
	case model.OrderStatusDelivered, model.OrderStatusCancelled:
		o.DeliveryCode = ""
		o.DeliveryCodeExpiresAt = nil
	}

	if err := r.Orders().Update(ctx, *o); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, NewHTTPError(http.StatusNotFound, "not found")
		}
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//終端に入ったらディレクトリのtotalSalesを集計し直す
	if to == model.OrderStatusDelivered || to == model.OrderStatusCancelled {
		sum, err := r.Orders().SumTotalsBySeller(ctx, o.SellerID)
		if err != nil {
			return false, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Sellers().UpdateTotalSales(ctx, o.SellerID, sum); err != nil {
			//停止済みでディレクトリが無い出品者は読み飛ばす
			if !errors.Is(err, repo.ErrNotFound) {
				return false, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
	}

	return true, nil
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		ProductID:       o.ProductID,
		ProductName:     o.ProductName,
		ProductImage:    o.ProductImage,
		Price:           o.Price,
		Quantity:        o.Quantity,
		Total:           o.Total,
		SellerID:        o.SellerID,
		SellerName:      o.SellerName,
		CustomerName:    o.CustomerName,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		ReviewRating:    o.ReviewRating,
		ReviewComment:   o.ReviewComment,
		CreatedAt:       o.CreatedAt,
	}
}

func toOrderOutputs(orders []model.Order) []OrderOutput {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs
}
