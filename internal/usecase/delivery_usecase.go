package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"farmmart/internal/domain/model"
	"farmmart/internal/feed"
	repo "farmmart/internal/repository"
)

// DeliveryUsecase は配達員向けの処理。
// 配達員に見えるのは OUT_FOR_DELIVERY の注文だけで、
// 正しい確認コードを出した場合に限り DELIVERED へ進められる。
type DeliveryUsecase struct {
	tx    repo.TransactionManager
	hub   *feed.Hub
	clock Clock
	codes DeliveryCodeGenerator
}

func NewDeliveryUsecase(
	tx repo.TransactionManager,
	hub *feed.Hub,
	clock Clock,
	codes DeliveryCodeGenerator,
) *DeliveryUsecase {
	return &DeliveryUsecase{tx: tx, hub: hub, clock: clock, codes: codes}
}

func (u *DeliveryUsecase) ListOutForDelivery(ctx context.Context, sess Session) ([]OrderOutput, error) {
	if !sess.IsValid() {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleDelivery {
		return []OrderOutput{}, NewHTTPError(http.StatusForbidden, "delivery only")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByStatus(ctx, model.OrderStatusOutForDelivery)
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

type ConfirmDeliveryInput struct {
	Code string
}

// ConfirmDelivery は確認コード照合つきの配達完了。
// コードは一度使うと無効になり、期限切れも拒否する。
func (u *DeliveryUsecase) ConfirmDelivery(ctx context.Context, sess Session, orderID int64, in ConfirmDeliveryInput) error {
	if !sess.IsValid() {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleDelivery {
		return NewHTTPError(http.StatusForbidden, "delivery only")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	code := strings.TrimSpace(in.Code)
	if code == "" {
		return NewHTTPError(http.StatusBadRequest, "code is required")
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

		if o.Status != model.OrderStatusOutForDelivery {
			return NewHTTPError(http.StatusConflict, "order is not out for delivery")
		}
		if o.DeliveryCode == "" || o.DeliveryCodeExpiresAt == nil {
			return NewHTTPError(http.StatusConflict, "no delivery code issued")
		}
		if u.clock.Now().After(*o.DeliveryCodeExpiresAt) {
			return NewHTTPError(http.StatusConflict, "delivery code expired")
		}
		if subtle.ConstantTimeCompare([]byte(o.DeliveryCode), []byte(code)) != 1 {
			return NewHTTPError(http.StatusForbidden, "invalid delivery code")
		}

		changed, err := transitionOrder(ctx, r, &o, model.OrderStatusDelivered, u.clock.Now(), u.codes)
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
