package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"farmmart/internal/domain/model"
	"farmmart/internal/feed"
	repo "farmmart/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	users     repo.UserRepository
	sellers   repo.SellerRepository
	orders    repo.OrderRepository
	auditRepo repo.AuditLogRepository
	hub       *feed.Hub
	clock     Clock
	codes     DeliveryCodeGenerator
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	sellers repo.SellerRepository,
	orders repo.OrderRepository,
	auditRepo repo.AuditLogRepository,
	hub *feed.Hub,
	clock Clock,
	codes DeliveryCodeGenerator,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:        tx,
		users:     users,
		sellers:   sellers,
		orders:    orders,
		auditRepo: auditRepo,
		hub:       hub,
		clock:     clock,
		codes:     codes,
	}
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, sess Session, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	if !sess.IsValid() {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleAdmin {
		return []OrderOutput{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	orders, _, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutputs(orders), nil
}

// UpdateStatus は管理者による上書き。遷移表は出品者と同じ扱い。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, sess Session, orderID int64, in UpdateOrderStatusInput) error {
	if !sess.IsValid() {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "admin only")
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

		before := o.Status

		changed, err := transitionOrder(ctx, r, &o, target, u.clock.Now(), u.codes)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := `{"status":"` + string(before) + `"}`
		afterJSON := `{"status":"` + string(target) + `"}`
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  sess.UserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		event = &feed.Event{
			Type:       feed.EventOrderUpdated,
			OrderID:    o.ID,
			SellerID:   o.SellerID,
			CustomerID: o.CustomerID,
			Status:     string(o.Status),
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

// ListAuditLogs は管理者操作の履歴。
func (u *AdminOrderUsecase) ListAuditLogs(ctx context.Context, sess Session, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if !sess.IsValid() {
		return []model.AuditLog{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleAdmin {
		return []model.AuditLog{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	if f.Limit < 1 || f.Limit > 200 {
		f.Limit = 50
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// ダッシュボードの数字はカウンタを保存せず、毎回コレクションを数え直す
type DashboardOutput struct {
	TotalRevenue  int64 `json:"total_revenue"`
	TotalOrders   int64 `json:"total_orders"`
	TotalUsers    int64 `json:"total_users"`
	ActiveSellers int64 `json:"active_sellers"`
}

func (u *AdminOrderUsecase) Dashboard(ctx context.Context, sess Session) (DashboardOutput, error) {
	if !sess.IsValid() {
		return DashboardOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleAdmin {
		return DashboardOutput{}, NewHTTPError(http.StatusForbidden, "admin only")
	}

	revenue, err := u.orders.SumTotalsAll(ctx)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	orderCount, err := u.orders.Count(ctx)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	userCount, err := u.users.Count(ctx)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	sellerCount, err := u.sellers.CountActive(ctx)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return DashboardOutput{
		TotalRevenue:  revenue,
		TotalOrders:   orderCount,
		TotalUsers:    userCount,
		ActiveSellers: sellerCount,
	}, nil
}
