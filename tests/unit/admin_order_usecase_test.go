package unit

import (
	"context"
	"testing"
	"time"

	"farmmart/internal/domain/model"
	"farmmart/internal/feed"
	repo "farmmart/internal/repository"
	"farmmart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAdminOrderUsecaseForTest(
	txRepos *TxReposMock,
	userRepo *UserRepoMock,
	sellerRepo *SellerRepoMock,
	orderRepo *OrderRepoMock,
	audit *AuditRepoMock,
) *usecase.AdminOrderUsecase {
	tx := new(TxManagerMock)
	tx.Repos = txRepos
	tx.On("WithinTx", mock.Anything).Return(nil)

	clock := &fixedClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	return usecase.NewAdminOrderUsecase(tx, userRepo, sellerRepo, orderRepo, audit, feed.NewHub(), clock, &stubCodeGen{code: "0000"})
}

// =====================
// List
// =====================

func TestAdminOrderUsecase_List_InvalidPage(t *testing.T) {
	uc := newAdminOrderUsecaseForTest(&TxReposMock{}, new(UserRepoMock), new(SellerRepoMock), new(OrderRepoMock), new(AuditRepoMock))

	outs, err := uc.List(context.Background(), adminSession(), repo.AdminOrderListFilter{Page: 0, Limit: 20})
	assert.Equal(t, 0, len(outs))
	assertErrContains(t, err, "invalid page")
}

func TestAdminOrderUsecase_List_InvalidLimit(t *testing.T) {
	uc := newAdminOrderUsecaseForTest(&TxReposMock{}, new(UserRepoMock), new(SellerRepoMock), new(OrderRepoMock), new(AuditRepoMock))

	outs, err := uc.List(context.Background(), adminSession(), repo.AdminOrderListFilter{Page: 1, Limit: 0})
	assert.Equal(t, 0, len(outs))
	assertErrContains(t, err, "invalid limit")
}

func TestAdminOrderUsecase_List_NonAdmin(t *testing.T) {
	uc := newAdminOrderUsecaseForTest(&TxReposMock{}, new(UserRepoMock), new(SellerRepoMock), new(OrderRepoMock), new(AuditRepoMock))

	_, err := uc.List(context.Background(), sellerSession(7), repo.AdminOrderListFilter{Page: 1, Limit: 20})
	assertErrContains(t, err, "admin only")
}

func TestAdminOrderUsecase_List_Success(t *testing.T) {
	orderRepo := new(OrderRepoMock)

	f := repo.AdminOrderListFilter{Page: 1, Limit: 20}
	orderRepo.On("ListAdmin", mock.Anything, f).Return([]model.Order{
		{ID: 10, Status: model.OrderStatusPending},
		{ID: 11, Status: model.OrderStatusProcessing},
	}, int64(2), nil)

	uc := newAdminOrderUsecaseForTest(&TxReposMock{}, new(UserRepoMock), new(SellerRepoMock), orderRepo, new(AuditRepoMock))

	outs, err := uc.List(context.Background(), adminSession(), f)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(outs))

	orderRepo.AssertExpectations(t)
}

// =====================
// UpdateStatus
// =====================

// Test: 管理者の上書きも遷移表に従い、監査ログを残す
func TestAdminOrderUsecase_UpdateStatus_Cancel_Audits(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	sellerRepo := new(SellerRepoMock)
	audit := new(AuditRepoMock)

	orderRepo.On("FindByID", mock.Anything, int64(50)).Return(model.Order{
		ID: 50, SellerID: 7, Status: model.OrderStatusPending,
	}, nil)

	orderRepo.On("Update", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Status == model.OrderStatusCancelled
	})).Return(nil)

	orderRepo.On("SumTotalsBySeller", mock.Anything, int64(7)).Return(int64(0), nil)
	sellerRepo.On("UpdateTotalSales", mock.Anything, int64(7), int64(0)).Return(nil)

	audit.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.ActorUserID == 900 &&
			a.Action == model.AuditActionUpdateOrderStatus &&
			a.ResourceType == model.AuditResourceOrder &&
			a.ResourceID == 50 &&
			a.BeforeJSON == `{"status":"PENDING"}` &&
			a.AfterJSON == `{"status":"CANCELLED"}`
	})).Return(nil)

	uc := newAdminOrderUsecaseForTest(&TxReposMock{orders: orderRepo, sellers: sellerRepo}, new(UserRepoMock), sellerRepo, orderRepo, audit)

	err := uc.UpdateStatus(context.Background(), adminSession(), 50, usecase.UpdateOrderStatusInput{Status: "CANCELLED"})
	assert.NoError(t, err)

	orderRepo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

// Test: 管理者でも終端ステータスは上書きできない
func TestAdminOrderUsecase_UpdateStatus_TerminalRejected(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	audit := new(AuditRepoMock)

	orderRepo.On("FindByID", mock.Anything, int64(50)).Return(model.Order{
		ID: 50, Status: model.OrderStatusCancelled,
	}, nil)

	uc := newAdminOrderUsecaseForTest(&TxReposMock{orders: orderRepo}, new(UserRepoMock), new(SellerRepoMock), orderRepo, audit)

	err := uc.UpdateStatus(context.Background(), adminSession(), 50, usecase.UpdateOrderStatusInput{Status: "PROCESSING"})
	assertErrContains(t, err, "cannot change cancelled order")

	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	uc := newAdminOrderUsecaseForTest(&TxReposMock{}, new(UserRepoMock), new(SellerRepoMock), new(OrderRepoMock), new(AuditRepoMock))

	err := uc.UpdateStatus(context.Background(), adminSession(), 50, usecase.UpdateOrderStatusInput{Status: "XXX"})
	assertErrContains(t, err, "invalid status")
}

// =====================
// Dashboard
// =====================

// Test: ダッシュボードは保存済みカウンタを使わず毎回集計する
func TestAdminOrderUsecase_Dashboard_RecomputedAggregates(t *testing.T) {
	userRepo := new(UserRepoMock)
	sellerRepo := new(SellerRepoMock)
	orderRepo := new(OrderRepoMock)

	orderRepo.On("SumTotalsAll", mock.Anything).Return(int64(425), nil)
	orderRepo.On("Count", mock.Anything).Return(int64(4), nil)
	userRepo.On("Count", mock.Anything).Return(int64(12), nil)
	sellerRepo.On("CountActive", mock.Anything).Return(int64(3), nil)

	uc := newAdminOrderUsecaseForTest(&TxReposMock{}, userRepo, sellerRepo, orderRepo, new(AuditRepoMock))

	out, err := uc.Dashboard(context.Background(), adminSession())
	assert.NoError(t, err)
	assert.Equal(t, int64(425), out.TotalRevenue)
	assert.Equal(t, int64(4), out.TotalOrders)
	assert.Equal(t, int64(12), out.TotalUsers)
	assert.Equal(t, int64(3), out.ActiveSellers)
}

// =====================
// Audit log list
// =====================

func TestAdminOrderUsecase_ListAuditLogs_DefaultsLimit(t *testing.T) {
	audit := new(AuditRepoMock)

	audit.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.Limit == 50
	})).Return([]model.AuditLog{{ID: 1}}, nil)

	uc := newAdminOrderUsecaseForTest(&TxReposMock{}, new(UserRepoMock), new(SellerRepoMock), new(OrderRepoMock), audit)

	logs, err := uc.ListAuditLogs(context.Background(), adminSession(), repo.AuditLogFilter{})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(logs))

	audit.AssertExpectations(t)
}
