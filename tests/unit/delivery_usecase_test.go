package unit

import (
	"context"
	"testing"
	"time"

	"farmmart/internal/domain/model"
	"farmmart/internal/feed"
	"farmmart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func deliverySession() usecase.Session {
	return usecase.Session{UserID: 3, Role: model.RoleDelivery}
}

func newDeliveryUsecaseForTest(txRepos *TxReposMock, now time.Time) *usecase.DeliveryUsecase {
	tx := new(TxManagerMock)
	tx.Repos = txRepos
	tx.On("WithinTx", mock.Anything).Return(nil)

	return usecase.NewDeliveryUsecase(tx, feed.NewHub(), &fixedClock{t: now}, &stubCodeGen{code: "0000"})
}

var deliveryNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func outForDeliveryOrder(code string, expiresAt time.Time) model.Order {
	return model.Order{
		ID:                    70,
		SellerID:              7,
		CustomerID:            1,
		Status:                model.OrderStatusOutForDelivery,
		DeliveryCode:          code,
		DeliveryCodeExpiresAt: &expiresAt,
	}
}

// Test: 配達員に見えるのはOUT_FOR_DELIVERYの注文だけ
func TestDeliveryUsecase_List_OnlyOutForDelivery(t *testing.T) {
	orderRepo := new(OrderRepoMock)

	orderRepo.On("ListByStatus", mock.Anything, model.OrderStatusOutForDelivery).Return([]model.Order{
		{ID: 70, Status: model.OrderStatusOutForDelivery},
	}, nil)

	uc := newDeliveryUsecaseForTest(&TxReposMock{orders: orderRepo}, deliveryNow)

	outs, err := uc.ListOutForDelivery(context.Background(), deliverySession())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(outs))

	orderRepo.AssertExpectations(t)
}

// Test: 配達員ロール以外は一覧を見られない
func TestDeliveryUsecase_List_WrongRole(t *testing.T) {
	uc := newDeliveryUsecaseForTest(&TxReposMock{}, deliveryNow)

	_, err := uc.ListOutForDelivery(context.Background(), customerSession())
	assertErrContains(t, err, "delivery only")
}

// Test: 正しいコードでDELIVEREDへ進み、コードは消してtotalSalesを反映する
func TestDeliveryUsecase_Confirm_CorrectCode(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	sellerRepo := new(SellerRepoMock)

	expires := deliveryNow.Add(time.Hour)
	orderRepo.On("FindByID", mock.Anything, int64(70)).Return(outForDeliveryOrder("4321", expires), nil)

	// コードは使い切り。DELIVERED時にクリアされる。
	orderRepo.On("Update", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Status == model.OrderStatusDelivered &&
			o.DeliveryCode == "" &&
			o.DeliveryCodeExpiresAt == nil
	})).Return(nil)

	orderRepo.On("SumTotalsBySeller", mock.Anything, int64(7)).Return(int64(900), nil)
	sellerRepo.On("UpdateTotalSales", mock.Anything, int64(7), int64(900)).Return(nil)

	uc := newDeliveryUsecaseForTest(&TxReposMock{orders: orderRepo, sellers: sellerRepo}, deliveryNow)

	err := uc.ConfirmDelivery(context.Background(), deliverySession(), 70, usecase.ConfirmDeliveryInput{Code: "4321"})
	assert.NoError(t, err)

	orderRepo.AssertExpectations(t)
	sellerRepo.AssertExpectations(t)
}

// Test: 間違ったコードでは配達完了にならない
func TestDeliveryUsecase_Confirm_WrongCode(t *testing.T) {
	orderRepo := new(OrderRepoMock)

	expires := deliveryNow.Add(time.Hour)
	orderRepo.On("FindByID", mock.Anything, int64(70)).Return(outForDeliveryOrder("4321", expires), nil)

	uc := newDeliveryUsecaseForTest(&TxReposMock{orders: orderRepo}, deliveryNow)

	err := uc.ConfirmDelivery(context.Background(), deliverySession(), 70, usecase.ConfirmDeliveryInput{Code: "9999"})
	assertErrContains(t, err, "invalid delivery code")

	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// Test: 期限切れコードは拒否
func TestDeliveryUsecase_Confirm_ExpiredCode(t *testing.T) {
	orderRepo := new(OrderRepoMock)

	expires := deliveryNow.Add(-time.Minute)
	orderRepo.On("FindByID", mock.Anything, int64(70)).Return(outForDeliveryOrder("4321", expires), nil)

	uc := newDeliveryUsecaseForTest(&TxReposMock{orders: orderRepo}, deliveryNow)

	err := uc.ConfirmDelivery(context.Background(), deliverySession(), 70, usecase.ConfirmDeliveryInput{Code: "4321"})
	assertErrContains(t, err, "delivery code expired")
}

// Test: OUT_FOR_DELIVERY以外の注文は確認できない
func TestDeliveryUsecase_Confirm_NotOutForDelivery(t *testing.T) {
	orderRepo := new(OrderRepoMock)

	orderRepo.On("FindByID", mock.Anything, int64(70)).Return(model.Order{
		ID: 70, Status: model.OrderStatusShipped,
	}, nil)

	uc := newDeliveryUsecaseForTest(&TxReposMock{orders: orderRepo}, deliveryNow)

	err := uc.ConfirmDelivery(context.Background(), deliverySession(), 70, usecase.ConfirmDeliveryInput{Code: "4321"})
	assertErrContains(t, err, "not out for delivery")
}
