package unit

import (
	"context"
	"testing"

	"farmmart/internal/domain/model"
	repo "farmmart/internal/repository"
	"farmmart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Test: 商品作成は承認済み出品者だけ。承認状態はDBで判定する。
func TestProductUsecase_Create_RequiresApprovedSeller(t *testing.T) {
	productRepo := new(ProductRepoMock)
	userRepo := new(UserRepoMock)

	userRepo.On("FindByID", mock.Anything, int64(5)).Return(model.User{
		ID: 5, Role: model.RoleSeller, Status: model.UserStatusPendingVerification,
	}, nil)

	uc := usecase.NewProductUsecase(productRepo, userRepo)

	in := usecase.CreateProductInput{Name: "Tomatoes", Price: 100, Stock: 5}

	// 審査中の出品者は弾く
	_, err := uc.CreateProduct(context.Background(), sellerSession(5), in)
	assertErrContains(t, err, "seller not approved")

	// 購入者も弾く（DBを見るまでもない）
	_, err = uc.CreateProduct(context.Background(), customerSession(), in)
	assertErrContains(t, err, "seller only")

	productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Test: 停止後は古いトークンがAPPROVEDを名乗っていても商品操作できない
func TestProductUsecase_Create_SuspendedSellerRejectedDespiteStaleToken(t *testing.T) {
	productRepo := new(ProductRepoMock)
	userRepo := new(UserRepoMock)

	// DB上はsuspend済み（PENDINGに戻っている）
	userRepo.On("FindByID", mock.Anything, int64(5)).Return(model.User{
		ID: 5, Role: model.RoleSeller, Status: model.UserStatusPending,
	}, nil)

	uc := usecase.NewProductUsecase(productRepo, userRepo)

	// トークン（セッション）はAPPROVEDのまま
	_, err := uc.CreateProduct(context.Background(), sellerSession(5), usecase.CreateProductInput{
		Name: "Tomatoes", Price: 100, Stock: 5,
	})
	assertErrContains(t, err, "seller not approved")

	err = uc.UpdateProduct(context.Background(), sellerSession(5), 101, usecase.UpdateProductInput{
		Name: "Tomatoes", Price: 100,
	})
	assertErrContains(t, err, "seller not approved")

	productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// Test: 店名を商品に焼き込んで作成する
func TestProductUsecase_Create_DenormalizesSellerName(t *testing.T) {
	productRepo := new(ProductRepoMock)
	userRepo := new(UserRepoMock)

	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{
		ID: 7, Role: model.RoleSeller, Status: model.UserStatusApproved, ShopName: "Green Farm",
	}, nil)

	productRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.SellerID == 7 && p.SellerName == "Green Farm" && p.IsActive
	})).Return(model.Product{ID: 101, Name: "Tomatoes", SellerID: 7}, nil)

	uc := usecase.NewProductUsecase(productRepo, userRepo)

	created, err := uc.CreateProduct(context.Background(), sellerSession(7), usecase.CreateProductInput{
		Name: "Tomatoes", Price: 100, Stock: 5,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)

	productRepo.AssertExpectations(t)
}

// Test: 他の出品者の商品は存在しない扱い
func TestProductUsecase_Update_OtherSellersProduct(t *testing.T) {
	productRepo := new(ProductRepoMock)
	userRepo := new(UserRepoMock)

	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{
		ID: 7, Role: model.RoleSeller, Status: model.UserStatusApproved,
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Product{
		ID: 101, SellerID: 99,
	}, nil)

	uc := usecase.NewProductUsecase(productRepo, userRepo)

	err := uc.UpdateProduct(context.Background(), sellerSession(7), 101, usecase.UpdateProductInput{
		Name: "Tomatoes", Price: 100,
	})
	assertErrContains(t, err, "not found")

	productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// Test: 非公開商品の詳細は404
func TestProductUsecase_Detail_InactiveHidden(t *testing.T) {
	productRepo := new(ProductRepoMock)
	userRepo := new(UserRepoMock)

	productRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Product{
		ID: 101, IsActive: false,
	}, nil)

	uc := usecase.NewProductUsecase(productRepo, userRepo)

	_, err := uc.GetProductDetail(context.Background(), 101)
	assertErrContains(t, err, "not found")
}

// Test: 一覧のページングバリデーション
func TestProductUsecase_List_Validation(t *testing.T) {
	productRepo := new(ProductRepoMock)
	userRepo := new(UserRepoMock)

	uc := usecase.NewProductUsecase(productRepo, userRepo)

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 0, Limit: 20})
	assertErrContains(t, err, "invalid page")

	_, err = uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 1000})
	assertErrContains(t, err, "invalid limit")
}

// Test: 削除はソフトデリート
func TestProductUsecase_Delete_SoftDeletesOwnProduct(t *testing.T) {
	productRepo := new(ProductRepoMock)
	userRepo := new(UserRepoMock)

	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{
		ID: 7, Role: model.RoleSeller, Status: model.UserStatusApproved,
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Product{
		ID: 101, SellerID: 7,
	}, nil)
	productRepo.On("SoftDelete", mock.Anything, int64(101)).Return(nil)

	uc := usecase.NewProductUsecase(productRepo, userRepo)

	err := uc.DeleteProduct(context.Background(), sellerSession(7), 101)
	assert.NoError(t, err)

	productRepo.AssertExpectations(t)
}

// repoのsentinelと404変換
func TestProductUsecase_Detail_NotFound(t *testing.T) {
	productRepo := new(ProductRepoMock)
	userRepo := new(UserRepoMock)

	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{}, repo.ErrNotFound)

	uc := usecase.NewProductUsecase(productRepo, userRepo)

	_, err := uc.GetProductDetail(context.Background(), 1)
	assertErrContains(t, err, "not found")
}
