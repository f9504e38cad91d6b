package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"farmmart/internal/domain/model"
	repo "farmmart/internal/repository"

	"github.com/google/uuid"
)

// 書類アップロード先の約束（ローカルでもオブジェクトストレージでも）
type FileStore interface {
	Upload(ctx context.Context, path string, r io.Reader) (string, error)
}

// SellerUsecase は出品者オンボーディングの本人側の処理。
// 承認・却下・停止は管理者側（AdminSellerUsecase）にある。
type SellerUsecase struct {
	tx      repo.TransactionManager
	users   repo.UserRepository
	sellers repo.SellerRepository
	orders  repo.OrderRepository
	files   FileStore
}

func NewSellerUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	sellers repo.SellerRepository,
	orders repo.OrderRepository,
	files FileStore,
) *SellerUsecase {
	return &SellerUsecase{
		tx:      tx,
		users:   users,
		sellers: sellers,
		orders:  orders,
		files:   files,
	}
}

type SubmitDocumentsInput struct {
	TaxID            string
	IdentityFileName string
	IdentityFile     io.Reader
	LicenseFileName  string
	LicenseFile      io.Reader
}

type SellerStatusOutput struct {
	Status   string `json:"status"`
	Route    string `json:"route"`
	HasDocs  bool   `json:"has_docs"`
	ShopName string `json:"shop_name"`
}

type SellerRevenueOutput struct {
	SellerID int64 `json:"seller_id"`
	Revenue  int64 `json:"revenue"`
}

// SubmitDocuments は書類2点と税IDを受け取り PENDING_VERIFICATION へ進める。
// 却下後の再提出も同じ遷移。ユーザー更新とディレクトリのupsertは同一トランザクション。
func (u *SellerUsecase) SubmitDocuments(ctx context.Context, sess Session, in SubmitDocumentsInput) (SellerStatusOutput, error) {
	if !sess.IsValid() {
		return SellerStatusOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleSeller {
		return SellerStatusOutput{}, NewHTTPError(http.StatusForbidden, "seller only")
	}
	if strings.TrimSpace(in.TaxID) == "" {
		return SellerStatusOutput{}, NewHTTPError(http.StatusBadRequest, "tax_id is required")
	}
	if in.IdentityFile == nil || in.LicenseFile == nil {
		return SellerStatusOutput{}, NewHTTPError(http.StatusBadRequest, "both documents are required")
	}

	user, err := u.users.FindByID(ctx, sess.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return SellerStatusOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return SellerStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//遷移表チェック（PENDING か REJECTED からのみ）
	if !model.CanTransitionUserStatus(user.Status, model.UserStatusPendingVerification) {
		return SellerStatusOutput{}, NewHTTPError(http.StatusConflict, "documents cannot be submitted in current status")
	}

	//書類は先にアップロードしてURLを得る（DB書き込みはその後まとめて）
	identityURL, err := u.uploadDoc(ctx, sess.UserID, "identity", in.IdentityFileName, in.IdentityFile)
	if err != nil {
		return SellerStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "upload error")
	}
	licenseURL, err := u.uploadDoc(ctx, sess.UserID, "license", in.LicenseFileName, in.LicenseFile)
	if err != nil {
		return SellerStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "upload error")
	}

	user.Status = model.UserStatusPendingVerification
	user.TaxID = strings.TrimSpace(in.TaxID)
	user.IdentityDocURL = identityURL
	user.LicenseDocURL = licenseURL

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Users().Update(ctx, user); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//ディレクトリ側も同じステータスでマージ
		seller := model.Seller{
			UserID:      user.ID,
			ShopName:    user.ShopName,
			OwnerName:   user.Name,
			PhoneNumber: user.PhoneNumber,
			TaxID:       user.TaxID,
			Status:      model.SellerStatusPendingVerification,
		}
		if err := r.Sellers().Upsert(ctx, seller); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
	if err != nil {
		return SellerStatusOutput{}, err
	}

	return toSellerStatusOutput(user), nil
}

// Status は出品者が次に見るべき画面を返す。
// 管理者の操作が非同期に入るため、(status, documents) から毎回計算し直す。
func (u *SellerUsecase) Status(ctx context.Context, sess Session) (SellerStatusOutput, error) {
	if !sess.IsValid() {
		return SellerStatusOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleSeller {
		return SellerStatusOutput{}, NewHTTPError(http.StatusForbidden, "seller only")
	}

	user, err := u.users.FindByID(ctx, sess.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return SellerStatusOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return SellerStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toSellerStatusOutput(user), nil
}

// ListDirectory は公開ディレクトリ（ACTIVEのみ）。
func (u *SellerUsecase) ListDirectory(ctx context.Context) ([]model.Seller, error) {
	sellers, err := u.sellers.ListActive(ctx)
	if err != nil {
		return []model.Seller{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return sellers, nil
}

// Revenue はCANCELLEDを除いた売上合計。保存済みカウンタではなく毎回集計する。
func (u *SellerUsecase) Revenue(ctx context.Context, sess Session) (SellerRevenueOutput, error) {
	if !sess.IsValid() {
		return SellerRevenueOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleSeller {
		return SellerRevenueOutput{}, NewHTTPError(http.StatusForbidden, "seller only")
	}

	sum, err := u.orders.SumTotalsBySeller(ctx, sess.UserID)
	if err != nil {
		return SellerRevenueOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return SellerRevenueOutput{SellerID: sess.UserID, Revenue: sum}, nil
}

func (u *SellerUsecase) uploadDoc(ctx context.Context, userID int64, kind string, name string, r io.Reader) (string, error) {
	ext := filepath.Ext(name)
	path := fmt.Sprintf("sellers/%d/%s-%s%s", userID, kind, uuid.NewString(), ext)
	return u.files.Upload(ctx, path, r)
}

func toSellerStatusOutput(u model.User) SellerStatusOutput {
	return SellerStatusOutput{
		Status:   string(u.Status),
		Route:    string(model.RouteForSeller(u)),
		HasDocs:  u.HasAllDocuments(),
		ShopName: u.ShopName,
	}
}
