package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"farmmart/internal/domain/model"
	"farmmart/internal/feed"
	repo "farmmart/internal/repository"
)

// AdminSellerUsecase は審査ファネルの管理者側の遷移。
// approve / reject / suspend はユーザーとディレクトリの2ドキュメント更新なので
// 必ず同一トランザクションで適用する。片方だけの適用は正しさのバグ
// （承認済みなのにディレクトリに居ない出品者は客から見えなくなる）。
type AdminSellerUsecase struct {
	tx        repo.TransactionManager
	users     repo.UserRepository
	sellers   repo.SellerRepository
	auditRepo repo.AuditLogRepository
	hub       *feed.Hub
	clock     Clock
}

func NewAdminSellerUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	sellers repo.SellerRepository,
	auditRepo repo.AuditLogRepository,
	hub *feed.Hub,
	clock Clock,
) *AdminSellerUsecase {
	return &AdminSellerUsecase{tx: tx, users: users, sellers: sellers, auditRepo: auditRepo, hub: hub, clock: clock}
}

// Approve: PENDING_VERIFICATION → APPROVED。
// ディレクトリをACTIVEで上書きし、rating=0 / totalSales=0 から始める。
func (u *AdminSellerUsecase) Approve(ctx context.Context, sess Session, sellerUserID int64) error {
	return u.transition(ctx, sess, sellerUserID, model.UserStatusApproved, model.AuditActionApproveSeller)
}

// Reject: PENDING_VERIFICATION → REJECTED。ディレクトリには書かない。
func (u *AdminSellerUsecase) Reject(ctx context.Context, sess Session, sellerUserID int64) error {
	return u.transition(ctx, sess, sellerUserID, model.UserStatusRejected, model.AuditActionRejectSeller)
}

// Suspend: APPROVED → PENDING。書類をクリアし、ディレクトリは行ごと削除して
// 再審査ファネルに戻す（唯一の再入可能な遷移）。
func (u *AdminSellerUsecase) Suspend(ctx context.Context, sess Session, sellerUserID int64) error {
	return u.transition(ctx, sess, sellerUserID, model.UserStatusPending, model.AuditActionSuspendSeller)
}

func (u *AdminSellerUsecase) transition(
	ctx context.Context,
	sess Session,
	sellerUserID int64,
	target model.UserStatus,
	action model.AuditAction,
) error {
	if !sess.IsValid() {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if sellerUserID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var changed bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByIDForUpdate(ctx, sellerUserID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if user.Role != model.RoleSeller {
			return NewHTTPError(http.StatusBadRequest, "not a seller")
		}

		before := user.Status
		if before == target {
			// 2人の管理者が競争しても2回目は何もしない
			return nil
		}
		if !model.CanTransitionUserStatus(before, target) {
			return NewHTTPError(http.StatusConflict,
				fmt.Sprintf("cannot move from %s to %s", orEmpty(before), target))
		}

		user.Status = target

		switch action {
		case model.AuditActionApproveSeller:
			//ディレクトリをACTIVEで上書き
			if err := r.Sellers().Upsert(ctx, model.Seller{
				UserID:       user.ID,
				ShopName:     user.ShopName,
				OwnerName:    user.Name,
				PhoneNumber:  user.PhoneNumber,
				TaxID:        user.TaxID,
				Status:       model.SellerStatusActive,
				Rating:       0,
				TotalSales:   0,
				VerifiedDocs: true,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

		case model.AuditActionSuspendSeller:
			//書類はクリアして提出からやり直し
			user.TaxID = ""
			user.IdentityDocURL = ""
			user.LicenseDocURL = ""

			if err := r.Sellers().Delete(ctx, user.ID); err != nil {
				//承認済みなら必ず居るはずだが、居なくても停止自体は通す
				if !errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}

		case model.AuditActionRejectSeller:
			//ディレクトリには書かない
		}

		if err := r.Users().Update(ctx, user); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		beforeJSON := `{"status":"` + string(before) + `"}`
		afterJSON := `{"status":"` + string(target) + `"}`
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  sess.UserID,
			Action:       action,
			ResourceType: model.AuditResourceSeller,
			ResourceID:   user.ID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		u.hub.Publish(feed.Event{
			Type:     feed.EventSellerUpdated,
			SellerID: sellerUserID,
			Status:   string(target),
		})
	}
	return nil
}

// ListPending は審査待ち（書類提出済み）の出品者一覧。
// 審査キューはusersのstatusが正。rejectはディレクトリに書かないので、
// ディレクトリ側のstatusで絞ると却下済みが残り続ける。
// 審査に使う書類URL・税IDもusers側にしか無い。
func (u *AdminSellerUsecase) ListPending(ctx context.Context, sess Session) ([]model.User, error) {
	if !sess.IsValid() {
		return []model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sess.Role != model.RoleAdmin {
		return []model.User{}, NewHTTPError(http.StatusForbidden, "admin only")
	}

	pending, err := u.users.ListSellersByStatus(ctx, model.UserStatusPendingVerification)
	if err != nil {
		return []model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return pending, nil
}

func orEmpty(s model.UserStatus) string {
	if s == "" {
		return "(none)"
	}
	return string(s)
}
