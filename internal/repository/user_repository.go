package repository

import (
	"context"

	"farmmart/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (model.User, error)
	//審査遷移の競合を防ぐため行ロックつきで取得（トランザクション内で使う）
	FindByIDForUpdate(ctx context.Context, userID int64) (model.User, error)
	//メールからユーザーを1件取得する。
	FindByEmail(ctx context.Context, email string) (model.User, error)
	//ユーザー情報の更新（審査ステータス・書類URL・プロフィールなど）
	Update(ctx context.Context, user model.User) error
	//パスワードハッシュだけ更新
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	//審査ファネルの状態でSELLERを絞り込む（管理者の審査キュー用）
	ListSellersByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error)
	//全ユーザー数（管理ダッシュボード用）
	Count(ctx context.Context) (int64, error)
}
