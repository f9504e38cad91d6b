package repository

import (
	"context"
	"time"

	"farmmart/internal/domain/model"
)

// パスワード再設定トークンの保存・取得・消費
type PasswordResetRepository interface {
	Create(ctx context.Context, reset model.PasswordReset) error
	FindByTokenHash(ctx context.Context, tokenHash string) (model.PasswordReset, error)
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error
}
