package usecase

import "farmmart/internal/domain/model"

// Session はログイン中ユーザーの明示的な状態。
// グローバルに持たず、すべての遷移呼び出しに引数で渡す。
type Session struct {
	UserID int64
	Role   model.Role
	Status model.UserStatus
}

func (s Session) IsValid() bool {
	return s.UserID > 0
}
