package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"farmmart/internal/domain/model"
	repo "farmmart/internal/repository"

	"github.com/google/uuid"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

// パスワード再設定トークンの有効期限
const passwordResetTTL = 30 * time.Minute

// 平文パスワードのハッシュ化と照合の約束
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash string, plain string) bool
}

// JWT発行の約束
type TokenIssuer interface {
	Issue(userID int64, role model.Role, status model.UserStatus, now time.Time) (string, time.Time, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 再設定メールの送信窓口。実装はSMTPでもログ出力でもよい。
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email string, token string) error
}

type UserDTO struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	ShopName string `json:"shop_name,omitempty"`
}

type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Role        string
	ShopName    string
	PhoneNumber string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User        UserDTO   `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthUsecase struct {
	tx     repo.TransactionManager
	users  repo.UserRepository
	resets repo.PasswordResetRepository
	hasher PasswordHasher
	issuer TokenIssuer
	clock  Clock
	mailer ResetMailer
}

func NewAuthUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	resets repo.PasswordResetRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	clock Clock,
	mailer ResetMailer,
) *AuthUsecase {
	return &AuthUsecase{
		tx:     tx,
		users:  users,
		resets: resets,
		hasher: hasher,
		issuer: issuer,
		clock:  clock,
		mailer: mailer,
	}
}

// Register は会員登録。role=SELLER のときはユーザー作成と
// ディレクトリのスタブ作成を同一トランザクションで行う。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}
	if len(in.Password) < 8 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}
	if strings.TrimSpace(in.Name) == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	role := model.Role(strings.ToUpper(strings.TrimSpace(in.Role)))
	switch role {
	case "":
		role = model.RoleCustomer
	case model.RoleCustomer, model.RoleSeller, model.RoleDelivery:
		// OK（ADMINは登録APIからは作らせない）
	default:
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	if role == model.RoleSeller && strings.TrimSpace(in.ShopName) == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "shop_name is required")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	status := model.UserStatusNone
	if role == model.RoleSeller {
		// 出品者は審査ファネルの入口から
		status = model.UserStatusPending
	}

	user := model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		Status:       status,
		ShopName:     strings.TrimSpace(in.ShopName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		IsActive:     true,
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Users().FindByEmail(ctx, email); err == nil {
			return NewHTTPError(http.StatusConflict, "email already exists")
		} else if !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Users().Create(ctx, &user); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if role == model.RoleSeller {
			//ディレクトリのスタブ（status=PENDING）も同時に作る
			stub := model.Seller{
				UserID:      user.ID,
				ShopName:    user.ShopName,
				OwnerName:   user.Name,
				PhoneNumber: user.PhoneNumber,
				Status:      model.SellerStatusPending,
			}
			if err := r.Sellers().Upsert(ctx, stub); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		return nil
	})
	if err != nil {
		return UserDTO{}, err
	}

	return toUserDTO(user), nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !u.hasher.Verify(user.PasswordHash, in.Password) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusForbidden, "account disabled")
	}

	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, user.Status, u.clock.Now())
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginOutput{
		User:        toUserDTO(user),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// RequestPasswordReset はトークンを発行して送信する。
// アカウントの存在は外に漏らさない（居ても居なくても成功を返す）。
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid email format")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	token := uuid.NewString()
	now := u.clock.Now()

	reset := model.PasswordReset{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(passwordResetTTL),
	}

	if err := u.resets.Create(ctx, reset); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "mail error")
	}

	return nil
}

func (u *AuthUsecase) ResetPassword(ctx context.Context, token string, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid token")
	}
	if len(newPassword) < 8 {
		return NewHTTPError(http.StatusBadRequest, "password too short")
	}

	reset, err := u.resets.FindByTokenHash(ctx, hashToken(token))
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusBadRequest, "invalid token")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	if reset.UsedAt != nil || now.After(reset.ExpiresAt) {
		return NewHTTPError(http.StatusBadRequest, "token expired")
	}

	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := u.users.UpdatePassword(ctx, reset.UserID, hash); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.resets.MarkUsed(ctx, reset.ID, now); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

// Me は最新のユーザー情報を返す。ルーティング判断はキャッシュせず毎回導出する。
func (u *AuthUsecase) Me(ctx context.Context, sess Session) (UserDTO, error) {
	if !sess.IsValid() {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, sess.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(u.Role),
		Status:   string(u.Status),
		ShopName: u.ShopName,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
