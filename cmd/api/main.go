package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"farmmart/internal/config"
	"farmmart/internal/domain/model"
	"farmmart/internal/feed"
	"farmmart/internal/handler"
	"farmmart/internal/infra/db"
	infraRepo "farmmart/internal/infra/repository"
	"farmmart/internal/infra/storage"
	"farmmart/internal/server"
	"farmmart/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// bcrypt（会員登録：Hash / ログイン：Verify）
type bcryptHasher struct {
	cost int
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *bcryptHasher) Verify(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// JWT issuer
type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, status model.UserStatus, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":    userID,
		"role":   string(role),
		"status": string(status),
		"iat":    now.Unix(),
		"exp":    expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// 注文番号は「FM-」+ UUIDの先頭8桁
type uuidOrderNoGenerator struct{}

func (g *uuidOrderNoGenerator) NewOrderNo() string {
	return "FM-" + strings.ToUpper(uuid.NewString()[:8])
}

// 配達確認コードは4桁の乱数
type randCodeGenerator struct{}

func (g *randCodeGenerator) NewCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/randが失敗する環境では起動させない方がよい
		panic(err)
	}
	return fmt.Sprintf("%04d", n.Int64())
}

// SMTPを繋ぐまでのつなぎ。トークンをログに出すだけ。
type logMailer struct{}

func (m *logMailer) SendPasswordReset(ctx context.Context, email string, token string) error {
	log.Printf("password reset requested for %s token=%s", email, token)
	return nil
}

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Seller{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.AuditLog{},
		&model.PasswordReset{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	sellerRepo := infraRepo.NewSellerGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	resetRepo := infraRepo.NewPasswordResetGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := &bcryptHasher{cost: 12}
	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: 24 * time.Hour}
	orderNoGen := &uuidOrderNoGenerator{}
	codeGen := &randCodeGenerator{}
	mailer := &logMailer{}
	hub := feed.NewHub()
	fileStore := storage.NewLocalFileStore(cfg.UploadDir, cfg.UploadBaseURL)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(txManager, userRepo, resetRepo, hasher, issuer, clock, mailer)
	productUC := usecase.NewProductUsecase(productRepo, userRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, userRepo, hub, clock, orderNoGen, codeGen)
	sellerUC := usecase.NewSellerUsecase(txManager, userRepo, sellerRepo, orderRepo, fileStore)
	deliveryUC := usecase.NewDeliveryUsecase(txManager, hub, clock, codeGen)
	adminSellerUC := usecase.NewAdminSellerUsecase(txManager, userRepo, sellerRepo, auditRepo, hub, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, userRepo, sellerRepo, orderRepo, auditRepo, hub, clock, codeGen)

	//Handler生成
	handlers := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Product:  handler.NewProductHandler(productUC),
		Category: handler.NewCategoryHandler(categoryUC),
		Cart:     handler.NewCartHandler(cartUC),
		Order:    handler.NewOrderHandler(orderUC),
		Seller:   handler.NewSellerHandler(sellerUC),
		Delivery: handler.NewDeliveryHandler(deliveryUC),
		Admin:    handler.NewAdminHandler(adminSellerUC, adminOrderUC),
		Feed:     handler.NewFeedHandler(hub),
	}

	//Server起動
	e := server.New(cfg, handlers)
	if err := server.Start(e, cfg); err != nil {
		log.Fatal(err)
	}
}
