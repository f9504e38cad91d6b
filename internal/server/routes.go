package server

import (
	"farmmart/internal/config"
	"farmmart/internal/handler"

	"github.com/labstack/echo/v4"
)

// 各ハンドラをまとめて登録する
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Seller   *handler.SellerHandler
	Delivery *handler.DeliveryHandler
	Admin    *handler.AdminHandler
	Feed     *handler.FeedHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e, cfg)
	h.Category.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Seller.RegisterRoutes(e, cfg)
	h.Delivery.RegisterRoutes(e, cfg)
	h.Admin.RegisterRoutes(e, cfg)
	h.Feed.RegisterRoutes(e, cfg)

	//アップロード済み書類・画像の配信
	e.Static(cfg.UploadBaseURL, cfg.UploadDir)
}
