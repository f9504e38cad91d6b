package handler

import (
	"net/http"
	"strconv"

	"farmmart/internal/config"
	"farmmart/internal/middleware"
	"farmmart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 配達員のHTTP
type DeliveryHandler struct {
	uc *usecase.DeliveryUsecase
}

// DI
func NewDeliveryHandler(uc *usecase.DeliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

type ConfirmDeliveryRequest struct {
	Code string `json:"code"`
}

func (h *DeliveryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/delivery/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RoleGuard("DELIVERY"))

	g.GET("", h.listOutForDelivery)
	g.POST("/:id/confirm", h.confirmDelivery)
}

func (h *DeliveryHandler) listOutForDelivery(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	outs, err := h.uc.ListOutForDelivery(c.Request().Context(), sess)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, outs)
}

func (h *DeliveryHandler) confirmDelivery(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ConfirmDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.ConfirmDelivery(c.Request().Context(), sess, orderID, usecase.ConfirmDeliveryInput{
		Code: req.Code,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "delivered"})
}
