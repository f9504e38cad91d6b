package handler

import (
	"context"
	"net/http"
	"strconv"

	"farmmart/internal/config"
	"farmmart/internal/middleware"
	repo "farmmart/internal/repository"
	"farmmart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者のHTTP（審査・注文上書き・ダッシュボード・監査ログ）
type AdminHandler struct {
	sellerUC *usecase.AdminSellerUsecase
	orderUC  *usecase.AdminOrderUsecase
}

// DI
func NewAdminHandler(sellerUC *usecase.AdminSellerUsecase, orderUC *usecase.AdminOrderUsecase) *AdminHandler {
	return &AdminHandler{sellerUC: sellerUC, orderUC: orderUC}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RoleGuard("ADMIN"))

	g.GET("/sellers/pending", h.listPendingSellers)
	g.POST("/sellers/:id/approve", h.approveSeller)
	g.POST("/sellers/:id/reject", h.rejectSeller)
	g.POST("/sellers/:id/suspend", h.suspendSeller)

	g.GET("/orders", h.listOrders)
	g.PATCH("/orders/:id/status", h.updateOrderStatus)

	g.GET("/dashboard", h.dashboard)
	g.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminHandler) listPendingSellers(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	sellers, err := h.sellerUC.ListPending(c.Request().Context(), sess)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, sellers)
}

func (h *AdminHandler) approveSeller(c echo.Context) error {
	return h.sellerTransition(c, h.sellerUC.Approve, "seller approved")
}

func (h *AdminHandler) rejectSeller(c echo.Context) error {
	return h.sellerTransition(c, h.sellerUC.Reject, "seller rejected")
}

func (h *AdminHandler) suspendSeller(c echo.Context) error {
	return h.sellerTransition(c, h.sellerUC.Suspend, "seller suspended")
}

func (h *AdminHandler) sellerTransition(
	c echo.Context,
	fn func(ctx context.Context, sess usecase.Session, sellerUserID int64) error,
	message string,
) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := fn(c.Request().Context(), sess, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

func (h *AdminHandler) listOrders(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	f := repo.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	}

	if v := c.QueryParam("seller_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid seller_id"})
		}
		f.SellerID = &x
	}

	outs, err := h.orderUC.List(c.Request().Context(), sess, f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, outs)
}

func (h *AdminHandler) updateOrderStatus(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.orderUC.UpdateStatus(c.Request().Context(), sess, orderID, usecase.UpdateOrderStatusInput{
		Status: req.Status,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "status updated"})
}

func (h *AdminHandler) dashboard(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.orderUC.Dashboard(c.Request().Context(), sess)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listAuditLogs(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	f := repo.AuditLogFilter{Limit: 50}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		f.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		f.Offset = o
	}
	if v := c.QueryParam("actor_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor_id"})
		}
		f.ActorUserID = &x
	}

	logs, err := h.orderUC.ListAuditLogs(c.Request().Context(), sess, f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, logs)
}
