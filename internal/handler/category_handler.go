package handler

import (
	"net/http"

	"farmmart/internal/config"
	"farmmart/internal/middleware"
	"farmmart/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

// DI
func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

type CategoryRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

func (h *CategoryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/categories", h.list)

	g := e.Group("/admin/categories")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RoleGuard("ADMIN"))
	g.POST("", h.create)
}

func (h *CategoryHandler) list(c echo.Context) error {
	categories, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) create(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	category, err := h.uc.Create(c.Request().Context(), sess, req.Name, req.ImageURL)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, category)
}
