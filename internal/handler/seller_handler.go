package handler

import (
	"net/http"

	"farmmart/internal/config"
	"farmmart/internal/middleware"
	"farmmart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 出品者オンボーディングと公開ディレクトリのHTTP
type SellerHandler struct {
	uc *usecase.SellerUsecase
}

// DI
func NewSellerHandler(uc *usecase.SellerUsecase) *SellerHandler {
	return &SellerHandler{uc: uc}
}

func (h *SellerHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	//公開ディレクトリ（ACTIVEのみ）
	e.GET("/sellers", h.listDirectory)

	g := e.Group("/seller")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RoleGuard("SELLER"))

	g.POST("/documents", h.submitDocuments)
	g.GET("/status", h.status)
	g.GET("/revenue", h.revenue)
}

func (h *SellerHandler) listDirectory(c echo.Context) error {
	sellers, err := h.uc.ListDirectory(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sellers)
}

// multipart/form-data: tax_id + identity_doc + license_doc
func (h *SellerHandler) submitDocuments(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	taxID := c.FormValue("tax_id")

	identityHeader, err := c.FormFile("identity_doc")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "identity_doc is required"})
	}
	licenseHeader, err := c.FormFile("license_doc")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "license_doc is required"})
	}

	identityFile, err := identityHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read identity_doc"})
	}
	defer identityFile.Close()

	licenseFile, err := licenseHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read license_doc"})
	}
	defer licenseFile.Close()

	out, err := h.uc.SubmitDocuments(c.Request().Context(), sess, usecase.SubmitDocumentsInput{
		TaxID:            taxID,
		IdentityFileName: identityHeader.Filename,
		IdentityFile:     identityFile,
		LicenseFileName:  licenseHeader.Filename,
		LicenseFile:      licenseFile,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *SellerHandler) status(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Status(c.Request().Context(), sess)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *SellerHandler) revenue(c echo.Context) error {
	sess, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Revenue(c.Request().Context(), sess)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
