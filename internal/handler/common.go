package handler

import (
	"net/http"

	"farmmart/internal/domain/model"
	"farmmart/internal/middleware"
	"farmmart/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// AuthJWTが入れた値からSessionを組み立てる
func sessionFromContext(c echo.Context) (usecase.Session, bool) {
	userID, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || userID <= 0 {
		return usecase.Session{}, false
	}

	role, ok := c.Get(middleware.CtxUserRoleKey).(string)
	if !ok || role == "" {
		return usecase.Session{}, false
	}

	status, _ := c.Get(middleware.CtxUserStatusKey).(string)

	return usecase.Session{
		UserID: userID,
		Role:   model.Role(role),
		Status: model.UserStatus(status),
	}, true
}
