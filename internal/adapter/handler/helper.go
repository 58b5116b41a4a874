package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/insightcrew/relata/errors"
)

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// HandleError maps an application error onto the HTTP response.
func HandleError(c echo.Context, err error) error {
	var appErr errors.AppError
	if stderrors.As(err, &appErr) {
		return c.JSON(appErr.HTTPCode, ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code.String(),
			Details: appErr.Details,
		})
	}

	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: "Internal server error",
		Code:  "INTERNAL",
	})
}

// HandleSuccess writes a success response
func HandleSuccess(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}
