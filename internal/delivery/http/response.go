package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"propshare/internal/domain"
)

// Response represents a standardized API response
type Response struct {
	Success bool        `json:"success"`
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Status:  "success",
		Data:    data,
	})
}

// SuccessMessageResponse sends a success response with a message
func SuccessMessageResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// CreatedResponse sends a 201 Created response
func CreatedResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Success: true,
		Status:  "success",
		Data:    data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c echo.Context, statusCode int, message string, err interface{}) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
		Error:   err,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message, nil)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusUnauthorized, message, nil)
}

// ForbiddenResponse sends a 403 Forbidden response
func ForbiddenResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusForbidden, message, nil)
}

// NotFoundResponse sends a 404 Not Found response
func NotFoundResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusNotFound, message, nil)
}

// InternalServerErrorResponse logs err and sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, message string, err error) error {
	if err != nil {
		log.Printf("[ERROR] %s: %v", message, err)
	}
	return ErrorResponse(c, http.StatusInternalServerError, message, nil)
}

// ConflictResponse sends a 409 Conflict response
func ConflictResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusConflict, message, nil)
}

// LedgerErrorResponse maps a ledger error to its status code. Unknown and
// storage errors are logged and answered with a generic message.
func LedgerErrorResponse(c echo.Context, err error) error {
	message := domain.UserMessage(err)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return BadRequestResponse(c, message)
	case errors.Is(err, domain.ErrNotFound):
		return NotFoundResponse(c, message)
	case errors.Is(err, domain.ErrInsufficientFunds):
		return ErrorResponse(c, http.StatusUnprocessableEntity, message, nil)
	case errors.Is(err, domain.ErrAlreadyProcessed), errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrVersionConflict):
		return ConflictResponse(c, message)
	default:
		log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		return ErrorResponse(c, http.StatusInternalServerError, message, nil)
	}
}
