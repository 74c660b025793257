package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"propshare/internal/delivery/http/dto"
	"propshare/internal/middleware"
	"propshare/internal/usecase"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	accounts     *usecase.AccountService
	auth         *middleware.Auth
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts *usecase.AccountService, auth *middleware.Auth, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		auth:         auth,
		secureCookie: secureCookie,
	}
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Email == "" || req.Password == "" {
		return BadRequestResponse(c, "Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.accounts.Authenticate(ctx, req.Email, req.Password)
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		return UnauthorizedResponse(c, "Invalid credentials")
	}
	if err != nil {
		return LedgerErrorResponse(c, err)
	}

	token, err := h.auth.GenerateJWT(user.ID, user.PublicID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to generate token", err)
	}

	h.setTokenCookie(c, token, int(middleware.TokenTTL.Seconds()))

	return SuccessResponse(c, dto.LoginResponse{
		Token: token,
		User:  dto.NewUserOutput(user),
	})
}

// Logout handles user logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	h.setTokenCookie(c, "", -1)
	return SuccessMessageResponse(c, "Logged out", nil)
}

// Register handles user registration
// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.accounts.Register(ctx, usecase.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		return LedgerErrorResponse(c, err)
	}

	token, err := h.auth.GenerateJWT(user.ID, user.PublicID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to generate token", err)
	}
	h.setTokenCookie(c, token, int(middleware.TokenTTL.Seconds()))

	return CreatedResponse(c, dto.LoginResponse{
		Token: token,
		User:  dto.NewUserOutput(user),
	})
}

func (h *AuthHandler) setTokenCookie(c echo.Context, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}
