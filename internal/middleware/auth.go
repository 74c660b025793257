package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenCookie is the cookie carrying the session JWT
const TokenCookie = "token"

// AdminPasswordHeader carries the operator shared secret
const AdminPasswordHeader = "X-Admin-Password"

// TokenTTL is how long an issued token stays valid
const TokenTTL = 24 * time.Hour

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	PublicID string    `json:"public_id"`
	jwt.RegisteredClaims
}

// Auth issues and checks session tokens and guards operator routes
type Auth struct {
	secret        []byte
	adminPassword string
}

// NewAuth creates a new Auth. An empty admin password disables the operator routes.
func NewAuth(jwtSecret, adminPassword string) *Auth {
	return &Auth{secret: []byte(jwtSecret), adminPassword: adminPassword}
}

// GenerateJWT generates a new JWT token for a user
func (a *Auth) GenerateJWT(userID uuid.UUID, publicID string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:   userID,
		PublicID: publicID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken validates a token string and returns its claims
func (a *Auth) ParseToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// AuthMiddleware validates JWT token and sets user context
func (a *Auth) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Get token from Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			// Try to get from cookie
			cookie, err := c.Cookie(TokenCookie)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication token")
			}
			authHeader = "Bearer " + cookie.Value
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
		}

		claims, err := a.ParseToken(parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set("user_id", claims.UserID)
		c.Set("public_id", claims.PublicID)

		return next(c)
	}
}

// AdminMiddleware checks the operator shared secret
func (a *Auth) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.adminPassword == "" {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access is disabled")
		}

		given := c.Request().Header.Get(AdminPasswordHeader)
		if given == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing admin password")
		}
		if subtle.ConstantTimeCompare([]byte(given), []byte(a.adminPassword)) != 1 {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}

		return next(c)
	}
}

// GetUserID extracts user ID from echo context
func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user_id not found in context")
	}
	return userID, nil
}
