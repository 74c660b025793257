package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (int, echo.Context) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		he, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatalf("unexpected error type %T: %v", err, err)
		}
		return he.Code, c
	}
	return rec.Code, c
}

func TestAuthMiddleware(t *testing.T) {
	auth := NewAuth("test-secret", "")
	userID := uuid.New()
	token, err := auth.GenerateJWT(userID, "12345")
	if err != nil {
		t.Fatalf("GenerateJWT() failed: %v", err)
	}
	foreign, _ := NewAuth("other-secret", "").GenerateJWT(userID, "12345")

	testCases := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "bearer header", header: "Bearer " + token, want: http.StatusOK},
		{name: "cookie", cookie: token, want: http.StatusOK},
		{name: "missing", want: http.StatusUnauthorized},
		{name: "bad scheme", header: "Token " + token, want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tc.cookie})
			}

			code, c := runMiddleware(t, auth.AuthMiddleware, req)
			if code != tc.want {
				t.Fatalf("status = %d, want %d", code, tc.want)
			}
			if tc.want == http.StatusOK {
				got, err := GetUserID(c)
				if err != nil || got != userID {
					t.Errorf("GetUserID() = %s, %v, want %s", got, err, userID)
				}
			}
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		header   string
		want     int
	}{
		{name: "correct password", password: "s3cret", header: "s3cret", want: http.StatusOK},
		{name: "wrong password", password: "s3cret", header: "nope", want: http.StatusForbidden},
		{name: "missing header", password: "s3cret", want: http.StatusUnauthorized},
		{name: "disabled", password: "", header: "anything", want: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			auth := NewAuth("test-secret", tc.password)
			req := httptest.NewRequest(http.MethodGet, "/api/admin/statistics", nil)
			if tc.header != "" {
				req.Header.Set(AdminPasswordHeader, tc.header)
			}
			if code, _ := runMiddleware(t, auth.AdminMiddleware, req); code != tc.want {
				t.Errorf("status = %d, want %d", code, tc.want)
			}
		})
	}
}
