package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, authHeader string) (uuid.UUID, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uuid.UUID
	mw := NewAuthMiddleware(testSecret)
	handler := mw.Authenticate()(func(c echo.Context) error {
		gotID = GetUserID(c)
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return gotID, err
}

func TestAuthenticateValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	gotID, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if gotID != userID {
		t.Errorf("GetUserID() = %v, want %v", gotID, userID)
	}
}

func TestAuthenticateMissingHeader(t *testing.T) {
	_, err := runAuth(t, "")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	_, err := runAuth(t, "Basic abc123")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	_, err := runAuth(t, "Bearer not-a-token")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	_, err := runAuth(t, "Bearer "+token)
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := runAuth(t, "Bearer "+token)
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestGetUserIDUnauthenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if got := GetUserID(c); got != uuid.Nil {
		t.Errorf("GetUserID() = %v, want uuid.Nil", got)
	}
}

func assertHTTPError(t *testing.T, err error, status int) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("error = %v, want *echo.HTTPError", err)
	}
	if httpErr.Code != status {
		t.Errorf("status = %d, want %d", httpErr.Code, status)
	}
}
