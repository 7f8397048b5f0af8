package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chatmemo/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.RegisteredClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authHandler() (http.Handler, *string) {
	var seenUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := common.GetUserID(r.Context()); ok {
			seenUser = id
		}
		w.WriteHeader(http.StatusOK)
	})
	return Authenticate(testSecret, "chatmemo", zap.NewNop())(inner), &seenUser
}

func TestAuthenticate_ValidToken(t *testing.T) {
	handler, seenUser := authHandler()

	token := signToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "chatmemo",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", *seenUser)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	handler, _ := authHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memos", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing authorization header")
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	handler, _ := authHandler()

	token := signToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "chatmemo",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, "some-other-secret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_WrongIssuer(t *testing.T) {
	handler, _ := authHandler()

	token := signToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	handler, _ := authHandler()

	token := signToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "chatmemo",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_MissingSubject(t *testing.T) {
	handler, _ := authHandler()

	token := signToken(t, jwt.RegisteredClaims{
		Issuer:    "chatmemo",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token missing subject")
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", extractToken(req))

	req.Header.Set("Authorization", "bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", extractToken(req))

	req.Header.Set("Authorization", "abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", extractToken(req))

	req.Header.Del("Authorization")
	assert.Empty(t, extractToken(req))
}
