package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kamalyadav07/Library-Management-System/middleware"
	"github.com/kamalyadav07/Library-Management-System/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claim middleware.UserClaim) string {
	t.Helper()
	claims := &middleware.Claims{
		User: claim,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func errMsg(t *testing.T, body []byte) string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(body, &m))
	return m["msg"]
}

func TestAuth(t *testing.T) {
	userID := primitive.NewObjectID()
	var captured middleware.Principal
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = middleware.PrincipalFromContext(r.Context())
		called = true
	})
	handler := middleware.Auth(testSecret)(next)

	t.Run("valid token reaches the handler with the decoded identity", func(t *testing.T) {
		called = false
		token := signToken(t, testSecret, middleware.UserClaim{
			ID: userID.Hex(), Username: "alice", Role: models.RoleMember,
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TokenHeader, token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.True(t, called)
		assert.Equal(t, userID, captured.ID)
		assert.Equal(t, "alice", captured.Username)
		assert.Equal(t, models.RoleMember, captured.Role)
	})

	t.Run("missing token", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "No token, authorization denied", errMsg(t, w.Body.Bytes()))
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		called = false
		token := signToken(t, "some-other-secret", middleware.UserClaim{
			ID: userID.Hex(), Username: "alice", Role: models.RoleMember,
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TokenHeader, token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token is not valid", errMsg(t, w.Body.Bytes()))
	})

	t.Run("garbage token", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TokenHeader, "not.a.token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequire(t *testing.T) {
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := middleware.Require(middleware.OpViewStats)(next)

	serve := func(p *middleware.Principal) *httptest.ResponseRecorder {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if p != nil {
			req = req.WithContext(middleware.WithPrincipal(req.Context(), *p))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("admin allowed", func(t *testing.T) {
		w := serve(&middleware.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("member denied", func(t *testing.T) {
		w := serve(&middleware.Principal{ID: primitive.NewObjectID(), Role: models.RoleMember})
		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Access denied. Admins only.", errMsg(t, w.Body.Bytes()))
	})

	t.Run("no principal", func(t *testing.T) {
		w := serve(nil)
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAllowed(t *testing.T) {
	memberOps := []middleware.Operation{
		middleware.OpBorrowBook,
		middleware.OpReturnBook,
		middleware.OpSubmitReview,
		middleware.OpListBorrowed,
	}
	adminOnlyOps := []middleware.Operation{
		middleware.OpAddBook,
		middleware.OpViewStats,
		middleware.OpViewHistory,
	}

	for _, op := range memberOps {
		assert.True(t, middleware.Allowed(models.RoleMember, op), op)
		assert.True(t, middleware.Allowed(models.RoleAdmin, op), op)
	}
	for _, op := range adminOnlyOps {
		assert.False(t, middleware.Allowed(models.RoleMember, op), op)
		assert.True(t, middleware.Allowed(models.RoleAdmin, op), op)
	}
	assert.False(t, middleware.Allowed("Librarian", middleware.OpBorrowBook))
	assert.False(t, middleware.Allowed("", middleware.OpViewStats))
}
