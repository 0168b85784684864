package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kamalyadav07/Library-Management-System/handlers"
	"github.com/kamalyadav07/Library-Management-System/middleware"
	"github.com/kamalyadav07/Library-Management-System/models"
	"github.com/kamalyadav07/Library-Management-System/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "handlers-test-secret"

func parseToken(t *testing.T, token string) *middleware.Claims {
	t.Helper()
	parsed, err := jwt.ParseWithClaims(token, &middleware.Claims{}, func(tk *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return parsed.Claims.(*middleware.Claims)
}

func tokenFromBody(t *testing.T, body []byte) string {
	t.Helper()
	var resp handlers.TokenResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func msgFromBody(t *testing.T, body []byte) string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(body, &m))
	return m["msg"]
}

func TestAuthHandlerLogin(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	newHandler := func(mt *mtest.T) *handlers.AuthHandler {
		db := &store.DB{Client: mt.Client, Database: mt.Coll.Database()}
		return &handlers.AuthHandler{DB: db, JWTSecret: testSecret, Validate: validator.New()}
	}

	userID := primitive.NewObjectID()
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	userDoc := bson.D{
		{Key: "_id", Value: userID},
		{Key: "username", Value: "alice"},
		{Key: "password", Value: string(hash)},
		{Key: "role", Value: models.RoleMember},
		{Key: "createdAt", Value: time.Now()},
	}

	mt.Run("valid credentials yield a token carrying the identity", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "library.users", mtest.FirstBatch, userDoc))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"alice","password":"password1"}`))
		w := httptest.NewRecorder()
		newHandler(mt).Login(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		claims := parseToken(t, tokenFromBody(t, w.Body.Bytes()))
		assert.Equal(t, userID.Hex(), claims.User.ID)
		assert.Equal(t, "alice", claims.User.Username)
		assert.Equal(t, models.RoleMember, claims.User.Role)
	})

	mt.Run("wrong password", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "library.users", mtest.FirstBatch, userDoc))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"alice","password":"nope-wrong"}`))
		w := httptest.NewRecorder()
		newHandler(mt).Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid credentials", msgFromBody(t, w.Body.Bytes()))
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "library.users", mtest.FirstBatch))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"nobody","password":"password1"}`))
		w := httptest.NewRecorder()
		newHandler(mt).Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid credentials", msgFromBody(t, w.Body.Bytes()))
	})

	mt.Run("missing fields never hit the store", func(mt *mtest.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"alice"}`))
		w := httptest.NewRecorder()
		newHandler(mt).Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandlerRegister(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	newHandler := func(mt *mtest.T) *handlers.AuthHandler {
		db := &store.DB{Client: mt.Client, Database: mt.Coll.Database()}
		return &handlers.AuthHandler{DB: db, JWTSecret: testSecret, Validate: validator.New()}
	}

	mt.Run("creates a Member and returns a token", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"username":"bob","password":"secret99"}`))
		w := httptest.NewRecorder()
		newHandler(mt).Register(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		claims := parseToken(t, tokenFromBody(t, w.Body.Bytes()))
		assert.Equal(t, "bob", claims.User.Username)
		assert.Equal(t, models.RoleMember, claims.User.Role)
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"username":"bob","password":"secret99"}`))
		w := httptest.NewRecorder()
		newHandler(mt).Register(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User already exists", msgFromBody(t, w.Body.Bytes()))
	})

	mt.Run("rejects short password", func(mt *mtest.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"username":"bob","password":"abc"}`))
		w := httptest.NewRecorder()
		newHandler(mt).Register(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	mt.Run("rejects short username", func(mt *mtest.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"username":"ab","password":"secret99"}`))
		w := httptest.NewRecorder()
		newHandler(mt).Register(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
