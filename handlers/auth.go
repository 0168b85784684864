package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kamalyadav07/Library-Management-System/middleware"
	"github.com/kamalyadav07/Library-Management-System/models"
	"github.com/kamalyadav07/Library-Management-System/store"
	"github.com/kamalyadav07/Library-Management-System/utils"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 5 * time.Hour

type AuthHandler struct {
	DB        *store.DB
	JWTSecret string
	Validate  *validator.Validate
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Register creates a Member account. Admin accounts are provisioned out of
// band (seeder or direct insert), never through this endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := h.Validate.Struct(req); err != nil {
		utils.JSONError(w, "Username (min 3 chars) and password (min 6 chars) are required", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("register: hash:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	user := &models.User{
		Username:  req.Username,
		Password:  string(hash),
		Role:      models.RoleMember,
		CreatedAt: time.Now(),
	}
	id, err := h.DB.CreateUser(r.Context(), user)
	if errors.Is(err, store.ErrDuplicateKey) {
		utils.JSONError(w, "User already exists", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Println("register: create user:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	user.ID = id

	token, err := h.createToken(user)
	if err != nil {
		log.Println("register: token:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, TokenResponse{Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.JSONError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.DB.UserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		log.Println("login: lookup:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		utils.JSONError(w, "Invalid credentials", http.StatusBadRequest)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.JSONError(w, "Invalid credentials", http.StatusBadRequest)
		return
	}

	token, err := h.createToken(user)
	if err != nil {
		log.Println("login: token:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, TokenResponse{Token: token})
}

func (h *AuthHandler) createToken(user *models.User) (string, error) {
	claims := &middleware.Claims{
		User: middleware.UserClaim{
			ID:       user.ID.Hex(),
			Username: user.Username,
			Role:     user.Role,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}
