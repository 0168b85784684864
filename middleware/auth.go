package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kamalyadav07/Library-Management-System/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const principalKey contextKey = "principal"

// TokenHeader is the request header carrying the bearer token.
const TokenHeader = "x-auth-token"

// UserClaim is the identity payload nested under the "user" key, matching
// the token shape the client decodes.
type UserClaim struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// Principal is the decoded caller identity. Downstream code trusts it
// unconditionally; the signature check here is the only verification.
type Principal struct {
	ID       primitive.ObjectID
	Username string
	Role     string
}

// Auth verifies the x-auth-token header and puts the caller's identity on
// the request context. It performs no role check; pair it with Require.
func Auth(jwtSecret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get(TokenHeader)
			if tokenStr == "" {
				utils.JSONError(w, "No token, authorization denied", http.StatusUnauthorized)
				return
			}
			token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				utils.JSONError(w, "Token is not valid", http.StatusUnauthorized)
				return
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				utils.JSONError(w, "Token is not valid", http.StatusUnauthorized)
				return
			}
			userID, err := primitive.ObjectIDFromHex(claims.User.ID)
			if err != nil {
				utils.JSONError(w, "Token is not valid", http.StatusUnauthorized)
				return
			}
			p := Principal{
				ID:       userID,
				Username: claims.User.Username,
				Role:     claims.User.Role,
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// Require enforces the authorization policy for one operation. It must run
// after Auth.
func Require(op Operation) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				utils.JSONError(w, "No token, authorization denied", http.StatusUnauthorized)
				return
			}
			if !Allowed(p.Role, op) {
				utils.JSONError(w, "Access denied. Admins only.", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal returns a context carrying the caller's identity.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
