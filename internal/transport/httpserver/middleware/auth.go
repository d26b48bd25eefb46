package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"catalog-admin-go/internal/config"
	"catalog-admin-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

type AdminAuth struct {
	secret    []byte
	issuer    string
	skipAuth  bool
	mockAdmin Admin
	log       logger.Logger
}

type contextKey int

const (
	adminKey contextKey = iota
)

type Admin struct {
	ID    string
	Email string
	Role  string
}

type adminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func NewAdminAuth(cfg config.AuthConfig, log logger.Logger) *AdminAuth {
	return &AdminAuth{
		secret:   []byte(cfg.JWTSecret),
		issuer:   strings.TrimSpace(cfg.JWTIssuer),
		skipAuth: cfg.SkipAuth,
		mockAdmin: Admin{
			ID:   strings.TrimSpace(cfg.MockAdminID),
			Role: RoleAdmin,
		},
		log: log,
	}
}

func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockAdmin.ID == "" {
				writeMessage(w, http.StatusInternalServerError, "auth mock admin id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), a.mockAdmin)))
			return
		}

		if len(a.secret) == 0 {
			writeMessage(w, http.StatusInternalServerError, "auth not configured")
			return
		}

		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		admin, err := a.parse(raw)
		if err != nil {
			a.log.BusinessError("auth: token rejected", err, "path", r.URL.Path)
			if errors.Is(err, errNotAdmin) {
				writeMessage(w, http.StatusForbidden, "forbidden")
				return
			}
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), admin)))
	})
}

var (
	errMissingSubject = errors.New("token has no subject")
	errNotAdmin       = errors.New("token is not an admin token")
)

func (a *AdminAuth) parse(raw string) (Admin, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}

	claims := &adminClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, options...)
	if err != nil {
		return Admin{}, err
	}

	if claims.Subject == "" {
		return Admin{}, errMissingSubject
	}
	if claims.Role != RoleAdmin {
		return Admin{}, errNotAdmin
	}

	return Admin{ID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeMessage(w, http.StatusUnauthorized, "unauthenticated")
}

func WithAdmin(ctx context.Context, admin Admin) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

func AdminFromContext(ctx context.Context) (Admin, bool) {
	admin, ok := ctx.Value(adminKey).(Admin)
	if !ok || admin.ID == "" {
		return Admin{}, false
	}
	return admin, true
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
