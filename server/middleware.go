package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"wavebox/cache"
	"wavebox/core/auth"
	"wavebox/logger"
	"wavebox/model"
)

type contextKey string

const (
	ctxUserID contextKey = "userID"
	ctxRole   contextKey = "role"
)

// AuthMiddleware verifies the bearer token and puts the identity on the
// request context. Missing or invalid tokens are rejected.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := bearerClaims(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// OptionalAuthMiddleware resolves the identity when a valid token is present
// but lets anonymous requests through. Used by endpoints whose result widens
// for authenticated callers (playlist listings).
func (h *APIHandler) OptionalAuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := bearerClaims(r); ok {
			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	}
}

// AdminOnly rejects callers whose persisted role is not admin.
// It must run after AuthMiddleware.
func (h *APIHandler) AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := GetRoleFromContext(r.Context())
		if err != nil || role != model.RoleAdmin {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RateLimitMiddleware applies the per-source-address fixed-window limit.
// A redis failure lets the request through so the store being down does not
// take the API with it.
func (h *APIHandler) RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := clientAddr(r)
		allowed, err := cache.Allow(r.Context(), addr, h.cfg.RateLimitMax, h.cfg.RateLimitWindow)
		if err != nil {
			logger.Warn("Rate limit check failed", logger.String("addr", addr), logger.ErrorField(err))
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			respondError(w, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware sets the CORS headers and answers preflight requests.
func (h *APIHandler) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.cfg.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerClaims(r *http.Request) (*auth.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := auth.ParseToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// clientAddr picks the client address for rate limiting, preferring the
// X-Forwarded-For chain set by the reverse proxy.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GetUserIDFromContext extracts the user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(ctxUserID).(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// GetRoleFromContext extracts the user role from the request context.
func GetRoleFromContext(ctx context.Context) (string, error) {
	role, ok := ctx.Value(ctxRole).(string)
	if !ok {
		return "", fmt.Errorf("role not found in context")
	}
	return role, nil
}

// viewerID returns the authenticated user id, or nil for anonymous requests.
func viewerID(ctx context.Context) *int64 {
	if id, err := GetUserIDFromContext(ctx); err == nil {
		return &id
	}
	return nil
}
