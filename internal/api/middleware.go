package api

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"
	"alcyxob/fitness-coach/internal/userclient"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Constants for context keys
const (
	ContextPrincipalKey = "principal"
	ContextTokenKey     = "bearerToken"
)

// parseToken validates the bearer token and returns its claims along with the
// raw token string. Both the subject (email) and type claims must be present.
func parseToken(authHeader, jwtSecret string) (*service.Claims, string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, "", errors.New("authorization header format must be Bearer {token}")
	}

	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, "", err
	}
	if !token.Valid || claims.Subject == "" || claims.Type == "" {
		return nil, "", errors.New("invalid token or missing claims")
	}
	return claims, parts[1], nil
}

// PrincipalResolver recovers the full principal behind verified token claims.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, email, tokenType string) (*domain.Principal, error)
}

// AuthMiddleware authenticates requests against the local principal stores.
// On success the resolved principal is stored in the request context; every
// failure, including a token for a deleted account, is a 401.
func AuthMiddleware(jwtSecret string, resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		claims, _, err := parseToken(authHeader, jwtSecret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
			}
			return
		}

		principal, err := resolver.ResolvePrincipal(c.Request.Context(), claims.Subject, claims.Type)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Next()
	}
}

// RemoteAuthMiddleware authenticates requests for the workout service, which
// stores no principals of its own. The token is verified locally with the
// shared secret, then resolution completes against the user service with the
// token forwarded. The raw token is kept in the context so downstream
// authorization checks can carry it.
func RemoteAuthMiddleware(jwtSecret string, users *userclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		claims, rawToken, err := parseToken(authHeader, jwtSecret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
			}
			return
		}

		kind, err := domain.KindFromTokenType(claims.Type)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		remote, err := users.Me(c.Request.Context(), kind, rawToken)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		c.Set(ContextPrincipalKey, &domain.Principal{
			Kind:      kind,
			UID:       remote.UID,
			Email:     remote.Email,
			FirstName: remote.FirstName,
			LastName:  remote.LastName,
		})
		c.Set(ContextTokenKey, rawToken)
		c.Next()
	}
}

// KindMiddleware restricts a route group to one principal kind. Must run
// AFTER an auth middleware.
func KindMiddleware(allowed ...domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := getPrincipalFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
			return
		}

		for _, kind := range allowed {
			if principal.Kind == kind {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied for role '%s'", principal.Kind))
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get the resolved principal from context.
func getPrincipalFromContext(c *gin.Context) (*domain.Principal, error) {
	raw, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return nil, errors.New("principal not found in context")
	}
	principal, ok := raw.(*domain.Principal)
	if !ok {
		return nil, errors.New("invalid principal type in context")
	}
	return principal, nil
}

// Helper function to get the raw bearer token from context (workout service).
func getTokenFromContext(c *gin.Context) string {
	raw, exists := c.Get(ContextTokenKey)
	if !exists {
		return ""
	}
	token, _ := raw.(string)
	return token
}
