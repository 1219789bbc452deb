package middleware

import (
	"errors"
	"strings"

	"github.com/coderhuBypassion/BriefBank/internal/pkg/jwt"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	ContextKeySubject = "auth_subject"
	ContextKeyEmail   = "auth_email"
)

// TokenVerifier validates identity-provider bearer tokens.
type TokenVerifier interface {
	Parse(token string) (*jwt.Claims, error)
}

// Auth returns a middleware that rejects requests without a valid bearer token.
// A token already accepted by OptionalAuth earlier in the chain is not re-parsed.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}
		claims, err := validateToken(v, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the identity if a valid token is present, but does not block the request.
func OptionalAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := validateToken(v, extractToken(c)); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func validateToken(v TokenVerifier, token string) (*jwt.Claims, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}
	if v == nil {
		return nil, errors.New("no token verifier configured")
	}
	return v.Parse(token)
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextKeySubject, claims.Subject)
	c.Set(ContextKeyEmail, claims.Email)
}

// CurrentSubject returns the identity-provider user id, or "" when anonymous.
func CurrentSubject(c *gin.Context) string {
	v, _ := c.Get(ContextKeySubject)
	id, _ := v.(string)
	return id
}

// CurrentEmail returns the email claim of the authenticated caller.
func CurrentEmail(c *gin.Context) string {
	v, _ := c.Get(ContextKeyEmail)
	email, _ := v.(string)
	return email
}

// IsAuthenticated returns true if the request carried a valid token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentSubject(c) != ""
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
