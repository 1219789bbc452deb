package account

import (
	"github.com/coderhuBypassion/BriefBank/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Identity is the verified caller as asserted by the identity provider.
type Identity struct {
	Subject string
	Email   string
}

// Current reads the identity that middleware.Auth stored on the context.
func Current(c *gin.Context) Identity {
	return Identity{
		Subject: middleware.CurrentSubject(c),
		Email:   middleware.CurrentEmail(c),
	}
}
