package account

import (
	"github.com/coderhuBypassion/BriefBank/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/me", authMW, h.me)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.Provision(c.Request.Context(), Current(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}
