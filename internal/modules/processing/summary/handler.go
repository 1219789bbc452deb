package summary

import (
	"errors"

	"github.com/coderhuBypassion/BriefBank/internal/modules/auth/account"
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
	rg.POST("/summarize/:deckId", authMW, h.summarize)
}

func (h *Handler) summarize(c *gin.Context) {
	result, err := h.svc.Generate(c.Request.Context(), account.Current(c), c.Param("deckId"))
	if err != nil {
		var denied *DeniedError
		if errors.As(err, &denied) {
			response.PaymentRequired(c, denied.Error(), gin.H{
				"summariesUsed": denied.Decision.Used,
				"summaryLimit":  denied.Decision.Limit,
				"isPro":         denied.Decision.IsPro,
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
