package payment

import (
	"github.com/coderhuBypassion/BriefBank/internal/modules/auth/account"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const signatureHeader = "X-Razorpay-Signature"

type Handler struct {
	svc        *Service
	checkoutMW []gin.HandlerFunc
}

// NewHandler wires the payment routes. checkoutMW runs in front of checkout
// after authentication, typically the idempotence guard.
func NewHandler(svc *Service, checkoutMW ...gin.HandlerFunc) *Handler {
	return &Handler{svc: svc, checkoutMW: checkoutMW}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	pay := rg.Group("/payment")
	pay.POST("/webhook", h.webhook)

	authed := pay.Group("", authMW)
	checkout := append([]gin.HandlerFunc{}, h.checkoutMW...)
	authed.POST("/checkout", append(checkout, h.checkout)...)
	authed.POST("/verify", h.verify)
}

func (h *Handler) checkout(c *gin.Context) {
	result, err := h.svc.Checkout(c.Request.Context(), account.Current(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) verify(c *gin.Context) {
	var dto VerifyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.Verify(c.Request.Context(), account.Current(c), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "unreadable body")
		return
	}
	if err := h.svc.HandleWebhook(c.Request.Context(), body, c.GetHeader(signatureHeader)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"ok": 1})
}
