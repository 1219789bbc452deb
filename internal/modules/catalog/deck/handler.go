package deck

import (
	"strconv"

	"github.com/coderhuBypassion/BriefBank/internal/middleware"
	"github.com/coderhuBypassion/BriefBank/internal/modules/auth/account"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/logger"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/pagination"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc     *Service
	users   UserProvisioner
	views   ViewRecorder
	log     *zap.Logger
	cacheMW []gin.HandlerFunc
}

// NewHandler wires the catalogue routes. users and views may be nil, in
// which case deck reads are not recorded. cacheMW runs in front of the
// listing routes only, typically the anonymous response cache.
func NewHandler(svc *Service, users UserProvisioner, views ViewRecorder, log *zap.Logger, cacheMW ...gin.HandlerFunc) *Handler {
	return &Handler{svc: svc, users: users, views: views, log: logger.OrNop(log), cacheMW: cacheMW}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("/decks", h.cached(h.list)...)
	rg.GET("/decks/featured", h.cached(h.featured)...)
	rg.GET("/deck/:id", h.get)
	rg.GET("/deck/:id/file", h.file)
}

func (h *Handler) cached(handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := append([]gin.HandlerFunc{}, h.cacheMW...)
	return append(chain, handler)
}

func (h *Handler) list(c *gin.Context) {
	page, err := pagination.FromContext(c, pagination.DefaultLimit)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	decks, err := h.svc.List(c.Request.Context(), ListFilter{
		Industry: c.Query("industry"),
		Stage:    c.Query("stage"),
		Type:     c.Query("type"),
		Sort:     c.Query("sort"),
	}, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, decks)
}

func (h *Handler) featured(c *gin.Context) {
	limit := DefaultFeaturedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(c, "invalid limit")
			return
		}
		limit = n
	}
	decks, err := h.svc.Featured(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, decks)
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if middleware.IsAuthenticated(c) && h.users != nil && h.views != nil {
		h.recordView(c, d.ID)
	}
	response.OK(c, d)
}

// recordView never fails the read.
func (h *Handler) recordView(c *gin.Context, deckID string) {
	ctx := c.Request.Context()
	u, err := h.users.Provision(ctx, account.Current(c))
	if err == nil {
		_, err = h.views.RecordView(ctx, u.ID, deckID)
	}
	if err != nil {
		h.log.Warn("record deck view failed",
			zap.String("user", middleware.CurrentSubject(c)),
			zap.String("deck", deckID),
			zap.Error(err),
		)
	}
}

func (h *Handler) file(c *gin.Context) {
	link, err := h.svc.FileLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, link)
}
