package library

import (
	"strconv"

	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/modules/auth/account"
	"github.com/coderhuBypassion/BriefBank/internal/modules/catalog/deck"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc   *Service
	users deck.UserProvisioner
}

func NewHandler(svc *Service, users deck.UserProvisioner) *Handler {
	return &Handler{svc: svc, users: users}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	authed := rg.Group("", authMW)
	authed.GET("/deck/:id/save", h.isSaved)
	authed.POST("/deck/:id/save", h.save)
	authed.DELETE("/deck/:id/save", h.unsave)
	authed.GET("/saved-decks", h.savedDecks)
	authed.GET("/recent-views", h.recentViews)
	authed.GET("/me/usage", h.usage)
}

func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	u, err := h.users.Provision(c.Request.Context(), account.Current(c))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return u, true
}

func (h *Handler) save(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	saved, err := h.svc.Save(c.Request.Context(), u.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, saved)
}

func (h *Handler) unsave(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	removed, err := h.svc.Unsave(c.Request.Context(), u.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.Error(c, ErrSavedNotFound)
		return
	}
	response.OK(c, gin.H{"message": "deck removed from saved"})
}

func (h *Handler) isSaved(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	saved, err := h.svc.IsSaved(c.Request.Context(), u.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"saved": saved})
}

func (h *Handler) savedDecks(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	decks, err := h.svc.SavedDecks(c.Request.Context(), u.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, decks)
}

func (h *Handler) recentViews(c *gin.Context) {
	limit := DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(c, "invalid limit")
			return
		}
		limit = n
	}
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	decks, err := h.svc.RecentViews(ctx, u.ID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	count, err := h.svc.ViewCount(ctx, u.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, RecentViews{Decks: decks, Count: count})
}

func (h *Handler) usage(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	stats, err := h.svc.Usage(c.Request.Context(), u)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}
