package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"watchroom/internal/api/dto"
	"watchroom/internal/api/service"
	"watchroom/internal/merge"
)

type TheatreHandler struct {
	svc service.TheatreService
}

func NewTheatreHandler(svc service.TheatreService) *TheatreHandler {
	return &TheatreHandler{svc: svc}
}

func (h *TheatreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:invite_code", h.View)
	rg.POST("/:invite_code/join", h.Join)
	rg.POST("/:invite_code/leave", h.Leave)
	rg.DELETE("/:invite_code", h.Delete)
	rg.PATCH("/:invite_code/merge-mode", h.SetMergeMode)
	rg.POST("/:invite_code/shuffle", h.Shuffle)
}

// Create a theatre; the caller becomes host and first member
func (h *TheatreHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateTheatreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	theatre, err := h.svc.Create(ctx, userID.(string), req.Name, req.MergeMode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMergeMode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.TheatreResponse{
		ID:         theatre.ID,
		Name:       theatre.Name,
		InviteCode: theatre.InviteCode,
		MergeMode:  theatre.MergeMode,
		HostID:     theatre.HostID,
	})
}

// List the caller's theatres with member/movie counts
func (h *TheatreHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	summaries, err := h.svc.ListForUser(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.TheatreSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		responses = append(responses, dto.TheatreSummaryResponse{
			TheatreResponse: dto.TheatreResponse{
				ID:               s.Theatre.ID,
				Name:             s.Theatre.Name,
				InviteCode:       s.Theatre.InviteCode,
				MergeMode:        s.Theatre.MergeMode,
				HostID:           s.Theatre.HostID,
				LastPickedImdbID: s.Theatre.LastPickedImdbID,
			},
			MemberCount: s.MemberCount,
			MovieCount:  s.MovieCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"theatres": responses, "total": len(responses)})
}

// View returns the theatre, its roster and the merged, ordered list
func (h *TheatreHandler) View(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	view, err := h.svc.View(ctx, c.Param("invite_code"), userID.(string))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTheatreView(view))
}

// Join is idempotent: joining twice reports success both times
func (h *TheatreHandler) Join(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Join(ctx, c.Param("invite_code"), userID.(string)); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "joined"})
}

// Leave removes the caller from the theatre; the host must delete instead
func (h *TheatreHandler) Leave(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Leave(ctx, c.Param("invite_code"), userID.(string)); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left theatre"})
}

// Delete removes the theatre and its memberships (host only)
func (h *TheatreHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("invite_code"), userID.(string)); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetMergeMode changes the room's merge policy (host only)
func (h *TheatreHandler) SetMergeMode(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.SetMergeModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.SetMergeMode(ctx, c.Param("invite_code"), userID.(string), req.MergeMode); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "merge mode updated"})
}

// Shuffle picks tonight's movie from the merged unwatched list
func (h *TheatreHandler) Shuffle(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	picked, err := h.svc.Shuffle(ctx, c.Param("invite_code"), userID.(string))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ShuffleResponse{PickedImdbID: picked})
}

// renderError maps service errors to HTTP statuses in one place so the
// taxonomy stays consistent across endpoints.
func (h *TheatreHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTheatreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "theatre not found"})
	case errors.Is(err, service.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this theatre"})
	case errors.Is(err, service.ErrHostOnly):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the host can do this"})
	case errors.Is(err, service.ErrHostCannotLeave):
		c.JSON(http.StatusConflict, gin.H{"error": "the host cannot leave; delete the theatre instead"})
	case errors.Is(err, service.ErrInvalidMergeMode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid merge mode"})
	case errors.Is(err, merge.ErrEmptyCandidates):
		c.JSON(http.StatusConflict, gin.H{"error": "no unwatched movies to pick from"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
