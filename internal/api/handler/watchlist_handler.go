package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"watchroom/internal/api/dto"
	"watchroom/internal/api/models"
	"watchroom/internal/api/service"
)

type WatchlistHandler struct {
	svc service.WatchlistService
}

func NewWatchlistHandler(svc service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{svc: svc}
}

func (h *WatchlistHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Add)
	rg.DELETE("/:imdb_id", h.Remove)
	rg.PATCH("/:imdb_id/watched", h.SetWatched)
}

// Add a movie to the caller's watchlist
func (h *WatchlistHandler) Add(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.AddToWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item := &models.WatchlistItem{
		ImdbID:    req.ImdbID,
		Title:     req.Title,
		Year:      req.Year,
		PosterURL: req.PosterURL,
	}
	if err := h.svc.Add(ctx, userID.(string), item); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyInWatchlist):
			c.JSON(http.StatusConflict, gin.H{"error": "movie already in your watchlist"})
		case errors.Is(err, service.ErrInvalidMovie):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "movie added to watchlist"})
}

// List the caller's watchlist, newest first
func (h *WatchlistHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.svc.List(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.WatchlistItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.FromWatchlistItem(item))
	}

	c.JSON(http.StatusOK, dto.WatchlistResponse{
		Items: responses,
		Total: len(responses),
	})
}

// Remove a movie from the caller's watchlist
func (h *WatchlistHandler) Remove(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Remove(ctx, userID.(string), c.Param("imdb_id")); err != nil {
		if errors.Is(err, service.ErrNotInWatchlist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not in your watchlist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// SetWatched flips the watched flag on one of the caller's entries
func (h *WatchlistHandler) SetWatched(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.SetWatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.SetWatched(ctx, userID.(string), c.Param("imdb_id"), *req.Watched); err != nil {
		if errors.Is(err, service.ErrNotInWatchlist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not in your watchlist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "watched status updated"})
}
