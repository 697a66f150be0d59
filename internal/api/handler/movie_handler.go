package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"watchroom/internal/api/service"
	"watchroom/internal/metadata"
)

type MovieHandler struct {
	svc service.MovieService
}

func NewMovieHandler(svc service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

func (h *MovieHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/trending", h.Trending)
	rg.GET("/top-rated", h.TopRated)
	rg.GET("/imdb-id", h.ImdbID)
	rg.GET("/:imdb_id", h.Details)
}

// Search proxies an OMDB title search
func (h *MovieHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter \"q\" is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.svc.Search(ctx, query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to search movies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Details proxies an OMDB detail lookup
func (h *MovieHandler) Details(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	details, err := h.svc.Details(ctx, c.Param("imdb_id"))
	if err != nil {
		if errors.Is(err, metadata.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch movie details"})
		return
	}

	c.JSON(http.StatusOK, details)
}

// Trending returns today's TMDB trending billboard
func (h *MovieHandler) Trending(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	movies, err := h.svc.Trending(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch trending movies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": movies})
}

// TopRated returns the TMDB top-rated billboard
func (h *MovieHandler) TopRated(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	movies, err := h.svc.TopRated(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch top rated movies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": movies})
}

// ImdbID translates a TMDB id to an IMDb id
func (h *MovieHandler) ImdbID(c *gin.Context) {
	tmdbID, err := strconv.ParseInt(c.Query("tmdb_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tmdb_id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	imdbID, err := h.svc.ImdbID(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, metadata.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no imdb id for this movie"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch imdb id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imdb_id": imdbID})
}
