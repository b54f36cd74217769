package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reelstack/reelstack-api/internal/application"
	"github.com/reelstack/reelstack-api/internal/domain/entity"
	repo "github.com/reelstack/reelstack-api/internal/domain/repository"
	"github.com/reelstack/reelstack-api/pkg/response"
	"github.com/reelstack/reelstack-api/pkg/validation"
)

type MovieHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewMovieHandler(svc *application.CatalogService, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{Svc: svc, Logger: logger}
}

type movieRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	Duration    int    `json:"duration" binding:"required,gt=0"`
	AgeRating   int    `json:"age_rating" binding:"required,oneof=7 13 16 18"`
	CategoryID  int64  `json:"category_id" binding:"required,gt=0"`
}

func (r *movieRequest) toEntity(id int64) *entity.Movie {
	return &entity.Movie{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Duration:    r.Duration,
		AgeRating:   r.AgeRating,
		CategoryID:  r.CategoryID,
	}
}

// List handles GET /movies?page=&page_size=.
func (h *MovieHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := h.Svc.ListMovies(c.Request.Context(), page, pageSize)
	if err != nil {
		h.Logger.WithError(err).Error("list movies failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list movies", nil)
		return
	}
	response.Success(c, http.StatusOK, res, "movies")
}

func (h *MovieHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.Svc.GetMovie(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "movie not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get movie failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to get movie", nil)
		return
	}
	response.Success(c, http.StatusOK, m, "movie")
}

// Search handles GET /movies/search?q=.
func (h *MovieHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	movies, err := h.Svc.SearchMovies(c.Request.Context(), q)
	if err != nil {
		h.Logger.WithError(err).Error("search movies failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to search movies", nil)
		return
	}
	response.Success(c, http.StatusOK, movies, "movies")
}

func (h *MovieHandler) Create(c *gin.Context) {
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m := req.toEntity(0)
	if err := h.Svc.CreateMovie(c.Request.Context(), m); err != nil {
		switch {
		case errors.Is(err, application.ErrNameTaken):
			response.Error[any](c, http.StatusConflict, "movie already exists", nil)
		case errors.Is(err, application.ErrUnknownCategory):
			response.Error[any](c, http.StatusBadRequest, "category does not exist", nil)
		default:
			h.Logger.WithError(err).Error("create movie failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to create movie", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, m, "movie created")
}

func (h *MovieHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m := req.toEntity(id)
	if err := h.Svc.UpdateMovie(c.Request.Context(), m); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			response.Error[any](c, http.StatusNotFound, "movie not found", nil)
		case errors.Is(err, application.ErrUnknownCategory):
			response.Error[any](c, http.StatusBadRequest, "category does not exist", nil)
		default:
			h.Logger.WithError(err).Error("update movie failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to update movie", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, m, "movie updated")
}

func (h *MovieHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteMovie(c.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "movie not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete movie failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete movie", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "movie deleted")
}
