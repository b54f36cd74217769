package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reelstack/reelstack-api/internal/application"
	repo "github.com/reelstack/reelstack-api/internal/domain/repository"
	"github.com/reelstack/reelstack-api/pkg/response"
	"github.com/reelstack/reelstack-api/pkg/validation"
)

type CategoryHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCategoryHandler(svc *application.CatalogService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{Svc: svc, Logger: logger}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error[any](c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list categories failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list categories", nil)
		return
	}
	response.Success(c, http.StatusOK, cats, "categories")
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := h.Svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "category not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get category failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to get category", nil)
		return
	}
	response.Success(c, http.StatusOK, cat, "category")
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, application.ErrNameTaken) {
			response.Error[any](c, http.StatusConflict, "category already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("create category failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create category", nil)
		return
	}
	response.Success(c, http.StatusCreated, cat, "category created")
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "category not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update category failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update category", nil)
		return
	}
	response.Success(c, http.StatusOK, cat, "category updated")
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "category not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete category failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete category", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "category deleted")
}

// Movies handles GET /categories/:id/movies.
func (h *CategoryHandler) Movies(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	movies, err := h.Svc.MoviesInCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrUnknownCategory) {
			response.Error[any](c, http.StatusNotFound, "category not found", nil)
			return
		}
		h.Logger.WithError(err).Error("list movies in category failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list movies", nil)
		return
	}
	response.Success(c, http.StatusOK, movies, "movies")
}
