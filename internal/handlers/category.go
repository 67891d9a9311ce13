package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ideahub/internal/middleware"
	"ideahub/internal/services"
)

type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List returns all categories (GET /api/categories)
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	OK(c, http.StatusOK, "Categories fetched", categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	OK(c, http.StatusOK, "Category fetched", category)
}

// AdminList 分类管理页面
func (h *CategoryHandler) AdminList(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Render(c, http.StatusOK, "admin/categories.html", gin.H{"Categories": categories})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in services.CategoryInput
	if err := bindInput(c, &in); err != nil {
		RespondError(c, err)
		return
	}
	category, err := h.categories.Create(c.Request.Context(), middleware.CurrentIdentity(c), in)
	if err != nil {
		RespondError(c, err)
		return
	}
	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusCreated, "Category created", category)
		return
	}
	Redirect(c, "/dashboard/admin/categories")
}

func (h *CategoryHandler) Rename(c *gin.Context) {
	var in services.CategoryInput
	if err := bindInput(c, &in); err != nil {
		RespondError(c, err)
		return
	}
	if err := h.categories.Rename(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), in); err != nil {
		RespondError(c, err)
		return
	}
	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusOK, "Category renamed", nil)
		return
	}
	Redirect(c, "/dashboard/admin/categories")
}
