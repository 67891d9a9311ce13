package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

type BlogHandler struct {
	blogs *services.BlogService
}

func NewBlogHandler(blogs *services.BlogService) *BlogHandler {
	return &BlogHandler{blogs: blogs}
}

func (h *BlogHandler) List(c *gin.Context) {
	q := c.Request.URL.Query()
	page, limit := utils.ParsePage(q)
	f := services.BlogFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Page:     page,
		Limit:    limit,
	}

	blogs, total, err := h.blogs.List(c.Request.Context(), f)
	if err != nil {
		RespondError(c, err)
		return
	}
	pagination := utils.NewPagination(page, limit, total, c.Request.URL)
	if middleware.WantsJSON(c) {
		OK(c, http.StatusOK, "Blogs fetched", gin.H{"blogs": blogs, "meta": pagination})
		return
	}
	Render(c, http.StatusOK, "blog/list.html", gin.H{
		"Blogs":      blogs,
		"Filter":     f,
		"Pagination": pagination,
	})
}

// Detail 博客详情, counts a view
func (h *BlogHandler) Detail(c *gin.Context) {
	blog, err := h.blogs.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Render(c, http.StatusOK, "blog/detail.html", gin.H{
		"Blog":    blog,
		"Content": utils.RenderMarkdown(blog.Content),
		"CanEdit": services.Can(middleware.CurrentIdentity(c), services.EditBlog, blog.AuthorID),
	})
}

func (h *BlogHandler) Mine(c *gin.Context) {
	q := c.Request.URL.Query()
	page, limit := utils.ParsePage(q)
	blogs, total, err := h.blogs.ListMine(c.Request.Context(), middleware.CurrentIdentity(c), services.BlogFilter{
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Render(c, http.StatusOK, "dashboard/blogs.html", gin.H{
		"Blogs":      blogs,
		"Pagination": utils.NewPagination(page, limit, total, c.Request.URL),
	})
}

func (h *BlogHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "blog/form.html", gin.H{"Input": services.BlogInput{}})
}

func (h *BlogHandler) Create(c *gin.Context) {
	in, err := bindBlogInput(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	blog, err := h.blogs.Create(c.Request.Context(), middleware.CurrentIdentity(c), in)
	if err != nil {
		h.formError(c, nil, in, err)
		return
	}
	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusCreated, "Blog created", blog)
		return
	}
	Redirect(c, "/blog/"+blog.ID)
}

func (h *BlogHandler) ShowEdit(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	blog, err := h.blogs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if !services.Can(id, services.EditBlog, blog.AuthorID) {
		RespondError(c, utils.NewForbiddenError("only the author can edit this blog"))
		return
	}
	Render(c, http.StatusOK, "blog/form.html", gin.H{
		"Blog": blog,
		"Input": services.BlogInput{
			Title:          blog.Title,
			Content:        blog.Content,
			Excerpt:        blog.Excerpt,
			CoverImage:     blog.CoverImage,
			Category:       blog.Category,
			Tags:           blog.Tags,
			SEODescription: blog.SEODescription,
			SEOKeywords:    blog.SEOKeywords,
		},
	})
}

func (h *BlogHandler) Update(c *gin.Context) {
	in, err := bindBlogInput(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	blog, err := h.blogs.Update(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), in)
	if err != nil {
		h.formError(c, &models.Blog{ID: c.Param("id")}, in, err)
		return
	}
	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusOK, "Blog updated", blog)
		return
	}
	Redirect(c, "/blog/"+blog.ID)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.blogs.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	if isHTMX(c) {
		c.Status(http.StatusOK)
		return
	}
	OK(c, http.StatusOK, "Blog deleted", nil)
}

func (h *BlogHandler) formError(c *gin.Context, blog *models.Blog, in services.BlogInput, err error) {
	if middleware.WantsJSON(c) || !utils.IsErrorCode(err, utils.ErrValidation) {
		RespondError(c, err)
		return
	}
	Render(c, http.StatusBadRequest, "blog/form.html", gin.H{
		"Blog":  blog,
		"Input": in,
		"Error": utils.PublicMessage(err),
	})
}

// bindBlogInput lets forms send tags and keywords as comma separated text.
func bindBlogInput(c *gin.Context) (services.BlogInput, error) {
	var in services.BlogInput
	if err := bindInput(c, &in); err != nil {
		return in, err
	}
	if len(in.Tags) == 1 {
		in.Tags = utils.SplitList(in.Tags[0])
	}
	if len(in.SEOKeywords) == 1 {
		in.SEOKeywords = utils.SplitList(in.SEOKeywords[0])
	}
	return in, nil
}
