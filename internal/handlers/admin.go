package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

// AdminHandler serves the moderation dashboard. Every route sits behind
// middleware.AdminRequired and the services check capabilities again.
type AdminHandler struct {
	ideas    *services.IdeaService
	users    *services.UserService
	payments *services.PaymentService
	blogs    *services.BlogService
}

func NewAdminHandler(ideas *services.IdeaService, users *services.UserService, payments *services.PaymentService, blogs *services.BlogService) *AdminHandler {
	return &AdminHandler{ideas: ideas, users: users, payments: payments, blogs: blogs}
}

// Ideas lists ideas in every status with filters.
func (h *AdminHandler) Ideas(c *gin.Context) {
	q := c.Request.URL.Query()
	page, limit := utils.ParsePage(q)
	f := services.IdeaFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
		Status:     models.IdeaStatus(strings.ToUpper(q.Get("status"))),
		IsPaid:     utils.ParseBoolPtr(q.Get("isPaid")),
		Page:       page,
		Limit:      limit,
	}

	ideas, total, err := h.ideas.ListAll(c.Request.Context(), middleware.CurrentIdentity(c), f)
	if err != nil {
		RespondError(c, err)
		return
	}
	pagination := utils.NewPagination(page, limit, total, c.Request.URL)
	if middleware.WantsJSON(c) {
		OK(c, http.StatusOK, "Ideas fetched", gin.H{"ideas": ideas, "meta": pagination})
		return
	}
	Render(c, http.StatusOK, "admin/ideas.html", gin.H{
		"Ideas":      ideas,
		"Filter":     f,
		"Pagination": pagination,
		"Statuses": []models.IdeaStatus{
			models.IdeaDraft, models.IdeaPending, models.IdeaUnderReview,
			models.IdeaApproved, models.IdeaRejected,
		},
	})
}

type statusRequest struct {
	Status   string `json:"status" form:"status"`
	Feedback string `json:"feedback" form:"feedback"`
}

// UpdateIdeaStatus 审核 (approve / reject / under review)
func (h *AdminHandler) UpdateIdeaStatus(c *gin.Context) {
	var req statusRequest
	if err := bindInput(c, &req); err != nil {
		RespondError(c, err)
		return
	}
	status := models.IdeaStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err := h.ideas.UpdateStatus(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), status, req.Feedback); err != nil {
		RespondError(c, err)
		return
	}
	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusOK, "Status updated", gin.H{"status": status})
		return
	}
	Redirect(c, "/dashboard/admin/ideas")
}

func (h *AdminHandler) Users(c *gin.Context) {
	q := c.Request.URL.Query()
	page, limit := utils.ParsePage(q)
	users, total, err := h.users.List(c.Request.Context(), middleware.CurrentIdentity(c), services.UserFilter{
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	pagination := utils.NewPagination(page, limit, total, c.Request.URL)
	if middleware.WantsJSON(c) {
		OK(c, http.StatusOK, "Users fetched", gin.H{"users": models.Accounts(users), "meta": pagination})
		return
	}
	Render(c, http.StatusOK, "admin/users.html", gin.H{
		"Users":      users,
		"Pagination": pagination,
		"Search":     q.Get("search"),
	})
}

type roleRequest struct {
	Role string `json:"role" form:"role"`
}

func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req roleRequest
	if err := bindInput(c, &req); err != nil {
		RespondError(c, err)
		return
	}
	role := models.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if err := h.users.ChangeRole(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), role); err != nil {
		RespondError(c, err)
		return
	}
	h.userDone(c, "Role updated")
}

func (h *AdminHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *AdminHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AdminHandler) setActive(c *gin.Context, active bool) {
	if err := h.users.SetActive(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), active); err != nil {
		RespondError(c, err)
		return
	}
	if active {
		h.userDone(c, "User activated")
	} else {
		h.userDone(c, "User deactivated")
	}
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	h.userDone(c, "User deleted")
}

func (h *AdminHandler) userDone(c *gin.Context, message string) {
	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusOK, message, nil)
		return
	}
	Redirect(c, "/dashboard/admin/users")
}

func (h *AdminHandler) Payments(c *gin.Context) {
	payments, err := h.payments.ListAll(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	if middleware.WantsJSON(c) {
		OK(c, http.StatusOK, "Payments fetched", payments)
		return
	}
	Render(c, http.StatusOK, "admin/payments.html", gin.H{"Payments": payments})
}

func (h *AdminHandler) Blogs(c *gin.Context) {
	q := c.Request.URL.Query()
	page, limit := utils.ParsePage(q)
	blogs, total, err := h.blogs.List(c.Request.Context(), services.BlogFilter{
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Render(c, http.StatusOK, "admin/blogs.html", gin.H{
		"Blogs":      blogs,
		"Pagination": utils.NewPagination(page, limit, total, c.Request.URL),
	})
}
