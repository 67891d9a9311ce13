package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ideahub/internal/middleware"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

type UserHandler struct {
	users    *services.UserService
	ideas    *services.IdeaService
	payments *services.PaymentService
}

func NewUserHandler(users *services.UserService, ideas *services.IdeaService, payments *services.PaymentService) *UserHandler {
	return &UserHandler{users: users, ideas: ideas, payments: payments}
}

// Dashboard 仪表盘概览
func (h *UserHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.CurrentIdentity(c)

	recent, total, err := h.ideas.ListMine(ctx, id, services.IdeaFilter{Page: 1, Limit: 5})
	if err != nil {
		RespondError(c, err)
		return
	}
	purchases, err := h.payments.MyPurchases(ctx, id)
	if err != nil {
		RespondError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	Render(c, http.StatusOK, "dashboard/overview.html", gin.H{
		"RecentIdeas":   recent,
		"IdeaCount":     total,
		"PurchaseCount": len(purchases),
		"DaysJoined":    utils.GetDaysSinceJoined(user.CreatedAt),
	})
}

func (h *UserHandler) ShowProfile(c *gin.Context) {
	Render(c, http.StatusOK, "dashboard/profile.html", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var in services.ProfileInput
	if err := bindInput(c, &in); err != nil {
		RespondError(c, err)
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), middleware.CurrentIdentity(c), in); err != nil {
		if middleware.WantsJSON(c) || !utils.IsErrorCode(err, utils.ErrValidation) {
			RespondError(c, err)
			return
		}
		Render(c, http.StatusBadRequest, "dashboard/profile.html", gin.H{"Error": utils.PublicMessage(err)})
		return
	}
	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusOK, "Profile updated", nil)
		return
	}
	Redirect(c, "/dashboard/profile")
}
