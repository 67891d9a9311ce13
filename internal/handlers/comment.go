package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

type commentUsecase interface {
	ListTree(ctx context.Context, ideaID string) ([]*services.CommentNode, error)
	Create(ctx context.Context, id *services.Identity, in services.CreateCommentInput) (*models.Comment, error)
	Delete(ctx context.Context, id *services.Identity, commentID string) (string, error)
}

// ideaReader resolves an idea the caller may read in full, paywall included.
type ideaReader interface {
	Open(ctx context.Context, id *services.Identity, ideaID string) (*models.Idea, error)
}

type CommentHandler struct {
	comments commentUsecase
	ideas    ideaReader
}

func NewCommentHandler(comments commentUsecase, ideas ideaReader) *CommentHandler {
	return &CommentHandler{comments: comments, ideas: ideas}
}

// List returns the comment tree of an idea (GET /api/ideas/:id/comments)
func (h *CommentHandler) List(c *gin.Context) {
	ideaID := c.Param("id")
	if _, err := h.ideas.Open(c.Request.Context(), middleware.CurrentIdentity(c), ideaID); err != nil {
		RespondError(c, err)
		return
	}

	tree, err := h.comments.ListTree(c.Request.Context(), ideaID)
	if err != nil {
		RespondError(c, err)
		return
	}
	OK(c, http.StatusOK, "Comments fetched", gin.H{
		"comments": tree,
		"total":    services.CountComments(tree),
	})
}

// Create posts a comment or a reply (POST /ideas/:id/comments)
func (h *CommentHandler) Create(c *gin.Context) {
	var in services.CreateCommentInput
	if err := bindInput(c, &in); err != nil {
		RespondError(c, err)
		return
	}
	in.IdeaID = c.Param("id")

	id := middleware.CurrentIdentity(c)
	if id == nil {
		RespondError(c, utils.NewUnauthenticatedError())
		return
	}
	if _, err := h.ideas.Open(c.Request.Context(), id, in.IdeaID); err != nil {
		RespondError(c, err)
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), id, in)
	if err != nil {
		RespondError(c, err)
		return
	}

	switch {
	case isHTMX(c):
		h.renderTree(c, in.IdeaID)
	case middleware.WantsJSON(c):
		OK(c, http.StatusCreated, "Comment posted", comment)
	default:
		c.Redirect(http.StatusFound, "/ideas/"+in.IdeaID+"#comment-"+comment.ID)
	}
}

// Delete soft-deletes a comment (DELETE /comments/:id)
func (h *CommentHandler) Delete(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	ideaID, err := h.comments.Delete(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	if isHTMX(c) {
		h.renderTree(c, ideaID)
		return
	}
	OK(c, http.StatusOK, "Comment deleted", gin.H{"ideaId": ideaID})
}

// renderTree re-renders the comment section fragment after a change.
func (h *CommentHandler) renderTree(c *gin.Context, ideaID string) {
	tree, err := h.comments.ListTree(c.Request.Context(), ideaID)
	if err != nil {
		RespondError(c, err)
		return
	}
	Render(c, http.StatusOK, "comments/tree.html", gin.H{
		"IdeaID":   ideaID,
		"Comments": tree,
		"Total":    services.CountComments(tree),
	})
}
