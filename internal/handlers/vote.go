package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ideahub/internal/metrics"
	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

type voteUsecase interface {
	CurrentVote(ctx context.Context, userID, ideaID string) (*models.Vote, error)
	Submit(ctx context.Context, id *services.Identity, ideaID string, voteType models.VoteType) (*services.VoteResult, error)
}

type VoteHandler struct {
	votes   voteUsecase
	ideas   ideaReader
	timeout time.Duration
}

func NewVoteHandler(votes voteUsecase, ideas ideaReader, timeout time.Duration) *VoteHandler {
	return &VoteHandler{votes: votes, ideas: ideas, timeout: timeout}
}

// voteView is the vote widget state sent to clients.
type voteView struct {
	IdeaID    string                `json:"ideaId"`
	Action    services.VoteAction   `json:"action,omitempty"`
	Type      models.VoteType       `json:"type"`
	Upvotes   int                   `json:"upvotes"`
	Downvotes int                   `json:"downvotes"`
	State     services.TrackerState `json:"state"`
}

type voteRequest struct {
	Type string `json:"type" form:"type"`
}

// Current returns the caller's vote and the idea's counts (GET /api/ideas/:id/vote)
func (h *VoteHandler) Current(c *gin.Context) {
	ideaID := c.Param("id")
	id := middleware.CurrentIdentity(c)

	idea, err := h.ideas.Open(c.Request.Context(), id, ideaID)
	if err != nil {
		RespondError(c, err)
		return
	}
	current, err := h.currentType(c.Request.Context(), id, ideaID)
	if err != nil {
		RespondError(c, err)
		return
	}
	OK(c, http.StatusOK, "Vote fetched", voteView{
		IdeaID:    ideaID,
		Type:      current,
		Upvotes:   idea.Upvotes,
		Downvotes: idea.Downvotes,
		State:     services.TrackerIdle,
	})
}

// Vote casts, flips or withdraws a vote (POST /ideas/:id/vote).
// The widget is updated optimistically and settled with the stored result,
// or rolled back to the last confirmed counts when the write fails.
func (h *VoteHandler) Vote(c *gin.Context) {
	ideaID := c.Param("id")
	id := middleware.CurrentIdentity(c)
	if id == nil {
		RespondError(c, utils.NewUnauthenticatedError())
		return
	}

	var req voteRequest
	if err := bindInput(c, &req); err != nil {
		RespondError(c, err)
		return
	}
	voteType := models.VoteType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if !voteType.Valid() {
		RespondError(c, utils.NewValidationError("Vote type must be UPVOTE or DOWNVOTE"))
		return
	}

	idea, err := h.ideas.Open(c.Request.Context(), id, ideaID)
	if err != nil {
		RespondError(c, err)
		return
	}
	current, err := h.currentType(c.Request.Context(), id, ideaID)
	if err != nil {
		RespondError(c, err)
		return
	}

	tracker := services.NewVoteTracker(services.VoteCounts{Upvotes: idea.Upvotes, Downvotes: idea.Downvotes}, current)
	outcome, err := tracker.Begin(voteType)
	if err != nil {
		RespondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.votes.Submit(ctx, id, ideaID, voteType)
	if err != nil {
		_ = tracker.Rollback(err)
		metrics.VoteRollbacks.Inc()
		log.WithFields(log.Fields{"idea_id": ideaID, "user_id": id.UserID, "action": outcome.Action}).
			WithError(err).Warn("vote rolled back")
		h.respondRollback(c, ideaID, tracker)
		return
	}
	_ = tracker.Commit(*result)

	view := trackerView(ideaID, tracker)
	view.Action = result.Action
	if isHTMX(c) {
		Render(c, http.StatusOK, "ideas/vote.html", gin.H{"Vote": view})
		return
	}
	OK(c, http.StatusOK, "Vote recorded", view)
}

func (h *VoteHandler) respondRollback(c *gin.Context, ideaID string, tracker *services.VoteTracker) {
	err := tracker.Err()
	status := utils.HTTPStatus(err)
	view := trackerView(ideaID, tracker)

	if isHTMX(c) && status != http.StatusUnauthorized {
		Render(c, status, "ideas/vote.html", gin.H{"Vote": view, "Error": utils.PublicMessage(err)})
		return
	}
	if !middleware.WantsJSON(c) {
		RespondError(c, err)
		return
	}
	code := utils.ErrorCode(err)
	if code == "" {
		code = utils.ErrInternal
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"code":    code,
		"message": utils.PublicMessage(err),
		"data":    view,
	})
}

func (h *VoteHandler) currentType(ctx context.Context, id *services.Identity, ideaID string) (models.VoteType, error) {
	if id == nil {
		return models.NoVote, nil
	}
	v, err := h.votes.CurrentVote(ctx, id.UserID, ideaID)
	if err != nil || v == nil {
		return models.NoVote, err
	}
	return v.Type, nil
}

func trackerView(ideaID string, t *services.VoteTracker) voteView {
	counts := t.Counts()
	return voteView{
		IdeaID:    ideaID,
		Type:      t.Vote(),
		Upvotes:   counts.Upvotes,
		Downvotes: counts.Downvotes,
		State:     t.State(),
	}
}
