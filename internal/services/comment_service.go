package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"ideahub/internal/metrics"
	"ideahub/internal/models"
	"ideahub/internal/utils"
)

// TallyScheduler queues an idea for an asynchronous recount.
type TallyScheduler interface {
	ScheduleUpdate(ideaID string)
}

type noopScheduler struct{}

func (noopScheduler) ScheduleUpdate(string) {}

type CreateCommentInput struct {
	IdeaID   string  `json:"ideaId" form:"ideaId" validate:"required"`
	Content  string  `json:"content" form:"content" validate:"required,min=3,max=500"`
	ParentID *string `json:"parentCommentId" form:"parentCommentId" validate:"omitempty,uuid"`
}

type CommentService struct {
	comments CommentStore
	ideas    IdeaStore
	tally    TallyScheduler
	mailer   Mailer
}

func NewCommentService(comments CommentStore, ideas IdeaStore, tally TallyScheduler, mailer Mailer) *CommentService {
	if tally == nil {
		tally = noopScheduler{}
	}
	if mailer == nil {
		mailer = noopMailer{}
	}
	return &CommentService{comments: comments, ideas: ideas, tally: tally, mailer: mailer}
}

// ListTree returns the comments of an idea arranged as a reply forest.
func (s *CommentService) ListTree(ctx context.Context, ideaID string) ([]*CommentNode, error) {
	comments, err := s.comments.ListComments(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

func (s *CommentService) Create(ctx context.Context, id *Identity, in CreateCommentInput) (*models.Comment, error) {
	if id == nil {
		return nil, utils.NewUnauthenticatedError()
	}

	in.Content = strings.TrimSpace(in.Content)
	if in.ParentID != nil && strings.TrimSpace(*in.ParentID) == "" {
		in.ParentID = nil
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	idea, err := s.ideas.GetIdea(ctx, in.IdeaID)
	if err != nil {
		return nil, err
	}
	if idea.Status != models.IdeaApproved && !Can(id, EditIdea, idea.CreatorID) {
		return nil, utils.NewNotFoundError("Idea")
	}

	var parent *models.Comment
	if in.ParentID != nil {
		if parent, err = s.checkParent(ctx, *in.ParentID, in.IdeaID); err != nil {
			return nil, err
		}
	}

	comment := &models.Comment{
		IdeaID:   in.IdeaID,
		UserID:   id.UserID,
		ParentID: in.ParentID,
		Content:  in.Content,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		metrics.CommentOps.WithLabelValues("create", "error").Inc()
		log.WithFields(log.Fields{"idea_id": in.IdeaID, "user_id": id.UserID}).
			WithError(err).Error("failed to create comment")
		return nil, utils.NewAppError(utils.ErrCommentWriteFailed, "Failed to post comment", err)
	}
	metrics.CommentOps.WithLabelValues("create", "ok").Inc()

	comment.User = models.User{ID: id.UserID, Name: id.Name}
	s.tally.ScheduleUpdate(in.IdeaID)
	if parent != nil && parent.UserID != id.UserID && parent.User.Email != "" {
		s.mailer.CommentReplied(parent.User.Email, id.Name, idea.ID, idea.Title, comment.Content, parent.Content)
	}
	return comment, nil
}

// checkParent rejects replies to comments that are missing, deleted or belong
// to another idea.
func (s *CommentService) checkParent(ctx context.Context, parentID, ideaID string) (*models.Comment, error) {
	parent, err := s.comments.GetComment(ctx, parentID)
	if utils.IsErrorCode(err, utils.ErrNotFound) {
		return nil, utils.NewValidationError("Parent comment not found")
	}
	if err != nil {
		return nil, err
	}
	if parent.IdeaID != ideaID {
		return nil, utils.NewValidationError("Parent comment belongs to another idea")
	}
	if parent.IsDeleted {
		return nil, utils.NewValidationError("Cannot reply to a deleted comment")
	}
	return parent, nil
}

// Delete soft-deletes a comment so its replies stay attached. Only the author
// or an admin may delete. It returns the idea the comment belonged to.
func (s *CommentService) Delete(ctx context.Context, id *Identity, commentID string) (string, error) {
	if id == nil {
		return "", utils.NewUnauthenticatedError()
	}

	comment, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return "", err
	}
	if !Can(id, DeleteComment, comment.UserID) {
		return "", utils.NewForbiddenError("only the author or an admin can delete this comment")
	}
	if comment.IsDeleted {
		return comment.IdeaID, nil
	}

	if err := s.comments.SoftDeleteComment(ctx, commentID, models.DeletedCommentText); err != nil {
		metrics.CommentOps.WithLabelValues("delete", "error").Inc()
		log.WithFields(log.Fields{"comment_id": commentID, "user_id": id.UserID}).
			WithError(err).Error("failed to delete comment")
		return "", utils.NewAppError(utils.ErrCommentWriteFailed, "Failed to delete comment", err)
	}
	metrics.CommentOps.WithLabelValues("delete", "ok").Inc()

	s.tally.ScheduleUpdate(comment.IdeaID)
	return comment.IdeaID, nil
}
