package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"ideahub/internal/models"
	"ideahub/internal/utils"
)

type IdeaInput struct {
	Title            string   `json:"title" form:"title" validate:"required,min=5,max=200"`
	ProblemStatement string   `json:"problemStatement" form:"problemStatement" validate:"required,min=20"`
	ProposedSolution string   `json:"proposedSolution" form:"proposedSolution" validate:"required,min=20"`
	Description      string   `json:"description" form:"description" validate:"required,min=50"`
	Images           []string `json:"images" form:"images" validate:"min=1,dive,url"`
	CategoryIDs      []string `json:"categories" form:"categories" validate:"min=1,dive,uuid"`
	IsPaid           bool     `json:"isPaid" form:"isPaid"`
	Price            *float64 `json:"price" form:"price" validate:"omitempty,gte=0"`
	// Submit sends the idea to review, otherwise it is kept as a draft.
	Submit bool `json:"submit" form:"submit"`
}

// AccessChecker decides whether a caller may read a paid idea in full.
type AccessChecker interface {
	HasAccess(ctx context.Context, id *Identity, idea *models.Idea) (bool, error)
}

type IdeaService struct {
	ideas      IdeaStore
	categories CategoryStore
	cache      *utils.Cache
	mailer     Mailer
	access     AccessChecker
}

func NewIdeaService(ideas IdeaStore, categories CategoryStore, cache *utils.Cache, mailer Mailer) *IdeaService {
	if mailer == nil {
		mailer = noopMailer{}
	}
	return &IdeaService{ideas: ideas, categories: categories, cache: cache, mailer: mailer}
}

// ListPublic lists approved ideas.
func (s *IdeaService) ListPublic(ctx context.Context, f IdeaFilter) ([]models.Idea, int64, error) {
	f.Status = models.IdeaApproved
	f.CreatorID = ""
	return s.list(ctx, f)
}

// ListMine lists the caller's ideas in any status.
func (s *IdeaService) ListMine(ctx context.Context, id *Identity, f IdeaFilter) ([]models.Idea, int64, error) {
	if id == nil {
		return nil, 0, utils.NewUnauthenticatedError()
	}
	f.CreatorID = id.UserID
	return s.list(ctx, f)
}

// ListAll is the moderation listing.
func (s *IdeaService) ListAll(ctx context.Context, id *Identity, f IdeaFilter) ([]models.Idea, int64, error) {
	if !Can(id, ModerateIdeas, "") {
		return nil, 0, utils.NewForbiddenError("admin only")
	}
	return s.list(ctx, f)
}

func (s *IdeaService) list(ctx context.Context, f IdeaFilter) ([]models.Idea, int64, error) {
	f.Search = strings.TrimSpace(f.Search)
	ideas, total, err := s.ideas.ListIdeas(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if err := s.fillCommentCounts(ctx, ideas); err != nil {
		log.WithError(err).Warn("failed to count comments")
	}
	return ideas, total, nil
}

// Top returns the highest ranked approved ideas.
func (s *IdeaService) Top(ctx context.Context, limit int) ([]models.Idea, error) {
	ideas, err := s.ideas.TopIdeas(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.fillCommentCounts(ctx, ideas); err != nil {
		log.WithError(err).Warn("failed to count comments")
	}
	return ideas, nil
}

func (s *IdeaService) fillCommentCounts(ctx context.Context, ideas []models.Idea) error {
	if len(ideas) == 0 {
		return nil
	}
	ids := make([]string, len(ideas))
	for i := range ideas {
		ids[i] = ideas[i].ID
	}
	counts, err := s.ideas.CountComments(ctx, ids)
	if err != nil {
		return err
	}
	for i := range ideas {
		ideas[i].CommentCount = counts[ideas[i].ID]
	}
	return nil
}

// Get returns an idea the caller is allowed to see. Unapproved ideas are only
// visible to their creator and admins.
func (s *IdeaService) Get(ctx context.Context, id *Identity, ideaID string) (*models.Idea, error) {
	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.Status != models.IdeaApproved && !Can(id, EditIdea, idea.CreatorID) {
		return nil, utils.NewNotFoundError("Idea")
	}
	return idea, nil
}

// WithAccess sets the paywall used by Open.
func (s *IdeaService) WithAccess(access AccessChecker) *IdeaService {
	s.access = access
	return s
}

// Open returns an idea whose full content, comments and votes the caller may
// use. Paid ideas need a completed purchase unless the caller is the creator
// or an admin.
func (s *IdeaService) Open(ctx context.Context, id *Identity, ideaID string) (*models.Idea, error) {
	idea, err := s.Get(ctx, id, ideaID)
	if err != nil {
		return nil, err
	}
	if !idea.IsPaid || Can(id, ViewPaidIdea, idea.CreatorID) {
		return idea, nil
	}
	if id == nil {
		return nil, utils.NewUnauthenticatedError()
	}
	ok := false
	if s.access != nil {
		if ok, err = s.access.HasAccess(ctx, id, idea); err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, utils.NewForbiddenError("purchase this idea to join the discussion")
	}
	return idea, nil
}

func (s *IdeaService) Create(ctx context.Context, id *Identity, in IdeaInput) (*models.Idea, error) {
	if id == nil {
		return nil, utils.NewUnauthenticatedError()
	}
	in = normalizeIdeaInput(in)
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	idea := &models.Idea{CreatorID: id.UserID}
	applyIdeaInput(idea, in)
	if err := s.ideas.CreateIdea(ctx, idea, in.CategoryIDs); err != nil {
		return nil, utils.NewAppError(utils.ErrWriteFailed, "Failed to save idea", err)
	}
	return idea, nil
}

// Update edits an idea. Members cannot edit an idea once it is approved.
func (s *IdeaService) Update(ctx context.Context, id *Identity, ideaID string, in IdeaInput) (*models.Idea, error) {
	if id == nil {
		return nil, utils.NewUnauthenticatedError()
	}
	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !Can(id, EditIdea, idea.CreatorID) {
		return nil, utils.NewForbiddenError("only the creator can edit this idea")
	}
	if idea.Status == models.IdeaApproved && !id.IsAdmin() {
		return nil, utils.NewForbiddenError("approved ideas can no longer be edited")
	}

	in = normalizeIdeaInput(in)
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}
	wasApproved := idea.Status == models.IdeaApproved
	applyIdeaInput(idea, in)
	if wasApproved {
		idea.Status = models.IdeaApproved
	}
	if err := s.ideas.UpdateIdea(ctx, idea, in.CategoryIDs); err != nil {
		return nil, utils.NewAppError(utils.ErrWriteFailed, "Failed to save idea", err)
	}
	s.invalidate(ideaID)
	return idea, nil
}

func (s *IdeaService) Delete(ctx context.Context, id *Identity, ideaID string) error {
	if id == nil {
		return utils.NewUnauthenticatedError()
	}
	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return err
	}
	if !Can(id, EditIdea, idea.CreatorID) {
		return utils.NewForbiddenError("only the creator or an admin can delete this idea")
	}
	if err := s.ideas.SoftDeleteIdea(ctx, ideaID); err != nil {
		return utils.NewAppError(utils.ErrWriteFailed, "Failed to delete idea", err)
	}
	s.invalidate(ideaID)
	return nil
}

// UpdateStatus moves an idea through moderation. Rejections need feedback.
func (s *IdeaService) UpdateStatus(ctx context.Context, id *Identity, ideaID string, status models.IdeaStatus, feedback string) error {
	if !Can(id, ModerateIdeas, "") {
		return utils.NewForbiddenError("admin only")
	}
	if !status.Valid() {
		return utils.NewValidationError("Unknown status " + string(status))
	}
	feedback = strings.TrimSpace(feedback)
	if status == models.IdeaRejected && feedback == "" {
		return utils.NewValidationError("Rejection feedback is required")
	}
	if status != models.IdeaRejected {
		feedback = ""
	}

	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return err
	}
	if err := s.ideas.UpdateIdeaStatus(ctx, ideaID, status, feedback); err != nil {
		return utils.NewAppError(utils.ErrWriteFailed, "Failed to update status", err)
	}
	log.WithFields(log.Fields{"idea_id": ideaID, "status": status, "admin_id": id.UserID}).Info("idea status changed")
	s.invalidate(ideaID)

	// 通知作者
	if status != idea.Status && (status == models.IdeaApproved || status == models.IdeaRejected) && idea.Creator.Email != "" {
		s.mailer.IdeaStatusChanged(idea.Creator.Email, idea.Creator.Name, idea.ID, idea.Title, status, feedback)
	}
	return nil
}

func (s *IdeaService) validateInput(ctx context.Context, in IdeaInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.IsPaid && (in.Price == nil || *in.Price <= 0) {
		return utils.NewValidationError("Paid ideas need a price greater than zero")
	}

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}
	for _, cid := range in.CategoryIDs {
		if !known[cid] {
			return utils.NewValidationError("Unknown category " + cid)
		}
	}
	return nil
}

func (s *IdeaService) invalidate(ideaID string) {
	if s.cache != nil {
		s.cache.InvalidateIdea(ideaID)
	}
}

func normalizeIdeaInput(in IdeaInput) IdeaInput {
	in.Title = strings.TrimSpace(in.Title)
	in.ProblemStatement = strings.TrimSpace(in.ProblemStatement)
	in.ProposedSolution = strings.TrimSpace(in.ProposedSolution)
	in.Description = strings.TrimSpace(in.Description)

	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	in.Images = images

	if !in.IsPaid {
		in.Price = nil
	}
	return in
}

func applyIdeaInput(idea *models.Idea, in IdeaInput) {
	idea.Title = in.Title
	idea.ProblemStatement = in.ProblemStatement
	idea.ProposedSolution = in.ProposedSolution
	idea.Description = in.Description
	idea.Images = in.Images
	idea.IsPaid = in.IsPaid
	idea.Price = in.Price
	idea.RejectionFeedback = ""
	if in.Submit {
		idea.Status = models.IdeaPending
	} else {
		idea.Status = models.IdeaDraft
	}
}
