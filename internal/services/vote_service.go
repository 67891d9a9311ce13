package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"ideahub/internal/metrics"
	"ideahub/internal/models"
	"ideahub/internal/utils"
)

// VoteResult is what the store applied plus the idea's counts afterwards.
type VoteResult struct {
	VoteOutcome
	Counts VoteCounts `json:"counts"`
}

type VoteService struct {
	votes VoteStore
	ideas IdeaStore
	tally TallyScheduler
}

func NewVoteService(votes VoteStore, ideas IdeaStore, tally TallyScheduler) *VoteService {
	if tally == nil {
		tally = noopScheduler{}
	}
	return &VoteService{votes: votes, ideas: ideas, tally: tally}
}

// CurrentVote returns the user's vote on the idea, or nil when there is none.
func (s *VoteService) CurrentVote(ctx context.Context, userID, ideaID string) (*models.Vote, error) {
	if userID == "" {
		return nil, nil
	}
	return s.votes.GetVote(ctx, userID, ideaID)
}

// Submit casts a vote: first cast creates it, repeating removes it and the
// opposite type flips it.
func (s *VoteService) Submit(ctx context.Context, id *Identity, ideaID string, voteType models.VoteType) (*VoteResult, error) {
	if id == nil {
		return nil, utils.NewUnauthenticatedError()
	}
	if !voteType.Valid() {
		return nil, utils.NewValidationError("Vote type must be UPVOTE or DOWNVOTE")
	}

	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.Status != models.IdeaApproved {
		return nil, utils.NewNotFoundError("Idea")
	}

	outcome, counts, err := s.votes.ApplyVote(ctx, id.UserID, ideaID, func(current models.VoteType) VoteOutcome {
		return Reconcile(current, voteType)
	})
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			return nil, err
		}
		log.WithFields(log.Fields{"idea_id": ideaID, "user_id": id.UserID, "type": voteType}).
			WithError(err).Error("failed to apply vote")
		return nil, utils.NewAppError(utils.ErrVoteWriteFailed, "Failed to record vote", err)
	}

	metrics.VoteActions.WithLabelValues(string(outcome.Action)).Inc()
	s.tally.ScheduleUpdate(ideaID)

	return &VoteResult{VoteOutcome: outcome, Counts: counts}, nil
}
