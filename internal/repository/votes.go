package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ideahub/internal/models"
	"ideahub/internal/services"
)

func (s *Store) GetVote(ctx context.Context, userID, ideaID string) (*models.Vote, error) {
	var v models.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "Vote")
	}
	return &v, nil
}

// ApplyVote serialises votes per idea by locking the idea row, so the
// decision is made on the vote as stored and the counters move by exactly
// the decided delta.
func (s *Store) ApplyVote(ctx context.Context, userID, ideaID string, decide func(current models.VoteType) services.VoteOutcome) (services.VoteOutcome, services.VoteCounts, error) {
	var (
		outcome services.VoteOutcome
		counts  services.VoteCounts
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var idea models.Idea
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "upvotes", "downvotes").
			Where("id = ? AND is_deleted = ?", ideaID, false).
			First(&idea).Error
		if err != nil {
			return translate(err, "Idea")
		}

		var existing models.Vote
		current := models.NoVote
		err = tx.Where("user_id = ? AND idea_id = ?", userID, ideaID).First(&existing).Error
		switch {
		case err == nil:
			current = existing.Type
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		outcome = decide(current)
		switch outcome.Action {
		case services.VoteCreated:
			err = tx.Create(&models.Vote{UserID: userID, IdeaID: ideaID, Type: outcome.Type}).Error
		case services.VoteRemoved:
			err = tx.Delete(&existing).Error
		case services.VoteUpdated:
			err = tx.Model(&existing).Update("type", outcome.Type).Error
		}
		if err != nil {
			return err
		}

		err = tx.Model(&models.Idea{}).Where("id = ?", ideaID).UpdateColumns(map[string]interface{}{
			"upvotes":   gorm.Expr("upvotes + ?", outcome.Delta.Upvotes),
			"downvotes": gorm.Expr("downvotes + ?", outcome.Delta.Downvotes),
		}).Error
		if err != nil {
			return err
		}

		counts = services.VoteCounts{Upvotes: idea.Upvotes, Downvotes: idea.Downvotes}.Apply(outcome.Delta)
		return nil
	})
	if err != nil {
		return services.VoteOutcome{}, services.VoteCounts{}, err
	}
	return outcome, counts, nil
}

func (s *Store) CountTally(ctx context.Context, ideaID string) (services.Tally, error) {
	tx := s.db.WithContext(ctx)

	var idea models.Idea
	if err := tx.Select("id", "created_at").Where("id = ?", ideaID).First(&idea).Error; err != nil {
		return services.Tally{}, translate(err, "Idea")
	}

	var up, down, comments int64
	if err := tx.Model(&models.Vote{}).Where("idea_id = ? AND type = ?", ideaID, models.Upvote).Count(&up).Error; err != nil {
		return services.Tally{}, err
	}
	if err := tx.Model(&models.Vote{}).Where("idea_id = ? AND type = ?", ideaID, models.Downvote).Count(&down).Error; err != nil {
		return services.Tally{}, err
	}
	if err := tx.Model(&models.Comment{}).Where("idea_id = ? AND is_deleted = ?", ideaID, false).Count(&comments).Error; err != nil {
		return services.Tally{}, err
	}

	return services.Tally{
		Upvotes:   int(up),
		Downvotes: int(down),
		Comments:  int(comments),
		CreatedAt: idea.CreatedAt,
	}, nil
}

func (s *Store) SaveTally(ctx context.Context, ideaID string, upvotes, downvotes, score int) error {
	res := s.db.WithContext(ctx).Model(&models.Idea{}).Where("id = ?", ideaID).UpdateColumns(map[string]interface{}{
		"upvotes":   upvotes,
		"downvotes": downvotes,
		"score":     score,
	})
	return mustAffect(res, "Idea")
}
