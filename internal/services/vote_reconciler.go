package services

import "ideahub/internal/models"

type VoteAction string

const (
	VoteCreated VoteAction = "created"
	VoteRemoved VoteAction = "removed"
	VoteUpdated VoteAction = "updated"
)

type VoteCounts struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// VoteDelta is the change a vote action applies to an idea's counters.
type VoteDelta struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

func (c VoteCounts) Apply(d VoteDelta) VoteCounts {
	return VoteCounts{Upvotes: c.Upvotes + d.Upvotes, Downvotes: c.Downvotes + d.Downvotes}
}

// VoteOutcome describes what a cast does to the stored vote.
type VoteOutcome struct {
	Action   VoteAction      `json:"action"`
	Previous models.VoteType `json:"previous,omitempty"`
	Type     models.VoteType `json:"type,omitempty"` // empty once removed
	Delta    VoteDelta       `json:"delta"`
}

// Reconcile decides the effect of casting requested on top of current
// (models.NoVote when the user has not voted): a first cast creates the vote,
// repeating it removes the vote, casting the opposite type flips it.
// requested must be a valid vote type.
func Reconcile(current, requested models.VoteType) VoteOutcome {
	switch current {
	case models.NoVote:
		return VoteOutcome{
			Action: VoteCreated,
			Type:   requested,
			Delta:  deltaFor(requested, 1),
		}
	case requested:
		return VoteOutcome{
			Action:   VoteRemoved,
			Previous: current,
			Type:     models.NoVote,
			Delta:    deltaFor(current, -1),
		}
	default:
		d := deltaFor(current, -1)
		add := deltaFor(requested, 1)
		return VoteOutcome{
			Action:   VoteUpdated,
			Previous: current,
			Type:     requested,
			Delta:    VoteDelta{Upvotes: d.Upvotes + add.Upvotes, Downvotes: d.Downvotes + add.Downvotes},
		}
	}
}

func deltaFor(t models.VoteType, n int) VoteDelta {
	switch t {
	case models.Upvote:
		return VoteDelta{Upvotes: n}
	case models.Downvote:
		return VoteDelta{Downvotes: n}
	}
	return VoteDelta{}
}
