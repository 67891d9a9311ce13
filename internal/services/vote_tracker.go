package services

import (
	"errors"

	"ideahub/internal/models"
)

type TrackerState string

const (
	TrackerIdle       TrackerState = "idle"
	TrackerPending    TrackerState = "pending"
	TrackerCommitted  TrackerState = "committed"
	TrackerRolledBack TrackerState = "rolled_back"
)

var (
	ErrVoteInFlight  = errors.New("a vote is already in flight")
	ErrNoVotePending = errors.New("no vote is pending")
)

// VoteTracker holds the optimistic view of one user's vote on one idea.
// Begin shows the expected result immediately. Commit settles it with the
// server's answer and Rollback restores the last confirmed counts.
// A tracker is not safe for concurrent use.
type VoteTracker struct {
	state TrackerState

	confirmed     VoteCounts
	confirmedVote models.VoteType

	displayed     VoteCounts
	displayedVote models.VoteType

	lastErr error
}

func NewVoteTracker(counts VoteCounts, current models.VoteType) *VoteTracker {
	return &VoteTracker{
		state:         TrackerIdle,
		confirmed:     counts,
		confirmedVote: current,
		displayed:     counts,
		displayedVote: current,
	}
}

// Begin applies the optimistic outcome of casting requested.
func (t *VoteTracker) Begin(requested models.VoteType) (VoteOutcome, error) {
	if t.state == TrackerPending {
		return VoteOutcome{}, ErrVoteInFlight
	}
	out := Reconcile(t.confirmedVote, requested)
	t.displayed = t.confirmed.Apply(out.Delta)
	t.displayedVote = out.Type
	t.lastErr = nil
	t.state = TrackerPending
	return out, nil
}

// Commit settles a pending vote with what the server stored. The server's
// counts win over the optimistic guess.
func (t *VoteTracker) Commit(server VoteResult) error {
	if t.state != TrackerPending {
		return ErrNoVotePending
	}
	t.confirmed = server.Counts
	t.confirmedVote = server.Type
	t.displayed = t.confirmed
	t.displayedVote = server.Type
	t.state = TrackerCommitted
	return nil
}

// Rollback reverts a pending vote to the last confirmed state.
func (t *VoteTracker) Rollback(cause error) error {
	if t.state != TrackerPending {
		return ErrNoVotePending
	}
	t.displayed = t.confirmed
	t.displayedVote = t.confirmedVote
	t.lastErr = cause
	t.state = TrackerRolledBack
	return nil
}

func (t *VoteTracker) State() TrackerState { return t.state }

func (t *VoteTracker) Counts() VoteCounts { return t.displayed }

func (t *VoteTracker) Vote() models.VoteType { return t.displayedVote }

func (t *VoteTracker) Err() error { return t.lastErr }
