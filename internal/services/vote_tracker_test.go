package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub/internal/models"
)

func TestVoteTracker_BeginShowsOptimisticCounts(t *testing.T) {
	tr := NewVoteTracker(VoteCounts{Upvotes: 3, Downvotes: 1}, models.NoVote)
	assert.Equal(t, TrackerIdle, tr.State())

	out, err := tr.Begin(models.Upvote)
	require.NoError(t, err)
	assert.Equal(t, VoteCreated, out.Action)
	assert.Equal(t, TrackerPending, tr.State())
	assert.Equal(t, VoteCounts{Upvotes: 4, Downvotes: 1}, tr.Counts())
	assert.Equal(t, models.Upvote, tr.Vote())
}

func TestVoteTracker_SecondBeginWhilePending(t *testing.T) {
	tr := NewVoteTracker(VoteCounts{}, models.NoVote)
	_, err := tr.Begin(models.Upvote)
	require.NoError(t, err)

	_, err = tr.Begin(models.Downvote)
	assert.ErrorIs(t, err, ErrVoteInFlight)
	assert.Equal(t, VoteCounts{Upvotes: 1}, tr.Counts())
}

func TestVoteTracker_CommitUsesServerCounts(t *testing.T) {
	tr := NewVoteTracker(VoteCounts{Upvotes: 3}, models.NoVote)
	_, err := tr.Begin(models.Upvote)
	require.NoError(t, err)

	// Another user voted in the meantime.
	server := VoteResult{
		VoteOutcome: VoteOutcome{Action: VoteCreated, Type: models.Upvote},
		Counts:      VoteCounts{Upvotes: 5, Downvotes: 2},
	}
	require.NoError(t, tr.Commit(server))

	assert.Equal(t, TrackerCommitted, tr.State())
	assert.Equal(t, VoteCounts{Upvotes: 5, Downvotes: 2}, tr.Counts())
	assert.Equal(t, models.Upvote, tr.Vote())
	assert.NoError(t, tr.Err())

	// The next cast starts from the committed vote.
	out, err := tr.Begin(models.Upvote)
	require.NoError(t, err)
	assert.Equal(t, VoteRemoved, out.Action)
	assert.Equal(t, VoteCounts{Upvotes: 4, Downvotes: 2}, tr.Counts())
}

func TestVoteTracker_RollbackRestoresConfirmed(t *testing.T) {
	tr := NewVoteTracker(VoteCounts{Upvotes: 2, Downvotes: 2}, models.Upvote)
	_, err := tr.Begin(models.Downvote)
	require.NoError(t, err)
	assert.Equal(t, VoteCounts{Upvotes: 1, Downvotes: 3}, tr.Counts())

	cause := errors.New("timeout")
	require.NoError(t, tr.Rollback(cause))

	assert.Equal(t, TrackerRolledBack, tr.State())
	assert.Equal(t, VoteCounts{Upvotes: 2, Downvotes: 2}, tr.Counts())
	assert.Equal(t, models.Upvote, tr.Vote())
	assert.ErrorIs(t, tr.Err(), cause)

	_, err = tr.Begin(models.Upvote)
	require.NoError(t, err)
	assert.NoError(t, tr.Err(), "a new attempt clears the last error")
}

func TestVoteTracker_SettleWithoutPending(t *testing.T) {
	tr := NewVoteTracker(VoteCounts{}, models.NoVote)
	assert.ErrorIs(t, tr.Commit(VoteResult{}), ErrNoVotePending)
	assert.ErrorIs(t, tr.Rollback(errors.New("x")), ErrNoVotePending)
	assert.Equal(t, TrackerIdle, tr.State())
}
