package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub/internal/models"
	"ideahub/internal/utils"
)

func newVoteFixture() (*VoteService, *memVoteStore, *mockIdeaStore, *recordingScheduler) {
	votes := newMemVoteStore()
	ideas := &mockIdeaStore{
		GetIdeaFunc: func(ctx context.Context, id string) (*models.Idea, error) {
			if id != ideaID {
				return nil, utils.NewNotFoundError("Idea")
			}
			return approvedIdea(ideaID, "creator"), nil
		},
	}
	tally := &recordingScheduler{}
	return NewVoteService(votes, ideas, tally), votes, ideas, tally
}

func TestVoteService_SubmitSequence(t *testing.T) {
	svc, _, _, tally := newVoteFixture()
	ctx := context.Background()
	u := member("u1")

	steps := []struct {
		cast       models.VoteType
		wantAction VoteAction
		wantType   models.VoteType
		wantCounts VoteCounts
	}{
		{models.Upvote, VoteCreated, models.Upvote, VoteCounts{Upvotes: 1}},
		{models.Downvote, VoteUpdated, models.Downvote, VoteCounts{Downvotes: 1}},
		{models.Downvote, VoteRemoved, models.NoVote, VoteCounts{}},
		{models.Downvote, VoteCreated, models.Downvote, VoteCounts{Downvotes: 1}},
	}
	for i, s := range steps {
		res, err := svc.Submit(ctx, u, ideaID, s.cast)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, s.wantAction, res.Action, "step %d", i)
		assert.Equal(t, s.wantType, res.Type, "step %d", i)
		assert.Equal(t, s.wantCounts, res.Counts, "step %d", i)
	}
	assert.Len(t, tally.scheduled(), len(steps))

	current, err := svc.CurrentVote(ctx, "u1", ideaID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, models.Downvote, current.Type)
}

func TestVoteService_CountsAcrossUsers(t *testing.T) {
	svc, _, _, _ := newVoteFixture()
	ctx := context.Background()

	_, err := svc.Submit(ctx, member("u1"), ideaID, models.Upvote)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, member("u2"), ideaID, models.Upvote)
	require.NoError(t, err)
	res, err := svc.Submit(ctx, member("u3"), ideaID, models.Downvote)
	require.NoError(t, err)

	assert.Equal(t, VoteCounts{Upvotes: 2, Downvotes: 1}, res.Counts)
}

func TestVoteService_ConcurrentCastsStayConsistent(t *testing.T) {
	svc, votes, _, _ := newVoteFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Submit(ctx, member("u1"), ideaID, models.Upvote)
		}()
	}
	wg.Wait()

	// An even number of identical casts cancels out.
	votes.mu.Lock()
	defer votes.mu.Unlock()
	assert.Equal(t, VoteCounts{}, votes.counts[ideaID])
	assert.NotContains(t, votes.votes, "u1|"+ideaID)
}

func TestVoteService_SubmitErrors(t *testing.T) {
	ctx := context.Background()

	svc, _, _, _ := newVoteFixture()
	_, err := svc.Submit(ctx, nil, ideaID, models.Upvote)
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnauthenticated))

	_, err = svc.Submit(ctx, member("u1"), ideaID, models.VoteType("SIDEVOTE"))
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation))

	_, err = svc.Submit(ctx, member("u1"), "missing", models.Upvote)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	svc, _, ideas, _ := newVoteFixture()
	ideas.GetIdeaFunc = func(ctx context.Context, id string) (*models.Idea, error) {
		idea := approvedIdea(id, "creator")
		idea.Status = models.IdeaDraft
		return idea, nil
	}
	_, err = svc.Submit(ctx, member("u1"), ideaID, models.Upvote)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound), "drafts cannot be voted on")
}

func TestVoteService_StoreFailure(t *testing.T) {
	svc, votes, _, tally := newVoteFixture()
	votes.err = errors.New("deadlock detected")

	_, err := svc.Submit(context.Background(), member("u1"), ideaID, models.Upvote)
	assert.True(t, utils.IsErrorCode(err, utils.ErrVoteWriteFailed))
	assert.Empty(t, tally.scheduled())
}

func TestVoteService_CancelledContext(t *testing.T) {
	svc, _, _, _ := newVoteFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Submit(ctx, member("u1"), ideaID, models.Upvote)
	assert.True(t, utils.IsErrorCode(err, utils.ErrVoteWriteFailed))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVoteService_CurrentVoteAnonymous(t *testing.T) {
	svc, _, _, _ := newVoteFixture()
	v, err := svc.CurrentVote(context.Background(), "", ideaID)
	assert.NoError(t, err)
	assert.Nil(t, v)
}
