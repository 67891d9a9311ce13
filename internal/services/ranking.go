package services

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"ideahub/internal/metrics"
	"ideahub/internal/utils"
)

const (
	rankingQueueSize = 1000
	rankingBatchSize = 50
	rankingInterval  = 500 * time.Millisecond
)

// RankingService 异步重新统计想法的投票数和评论数，并更新排序 Score
type RankingService struct {
	store   TallyStore
	queue   chan string // 待更新的 idea ID 队列
	pending map[string]bool
	mu      sync.Mutex

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	onUpdate func(ideaID string)
}

// NewRankingService starts the background worker. Call Stop on shutdown.
// onUpdate, if set, runs after an idea's tally was saved.
func NewRankingService(store TallyStore, onUpdate func(ideaID string)) *RankingService {
	s := &RankingService{
		store:    store,
		queue:    make(chan string, rankingQueueSize),
		pending:  make(map[string]bool),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		onUpdate: onUpdate,
	}
	go s.worker()
	return s
}

// ScheduleUpdate 将 idea 加入更新队列（异步，去重）
func (s *RankingService) ScheduleUpdate(ideaID string) {
	s.mu.Lock()
	if s.pending[ideaID] {
		s.mu.Unlock()
		return
	}
	s.pending[ideaID] = true
	s.mu.Unlock()

	select {
	case s.queue <- ideaID:
	default:
		// 队列满了，下一次投票会重新加入
		s.mu.Lock()
		delete(s.pending, ideaID)
		s.mu.Unlock()
		metrics.TallyQueueDropped.Inc()
		log.WithField("idea_id", ideaID).Warn("ranking queue full, skipping recount")
	}
}

// Stop ends the worker and waits for it to exit. Queued ids are dropped.
func (s *RankingService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *RankingService) worker() {
	defer close(s.done)

	batch := make([]string, 0, rankingBatchSize)
	ticker := time.NewTicker(rankingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case ideaID := <-s.queue:
			batch = append(batch, ideaID)
			if len(batch) >= rankingBatchSize {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *RankingService) processBatch(ideaIDs []string) {
	for _, ideaID := range ideaIDs {
		// 先清除 pending，处理期间的新投票会重新入队
		s.mu.Lock()
		delete(s.pending, ideaID)
		s.mu.Unlock()

		if err := s.UpdateNow(context.Background(), ideaID); err != nil {
			log.WithField("idea_id", ideaID).WithError(err).Error("failed to update idea tally")
		}
	}
}

// UpdateNow recounts one idea synchronously.
func (s *RankingService) UpdateNow(ctx context.Context, ideaID string) error {
	tally, err := s.store.CountTally(ctx, ideaID)
	if err != nil {
		return err
	}

	score := utils.CalculateScore(tally.CreatedAt, tally.Upvotes, tally.Downvotes, tally.Comments)
	if err := s.store.SaveTally(ctx, ideaID, tally.Upvotes, tally.Downvotes, int(score)); err != nil {
		return err
	}
	if s.onUpdate != nil {
		s.onUpdate(ideaID)
	}
	return nil
}
