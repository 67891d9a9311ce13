package services

import (
	"context"
	"sync"

	"ideahub/internal/models"
	"ideahub/internal/utils"
)

// Function-field mocks: a nil field falls back to a harmless default.

type mockCommentStore struct {
	ListCommentsFunc      func(ctx context.Context, ideaID string) ([]models.Comment, error)
	GetCommentFunc        func(ctx context.Context, id string) (*models.Comment, error)
	CreateCommentFunc     func(ctx context.Context, c *models.Comment) error
	SoftDeleteCommentFunc func(ctx context.Context, id, placeholder string) error
}

func (m *mockCommentStore) ListComments(ctx context.Context, ideaID string) ([]models.Comment, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, ideaID)
	}
	return nil, nil
}

func (m *mockCommentStore) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	if m.GetCommentFunc != nil {
		return m.GetCommentFunc(ctx, id)
	}
	return nil, utils.NewNotFoundError("Comment")
}

func (m *mockCommentStore) CreateComment(ctx context.Context, c *models.Comment) error {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, c)
	}
	if c.ID == "" {
		c.ID = "new-comment"
	}
	return nil
}

func (m *mockCommentStore) SoftDeleteComment(ctx context.Context, id, placeholder string) error {
	if m.SoftDeleteCommentFunc != nil {
		return m.SoftDeleteCommentFunc(ctx, id, placeholder)
	}
	return nil
}

type mockIdeaStore struct {
	GetIdeaFunc          func(ctx context.Context, id string) (*models.Idea, error)
	ListIdeasFunc        func(ctx context.Context, f IdeaFilter) ([]models.Idea, int64, error)
	TopIdeasFunc         func(ctx context.Context, limit int) ([]models.Idea, error)
	CreateIdeaFunc       func(ctx context.Context, idea *models.Idea, categoryIDs []string) error
	UpdateIdeaFunc       func(ctx context.Context, idea *models.Idea, categoryIDs []string) error
	UpdateIdeaStatusFunc func(ctx context.Context, id string, status models.IdeaStatus, feedback string) error
	SoftDeleteIdeaFunc   func(ctx context.Context, id string) error
	CountCommentsFunc    func(ctx context.Context, ideaIDs []string) (map[string]int, error)
}

func (m *mockIdeaStore) GetIdea(ctx context.Context, id string) (*models.Idea, error) {
	if m.GetIdeaFunc != nil {
		return m.GetIdeaFunc(ctx, id)
	}
	return nil, utils.NewNotFoundError("Idea")
}

func (m *mockIdeaStore) ListIdeas(ctx context.Context, f IdeaFilter) ([]models.Idea, int64, error) {
	if m.ListIdeasFunc != nil {
		return m.ListIdeasFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *mockIdeaStore) TopIdeas(ctx context.Context, limit int) ([]models.Idea, error) {
	if m.TopIdeasFunc != nil {
		return m.TopIdeasFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockIdeaStore) CreateIdea(ctx context.Context, idea *models.Idea, categoryIDs []string) error {
	if m.CreateIdeaFunc != nil {
		return m.CreateIdeaFunc(ctx, idea, categoryIDs)
	}
	return nil
}

func (m *mockIdeaStore) UpdateIdea(ctx context.Context, idea *models.Idea, categoryIDs []string) error {
	if m.UpdateIdeaFunc != nil {
		return m.UpdateIdeaFunc(ctx, idea, categoryIDs)
	}
	return nil
}

func (m *mockIdeaStore) UpdateIdeaStatus(ctx context.Context, id string, status models.IdeaStatus, feedback string) error {
	if m.UpdateIdeaStatusFunc != nil {
		return m.UpdateIdeaStatusFunc(ctx, id, status, feedback)
	}
	return nil
}

func (m *mockIdeaStore) SoftDeleteIdea(ctx context.Context, id string) error {
	if m.SoftDeleteIdeaFunc != nil {
		return m.SoftDeleteIdeaFunc(ctx, id)
	}
	return nil
}

func (m *mockIdeaStore) CountComments(ctx context.Context, ideaIDs []string) (map[string]int, error) {
	if m.CountCommentsFunc != nil {
		return m.CountCommentsFunc(ctx, ideaIDs)
	}
	return map[string]int{}, nil
}

// memVoteStore keeps votes and counters in memory and applies decide the
// way the repository does inside its transaction.
type memVoteStore struct {
	mu     sync.Mutex
	votes  map[string]models.VoteType // key: user|idea
	counts map[string]VoteCounts      // key: idea
	err    error
}

func newMemVoteStore() *memVoteStore {
	return &memVoteStore{votes: map[string]models.VoteType{}, counts: map[string]VoteCounts{}}
}

func (m *memVoteStore) GetVote(ctx context.Context, userID, ideaID string) (*models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.votes[userID+"|"+ideaID]
	if !ok {
		return nil, nil
	}
	return &models.Vote{UserID: userID, IdeaID: ideaID, Type: t}, nil
}

func (m *memVoteStore) ApplyVote(ctx context.Context, userID, ideaID string, decide func(models.VoteType) VoteOutcome) (VoteOutcome, VoteCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return VoteOutcome{}, VoteCounts{}, m.err
	}
	if err := ctx.Err(); err != nil {
		return VoteOutcome{}, VoteCounts{}, err
	}

	key := userID + "|" + ideaID
	out := decide(m.votes[key])
	if out.Type == models.NoVote {
		delete(m.votes, key)
	} else {
		m.votes[key] = out.Type
	}
	counts := m.counts[ideaID].Apply(out.Delta)
	m.counts[ideaID] = counts
	return out, counts, nil
}

type recordingScheduler struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingScheduler) ScheduleUpdate(ideaID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, ideaID)
}

func (r *recordingScheduler) scheduled() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

type mockCategoryStore struct {
	categories []models.Category
	err        error
}

func (m *mockCategoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	return m.categories, m.err
}

func (m *mockCategoryStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	for i := range m.categories {
		if m.categories[i].ID == id {
			return &m.categories[i], nil
		}
	}
	return nil, utils.NewNotFoundError("Category")
}

func (m *mockCategoryStore) CreateCategory(ctx context.Context, c *models.Category) error {
	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return utils.NewAppError(utils.ErrConflict, "Category already exists", nil)
		}
	}
	m.categories = append(m.categories, *c)
	return nil
}

func (m *mockCategoryStore) RenameCategory(ctx context.Context, id, name string) error {
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories[i].Name = name
			return nil
		}
	}
	return utils.NewNotFoundError("Category")
}

type mockUserStore struct {
	users map[string]*models.User
}

func newMockUserStore(users ...*models.User) *mockUserStore {
	m := &mockUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, utils.NewNotFoundError("User")
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, utils.NewNotFoundError("User")
}

func (m *mockUserStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = "user-" + u.Email
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserStore) ListUsers(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserStore) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	u, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User")
	}
	u.Role = role
	return nil
}

func (m *mockUserStore) SetUserActive(ctx context.Context, id string, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User")
	}
	u.IsActive = active
	return nil
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, id, name, image string) error {
	u, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User")
	}
	u.Name, u.Image = name, image
	return nil
}

func (m *mockUserStore) DeleteUser(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return utils.NewNotFoundError("User")
	}
	delete(m.users, id)
	return nil
}

type mockPaymentStore struct {
	payments map[string]*models.Payment
}

func newMockPaymentStore(payments ...*models.Payment) *mockPaymentStore {
	m := &mockPaymentStore{payments: map[string]*models.Payment{}}
	for _, p := range payments {
		m.payments[p.ID] = p
	}
	return m
}

func (m *mockPaymentStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = "pay-" + p.IdeaID
	}
	if p.OrderID == "" {
		p.OrderID = "order-" + p.IdeaID
	}
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentStore) GetPaymentByOrder(ctx context.Context, orderID string) (*models.Payment, error) {
	for _, p := range m.payments {
		if p.OrderID == orderID || (p.GatewayRef != "" && p.GatewayRef == orderID) {
			return p, nil
		}
	}
	return nil, utils.NewNotFoundError("Payment")
}

func (m *mockPaymentStore) FindPayment(ctx context.Context, userID, ideaID string, status models.PaymentStatus) (*models.Payment, error) {
	for _, p := range m.payments {
		if p.UserID == userID && p.IdeaID == ideaID && p.Status == status {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPaymentStore) SetGatewayRef(ctx context.Context, id, gatewayRef string) error {
	p, ok := m.payments[id]
	if !ok {
		return utils.NewNotFoundError("Payment")
	}
	p.GatewayRef = gatewayRef
	return nil
}

func (m *mockPaymentStore) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID string) error {
	p, ok := m.payments[id]
	if !ok {
		return utils.NewNotFoundError("Payment")
	}
	p.Status = status
	if transactionID != "" {
		p.TransactionID = transactionID
	}
	return nil
}

func (m *mockPaymentStore) ListPayments(ctx context.Context, userID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.payments {
		if userID == "" || p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type mailCall struct {
	To      string
	Subject string
}

type recordingMailer struct {
	mu    sync.Mutex
	calls []mailCall
}

func (r *recordingMailer) IdeaStatusChanged(to, name, ideaID, title string, status models.IdeaStatus, feedback string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, mailCall{To: to, Subject: "status:" + string(status)})
}

func (r *recordingMailer) CommentReplied(to, replier, ideaID, ideaTitle, reply, original string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, mailCall{To: to, Subject: "reply:" + replier})
}

func approvedIdea(id, creatorID string) *models.Idea {
	return &models.Idea{ID: id, Title: "Solar benches", CreatorID: creatorID, Status: models.IdeaApproved}
}

func member(id string) *Identity {
	return &Identity{UserID: id, Name: "member " + id, Role: models.RoleMember}
}

func admin(id string) *Identity {
	return &Identity{UserID: id, Name: "admin " + id, Role: models.RoleAdmin}
}
