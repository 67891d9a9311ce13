package services

import (
	"context"
	"time"

	"ideahub/internal/models"
)

// Store interfaces are implemented by the gorm repository. Lookups of a
// missing record return a NOT_FOUND AppError.

type CommentStore interface {
	// ListComments returns the comments of an idea oldest first.
	ListComments(ctx context.Context, ideaID string) ([]models.Comment, error)
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	SoftDeleteComment(ctx context.Context, id, placeholder string) error
}

type IdeaFilter struct {
	Search     string
	CategoryID string
	Status     models.IdeaStatus // empty means any
	IsPaid     *bool
	CreatorID  string
	Page       int
	Limit      int
}

type IdeaStore interface {
	GetIdea(ctx context.Context, id string) (*models.Idea, error)
	ListIdeas(ctx context.Context, f IdeaFilter) ([]models.Idea, int64, error)
	TopIdeas(ctx context.Context, limit int) ([]models.Idea, error)
	CreateIdea(ctx context.Context, idea *models.Idea, categoryIDs []string) error
	UpdateIdea(ctx context.Context, idea *models.Idea, categoryIDs []string) error
	UpdateIdeaStatus(ctx context.Context, id string, status models.IdeaStatus, feedback string) error
	SoftDeleteIdea(ctx context.Context, id string) error
	CountComments(ctx context.Context, ideaIDs []string) (map[string]int, error)
}

type VoteStore interface {
	// GetVote returns nil, nil when the user has not voted.
	GetVote(ctx context.Context, userID, ideaID string) (*models.Vote, error)
	// ApplyVote reads the current vote under a row lock, lets decide pick the
	// outcome, writes it and adjusts the idea counters in one transaction.
	ApplyVote(ctx context.Context, userID, ideaID string, decide func(current models.VoteType) VoteOutcome) (VoteOutcome, VoteCounts, error)
}

// Tally is the recounted engagement of an idea.
type Tally struct {
	Upvotes   int
	Downvotes int
	Comments  int
	CreatedAt time.Time
}

type TallyStore interface {
	CountTally(ctx context.Context, ideaID string) (Tally, error)
	SaveTally(ctx context.Context, ideaID string, upvotes, downvotes, score int) error
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	RenameCategory(ctx context.Context, id, name string) error
}

type UserFilter struct {
	Search string
	Page   int
	Limit  int
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context, f UserFilter) ([]models.User, int64, error)
	UpdateUserRole(ctx context.Context, id string, role models.Role) error
	SetUserActive(ctx context.Context, id string, active bool) error
	UpdateProfile(ctx context.Context, id, name, image string) error
	DeleteUser(ctx context.Context, id string) error
}

type BlogFilter struct {
	Search   string
	Category string
	AuthorID string
	Page     int
	Limit    int
}

type BlogStore interface {
	ListBlogs(ctx context.Context, f BlogFilter) ([]models.Blog, int64, error)
	GetBlog(ctx context.Context, id string) (*models.Blog, error)
	CreateBlog(ctx context.Context, b *models.Blog) error
	UpdateBlog(ctx context.Context, b *models.Blog) error
	DeleteBlog(ctx context.Context, id string) error
	IncrementBlogViews(ctx context.Context, id string) error
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPaymentByOrder(ctx context.Context, orderID string) (*models.Payment, error)
	// FindPayment returns the newest payment of the user for the idea with
	// the given status, or nil, nil.
	FindPayment(ctx context.Context, userID, ideaID string, status models.PaymentStatus) (*models.Payment, error)
	SetGatewayRef(ctx context.Context, id, gatewayRef string) error
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID string) error
	ListPayments(ctx context.Context, userID string) ([]models.Payment, error)
}
