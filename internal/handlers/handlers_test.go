package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestEngine builds an engine with tiny stand-ins for the fragment
// templates and an optional signed-in caller.
func newTestEngine(id *services.Identity) *gin.Engine {
	r := gin.New()
	t := template.Must(template.New("ideas/vote.html").Parse(`{{.Vote.State}} {{.Vote.Upvotes}}/{{.Vote.Downvotes}}{{with .Error}} {{.}}{{end}}`))
	template.Must(t.New("comments/tree.html").Parse(`total={{.Total}}`))
	template.Must(t.New("error.html").Parse(`error {{.Code}}: {{.Error}}`))
	r.SetHTMLTemplate(t)

	r.Use(func(c *gin.Context) {
		if id != nil {
			c.Set(middleware.IdentityKey, id)
			c.Set(middleware.CheckUserKey, &models.User{ID: id.UserID, Name: id.Name, Role: id.Role})
		}
		c.Next()
	})
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func do(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type mockComments struct {
	ListTreeFunc func(ctx context.Context, ideaID string) ([]*services.CommentNode, error)
	CreateFunc   func(ctx context.Context, id *services.Identity, in services.CreateCommentInput) (*models.Comment, error)
	DeleteFunc   func(ctx context.Context, id *services.Identity, commentID string) (string, error)
}

func (m *mockComments) ListTree(ctx context.Context, ideaID string) ([]*services.CommentNode, error) {
	if m.ListTreeFunc != nil {
		return m.ListTreeFunc(ctx, ideaID)
	}
	return []*services.CommentNode{}, nil
}

func (m *mockComments) Create(ctx context.Context, id *services.Identity, in services.CreateCommentInput) (*models.Comment, error) {
	return m.CreateFunc(ctx, id, in)
}

func (m *mockComments) Delete(ctx context.Context, id *services.Identity, commentID string) (string, error) {
	return m.DeleteFunc(ctx, id, commentID)
}

type mockIdeas struct {
	OpenFunc func(ctx context.Context, id *services.Identity, ideaID string) (*models.Idea, error)
}

func (m *mockIdeas) Open(ctx context.Context, id *services.Identity, ideaID string) (*models.Idea, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, id, ideaID)
	}
	return &models.Idea{ID: ideaID, Status: models.IdeaApproved, Upvotes: 3, Downvotes: 1}, nil
}

type mockVotes struct {
	current    *models.Vote
	SubmitFunc func(ctx context.Context, id *services.Identity, ideaID string, t models.VoteType) (*services.VoteResult, error)
}

func (m *mockVotes) CurrentVote(ctx context.Context, userID, ideaID string) (*models.Vote, error) {
	return m.current, nil
}

func (m *mockVotes) Submit(ctx context.Context, id *services.Identity, ideaID string, t models.VoteType) (*services.VoteResult, error) {
	return m.SubmitFunc(ctx, id, ideaID, t)
}

var jsonAccept = map[string]string{"Accept": "application/json"}

func member(id string) *services.Identity {
	return &services.Identity{UserID: id, Name: "member " + id, Role: models.RoleMember}
}

func errAs(code, msg string) error {
	return utils.NewAppError(code, msg, nil)
}
