package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

const (
	homeTopLimit  = 6
	homeBlogLimit = 6
	cacheTTLTop   = time.Minute
)

type IdeaHandler struct {
	ideas      *services.IdeaService
	categories *services.CategoryService
	comments   *services.CommentService
	votes      *services.VoteService
	payments   *services.PaymentService
	blogs      *services.BlogService
	cache      *utils.Cache
}

func NewIdeaHandler(
	ideas *services.IdeaService,
	categories *services.CategoryService,
	comments *services.CommentService,
	votes *services.VoteService,
	payments *services.PaymentService,
	blogs *services.BlogService,
	cache *utils.Cache,
) *IdeaHandler {
	return &IdeaHandler{
		ideas:      ideas,
		categories: categories,
		comments:   comments,
		votes:      votes,
		payments:   payments,
		blogs:      blogs,
		cache:      cache,
	}
}

// Home 首页: top ideas, categories and the latest articles
func (h *IdeaHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	var top []models.Idea
	if cached, ok := h.cache.Get(utils.CacheKeyTopIdeas).([]models.Idea); ok {
		top = cached
	} else {
		var err error
		top, err = h.ideas.Top(ctx, homeTopLimit)
		if err != nil {
			RespondError(c, err)
			return
		}
		h.cache.Set(utils.CacheKeyTopIdeas, top, cacheTTLTop)
	}

	categories, err := h.categories.List(ctx)
	if err != nil {
		RespondError(c, err)
		return
	}

	// 博客列表失败不影响首页
	blogs, total, err := h.blogs.List(ctx, services.BlogFilter{Page: 1, Limit: homeBlogLimit})
	if err != nil {
		log.WithError(err).Warn("failed to load home blogs")
	}

	Render(c, http.StatusOK, "home.html", gin.H{
		"TopIdeas":   top,
		"Categories": categories,
		"Blogs":      blogs,
		"MoreBlogs":  total > int64(len(blogs)),
	})
}

// List shows approved ideas with search, category and paid filters.
func (h *IdeaHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	q := c.Request.URL.Query()
	page, limit := utils.ParsePage(q)

	f := services.IdeaFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
		IsPaid:     utils.ParseBoolPtr(q.Get("isPaid")),
		Page:       page,
		Limit:      limit,
	}
	ideas, total, err := h.ideas.ListPublic(ctx, f)
	if err != nil {
		RespondError(c, err)
		return
	}
	pagination := utils.NewPagination(page, limit, total, c.Request.URL)

	if middleware.WantsJSON(c) {
		OK(c, http.StatusOK, "Ideas fetched", gin.H{"ideas": ideas, "meta": pagination})
		return
	}

	categories, err := h.categories.List(ctx)
	if err != nil {
		RespondError(c, err)
		return
	}
	Render(c, http.StatusOK, "ideas/list.html", gin.H{
		"Ideas":      ideas,
		"Categories": categories,
		"Filter":     f,
		"Pagination": pagination,
	})
}

// Detail shows an idea with its comment tree and vote widget. Paid ideas
// send callers without a purchase to the pay-first page.
func (h *IdeaHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.CurrentIdentity(c)
	ideaID := c.Param("id")

	idea, err := h.ideas.Get(ctx, id, ideaID)
	if err != nil {
		RespondError(c, err)
		return
	}
	access, err := h.payments.HasAccess(ctx, id, idea)
	if err != nil {
		RespondError(c, err)
		return
	}
	if !access {
		c.Redirect(http.StatusFound, "/ideas/"+ideaID+"/payfirst")
		return
	}

	tree, err := h.comments.ListTree(ctx, ideaID)
	if err != nil {
		RespondError(c, err)
		return
	}

	vote := voteView{IdeaID: ideaID, Upvotes: idea.Upvotes, Downvotes: idea.Downvotes, State: services.TrackerIdle}
	if id != nil {
		current, err := h.votes.CurrentVote(ctx, id.UserID, ideaID)
		if err != nil {
			log.WithError(err).WithField("idea_id", ideaID).Warn("failed to load current vote")
		} else if current != nil {
			vote.Type = current.Type
		}
	}

	Render(c, http.StatusOK, "ideas/detail.html", gin.H{
		"Idea":         idea,
		"Description":  utils.RenderMarkdown(idea.Description),
		"Comments":     tree,
		"CommentTotal": services.CountComments(tree),
		"Vote":         vote,
		"CanEdit":      services.Can(id, services.EditIdea, idea.CreatorID),
	})
}

// PayFirst is shown to visitors of a paid idea they have not bought.
func (h *IdeaHandler) PayFirst(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.CurrentIdentity(c)
	ideaID := c.Param("id")

	idea, err := h.ideas.Get(ctx, id, ideaID)
	if err != nil {
		RespondError(c, err)
		return
	}
	access, err := h.payments.HasAccess(ctx, id, idea)
	if err != nil {
		RespondError(c, err)
		return
	}
	if access {
		c.Redirect(http.StatusFound, "/ideas/"+ideaID)
		return
	}

	Render(c, http.StatusOK, "ideas/payfirst.html", gin.H{
		"Idea":    idea,
		"Summary": utils.MarkdownExcerpt(idea.ProblemStatement, 200),
	})
}

// Mine lists the caller's own ideas in every status.
func (h *IdeaHandler) Mine(c *gin.Context) {
	q := c.Request.URL.Query()
	page, limit := utils.ParsePage(q)
	f := services.IdeaFilter{
		Search: q.Get("search"),
		Status: models.IdeaStatus(q.Get("status")),
		Page:   page,
		Limit:  limit,
	}

	ideas, total, err := h.ideas.ListMine(c.Request.Context(), middleware.CurrentIdentity(c), f)
	if err != nil {
		RespondError(c, err)
		return
	}
	Render(c, http.StatusOK, "dashboard/ideas.html", gin.H{
		"Ideas":      ideas,
		"Filter":     f,
		"Pagination": utils.NewPagination(page, limit, total, c.Request.URL),
	})
}

func (h *IdeaHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, http.StatusOK, nil, services.IdeaInput{}, "")
}

func (h *IdeaHandler) Create(c *gin.Context) {
	in, err := bindIdeaInput(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	idea, err := h.ideas.Create(c.Request.Context(), middleware.CurrentIdentity(c), in)
	if err != nil {
		h.formError(c, nil, in, err)
		return
	}
	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusCreated, "Idea created", idea)
		return
	}
	Redirect(c, "/dashboard/ideas")
}

func (h *IdeaHandler) ShowEdit(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	idea, err := h.ideas.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if !services.Can(id, services.EditIdea, idea.CreatorID) {
		RespondError(c, utils.NewForbiddenError("only the creator can edit this idea"))
		return
	}

	in := services.IdeaInput{
		Title:            idea.Title,
		ProblemStatement: idea.ProblemStatement,
		ProposedSolution: idea.ProposedSolution,
		Description:      idea.Description,
		Images:           idea.Images,
		CategoryIDs:      idea.CategoryIDs(),
		IsPaid:           idea.IsPaid,
		Price:            idea.Price,
		Submit:           idea.Status != models.IdeaDraft,
	}
	h.renderForm(c, http.StatusOK, idea, in, "")
}

func (h *IdeaHandler) Update(c *gin.Context) {
	in, err := bindIdeaInput(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	id := middleware.CurrentIdentity(c)
	idea, err := h.ideas.Update(c.Request.Context(), id, c.Param("id"), in)
	if err != nil {
		h.formError(c, &models.Idea{ID: c.Param("id")}, in, err)
		return
	}
	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusOK, "Idea updated", idea)
		return
	}
	Redirect(c, "/ideas/"+idea.ID)
}

// Delete soft-deletes an idea (DELETE /ideas/:id)
func (h *IdeaHandler) Delete(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if err := h.ideas.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	if isHTMX(c) {
		HtmxRedirect(c, "/dashboard/ideas")
		return
	}
	OK(c, http.StatusOK, "Idea deleted", nil)
}

// formError re-renders the idea form for validation failures and falls back
// to the regular error response for anything else.
func (h *IdeaHandler) formError(c *gin.Context, idea *models.Idea, in services.IdeaInput, err error) {
	if middleware.WantsJSON(c) || !utils.IsErrorCode(err, utils.ErrValidation) {
		RespondError(c, err)
		return
	}
	h.renderForm(c, http.StatusBadRequest, idea, in, utils.PublicMessage(err))
}

func (h *IdeaHandler) renderForm(c *gin.Context, code int, idea *models.Idea, in services.IdeaInput, errMsg string) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	selected := make(map[string]bool, len(in.CategoryIDs))
	for _, id := range in.CategoryIDs {
		selected[id] = true
	}
	Render(c, code, "ideas/form.html", gin.H{
		"Idea":       idea,
		"Input":      in,
		"Categories": categories,
		"Selected":   selected,
		"Error":      errMsg,
	})
}

// bindIdeaInput accepts JSON or a form where images may be one textarea.
func bindIdeaInput(c *gin.Context) (services.IdeaInput, error) {
	var in services.IdeaInput
	if err := bindInput(c, &in); err != nil {
		return in, err
	}
	if len(in.Images) == 1 {
		in.Images = utils.SplitList(in.Images[0])
	}
	return in, nil
}
