package services

import (
	"context"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/utils"
)

type BlogInput struct {
	Title          string   `json:"title" form:"title" validate:"required,min=5,max=200"`
	Content        string   `json:"content" form:"content" validate:"required,min=20"`
	Excerpt        string   `json:"excerpt" form:"excerpt" validate:"max=300"`
	CoverImage     string   `json:"coverImage" form:"coverImage" validate:"omitempty,url"`
	Category       string   `json:"category" form:"category" validate:"required,max=50"`
	Tags           []string `json:"tags" form:"tags" validate:"max=10,dive,min=1,max=30"`
	SEODescription string   `json:"seoDescription" form:"seoDescription" validate:"max=300"`
	SEOKeywords    []string `json:"seoKeywords" form:"seoKeywords" validate:"max=20,dive,min=1,max=50"`
}

type BlogService struct {
	blogs BlogStore
}

func NewBlogService(blogs BlogStore) *BlogService {
	return &BlogService{blogs: blogs}
}

func (s *BlogService) List(ctx context.Context, f BlogFilter) ([]models.Blog, int64, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.blogs.ListBlogs(ctx, f)
}

func (s *BlogService) ListMine(ctx context.Context, id *Identity, f BlogFilter) ([]models.Blog, int64, error) {
	if id == nil {
		return nil, 0, utils.NewUnauthenticatedError()
	}
	f.AuthorID = id.UserID
	return s.List(ctx, f)
}

// View returns a blog and counts the visit.
func (s *BlogService) View(ctx context.Context, blogID string) (*models.Blog, error) {
	b, err := s.blogs.GetBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if err := s.blogs.IncrementBlogViews(ctx, blogID); err == nil {
		b.Views++
	}
	return b, nil
}

func (s *BlogService) Get(ctx context.Context, blogID string) (*models.Blog, error) {
	return s.blogs.GetBlog(ctx, blogID)
}

func (s *BlogService) Create(ctx context.Context, id *Identity, in BlogInput) (*models.Blog, error) {
	if id == nil {
		return nil, utils.NewUnauthenticatedError()
	}
	in = normalizeBlogInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	b := &models.Blog{AuthorID: id.UserID}
	applyBlogInput(b, in)
	if err := s.blogs.CreateBlog(ctx, b); err != nil {
		return nil, utils.NewAppError(utils.ErrWriteFailed, "Failed to save blog", err)
	}
	return b, nil
}

func (s *BlogService) Update(ctx context.Context, id *Identity, blogID string, in BlogInput) (*models.Blog, error) {
	if id == nil {
		return nil, utils.NewUnauthenticatedError()
	}
	b, err := s.blogs.GetBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if !Can(id, EditBlog, b.AuthorID) {
		return nil, utils.NewForbiddenError("only the author can edit this blog")
	}
	in = normalizeBlogInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	applyBlogInput(b, in)
	if err := s.blogs.UpdateBlog(ctx, b); err != nil {
		return nil, utils.NewAppError(utils.ErrWriteFailed, "Failed to save blog", err)
	}
	return b, nil
}

func (s *BlogService) Delete(ctx context.Context, id *Identity, blogID string) error {
	if id == nil {
		return utils.NewUnauthenticatedError()
	}
	b, err := s.blogs.GetBlog(ctx, blogID)
	if err != nil {
		return err
	}
	if !Can(id, EditBlog, b.AuthorID) {
		return utils.NewForbiddenError("only the author or an admin can delete this blog")
	}
	if err := s.blogs.DeleteBlog(ctx, blogID); err != nil {
		return utils.NewAppError(utils.ErrWriteFailed, "Failed to delete blog", err)
	}
	return nil
}

func normalizeBlogInput(in BlogInput) BlogInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
	in.Category = strings.TrimSpace(in.Category)
	in.SEODescription = strings.TrimSpace(in.SEODescription)
	if in.Excerpt == "" {
		in.Excerpt = utils.MarkdownExcerpt(in.Content, 200)
	}
	return in
}

func applyBlogInput(b *models.Blog, in BlogInput) {
	b.Title = in.Title
	b.Content = in.Content
	b.Excerpt = in.Excerpt
	b.CoverImage = in.CoverImage
	b.Category = in.Category
	b.Tags = in.Tags
	b.SEODescription = in.SEODescription
	b.SEOKeywords = in.SEOKeywords
}
