package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ideahub/internal/handlers"
	"ideahub/internal/middleware"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Idea     *handlers.IdeaHandler
	Comment  *handlers.CommentHandler
	Vote     *handlers.VoteHandler
	Category *handlers.CategoryHandler
	Blog     *handlers.BlogHandler
	Payment  *handlers.PaymentHandler
	Image    *handlers.ImageHandler
	User     *handlers.UserHandler
	Admin    *handlers.AdminHandler
	SEO      *handlers.SEOHandler
	Page     *handlers.PageHandler
	Health   *handlers.HealthHandler
}

// RegisterRoutes mounts all routes. limiter guards the write endpoints that
// are easy to double-submit (votes, comments, uploads, checkout).
func RegisterRoutes(r *gin.Engine, h Handlers, limiter *middleware.RateLimiter) {
	limited := limiter.Handler()

	// 运维 (Ops)
	r.GET("/healthz", h.Health.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/robots.txt", h.SEO.RobotsTxt)
	r.GET("/sitemap.xml", h.SEO.SitemapXML)
	r.GET("/feed.xml", h.SEO.RSSFeed)

	// 公共路由 (Public Routes)
	r.GET("/", h.Idea.Home)                          // 首页 - 热门想法
	r.GET("/about", h.Page.About)                    // 关于
	r.GET("/contact", h.Page.Contact)                // 联系我们
	r.GET("/ideas", h.Idea.List)                     // 想法列表
	r.GET("/ideas/:id", h.Idea.Detail)               // 想法详情
	r.GET("/ideas/:id/payfirst", h.Idea.PayFirst)    // 付费提示
	r.GET("/blog", h.Blog.List)                      // 博客列表
	r.GET("/blog/:id", h.Blog.Detail)                // 博客详情
	r.GET("/payment/verify", h.Payment.Verify)       // 支付回调
	r.GET("/api/categories", h.Category.List)        // 分类列表
	r.GET("/api/categories/:id", h.Category.Get)     // 分类详情
	r.GET("/api/ideas/:id/comments", h.Comment.List) // 评论树
	r.GET("/api/ideas/:id/vote", h.Vote.Current)     // 当前投票

	r.GET("/register", h.Auth.ShowRegister)
	r.POST("/register", h.Auth.Register)
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/ideas/:id/comments", limited, h.Comment.Create) // 发表评论
		authorized.DELETE("/comments/:id", h.Comment.Delete)              // 删除评论
		authorized.POST("/ideas/:id/vote", limited, h.Vote.Vote)          // 投票
		authorized.DELETE("/ideas/:id", h.Idea.Delete)                    // 删除想法
		authorized.DELETE("/blog/:id", h.Blog.Delete)                     // 删除博客
		authorized.POST("/api/payment", limited, h.Payment.Checkout)      // 发起支付
		authorized.POST("/api/upload", limited, h.Image.Upload)           // 上传图片
	}

	// 仪表盘路由 (Dashboard Routes)
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthRequired())
	{
		dashboard.GET("", h.User.Dashboard)
		dashboard.GET("/profile", h.User.ShowProfile)
		dashboard.POST("/profile", h.User.UpdateProfile)

		dashboard.GET("/ideas", h.Idea.Mine)
		dashboard.GET("/ideas/new", h.Idea.ShowCreate)
		dashboard.POST("/ideas", h.Idea.Create)
		dashboard.GET("/ideas/:id/edit", h.Idea.ShowEdit)
		dashboard.POST("/ideas/:id", h.Idea.Update)

		dashboard.GET("/blogs", h.Blog.Mine)
		dashboard.GET("/blogs/new", h.Blog.ShowCreate)
		dashboard.POST("/blogs", h.Blog.Create)
		dashboard.GET("/blogs/:id/edit", h.Blog.ShowEdit)
		dashboard.POST("/blogs/:id", h.Blog.Update)

		dashboard.GET("/purchases", h.Payment.Purchases)
	}

	// 管理后台 (Admin Routes)
	admin := r.Group("/dashboard/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/ideas", h.Admin.Ideas)
		admin.POST("/ideas/:id/status", h.Admin.UpdateIdeaStatus)

		admin.GET("/categories", h.Category.AdminList)
		admin.POST("/categories", h.Category.Create)
		admin.POST("/categories/:id", h.Category.Rename)

		admin.GET("/users", h.Admin.Users)
		admin.POST("/users/:id/role", h.Admin.ChangeRole)
		admin.POST("/users/:id/activate", h.Admin.Activate)
		admin.POST("/users/:id/deactivate", h.Admin.Deactivate)
		admin.DELETE("/users/:id", h.Admin.DeleteUser)

		admin.GET("/payments", h.Admin.Payments)
		admin.GET("/blogs", h.Admin.Blogs)
	}
}
