package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ideahub/internal/config"
	"ideahub/internal/db"
	"ideahub/internal/handlers"
	"ideahub/internal/logger"
	"ideahub/internal/middleware"
	"ideahub/internal/repository"
	"ideahub/internal/router"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

// maxCommentIndent caps how far nested replies are indented.
const maxCommentIndent = 4

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	// Initialize Database
	database := db.Init(cfg.DatabaseURL)
	store := repository.New(database)
	cache := utils.GetCache()

	// 初始化异步排名服务
	ranking := services.NewRankingService(store, cache.InvalidateIdea)
	defer ranking.Stop()

	mailer := services.NewMailService(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From, cfg.SiteURL)

	ideas := services.NewIdeaService(store, store, cache, mailer)
	categories := services.NewCategoryService(store, cache)
	comments := services.NewCommentService(store, store, ranking, mailer)
	votes := services.NewVoteService(store, store, ranking)
	users := services.NewUserService(store)
	blogs := services.NewBlogService(store)
	gateway := services.NewHTTPGateway(cfg.Payment.GatewayURL, cfg.Payment.StoreID, cfg.Payment.StorePassword, cfg.SiteURL)
	payments := services.NewPaymentService(store, store, gateway, cfg.Payment.Currency)
	ideas.WithAccess(payments)
	uploader := services.NewImageUploader(cfg.Cloudinary.BaseURL, cfg.Cloudinary.CloudName, cfg.Cloudinary.UploadPreset)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.WithError(err).Error("failed to bootstrap admin")
		}
	}

	// Initialize Gin
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Setup Sessions
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("ideahub_session", sessionStore))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates(cfg.TemplatesDir)
	r.Static("/static", cfg.StaticDir)

	r.Use(middleware.LoadUser(users))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(time.Minute, ctx.Done())

	router.RegisterRoutes(r, router.Handlers{
		Auth:     handlers.NewAuthHandler(users, services.NewCaptchaService()),
		Idea:     handlers.NewIdeaHandler(ideas, categories, comments, votes, payments, blogs, cache),
		Comment:  handlers.NewCommentHandler(comments, ideas),
		Vote:     handlers.NewVoteHandler(votes, ideas, cfg.VoteTimeout),
		Category: handlers.NewCategoryHandler(categories),
		Blog:     handlers.NewBlogHandler(blogs),
		Payment:  handlers.NewPaymentHandler(payments),
		Image:    handlers.NewImageHandler(uploader),
		User:     handlers.NewUserHandler(users, ideas, payments),
		Admin:    handlers.NewAdminHandler(ideas, users, payments, blogs),
		SEO:      handlers.NewSEOHandler(cfg.SiteURL, ideas, blogs),
		Page:     handlers.NewPageHandler(cfg.ContactEmail),
		Health:   handlers.NewHealthHandler(database),
	}, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("Idea Hub server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	// Full pages get the layout plus every include.
	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}
	// Fragments are rooted at the view itself, with the includes it references.
	fragment := func(view string) []string {
		files := make([]string, 0, len(includes)+1)
		files = append(files, view)
		files = append(files, includes...)
		return files
	}

	pages := []string{
		"home.html",
		"about.html",
		"contact.html",
		"error.html",
		"auth/login.html",
		"auth/register.html",
		"ideas/list.html",
		"ideas/detail.html",
		"ideas/payfirst.html",
		"ideas/form.html",
		"blog/list.html",
		"blog/detail.html",
		"blog/form.html",
		"payment/result.html",
		"dashboard/overview.html",
		"dashboard/profile.html",
		"dashboard/ideas.html",
		"dashboard/blogs.html",
		"dashboard/purchases.html",
		"admin/ideas.html",
		"admin/categories.html",
		"admin/users.html",
		"admin/payments.html",
		"admin/blogs.html",
	}
	for _, name := range pages {
		r.AddFromFilesFuncs(name, funcMap, assemble(templatesDir+"/views/"+name)...)
	}

	// HTMX fragments
	r.AddFromFilesFuncs("comments/tree.html", funcMap, fragment(templatesDir+"/views/comments/tree.html")...)
	r.AddFromFilesFuncs("ideas/vote.html", funcMap, fragment(templatesDir+"/views/ideas/vote.html")...)

	return r
}

var funcMap = template.FuncMap{
	"dict": func(values ...interface{}) (map[string]interface{}, error) {
		if len(values)%2 != 0 {
			return nil, fmt.Errorf("invalid dict call")
		}
		dict := make(map[string]interface{}, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict keys must be strings")
			}
			dict[key] = values[i+1]
		}
		return dict, nil
	},
	"add": func(a, b int) int {
		return a + b
	},
	"timeAgo": func(t time.Time) string {
		seconds := int(time.Since(t).Seconds())
		switch {
		case seconds < 60:
			return "just now"
		case seconds < 3600:
			return plural(seconds/60, "minute")
		case seconds < 86400:
			return plural(seconds/3600, "hour")
		case seconds < 2592000:
			return plural(seconds/86400, "day")
		case seconds < 31536000:
			return plural(seconds/2592000, "month")
		}
		return plural(seconds/31536000, "year")
	},
	// indent clamps reply depth for the nested comment layout.
	"indent": func(depth int) int {
		if depth > maxCommentIndent {
			return maxCommentIndent
		}
		return depth
	},
	"price": func(p *float64) string {
		if p == nil {
			return ""
		}
		return fmt.Sprintf("%.2f", *p)
	},
	"safeHTML": func(s string) template.HTML {
		return template.HTML(s)
	},
	"stripHTML": utils.StripHTML,
	"excerpt":   utils.Excerpt,
	"avatar":    utils.DefaultAvatarURL,
	"urlquery": func(s string) string {
		return url.QueryEscape(s)
	},
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
