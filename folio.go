// Package folio is a personal blog and portfolio content server built with
// Go, Echo, and SQLite. It serves blog posts and projects over a JSON API,
// renders posts as HTML pages, and generates RSS and sitemap feeds.
//
// Posts can be persisted either in SQLite (the default) or as a JSON file
// on disk; the file backend migrates legacy file layouts on startup.
package folio

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// App is the central folio application. It wires together the stores,
// cache, handlers, and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Posts  PostStore
	Cache  *PostCache

	loginLimiter   *RateLimiter
	contactLimiter *RateLimiter
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a new folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the stores, cache, middleware, and routes, then starts
// the server.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}

	if err := a.Echo.Start(a.Config.Addr()); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// init wires up everything short of listening. Split out so tests can
// exercise the full route table without binding a port.
func (a *App) init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store

	switch a.Config.PostsBackend {
	case "file":
		fs, err := NewFileStore(a.Config.DataDir, nil)
		if err != nil {
			return fmt.Errorf("folio: init file store: %w", err)
		}
		a.Posts = fs
	default:
		if err := store.Seed(); err != nil {
			return fmt.Errorf("folio: seed store: %w", err)
		}
		a.Posts = store
	}

	a.Cache = NewPostCache(a.Posts, a.Config.PostCacheTTL)
	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.contactLimiter = NewRateLimiter(3, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleRSS)

	e.GET("/blog/:slug/", a.handlePostPage)

	api := e.Group("/api")

	api.GET("/blog/posts", a.handleListPosts)
	api.GET("/blog/posts/:id", a.handleGetPost)
	api.GET("/blog/slug/:slug", a.handleGetPostBySlug)
	api.GET("/blog/tags", a.handleListTags)
	api.POST("/blog/posts", a.handleCreatePost, a.requireAdmin)
	api.PUT("/blog/posts/:id", a.handleUpdatePost, a.requireAdmin)
	api.DELETE("/blog/posts/:id", a.handleDeletePost, a.requireAdmin)

	api.GET("/projects", a.handleListProjects)
	api.GET("/projects/:id", a.handleGetProject)
	api.GET("/projects/slug/:slug", a.handleGetProjectBySlug)
	api.POST("/projects", a.handleCreateProject, a.requireAdmin)
	api.PUT("/projects/:id", a.handleUpdateProject, a.requireAdmin)
	api.DELETE("/projects/:id", a.handleDeleteProject, a.requireAdmin)
	api.POST("/projects/:id/image", a.handleProjectImageUpload, a.requireAdmin)

	api.POST("/contact", a.handleContact)
	api.GET("/contact", a.handleListContact, a.requireAdmin)

	api.POST("/admin/login", a.handleAdminLogin)
	api.POST("/admin/logout", handleAdminLogout)
	api.GET("/admin/session", a.handleAdminSession)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}
