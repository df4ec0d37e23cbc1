package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/outfitcult/internal/auth"
	"github.com/outfitcult/internal/service"
	"github.com/outfitcult/internal/storage"
	"gorm.io/gorm"
)

const (
	homeLatestCount = 6
	dashboardPath   = "/dashboard"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	posts     *service.PostService
	authoring *service.AuthoringService
	profiles  *service.ProfileService
	auth      *auth.Provider
	store     storage.Storage
	log       *slog.Logger
	siteName  string
}

// Options carries what NewAPI cannot derive from the database handle.
type Options struct {
	SiteName string
	Rollback bool
	Clock    func() time.Time
	Logger   *slog.Logger
	Storage  storage.Storage
	Sessions *auth.Provider
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	authoringOpts := []service.AuthoringOption{service.WithRollback(opts.Rollback)}
	if opts.Clock != nil {
		authoringOpts = append(authoringOpts, service.WithClock(opts.Clock))
	}

	siteName := opts.SiteName
	if siteName == "" {
		siteName = "OutfitCult"
	}

	return &API{
		db:        gdb,
		posts:     service.NewPostService(gdb),
		authoring: service.NewAuthoringService(gdb, opts.Storage, opts.Logger, authoringOpts...),
		profiles:  service.NewProfileService(gdb, opts.Storage, opts.Logger),
		auth:      opts.Sessions,
		store:     opts.Storage,
		log:       opts.Logger,
		siteName:  siteName,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Sessions exposes the session provider for middleware wiring.
func (a *API) Sessions() *auth.Provider {
	return a.auth
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = a.siteName
	}
	if _, exists := payload["currentUser"]; !exists {
		if identity, ok := a.auth.CurrentUser(c); ok {
			payload["currentUser"] = identity
		}
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}

	c.HTML(status, template, payload)
}

// NotFound renders the 404 page.
func (a *API) NotFound(c *gin.Context) {
	a.renderHTML(c, 404, "404.html", gin.H{"title": "Not found"})
}
