package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/outfitcult/internal/auth"
	"github.com/outfitcult/internal/handler"
	"github.com/outfitcult/web"
)

const loginPath = "/auth/login"

// Options configures the engine around the handler set.
type Options struct {
	SessionSecret string
	CookieSecure  bool
	// UploadDir is served at UploadURLPath when images are stored locally.
	UploadDir     string
	UploadURLPath string
	Logger        *slog.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) (*gin.Engine, error) {
	r := gin.New()
	r.Use(requestLogger(opts.Logger), recovery(opts.Logger))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// 静态文件服务
	assets := http.FS(web.Static())
	r.StaticFileFS("/static/placeholder.svg", "placeholder.svg", assets)
	r.StaticFileFS("/static/site.css", "site.css", assets)
	r.StaticFileFS("/static/dashboard.js", "dashboard.js", assets)
	if opts.UploadDir != "" {
		urlPath := "/" + strings.Trim(opts.UploadURLPath, "/")
		if urlPath == "/" {
			urlPath = "/static/uploads"
		}
		r.Static(urlPath, opts.UploadDir)
		if urlPath != "/uploads" {
			r.Static("/uploads", opts.UploadDir)
		}
	}

	sessions := api.Sessions()
	r.Use(auth.Middleware(opts.SessionSecret, opts.CookieSecure), sessions.LoadUser())
	r.NoRoute(api.NotFound)

	r.GET("/healthz", api.Health)

	// 公开页面
	r.GET("/", api.ShowHome)
	r.GET("/blog", api.ShowBlog)
	r.GET("/blog/:slug", api.ShowPost)
	r.GET("/community", api.ShowCommunity)
	r.GET("/community/:slug", api.RedirectCommunityPost)
	r.POST("/community/posts", api.SubmitCommunityPost)
	r.GET("/post", api.RedirectLegacyPost)

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/login", api.ShowLoginPage)
		authGroup.POST("/login", api.Login)
		authGroup.POST("/logout", api.Logout)
	}

	requireUser := sessions.RequireUser(loginPath)
	r.GET("/protected", requireUser, api.ShowProtected)

	// 需要认证的作者后台
	dashboard := r.Group("/dashboard", requireUser)
	{
		dashboard.GET("", api.ShowDashboard)
		dashboard.GET("/create", api.ShowCreatePost)
		dashboard.POST("/create", api.CreatePost)
		dashboard.GET("/edit/:id", api.ShowEditPost)
		dashboard.POST("/edit/:id", api.UpdatePost)
		dashboard.GET("/delete/:id", api.ShowDeletePost)
		dashboard.POST("/delete/:id", api.DeletePost)
		dashboard.GET("/profile", api.ShowProfile)
		dashboard.POST("/profile", api.UpdateProfile)

		apiGroup := dashboard.Group("/api")
		{
			apiGroup.DELETE("/posts/:id", api.DeletePostAPI)
			apiGroup.POST("/uploads", api.UploadImage)
		}
	}

	return r, nil
}
