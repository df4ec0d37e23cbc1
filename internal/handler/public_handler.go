package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/outfitcult/internal/service"
	"github.com/outfitcult/internal/view"
)

// ShowHome renders the landing page with the latest posts and the
// community submission form.
func (a *API) ShowHome(c *gin.Context) {
	posts, err := a.posts.Latest(homeLatestCount)
	if err != nil {
		a.log.Error("load latest posts", "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "home.html", gin.H{
			"title": "Home",
			"error": "Failed to load posts",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title": "Home",
		"posts": view.NewCards(posts),
		"form":  gin.H{},
	})
}

// ShowBlog renders the featured post followed by the next nine.
func (a *API) ShowBlog(c *gin.Context) {
	index, err := a.posts.BlogIndex()
	if err != nil {
		a.log.Error("load blog index", "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "blog.html", gin.H{
			"title": "Blog",
			"error": "Failed to load posts",
		})
		return
	}

	data := gin.H{
		"title": "Blog",
		"posts": view.NewCards(index.Recent),
	}
	if index.Featured != nil {
		data["featured"] = view.NewCard(index.Featured)
	}
	a.renderHTML(c, http.StatusOK, "blog.html", data)
}

// ShowCommunity lists every published post.
func (a *API) ShowCommunity(c *gin.Context) {
	posts, err := a.posts.ListPublished(0, 0)
	if err != nil {
		a.log.Error("load community posts", "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "community.html", gin.H{
			"title": "Community",
			"error": "Failed to load posts",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "community.html", gin.H{
		"title": "Community",
		"posts": view.NewCards(posts),
	})
}

// ShowPost renders a published post by slug.
func (a *API) ShowPost(c *gin.Context) {
	post, err := a.posts.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.NotFound(c)
			return
		}
		a.log.Error("load post", "slug", c.Param("slug"), "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title": "Error",
			"error": "Failed to load post",
		})
		return
	}

	detail, err := view.NewDetail(post)
	if err != nil {
		a.log.Error("render post content", "post_id", post.ID, "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title": "Error",
			"error": "Failed to load post",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "post.html", gin.H{
		"title": post.Title,
		"post":  detail,
	})
}

// RedirectCommunityPost sends the old community detail address to the blog one.
func (a *API) RedirectCommunityPost(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, view.PostURL(c.Param("slug")))
}

// RedirectLegacyPost resolves /post?id= to the slug address.
func (a *API) RedirectLegacyPost(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		a.NotFound(c)
		return
	}

	post, err := a.posts.GetPublished(id)
	if err != nil {
		if !errors.Is(err, service.ErrPostNotFound) {
			a.log.Error("resolve legacy post", "id", id, "error", err)
		}
		a.NotFound(c)
		return
	}
	c.Redirect(http.StatusMovedPermanently, view.PostURL(post.Slug))
}

// SubmitCommunityPost publishes an anonymous submission from the home page.
// Only a featured image is accepted.
func (a *API) SubmitCommunityPost(c *gin.Context) {
	form := gin.H{
		"author_name": trimmedForm(c, "author_name"),
		"title":       trimmedForm(c, "title"),
		"description": trimmedForm(c, "description"),
		"content":     trimmedForm(c, "content"),
	}

	rerender := func(status int, data gin.H) {
		posts, err := a.posts.Latest(homeLatestCount)
		if err != nil {
			a.log.Error("load latest posts", "error", err)
		}
		data["title"] = "Home"
		data["posts"] = view.NewCards(posts)
		data["form"] = form
		a.renderHTML(c, status, "home.html", data)
	}

	featured, err := formFile(c, "featured_image")
	if err != nil {
		rerender(http.StatusBadRequest, gin.H{"error": "Could not read the uploaded file"})
		return
	}

	input := service.DraftInput{
		Title:       form["title"].(string),
		Description: form["description"].(string),
		Content:     form["content"].(string),
		AuthorName:  form["author_name"].(string),
		Featured:    featured,
	}

	post, err := a.authoring.Create(c.Request.Context(), input)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			rerender(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
			return
		}
		rerender(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.Redirect(http.StatusSeeOther, view.PostURL(post.Slug))
}

// Health reports liveness.
func (a *API) Health(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
