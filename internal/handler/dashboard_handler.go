package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/outfitcult/internal/auth"
	"github.com/outfitcult/internal/db"
	"github.com/outfitcult/internal/service"
	"github.com/outfitcult/internal/view"
)

// ShowDashboard 显示当前作者的文章列表
func (a *API) ShowDashboard(c *gin.Context) {
	identity := auth.MustIdentity(c)

	posts, err := a.posts.ListByAuthor(identity.ID)
	if err != nil {
		a.log.Error("load dashboard posts", "user_id", identity.ID, "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "dashboard.html", gin.H{
			"title": "Dashboard",
			"error": "Failed to load your posts",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "dashboard.html", gin.H{
		"title": "Dashboard",
		"posts": view.NewDashboardItems(posts),
		"flash": c.Query("flash"),
	})
}

// ShowCreatePost 显示新建文章表单
func (a *API) ShowCreatePost(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "post_form.html", gin.H{
		"title":  "Create post",
		"action": "/dashboard/create",
		"form":   gin.H{},
	})
}

// CreatePost 处理新建文章表单提交
func (a *API) CreatePost(c *gin.Context) {
	identity := auth.MustIdentity(c)
	form := postForm(c)
	page := gin.H{"title": "Create post", "action": "/dashboard/create", "form": form}

	input, err := draftFromForm(c, form)
	if err != nil {
		page["error"] = "Could not read the uploaded files"
		a.renderHTML(c, http.StatusBadRequest, "post_form.html", page)
		return
	}
	input.AuthorID = &identity.ID

	if _, err := a.authoring.Create(c.Request.Context(), input); err != nil {
		a.renderDraftError(c, page, err, "Failed to create post")
		return
	}

	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// ShowEditPost 显示编辑表单
func (a *API) ShowEditPost(c *gin.Context) {
	identity := auth.MustIdentity(c)
	post, ok := a.ownedPost(c, identity.ID)
	if !ok {
		return
	}

	a.renderHTML(c, http.StatusOK, "post_form.html", gin.H{
		"title":  "Edit post",
		"action": "/dashboard/edit/" + post.ID,
		"post":   view.NewDashboardItem(post),
		"images": view.SortImages(post.Images),
		"form": gin.H{
			"title":       post.Title,
			"description": post.Description,
			"content":     post.Content,
			"featured":    post.FeaturedImageURL,
		},
	})
}

// UpdatePost 处理编辑表单提交
func (a *API) UpdatePost(c *gin.Context) {
	identity := auth.MustIdentity(c)
	id := c.Param("id")
	form := postForm(c)
	page := gin.H{"title": "Edit post", "action": "/dashboard/edit/" + id, "form": form}

	input, err := draftFromForm(c, form)
	if err != nil {
		page["error"] = "Could not read the uploaded files"
		a.renderHTML(c, http.StatusBadRequest, "post_form.html", page)
		return
	}

	if _, err := a.authoring.Update(c.Request.Context(), id, identity.ID, input); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.NotFound(c)
			return
		}
		a.renderDraftError(c, page, err, "Failed to update post")
		return
	}

	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// ShowDeletePost asks for confirmation before deleting.
func (a *API) ShowDeletePost(c *gin.Context) {
	identity := auth.MustIdentity(c)
	post, ok := a.ownedPost(c, identity.ID)
	if !ok {
		return
	}

	a.renderHTML(c, http.StatusOK, "post_delete.html", gin.H{
		"title": "Delete post",
		"post":  view.NewDashboardItem(post),
	})
}

// DeletePost deletes after the confirmation form was submitted with confirm=yes.
func (a *API) DeletePost(c *gin.Context) {
	identity := auth.MustIdentity(c)
	id := c.Param("id")

	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	}

	if err := a.posts.Delete(id, identity.ID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.NotFound(c)
			return
		}
		a.log.Error("delete post", "post_id", id, "error", err)
		posts, _ := a.posts.ListByAuthor(identity.ID)
		a.renderHTML(c, http.StatusInternalServerError, "dashboard.html", gin.H{
			"title": "Dashboard",
			"posts": view.NewDashboardItems(posts),
			"error": "Failed to delete post",
		})
		return
	}

	a.log.Info("post deleted", "post_id", id, "user_id", identity.ID)
	c.Redirect(http.StatusSeeOther, dashboardPath+"?flash=deleted")
}

// DeletePostAPI 删除文章（供脚本确认框调用）
func (a *API) DeletePostAPI(c *gin.Context) {
	identity := auth.MustIdentity(c)
	id := c.Param("id")

	if err := a.posts.Delete(id, identity.ID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		a.log.Error("delete post", "post_id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	a.log.Info("post deleted", "post_id", id, "user_id", identity.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (a *API) ownedPost(c *gin.Context, userID string) (*db.Post, bool) {
	post, err := a.posts.GetOwned(c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.NotFound(c)
			return nil, false
		}
		a.log.Error("load owned post", "post_id", c.Param("id"), "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title": "Error",
			"error": "Failed to load post",
		})
		return nil, false
	}
	return post, true
}

// renderDraftError maps authoring failures: field errors re-render the form
// with 422, anything else collapses to one message.
func (a *API) renderDraftError(c *gin.Context, page gin.H, err error, message string) {
	if verr, ok := service.AsValidationError(err); ok {
		page["errors"] = verr.Fields
		a.renderHTML(c, http.StatusUnprocessableEntity, "post_form.html", page)
		return
	}
	page["error"] = message
	a.renderHTML(c, http.StatusInternalServerError, "post_form.html", page)
}

func postForm(c *gin.Context) gin.H {
	return gin.H{
		"title":       trimmedForm(c, "title"),
		"description": trimmedForm(c, "description"),
		"content":     trimmedForm(c, "content"),
		"alt_texts":   c.PostForm("alt_texts"),
	}
}

// altTexts accepts either repeated alt_texts fields or one textarea with a
// line per additional image.
func altTexts(c *gin.Context) []string {
	values := c.PostFormArray("alt_texts")
	if len(values) != 1 {
		return values
	}
	lines := strings.Split(strings.ReplaceAll(values[0], "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func draftFromForm(c *gin.Context, form gin.H) (service.DraftInput, error) {
	featured, err := formFile(c, "featured_image")
	if err != nil {
		return service.DraftInput{}, err
	}
	images, err := formFiles(c, "images")
	if err != nil {
		return service.DraftInput{}, err
	}

	return service.DraftInput{
		Title:       form["title"].(string),
		Description: form["description"].(string),
		Content:     form["content"].(string),
		Featured:    featured,
		Images:      images,
		AltTexts:    altTexts(c),
	}, nil
}
