package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/outfitcult/internal/auth"
)

// ShowLoginPage 显示登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	if _, ok := a.auth.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Sign in",
		"next":  safeNext(c.Query("next")),
	})
}

// Login 处理登录请求
func (a *API) Login(c *gin.Context) {
	username := trimmedForm(c, "username")
	password := c.PostForm("password")
	next := safeNext(c.PostForm("next"))

	if _, err := a.auth.SignIn(c, username, password); err != nil {
		status := http.StatusInternalServerError
		message := "Sign in failed"
		if errors.Is(err, auth.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			message = "Invalid username or password"
		}
		a.renderHTML(c, status, "login.html", gin.H{
			"title":    "Sign in",
			"error":    message,
			"username": username,
			"next":     next,
		})
		return
	}

	c.Redirect(http.StatusFound, next)
}

// Logout 处理登出请求
func (a *API) Logout(c *gin.Context) {
	if err := a.auth.SignOut(c); err != nil {
		a.log.Error("sign out", "error", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// ShowProtected greets the signed-in author.
func (a *API) ShowProtected(c *gin.Context) {
	identity := auth.MustIdentity(c)
	a.renderHTML(c, http.StatusOK, "protected.html", gin.H{
		"title":    "Welcome",
		"identity": identity,
	})
}

// safeNext only allows local absolute paths as post-login targets.
// Browsers read "/\host" like "//host", so backslashes are refused too.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.ContainsAny(next, "\\\r\n\t") {
		return dashboardPath
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return dashboardPath
	}
	return next
}
