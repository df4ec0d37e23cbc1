package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/outfitcult/internal/auth"
	"github.com/outfitcult/internal/service"
)

// ShowProfile 显示作者资料编辑页
func (a *API) ShowProfile(c *gin.Context) {
	identity := auth.MustIdentity(c)

	form := gin.H{"display_name": identity.DisplayName}
	profile, err := a.profiles.Get(identity.ID)
	switch {
	case err == nil:
		form["display_name"] = profile.DisplayName
		form["avatar"] = profile.AvatarURL
	case !errors.Is(err, service.ErrProfileNotFound):
		a.log.Error("load profile", "user_id", identity.ID, "error", err)
	}

	a.renderHTML(c, http.StatusOK, "profile.html", gin.H{
		"title": "Profile",
		"form":  form,
		"saved": c.Query("saved") == "1",
	})
}

// UpdateProfile 保存展示名与头像
func (a *API) UpdateProfile(c *gin.Context) {
	identity := auth.MustIdentity(c)
	form := gin.H{"display_name": trimmedForm(c, "display_name")}
	page := gin.H{"title": "Profile", "form": form}

	avatar, err := formFile(c, "avatar")
	if err != nil {
		page["error"] = "Could not read the uploaded file"
		a.renderHTML(c, http.StatusBadRequest, "profile.html", page)
		return
	}

	if _, err := a.profiles.Update(c.Request.Context(), identity.ID, service.ProfileInput{
		DisplayName: form["display_name"].(string),
		Avatar:      avatar,
	}); err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			page["errors"] = verr.Fields
			a.renderHTML(c, http.StatusUnprocessableEntity, "profile.html", page)
			return
		}
		a.log.Error("update profile", "user_id", identity.ID, "error", err)
		page["error"] = "Failed to update profile"
		a.renderHTML(c, http.StatusInternalServerError, "profile.html", page)
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard/profile?saved=1")
}
