package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/outfitcult/internal/storage"
)

// UploadImage stores one inline image for the markdown editor and returns
// its public URL.
func (a *API) UploadImage(c *gin.Context) {
	file, err := formFile(c, "image")
	if err != nil || file == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded", "success": 0})
		return
	}

	if err := storage.ValidateImage(file); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "success": 0})
		return
	}

	key := storage.ObjectName(file.Name, time.Now())
	path, err := a.store.Upload(c.Request.Context(), key, file.Reader(), file.Size(), file.ContentType)
	if err != nil {
		a.log.Error("inline image upload", "name", file.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image", "success": 0})
		return
	}

	url := a.store.PublicURL(path)
	c.JSON(http.StatusOK, gin.H{
		"success": 1,
		"message": "Uploaded",
		"data": gin.H{
			"filePath": url,
			"url":      url,
			"width":    file.Width,
			"height":   file.Height,
		},
	})
}
