package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courseforge/internal/client"
	"courseforge/internal/models"
	"courseforge/internal/service"
)

// respondError maps service and remote-client failures onto HTTP statuses.
// Upstream 5xx surfaces as 502 so gateway failures stay distinguishable from
// backend failures.
func respondError(c *gin.Context, err error) {
	switch {
	case service.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, client.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, sign in again"})
	case errors.Is(err, service.ErrNoCourseLoaded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case client.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case client.IsValidationError(err):
		var apiErr *client.APIError
		errors.As(err, &apiErr)
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
	default:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream service failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// formFile converts an optional multipart file into the upload model. The
// returned closer is non-nil whenever a file was opened.
func formFile(c *gin.Context, field string) (*models.FileUpload, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		// Absent file fields are legitimate for optional uploads.
		return nil, nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	return &models.FileUpload{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}, file, nil
}
