package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courseforge/internal/client/videohost"
)

type VideoHandler struct {
	host *videohost.Client
}

func NewVideoHandler(host *videohost.Client) *VideoHandler {
	return &VideoHandler{host: host}
}

// Config exposes the video host library settings the admin UI needs to
// render players.
func (h *VideoHandler) Config(c *gin.Context) {
	config, err := h.host.GetConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": config})
}

func (h *VideoHandler) Embed(c *gin.Context) {
	videoID := c.Param("videoId")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video id is required"})
		return
	}

	url, err := h.host.EmbedURL(c.Request.Context(), videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"embedUrl": url})
}
