package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courseforge/internal/service"
)

type LessonHandler struct {
	lessonService *service.LessonService
}

func NewLessonHandler(lessonService *service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

// Create takes a multipart form: title, sectionId, duration, a required video
// file and an optional resource file.
func (h *LessonHandler) Create(c *gin.Context) {
	sectionID, _ := strconv.ParseUint(c.PostForm("sectionId"), 10, 32)
	duration, _ := strconv.Atoi(c.PostForm("duration"))

	video, videoFile, err := formFile(c, "video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read video file"})
		return
	}
	if videoFile != nil {
		defer videoFile.Close()
	}

	resource, resourceFile, err := formFile(c, "resource")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read resource file"})
		return
	}
	if resourceFile != nil {
		defer resourceFile.Close()
	}

	course, err := h.lessonService.CreateLesson(c.Request.Context(), service.CreateLessonInput{
		Title:     c.PostForm("title"),
		SectionID: uint(sectionID),
		Duration:  duration,
		Video:     video,
		Resource:  resource,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"course": course})
}

func (h *LessonHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	duration, _ := strconv.Atoi(c.PostForm("duration"))

	video, videoFile, err := formFile(c, "video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read video file"})
		return
	}
	if videoFile != nil {
		defer videoFile.Close()
	}

	resource, resourceFile, err := formFile(c, "resource")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read resource file"})
		return
	}
	if resourceFile != nil {
		defer resourceFile.Close()
	}

	course, err := h.lessonService.UpdateLesson(c.Request.Context(), id, service.UpdateLessonInput{
		Title:    c.PostForm("title"),
		Duration: duration,
		Video:    video,
		Resource: resource,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.lessonService.DeleteLesson(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "lesson deleted"})
}

func (h *LessonHandler) DeleteResource(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	course, err := h.lessonService.DeleteResource(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": course})
}
