package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courseforge/internal/models"
	"courseforge/internal/service"
)

type CourseHandler struct {
	courseService *service.CourseService
}

func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"course": course})
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *CourseHandler) ListAdmin(c *gin.Context) {
	h.list(c, true)
}

func (h *CourseHandler) ListPublished(c *gin.Context) {
	h.list(c, false)
}

func (h *CourseHandler) list(c *gin.Context, admin bool) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	var (
		result *models.PaginatedCourses
		err    error
	)
	if admin {
		result, err = h.courseService.AdminCourses(c.Request.Context(), page, limit)
	} else {
		result, err = h.courseService.StudentCourses(c.Request.Context(), page, limit)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": result.Courses, "pagination": result.Pagination})
}

func (h *CourseHandler) SetStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCourseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courseService.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *CourseHandler) Archive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.Archive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": course})
}

// UploadThumbnail accepts a multipart image and returns the stored URL.
func (h *CourseHandler) UploadThumbnail(c *gin.Context) {
	upload, file, err := formFile(c, "thumbnail")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read thumbnail"})
		return
	}
	if file != nil {
		defer file.Close()
	}

	courseName := c.PostForm("courseName")
	isEditing := c.PostForm("isEditing") == "true"

	url, err := h.courseService.UploadThumbnail(c.Request.Context(), upload, courseName, isEditing)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
