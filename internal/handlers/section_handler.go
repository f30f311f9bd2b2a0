package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courseforge/internal/models"
	"courseforge/internal/service"
)

type SectionHandler struct {
	sectionService *service.SectionService
	reorderService *service.ReorderService
}

func NewSectionHandler(sectionService *service.SectionService, reorderService *service.ReorderService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService, reorderService: reorderService}
}

func (h *SectionHandler) Create(c *gin.Context) {
	var req models.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.sectionService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"section": section})
}

func (h *SectionHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.sectionService.Update(c.Request.Context(), id, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"section": section})
}

func (h *SectionHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.sectionService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "section deleted"})
}

// Drag applies one completed drag gesture using prefixed identifiers, e.g.
// "section-12" onto "section-7".
func (h *SectionHandler) Drag(c *gin.Context) {
	var req models.DragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reorderService.HandleDrag(c.Request.Context(), req.ActiveID, req.OverID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order updated"})
}

func (h *SectionHandler) Reorder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reorderService.ReorderSections(c.Request.Context(), id, req.OrderedIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order updated"})
}

func (h *SectionHandler) ReorderLessons(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reorderService.ReorderLessons(c.Request.Context(), id, req.OrderedIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order updated"})
}
