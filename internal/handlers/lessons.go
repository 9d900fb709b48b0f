package handlers

import (
	"strconv"

	"github.com/dancedesk/dancedesk/internal/services"
	"github.com/dancedesk/dancedesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LessonHandler struct {
	lessonService *services.LessonService
}

func NewLessonHandler(db *gorm.DB) *LessonHandler {
	return &LessonHandler{
		lessonService: services.NewLessonService(db),
	}
}

// List returns paginated lessons with optional filters
// GET /api/lessons
func (h *LessonHandler) List(c *gin.Context) {
	var req services.LessonListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.lessonService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns a lesson by ID
// GET /api/lessons/:id
func (h *LessonHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}

	lesson, err := h.lessonService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lesson)
}

// Create schedules a new lesson
// POST /api/lessons
func (h *LessonHandler) Create(c *gin.Context) {
	var req services.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	lesson, err := h.lessonService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Update modifies a scheduled lesson
// PUT /api/lessons/:id
func (h *LessonHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}

	var req services.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	lesson, err := h.lessonService.Update(uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lesson)
}

// MarkAttended records attendance and consumes a lesson credit when
// the lesson is linked to an enrollment
// POST /api/lessons/:id/attend
func (h *LessonHandler) MarkAttended(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}

	lesson, err := h.lessonService.MarkAttended(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lesson)
}

// Cancel marks a scheduled lesson cancelled
// POST /api/lessons/:id/cancel
func (h *LessonHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}

	lesson, err := h.lessonService.Cancel(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lesson)
}

// Delete removes a lesson from the schedule
// DELETE /api/lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}

	if err := h.lessonService.Delete(uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "lesson deleted successfully"})
}
