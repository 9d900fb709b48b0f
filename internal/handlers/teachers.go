package handlers

import (
	"strconv"

	"github.com/dancedesk/dancedesk/internal/services"
	"github.com/dancedesk/dancedesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TeacherHandler struct {
	teacherService *services.TeacherService
}

func NewTeacherHandler(db *gorm.DB) *TeacherHandler {
	return &TeacherHandler{
		teacherService: services.NewTeacherService(db),
	}
}

// List returns paginated teachers
// GET /api/teachers
func (h *TeacherHandler) List(c *gin.Context) {
	var req services.TeacherListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.teacherService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns a teacher by ID
// GET /api/teachers/:id
func (h *TeacherHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid teacher id")
		return
	}

	teacher, err := h.teacherService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, teacher)
}

// Create creates a new teacher
// POST /api/teachers
func (h *TeacherHandler) Create(c *gin.Context) {
	var req services.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	teacher, err := h.teacherService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Update updates a teacher
// PUT /api/teachers/:id
func (h *TeacherHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid teacher id")
		return
	}

	var req services.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	teacher, err := h.teacherService.Update(uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, teacher)
}

// Delete removes a teacher and detaches their lesson assignments
// DELETE /api/teachers/:id
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid teacher id")
		return
	}

	result, err := h.teacherService.Delete(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
