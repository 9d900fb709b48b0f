package handlers

import (
	"strconv"

	"github.com/dancedesk/dancedesk/internal/services"
	"github.com/dancedesk/dancedesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EnrollmentHandler struct {
	enrollmentService *services.EnrollmentService
}

func NewEnrollmentHandler(db *gorm.DB) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: services.NewEnrollmentService(db),
	}
}

// List returns paginated enrollments
// GET /api/enrollments
func (h *EnrollmentHandler) List(c *gin.Context) {
	var req services.EnrollmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.enrollmentService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns an enrollment by ID
// GET /api/enrollments/:id
func (h *EnrollmentHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid enrollment id")
		return
	}

	enrollment, err := h.enrollmentService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, enrollment)
}

// Create opens a new lesson block for a student
// POST /api/enrollments
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req services.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	enrollment, err := h.enrollmentService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Update amends an enrollment; resizing keeps consumed credits
// PUT /api/enrollments/:id
func (h *EnrollmentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid enrollment id")
		return
	}

	var req services.UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	enrollment, err := h.enrollmentService.Update(uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, enrollment)
}

// Delete removes an enrollment and unlinks its lessons
// DELETE /api/enrollments/:id
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid enrollment id")
		return
	}

	result, err := h.enrollmentService.Delete(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
