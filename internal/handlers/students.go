package handlers

import (
	"strconv"

	"github.com/dancedesk/dancedesk/internal/services"
	"github.com/dancedesk/dancedesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StudentHandler struct {
	studentService    *services.StudentService
	enrollmentService *services.EnrollmentService
}

func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{
		studentService:    services.NewStudentService(db),
		enrollmentService: services.NewEnrollmentService(db),
	}
}

// List returns paginated students
// GET /api/students
func (h *StudentHandler) List(c *gin.Context) {
	var req services.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.studentService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns a student by ID
// GET /api/students/:id
func (h *StudentHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	student, err := h.studentService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, student)
}

// Create creates a new student
// POST /api/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	student, err := h.studentService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update updates a student
// PUT /api/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	var req services.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	student, err := h.studentService.Update(uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, student)
}

// Delete removes a student along with their lessons and enrollments,
// reporting the cascade counts
// DELETE /api/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	result, err := h.studentService.Delete(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetLessonCredits returns the student's remaining lesson balances
// GET /api/students/:id/lesson-credits
func (h *StudentHandler) GetLessonCredits(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	summary, err := h.enrollmentService.GetCreditSummary(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}
