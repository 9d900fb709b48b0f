package handlers

import (
	"time"

	"github.com/dancedesk/dancedesk/internal/services"
	"github.com/dancedesk/dancedesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CalendarHandler struct {
	calendarService *services.CalendarService
	holidayService  *services.HolidayService
}

func NewCalendarHandler(db *gorm.DB) *CalendarHandler {
	holidays := services.NewHolidayService()
	return &CalendarHandler{
		calendarService: services.NewCalendarService(db, holidays),
		holidayService:  holidays,
	}
}

// Weekly returns the seven-day schedule starting at start_date,
// defaulting to the current week's Monday
// GET /api/calendar/weekly?start_date=YYYY-MM-DD
func (h *CalendarHandler) Weekly(c *gin.Context) {
	startDate := c.Query("start_date")
	if startDate == "" {
		now := time.Now()
		offset := int(now.Weekday()) - 1
		if offset < 0 {
			offset = 6
		}
		startDate = now.AddDate(0, 0, -offset).Format("2006-01-02")
	}

	week, err := h.calendarService.Weekly(startDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, week)
}

// Countries lists the supported holiday country codes
// GET /api/calendar/countries
func (h *CalendarHandler) Countries(c *gin.Context) {
	response.Success(c, h.holidayService.SupportedCountries())
}
