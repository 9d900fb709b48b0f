package services

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/es"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/ie"
	"github.com/rickar/cal/v2/it"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/nz"
	"github.com/rickar/cal/v2/pt"
	"github.com/rickar/cal/v2/us"
)

// HolidayService answers whether a given day is a studio business day
// for the configured country. "NONE" means only weekends are off.
type HolidayService struct {
	calendars map[string]*cal.BusinessCalendar
}

func NewHolidayService() *HolidayService {
	s := &HolidayService{
		calendars: make(map[string]*cal.BusinessCalendar),
	}
	s.initCalendars()
	return s
}

func (s *HolidayService) initCalendars() {
	s.calendars["US"] = s.createCalendar("United States", us.Holidays...)
	s.calendars["GB"] = s.createCalendar("United Kingdom", gb.Holidays...)
	s.calendars["CA"] = s.createCalendar("Canada", ca.Holidays...)
	s.calendars["AU"] = s.createCalendar("Australia", au.HolidaysNSW...)
	s.calendars["NZ"] = s.createCalendar("New Zealand", nz.Holidays...)
	s.calendars["IE"] = s.createCalendar("Ireland", ie.Holidays...)
	s.calendars["FR"] = s.createCalendar("France", fr.Holidays...)
	s.calendars["DE"] = s.createCalendar("Germany", de.Holidays...)
	s.calendars["ES"] = s.createCalendar("Spain", es.Holidays...)
	s.calendars["IT"] = s.createCalendar("Italy", it.Holidays...)
	s.calendars["PT"] = s.createCalendar("Portugal", pt.Holidays...)
	s.calendars["NL"] = s.createCalendar("Netherlands", nl.Holidays...)
}

func (s *HolidayService) createCalendar(name string, holidays ...*cal.Holiday) *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = name
	c.AddHoliday(holidays...)
	return c
}

// SupportedCountries lists the country codes with a holiday calendar.
func (s *HolidayService) SupportedCountries() []string {
	codes := make([]string, 0, len(s.calendars)+1)
	for code := range s.calendars {
		codes = append(codes, code)
	}
	codes = append(codes, "NONE")
	return codes
}

// IsWorkday reports whether the studio is open on the given day.
// Unknown country codes fall back to weekend-only closures.
func (s *HolidayService) IsWorkday(t time.Time, countryCode string) bool {
	if countryCode == "NONE" {
		return !cal.IsWeekend(t)
	}

	c, ok := s.calendars[countryCode]
	if !ok {
		return !cal.IsWeekend(t)
	}

	return c.IsWorkday(t)
}

// IsHoliday reports whether the given day is a public holiday (not
// counting ordinary weekends).
func (s *HolidayService) IsHoliday(t time.Time, countryCode string) bool {
	c, ok := s.calendars[countryCode]
	if !ok {
		return false
	}
	actual, _, _ := c.IsHoliday(t)
	return actual
}

// HolidayName returns the holiday's name for the given day, or "".
func (s *HolidayService) HolidayName(t time.Time, countryCode string) string {
	c, ok := s.calendars[countryCode]
	if !ok {
		return ""
	}
	actual, _, h := c.IsHoliday(t)
	if !actual || h == nil {
		return ""
	}
	return h.Name
}
