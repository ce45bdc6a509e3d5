package api

import (
	"net/http"

	"github.com/Aidin1998/calendars/api/responses"
	"github.com/Aidin1998/calendars/common/apiutil"
	"github.com/Aidin1998/calendars/internal/calendars"
	"github.com/Aidin1998/calendars/pkg/errors"
	"github.com/gin-gonic/gin"
)

type calendarURI struct {
	ID int32 `uri:"id"`
}

type nameURI struct {
	Name string `uri:"name"`
}

// calendarRequest is the create/update body. Both keys must be present;
// empty strings are accepted.
type calendarRequest struct {
	Name        *string `json:"name" binding:"required"`
	Description *string `json:"description" binding:"required"`
}

func (r calendarRequest) input() calendars.Input {
	return calendars.Input{Name: *r.Name, Description: *r.Description}
}

// bindID parses :id. A value that is not an int32 cannot name a calendar,
// so it is answered with 404.
func (s *Server) bindID(c *gin.Context) (int32, bool) {
	var uri calendarURI
	if err := c.ShouldBindUri(&uri); err != nil {
		s.writeError(c, errors.NotFound.Explain("calendar %q not found", c.Param("id")))
		return 0, false
	}
	return uri.ID, true
}

func (s *Server) bindBody(c *gin.Context) (calendars.Input, bool) {
	var req calendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apiutil.BindingError(err))
		return calendars.Input{}, false
	}
	return req.input(), true
}

func (s *Server) listCalendars(c *gin.Context) {
	list, err := s.calendars.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, list)
}

func (s *Server) getCalendarByID(c *gin.Context) {
	id, ok := s.bindID(c)
	if !ok {
		return
	}
	cal, err := s.calendars.GetByID(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, cal)
}

func (s *Server) getCalendarByName(c *gin.Context) {
	var uri nameURI
	if err := c.ShouldBindUri(&uri); err != nil {
		s.writeError(c, errors.NotFound.Explain("calendar not found"))
		return
	}
	cal, err := s.calendars.GetByName(c.Request.Context(), uri.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses.OK(c, cal)
}

func (s *Server) createCalendar(c *gin.Context) {
	in, ok := s.bindBody(c)
	if !ok {
		return
	}
	if _, err := s.calendars.Create(c.Request.Context(), in); err != nil {
		s.writeError(c, err)
		return
	}
	responses.Empty(c, http.StatusCreated)
}

func (s *Server) updateCalendar(c *gin.Context) {
	id, ok := s.bindID(c)
	if !ok {
		return
	}
	in, ok := s.bindBody(c)
	if !ok {
		return
	}
	if err := s.calendars.Update(c.Request.Context(), id, in); err != nil {
		s.writeError(c, err)
		return
	}
	responses.Empty(c, http.StatusOK)
}

func (s *Server) deleteCalendar(c *gin.Context) {
	id, ok := s.bindID(c)
	if !ok {
		return
	}
	if _, err := s.calendars.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	responses.Empty(c, http.StatusOK)
}
