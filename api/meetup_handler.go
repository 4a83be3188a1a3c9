package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "meetups.app/errors"
	"meetups.app/models"
)

func meetupIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid meetup id")
	}
	return uint(id), nil
}

func (s *Server) listMeetups(c *gin.Context) {
	records, err := s.meetupService.ListAll(c.Request.Context())
	if err != nil {
		slog.Error("Meetup listing error", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (s *Server) createMeetup(c *gin.Context) {
	var req models.MeetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, apperrors.NewValidationError("invalid request format"))
		return
	}

	msg, err := s.meetupService.Create(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Meetup creation error", "error", err, "name", req.MeetupName)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func (s *Server) updateMeetup(c *gin.Context) {
	meetupID, err := meetupIDParam(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	var req models.MeetupUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, apperrors.NewValidationError("invalid request format"))
		return
	}

	msg, err := s.meetupService.Update(c.Request.Context(), meetupID, &req)
	if err != nil {
		slog.Error("Meetup update error", "error", err, "meetupID", meetupID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (s *Server) deleteMeetup(c *gin.Context) {
	meetupID, err := meetupIDParam(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	msg, err := s.meetupService.Delete(c.Request.Context(), meetupID)
	if err != nil {
		slog.Error("Meetup removal error", "error", err, "meetupID", meetupID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (s *Server) followMeetup(c *gin.Context) {
	meetupID, err := meetupIDParam(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	user := s.currentUser(c)
	msg, err := s.subscriptionService.Follow(c.Request.Context(), user.ID, meetupID)
	if err != nil {
		slog.Error("Follow error", "error", err, "userID", user.ID, "meetupID", meetupID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func (s *Server) unfollowMeetup(c *gin.Context) {
	meetupID, err := meetupIDParam(c)
	if err != nil {
		s.handleError(c, err)
		return
	}

	user := s.currentUser(c)
	msg, err := s.subscriptionService.Unfollow(c.Request.Context(), user.ID, meetupID)
	if err != nil {
		slog.Error("Unfollow error", "error", err, "userID", user.ID, "meetupID", meetupID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (s *Server) userMeetups(c *gin.Context) {
	user := s.currentUser(c)

	records, err := s.subscriptionService.UserMeetups(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("User meetups error", "error", err, "userID", user.ID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (s *Server) meetupsReport(c *gin.Context) {
	user := s.currentUser(c)
	mode := c.Param("mode")

	resp, err := s.reportService.CreateReport(c.Request.Context(), user.ID, mode)
	if err != nil {
		slog.Error("Report error", "error", err, "userID", user.ID, "mode", mode)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) searchMeetups(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		s.handleError(c, apperrors.NewValidationError("query parameter is required"))
		return
	}

	records, err := s.meetupService.Search(c.Request.Context(), query)
	if err != nil {
		slog.Error("Search error", "error", err, "query", query)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// meetupEvents streams meetup lifecycle notifications over SSE until the
// client disconnects.
func (s *Server) meetupEvents(c *gin.Context) {
	ch, cancel := s.hub.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
