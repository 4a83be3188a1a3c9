package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"meetups.app/metrics"
	"meetups.app/models"
)

const contextUserKey = "currentUser"

// authRequired resolves the bearer token to its user and aborts the request
// for missing, unknown or expired tokens and for inactive accounts.
func (s *Server) authRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.SimpleMessage{
			Success: false,
			Message: "Invalid authentication credentials",
		})
		return
	}

	user, err := s.tokenRepo.FindUserByToken(c.Request.Context(), token)
	if err != nil {
		s.handleError(c, err)
		c.Abort()
		return
	}
	if user == nil {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.SimpleMessage{
			Success: false,
			Message: "Invalid authentication credentials",
		})
		return
	}

	if !user.IsActive || !user.Confirmed {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.SimpleMessage{
			Success: false,
			Message: "Inactive user",
		})
		return
	}

	c.Set(contextUserKey, user)
	c.Next()
}

// superuserRequired aborts the request unless the authenticated user is a
// superuser. Must run after authRequired.
func (s *Server) superuserRequired(c *gin.Context) {
	if !s.currentUser(c).IsSuper {
		c.AbortWithStatusJSON(http.StatusForbidden, models.SimpleMessage{
			Success: false,
			Message: "Current user is not a superuser",
		})
		return
	}
	c.Next()
}

func (s *Server) currentUser(c *gin.Context) *models.User {
	value, _ := c.Get(contextUserKey)
	return value.(*models.User)
}

// metricsMiddleware records request counts and latency per route
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
