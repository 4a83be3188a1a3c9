// Package api implements the HTTP surface of the meetup service
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
	"meetups.app/config"
	apperrors "meetups.app/errors"
	"meetups.app/events"
	"meetups.app/models"
	"meetups.app/service"
)

// Server represents the HTTP server and API handler
type Server struct {
	router              *gin.Engine
	db                  *gorm.DB
	config              *config.Config
	userService         service.UserServiceInterface
	meetupService       service.MeetupServiceInterface
	subscriptionService service.SubscriptionServiceInterface
	reportService       service.ReportServiceInterface
	tokenRepo           service.TokenRepositoryInterface
	hub                 *events.Hub
}

// NewServer creates and configures a new HTTP server
func NewServer(
	db *gorm.DB,
	config *config.Config,
	userService service.UserServiceInterface,
	meetupService service.MeetupServiceInterface,
	subscriptionService service.SubscriptionServiceInterface,
	reportService service.ReportServiceInterface,
	tokenRepo service.TokenRepositoryInterface,
	hub *events.Hub,
) *Server {
	router := gin.Default()

	server := &Server{
		router:              router,
		db:                  db,
		config:              config,
		userService:         userService,
		meetupService:       meetupService,
		subscriptionService: subscriptionService,
		reportService:       reportService,
		tokenRepo:           tokenRepo,
		hub:                 hub,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.router.Use(metricsMiddleware())

	users := s.router.Group("/users")
	{
		users.POST("/sign_up/", s.signUp)
		users.POST("/sign_in/", s.signIn)
		users.GET("/activate_user/:token", s.activateUser)

		authorized := users.Group("", s.authRequired)
		{
			authorized.GET("/profile/", s.profile)
			authorized.PUT("/edit_profile/", s.editProfile)
			authorized.DELETE("/delete_user/", s.deleteUser)
			authorized.POST("/upload_avatar", s.uploadAvatar)
		}
	}

	meetups := s.router.Group("/meetups", s.authRequired)
	{
		admin := meetups.Group("/admin", s.superuserRequired)
		{
			admin.GET("/", s.listMeetups)
			admin.POST("/create", s.createMeetup)
			admin.PUT("/update_meetup/:id", s.updateMeetup)
			admin.DELETE("/delete_meetup/:id", s.deleteMeetup)
		}

		meetups.POST("/follow/:id", s.followMeetup)
		meetups.DELETE("/unfollow/:id", s.unfollowMeetup)
		meetups.GET("/user_meetups", s.userMeetups)
		meetups.GET("/report/:mode", s.meetupsReport)
		meetups.GET("/search", s.searchMeetups)
		meetups.GET("/events", s.meetupEvents)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// handleError maps application errors onto the uniform response shape.
// Infrastructure failures surface the cause text so operators see the
// underlying exception; client errors surface the message as-is.
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ValidationError, apperrors.NotFoundError,
			apperrors.AlreadyExistsError, apperrors.TokenError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case apperrors.UnauthorizedError:
			statusCode = http.StatusUnauthorized
			message = appErr.Message
		case apperrors.ForbiddenError:
			statusCode = http.StatusForbidden
			message = appErr.Message
		default:
			statusCode = http.StatusInternalServerError
			if appErr.Cause != nil {
				message = fmt.Sprintf("%s. Exception: '%v'", appErr.Message, appErr.Cause)
			} else {
				message = appErr.Message
			}
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.SimpleMessage{Success: false, Message: message})
}
