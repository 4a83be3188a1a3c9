package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "meetups.app/errors"
	"meetups.app/models"
)

func (s *Server) signUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, apperrors.NewValidationError("invalid request format"))
		return
	}

	slog.Debug("Sign up request received", "username", req.Username)

	msg, err := s.userService.SignUp(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Sign up error", "error", err, "username", req.Username)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func (s *Server) signIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, apperrors.NewValidationError("invalid request format"))
		return
	}

	token, err := s.userService.SignIn(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Sign in error", "error", err, "username", req.Username)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

func (s *Server) activateUser(c *gin.Context) {
	token := c.Param("token")

	msg, err := s.userService.Activate(c.Request.Context(), token)
	if err != nil {
		slog.Error("Activation error", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (s *Server) profile(c *gin.Context) {
	c.JSON(http.StatusOK, s.userService.Profile(s.currentUser(c)))
}

func (s *Server) editProfile(c *gin.Context) {
	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, apperrors.NewValidationError("invalid request format"))
		return
	}

	user := s.currentUser(c)
	msg, err := s.userService.UpdateProfile(c.Request.Context(), user, &req)
	if err != nil {
		slog.Error("Profile update error", "error", err, "username", user.Username)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (s *Server) deleteUser(c *gin.Context) {
	user := s.currentUser(c)

	msg, err := s.userService.DeleteUser(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("User removal error", "error", err, "userID", user.ID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (s *Server) uploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar_image")
	if err != nil {
		s.handleError(c, apperrors.NewValidationError("avatar_image file is required"))
		return
	}

	opened, err := file.Open()
	if err != nil {
		s.handleError(c, apperrors.NewFileStorageError("failed to open uploaded file", err))
		return
	}
	defer opened.Close()

	content, err := io.ReadAll(opened)
	if err != nil {
		s.handleError(c, apperrors.NewFileStorageError("failed to read uploaded file", err))
		return
	}

	user := s.currentUser(c)
	msg, err := s.userService.SaveAvatar(c.Request.Context(), user.ID, content)
	if err != nil {
		slog.Error("Avatar upload error", "error", err, "userID", user.ID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}
