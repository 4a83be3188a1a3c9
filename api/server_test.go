package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"meetups.app/config"
	apperrors "meetups.app/errors"
	"meetups.app/events"
	"meetups.app/models"
)

// Mock user service - implements service.UserServiceInterface
type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.SimpleMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimpleMessage), args.Error(1)
}

func (m *mockUserService) SignIn(ctx context.Context, req *models.SignInRequest) (*models.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *mockUserService) Activate(ctx context.Context, token string) (*models.SimpleMessage, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimpleMessage), args.Error(1)
}

func (m *mockUserService) Profile(user *models.User) *models.UserProfile {
	args := m.Called(user)
	return args.Get(0).(*models.UserProfile)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, user *models.User, req *models.ProfileUpdateRequest) (*models.SimpleMessage, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimpleMessage), args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, userID uint) (*models.SimpleMessage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimpleMessage), args.Error(1)
}

func (m *mockUserService) SaveAvatar(ctx context.Context, userID uint, content []byte) (*models.SimpleMessage, error) {
	args := m.Called(ctx, userID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimpleMessage), args.Error(1)
}

func (m *mockUserService) EnsureSuperuser(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Mock meetup service - implements service.MeetupServiceInterface
type mockMeetupService struct {
	mock.Mock
}

func (m *mockMeetupService) ListAll(ctx context.Context) ([]models.MeetupRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MeetupRecord), args.Error(1)
}

func (m *mockMeetupService) Create(ctx context.Context, req *models.MeetupRequest) (*models.SimpleMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimpleMessage), args.Error(1)
}

func (m *mockMeetupService) Update(ctx context.Context, meetupID uint, req *models.MeetupUpdateRequest) (*models.SimpleMessage, error) {
	args := m.Called(ctx, meetupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimpleMessage), args.Error(1)
}

func (m *mockMeetupService) Delete(ctx context.Context, meetupID uint) (*models.SimpleMessage, error) {
	args := m.Called(ctx, meetupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimpleMessage), args.Error(1)
}

func (m *mockMeetupService) Search(ctx context.Context, query string) ([]models.MeetupRecord, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MeetupRecord), args.Error(1)
}

// Mock subscription service - implements service.SubscriptionServiceInterface
type mockSubscriptionService struct {
	mock.Mock
}

func (m *mockSubscriptionService) Follow(ctx context.Context, userID, meetupID uint) (*models.SimpleMessage, error) {
	args := m.Called(ctx, userID, meetupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimpleMessage), args.Error(1)
}

func (m *mockSubscriptionService) Unfollow(ctx context.Context, userID, meetupID uint) (*models.SimpleMessage, error) {
	args := m.Called(ctx, userID, meetupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimpleMessage), args.Error(1)
}

func (m *mockSubscriptionService) UserMeetups(ctx context.Context, userID uint) ([]models.MeetupRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MeetupRecord), args.Error(1)
}

// Mock report service - implements service.ReportServiceInterface
type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) CreateReport(ctx context.Context, userID uint, mode string) (*models.ReportResponse, error) {
	args := m.Called(ctx, userID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportResponse), args.Error(1)
}

// Mock token repository - implements service.TokenRepositoryInterface
type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) CreateToken(ctx context.Context, userID uint) (*models.Token, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Token), args.Error(1)
}

func (m *mockTokenRepo) FindUserByToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockTokenRepo) DeleteExpiredTokens(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type testServer struct {
	server        *Server
	userService   *mockUserService
	meetupService *mockMeetupService
	subService    *mockSubscriptionService
	reportService *mockReportService
	tokenRepo     *mockTokenRepo
	hub           *events.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		userService:   new(mockUserService),
		meetupService: new(mockMeetupService),
		subService:    new(mockSubscriptionService),
		reportService: new(mockReportService),
		tokenRepo:     new(mockTokenRepo),
		hub:           events.NewHub(),
	}
	t.Cleanup(ts.hub.Close)

	cfg := &config.Config{}
	cfg.Server.Port = 8080

	ts.server = NewServer(nil, cfg, ts.userService, ts.meetupService,
		ts.subService, ts.reportService, ts.tokenRepo, ts.hub)
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.server.GetRouter().ServeHTTP(w, req)
	return w
}

func (ts *testServer) authenticate(user *models.User) {
	ts.tokenRepo.On("FindUserByToken", mock.Anything, "valid-token").Return(user, nil)
}

func bearerRequest(method, target string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer valid-token")
	req.Header.Set("Content-Type", "application/json")
	return req
}

func activeUser() *models.User {
	return &models.User{ID: 3, Username: "gopher", Email: "gopher@example.com", IsActive: true, Confirmed: true}
}

func superUser() *models.User {
	user := activeUser()
	user.IsSuper = true
	return user
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) models.SimpleMessage {
	t.Helper()
	var msg models.SimpleMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	return msg
}

func TestSignUpEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.userService.On("SignUp", mock.Anything, mock.MatchedBy(func(req *models.SignUpRequest) bool {
		return req.Username == "gopher"
	})).Return(&models.SimpleMessage{Success: true, Message: "Verification mail has been sent (user_id=42)"}, nil)

	body := bytes.NewBufferString(`{"email":"gopher@example.com","username":"gopher","password":"Sup3r-secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/users/sign_up/", body)
	req.Header.Set("Content-Type", "application/json")

	w := ts.do(req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Verification mail has been sent (user_id=42)", decodeMessage(t, w).Message)
}

func TestSignUpEndpoint_Conflict(t *testing.T) {
	ts := newTestServer(t)

	ts.userService.On("SignUp", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAlreadyExistsError("Email already registered"))

	body := bytes.NewBufferString(`{"email":"gopher@example.com","username":"gopher","password":"Sup3r-secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/users/sign_up/", body)
	req.Header.Set("Content-Type", "application/json")

	w := ts.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	msg := decodeMessage(t, w)
	assert.False(t, msg.Success)
	assert.Equal(t, "Email already registered", msg.Message)
}

func TestSignInEndpoint(t *testing.T) {
	ts := newTestServer(t)

	expires := time.Now().Add(time.Hour).UTC()
	ts.userService.On("SignIn", mock.Anything, mock.MatchedBy(func(req *models.SignInRequest) bool {
		return req.Username == "gopher" && req.Password == "Sup3r-secret"
	})).Return(&models.TokenResponse{AccessToken: "tok", Expires: expires, TokenType: "bearer"}, nil)

	form := url.Values{"username": {"gopher"}, "password": {"Sup3r-secret"}}
	req := httptest.NewRequest(http.MethodPost, "/users/sign_in/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := ts.do(req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestSignInEndpoint_BadCredentials(t *testing.T) {
	ts := newTestServer(t)

	ts.userService.On("SignIn", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("Incorrect email or password"))

	form := url.Values{"username": {"gopher"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/users/sign_in/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := ts.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Incorrect email or password", decodeMessage(t, w).Message)
}

func TestActivateEndpoint_BadToken(t *testing.T) {
	ts := newTestServer(t)

	ts.userService.On("Activate", mock.Anything, "garbage").
		Return(nil, apperrors.NewTokenError("Incorrect validation token"))

	w := ts.do(httptest.NewRequest(http.MethodGet, "/users/activate_user/garbage", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Incorrect validation token", decodeMessage(t, w).Message)
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("MissingHeader", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(httptest.NewRequest(http.MethodGet, "/users/profile/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid authentication credentials", decodeMessage(t, w).Message)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		ts := newTestServer(t)
		ts.tokenRepo.On("FindUserByToken", mock.Anything, "valid-token").Return(nil, nil)

		w := ts.do(bearerRequest(http.MethodGet, "/users/profile/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid authentication credentials", decodeMessage(t, w).Message)
	})

	t.Run("InactiveUser", func(t *testing.T) {
		ts := newTestServer(t)
		inactive := activeUser()
		inactive.IsActive = false
		ts.authenticate(inactive)

		w := ts.do(bearerRequest(http.MethodGet, "/users/profile/", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Inactive user", decodeMessage(t, w).Message)
	})
}

func TestProfileEndpoint(t *testing.T) {
	ts := newTestServer(t)
	user := activeUser()
	ts.authenticate(user)
	ts.userService.On("Profile", user).Return(&models.UserProfile{
		ID: 3, Email: "gopher@example.com", Username: "gopher",
	})

	w := ts.do(bearerRequest(http.MethodGet, "/users/profile/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var profile models.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "gopher", profile.Username)
}

func TestEditProfileEndpoint_NoData(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(activeUser())
	ts.userService.On("UpdateProfile", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("No data to update"))

	w := ts.do(bearerRequest(http.MethodPut, "/users/edit_profile/", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No data to update", decodeMessage(t, w).Message)
}

func TestUploadAvatarEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(activeUser())
	ts.userService.On("SaveAvatar", mock.Anything, uint(3), mock.Anything).
		Return(&models.SimpleMessage{Success: true, Message: "User avatar upload successful (user_id = 3)"}, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("avatar_image", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := bearerRequest(http.MethodPost, "/users/upload_avatar", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := ts.do(req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateMeetupEndpoint_RequiresSuperuser(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(activeUser())

	body := bytes.NewBufferString(`{}`)
	w := ts.do(bearerRequest(http.MethodPost, "/meetups/admin/create", body))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Current user is not a superuser", decodeMessage(t, w).Message)
}

func TestCreateMeetupEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(superUser())
	ts.meetupService.On("Create", mock.Anything, mock.Anything).
		Return(&models.SimpleMessage{Success: true, Message: "Meetup (meetup_id=5) has been created"}, nil)

	body := bytes.NewBufferString(`{
		"meetup_name":"Go Kyiv","description":"talks","date":"2030-01-01T18:00:00Z",
		"theme":"Backend","tags":"go","place_name":"Unit City","location":"50.46,30.44"}`)
	w := ts.do(bearerRequest(http.MethodPost, "/meetups/admin/create", body))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDeleteMeetupEndpoint_BackendFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(superUser())
	ts.meetupService.On("Delete", mock.Anything, uint(5)).
		Return(nil, apperrors.NewDatabaseError("failed to delete meetup", assert.AnError))

	w := ts.do(bearerRequest(http.MethodDelete, "/meetups/admin/delete_meetup/5", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	msg := decodeMessage(t, w)
	assert.False(t, msg.Success)
	assert.Contains(t, msg.Message, "Exception")
}

func TestFollowEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(activeUser())
	ts.subService.On("Follow", mock.Anything, uint(3), uint(5)).
		Return(&models.SimpleMessage{Success: true, Message: "Subscription was successfully completed"}, nil)

	w := ts.do(bearerRequest(http.MethodPost, "/meetups/follow/5", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestFollowEndpoint_AlreadySubscribed(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(activeUser())
	ts.subService.On("Follow", mock.Anything, uint(3), uint(5)).
		Return(nil, apperrors.NewAlreadyExistsError("The user is already subscribed to this meetup"))

	w := ts.do(bearerRequest(http.MethodPost, "/meetups/follow/5", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnfollowEndpoint_NotSubscribed(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(activeUser())
	ts.subService.On("Unfollow", mock.Anything, uint(3), uint(5)).
		Return(nil, apperrors.NewNotFoundError("Meetup subscription does not exist (uid=3, mid=5)"))

	w := ts.do(bearerRequest(http.MethodDelete, "/meetups/unfollow/5", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(activeUser())
	ts.reportService.On("CreateReport", mock.Anything, uint(3), "csv").
		Return(&models.ReportResponse{Path: "storage/3/reports/csv/report_x.csv"}, nil)

	w := ts.do(bearerRequest(http.MethodGet, "/meetups/report/csv", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "storage/3/reports/csv/report_x.csv", resp.Path)
}

func TestReportEndpoint_IncorrectMode(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(activeUser())
	ts.reportService.On("CreateReport", mock.Anything, uint(3), "xlsx").
		Return(nil, apperrors.NewValidationError("Incorrect mode"))

	w := ts.do(bearerRequest(http.MethodGet, "/meetups/report/xlsx", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Incorrect mode", decodeMessage(t, w).Message)
}

func TestSearchEndpoint_MissingQuery(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(activeUser())

	w := ts.do(bearerRequest(http.MethodGet, "/meetups/search", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.authenticate(activeUser())
	ts.meetupService.On("Search", mock.Anything, "go").
		Return([]models.MeetupRecord{{ID: 1, MeetupName: "Go Kyiv"}}, nil)

	w := ts.do(bearerRequest(http.MethodGet, "/meetups/search?query=go", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var records []models.MeetupRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// The middleware records after the handler runs, so a prior request is
	// needed before the counter shows up in the scrape.
	ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	w := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "meetups_http_requests_total")
}
