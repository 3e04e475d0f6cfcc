package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mocks "github.com/avoropaev/accounts-server/internal/mocks/servicemocks"
	"github.com/avoropaev/accounts-server/internal/model"
	"github.com/avoropaev/accounts-server/internal/service"
	"github.com/avoropaev/accounts-server/internal/testutil"
)

func newAuthHandler(authSvc *mocks.AuthService, tokenSvc *mocks.TokenService, userSvc *mocks.UserService) *Auth {
	return NewAuth(authSvc, tokenSvc, userSvc, testutil.MakeNoopLogger())
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func TestAuth_Register(t *testing.T) {
	authSvc := &mocks.AuthService{}
	user := model.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", DisplayName: "alice"}
	pair := service.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}

	authSvc.On("Register", mock.Anything, "alice", "alice@example.com", "Password1").
		Return(user, pair, nil).Once()

	h := newAuthHandler(authSvc, &mocks.TokenService{}, &mocks.UserService{})

	rec := doJSON(t, h.Register, http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"Password1"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"access"`)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.Contains(t, rec.Body.String(), `"expires_in":900`)
	authSvc.AssertExpectations(t)
}

func TestAuth_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short_username", `{"username":"ab","email":"a@example.com","password":"Password1"}`},
		{"bad_username_chars", `{"username":"a b!","email":"a@example.com","password":"Password1"}`},
		{"bad_email", `{"username":"alice","email":"not-an-email","password":"Password1"}`},
		{"short_password", `{"username":"alice","email":"a@example.com","password":"Pw1"}`},
		{"no_digit_password", `{"username":"alice","email":"a@example.com","password":"Passwords"}`},
		{"no_upper_password", `{"username":"alice","email":"a@example.com","password":"password1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := &mocks.AuthService{}
			h := newAuthHandler(authSvc, &mocks.TokenService{}, &mocks.UserService{})

			rec := doJSON(t, h.Register, http.MethodPost, "/api/auth/register", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			authSvc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAuth_Register_Conflict(t *testing.T) {
	authSvc := &mocks.AuthService{}
	authSvc.On("Register", mock.Anything, "alice", "alice@example.com", "Password1").
		Return(model.User{}, service.TokenPair{}, &model.ConflictError{Field: "email", Value: "alice@example.com"}).Once()

	h := newAuthHandler(authSvc, &mocks.TokenService{}, &mocks.UserService{})

	rec := doJSON(t, h.Register, http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"Password1"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")
}

func TestAuth_Login(t *testing.T) {
	authSvc := &mocks.AuthService{}
	user := model.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	pair := service.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}

	authSvc.On("Login", mock.Anything, "alice@example.com", "Password1").
		Return(user, pair, nil).Once()

	h := newAuthHandler(authSvc, &mocks.TokenService{}, &mocks.UserService{})

	rec := doJSON(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"Password1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"refresh_token":"refresh"`)
}

func TestAuth_Login_InvalidCredentials(t *testing.T) {
	authSvc := &mocks.AuthService{}
	authSvc.On("Login", mock.Anything, "alice@example.com", "wrong").
		Return(model.User{}, service.TokenPair{}, model.ErrInvalidCredentials).Once()

	h := newAuthHandler(authSvc, &mocks.TokenService{}, &mocks.UserService{})

	rec := doJSON(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")
}

func TestAuth_Login_MissingFields(t *testing.T) {
	authSvc := &mocks.AuthService{}
	h := newAuthHandler(authSvc, &mocks.TokenService{}, &mocks.UserService{})

	rec := doJSON(t, h.Login, http.MethodPost, "/api/auth/login", `{"email":"","password":""}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	authSvc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuth_Refresh(t *testing.T) {
	tokenSvc := &mocks.TokenService{}
	pair := service.TokenPair{AccessToken: "access-new", RefreshToken: "refresh-new", ExpiresIn: 900}

	tokenSvc.On("Refresh", mock.Anything, "access-old", "refresh-old").Return(pair, nil).Once()

	h := newAuthHandler(&mocks.AuthService{}, tokenSvc, &mocks.UserService{})

	rec := doJSON(t, h.Refresh, http.MethodPost, "/api/auth/refresh",
		`{"access_token":"access-old","refresh_token":"refresh-old"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"access-new"`)
}

func TestAuth_Refresh_TokenErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid", model.ErrInvalidToken},
		{"expired", model.ErrTokenExpired},
		{"revoked", model.ErrTokenRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSvc := &mocks.TokenService{}
			tokenSvc.On("Refresh", mock.Anything, "access", "refresh").
				Return(service.TokenPair{}, tt.err).Once()

			h := newAuthHandler(&mocks.AuthService{}, tokenSvc, &mocks.UserService{})

			rec := doJSON(t, h.Refresh, http.MethodPost, "/api/auth/refresh",
				`{"access_token":"access","refresh_token":"refresh"}`)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid or expired token")
		})
	}
}

func TestAuth_Refresh_MissingFields(t *testing.T) {
	h := newAuthHandler(&mocks.AuthService{}, &mocks.TokenService{}, &mocks.UserService{})

	rec := doJSON(t, h.Refresh, http.MethodPost, "/api/auth/refresh", `{"refresh_token":"r"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_Logout(t *testing.T) {
	tokenSvc := &mocks.TokenService{}
	tokenSvc.On("RevokeByValue", mock.Anything, "refresh").Return(nil).Once()

	h := newAuthHandler(&mocks.AuthService{}, tokenSvc, &mocks.UserService{})

	rec := doJSON(t, h.Logout, http.MethodPost, "/api/auth/logout", `{"refresh_token":"refresh"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	tokenSvc.AssertExpectations(t)
}

func doBearer(t *testing.T, h echo.HandlerFunc, method, target, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func TestAuth_Logout_BearerRevokesAll(t *testing.T) {
	userID := uuid.New()
	tokenSvc := &mocks.TokenService{}
	tokenSvc.On("GetUserID", mock.Anything, "access").Return(userID, nil).Once()
	tokenSvc.On("RevokeAllForUser", mock.Anything, userID).Return(nil).Once()

	h := newAuthHandler(&mocks.AuthService{}, tokenSvc, &mocks.UserService{})

	rec := doBearer(t, h.Logout, http.MethodPost, "/api/auth/logout", `{}`, "access")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	tokenSvc.AssertExpectations(t)
	tokenSvc.AssertNotCalled(t, "RevokeByValue", mock.Anything, mock.Anything)
}

func TestAuth_Logout_RefreshTokenWinsOverBearer(t *testing.T) {
	tokenSvc := &mocks.TokenService{}
	tokenSvc.On("RevokeByValue", mock.Anything, "refresh").Return(nil).Once()

	h := newAuthHandler(&mocks.AuthService{}, tokenSvc, &mocks.UserService{})

	rec := doBearer(t, h.Logout, http.MethodPost, "/api/auth/logout", `{"refresh_token":"refresh"}`, "access")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	tokenSvc.AssertNotCalled(t, "RevokeAllForUser", mock.Anything, mock.Anything)
}

func TestAuth_Logout_InvalidBearer(t *testing.T) {
	tokenSvc := &mocks.TokenService{}
	tokenSvc.On("GetUserID", mock.Anything, "bad").Return(uuid.Nil, model.ErrInvalidToken).Once()

	h := newAuthHandler(&mocks.AuthService{}, tokenSvc, &mocks.UserService{})

	rec := doBearer(t, h.Logout, http.MethodPost, "/api/auth/logout", `{}`, "bad")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	tokenSvc.AssertNotCalled(t, "RevokeAllForUser", mock.Anything, mock.Anything)
}

func TestAuth_Logout_NoCredentials(t *testing.T) {
	h := newAuthHandler(&mocks.AuthService{}, &mocks.TokenService{}, &mocks.UserService{})

	rec := doJSON(t, h.Logout, http.MethodPost, "/api/auth/logout", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_CheckUsername(t *testing.T) {
	userSvc := &mocks.UserService{}
	userSvc.On("UsernameAvailable", mock.Anything, "alice").Return(true, nil).Once()

	h := newAuthHandler(&mocks.AuthService{}, &mocks.TokenService{}, userSvc)

	rec := doJSON(t, h.CheckUsername, http.MethodGet, "/api/auth/check-username?username=alice", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available":true`)
}

func TestAuth_CheckUsername_Invalid(t *testing.T) {
	userSvc := &mocks.UserService{}
	h := newAuthHandler(&mocks.AuthService{}, &mocks.TokenService{}, userSvc)

	rec := doJSON(t, h.CheckUsername, http.MethodGet, "/api/auth/check-username?username=a!", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	userSvc.AssertNotCalled(t, "UsernameAvailable", mock.Anything, mock.Anything)
}
