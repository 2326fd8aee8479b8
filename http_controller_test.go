package auth_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	auth "github.com/goliatone/go-auth-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newControllerApp(svc auth.AccountService, protected ...fiber.Handler) *fiber.App {
	app := fiber.New()
	controller := auth.NewAccountController(svc, auth.WithControllerLogger(nopLogger{}))
	auth.RegisterAccountRoutes(app, controller, protected...)
	return app
}

func sendJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	resp.Body.Close()

	return resp, out
}

func TestAccountController_Home(t *testing.T) {
	app := newControllerApp(new(MockAccountService))

	resp, body := sendJSON(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, auth.MsgWelcome, body["msg"])
}

func TestAccountController_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*MockAccountService)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "created",
			body: `{"name":"Ada","email":"ada@example.com","password":"pw","confirmpassword":"pw"}`,
			setup: func(m *MockAccountService) {
				m.On("Register", mock.Anything, auth.RegisterRequest{
					Name: "Ada", Email: "ada@example.com", Password: "pw", ConfirmPassword: "pw",
				}).Return(&auth.AccountView{ID: uuid.New()}, nil)
			},
			wantStatus: http.StatusCreated,
			wantMsg:    auth.MsgRegistered,
		},
		{
			name: "conflict",
			body: `{"name":"Ada","email":"ada@example.com","password":"pw","confirmpassword":"pw"}`,
			setup: func(m *MockAccountService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, auth.ErrEmailTaken)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    auth.MsgEmailTaken,
		},
		{
			name: "internal",
			body: `{"name":"Ada","email":"ada@example.com","password":"pw","confirmpassword":"pw"}`,
			setup: func(m *MockAccountService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    auth.MsgInternal,
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			setup:      func(*MockAccountService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    auth.MsgInvalidBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAccountService)
			tt.setup(svc)

			resp, body := sendJSON(t, newControllerApp(svc), http.MethodPost, "/auth/register", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, body["msg"])
			svc.AssertExpectations(t)
		})
	}
}

func TestAccountController_RegisterValidationBody(t *testing.T) {
	svc := new(MockAccountService)
	svc.On("Register", mock.Anything, mock.Anything).
		Return(nil, auth.RegisterRequest{Name: "Ada"}.Validate())

	resp, body := sendJSON(t, newControllerApp(svc), http.MethodPost, "/auth/register", `{"name":"Ada"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, auth.MsgInvalidEmail, body["msg"])

	fields, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].(map[string]any)["field"])
}

func TestAccountController_Login(t *testing.T) {
	id := uuid.New()
	svc := new(MockAccountService)
	svc.On("Login", mock.Anything, auth.LoginRequest{Email: "ada@example.com", Password: "pw"}).
		Return(&auth.LoginResult{
			Token:   "signed.jwt.token",
			Account: &auth.AccountView{ID: id, Name: "Ada", Email: "ada@example.com", CreatedAt: time.Now()},
		}, nil)
	svc.On("Login", mock.Anything, auth.LoginRequest{Email: "ada@example.com", Password: "bad"}).
		Return(nil, auth.ErrInvalidCredentials)

	app := newControllerApp(svc)

	resp, body := sendJSON(t, app, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, auth.MsgLoggedIn, body["msg"])
	assert.Equal(t, "signed.jwt.token", body["token"])
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, id.String(), user["id"])
	assert.NotContains(t, user, "password_digest")

	resp, body = sendJSON(t, app, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"bad"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, auth.MsgInvalidCredentials, body["msg"])
}

func TestAccountController_ProtectedHandlersRunFirst(t *testing.T) {
	svc := new(MockAccountService)
	deny := func(c *fiber.Ctx) error {
		return auth.WriteError(c, nopLogger{}, auth.ErrMissingToken)
	}

	app := newControllerApp(svc, deny)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/user/abc"},
		{http.MethodPut, "/auth/abc/update"},
		{http.MethodDelete, "/auth/abc/delete"},
	} {
		resp, body := sendJSON(t, app, tc.method, tc.path, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.path)
		assert.Equal(t, auth.MsgAccessDenied, body["msg"])
	}

	svc.AssertNotCalled(t, "Account", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "DeleteAccount", mock.Anything, mock.Anything)
}

func TestAccountController_ShowUpdateDelete(t *testing.T) {
	id := uuid.New()
	svc := new(MockAccountService)
	svc.On("Account", mock.Anything, id.String()).Return(&auth.AccountView{ID: id, Email: "ada@example.com"}, nil)
	svc.On("UpdateEmail", mock.Anything, id.String(), auth.UpdateEmailRequest{Email: "new@example.com"}).
		Return(&auth.AccountView{ID: id, Email: "new@example.com"}, nil)
	svc.On("DeleteAccount", mock.Anything, id.String()).Return(nil).Once()
	svc.On("DeleteAccount", mock.Anything, id.String()).Return(auth.ErrAccountNotFound).Once()
	svc.On("DeleteAccount", mock.Anything, id.String()).Return(errors.New("db down")).Once()

	app := newControllerApp(svc)

	resp, body := sendJSON(t, app, http.MethodGet, "/user/"+id.String(), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])

	resp, body = sendJSON(t, app, http.MethodPut, "/auth/"+id.String()+"/update", `{"email":"new@example.com"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, auth.MsgEmailUpdated, body["msg"])

	resp, _ = sendJSON(t, app, http.MethodDelete, "/auth/"+id.String()+"/delete", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = sendJSON(t, app, http.MethodDelete, "/auth/"+id.String()+"/delete", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, auth.MsgAccountNotFound, body["msg"])

	resp, body = sendJSON(t, app, http.MethodDelete, "/auth/"+id.String()+"/delete", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, auth.MsgInternal, body["msg"])

	svc.AssertExpectations(t)
}
