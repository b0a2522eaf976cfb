package control

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// MockService реализует интерфейс control.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Unblock(ctx context.Context, actor *models.User, targetUID string) error {
	return m.Called(ctx, actor, targetUID).Error(0)
}

func (m *MockService) Terminate(ctx context.Context, actor *models.User, targetUID string) error {
	return m.Called(ctx, actor, targetUID).Error(0)
}

func (m *MockService) ToggleVerify(ctx context.Context, actor *models.User, targetUID string) (bool, error) {
	args := m.Called(ctx, actor, targetUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockService) ToggleAdminRole(ctx context.Context, actor *models.User, targetUID string) (string, error) {
	args := m.Called(ctx, actor, targetUID)
	return args.String(0), args.Error(1)
}

func TestControlHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	creator := &models.User{UID: "uid-admin", Username: "portainfo", Role: models.RoleCreator}

	tests := []struct {
		name           string
		action         string
		withUser       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешная разблокировка",
			action:   "unblock",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Unblock", mock.Anything, creator, "uid-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:     "успешная терминация",
			action:   "terminate",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Terminate", mock.Anything, creator, "uid-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:     "верификация возвращает новое состояние",
			action:   "verify",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("ToggleVerify", mock.Anything, creator, "uid-1").Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"verified":true`,
		},
		{
			name:     "переключение роли возвращает новую роль",
			action:   "role",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("ToggleAdminRole", mock.Anything, creator, "uid-1").
					Return(models.RoleCreator, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"role":"creator"`,
		},
		{
			name:           "неизвестное действие",
			action:         "ban",
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"unknown action"`,
		},
		{
			name:     "терминация portainfo запрещена",
			action:   "terminate",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Terminate", mock.Anything, creator, "uid-1").
					Return(apperr.ErrPermissionDenied)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"action forbidden"`,
		},
		{
			name:     "пользователь не найден",
			action:   "unblock",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Unblock", mock.Anything, creator, "uid-1").
					Return(apperr.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"user not found"`,
		},
		{
			name:           "нет пользователя в контексте",
			action:         "unblock",
			withUser:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/moderation/users/uid-1/"+tt.action, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "uid-1")
			rctx.URLParams.Add("action", tt.action)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.withUser {
				ctx = context.WithValue(ctx, middlewarectx.CurrentUser, creator)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
