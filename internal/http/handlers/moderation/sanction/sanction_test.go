package sanction

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// MockService реализует интерфейс sanction.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) IssueSanction(ctx context.Context, actor *models.User, req models.DummySanction) error {
	return m.Called(ctx, actor, req).Error(0)
}

func TestSanctionHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	creator := &models.User{UID: "uid-admin", Username: "portainfo", Role: models.RoleCreator}

	tests := []struct {
		name           string
		body           string
		withUser       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешная временная санкция",
			body:     `{"user_id":"uid-1","level":"leve","duration":2,"unit":"hours","reason":"spam"}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("IssueSanction", mock.Anything, creator, mock.MatchedBy(func(r models.DummySanction) bool {
					return r.UserID == "uid-1" && r.Level == "leve" && r.Unit == "hours"
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"user_id":`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "неизвестный уровень не проходит валидацию",
			body:           `{"user_id":"uid-1","level":"brutal","duration":1,"unit":"days"}`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:     "блокировка portainfo запрещена",
			body:     `{"user_id":"uid-root","level":"intensa","unit":"forever","reason":"abuso"}`,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("IssueSanction", mock.Anything, creator, mock.Anything).
					Return(apperr.ErrPermissionDenied)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"sanction forbidden"`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           `{"user_id":"uid-1","level":"leve","duration":1,"unit":"days"}`,
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

			req := httptest.NewRequest(http.MethodPost, "/moderation/sanctions", strings.NewReader(tt.body))
			if tt.withUser {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.CurrentUser, creator))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
