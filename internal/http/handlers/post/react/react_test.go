package react

import (
	"context"
	"errors"
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
	"github.com/magabrotheeeer/portainfo/internal/lib/reaction"
	"github.com/magabrotheeeer/portainfo/internal/models"
	"github.com/magabrotheeeer/portainfo/internal/storage/repository"
)

// MockService реализует интерфейс react.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) React(ctx context.Context, actor *models.User, postID, kind string) (*repository.ReactResult, error) {
	args := m.Called(ctx, actor, postID, kind)
	if res := args.Get(0); res != nil {
		return res.(*repository.ReactResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReactHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	actor := &models.User{UID: "uid-1", Username: "pepe", Role: models.RoleUser}

	tests := []struct {
		name           string
		postID         string
		kind           string
		withUser       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешный лайк",
			postID:   "post-1",
			kind:     "like",
			withUser: true,
			setupMock: func(m *MockService) {
				result := &repository.ReactResult{
					State:    reaction.State{Liked: true},
					LikedNow: true,
				}
				m.On("React", mock.Anything, actor, "post-1", "like").Return(result, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"liked":true`,
		},
		{
			name:     "неизвестная реакция",
			postID:   "post-1",
			kind:     "superlike",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("React", mock.Anything, actor, "post-1", "superlike").
					Return(nil, apperr.ErrValidation)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"unknown reaction kind"`,
		},
		{
			name:     "публикация не найдена",
			postID:   "ghost",
			kind:     "like",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("React", mock.Anything, actor, "ghost", "like").
					Return(nil, apperr.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"post not found"`,
		},
		{
			name:           "нет пользователя в контексте",
			postID:         "post-1",
			kind:           "like",
			withUser:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:     "ошибка сервиса",
			postID:   "post-1",
			kind:     "like",
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("React", mock.Anything, actor, "post-1", "like").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not apply reaction"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/posts/"+tt.postID+"/react/"+tt.kind, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.postID)
			rctx.URLParams.Add("kind", tt.kind)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.withUser {
				ctx = context.WithValue(ctx, middlewarectx.CurrentUser, actor)
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
