package post

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/lib/reaction"
	"github.com/magabrotheeeer/portainfo/internal/models"
	"github.com/magabrotheeeer/portainfo/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePost(ctx context.Context, post models.Post) (string, error) {
	args := m.Called(ctx, post)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) RemovePost(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}
func (m *RepoMock) ReadPost(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}
func (m *RepoMock) ListPosts(ctx context.Context, filter models.FeedFilter) ([]*models.Post, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}
func (m *RepoMock) AddComment(ctx context.Context, comment models.Comment) (string, error) {
	args := m.Called(ctx, comment)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) React(ctx context.Context, postID, userUID string, kind reaction.Kind) (*repository.ReactResult, error) {
	args := m.Called(ctx, postID, userUID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ReactResult), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) NotifyLike(ctx context.Context, recipientUID string, actor *models.User, postID string) error {
	return m.Called(ctx, recipientUID, actor, postID).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testAuthor() *models.User {
	return &models.User{UID: "uid-1", Username: "pepe", Avatar: "http://img/pepe.png", Role: models.RoleUser}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		req        models.DummyPost
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "пустая категория заменяется на General",
			req:  models.DummyPost{Title: "hola", Description: "texto"},
			setupMocks: func(r *RepoMock) {
				r.On("CreatePost", mock.Anything, mock.MatchedBy(func(p models.Post) bool {
					return p.Category == "General" && p.AuthorUID == "uid-1" && p.AuthorUsername == "pepe"
				})).Return("post-1", nil).Once()
			},
		},
		{
			name: "известная категория сохраняется",
			req:  models.DummyPost{Title: "hola", Description: "texto", Category: "Arte"},
			setupMocks: func(r *RepoMock) {
				r.On("CreatePost", mock.Anything, mock.MatchedBy(func(p models.Post) bool {
					return p.Category == "Arte"
				})).Return("post-2", nil).Once()
			},
		},
		{
			name:       "неизвестная категория отклоняется",
			req:        models.DummyPost{Title: "hola", Description: "texto", Category: "Comida"},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			svc := New(repo, new(CacheMock), new(NotifierMock), newNoopLogger())
			id, err := svc.Create(context.Background(), testAuthor(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, id)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, id)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestRemove(t *testing.T) {
	post := &models.Post{ID: "post-1", AuthorUID: "uid-1"}

	tests := []struct {
		name       string
		actor      *models.User
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name:  "автор удаляет свою публикацию",
			actor: testAuthor(),
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("ReadPost", mock.Anything, "post-1").Return(post, nil).Once()
				c.On("Invalidate", "post:post-1").Return(nil).Once()
				r.On("RemovePost", mock.Anything, "post-1").Return(nil).Once()
			},
		},
		{
			name:  "creator удаляет чужую публикацию",
			actor: &models.User{UID: "uid-admin", Username: "admin", Role: models.RoleCreator},
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("ReadPost", mock.Anything, "post-1").Return(post, nil).Once()
				c.On("Invalidate", "post:post-1").Return(nil).Once()
				r.On("RemovePost", mock.Anything, "post-1").Return(nil).Once()
			},
		},
		{
			name:  "чужой пользователь получает отказ",
			actor: &models.User{UID: "uid-2", Username: "maria", Role: models.RoleUser},
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("ReadPost", mock.Anything, "post-1").Return(post, nil).Once()
			},
			wantErr: apperr.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := New(repo, cache, new(NotifierMock), newNoopLogger())
			err := svc.Remove(context.Background(), tt.actor, "post-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestRead_CacheMissComputesTags(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	post := &models.Post{ID: "post-1", Description: "hola #go y #redes"}

	cache.On("Get", "post:post-1", mock.Anything).Return(false, nil).Once()
	repo.On("ReadPost", mock.Anything, "post-1").Return(post, nil).Once()
	cache.On("Set", "post:post-1", mock.Anything, time.Minute).Return(nil).Once()

	svc := New(repo, cache, new(NotifierMock), newNoopLogger())
	got, err := svc.Read(context.Background(), "post-1")

	assert.NoError(t, err)
	assert.Equal(t, []string{"go", "redes"}, got.Tags)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestReact(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		setupMocks func(r *RepoMock, c *CacheMock, n *NotifierMock)
		wantErr    error
	}{
		{
			name: "новый лайк уведомляет автора",
			kind: "like",
			setupMocks: func(r *RepoMock, c *CacheMock, n *NotifierMock) {
				result := &repository.ReactResult{
					State:     reaction.State{Liked: true},
					AuthorUID: "uid-author",
					LikedNow:  true,
				}
				r.On("React", mock.Anything, "post-1", "uid-1", reaction.Like).Return(result, nil).Once()
				c.On("Invalidate", "post:post-1").Return(nil).Once()
				n.On("NotifyLike", mock.Anything, "uid-author", mock.Anything, "post-1").Return(nil).Once()
			},
		},
		{
			name: "снятие лайка не уведомляет",
			kind: "like",
			setupMocks: func(r *RepoMock, c *CacheMock, _ *NotifierMock) {
				result := &repository.ReactResult{
					State:     reaction.State{},
					AuthorUID: "uid-author",
					LikedNow:  false,
				}
				r.On("React", mock.Anything, "post-1", "uid-1", reaction.Like).Return(result, nil).Once()
				c.On("Invalidate", "post:post-1").Return(nil).Once()
			},
		},
		{
			name: "репост не уведомляет",
			kind: "republish",
			setupMocks: func(r *RepoMock, c *CacheMock, _ *NotifierMock) {
				result := &repository.ReactResult{
					State:     reaction.State{Republished: true},
					AuthorUID: "uid-author",
				}
				r.On("React", mock.Anything, "post-1", "uid-1", reaction.Republish).Return(result, nil).Once()
				c.On("Invalidate", "post:post-1").Return(nil).Once()
			},
		},
		{
			name:       "неизвестная реакция отклоняется",
			kind:       "superlike",
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *NotifierMock) {},
			wantErr:    apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			notifier := new(NotifierMock)
			tt.setupMocks(repo, cache, notifier)

			svc := New(repo, cache, notifier, newNoopLogger())
			_, err := svc.React(context.Background(), testAuthor(), "post-1", tt.kind)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestList_DefaultLimit(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListPosts", mock.Anything, mock.MatchedBy(func(f models.FeedFilter) bool {
		return f.Limit == defaultFeedLimit
	})).Return([]*models.Post{{ID: "post-1", Description: "sin etiquetas"}}, nil).Once()

	svc := New(repo, new(CacheMock), new(NotifierMock), newNoopLogger())
	posts, err := svc.List(context.Background(), models.FeedFilter{})

	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Empty(t, posts[0].Tags)
	repo.AssertExpectations(t)
}
