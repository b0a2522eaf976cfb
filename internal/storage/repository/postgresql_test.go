package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	user := models.User{
		UID:          NewTestUID(),
		Username:     "pepe",
		PasswordHash: "hashedpassword",
		Avatar:       "https://example.com/avatar.png",
		Bio:          "Nuevo usuario de Portainfo",
		Role:         models.RoleUser,
	}

	gotUID, err := storage.RegisterUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, user.UID, gotUID)

	verification := NewTestVerification(storage)
	verification.VerifyUserExists(t, user.UID)

	// Повторная регистрация с тем же username
	duplicate := user
	duplicate.UID = NewTestUID()
	_, err = storage.RegisterUser(context.Background(), duplicate)
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestStorage_GetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := NewTestUID()
	factory.CreateUser(t, userUID, "pepe", "hashedpassword", "user")

	got, err := storage.GetUser(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, "pepe", got.Username)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.Nil(t, got.BlockedUntil)
	assert.False(t, got.IsTerminated)

	_, err = storage.GetUser(context.Background(), NewTestUID())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_GetUserByUsername(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := NewTestUID()
	factory.CreateUser(t, userUID, "pepe", "hashedpassword", "user")

	got, err := storage.GetUserByUsername(context.Background(), "pepe")
	require.NoError(t, err)
	assert.Equal(t, userUID, got.UID)

	_, err = storage.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_UpdateProfile(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := NewTestUID()
	factory.CreateUser(t, userUID, "pepe", "hashedpassword", "user")
	factory.CreateUser(t, NewTestUID(), "maria", "hashedpassword", "user")

	err := storage.UpdateProfile(context.Background(), userUID, "pepegrande", "hola", "avatar.png")
	require.NoError(t, err)

	got, err := storage.GetUser(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, "pepegrande", got.Username)
	assert.Equal(t, "hola", got.Bio)
	assert.Equal(t, "avatar.png", got.Avatar)

	// Имя уже занято другим пользователем
	err = storage.UpdateProfile(context.Background(), userUID, "maria", "", "")
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	// Несуществующий пользователь
	err = storage.UpdateProfile(context.Background(), NewTestUID(), "nadie", "", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_SearchUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, NewTestUID(), "pepe", "hashedpassword", "user")
	factory.CreateUser(t, NewTestUID(), "pepegrande", "hashedpassword", "user")
	factory.CreateUser(t, NewTestUID(), "maria", "hashedpassword", "user")

	got, err := storage.SearchUsers(context.Background(), "PEPE", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = storage.SearchUsers(context.Background(), "pepe", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStorage_DeleteUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := NewTestUID()
	factory.CreateUser(t, userUID, "pepe", "hashedpassword", "user")
	factory.CreatePost(t, "post-1", userUID, "pepe", "Adios", "me voy", "General")

	err := storage.DeleteUser(context.Background(), userUID)
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifyUserDeleted(t, userUID)
	// Публикации удаляются каскадно вместе с пользователем
	verification.VerifyPostDeleted(t, "post-1")

	err = storage.DeleteUser(context.Background(), userUID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_Follows(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	followerUID := NewTestUID()
	followeeUID := NewTestUID()
	factory.CreateUser(t, followerUID, "pepe", "hashedpassword", "user")
	factory.CreateUser(t, followeeUID, "maria", "hashedpassword", "user")

	added, err := storage.AddFollow(context.Background(), followerUID, followeeUID)
	require.NoError(t, err)
	assert.True(t, added)

	// Повторная подписка не создаёт новой строки
	added, err = storage.AddFollow(context.Background(), followerUID, followeeUID)
	require.NoError(t, err)
	assert.False(t, added)

	following, err := storage.IsFollowing(context.Background(), followerUID, followeeUID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, followingCount, err := storage.CountFollows(context.Background(), followeeUID)
	require.NoError(t, err)
	assert.Equal(t, 1, followers)
	assert.Equal(t, 0, followingCount)

	removed, err := storage.RemoveFollow(context.Background(), followerUID, followeeUID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = storage.RemoveFollow(context.Background(), followerUID, followeeUID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStorage_CreateAndReadPost(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	authorUID := NewTestUID()
	factory.CreateUser(t, authorUID, "pepe", "hashedpassword", "user")

	post := models.Post{
		ID:             "post-1",
		AuthorUID:      authorUID,
		AuthorUsername: "pepe",
		Title:          "Hola",
		Description:    "mi primer post #go",
		Category:       "Tech",
	}
	gotID, err := storage.CreatePost(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, "post-1", gotID)

	factory.CreateComment(t, "comment-1", "post-1", authorUID, "pepe", "buen post")

	got, err := storage.ReadPost(context.Background(), "post-1")
	require.NoError(t, err)
	assert.Equal(t, "Hola", got.Title)
	assert.Equal(t, "Tech", got.Category)
	assert.Equal(t, 1, got.CommentCount)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "buen post", got.Comments[0].Text)

	_, err = storage.ReadPost(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_RemovePost(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	authorUID := NewTestUID()
	factory.CreateUser(t, authorUID, "pepe", "hashedpassword", "user")
	factory.CreatePost(t, "post-1", authorUID, "pepe", "Hola", "texto", "General")
	factory.CreateComment(t, "comment-1", "post-1", authorUID, "pepe", "comentario")

	err := storage.RemovePost(context.Background(), "post-1")
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifyPostDeleted(t, "post-1")

	err = storage.RemovePost(context.Background(), "post-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_AddComment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	authorUID := NewTestUID()
	factory.CreateUser(t, authorUID, "pepe", "hashedpassword", "user")
	factory.CreatePost(t, "post-1", authorUID, "pepe", "Hola", "texto", "General")

	comment := models.Comment{
		ID:             "comment-1",
		PostID:         "post-1",
		AuthorUID:      authorUID,
		AuthorUsername: "pepe",
		Text:           "primer comentario",
	}
	gotID, err := storage.AddComment(context.Background(), comment)
	require.NoError(t, err)
	assert.Equal(t, "comment-1", gotID)

	got, err := storage.ReadPost(context.Background(), "post-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)
}

func TestStorage_Messages(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	firstUID := NewTestUID()
	secondUID := NewTestUID()
	thirdUID := NewTestUID()
	factory.CreateUser(t, firstUID, "pepe", "hashedpassword", "user")
	factory.CreateUser(t, secondUID, "maria", "hashedpassword", "user")
	factory.CreateUser(t, thirdUID, "juan", "hashedpassword", "user")

	_, err := storage.CreateMessage(context.Background(), models.Message{
		ID: "msg-1", FromUID: firstUID, ToUID: secondUID, Text: "hola"})
	require.NoError(t, err)
	_, err = storage.CreateMessage(context.Background(), models.Message{
		ID: "msg-2", FromUID: secondUID, ToUID: firstUID, Text: "que tal"})
	require.NoError(t, err)
	// Сообщение третьему пользователю в переписку не попадает
	_, err = storage.CreateMessage(context.Background(), models.Message{
		ID: "msg-3", FromUID: firstUID, ToUID: thirdUID, Text: "otro chat"})
	require.NoError(t, err)

	got, err := storage.ListConversation(context.Background(), firstUID, secondUID, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hola", got[0].Text)
	assert.Equal(t, "que tal", got[1].Text)
}

func TestStorage_Appeals(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := NewTestUID()
	otherUID := NewTestUID()
	factory.CreateUser(t, userUID, "pepe", "hashedpassword", "user")
	factory.CreateUser(t, otherUID, "maria", "hashedpassword", "user")

	gotID, err := storage.CreateAppeal(context.Background(), models.Appeal{
		ID:       "appeal-1",
		UserUID:  userUID,
		Username: "pepe",
		Text:     "no fui yo",
		Status:   models.AppealPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "appeal-1", gotID)

	factory.CreateAppeal(t, "appeal-2", userUID, "pepe", "de verdad", models.AppealPending)
	factory.CreateAppeal(t, "appeal-3", otherUID, "maria", "yo tampoco", models.AppealPending)

	count, err := storage.CountPendingAppeals(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := storage.ListAppeals(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Разблокировка закрывает только апелляции этого пользователя
	err = storage.ResolveAppeals(context.Background(), userUID)
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifyAppealStatus(t, "appeal-1", models.AppealResolved)
	verification.VerifyAppealStatus(t, "appeal-2", models.AppealResolved)
	verification.VerifyAppealStatus(t, "appeal-3", models.AppealPending)
}

func TestStorage_Notifications(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := NewTestUID()
	factory.CreateUser(t, userUID, "pepe", "hashedpassword", "user")

	_, err := storage.CreateNotification(context.Background(), models.Notification{
		ID:           "notif-1",
		UserUID:      userUID,
		Type:         models.NotificationFollow,
		FromUsername: "maria",
		Text:         "empezó a seguirte.",
	})
	require.NoError(t, err)
	factory.CreateNotification(t, "notif-2", userUID, models.NotificationLike, "dio like a tu post.", true)

	count, err := storage.CountUnreadNotifications(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := storage.ListNotifications(context.Background(), userUID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	marked, err := storage.MarkAllNotificationsRead(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	count, err = storage.CountUnreadNotifications(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
