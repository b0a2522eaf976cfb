// Package portainfo предоставляет маршруты для основного приложения.
package portainfo

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/portainfo/internal/gemini"
	"github.com/magabrotheeeer/portainfo/internal/http/handlers/appeal/submit"
	"github.com/magabrotheeeer/portainfo/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/portainfo/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/portainfo/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/portainfo/internal/http/handlers/health"
	mediaimage "github.com/magabrotheeeer/portainfo/internal/http/handlers/media/image"
	mediaspeech "github.com/magabrotheeeer/portainfo/internal/http/handlers/media/speech"
	messagelist "github.com/magabrotheeeer/portainfo/internal/http/handlers/message/list"
	messagesend "github.com/magabrotheeeer/portainfo/internal/http/handlers/message/send"
	moderationappeals "github.com/magabrotheeeer/portainfo/internal/http/handlers/moderation/appeals"
	moderationcontrol "github.com/magabrotheeeer/portainfo/internal/http/handlers/moderation/control"
	moderationsanction "github.com/magabrotheeeer/portainfo/internal/http/handlers/moderation/sanction"
	moderationstatus "github.com/magabrotheeeer/portainfo/internal/http/handlers/moderation/status"
	moderationusers "github.com/magabrotheeeer/portainfo/internal/http/handlers/moderation/users"
	notificationlist "github.com/magabrotheeeer/portainfo/internal/http/handlers/notification/list"
	postcomment "github.com/magabrotheeeer/portainfo/internal/http/handlers/post/comment"
	postcreate "github.com/magabrotheeeer/portainfo/internal/http/handlers/post/create"
	postlist "github.com/magabrotheeeer/portainfo/internal/http/handlers/post/list"
	postread "github.com/magabrotheeeer/portainfo/internal/http/handlers/post/read"
	postreact "github.com/magabrotheeeer/portainfo/internal/http/handlers/post/react"
	postremove "github.com/magabrotheeeer/portainfo/internal/http/handlers/post/remove"
	userfollow "github.com/magabrotheeeer/portainfo/internal/http/handlers/user/follow"
	userprofile "github.com/magabrotheeeer/portainfo/internal/http/handlers/user/profile"
	userremove "github.com/magabrotheeeer/portainfo/internal/http/handlers/user/remove"
	usersearch "github.com/magabrotheeeer/portainfo/internal/http/handlers/user/search"
	userupdate "github.com/magabrotheeeer/portainfo/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/portainfo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/portainfo/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/portainfo/internal/services/auth"
	messageservice "github.com/magabrotheeeer/portainfo/internal/services/message"
	moderationservice "github.com/magabrotheeeer/portainfo/internal/services/moderation"
	notificationservice "github.com/magabrotheeeer/portainfo/internal/services/notification"
	postservice "github.com/magabrotheeeer/portainfo/internal/services/post"
	userservice "github.com/magabrotheeeer/portainfo/internal/services/user"
	"github.com/magabrotheeeer/portainfo/internal/storage/repository"
)

// Services собирает зависимости, необходимые маршрутам приложения.
type Services struct {
	Auth         *authservice.AuthService
	Posts        *postservice.Service
	Users        *userservice.Service
	Messages     *messageservice.Service
	Moderation   *moderationservice.Service
	Notification *notificationservice.Service
	Gemini       *gemini.Client
	JWTMaker     jwt.Maker
	Storage      *repository.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)

		// Публичное чтение: аутентификация необязательна
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(s.JWTMaker, logger))
			r.Get("/posts/list", postlist.New(logger, s.Posts).ServeHTTP)
			r.Get("/posts/{id}", postread.New(logger, s.Posts).ServeHTTP)
			r.Get("/users/search", usersearch.New(logger, s.Users).ServeHTTP)
			r.Get("/users/{id}", userprofile.New(logger, s.Users).ServeHTTP)
		})

		// Группа с JWT аутентификацией и проверкой блокировки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWTMaker, logger))
			r.Use(middlewarectx.SanctionMiddleware(logger, s.Storage, s.Moderation))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/logout", logout.New(logger, s.Auth).ServeHTTP)
			r.Post("/posts", postcreate.New(logger, s.Posts).ServeHTTP)
			r.Delete("/posts/{id}", postremove.New(logger, s.Posts).ServeHTTP)
			r.Post("/posts/{id}/comments", postcomment.New(logger, s.Posts).ServeHTTP)
			r.Post("/posts/{id}/react/{kind}", postreact.New(logger, s.Posts).ServeHTTP)
			r.Post("/users/{id}/follow", userfollow.New(logger, s.Users).ServeHTTP)
			r.Put("/users/me", userupdate.New(logger, s.Users).ServeHTTP)
			r.Delete("/users/me", userremove.New(logger, s.Users).ServeHTTP)
			r.Post("/messages", messagesend.New(logger, s.Messages).ServeHTTP)
			r.Get("/messages/{id}", messagelist.New(logger, s.Messages).ServeHTTP)
			r.Get("/notifications", notificationlist.New(logger, s.Notification).ServeHTTP)
			r.Post("/media/image", mediaimage.New(logger, s.Gemini).ServeHTTP)
			r.Post("/media/speech", mediaspeech.New(logger, s.Gemini).ServeHTTP)
		})

		// Заблокированные пользователи: апелляции и собственный статус
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWTMaker, logger))
			r.Use(middlewarectx.BlockedOnlyMiddleware(logger, s.Storage))
			r.Post("/appeals", submit.New(logger, s.Moderation).ServeHTTP)
			r.Get("/moderation/status", moderationstatus.New(logger, s.Moderation).ServeHTTP)
		})

		// Модерация: только для роли creator
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWTMaker, logger))
			r.Use(middlewarectx.BlockedOnlyMiddleware(logger, s.Storage))
			r.Use(middlewarectx.RequireCreatorMiddleware(logger))
			r.Post("/moderation/sanctions", moderationsanction.New(logger, s.Moderation).ServeHTTP)
			r.Post("/moderation/users/{id}/{action}", moderationcontrol.New(logger, s.Moderation).ServeHTTP)
			r.Get("/moderation/appeals", moderationappeals.New(logger, s.Moderation).ServeHTTP)
			r.Get("/moderation/users", moderationusers.New(logger, s.Moderation).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Storage.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
