// Package moderation содержит бизнес-логику санкций: выдачу и снятие
// блокировок, терминацию аккаунтов, верификацию, роли и апелляции.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/lib/sanction"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/metrics"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// terminationReason — причина, выставляемая при терминации аккаунта.
const terminationReason = "Terminación de cuenta por infracción crítica."

// Repository определяет методы хранилища для модерации.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	SetBlock(ctx context.Context, userUID string, until *time.Time, forever bool, reason string) error
	SetTerminated(ctx context.Context, userUID, reason string) error
	ClearBlock(ctx context.Context, userUID string) error
	SetVerified(ctx context.Context, userUID string, verified bool) error
	SetRole(ctx context.Context, userUID, role string) error
	ListUsers(ctx context.Context) ([]*models.User, error)
	ReconcileExpiredBlocks(ctx context.Context, now time.Time) ([]models.User, error)
	CreateAppeal(ctx context.Context, a models.Appeal) (string, error)
	ListAppeals(ctx context.Context) ([]*models.Appeal, error)
	ResolveAppeals(ctx context.Context, userUID string) error
}

// Publisher публикует модерационные события в брокер сообщений.
type Publisher interface {
	Publish(event models.ModerationEvent) error
}

// Service реализует бизнес-логику модерации.
type Service struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

func requireCreator(actor *models.User) error {
	if actor.Role != models.RoleCreator {
		return apperr.ErrPermissionDenied
	}
	return nil
}

func (s *Service) publish(event models.ModerationEvent) {
	if s.publisher == nil {
		return
	}
	event.CreatedAt = time.Now()
	if err := s.publisher.Publish(event); err != nil {
		s.log.Error("failed to publish moderation event", sl.Err(err))
		return
	}
	metrics.ModerationEventsPublished.WithLabelValues(event.Type).Inc()
}

// IssueSanction выдаёт пользователю временную или бессрочную блокировку.
// Доступно только учётной записи creator; саму учётную запись portainfo
// заблокировать нельзя.
func (s *Service) IssueSanction(ctx context.Context, actor *models.User, req models.DummySanction) error {
	const op = "moderation.IssueSanction"

	if err := requireCreator(actor); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !sanction.ValidLevel(req.Level) {
		return fmt.Errorf("%s: unknown sanction level %q: %w", op, req.Level, apperr.ErrValidation)
	}

	target, err := s.repo.GetUser(ctx, req.UserID)
	if err != nil {
		// Санкция по несуществующему пользователю ничего не меняет.
		if errors.Is(err, apperr.ErrNotFound) {
			s.log.Warn("sanction target does not exist", slog.String("target", req.UserID))
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if target.Username == models.CreatorUsername {
		return fmt.Errorf("%s: %w", op, apperr.ErrPermissionDenied)
	}

	now := time.Now()
	until, forever, err := sanction.Until(now, req.Duration, req.Unit)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, apperr.ErrValidation, err)
	}

	var untilPtr *time.Time
	if !forever {
		untilPtr = &until
	}
	if err := s.repo.SetBlock(ctx, target.UID, untilPtr, forever, req.Reason); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("sanction issued",
		slog.String("target", target.UID),
		slog.String("level", req.Level),
		slog.Bool("forever", forever))
	s.publish(models.ModerationEvent{
		Type:     models.EventSanctionIssued,
		UserUID:  target.UID,
		Username: target.Username,
		Level:    req.Level,
		Reason:   req.Reason,
		Until:    until,
		Forever:  forever,
	})
	return nil
}

// Terminate терминирует аккаунт пользователя: бессрочная блокировка
// с фиксированной причиной, снимается только явной разблокировкой.
func (s *Service) Terminate(ctx context.Context, actor *models.User, targetUID string) error {
	const op = "moderation.Terminate"

	if err := requireCreator(actor); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	target, err := s.repo.GetUser(ctx, targetUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if target.Username == models.CreatorUsername {
		return fmt.Errorf("%s: %w", op, apperr.ErrPermissionDenied)
	}

	if err := s.repo.SetTerminated(ctx, target.UID, terminationReason); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("account terminated", slog.String("target", target.UID))
	s.publish(models.ModerationEvent{
		Type:     models.EventAccountTerminated,
		UserUID:  target.UID,
		Username: target.Username,
		Reason:   terminationReason,
		Forever:  true,
	})
	return nil
}

// Unblock полностью снимает блокировку и терминацию, а нерассмотренные
// апелляции пользователя помечает рассмотренными.
func (s *Service) Unblock(ctx context.Context, actor *models.User, targetUID string) error {
	const op = "moderation.Unblock"

	if err := requireCreator(actor); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	target, err := s.repo.GetUser(ctx, targetUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.ClearBlock(ctx, target.UID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.ResolveAppeals(ctx, target.UID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user unblocked", slog.String("target", target.UID))
	s.publish(models.ModerationEvent{
		Type:     models.EventSanctionLifted,
		UserUID:  target.UID,
		Username: target.Username,
	})
	return nil
}

// ToggleVerify переключает признак верификации пользователя.
// Возвращает новое значение признака.
func (s *Service) ToggleVerify(ctx context.Context, actor *models.User, targetUID string) (bool, error) {
	const op = "moderation.ToggleVerify"

	if err := requireCreator(actor); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	target, err := s.repo.GetUser(ctx, targetUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	verified := !target.IsVerified
	if err := s.repo.SetVerified(ctx, target.UID, verified); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return verified, nil
}

// ToggleAdminRole переключает роль пользователя между user и creator.
// Служебная учётная запись portainfo роль creator потерять не может.
func (s *Service) ToggleAdminRole(ctx context.Context, actor *models.User, targetUID string) (string, error) {
	const op = "moderation.ToggleAdminRole"

	if err := requireCreator(actor); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	target, err := s.repo.GetUser(ctx, targetUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if target.Username == models.CreatorUsername {
		return "", fmt.Errorf("%s: %w", op, apperr.ErrPermissionDenied)
	}

	role := models.RoleCreator
	if target.Role == models.RoleCreator {
		role = models.RoleUser
	}
	if err := s.repo.SetRole(ctx, target.UID, role); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return role, nil
}

// BlockStatus описывает действующий статус блокировки для отображения.
type BlockStatus struct {
	Status    sanction.Status
	Countdown string
}

// Status возвращает действующий статус блокировки пользователя.
// Истёкшая временная блокировка снимается здесь же.
func (s *Service) Status(ctx context.Context, userUID string) (*BlockStatus, error) {
	const op = "moderation.Status"

	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st := sanction.Evaluate(u, time.Now())
	if st.Expired {
		if err := s.repo.ClearBlock(ctx, u.UID); err != nil {
			s.log.Error("failed to clear expired block", sl.Err(err))
		}
		s.publish(models.ModerationEvent{
			Type:     models.EventSanctionExpired,
			UserUID:  u.UID,
			Username: u.Username,
		})
	}
	return &BlockStatus{
		Status:    st,
		Countdown: sanction.Countdown(st),
	}, nil
}

// SubmitAppeal подаёт апелляцию от имени заблокированного пользователя.
// Пустой текст игнорируется без ошибки. Терминированные аккаунты
// подавать апелляции не могут.
func (s *Service) SubmitAppeal(ctx context.Context, actor *models.User, text string) (string, error) {
	const op = "moderation.SubmitAppeal"

	if text == "" {
		return "", nil
	}

	st := sanction.Evaluate(actor, time.Now())
	if !st.Blocked {
		return "", fmt.Errorf("%s: account is not blocked: %w", op, apperr.ErrValidation)
	}
	if st.Terminated {
		return "", fmt.Errorf("%s: %w", op, apperr.ErrPermissionDenied)
	}

	a := models.Appeal{
		ID:       uuid.NewString(),
		UserUID:  actor.UID,
		Username: actor.Username,
		Text:     text,
		Status:   models.AppealPending,
	}
	id, err := s.repo.CreateAppeal(ctx, a)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("appeal submitted", slog.String("user_uid", actor.UID))
	return id, nil
}

// ListAppeals возвращает все апелляции. Доступно только creator.
func (s *Service) ListAppeals(ctx context.Context, actor *models.User) ([]*models.Appeal, error) {
	const op = "moderation.ListAppeals"

	if err := requireCreator(actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := s.repo.ListAppeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUsers возвращает всех пользователей. Доступно только creator.
func (s *Service) ListUsers(ctx context.Context, actor *models.User) ([]*models.User, error) {
	const op = "moderation.ListUsers"

	if err := requireCreator(actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range result {
		u.PasswordHash = ""
	}
	return result, nil
}

// ReconcileExpired снимает истёкшие временные блокировки одним проходом
// и публикует событие sanction.expired по каждому затронутому пользователю.
// Операция идемпотентна: очищенная запись второй раз в выборку не попадает.
func (s *Service) ReconcileExpired(ctx context.Context, now time.Time) (int64, error) {
	const op = "moderation.ReconcileExpired"

	cleared, err := s.repo.ReconcileExpiredBlocks(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range cleared {
		s.publish(models.ModerationEvent{
			Type:     models.EventSanctionExpired,
			UserUID:  u.UID,
			Username: u.Username,
		})
	}
	n := int64(len(cleared))
	if n > 0 {
		metrics.SanctionsReconciled.Add(float64(n))
		s.log.Info("expired blocks cleared", slog.Int64("count", n))
	}
	return n, nil
}
