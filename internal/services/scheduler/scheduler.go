// Package scheduler реализует фоновую сверку истёкших блокировок.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
)

// Reconciler снимает истёкшие блокировки одним идемпотентным проходом.
type Reconciler interface {
	ReconcileExpired(ctx context.Context, now time.Time) (int64, error)
}

// Service периодически запускает сверку блокировок.
type Service struct {
	reconciler Reconciler
	interval   time.Duration
	log        *slog.Logger
}

// New создает новый экземпляр Service.
func New(reconciler Reconciler, interval time.Duration, log *slog.Logger) *Service {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Service{
		reconciler: reconciler,
		interval:   interval,
		log:        log,
	}
}

// Run запускает цикл сверки и блокируется до отмены контекста.
func (s *Service) Run(ctx context.Context) {
	s.runSweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runSweep(ctx)
		case <-ctx.Done():
			s.log.Info("sanction scheduler stopped")
			return
		}
	}
}

func (s *Service) runSweep(ctx context.Context) {
	s.log.Info("starting expired block sweep")
	n, err := s.reconciler.ReconcileExpired(ctx, time.Now())
	if err != nil {
		s.log.Error("failed to reconcile expired blocks", sl.Err(err))
		return
	}
	if n == 0 {
		s.log.Info("no expired blocks found")
		return
	}
	s.log.Info("expired blocks reconciled", "count", n)
}
