package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/portainfo/internal/models"
)

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) NotifySystem(ctx context.Context, recipientUID, text string) error {
	return m.Called(ctx, recipientUID, text).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandleModerationEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    models.ModerationEvent
		wantText string
	}{
		{
			name:     "временная блокировка",
			event:    models.ModerationEvent{Type: models.EventSanctionIssued, UserUID: "uid-1", Reason: "spam"},
			wantText: "Tu cuenta ha sido bloqueada temporalmente. Motivo: spam",
		},
		{
			name:     "бессрочная блокировка",
			event:    models.ModerationEvent{Type: models.EventSanctionIssued, UserUID: "uid-1", Reason: "abuso", Forever: true},
			wantText: "Tu cuenta ha sido bloqueada permanentemente. Motivo: abuso",
		},
		{
			name:     "терминация аккаунта",
			event:    models.ModerationEvent{Type: models.EventAccountTerminated, UserUID: "uid-1", Reason: "Terminación de cuenta por infracción crítica."},
			wantText: "Terminación de cuenta por infracción crítica.",
		},
		{
			name:     "снятие блокировки",
			event:    models.ModerationEvent{Type: models.EventSanctionLifted, UserUID: "uid-1"},
			wantText: "Tu cuenta ha sido desbloqueada.",
		},
		{
			name:     "истечение блокировки",
			event:    models.ModerationEvent{Type: models.EventSanctionExpired, UserUID: "uid-1"},
			wantText: "Tu bloqueo temporal ha terminado.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := new(NotifierMock)
			notifier.On("NotifySystem", mock.Anything, "uid-1", tt.wantText).Return(nil).Once()

			body, err := json.Marshal(tt.event)
			assert.NoError(t, err)

			svc := New(notifier, newNoopLogger())
			err = svc.HandleModerationEvent(body)

			assert.NoError(t, err)
			notifier.AssertExpectations(t)
		})
	}
}

func TestHandleModerationEvent_UnknownTypeIgnored(t *testing.T) {
	notifier := new(NotifierMock)
	body, _ := json.Marshal(models.ModerationEvent{Type: "sanction.unknown", UserUID: "uid-1"})

	svc := New(notifier, newNoopLogger())
	err := svc.HandleModerationEvent(body)

	assert.NoError(t, err)
	notifier.AssertNotCalled(t, "NotifySystem")
}

func TestHandleModerationEvent_InvalidJSON(t *testing.T) {
	notifier := new(NotifierMock)

	svc := New(notifier, newNoopLogger())
	err := svc.HandleModerationEvent([]byte("{not json"))

	assert.Error(t, err)
	notifier.AssertNotCalled(t, "NotifySystem")
}
