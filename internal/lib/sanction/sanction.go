// Package sanction реализует правила блокировок пользователей: расчёт
// момента окончания санкции, определение действующего статуса учётной
// записи и форматирование оставшегося времени.
//
// Пакет не изменяет состояние: решения о снятии истёкших блокировок
// принимает вызывающий сервис по флагу Expired.
package sanction

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/portainfo/internal/models"
)

// Уровни санкций.
const (
	LevelLight    = "leve"
	LevelModerate = "moderada"
	LevelIntense  = "intensa"
)

// Единицы длительности санкции.
const (
	UnitHours   = "hours"
	UnitDays    = "days"
	UnitWeeks   = "weeks"
	UnitMonths  = "months"
	UnitForever = "forever"
)

// unitDurations сопоставляет единицу длительности с её продолжительностью.
// Месяц считается равным 30 дням.
var unitDurations = map[string]time.Duration{
	UnitHours:  time.Hour,
	UnitDays:   24 * time.Hour,
	UnitWeeks:  7 * 24 * time.Hour,
	UnitMonths: 30 * 24 * time.Hour,
}

// ValidLevel сообщает, является ли строка известным уровнем санкции.
func ValidLevel(level string) bool {
	switch level {
	case LevelLight, LevelModerate, LevelIntense:
		return true
	}
	return false
}

// Until вычисляет момент окончания санкции. Для единицы forever
// возвращает forever = true, значение времени при этом не используется.
// Количество единиц должно быть положительным.
func Until(now time.Time, amount int, unit string) (until time.Time, forever bool, err error) {
	if unit == UnitForever {
		return time.Time{}, true, nil
	}
	d, ok := unitDurations[unit]
	if !ok {
		return time.Time{}, false, fmt.Errorf("unknown sanction unit: %q", unit)
	}
	if amount <= 0 {
		return time.Time{}, false, fmt.Errorf("sanction amount must be positive, got %d", amount)
	}
	return now.Add(time.Duration(amount) * d), false, nil
}

// Status описывает действующий статус блокировки пользователя на момент
// вызова Evaluate.
type Status struct {
	Blocked    bool          // Учётная запись сейчас заблокирована
	Terminated bool          // Блокировка вызвана терминацией аккаунта
	Forever    bool          // Блокировка бессрочная
	Remaining  time.Duration // Остаток временной блокировки
	Reason     string        // Причина блокировки
	Expired    bool          // Временная блокировка истекла, запись нужно очистить
}

// Evaluate вычисляет действующий статус блокировки пользователя.
//
// Учётная запись creator никогда не считается заблокированной.
// Терминация и бессрочная блокировка действуют без ограничения по
// времени. Временная блокировка действует, пока не наступил момент
// BlockedUntil; после него статус не заблокирован, а флаг Expired
// сообщает вызывающему, что поля блокировки подлежат очистке.
func Evaluate(u *models.User, now time.Time) Status {
	if u.Role == models.RoleCreator {
		return Status{}
	}
	if u.IsTerminated {
		return Status{Blocked: true, Terminated: true, Forever: true, Reason: u.BlockReason}
	}
	if u.BlockedForever {
		return Status{Blocked: true, Forever: true, Reason: u.BlockReason}
	}
	if u.BlockedUntil == nil {
		return Status{}
	}
	if now.Before(*u.BlockedUntil) {
		return Status{
			Blocked:   true,
			Remaining: u.BlockedUntil.Sub(now),
			Reason:    u.BlockReason,
		}
	}
	return Status{Expired: true}
}

// Countdown форматирует статус блокировки для отображения пользователю.
// Терминация и бессрочная блокировка отображаются как "SIEMPRE",
// истёкшая блокировка — как "TERMINADO", действующая временная —
// как "Hh Mm Ss".
func Countdown(st Status) string {
	if st.Forever {
		return "SIEMPRE"
	}
	if !st.Blocked {
		return "TERMINADO"
	}
	rem := st.Remaining
	h := int(rem / time.Hour)
	m := int(rem/time.Minute) % 60
	s := int(rem/time.Second) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
