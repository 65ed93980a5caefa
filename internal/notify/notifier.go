package notify

import (
	"context"

	"github.com/Freeeeeet/tutor_market/internal/model"
)

// Notifier получает уведомление после успешного назначения. Доставка —
// ответственность внешнего сервиса уведомлений, ядро лишь сообщает факт.
type Notifier interface {
	SessionBooked(ctx context.Context, teacher *model.Teacher, session *model.BookedSession) error
}

// Noop заглушка для окружений без настроенных уведомлений.
type Noop struct{}

func (Noop) SessionBooked(ctx context.Context, teacher *model.Teacher, session *model.BookedSession) error {
	return nil
}
