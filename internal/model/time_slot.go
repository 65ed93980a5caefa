package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot — еженедельный часовой слот доступности учителя.
// Времена хранятся как минуты от местной полуночи учителя (civil time),
// абсолютные инстанты появляются только при проверке конфликтов.
type TimeSlot struct {
	ID          int64     `json:"id"`
	WindowID    uuid.UUID `json:"window_id"` // группа слотов одного окна доступности
	TeacherID   int64     `json:"teacher_id"`
	Weekday     int       `json:"weekday"`      // 0 = Sunday, 6 = Saturday
	StartMinute int       `json:"start_minute"` // минуты от полуночи
	EndMinute   int       `json:"end_minute"`   // всегда StartMinute + 60
	CreatedAt   time.Time `json:"created_at"`
}

// SlotLengthMinutes длина канонического слота.
const SlotLengthMinutes = 60

// Overlaps проверяет пересечение с другим слотом по полуоткрытым интервалам.
func (s *TimeSlot) Overlaps(other *TimeSlot) bool {
	return s.StartMinute < other.EndMinute && s.EndMinute > other.StartMinute
}
