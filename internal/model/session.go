package model

import "time"

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// BookedSession — конкретное датированное занятие, занимающее один или
// несколько слотов-шаблонов учителя. SlotIDs неизменяемы после создания;
// отмена только убирает занятие из будущих проверок конфликтов, сами
// слоты-шаблоны остаются.
type BookedSession struct {
	ID            int64         `json:"id"`
	TeacherID     int64         `json:"teacher_id"`
	StudentID     int64         `json:"student_id"`
	SubjectID     int64         `json:"subject_id"`
	StartDatetime time.Time     `json:"start_datetime"` // абсолютный инстант, UTC
	DurationHours int           `json:"duration_hours"`
	SlotIDs       []int64       `json:"slot_ids"` // упорядочены по часам занятия
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// EndDatetime момент окончания занятия.
func (s *BookedSession) EndDatetime() time.Time {
	return s.StartDatetime.Add(time.Duration(s.DurationHours) * time.Hour)
}
