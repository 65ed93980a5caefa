package model

import (
	"context"
	"errors"
	"fmt"
)

// Типизированные ошибки домена. "Учитель не найден" и пустая доступность —
// не ошибки, а легитимные результаты; для первого есть sentinel, который
// вызывающий код обязан проверять через errors.Is.

// ValidationError — некорректный ввод, отклоняется до обращения к хранилищу.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// OverlapError — новый слот пересекается с существующим у того же
// учителя в тот же день недели. Вся пачка окна отклоняется целиком.
type OverlapError struct {
	TeacherID   int64
	Weekday     int
	StartMinute int
	EndMinute   int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("slot overlap: teacher %d weekday %d [%02d:%02d-%02d:%02d)",
		e.TeacherID, e.Weekday,
		e.StartMinute/60, e.StartMinute%60, e.EndMinute/60, e.EndMinute%60)
}

// InUseError — слот занят активным запланированным занятием, удаление запрещено.
type InUseError struct {
	SlotID int64
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("slot %d is referenced by a scheduled session", e.SlotID)
}

var (
	// ErrNoTeacherAvailable ни один учитель не подошёл — результат, не сбой.
	ErrNoTeacherAvailable = errors.New("no teacher available")

	// ErrSlotTaken конкурирующая бронь заняла слот между выбором и записью.
	ErrSlotTaken = errors.New("slot already taken for this day")

	// ErrNotFound сущность не найдена.
	ErrNotFound = errors.New("not found")
)

// StoreError — временный сбой хранилища (таймаут, обрыв соединения).
// Вызывающая сторона может повторить запрос; ядро само ретраев не делает.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsTransient проверяет является ли ошибка временной (имеет смысл ретраить).
func IsTransient(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
