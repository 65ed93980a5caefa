package service

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
)

// Сервисы зависят от узких интерфейсов хранилища; pgx-репозитории реализуют
// их без адаптеров, тесты подставляют in-memory фейки.

// SlotStore доступ к слотам-шаблонам расписания.
type SlotStore interface {
	CreateBatch(ctx context.Context, slots []*model.TimeSlot) error
	GetByID(ctx context.Context, id int64) (*model.TimeSlot, error)
	GetByTeacherWeekday(ctx context.Context, teacherID int64, weekday int) ([]*model.TimeSlot, error)
	Delete(ctx context.Context, id int64) error
	DeleteByWeekday(ctx context.Context, teacherID int64, weekday int) (int64, error)
	WeeklyCounts(ctx context.Context, teacherIDs []int64) (map[int64]int, error)
}

// SessionStore доступ к занятиям.
type SessionStore interface {
	CreateWithSlots(ctx context.Context, session *model.BookedSession, teachingDay string) error
	GetByID(ctx context.Context, id int64) (*model.BookedSession, error)
	GetScheduledInRange(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.BookedSession, error)
	CountScheduled(ctx context.Context, teacherIDs []int64) (map[int64]int, error)
	Cancel(ctx context.Context, id int64) error
	FirstSlotInUse(ctx context.Context, slotIDs []int64) (int64, error)
}

// TeacherDirectory справочник учителей (им владеет каталог-сервис).
type TeacherDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
	GetBySubject(ctx context.Context, subjectID int64) ([]*model.Teacher, error)
}

// DefaultQueryTimeout ограничивает каждое обращение к хранилищу.
const DefaultQueryTimeout = 5 * time.Second

// withTimeout навешивает таймаут запроса к хранилищу на контекст.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultQueryTimeout
	}
	return context.WithTimeout(ctx, d)
}

// storeErr помечает истечение таймаута как временный сбой хранилища,
// который вызывающая сторона может ретраить.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &model.StoreError{Op: op, Err: err}
	}
	return err
}
