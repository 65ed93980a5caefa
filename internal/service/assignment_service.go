package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/notify"
	"github.com/Freeeeeet/tutor_market/internal/schedule"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Занятия через полночь не поддерживаются, поэтому длительность ограничена.
const maxDurationHours = 12

// AssignmentService подбирает учителя под запрос и атомарно бронирует
// занятие. Сам подбор только читает; гонку между чтением доступности и
// записью занятия закрывает уникальное ограничение в базе плюс повтор
// подбора при конфликте.
type AssignmentService struct {
	teachers     TeacherDirectory
	slots        SlotStore
	sessions     SessionStore
	notifier     notify.Notifier
	logger       *zap.Logger
	queryTimeout time.Duration
}

func NewAssignmentService(
	teachers TeacherDirectory,
	slots SlotStore,
	sessions SessionStore,
	notifier notify.Notifier,
	logger *zap.Logger,
	queryTimeout time.Duration,
) *AssignmentService {
	return &AssignmentService{
		teachers:     teachers,
		slots:        slots,
		sessions:     sessions,
		notifier:     notifier,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// AssignTeacher подбирает лучшего доступного учителя предмета на желаемый
// инстант. Подбор только читает; сохранение занятия — отдельный шаг (Book).
// Отсутствие подходящего учителя — результат model.ErrNoTeacherAvailable,
// не сбой.
func (s *AssignmentService) AssignTeacher(ctx context.Context, subjectID int64, desired time.Time, durationHours int) (*model.Assignment, error) {
	if err := validateDuration(durationHours); err != nil {
		return nil, err
	}

	candidates, err := s.collectCandidates(ctx, subjectID, desired, durationHours)
	if err != nil {
		return nil, err
	}

	schedule.Rank(candidates)
	best := schedule.Pick(candidates)
	if best == nil {
		return nil, model.ErrNoTeacherAvailable
	}

	return &model.Assignment{
		Teacher:  best.Teacher,
		SlotIDs:  best.SlotIDs,
		StartsAt: desired.UTC(),
	}, nil
}

// Book подбирает учителя и сохраняет занятие. Если конкурирующая бронь
// успела занять слот между подбором и записью, подбор повторяется:
// проигравший учитель отпадёт на проверке конфликтов.
func (s *AssignmentService) Book(ctx context.Context, subjectID, studentID int64, desired time.Time, durationHours int) (*model.BookedSession, error) {
	var session *model.BookedSession

	backoff := retry.WithMaxRetries(3, retry.NewConstant(25*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		assignment, err := s.AssignTeacher(ctx, subjectID, desired, durationHours)
		if err != nil {
			return err
		}

		loc, err := schedule.LoadZone(assignment.Teacher.Timezone)
		if err != nil {
			return fmt.Errorf("teacher %d timezone: %w", assignment.Teacher.ID, err)
		}

		candidate := &model.BookedSession{
			TeacherID:     assignment.Teacher.ID,
			StudentID:     studentID,
			SubjectID:     subjectID,
			StartDatetime: desired.UTC(),
			DurationHours: durationHours,
			SlotIDs:       assignment.SlotIDs,
			Status:        model.SessionStatusScheduled,
		}

		qctx, cancel := withTimeout(ctx, s.queryTimeout)
		defer cancel()

		teachingDay := schedule.LocalDate(desired, loc)
		if err := s.sessions.CreateWithSlots(qctx, candidate, teachingDay); err != nil {
			if errors.Is(err, model.ErrSlotTaken) {
				s.logger.Info("Booking lost the race, reselecting",
					zap.Int64("teacher_id", candidate.TeacherID),
					zap.Int64("subject_id", subjectID),
				)
				return retry.RetryableError(err)
			}
			return storeErr("create session", err)
		}

		session = candidate
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			// ретраи исчерпаны — с точки зрения клиента учителя нет
			return nil, model.ErrNoTeacherAvailable
		}
		return nil, err
	}

	s.logger.Info("Session booked",
		zap.Int64("session_id", session.ID),
		zap.Int64("teacher_id", session.TeacherID),
		zap.Int64("student_id", studentID),
		zap.Int64("subject_id", subjectID),
		zap.Time("starts_at", session.StartDatetime),
		zap.Int("duration_hours", durationHours),
	)

	teacher, err := s.teachers.GetByID(ctx, session.TeacherID)
	if err == nil && teacher != nil {
		if err := s.notifier.SessionBooked(ctx, teacher, session); err != nil {
			s.logger.Warn("Failed to send booking notification", zap.Error(err))
		}
	}

	return session, nil
}

// CancelSession отменяет запланированное занятие учителя. Слоты-шаблоны
// остаются, занятие лишь перестаёт учитываться в проверках конфликтов.
func (s *AssignmentService) CancelSession(ctx context.Context, sessionID, teacherID int64) error {
	qctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	session, err := s.sessions.GetByID(qctx, sessionID)
	if err != nil {
		return storeErr("get session", err)
	}
	if session == nil {
		return model.ErrNotFound
	}

	if session.TeacherID != teacherID {
		// чужие занятия не раскрываем
		return model.ErrNotFound
	}

	if session.Status != model.SessionStatusScheduled {
		return &model.ValidationError{Field: "status", Reason: "session is not scheduled"}
	}

	if err := s.sessions.Cancel(qctx, sessionID); err != nil {
		return storeErr("cancel session", err)
	}

	s.logger.Info("Session cancelled",
		zap.Int64("session_id", sessionID),
		zap.Int64("teacher_id", teacherID),
	)

	return nil
}

// collectCandidates собирает факты по каждому учителю пула: матч слотов в
// его местном времени, конфликты в границах его местного календарного дня,
// загрузка и размер недельного расписания.
func (s *AssignmentService) collectCandidates(ctx context.Context, subjectID int64, desired time.Time, durationHours int) ([]*schedule.Candidate, error) {
	qctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	teachers, err := s.teachers.GetBySubject(qctx, subjectID)
	if err != nil {
		return nil, storeErr("get teachers by subject", err)
	}
	if len(teachers) == 0 {
		return nil, model.ErrNoTeacherAvailable
	}

	ids := make([]int64, 0, len(teachers))
	for _, t := range teachers {
		ids = append(ids, t.ID)
	}

	weeklyCounts, err := s.slots.WeeklyCounts(qctx, ids)
	if err != nil {
		return nil, storeErr("count weekly slots", err)
	}
	scheduledCounts, err := s.sessions.CountScheduled(qctx, ids)
	if err != nil {
		return nil, storeErr("count scheduled sessions", err)
	}

	candidates := make([]*schedule.Candidate, 0, len(teachers))
	for _, teacher := range teachers {
		cand := &schedule.Candidate{
			Teacher:       teacher,
			ScheduledLoad: scheduledCounts[teacher.ID],
			WeeklySlots:   weeklyCounts[teacher.ID],
		}
		candidates = append(candidates, cand)

		slotIDs, ok, err := s.checkTeacher(qctx, teacher, desired, durationHours)
		if err != nil {
			return nil, err
		}
		cand.SlotIDs = slotIDs
		cand.HasAvailability = ok
	}

	return candidates, nil
}

// checkTeacher проверяет одного учителя: желаемый инстант переводится в его
// зону (день недели может сдвинуться через полночь), ищется непрерывная
// цепочка слотов, затем конфликты в границах его местного дня.
func (s *AssignmentService) checkTeacher(ctx context.Context, teacher *model.Teacher, desired time.Time, durationHours int) ([]int64, bool, error) {
	loc, err := schedule.LoadZone(teacher.Timezone)
	if err != nil {
		// битая зона в справочнике не должна ронять весь подбор
		s.logger.Warn("Teacher has invalid timezone, skipping",
			zap.Int64("teacher_id", teacher.ID),
			zap.String("timezone", teacher.Timezone),
		)
		return nil, false, nil
	}

	weekday, minute := schedule.LocalClock(desired, loc)

	slots, err := s.slots.GetByTeacherWeekday(ctx, teacher.ID, weekday)
	if err != nil {
		return nil, false, storeErr("get slots", err)
	}

	slotIDs, ok := schedule.MatchConsecutive(slots, minute, durationHours)
	if !ok {
		return nil, false, nil
	}

	from, to := schedule.DayBounds(desired, loc)
	sessions, err := s.sessions.GetScheduledInRange(ctx, teacher.ID, from, to)
	if err != nil {
		return nil, false, storeErr("get scheduled sessions", err)
	}

	for _, session := range sessions {
		if schedule.Intersects(session.SlotIDs, slotIDs) {
			return nil, false, nil
		}
	}

	return slotIDs, true, nil
}

func validateDuration(hours int) error {
	if hours < 1 {
		return &model.ValidationError{Field: "duration_hours", Reason: "must be positive"}
	}
	if hours > maxDurationHours {
		return &model.ValidationError{Field: "duration_hours", Reason: fmt.Sprintf("must not exceed %d hours", maxDurationHours)}
	}
	return nil
}
