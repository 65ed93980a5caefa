package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/schedule"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleService управляет окнами доступности учителей: разбивает сырое
// окно на часовые слоты и следит за инвариантом отсутствия пересечений.
type ScheduleService struct {
	teachers     TeacherDirectory
	slots        SlotStore
	sessions     SessionStore
	logger       *zap.Logger
	queryTimeout time.Duration
}

func NewScheduleService(
	teachers TeacherDirectory,
	slots SlotStore,
	sessions SessionStore,
	logger *zap.Logger,
	queryTimeout time.Duration,
) *ScheduleService {
	return &ScheduleService{
		teachers:     teachers,
		slots:        slots,
		sessions:     sessions,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// CreateAvailabilityWindow разбивает окно [startTime, endTime) на часовые
// слоты и сохраняет их одной пачкой. Любое пересечение с существующими
// слотами учителя на этот день недели отклоняет всё окно целиком.
func (s *ScheduleService) CreateAvailabilityWindow(ctx context.Context, teacherID int64, weekday int, startTime, endTime string) ([]*model.TimeSlot, error) {
	startMinute, err := schedule.ParseClock(startTime)
	if err != nil {
		return nil, err
	}
	endMinute, err := schedule.ParseClock(endTime)
	if err != nil {
		return nil, err
	}
	if endMinute == 0 && startMinute > 0 {
		// "00:00" как конец окна означает конец суток
		endMinute = 24 * 60
	}

	candidates, err := schedule.DecomposeWindow(teacherID, weekday, startMinute, endMinute)
	if err != nil {
		return nil, err
	}

	qctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	teacher, err := s.teachers.GetByID(qctx, teacherID)
	if err != nil {
		return nil, storeErr("get teacher", err)
	}
	if teacher == nil {
		return nil, model.ErrNotFound
	}

	existing, err := s.slots.GetByTeacherWeekday(qctx, teacherID, weekday)
	if err != nil {
		return nil, storeErr("get slots", err)
	}

	if clash := schedule.FindOverlap(existing, candidates); clash != nil {
		return nil, &model.OverlapError{
			TeacherID:   teacherID,
			Weekday:     weekday,
			StartMinute: clash.StartMinute,
			EndMinute:   clash.EndMinute,
		}
	}

	windowID := uuid.New()
	for _, slot := range candidates {
		slot.WindowID = windowID
	}

	if err := s.slots.CreateBatch(qctx, candidates); err != nil {
		return nil, storeErr("create slots", err)
	}

	s.logger.Info("Availability window created",
		zap.Int64("teacher_id", teacherID),
		zap.String("window_id", windowID.String()),
		zap.Int("weekday", weekday),
		zap.String("start", startTime),
		zap.String("end", endTime),
		zap.Int("slots", len(candidates)),
	)

	return candidates, nil
}

// DeleteSlot удаляет один слот-шаблон. Слот, занятый активным
// запланированным занятием, удалить нельзя.
func (s *ScheduleService) DeleteSlot(ctx context.Context, slotID int64) error {
	qctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	slot, err := s.slots.GetByID(qctx, slotID)
	if err != nil {
		return storeErr("get slot", err)
	}
	if slot == nil {
		return model.ErrNotFound
	}

	inUse, err := s.sessions.FirstSlotInUse(qctx, []int64{slotID})
	if err != nil {
		return storeErr("check slot in use", err)
	}
	if inUse != 0 {
		return &model.InUseError{SlotID: inUse}
	}

	if err := s.slots.Delete(qctx, slotID); err != nil {
		return storeErr("delete slot", err)
	}

	s.logger.Info("Slot deleted",
		zap.Int64("slot_id", slotID),
		zap.Int64("teacher_id", slot.TeacherID),
	)

	return nil
}

// DeleteWeekday удаляет все слоты учителя на день недели. Если хотя бы один
// слот занят активным занятием, не удаляется ничего.
func (s *ScheduleService) DeleteWeekday(ctx context.Context, teacherID int64, weekday int) (int64, error) {
	if weekday < 0 || weekday > 6 {
		return 0, &model.ValidationError{Field: "weekday", Reason: "weekday out of range 0..6"}
	}

	qctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	slots, err := s.slots.GetByTeacherWeekday(qctx, teacherID, weekday)
	if err != nil {
		return 0, storeErr("get slots", err)
	}
	if len(slots) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
	}

	inUse, err := s.sessions.FirstSlotInUse(qctx, ids)
	if err != nil {
		return 0, storeErr("check slots in use", err)
	}
	if inUse != 0 {
		return 0, &model.InUseError{SlotID: inUse}
	}

	deleted, err := s.slots.DeleteByWeekday(qctx, teacherID, weekday)
	if err != nil {
		return 0, storeErr("delete slots", err)
	}

	s.logger.Info("Weekday slots deleted",
		zap.Int64("teacher_id", teacherID),
		zap.Int("weekday", weekday),
		zap.Int64("deleted", deleted),
	)

	return deleted, nil
}
