package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/schedule"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Сканы по учителям независимы, ограничиваем только степень параллелизма.
const maxParallelScans = 8

// AvailabilityService перечисляет окна доступности по всем учителям предмета
// для витрины клиента. Чисто читающий компонент, проверки по учителям идут
// параллельно.
type AvailabilityService struct {
	teachers     TeacherDirectory
	slots        SlotStore
	sessions     SessionStore
	logger       *zap.Logger
	queryTimeout time.Duration
}

func NewAvailabilityService(
	teachers TeacherDirectory,
	slots SlotStore,
	sessions SessionStore,
	logger *zap.Logger,
	queryTimeout time.Duration,
) *AvailabilityService {
	return &AvailabilityService{
		teachers:     teachers,
		slots:        slots,
		sessions:     sessions,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// GetAvailability перечисляет окна доступности на календарный день клиента.
// День клиента конвертируется в зону каждого учителя (местная дата может
// отличаться), перебираются все 24 часа местных суток учителя. Пустой
// список — валидный результат, не ошибка.
func (s *AvailabilityService) GetAvailability(ctx context.Context, query model.AvailabilityQuery) ([]*model.AvailabilityWindow, error) {
	if err := validateDuration(query.DurationHours); err != nil {
		return nil, err
	}

	clientZone, err := schedule.LoadZone(query.ClientTimezone)
	if err != nil {
		return nil, err
	}

	// якорь — местная полночь клиента, один и тот же инстант для всех учителей
	anchor, err := schedule.ParseDate(query.Date, clientZone)
	if err != nil {
		return nil, err
	}

	qctx, cancel := withTimeout(ctx, s.queryTimeout)
	teachers, err := s.teachers.GetBySubject(qctx, query.SubjectID)
	cancel()
	if err != nil {
		return nil, storeErr("get teachers by subject", err)
	}

	windows := make([]*model.AvailabilityWindow, 0)
	if len(teachers) == 0 {
		return windows, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelScans)

	for _, teacher := range teachers {
		teacher := teacher
		g.Go(func() error {
			// кооперативный выход: после отмены новые сканы не стартуют
			if err := gctx.Err(); err != nil {
				return err
			}

			found, err := s.scanTeacher(gctx, teacher, anchor, clientZone, query.DurationHours)
			if err != nil {
				return err
			}

			mu.Lock()
			windows = append(windows, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// сортировка по абсолютному UTC-началу, при равенстве — по местному
	// времени учителя
	sort.Slice(windows, func(i, j int) bool {
		if !windows[i].StartUTC.Equal(windows[j].StartUTC) {
			return windows[i].StartUTC.Before(windows[j].StartUTC)
		}
		return windows[i].LocalStart < windows[j].LocalStart
	})

	return windows, nil
}

// scanTeacher перебирает часы местных суток одного учителя: на каждый час —
// матч непрерывной цепочки слотов и проверка конфликтов в границах его
// местного календарного дня.
func (s *AvailabilityService) scanTeacher(ctx context.Context, teacher *model.Teacher, anchor time.Time, clientZone *time.Location, durationHours int) ([]*model.AvailabilityWindow, error) {
	teacherZone, err := schedule.LoadZone(teacher.Timezone)
	if err != nil {
		s.logger.Warn("Teacher has invalid timezone, skipping",
			zap.Int64("teacher_id", teacher.ID),
			zap.String("timezone", teacher.Timezone),
		)
		return nil, nil
	}

	weekday, _ := schedule.LocalClock(anchor, teacherZone)

	qctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	slots, err := s.slots.GetByTeacherWeekday(qctx, teacher.ID, weekday)
	if err != nil {
		return nil, storeErr("get slots", err)
	}
	if len(slots) == 0 {
		return nil, nil
	}

	dayFrom, dayTo := schedule.DayBounds(anchor, teacherZone)
	sessions, err := s.sessions.GetScheduledInRange(qctx, teacher.ID, dayFrom, dayTo)
	if err != nil {
		return nil, storeErr("get scheduled sessions", err)
	}

	var windows []*model.AvailabilityWindow
	for hour := 0; hour < 24; hour++ {
		startMinute := hour * 60

		slotIDs, ok := schedule.MatchConsecutive(slots, startMinute, durationHours)
		if !ok {
			continue
		}

		conflict := false
		for _, session := range sessions {
			if schedule.Intersects(session.SlotIDs, slotIDs) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		endMinute := startMinute + durationHours*60
		startUTC := schedule.InstantOn(anchor, teacherZone, startMinute)
		endUTC := schedule.InstantOn(anchor, teacherZone, endMinute)

		windows = append(windows, &model.AvailabilityWindow{
			TeacherID:   teacher.ID,
			TeacherName: teacher.DisplayName,
			SlotIDs:     slotIDs,
			LocalDate:   schedule.LocalDate(startUTC, teacherZone),
			LocalStart:  schedule.FormatClock(startMinute),
			LocalEnd:    schedule.FormatClock(endMinute),
			StartUTC:    startUTC,
			EndUTC:      endUTC,
			ClientStart: startUTC.In(clientZone).Format("15:04"),
			ClientEnd:   endUTC.In(clientZone).Format("15:04"),
		})
	}

	return windows, nil
}
