package schedule

import "github.com/Freeeeeet/tutor_market/internal/model"

// MatchConsecutive проверяет что каждый час запрошенного интервала покрыт
// точным слотом: идём от startMinute по часу за шаг, на каждом шаге требуем
// слот с start == текущий и end == текущий+60. Любой пропущенный час даёт
// отсутствие матча — это нормальный отрицательный результат, не ошибка.
//
// Занятия через полночь не поддерживаются: интервал, выходящий за местные
// сутки, отклоняется сразу.
func MatchConsecutive(slots []*model.TimeSlot, startMinute, durationHours int) ([]int64, bool) {
	if durationHours < 1 {
		return nil, false
	}
	if startMinute < 0 || startMinute+durationHours*model.SlotLengthMinutes > minutesPerDay {
		return nil, false
	}

	byStart := make(map[int]*model.TimeSlot, len(slots))
	for _, s := range slots {
		byStart[s.StartMinute] = s
	}

	ids := make([]int64, 0, durationHours)
	current := startMinute
	for i := 0; i < durationHours; i++ {
		slot, ok := byStart[current]
		if !ok || slot.EndMinute != current+model.SlotLengthMinutes {
			return nil, false
		}
		ids = append(ids, slot.ID)
		current += model.SlotLengthMinutes
	}
	return ids, true
}

// Intersects проверяет пересечение множеств идентификаторов слотов.
func Intersects(a, b []int64) bool {
	set := make(map[int64]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
