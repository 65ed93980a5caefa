package schedule

import (
	"fmt"

	"github.com/Freeeeeet/tutor_market/internal/model"
)

// DecomposeWindow разбивает сырое окно доступности на канонические часовые
// слоты [start, start+60), [start+60, start+120), ... Валидация выполняется
// до любого обращения к хранилищу.
func DecomposeWindow(teacherID int64, weekday, startMinute, endMinute int) ([]*model.TimeSlot, error) {
	if weekday < 0 || weekday > 6 {
		return nil, &model.ValidationError{Field: "weekday", Reason: fmt.Sprintf("weekday %d out of range 0..6", weekday)}
	}
	if startMinute < 0 || endMinute > minutesPerDay {
		return nil, &model.ValidationError{Field: "time", Reason: "window outside of day bounds"}
	}
	if endMinute <= startMinute {
		return nil, &model.ValidationError{Field: "time", Reason: "window end must be after start"}
	}
	if (endMinute-startMinute)%model.SlotLengthMinutes != 0 {
		return nil, &model.ValidationError{Field: "time", Reason: "window length must be a whole number of hours"}
	}

	hours := (endMinute - startMinute) / model.SlotLengthMinutes
	slots := make([]*model.TimeSlot, 0, hours)
	for i := 0; i < hours; i++ {
		start := startMinute + i*model.SlotLengthMinutes
		slots = append(slots, &model.TimeSlot{
			TeacherID:   teacherID,
			Weekday:     weekday,
			StartMinute: start,
			EndMinute:   start + model.SlotLengthMinutes,
		})
	}
	return slots, nil
}

// FindOverlap ищет первый пересекающийся с существующими кандидат.
// Любое пересечение отклоняет всю пачку — вставка окна атомарна.
func FindOverlap(existing, candidates []*model.TimeSlot) *model.TimeSlot {
	for _, cand := range candidates {
		for _, slot := range existing {
			if cand.Overlaps(slot) {
				return cand
			}
		}
	}
	return nil
}
