package schedule

import (
	"sort"

	"github.com/Freeeeeet/tutor_market/internal/model"
)

// Candidate — учитель-кандидат с собранными для ранжирования фактами.
type Candidate struct {
	Teacher         *model.Teacher
	SlotIDs         []int64 // найденный непрерывный набор слотов
	HasAvailability bool    // матч найден и конфликтов нет
	ScheduledLoad   int     // запланированных занятий
	WeeklySlots     int     // всего слотов в неделю (гибкость расписания)
}

// Less — явный многоключевой компаратор вместо свёртки в один числовой
// score. Порядок ключей:
//  1. доступность (недоступные всегда позади);
//  2. fallback-учителя раньше обычных;
//  3. меньшая текущая загрузка;
//  4. большее недельное расписание (гибче — раньше);
//  5. иначе кандидаты равны — стабильная сортировка сохраняет входной
//     порядок, и это контракт, на него можно опираться.
func Less(a, b *Candidate) bool {
	if a.HasAvailability != b.HasAvailability {
		return a.HasAvailability
	}
	if a.Teacher.Fallback != b.Teacher.Fallback {
		return a.Teacher.Fallback
	}
	if a.ScheduledLoad != b.ScheduledLoad {
		return a.ScheduledLoad < b.ScheduledLoad
	}
	if a.WeeklySlots != b.WeeklySlots {
		return a.WeeklySlots > b.WeeklySlots
	}
	return false
}

// Rank сортирует кандидатов по компаратору, сохраняя входной порядок
// для равных.
func Rank(candidates []*Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return Less(candidates[i], candidates[j])
	})
}

// Pick возвращает лучшего доступного кандидата или nil.
func Pick(candidates []*Candidate) *Candidate {
	for _, c := range candidates {
		if c.HasAvailability {
			return c
		}
	}
	return nil
}
