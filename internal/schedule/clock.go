package schedule

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
)

// Гражданское (civil) время слотов хранится как минуты от местной полуночи
// учителя. Все функции конвертации между инстантами и civil-временем собраны
// здесь; сравнивать civil-времена разных учителей напрямую нельзя — у каждого
// своя зона.

const minutesPerDay = 24 * 60

// ParseClock разбирает время "HH:MM" в минуты от полуночи.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		// в базе время может быть с секундами
		t, err = time.Parse("15:04:05", s)
	}
	if err != nil {
		return 0, &model.ValidationError{Field: "time", Reason: fmt.Sprintf("malformed time %q, expected HH:MM", s)}
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock форматирует минуты от полуночи как "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// LoadZone загружает IANA-зону, оборачивая ошибку в ValidationError.
func LoadZone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &model.ValidationError{Field: "timezone", Reason: fmt.Sprintf("unknown timezone %q", name)}
	}
	return loc, nil
}

// LocalClock раскладывает инстант на день недели и минуты от полуночи
// в указанной зоне. Один инстант у учителей в разных зонах может давать
// разные дни недели.
func LocalClock(t time.Time, loc *time.Location) (weekday int, minute int) {
	local := t.In(loc)
	return int(local.Weekday()), local.Hour()*60 + local.Minute()
}

// DayBounds возвращает UTC-границы местного календарного дня, содержащего t.
// Проверки конфликтов всегда ограничиваются этим диапазоном: идентификаторы
// слотов-шаблонов повторяются каждую неделю.
func DayBounds(t time.Time, loc *time.Location) (from, to time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// LocalDate календарная дата инстанта в указанной зоне.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// InstantOn возвращает абсолютный инстант, соответствующий minute минутам
// от полуночи того местного дня, на который попадает t в зоне loc.
func InstantOn(t time.Time, loc *time.Location, minute int) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), minute/60, minute%60, 0, 0, loc).UTC()
}

// ParseDate разбирает календарную дату "2006-01-02" в полночь указанной зоны.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, &model.ValidationError{Field: "date", Reason: fmt.Sprintf("malformed date %q, expected YYYY-MM-DD", date)}
	}
	return t, nil
}
