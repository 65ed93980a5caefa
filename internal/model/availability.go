package model

import "time"

// AvailabilityQuery параметры запроса доступности от клиента.
type AvailabilityQuery struct {
	SubjectID      int64  `json:"subject_id"`
	Date           string `json:"date"` // календарный день клиента, "2006-01-02"
	DurationHours  int    `json:"duration_hours"`
	ClientTimezone string `json:"client_timezone"` // IANA
}

// AvailabilityWindow — найденное окно доступности. Один и тот же инстант
// представлен трижды: местным временем учителя, UTC и временем клиента.
type AvailabilityWindow struct {
	TeacherID   int64     `json:"teacher_id"`
	TeacherName string    `json:"teacher_name"`
	SlotIDs     []int64   `json:"slot_ids"`
	LocalDate   string    `json:"local_date"`  // календарный день учителя
	LocalStart  string    `json:"local_start"` // "15:04" в зоне учителя
	LocalEnd    string    `json:"local_end"`
	StartUTC    time.Time `json:"start_utc"`
	EndUTC      time.Time `json:"end_utc"`
	ClientStart string    `json:"client_start"` // "15:04" в зоне клиента
	ClientEnd   string    `json:"client_end"`
}

// Assignment результат успешного подбора учителя.
type Assignment struct {
	Teacher  *Teacher  `json:"teacher"`
	SlotIDs  []int64   `json:"slot_ids"`
	StartsAt time.Time `json:"starts_at"` // UTC
}
