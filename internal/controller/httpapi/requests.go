package httpapi

import "time"

// DTO запросов. Weekday — указатель: 0 (воскресенье) — валидное значение,
// через required без указателя оно бы отклонялось.

type createWindowRequest struct {
	Weekday   *int   `json:"weekday" validate:"required,min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type assignRequest struct {
	SubjectID     int64     `json:"subject_id" validate:"required,gt=0"`
	StudentID     int64     `json:"student_id" validate:"required,gt=0"`
	DesiredTime   time.Time `json:"desired_time" validate:"required"`
	DurationHours int       `json:"duration_hours" validate:"required,min=1,max=12"`
}

type availabilityRequest struct {
	SubjectID     int64  `query:"subject_id" validate:"required,gt=0"`
	Date          string `query:"date" validate:"required"`
	DurationHours int    `query:"duration_hours" validate:"required,min=1,max=12"`
	Timezone      string `query:"timezone" validate:"required"`
}

type cancelSessionRequest struct {
	TeacherID int64 `json:"teacher_id" validate:"required,gt=0"`
}
