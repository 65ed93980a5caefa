package model

import "time"

// Teacher — профиль учителя в объёме, нужном подбору: часовой пояс для
// конвертации времён и флаг fallback для приоритета в скоринге.
type Teacher struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	Timezone    string    `json:"timezone"` // IANA, например "Europe/Madrid"
	Fallback    bool      `json:"fallback"` // дежурный учитель, выбирается первым
	CreatedAt   time.Time `json:"created_at"`
}

// TeacherSubjectLink связь учитель-предмет, определяет пул кандидатов.
type TeacherSubjectLink struct {
	TeacherID int64 `json:"teacher_id"`
	SubjectID int64 `json:"subject_id"`
}
