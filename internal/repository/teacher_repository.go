package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TeacherRepository читает справочник учителей и связи учитель-предмет.
// Записи в эти таблицы владеет каталог-сервис, ядро расписания их
// только читает.
type TeacherRepository struct {
	pool *pgxpool.Pool
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

// GetByID получает учителя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	query := `
		SELECT id, display_name, timezone, fallback, created_at
		FROM teachers
		WHERE id = $1
	`

	var teacher model.Teacher
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.DisplayName,
		&teacher.Timezone,
		&teacher.Fallback,
		&teacher.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return &teacher, nil
}

// GetBySubject получает пул учителей, ведущих предмет. Порядок фиксирован
// (по id): на него опирается tie-break при равных кандидатах.
func (r *TeacherRepository) GetBySubject(ctx context.Context, subjectID int64) ([]*model.Teacher, error) {
	query := `
		SELECT t.id, t.display_name, t.timezone, t.fallback, t.created_at
		FROM teachers t
		JOIN teacher_subjects ts ON ts.teacher_id = t.id
		WHERE ts.subject_id = $1
		ORDER BY t.id
	`

	rows, err := r.pool.Query(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get teachers by subject: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		var teacher model.Teacher
		err := rows.Scan(
			&teacher.ID,
			&teacher.DisplayName,
			&teacher.Timezone,
			&teacher.Fallback,
			&teacher.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, &teacher)
	}

	return teachers, nil
}
