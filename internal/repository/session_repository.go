package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, teacher_id, student_id, subject_id, start_datetime, duration_hours, slot_ids, status, created_at, updated_at`

// CreateWithSlots создаёт занятие вместе с claim-строками занятых слотов в
// одной транзакции. Первичный ключ (slot_id, teaching_day) в базе закрывает
// гонку "проверили-потом-записали": из двух конкурирующих броней одна
// получит нарушение уникальности, которое возвращается как model.ErrSlotTaken.
func (r *SessionRepository) CreateWithSlots(ctx context.Context, session *model.BookedSession, teachingDay string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO booked_sessions (teacher_id, student_id, subject_id, start_datetime, duration_hours, slot_ids, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(
		ctx, query,
		session.TeacherID,
		session.StudentID,
		session.SubjectID,
		session.StartDatetime,
		session.DurationHours,
		session.SlotIDs,
		session.Status,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	claimQuery := `
		INSERT INTO booked_session_slots (slot_id, teaching_day, session_id)
		VALUES ($1, $2::date, $3)
	`

	for _, slotID := range session.SlotIDs {
		if _, err := tx.Exec(ctx, claimQuery, slotID, teachingDay, session.ID); err != nil {
			if base.IsUniqueViolation(err) {
				return model.ErrSlotTaken
			}
			return fmt.Errorf("claim session slot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID получает занятие по ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.BookedSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM booked_sessions WHERE id = $1`

	session, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return session, nil
}

// GetScheduledInRange получает запланированные занятия учителя, начинающиеся
// в UTC-диапазоне [from, to). Диапазон обязателен: идентификаторы
// слотов-шаблонов повторяются каждую неделю, без него проверка конфликтов
// давала бы ложные срабатывания между разными неделями.
func (r *SessionRepository) GetScheduledInRange(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.BookedSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM booked_sessions
		WHERE teacher_id = $1
		  AND status = 'scheduled'
		  AND start_datetime >= $2
		  AND start_datetime < $3
		ORDER BY start_datetime
	`

	rows, err := r.pool.Query(ctx, query, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get scheduled sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.BookedSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// CountScheduled возвращает количество запланированных занятий по учителям
func (r *SessionRepository) CountScheduled(ctx context.Context, teacherIDs []int64) (map[int64]int, error) {
	query := `
		SELECT teacher_id, COUNT(*)
		FROM booked_sessions
		WHERE teacher_id = ANY($1) AND status = 'scheduled'
		GROUP BY teacher_id
	`

	rows, err := r.pool.Query(ctx, query, teacherIDs)
	if err != nil {
		return nil, fmt.Errorf("count scheduled sessions: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int, len(teacherIDs))
	for rows.Next() {
		var teacherID int64
		var count int
		if err := rows.Scan(&teacherID, &count); err != nil {
			return nil, fmt.Errorf("scan session count: %w", err)
		}
		counts[teacherID] = count
	}

	return counts, nil
}

// Cancel отменяет занятие и освобождает его claim-строки: день снова
// доступен для бронирования, сама запись занятия остаётся.
func (r *SessionRepository) Cancel(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE booked_sessions SET status = 'cancelled', updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("cancel session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM booked_session_slots WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("release session slots: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// FirstSlotInUse возвращает первый из слотов, занятый активным
// запланированным занятием, либо 0 если все свободны
func (r *SessionRepository) FirstSlotInUse(ctx context.Context, slotIDs []int64) (int64, error) {
	query := `
		SELECT ss.slot_id
		FROM booked_session_slots ss
		JOIN booked_sessions s ON s.id = ss.session_id
		WHERE ss.slot_id = ANY($1) AND s.status = 'scheduled'
		ORDER BY ss.slot_id
		LIMIT 1
	`

	var slotID int64
	err := r.pool.QueryRow(ctx, query, slotIDs).Scan(&slotID)
	if err != nil {
		if base.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("check slots in use: %w", err)
	}

	return slotID, nil
}

// CompletePast переводит в completed запланированные занятия, время которых
// полностью прошло
func (r *SessionRepository) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE booked_sessions
		SET status = 'completed', updated_at = now()
		WHERE status = 'scheduled'
		  AND start_datetime + duration_hours * interval '1 hour' <= $1
	`

	result, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("complete past sessions: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanSession(row pgx.Row) (*model.BookedSession, error) {
	var session model.BookedSession
	err := row.Scan(
		&session.ID,
		&session.TeacherID,
		&session.StudentID,
		&session.SubjectID,
		&session.StartDatetime,
		&session.DurationHours,
		&session.SlotIDs,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &session, nil
}
