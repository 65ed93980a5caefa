package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

// CreateBatch вставляет все слоты одного окна в одной транзакции.
// Либо вставляется вся пачка, либо ничего.
func (r *SlotRepository) CreateBatch(ctx context.Context, slots []*model.TimeSlot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO time_slots (window_id, teacher_id, weekday, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	for _, slot := range slots {
		err := tx.QueryRow(
			ctx, query,
			slot.WindowID,
			slot.TeacherID,
			slot.Weekday,
			slot.StartMinute,
			slot.EndMinute,
		).Scan(&slot.ID, &slot.CreatedAt)
		if err != nil {
			return fmt.Errorf("create slot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.TimeSlot, error) {
	query := `
		SELECT id, window_id, teacher_id, weekday, start_minute, end_minute, created_at
		FROM time_slots
		WHERE id = $1
	`

	var slot model.TimeSlot
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.WindowID,
		&slot.TeacherID,
		&slot.Weekday,
		&slot.StartMinute,
		&slot.EndMinute,
		&slot.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return &slot, nil
}

// GetByTeacherWeekday получает слоты учителя на день недели,
// упорядоченные по времени начала
func (r *SlotRepository) GetByTeacherWeekday(ctx context.Context, teacherID int64, weekday int) ([]*model.TimeSlot, error) {
	query := `
		SELECT id, window_id, teacher_id, weekday, start_minute, end_minute, created_at
		FROM time_slots
		WHERE teacher_id = $1 AND weekday = $2
		ORDER BY start_minute
	`

	rows, err := r.pool.Query(ctx, query, teacherID, weekday)
	if err != nil {
		return nil, fmt.Errorf("get slots by teacher weekday: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Delete удаляет слот по ID
func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// DeleteByWeekday удаляет все слоты учителя на день недели
func (r *SlotRepository) DeleteByWeekday(ctx context.Context, teacherID int64, weekday int) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM time_slots WHERE teacher_id = $1 AND weekday = $2`,
		teacherID, weekday,
	)
	if err != nil {
		return 0, fmt.Errorf("delete slots by weekday: %w", err)
	}

	return result.RowsAffected(), nil
}

// WeeklyCounts возвращает количество слотов в неделю по каждому учителю.
// Учителя без слотов в карте отсутствуют.
func (r *SlotRepository) WeeklyCounts(ctx context.Context, teacherIDs []int64) (map[int64]int, error) {
	query := `
		SELECT teacher_id, COUNT(*)
		FROM time_slots
		WHERE teacher_id = ANY($1)
		GROUP BY teacher_id
	`

	rows, err := r.pool.Query(ctx, query, teacherIDs)
	if err != nil {
		return nil, fmt.Errorf("count weekly slots: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int, len(teacherIDs))
	for rows.Next() {
		var teacherID int64
		var count int
		if err := rows.Scan(&teacherID, &count); err != nil {
			return nil, fmt.Errorf("scan slot count: %w", err)
		}
		counts[teacherID] = count
	}

	return counts, nil
}

func scanSlots(rows pgx.Rows) ([]*model.TimeSlot, error) {
	var slots []*model.TimeSlot
	for rows.Next() {
		var slot model.TimeSlot
		err := rows.Scan(
			&slot.ID,
			&slot.WindowID,
			&slot.TeacherID,
			&slot.Weekday,
			&slot.StartMinute,
			&slot.EndMinute,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, nil
}
