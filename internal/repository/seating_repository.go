package repository

import (
	"context"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeatingRepository handles seating-plan data access. Exactly one plan
// exists at a time; saving a new one replaces whatever is stored.
type SeatingRepository struct {
	pool *pgxpool.Pool
}

// NewSeatingRepository creates a new SeatingRepository.
func NewSeatingRepository(pool *pgxpool.Pool) *SeatingRepository {
	return &SeatingRepository{pool: pool}
}

// Save replaces the stored seating plan with the given one.
func (r *SeatingRepository) Save(ctx context.Context, p *model.SeatingPlan) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM seating_plans`); err != nil {
		return err
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO seating_plans (room_number, total_benches, students_per_bench, arrangement, updated_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, updated_at`,
		p.RoomNumber, p.TotalBenches, p.StudentsPerBench, p.Arrangement, p.UpdatedBy,
	).Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Get retrieves the current seating plan.
func (r *SeatingRepository) Get(ctx context.Context) (*model.SeatingPlan, error) {
	p := &model.SeatingPlan{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, room_number, total_benches, students_per_bench, arrangement, updated_by, updated_at
		 FROM seating_plans ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&p.ID, &p.RoomNumber, &p.TotalBenches, &p.StudentsPerBench,
		&p.Arrangement, &p.UpdatedBy, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}
