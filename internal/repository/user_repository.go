package repository

import (
	"context"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles account data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new account. Returns ErrDuplicate when the roll
// number or email is already registered.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, role, roll_number, email, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		u.Name, u.Role, u.RollNumber, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return translate(err)
}

// GetByID retrieves an account by its UUID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, role, roll_number, email, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Role, &u.RollNumber, &u.Email, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// GetByIdentifier retrieves an account by roll number or email. Login
// accepts either, so both columns are checked with one query.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, role, roll_number, email, password_hash, created_at, updated_at
		 FROM users WHERE roll_number = $1 OR email = $1`, identifier,
	).Scan(&u.ID, &u.Name, &u.Role, &u.RollNumber, &u.Email, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// ListStudents retrieves all student accounts ordered by roll number.
func (r *UserRepository) ListStudents(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, role, roll_number, email, password_hash, created_at, updated_at
		 FROM users WHERE role = $1 ORDER BY roll_number ASC`, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.RollNumber, &u.Email,
			&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfile updates an account's name and email.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET name = $1, email = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING id, name, role, roll_number, email, password_hash, created_at, updated_at`,
		name, email, id,
	).Scan(&u.ID, &u.Name, &u.Role, &u.RollNumber, &u.Email, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// DeleteStudent removes a student account. Admin accounts cannot be
// deleted through this path.
func (r *UserRepository) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM users WHERE id = $1 AND role = $2`, id, model.RoleStudent)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
