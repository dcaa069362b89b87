package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freight-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = "operator" // Default role
	}
	u.ID = uuid.New().String()
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(id, name, mobile_number, secondary_mobile_number, state, password_hash, role)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		u.ID, u.Name, u.MobileNumber, u.SecondaryMobileNumber, u.State, u.PasswordHash, u.Role,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("mobile number %s: %w", u.MobileNumber, models.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, mobile_number, secondary_mobile_number, state, password_hash, role, created_at, updated_at
		 FROM users WHERE id=$1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByMobileNumber(ctx context.Context, mobileNumber string) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, mobile_number, secondary_mobile_number, state, password_hash, role, created_at, updated_at
		 FROM users WHERE mobile_number=$1`, mobileNumber)
	return scanUser(row)
}

// List returns all users, newest first
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, mobile_number, secondary_mobile_number, state, password_hash, role, created_at, updated_at
		 FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.MobileNumber, &u.SecondaryMobileNumber,
		&u.State, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
