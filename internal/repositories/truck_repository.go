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

type TruckRepository struct {
	DB *pgxpool.Pool
}

func NewTruckRepository(db *pgxpool.Pool) *TruckRepository {
	return &TruckRepository{DB: db}
}

const truckColumns = `id, truck_number, owner_name, owner_contact_number, driver_name,
	driver_contact_number, claim_count, COALESCE(office_address, '{}'), COALESCE(route, '{}'),
	permit, licence, challan, created_at, updated_at`

func scanTruck(row pgx.Row) (*models.Truck, error) {
	var t models.Truck
	err := row.Scan(&t.ID, &t.TruckNumber, &t.OwnerName, &t.OwnerContactNumber,
		&t.DriverName, &t.DriverContactNumber, &t.ClaimCount, &t.OfficeAddress, &t.Route,
		&t.Permit, &t.Licence, &t.Challan, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a new truck. A duplicate truck number surfaces as
// models.ErrConflict so callers can re-fetch instead of failing.
func (r *TruckRepository) Create(ctx context.Context, t *models.Truck) error {
	t.ID = uuid.New().String()
	err := r.DB.QueryRow(ctx,
		`INSERT INTO trucks(id, truck_number, owner_name, owner_contact_number, driver_name,
		        driver_contact_number, office_address, route, permit, licence, challan)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING claim_count, created_at, updated_at`,
		t.ID, t.TruckNumber, t.OwnerName, t.OwnerContactNumber, t.DriverName,
		t.DriverContactNumber, t.OfficeAddress, t.Route, t.Permit, t.Licence, t.Challan,
	).Scan(&t.ClaimCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("truck number %s: %w", t.TruckNumber, models.ErrConflict)
		}
		return err
	}
	return nil
}

// Get retrieves a truck by ID
func (r *TruckRepository) Get(ctx context.Context, id string) (*models.Truck, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+truckColumns+` FROM trucks WHERE id = $1`, id)
	return scanTruck(row)
}

// GetByTruckNumber retrieves a truck by its business key
func (r *TruckRepository) GetByTruckNumber(ctx context.Context, truckNumber string) (*models.Truck, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+truckColumns+` FROM trucks WHERE truck_number = $1`, truckNumber)
	return scanTruck(row)
}

// List returns all trucks, newest first
func (r *TruckRepository) List(ctx context.Context) ([]*models.Truck, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+truckColumns+` FROM trucks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trucks []*models.Truck
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, t)
	}
	return trucks, rows.Err()
}

// Update updates an existing truck
func (r *TruckRepository) Update(ctx context.Context, t *models.Truck) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE trucks SET truck_number=$1, owner_name=$2, owner_contact_number=$3,
		        driver_name=$4, driver_contact_number=$5, office_address=$6, route=$7,
		        permit=$8, licence=$9, challan=$10, updated_at=CURRENT_TIMESTAMP
		 WHERE id=$11
		 RETURNING updated_at`,
		t.TruckNumber, t.OwnerName, t.OwnerContactNumber, t.DriverName,
		t.DriverContactNumber, t.OfficeAddress, t.Route, t.Permit, t.Licence, t.Challan, t.ID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("truck number %s: %w", t.TruckNumber, models.ErrConflict)
		}
		return err
	}
	return nil
}

// Delete removes a truck; invoices referencing it keep a NULL truck_id
func (r *TruckRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM trucks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// IncrementClaimCount applies a relative increment so concurrent claims on
// the same truck never lose updates to a read-modify-write race.
func (r *TruckRepository) IncrementClaimCount(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE trucks SET claim_count = claim_count + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
