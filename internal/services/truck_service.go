package services

import (
	"context"
	"errors"
	"fmt"

	"freight-backend/internal/models"
)

// TruckStore is the slice of the record store the truck service needs.
type TruckStore interface {
	Create(ctx context.Context, t *models.Truck) error
	Get(ctx context.Context, id string) (*models.Truck, error)
	GetByTruckNumber(ctx context.Context, truckNumber string) (*models.Truck, error)
	List(ctx context.Context) ([]*models.Truck, error)
	Update(ctx context.Context, t *models.Truck) error
	Delete(ctx context.Context, id string) error
	IncrementClaimCount(ctx context.Context, id string) error
}

type TruckService struct {
	Repo TruckStore
}

func NewTruckService(repo TruckStore) *TruckService {
	return &TruckService{Repo: repo}
}

// Reconcile resolves a free-text truck number to a truck row, creating a
// placeholder row the first time an unknown number appears. An empty
// number means no truck association. Concurrent requests racing on the
// same unknown number are resolved by the store's uniqueness constraint:
// the losing insert re-fetches instead of failing.
func (s *TruckService) Reconcile(ctx context.Context, truckNumber string) (*models.Truck, error) {
	if truckNumber == "" {
		return nil, nil
	}

	truck, err := s.Repo.GetByTruckNumber(ctx, truckNumber)
	if err == nil {
		return truck, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	truck = models.NewPlaceholderTruck(truckNumber)
	if err := s.Repo.Create(ctx, truck); err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Lost the race: another request created it first
			return s.Repo.GetByTruckNumber(ctx, truckNumber)
		}
		return nil, err
	}
	return truck, nil
}

// CreateTruck creates a truck through the management surface.
func (s *TruckService) CreateTruck(ctx context.Context, req *models.CreateTruckRequest) (*models.Truck, error) {
	if req.TruckNumber == "" {
		return nil, errors.New("truck number is required")
	}

	if _, err := s.Repo.GetByTruckNumber(ctx, req.TruckNumber); err == nil {
		return nil, fmt.Errorf("truck with this number already exists: %w", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	truck := &models.Truck{
		TruckNumber:         req.TruckNumber,
		OwnerName:           req.OwnerName,
		OwnerContactNumber:  req.OwnerContactNumber,
		DriverName:          req.DriverName,
		DriverContactNumber: req.DriverContactNumber,
		OfficeAddress:       req.OfficeAddress,
		Route:               req.Route,
		Permit:              req.Permit,
		Licence:             req.Licence,
		Challan:             req.Challan,
	}
	if err := s.Repo.Create(ctx, truck); err != nil {
		return nil, err
	}
	return truck, nil
}

func (s *TruckService) GetTruck(ctx context.Context, id string) (*models.Truck, error) {
	return s.Repo.Get(ctx, id)
}

func (s *TruckService) ListTrucks(ctx context.Context) ([]*models.Truck, error) {
	return s.Repo.List(ctx)
}

// UpdateTruck applies partial changes; a truck number change re-checks
// uniqueness against the other rows.
func (s *TruckService) UpdateTruck(ctx context.Context, id string, req *models.UpdateTruckRequest) (*models.Truck, error) {
	truck, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TruckNumber != nil && *req.TruckNumber != truck.TruckNumber {
		if _, err := s.Repo.GetByTruckNumber(ctx, *req.TruckNumber); err == nil {
			return nil, fmt.Errorf("truck with this number already exists: %w", models.ErrConflict)
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		truck.TruckNumber = *req.TruckNumber
	}
	if req.OwnerName != nil {
		truck.OwnerName = *req.OwnerName
	}
	if req.OwnerContactNumber != nil {
		truck.OwnerContactNumber = *req.OwnerContactNumber
	}
	if req.DriverName != nil {
		truck.DriverName = *req.DriverName
	}
	if req.DriverContactNumber != nil {
		truck.DriverContactNumber = *req.DriverContactNumber
	}
	if req.OfficeAddress != nil {
		truck.OfficeAddress = req.OfficeAddress
	}
	if req.Route != nil {
		truck.Route = req.Route
	}
	if req.Permit != nil {
		truck.Permit = req.Permit
	}
	if req.Licence != nil {
		truck.Licence = req.Licence
	}
	if req.Challan != nil {
		truck.Challan = req.Challan
	}

	if err := s.Repo.Update(ctx, truck); err != nil {
		return nil, err
	}
	return truck, nil
}

func (s *TruckService) DeleteTruck(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// IncrementClaimCount bumps a truck's claim counter by one (relative
// increment, safe under concurrent claims).
func (s *TruckService) IncrementClaimCount(ctx context.Context, id string) error {
	return s.Repo.IncrementClaimCount(ctx, id)
}
