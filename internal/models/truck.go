package models

import "time"

// Truck represents a vehicle that carries invoiced goods.
// Trucks are created explicitly through the truck management endpoints,
// or implicitly with placeholder owner/driver details the first time an
// invoice references an unknown truck number.
type Truck struct {
	ID                  string    `json:"id"`
	TruckNumber         string    `json:"truck_number"`
	OwnerName           string    `json:"owner_name"`
	OwnerContactNumber  string    `json:"owner_contact_number"`
	DriverName          string    `json:"driver_name"`
	DriverContactNumber string    `json:"driver_contact_number"`
	ClaimCount          int       `json:"claim_count"`
	OfficeAddress       []string  `json:"office_address,omitempty"`
	Route               []string  `json:"route,omitempty"`
	Permit              *string   `json:"permit"`
	Licence             *string   `json:"licence"`
	Challan             *string   `json:"challan"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Placeholder values used when a truck is auto-created from an invoice's
// truck number. Expected to be corrected later through truck management.
const (
	PlaceholderOwnerName     = "Unknown"
	PlaceholderContactNumber = "0000000000"
)

// NewPlaceholderTruck builds the minimal truck row for an unknown number.
func NewPlaceholderTruck(truckNumber string) *Truck {
	return &Truck{
		TruckNumber:         truckNumber,
		OwnerName:           PlaceholderOwnerName,
		OwnerContactNumber:  PlaceholderContactNumber,
		DriverName:          PlaceholderOwnerName,
		DriverContactNumber: PlaceholderContactNumber,
	}
}

// CreateTruckRequest is the request body for explicit truck creation.
type CreateTruckRequest struct {
	TruckNumber         string   `json:"truck_number"`
	OwnerName           string   `json:"owner_name"`
	OwnerContactNumber  string   `json:"owner_contact_number"`
	DriverName          string   `json:"driver_name"`
	DriverContactNumber string   `json:"driver_contact_number"`
	OfficeAddress       []string `json:"office_address"`
	Route               []string `json:"route"`
	Permit              *string  `json:"permit"`
	Licence             *string  `json:"licence"`
	Challan             *string  `json:"challan"`
}

// UpdateTruckRequest carries partial truck updates; nil fields are kept.
type UpdateTruckRequest struct {
	TruckNumber         *string  `json:"truck_number"`
	OwnerName           *string  `json:"owner_name"`
	OwnerContactNumber  *string  `json:"owner_contact_number"`
	DriverName          *string  `json:"driver_name"`
	DriverContactNumber *string  `json:"driver_contact_number"`
	OfficeAddress       []string `json:"office_address"`
	Route               []string `json:"route"`
	Permit              *string  `json:"permit"`
	Licence             *string  `json:"licence"`
	Challan             *string  `json:"challan"`
}
