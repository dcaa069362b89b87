package models

import "time"

// Invoice represents a freight invoice with its attached weighment slip
// evidence and the generated PDF document location.
type Invoice struct {
	ID                string       `json:"id"`
	InvoiceNumber     string       `json:"invoice_number"`
	InvoiceDate       time.Time    `json:"invoice_date"`
	Terms             *string      `json:"terms"`
	SupplierName      string       `json:"supplier_name"`
	SupplierAddress   []string     `json:"supplier_address"`
	PlaceOfSupply     string       `json:"place_of_supply"`
	BillToName        string       `json:"bill_to_name"`
	BillToAddress     []string     `json:"bill_to_address"`
	ShipToName        string       `json:"ship_to_name"`
	ShipToAddress     []string     `json:"ship_to_address"`
	ProductName       ProductNames `json:"product_name"`
	HSNCode           *string      `json:"hsn_code"`
	Quantity          float64      `json:"quantity"`
	Rate              float64      `json:"rate"`
	Amount            float64      `json:"amount"`
	TruckID           *string      `json:"truck_id"`
	Truck             *Truck       `json:"truck,omitempty"`
	VehicleNumber     *string      `json:"vehicle_number"`
	WeighmentSlipNote *string      `json:"weighment_slip_note"`
	WeighmentSlipURLs []string     `json:"weighment_slip_urls"`
	IsClaim           bool         `json:"is_claim"`
	ClaimDetails      *string      `json:"claim_details"`
	PDFURL            *string      `json:"pdf_url"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// EvidenceFile is a user-supplied weighment slip image buffer pending
// upload to object storage.
type EvidenceFile struct {
	Filename string
	Data     []byte
}

// CreateInvoiceRequest is the request body for invoice creation. Evidence
// files travel alongside it as multipart file parts.
type CreateInvoiceRequest struct {
	InvoiceNumber     string       `json:"invoice_number"`
	InvoiceDate       string       `json:"invoice_date"` // YYYY-MM-DD
	Terms             *string      `json:"terms"`
	SupplierName      string       `json:"supplier_name"`
	SupplierAddress   []string     `json:"supplier_address"`
	PlaceOfSupply     string       `json:"place_of_supply"`
	BillToName        string       `json:"bill_to_name"`
	BillToAddress     []string     `json:"bill_to_address"`
	ShipToName        string       `json:"ship_to_name"`
	ShipToAddress     []string     `json:"ship_to_address"`
	ProductName       ProductNames `json:"product_name"`
	HSNCode           *string      `json:"hsn_code"`
	Quantity          float64      `json:"quantity"`
	Rate              float64      `json:"rate"`
	Amount            float64      `json:"amount"`
	TruckNumber       string       `json:"truck_number"`
	VehicleNumber     *string      `json:"vehicle_number"`
	WeighmentSlipNote *string      `json:"weighment_slip_note"`
	IsClaim           bool         `json:"is_claim"`
	ClaimDetails      *string      `json:"claim_details"`
}

// UpdateInvoiceRequest carries partial invoice updates; nil fields keep
// the stored value. New evidence files are appended, never replacing the
// existing weighment slip URLs.
type UpdateInvoiceRequest struct {
	InvoiceNumber     *string      `json:"invoice_number"`
	InvoiceDate       *string      `json:"invoice_date"`
	Terms             *string      `json:"terms"`
	SupplierName      *string      `json:"supplier_name"`
	SupplierAddress   []string     `json:"supplier_address"`
	PlaceOfSupply     *string      `json:"place_of_supply"`
	BillToName        *string      `json:"bill_to_name"`
	BillToAddress     []string     `json:"bill_to_address"`
	ShipToName        *string      `json:"ship_to_name"`
	ShipToAddress     []string     `json:"ship_to_address"`
	ProductName       ProductNames `json:"product_name"`
	HSNCode           *string      `json:"hsn_code"`
	Quantity          *float64     `json:"quantity"`
	Rate              *float64     `json:"rate"`
	Amount            *float64     `json:"amount"`
	TruckNumber       string       `json:"truck_number"`
	VehicleNumber     *string      `json:"vehicle_number"`
	WeighmentSlipNote *string      `json:"weighment_slip_note"`
	IsClaim           *bool        `json:"is_claim"`
	ClaimDetails      *string      `json:"claim_details"`
}
