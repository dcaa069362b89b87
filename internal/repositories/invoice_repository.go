package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freight-backend/internal/models"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceSelect = `SELECT i.id, i.invoice_number, i.invoice_date, i.terms, i.supplier_name,
	        i.supplier_address, i.place_of_supply, i.bill_to_name, i.bill_to_address,
	        i.ship_to_name, i.ship_to_address, i.product_name, i.hsn_code, i.quantity,
	        i.rate, i.amount, i.truck_id, i.vehicle_number, i.weighment_slip_note,
	        COALESCE(i.weighment_slip_urls, '{}'), i.is_claim, i.claim_details, i.pdf_url,
	        i.created_at, i.updated_at,
	        t.id, t.truck_number, t.owner_name, t.owner_contact_number, t.driver_name,
	        t.driver_contact_number, t.claim_count, t.created_at, t.updated_at
	 FROM invoices i
	 LEFT JOIN trucks t ON i.truck_id = t.id`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	var productName string
	var (
		truckID, truckNumber, ownerName, ownerContact, driverName, driverContact *string
		claimCount                                                               *int
		truckCreatedAt, truckUpdatedAt                                           *time.Time
	)

	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.Terms, &inv.SupplierName,
		&inv.SupplierAddress, &inv.PlaceOfSupply, &inv.BillToName, &inv.BillToAddress,
		&inv.ShipToName, &inv.ShipToAddress, &productName, &inv.HSNCode, &inv.Quantity,
		&inv.Rate, &inv.Amount, &inv.TruckID, &inv.VehicleNumber, &inv.WeighmentSlipNote,
		&inv.WeighmentSlipURLs, &inv.IsClaim, &inv.ClaimDetails, &inv.PDFURL,
		&inv.CreatedAt, &inv.UpdatedAt,
		&truckID, &truckNumber, &ownerName, &ownerContact, &driverName,
		&driverContact, &claimCount, &truckCreatedAt, &truckUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	inv.ProductName = models.ParseProductNames(productName)
	if truckID != nil {
		inv.Truck = &models.Truck{
			ID:                  *truckID,
			TruckNumber:         *truckNumber,
			OwnerName:           *ownerName,
			OwnerContactNumber:  *ownerContact,
			DriverName:          *driverName,
			DriverContactNumber: *driverContact,
			ClaimCount:          *claimCount,
			CreatedAt:           *truckCreatedAt,
			UpdatedAt:           *truckUpdatedAt,
		}
	}
	return &inv, nil
}

// Create persists a new invoice. A duplicate invoice number surfaces as
// models.ErrConflict; the caller pre-checks, this closes the race.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	inv.ID = uuid.New().String()
	err := r.DB.QueryRow(ctx,
		`INSERT INTO invoices(id, invoice_number, invoice_date, terms, supplier_name,
		        supplier_address, place_of_supply, bill_to_name, bill_to_address,
		        ship_to_name, ship_to_address, product_name, hsn_code, quantity, rate,
		        amount, truck_id, vehicle_number, weighment_slip_note, weighment_slip_urls,
		        is_claim, claim_details)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22)
		 RETURNING created_at, updated_at`,
		inv.ID, inv.InvoiceNumber, inv.InvoiceDate, inv.Terms, inv.SupplierName,
		inv.SupplierAddress, inv.PlaceOfSupply, inv.BillToName, inv.BillToAddress,
		inv.ShipToName, inv.ShipToAddress, inv.ProductName.Encode(), inv.HSNCode,
		inv.Quantity, inv.Rate, inv.Amount, inv.TruckID, inv.VehicleNumber,
		inv.WeighmentSlipNote, inv.WeighmentSlipURLs, inv.IsClaim, inv.ClaimDetails,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, models.ErrConflict)
		}
		return err
	}
	return nil
}

// Get retrieves an invoice by ID with its truck eagerly included
func (r *InvoiceRepository) Get(ctx context.Context, id string) (*models.Invoice, error) {
	row := r.DB.QueryRow(ctx, invoiceSelect+` WHERE i.id = $1`, id)
	return scanInvoice(row)
}

// GetByInvoiceNumber retrieves an invoice by its business key
func (r *InvoiceRepository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	row := r.DB.QueryRow(ctx, invoiceSelect+` WHERE i.invoice_number = $1`, invoiceNumber)
	return scanInvoice(row)
}

// List returns all invoices, newest first, trucks included
func (r *InvoiceRepository) List(ctx context.Context) ([]*models.Invoice, error) {
	rows, err := r.DB.Query(ctx, invoiceSelect+` ORDER BY i.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Update persists changed invoice fields. The pdf_url column is excluded:
// it belongs to the document worker (see UpdatePDFURL).
func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE invoices SET invoice_number=$1, invoice_date=$2, terms=$3, supplier_name=$4,
		        supplier_address=$5, place_of_supply=$6, bill_to_name=$7, bill_to_address=$8,
		        ship_to_name=$9, ship_to_address=$10, product_name=$11, hsn_code=$12,
		        quantity=$13, rate=$14, amount=$15, truck_id=$16, vehicle_number=$17,
		        weighment_slip_note=$18, weighment_slip_urls=$19, is_claim=$20,
		        claim_details=$21, updated_at=CURRENT_TIMESTAMP
		 WHERE id=$22
		 RETURNING updated_at`,
		inv.InvoiceNumber, inv.InvoiceDate, inv.Terms, inv.SupplierName,
		inv.SupplierAddress, inv.PlaceOfSupply, inv.BillToName, inv.BillToAddress,
		inv.ShipToName, inv.ShipToAddress, inv.ProductName.Encode(), inv.HSNCode,
		inv.Quantity, inv.Rate, inv.Amount, inv.TruckID, inv.VehicleNumber,
		inv.WeighmentSlipNote, inv.WeighmentSlipURLs, inv.IsClaim, inv.ClaimDetails, inv.ID,
	).Scan(&inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, models.ErrConflict)
		}
		return err
	}
	return nil
}

// UpdatePDFURL patches only the generated document URL. The worker is the
// sole writer of this column; a full-row overwrite here could revert
// request-path updates that landed while the render was running.
func (r *InvoiceRepository) UpdatePDFURL(ctx context.Context, id, pdfURL string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET pdf_url = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		pdfURL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an invoice (hard delete)
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
