package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"freight-backend/internal/models"
	"freight-backend/internal/queue"
	"freight-backend/internal/storage"
	"freight-backend/internal/timeutil"
)

// Folder names in object storage
const (
	weighmentSlipFolder = "weighment-slips"
)

// InvoiceStore is the slice of the record store the orchestrator needs.
type InvoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice) error
	Get(ctx context.Context, id string) (*models.Invoice, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error)
	List(ctx context.Context) ([]*models.Invoice, error)
	Update(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, id string) error
}

// InvoiceService orchestrates the invoice write path: truck
// reconciliation, evidence upload, persistence, and the asynchronous
// hand-off to document generation. Everything before the enqueue is
// synchronous on the request path; the enqueue never waits on the worker.
type InvoiceService struct {
	Repo     InvoiceStore
	Trucks   *TruckService
	Uploader storage.Uploader
	Queue    queue.Enqueuer
}

func NewInvoiceService(repo InvoiceStore, trucks *TruckService, uploader storage.Uploader, q queue.Enqueuer) *InvoiceService {
	return &InvoiceService{Repo: repo, Trucks: trucks, Uploader: uploader, Queue: q}
}

// CreateInvoice runs the create path: uniqueness pre-check, truck
// reconciliation, evidence upload, persist, enqueue, claim count.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *models.CreateInvoiceRequest, files []models.EvidenceFile) (*models.Invoice, error) {
	// Reject duplicates before any side effect. The store's unique
	// constraint still backstops the check/insert race.
	if _, err := s.Repo.GetByInvoiceNumber(ctx, req.InvoiceNumber); err == nil {
		return nil, fmt.Errorf("invoice with this number already exists: %w", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	invoiceDate, err := parseInvoiceDate(req.InvoiceDate)
	if err != nil {
		return nil, err
	}

	truck, err := s.Trucks.Reconcile(ctx, req.TruckNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile truck: %w", err)
	}

	var slipURLs []string
	if len(files) > 0 {
		slipURLs, err = s.Uploader.UploadAll(ctx, files, weighmentSlipFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload weighment slips: %w", err)
		}
	}

	inv := &models.Invoice{
		InvoiceNumber:     req.InvoiceNumber,
		InvoiceDate:       invoiceDate,
		Terms:             req.Terms,
		SupplierName:      req.SupplierName,
		SupplierAddress:   req.SupplierAddress,
		PlaceOfSupply:     req.PlaceOfSupply,
		BillToName:        req.BillToName,
		BillToAddress:     req.BillToAddress,
		ShipToName:        req.ShipToName,
		ShipToAddress:     req.ShipToAddress,
		ProductName:       req.ProductName,
		HSNCode:           req.HSNCode,
		Quantity:          req.Quantity,
		Rate:              req.Rate,
		Amount:            req.Amount,
		VehicleNumber:     req.VehicleNumber,
		WeighmentSlipNote: req.WeighmentSlipNote,
		WeighmentSlipURLs: slipURLs,
		IsClaim:           req.IsClaim,
		ClaimDetails:      req.ClaimDetails,
	}
	if truck != nil {
		inv.TruckID = &truck.ID
		inv.Truck = truck
	}

	if err := s.Repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.enqueueGeneration(ctx, inv.ID)

	if inv.IsClaim && truck != nil {
		if err := s.Trucks.IncrementClaimCount(ctx, truck.ID); err != nil {
			log.Printf("[Invoice] failed to increment claim count for truck %s: %v", truck.ID, err)
		}
	}

	return inv, nil
}

// UpdateInvoice applies partial changes and always enqueues a fresh
// generation job, regardless of which fields changed. New evidence URLs
// are appended to the existing list, never replacing it.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, req *models.UpdateInvoiceRequest, files []models.EvidenceFile) (*models.Invoice, error) {
	inv, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Re-check uniqueness only when the invoice number is being changed
	if req.InvoiceNumber != nil && *req.InvoiceNumber != inv.InvoiceNumber {
		if _, err := s.Repo.GetByInvoiceNumber(ctx, *req.InvoiceNumber); err == nil {
			return nil, fmt.Errorf("invoice with this number already exists: %w", models.ErrConflict)
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		inv.InvoiceNumber = *req.InvoiceNumber
	}

	// Reconcile only when a new truck identifier was supplied
	if req.TruckNumber != "" {
		truck, err := s.Trucks.Reconcile(ctx, req.TruckNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile truck: %w", err)
		}
		inv.TruckID = &truck.ID
		inv.Truck = truck
	}

	if len(files) > 0 {
		newURLs, err := s.Uploader.UploadAll(ctx, files, weighmentSlipFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload weighment slips: %w", err)
		}
		inv.WeighmentSlipURLs = append(inv.WeighmentSlipURLs, newURLs...)
	}

	if err := applyInvoiceUpdate(inv, req); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.enqueueGeneration(ctx, inv.ID)

	return inv, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	return s.Repo.Get(ctx, id)
}

func (s *InvoiceService) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	return s.Repo.GetByInvoiceNumber(ctx, invoiceNumber)
}

func (s *InvoiceService) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	return s.Repo.List(ctx)
}

func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// enqueueGeneration hands the invoice to the document pipeline. A broker
// failure here is logged, not surfaced: the invoice row is already
// durable and the client response must not depend on the queue.
func (s *InvoiceService) enqueueGeneration(ctx context.Context, invoiceID string) {
	if err := s.Queue.Enqueue(ctx, invoiceID); err != nil {
		log.Printf("[Invoice] failed to enqueue document generation for invoice %s: %v", invoiceID, err)
	}
}

func applyInvoiceUpdate(inv *models.Invoice, req *models.UpdateInvoiceRequest) error {
	if req.InvoiceDate != nil {
		date, err := parseInvoiceDate(*req.InvoiceDate)
		if err != nil {
			return err
		}
		inv.InvoiceDate = date
	}
	if req.Terms != nil {
		inv.Terms = req.Terms
	}
	if req.SupplierName != nil {
		inv.SupplierName = *req.SupplierName
	}
	if req.SupplierAddress != nil {
		inv.SupplierAddress = req.SupplierAddress
	}
	if req.PlaceOfSupply != nil {
		inv.PlaceOfSupply = *req.PlaceOfSupply
	}
	if req.BillToName != nil {
		inv.BillToName = *req.BillToName
	}
	if req.BillToAddress != nil {
		inv.BillToAddress = req.BillToAddress
	}
	if req.ShipToName != nil {
		inv.ShipToName = *req.ShipToName
	}
	if req.ShipToAddress != nil {
		inv.ShipToAddress = req.ShipToAddress
	}
	if req.ProductName != nil {
		inv.ProductName = req.ProductName
	}
	if req.HSNCode != nil {
		inv.HSNCode = req.HSNCode
	}
	if req.Quantity != nil {
		inv.Quantity = *req.Quantity
	}
	if req.Rate != nil {
		inv.Rate = *req.Rate
	}
	if req.Amount != nil {
		inv.Amount = *req.Amount
	}
	if req.VehicleNumber != nil {
		inv.VehicleNumber = req.VehicleNumber
	}
	if req.WeighmentSlipNote != nil {
		inv.WeighmentSlipNote = req.WeighmentSlipNote
	}
	if req.IsClaim != nil {
		inv.IsClaim = *req.IsClaim
	}
	if req.ClaimDetails != nil {
		inv.ClaimDetails = req.ClaimDetails
	}
	return nil
}

func parseInvoiceDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(timeutil.DateLayout, value, timeutil.IST)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid invoice date %q (expected YYYY-MM-DD)", value)
	}
	return date, nil
}
