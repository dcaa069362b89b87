package worker

import (
	"context"
	"fmt"
	"log"

	"freight-backend/internal/models"
	"freight-backend/internal/queue"
	"freight-backend/internal/services"
	"freight-backend/internal/storage"
	"freight-backend/internal/timeutil"
)

const documentFolder = "invoice-pdfs"

// InvoiceReader loads invoices for rendering and patches the generated
// document URL. The worker touches no other invoice field.
type InvoiceReader interface {
	Get(ctx context.Context, id string) (*models.Invoice, error)
	UpdatePDFURL(ctx context.Context, id, pdfURL string) error
}

// PDFWorker consumes document generation jobs: load the invoice, render
// the document, upload it, patch the invoice's pdf_url. Any failure is
// returned to the broker so the job is redelivered.
type PDFWorker struct {
	Invoices InvoiceReader
	Renderer *services.PDFService
	Uploader storage.Uploader
}

func NewPDFWorker(invoices InvoiceReader, renderer *services.PDFService, uploader storage.Uploader) *PDFWorker {
	return &PDFWorker{Invoices: invoices, Renderer: renderer, Uploader: uploader}
}

// Handle processes one job end to end.
func (w *PDFWorker) Handle(ctx context.Context, job queue.Job) error {
	inv, err := w.Invoices.Get(ctx, job.InvoiceID)
	if err != nil {
		return fmt.Errorf("failed to load invoice %s: %w", job.InvoiceID, err)
	}

	data, err := w.Renderer.GenerateInvoicePDF(inv, inv.WeighmentSlipURLs)
	if err != nil {
		return fmt.Errorf("failed to render document for invoice %s: %w", inv.ID, err)
	}

	filename := fmt.Sprintf("invoice-%s-%d.pdf", inv.InvoiceNumber, timeutil.Now().Unix())
	url, err := w.Uploader.Upload(ctx, data, filename, documentFolder)
	if err != nil {
		return fmt.Errorf("failed to upload document for invoice %s: %w", inv.ID, err)
	}

	if err := w.Invoices.UpdatePDFURL(ctx, inv.ID, url); err != nil {
		return fmt.Errorf("failed to record document URL for invoice %s: %w", inv.ID, err)
	}

	log.Printf("[Worker] generated document for invoice %s (%s)", inv.InvoiceNumber, url)
	return nil
}
