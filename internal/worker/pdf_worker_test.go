package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-backend/internal/models"
	"freight-backend/internal/queue"
	"freight-backend/internal/services"
)

type fakeInvoiceReader struct {
	invoices map[string]*models.Invoice
	patched  map[string]string
	patches  int
}

func newFakeInvoiceReader(invoices ...*models.Invoice) *fakeInvoiceReader {
	f := &fakeInvoiceReader{
		invoices: make(map[string]*models.Invoice),
		patched:  make(map[string]string),
	}
	for _, inv := range invoices {
		f.invoices[inv.ID] = inv
	}
	return f
}

func (f *fakeInvoiceReader) Get(ctx context.Context, id string) (*models.Invoice, error) {
	if inv, ok := f.invoices[id]; ok {
		return inv, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeInvoiceReader) UpdatePDFURL(ctx context.Context, id, pdfURL string) error {
	f.patches++
	f.patched[id] = pdfURL
	return nil
}

type fakeUploader struct {
	fail     bool
	uploaded [][]byte
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, filename, folder string) (string, error) {
	if f.fail {
		return "", errors.New("storage unavailable")
	}
	f.uploaded = append(f.uploaded, data)
	return fmt.Sprintf("https://cdn.test/%s/%s", folder, filename), nil
}

func (f *fakeUploader) UploadAll(ctx context.Context, files []models.EvidenceFile, folder string) ([]string, error) {
	return nil, errors.New("not used by the worker")
}

func workerInvoice() *models.Invoice {
	return &models.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-001",
		InvoiceDate:   time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		SupplierName:  "Agro Traders",
		PlaceOfSupply: "Maharashtra",
		BillToName:    "Sharma Mills",
		ShipToName:    "Sharma Mills Warehouse",
		ProductName:   models.ProductNames{"Wheat"},
		Quantity:      120,
		Rate:          25.5,
		Amount:        3060,
	}
}

func TestHandleRendersUploadsAndPatches(t *testing.T) {
	reader := newFakeInvoiceReader(workerInvoice())
	uploader := &fakeUploader{}
	w := NewPDFWorker(reader, services.NewPDFService(time.Second), uploader)

	err := w.Handle(context.Background(), queue.Job{InvoiceID: "inv-1"})
	require.NoError(t, err)

	require.Len(t, uploader.uploaded, 1)
	assert.True(t, strings.HasPrefix(string(uploader.uploaded[0]), "%PDF"))

	assert.Equal(t, 1, reader.patches, "pdf_url patched exactly once")
	url, ok := reader.patched["inv-1"]
	require.True(t, ok)
	assert.Contains(t, url, "invoice-pdfs/")
	assert.Contains(t, url, "invoice-INV-001-")
}

func TestHandleMissingInvoice(t *testing.T) {
	reader := newFakeInvoiceReader()
	w := NewPDFWorker(reader, services.NewPDFService(time.Second), &fakeUploader{})

	err := w.Handle(context.Background(), queue.Job{InvoiceID: "inv-missing"})
	require.Error(t, err)
	assert.Zero(t, reader.patches)
}

func TestHandleUploadFailure(t *testing.T) {
	reader := newFakeInvoiceReader(workerInvoice())
	w := NewPDFWorker(reader, services.NewPDFService(time.Second), &fakeUploader{fail: true})

	// Upload errors go back to the broker for redelivery, nothing is patched
	err := w.Handle(context.Background(), queue.Job{InvoiceID: "inv-1"})
	require.Error(t, err)
	assert.Zero(t, reader.patches)
}
