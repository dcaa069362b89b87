package services

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-backend/internal/models"
)

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func testInvoice() *models.Invoice {
	terms := "NET 30"
	vehicle := "MH 12 AB 1234"
	return &models.Invoice{
		ID:              "inv-1",
		InvoiceNumber:   "INV-001",
		InvoiceDate:     time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Terms:           &terms,
		SupplierName:    "Agro Traders",
		SupplierAddress: []string{"Plot 14, MIDC", "Nashik, Maharashtra"},
		PlaceOfSupply:   "Maharashtra",
		BillToName:      "Sharma Mills",
		BillToAddress:   []string{"Industrial Area Phase 2", "Kanpur, Uttar Pradesh"},
		ShipToName:      "Sharma Mills Warehouse",
		ShipToAddress:   []string{"NH-19 Godown 3", "Kanpur, Uttar Pradesh"},
		ProductName:     models.ProductNames{"Wheat", "Rice"},
		Quantity:        120,
		Rate:            25.5,
		Amount:          3060,
		VehicleNumber:   &vehicle,
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	slip := testJPEG(t, 400, 300)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(slip)
	}))
	defer srv.Close()

	svc := NewPDFService(5 * time.Second)
	data, err := svc.GenerateInvoicePDF(testInvoice(), []string{srv.URL + "/slip-1.jpg", srv.URL + "/slip-2.jpg"})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output must be a PDF document")
	assert.Greater(t, len(data), 1000)
}

func TestGenerateInvoicePDFWithoutEvidence(t *testing.T) {
	svc := NewPDFService(5 * time.Second)
	data, err := svc.GenerateInvoicePDF(testInvoice(), nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGenerateInvoicePDFSkipsBrokenImages(t *testing.T) {
	slip := testJPEG(t, 400, 300)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(slip)
		case "/not-an-image.jpg":
			w.Write([]byte("<html>definitely not a jpeg</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := NewPDFService(5 * time.Second)
	urls := []string{
		srv.URL + "/good.jpg",
		srv.URL + "/missing.jpg",
		srv.URL + "/not-an-image.jpg",
	}

	// Two of three evidence images are broken; the render still succeeds
	data, err := svc.GenerateInvoicePDF(testInvoice(), urls)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	// The surviving image must actually be embedded: the mixed render has
	// to carry the JPEG payload the evidence-free render lacks
	bare, err := svc.GenerateInvoicePDF(testInvoice(), nil)
	require.NoError(t, err)
	assert.Greater(t, len(data), len(bare)+1000, "good image was not embedded")
}

func TestGenerateInvoicePDFDownscalesLargeImages(t *testing.T) {
	slip := testJPEG(t, 2400, 1800)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(slip)
	}))
	defer srv.Close()

	svc := NewPDFService(5 * time.Second)
	data, err := svc.GenerateInvoicePDF(testInvoice(), []string{srv.URL + "/big.jpg"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestFitImage(t *testing.T) {
	t.Run("downscales preserving aspect ratio", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 1000, 500))
		out := fitImage(src, 200, 200)
		assert.Equal(t, 200, out.Bounds().Dx())
		assert.Equal(t, 100, out.Bounds().Dy())
	})

	t.Run("never upscales", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 50, 40))
		out := fitImage(src, 200, 200)
		assert.Equal(t, 50, out.Bounds().Dx())
		assert.Equal(t, 40, out.Bounds().Dy())
	})

	t.Run("height-bound image", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 300, 900))
		out := fitImage(src, 200, 300)
		assert.Equal(t, 100, out.Bounds().Dx())
		assert.Equal(t, 300, out.Bounds().Dy())
	})
}
