package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"golang.org/x/image/draw"

	"freight-backend/internal/metrics"
	"freight-backend/internal/models"
	"freight-backend/internal/timeutil"
)

const (
	pageWidth    = 210.0 // A4 portrait, mm
	pageHeight   = 297.0
	pageMargin   = 10.0
	contentWidth = pageWidth - 2*pageMargin

	// Evidence image region
	imageMaxWidth  = contentWidth - 10
	imageMaxHeight = 120.0

	// Raster density used when sizing fetched images on the page
	pixelsPerMM = 96.0 / 25.4

	maxImageBytes = 20 << 20 // refuse to buffer more than 20MB per image
	jpegQuality   = 90
)

// PDFService renders invoices into complete PDF documents. Evidence
// images are fetched over the network with a bounded per-image timeout so
// one bad URL cannot stall a worker indefinitely.
type PDFService struct {
	client *http.Client
}

func NewPDFService(fetchTimeout time.Duration) *PDFService {
	return &PDFService{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// GenerateInvoicePDF lays out the fixed invoice template and embeds the
// weighment slip evidence. A single image that cannot be fetched or
// decoded is skipped (logged, counted), never failing the whole render;
// a layout or document-encoding failure is fatal.
func (s *PDFService) GenerateInvoicePDF(inv *models.Invoice, evidenceURLs []string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	y := s.drawHeader(pdf, inv)
	y = s.drawMetaBoxes(pdf, inv, y)
	y = s.drawPartyBoxes(pdf, inv, y)
	y = s.drawItemTable(pdf, inv, y)
	y = s.drawNotesAndSubtotal(pdf, inv, y)
	s.drawEvidence(pdf, inv, evidenceURLs, y)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode invoice document: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *PDFService) drawHeader(pdf *gofpdf.Fpdf, inv *models.Invoice) float64 {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetXY(pageMargin, pageMargin)
	pdf.CellFormat(contentWidth*0.7, 8, fmt.Sprintf("Supplier Name - %s", inv.SupplierName), "", 0, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(contentWidth*0.3, 8, "INVOICE", "", 1, "R", false, 0, "")

	// Place-of-supply strip
	pdf.SetFillColor(235, 235, 235)
	pdf.SetFont("Arial", "", 10)
	pdf.SetXY(pageMargin, pageMargin+10)
	pdf.CellFormat(80, 7, fmt.Sprintf("Place of Supply: %s", inv.PlaceOfSupply), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 8)
	pdf.SetXY(pageMargin, pageMargin+18)
	pdf.CellFormat(contentWidth, 5, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "L", false, 0, "")

	return pageMargin + 26
}

func (s *PDFService) drawMetaBoxes(pdf *gofpdf.Fpdf, inv *models.Invoice, y float64) float64 {
	const boxHeight = 32.0
	boxWidth := contentWidth/2 - 3

	terms := "CUSTOM"
	if inv.Terms != nil && *inv.Terms != "" {
		terms = *inv.Terms
	}

	// Left: invoice meta
	pdf.Rect(pageMargin, y, boxWidth, boxHeight, "D")
	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(pageMargin+5, y+4)
	pdf.CellFormat(boxWidth-10, 6, fmt.Sprintf("Invoice Number : %s", inv.InvoiceNumber), "", 2, "L", false, 0, "")
	pdf.CellFormat(boxWidth-10, 6, fmt.Sprintf("Invoice Date   : %s", timeutil.ToIST(inv.InvoiceDate).Format(timeutil.InvoiceDateLayout)), "", 2, "L", false, 0, "")
	pdf.CellFormat(boxWidth-10, 6, fmt.Sprintf("Terms          : %s", terms), "", 2, "L", false, 0, "")

	// Right: supplier address
	rightX := pageMargin + boxWidth + 6
	pdf.Rect(rightX, y, boxWidth, boxHeight, "D")
	pdf.SetXY(rightX+5, y+4)
	pdf.CellFormat(boxWidth-10, 6, "Supplier Address", "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetX(rightX + 5)
	pdf.MultiCell(boxWidth-10, 4.5, joinLines(inv.SupplierAddress), "", "L", false)

	return y + boxHeight + 6
}

func (s *PDFService) drawPartyBoxes(pdf *gofpdf.Fpdf, inv *models.Invoice, y float64) float64 {
	const boxHeight = 38.0
	boxWidth := contentWidth/2 - 3

	drawParty := func(x float64, title, name string, address []string) {
		pdf.Rect(x, y, boxWidth, boxHeight, "D")
		pdf.SetFont("Arial", "B", 11)
		pdf.SetXY(x+5, y+4)
		pdf.CellFormat(boxWidth-10, 5, title, "", 2, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(boxWidth-10, 7, name, "", 2, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.SetX(x + 5)
		pdf.MultiCell(boxWidth-10, 4.5, joinLines(address), "", "L", false)
	}

	drawParty(pageMargin, "Bill To", inv.BillToName, inv.BillToAddress)
	drawParty(pageMargin+boxWidth+6, "Ship To", inv.ShipToName, inv.ShipToAddress)

	return y + boxHeight + 8
}

func (s *PDFService) drawItemTable(pdf *gofpdf.Fpdf, inv *models.Invoice, y float64) float64 {
	colWidths := []float64{10, 70, 30, 20, 30, 30}
	headers := []string{"#", "Item & Description", "HSN/SAC", "Qty", "Rate", "Amount"}

	pdf.SetXY(pageMargin, y)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(225, 225, 225)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	hsn := "-"
	if inv.HSNCode != nil && *inv.HSNCode != "" {
		hsn = *inv.HSNCode
	}

	pdf.SetFont("Arial", "", 10)
	pdf.SetX(pageMargin)
	pdf.CellFormat(colWidths[0], 8, "1", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, inv.ProductName.Display(), "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, hsn, "1", 0, "C", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%.2f", inv.Quantity), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%.2f", inv.Rate), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[5], 8, fmt.Sprintf("%.2f", inv.Amount), "1", 1, "R", false, 0, "")

	return y + 16 + 8
}

func (s *PDFService) drawNotesAndSubtotal(pdf *gofpdf.Fpdf, inv *models.Invoice, y float64) float64 {
	leftWidth := contentWidth * 0.62
	rightWidth := contentWidth * 0.35
	const notesHeight = 48.0

	vehicle := "-"
	if inv.VehicleNumber != nil && *inv.VehicleNumber != "" {
		vehicle = *inv.VehicleNumber
	} else if inv.Truck != nil {
		vehicle = inv.Truck.TruckNumber
	}

	pdf.Rect(pageMargin, y, leftWidth, notesHeight, "D")
	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(pageMargin+5, y+3)
	pdf.CellFormat(leftWidth-10, 6, "Notes", "", 2, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(leftWidth-10, 4.5, fmt.Sprintf("VEHICLE NO : %s", vehicle), "", 2, "L", false, 0, "")
	pdf.CellFormat(leftWidth-10, 4.5, fmt.Sprintf("Per Unit Rate: Rs. %.2f", inv.Rate), "", 2, "L", false, 0, "")
	pdf.SetX(pageMargin + 5)
	pdf.MultiCell(leftWidth-10, 4,
		fmt.Sprintf("This vehicle is transporting %s from Supplier: %s to Buyer: %s.",
			inv.ProductName.Display(), inv.SupplierName, inv.BillToName),
		"", "L", false)
	pdf.SetX(pageMargin + 5)
	pdf.MultiCell(leftWidth-10, 4,
		"In case of any accident, loss, or damage during transit, Buyer shall be treated as the insured person and will be entitled to receive all claim amounts for the damaged goods.",
		"", "L", false)

	rightX := pageMargin + leftWidth + 8
	pdf.Rect(rightX, y, rightWidth, 28, "D")
	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(rightX+5, y+5)
	pdf.CellFormat(rightWidth-10, 6, "Sub Total", "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 15)
	pdf.CellFormat(rightWidth-10, 10, fmt.Sprintf("%.2f", inv.Amount), "", 2, "L", false, 0, "")

	return y + notesHeight + 8
}

// drawEvidence fetches, downscales and places each weighment slip image,
// starting a new page whenever the next image would run off the bottom.
func (s *PDFService) drawEvidence(pdf *gofpdf.Fpdf, inv *models.Invoice, evidenceURLs []string, y float64) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(contentWidth, 6, "Weighment Slip", "", 1, "L", false, 0, "")
	y += 8

	for i, url := range evidenceURLs {
		img, err := s.fetchEvidenceImage(url)
		if err != nil {
			// Partial degradation: drop this image, keep the document
			metrics.EvidenceImagesSkipped.Inc()
			log.Printf("[PDF] invoice %s: skipping evidence image %s: %v", inv.ID, url, err)
			continue
		}

		if y+img.heightMM > pageHeight-pageMargin {
			pdf.AddPage()
			y = pageMargin
		}

		name := fmt.Sprintf("evidence-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "JPEG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.data))
		pdf.ImageOptions(name, pageMargin, y, img.widthMM, img.heightMM, false, opts, 0, "")
		y += img.heightMM + 6
	}
}

type placedImage struct {
	data     []byte
	widthMM  float64
	heightMM float64
}

// fetchEvidenceImage downloads an image, downscales it to fit the evidence
// region (aspect-preserving, never upscaling) and re-encodes it as JPEG.
func (s *PDFService) fetchEvidenceImage(url string) (*placedImage, error) {
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	maxWPx, maxHPx := float64(imageMaxWidth*pixelsPerMM), float64(imageMaxHeight*pixelsPerMM)
	resized := fitImage(src, int(maxWPx), int(maxHPx))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode failed: %w", err)
	}

	bounds := resized.Bounds()
	return &placedImage{
		data:     buf.Bytes(),
		widthMM:  float64(bounds.Dx()) / pixelsPerMM,
		heightMM: float64(bounds.Dy()) / pixelsPerMM,
	}, nil
}

// fitImage scales src down to fit within maxW x maxH pixels, preserving
// aspect ratio. Images already inside the bounds are returned unscaled.
func fitImage(src image.Image, maxW, maxH int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxW && h <= maxH {
		return src
	}

	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}

	dstW := int(math.Round(float64(w) * scale))
	dstH := int(math.Round(float64(h) * scale))
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func joinLines(lines []string) string {
	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}
