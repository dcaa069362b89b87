package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"freight-backend/internal/models"
	"freight-backend/internal/services"
	"freight-backend/pkg/utils"
)

// maxUploadBytes bounds a single create/update request body (evidence
// images included).
const maxUploadBytes = 50 << 20

type InvoiceHandler struct {
	Service *services.InvoiceService
}

func NewInvoiceHandler(s *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: s}
}

// CreateInvoice accepts either multipart/form-data (fields plus
// weighment_slips file parts) or a plain JSON body with no evidence.
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	var files []models.EvidenceFile

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		req = models.CreateInvoiceRequest{
			InvoiceNumber:     r.Form.Get("invoice_number"),
			InvoiceDate:       r.Form.Get("invoice_date"),
			Terms:             formPtr(r, "terms"),
			SupplierName:      r.Form.Get("supplier_name"),
			SupplierAddress:   formList(r, "supplier_address"),
			PlaceOfSupply:     r.Form.Get("place_of_supply"),
			BillToName:        r.Form.Get("bill_to_name"),
			BillToAddress:     formList(r, "bill_to_address"),
			ShipToName:        r.Form.Get("ship_to_name"),
			ShipToAddress:     formList(r, "ship_to_address"),
			ProductName:       formProductNames(r),
			HSNCode:           formPtr(r, "hsn_code"),
			Quantity:          formFloat(r, "quantity"),
			Rate:              formFloat(r, "rate"),
			Amount:            formFloat(r, "amount"),
			TruckNumber:       r.Form.Get("truck_number"),
			VehicleNumber:     formPtr(r, "vehicle_number"),
			WeighmentSlipNote: formPtr(r, "weighment_slip_note"),
			IsClaim:           formBool(r, "is_claim"),
			ClaimDetails:      formPtr(r, "claim_details"),
		}
		var err error
		files, err = readEvidenceFiles(r)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "failed to read uploaded files")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if req.InvoiceNumber == "" || req.InvoiceDate == "" {
		utils.Error(w, http.StatusBadRequest, "invoice_number and invoice_date are required")
		return
	}

	invoice, err := h.Service.CreateInvoice(r.Context(), &req, files)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, invoice)
}

// UpdateInvoice applies partial changes; multipart bodies may attach new
// evidence files, which are appended to the existing list.
func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateInvoiceRequest
	var files []models.EvidenceFile

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		req = models.UpdateInvoiceRequest{
			InvoiceNumber:     formPtr(r, "invoice_number"),
			InvoiceDate:       formPtr(r, "invoice_date"),
			Terms:             formPtr(r, "terms"),
			SupplierName:      formPtr(r, "supplier_name"),
			SupplierAddress:   formList(r, "supplier_address"),
			PlaceOfSupply:     formPtr(r, "place_of_supply"),
			BillToName:        formPtr(r, "bill_to_name"),
			BillToAddress:     formList(r, "bill_to_address"),
			ShipToName:        formPtr(r, "ship_to_name"),
			ShipToAddress:     formList(r, "ship_to_address"),
			ProductName:       formProductNames(r),
			HSNCode:           formPtr(r, "hsn_code"),
			Quantity:          formFloatPtr(r, "quantity"),
			Rate:              formFloatPtr(r, "rate"),
			Amount:            formFloatPtr(r, "amount"),
			TruckNumber:       r.Form.Get("truck_number"),
			VehicleNumber:     formPtr(r, "vehicle_number"),
			WeighmentSlipNote: formPtr(r, "weighment_slip_note"),
			IsClaim:           formBoolPtr(r, "is_claim"),
			ClaimDetails:      formPtr(r, "claim_details"),
		}
		var err error
		files, err = readEvidenceFiles(r)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "failed to read uploaded files")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	invoice, err := h.Service.UpdateInvoice(r.Context(), id, &req, files)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.Service.GetInvoice(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	if number := r.URL.Query().Get("invoice_number"); number != "" {
		invoice, err := h.Service.FindByInvoiceNumber(r.Context(), number)
		if err != nil {
			utils.ServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, invoice)
		return
	}

	invoices, err := h.Service.ListInvoices(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteInvoice(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// readEvidenceFiles buffers every part named weighment_slips.
func readEvidenceFiles(r *http.Request) ([]models.EvidenceFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var files []models.EvidenceFile
	for _, header := range r.MultipartForm.File["weighment_slips"] {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, models.EvidenceFile{Filename: header.Filename, Data: data})
	}
	return files, nil
}

func formPtr(r *http.Request, key string) *string {
	if vals, ok := r.Form[key]; ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}

// formList reads a repeated form key ("supplier_address=a&supplier_address=b").
func formList(r *http.Request, key string) []string {
	vals := r.Form[key]
	if len(vals) == 0 {
		return nil
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// formProductNames accepts either repeated product_name keys or a single
// value, which may itself be a JSON-encoded array.
func formProductNames(r *http.Request) models.ProductNames {
	vals := r.Form["product_name"]
	switch len(vals) {
	case 0:
		return nil
	case 1:
		return models.ParseProductNames(vals[0])
	default:
		return models.ProductNames(vals)
	}
}

func formFloat(r *http.Request, key string) float64 {
	v, _ := strconv.ParseFloat(r.Form.Get(key), 64)
	return v
}

func formFloatPtr(r *http.Request, key string) *float64 {
	if _, ok := r.Form[key]; !ok {
		return nil
	}
	v := formFloat(r, key)
	return &v
}

func formBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.Form.Get(key))
	return v
}

func formBoolPtr(r *http.Request, key string) *bool {
	if _, ok := r.Form[key]; !ok {
		return nil
	}
	v := formBool(r, key)
	return &v
}
