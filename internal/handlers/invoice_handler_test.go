package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-backend/internal/models"
)

func buildMultipart(t *testing.T, fields map[string][]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, vals := range fields {
		for _, v := range vals {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	for name, data := range files {
		part, err := w.CreateFormFile("weighment_slips", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestMultipartFormParsing(t *testing.T) {
	body, contentType := buildMultipart(t, map[string][]string{
		"invoice_number":   {"INV-001"},
		"invoice_date":     {"2026-08-15"},
		"supplier_address": {"Plot 14, MIDC", "Nashik, Maharashtra"},
		"product_name":     {`["Wheat","Rice"]`},
		"quantity":         {"120"},
		"rate":             {"25.5"},
		"is_claim":         {"true"},
	}, map[string][]byte{
		"slip-1.jpg": []byte("jpeg-bytes-1"),
		"slip-2.jpg": []byte("jpeg-bytes-2"),
	})

	r := httptest.NewRequest("POST", "/api/invoices", body)
	r.Header.Set("Content-Type", contentType)
	require.True(t, isMultipart(r))
	require.NoError(t, r.ParseMultipartForm(maxUploadBytes))

	assert.Equal(t, []string{"Plot 14, MIDC", "Nashik, Maharashtra"}, formList(r, "supplier_address"))
	assert.Equal(t, models.ProductNames{"Wheat", "Rice"}, formProductNames(r))
	assert.Equal(t, 120.0, formFloat(r, "quantity"))
	assert.Equal(t, 25.5, formFloat(r, "rate"))
	assert.True(t, formBool(r, "is_claim"))
	assert.Nil(t, formPtr(r, "terms"))
	assert.Nil(t, formFloatPtr(r, "amount"))
	assert.Nil(t, formBoolPtr(r, "missing"))

	files, err := readEvidenceFiles(r)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.ElementsMatch(t,
		[]string{"slip-1.jpg", "slip-2.jpg"},
		[]string{files[0].Filename, files[1].Filename})
}

func TestFormProductNamesRepeatedKeys(t *testing.T) {
	body, contentType := buildMultipart(t, map[string][]string{
		"product_name": {"Wheat", "Rice"},
	}, nil)

	r := httptest.NewRequest("POST", "/api/invoices", body)
	r.Header.Set("Content-Type", contentType)
	require.NoError(t, r.ParseMultipartForm(maxUploadBytes))

	assert.Equal(t, models.ProductNames{"Wheat", "Rice"}, formProductNames(r))
}

func TestFormProductNamesPlainValue(t *testing.T) {
	body, contentType := buildMultipart(t, map[string][]string{
		"product_name": {"Wheat"},
	}, nil)

	r := httptest.NewRequest("POST", "/api/invoices", body)
	r.Header.Set("Content-Type", contentType)
	require.NoError(t, r.ParseMultipartForm(maxUploadBytes))

	assert.Equal(t, models.ProductNames{"Wheat"}, formProductNames(r))
}
