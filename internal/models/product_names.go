package models

import (
	"encoding/json"
	"strings"
)

// ProductNames is the canonical form of an invoice's product name field.
// Clients send it as a native JSON array, a JSON-encoded array string
// (legacy mobile clients double-encode it), or a plain string. It is
// resolved to an ordered list once at the API boundary; everything
// downstream (storage, PDF layout) only sees the canonical form.
type ProductNames []string

// ParseProductNames resolves a raw string value into the canonical list.
// A value that parses as a JSON string array is expanded; anything else
// is treated as a single product name.
func ParseProductNames(raw string) ProductNames {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var names []string
		if err := json.Unmarshal([]byte(trimmed), &names); err == nil {
			return ProductNames(names)
		}
	}
	return ProductNames{raw}
}

func (p *ProductNames) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		*p = ProductNames(names)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*p = ParseProductNames(single)
	return nil
}

// Display joins the names into the flat string the PDF item line expects.
func (p ProductNames) Display() string {
	return strings.Join(p, ", ")
}

// Encode returns the JSON array string stored in the product_name column.
func (p ProductNames) Encode() string {
	if len(p) == 0 {
		return "[]"
	}
	data, err := json.Marshal([]string(p))
	if err != nil {
		return "[]"
	}
	return string(data)
}
