package timeutil

import (
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30). Invoice dates and
// generated-at stamps on documents are rendered in IST.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		IST = time.FixedZone("IST", 5*60*60+30*60) // UTC+5:30
	}
}

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// ToIST converts any time to IST.
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// Common layouts for IST formatting
const (
	DateLayout        = "2006-01-02"
	InvoiceDateLayout = "02/01/2006"
	DisplayLayout     = "02 Jan 2006, 03:04 PM"
)
