package pattern

import (
	"strconv"
	"time"
)

// DefaultProductTitle labels reports generated without a selected product.
const DefaultProductTitle = "Custom Analysis"

// Report wraps one successful analysis. It lives only in its session.
type Report struct {
	ID           string         `json:"id"`
	Date         time.Time      `json:"date"`
	ProductTitle string         `json:"product_title"`
	UserPhotoURL string         `json:"user_photo_url"`
	UserName     string         `json:"user_name,omitempty"`
	Result       AnalysisResult `json:"result"`
}

// NewReport stamps a result with a millisecond-timestamp id.
func NewReport(now time.Time, productTitle string, result AnalysisResult) *Report {
	if productTitle == "" {
		productTitle = DefaultProductTitle
	}
	return &Report{
		ID:           strconv.FormatInt(now.UnixMilli(), 10),
		Date:         now.UTC(),
		ProductTitle: productTitle,
		Result:       result,
	}
}
