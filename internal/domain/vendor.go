package domain

import "fmt"

// VendorError is returned by completion providers when the vendor reports a
// failure, either through a non-2xx status or an error code embedded in an
// otherwise successful response. Message is the most specific text the vendor gave.
type VendorError struct {
	Vendor     string
	StatusCode int
	Code       int
	Message    string
}

func (e *VendorError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: vendor error (status %d, code %d): %s", e.Vendor, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: vendor error (status %d): %s", e.Vendor, e.StatusCode, e.Message)
}
