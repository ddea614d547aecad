package dto

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code"`
	ProductName string `json:"productName,omitempty"`
	Available   *int   `json:"available,omitempty"`
}
