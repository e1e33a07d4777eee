package model

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope wrapping every API response.
type Response struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}
