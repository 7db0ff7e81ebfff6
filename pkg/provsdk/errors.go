package provsdk

import "fmt"

// APIError is a non-2xx response decoded into the standard error envelope.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provisioning api: %s (%d): %s", e.Code, e.StatusCode, e.Description)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == code
}
