package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBodyBytes caps how much of an error response body is read.
const maxErrorBodyBytes = 64 * 1024

// APIError is a non-2xx response from the memory service.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the machine-readable error code from the body, if any.
	Code string

	// Detail is the human-readable error detail from the body, or the
	// raw body when it was not valid JSON.
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("memory service: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("memory service: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// apiErrorBody is the service's JSON error envelope.
type apiErrorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	// Some endpoints use "message" instead of "detail".
	Message string `json:"message"`
}

// decodeAPIError turns a non-2xx response into an *APIError.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var envelope apiErrorBody
	if json.Unmarshal(body, &envelope) == nil {
		apiErr.Code = envelope.Code
		apiErr.Detail = envelope.Detail
		if apiErr.Detail == "" {
			apiErr.Detail = envelope.Message
		}
	}
	if apiErr.Detail == "" {
		apiErr.Detail = string(body)
	}
	return apiErr
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 from the service.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}
