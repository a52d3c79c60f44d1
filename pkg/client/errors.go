package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/lockerhq/locker/pkg/types"
)

// APIError is a non-2xx answer decoded from the server's error envelope.
type APIError struct {
	Status int    // HTTP status code.
	Detail string // Message from the envelope, or the status text.
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Detail)
}

// AsAPIError unwraps err into an *APIError when the failure came from the
// server rather than the transport.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// decodeError turns an error response into an *APIError. Bodies that do not
// carry the envelope fall back to the status text.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{
		Status: resp.StatusCode,
		Detail: http.StatusText(resp.StatusCode),
	}

	var envelope types.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, drainLimit)).Decode(&envelope); err == nil && envelope.Detail != "" {
		apiErr.Detail = envelope.Detail
	}
	return apiErr
}
