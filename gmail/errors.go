package gmail

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ErrAuthRequired signals that no valid or refreshable credential exists.
// It is never retried internally; the caller must re-run the auth flow.
var ErrAuthRequired = errors.New("gmail: authentication required")

// BackendError wraps a failed Gmail API call with the operation name and,
// when available, the HTTP status the API returned.
type BackendError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gmail: %s failed (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gmail: %s failed: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 401 {
			return fmt.Errorf("%w: %v", ErrAuthRequired, err)
		}
		return &BackendError{Op: op, StatusCode: apiErr.Code, Err: err}
	}
	return &BackendError{Op: op, Err: err}
}
