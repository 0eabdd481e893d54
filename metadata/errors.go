package metadata

import "errors"

var (
	// ErrMissingCredentials indicates no JWT was configured for the
	// pinning service.
	ErrMissingCredentials = errors.New("metadata: pinning credentials not set")

	// ErrPinFailed indicates the pinning service rejected the upload.
	ErrPinFailed = errors.New("metadata: pin failed")

	// ErrEmptyContent indicates there is nothing to pin.
	ErrEmptyContent = errors.New("metadata: empty content")
)
