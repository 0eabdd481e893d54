package state

import "errors"

var (
	// ErrAdminNotSet indicates the administrator slot is uninitialized.
	ErrAdminNotSet = errors.New("state: administrator not set")

	// ErrPolicyNotSet indicates the royalty policy is uninitialized.
	ErrPolicyNotSet = errors.New("state: policy not set")

	// ErrPolicyAlreadySet indicates a second attempt to set the
	// write-once royalty policy.
	ErrPolicyAlreadySet = errors.New("state: policy already set")

	// ErrOfferNotFound indicates no offer exists for (owner, asset).
	ErrOfferNotFound = errors.New("state: offer not found")

	// ErrInvalidPolicyRecord indicates a persisted policy record is malformed.
	ErrInvalidPolicyRecord = errors.New("state: invalid policy record")

	// ErrInvalidOfferRecord indicates a persisted offer record is malformed.
	ErrInvalidOfferRecord = errors.New("state: invalid offer record")

	// ErrInvalidAdminRecord indicates a persisted admin record is malformed.
	ErrInvalidAdminRecord = errors.New("state: invalid administrator record")
)
