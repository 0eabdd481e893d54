package royalty

import "errors"

var (
	// ErrInvalidBasis indicates a royalty rate above 10000 basis points.
	ErrInvalidBasis = errors.New("royalty: basis exceeds 10000")

	// ErrNoRecipient indicates the policy recipient is the zero identity.
	ErrNoRecipient = errors.New("royalty: policy recipient not set")

	// ErrAmountOverflow indicates the split computation would overflow.
	ErrAmountOverflow = errors.New("royalty: payment amount overflow")
)
