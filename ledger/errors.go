package ledger

import "errors"

var (
	// ErrInvalidIdentity indicates an identity string is not 32 bytes of hex.
	ErrInvalidIdentity = errors.New("ledger: invalid identity")

	// ErrUnknownAsset indicates the asset does not exist on the ledger.
	ErrUnknownAsset = errors.New("ledger: unknown asset")

	// ErrInsufficientFunds indicates a sender cannot cover an operation.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrNotOptedIn indicates an account holds no position in the asset.
	ErrNotOptedIn = errors.New("ledger: account not opted in to asset")

	// ErrSubmitRejected indicates the ledger refused the operation group.
	ErrSubmitRejected = errors.New("ledger: operation group rejected")
)
