package enforcer

import "errors"

// All enforcer failures are terminal for the submitted bundle: the caller
// must correct and resubmit. No precondition failure leaves partial state.
var (
	// ErrUnauthorized indicates the caller is neither the administrator
	// (for admin operations) nor the offer's authorized counterparty
	// (for transfers).
	ErrUnauthorized = errors.New("enforcer: caller not authorized")

	// ErrAlreadyInitialized indicates the store already has an administrator.
	ErrAlreadyInitialized = errors.New("enforcer: already initialized")

	// ErrNotInitialized indicates the store has no administrator yet.
	ErrNotInitialized = errors.New("enforcer: not initialized")

	// ErrMissingClawback indicates the asset does not grant this engine
	// the custody-control capability, so atomic release cannot be enforced.
	ErrMissingClawback = errors.New("enforcer: asset clawback not held by engine")

	// ErrUnsafeAssetAuthority indicates the asset's freeze or manager
	// authority is held by a third party that could move or freeze the
	// asset outside this engine's control.
	ErrUnsafeAssetAuthority = errors.New("enforcer: unsafe freeze or manager authority")

	// ErrInsufficientBalance indicates the offering account holds fewer
	// units than it tried to offer.
	ErrInsufficientBalance = errors.New("enforcer: offered amount exceeds held balance")

	// ErrBadBundleShape indicates the transaction bundle is not exactly
	// one payment leg plus one app-call leg.
	ErrBadBundleShape = errors.New("enforcer: bundle must be payment + app call")

	// ErrRekeyNotAllowed indicates the payment leg carries a rekey
	// instruction.
	ErrRekeyNotAllowed = errors.New("enforcer: rekeyed payments not allowed")

	// ErrAmountExceedsOffer indicates the requested amount is larger than
	// the offer's available amount.
	ErrAmountExceedsOffer = errors.New("enforcer: requested amount exceeds offer")

	// ErrRecipientMismatch indicates the caller-supplied royalty recipient
	// differs from the stored policy recipient.
	ErrRecipientMismatch = errors.New("enforcer: royalty recipient mismatch")

	// ErrStaleOffer indicates the caller's expected available amount does
	// not match the offer's live amount.
	ErrStaleOffer = errors.New("enforcer: stale offer amount")

	// ErrBadPaymentLeg indicates the payment leg's sender, receiver,
	// medium, or close-redirect is wrong.
	ErrBadPaymentLeg = errors.New("enforcer: invalid payment leg")
)
