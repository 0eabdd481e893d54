// Package state owns the mutable state of the royalty enforcement engine:
// the administrator slot, the write-once policy singleton, and the offer
// registry keyed by (owner, asset). The Store is passed into every engine
// operation rather than held as a process global, so tests can run against
// the in-memory implementation and deployments against bbolt.
package state

import (
	"github.com/openroyalty/libroyalty-go/ledger"
	"github.com/openroyalty/libroyalty-go/royalty"
)

// Store is the engine-owned state. External actors only ever read it
// through the enforcer's accessor operations; all mutation happens inside
// engine operations under the host ledger's global serialization.
type Store interface {
	// Administrator returns the current administrator identity, or
	// ErrAdminNotSet before initialization.
	Administrator() (ledger.Identity, error)

	// SetAdministrator replaces the administrator unconditionally.
	SetAdministrator(admin ledger.Identity) error

	// Policy returns the royalty policy, or ErrPolicyNotSet.
	Policy() (royalty.Policy, error)

	// SetPolicy persists the policy. It is write-once: a second call
	// fails with ErrPolicyAlreadySet regardless of arguments.
	SetPolicy(p royalty.Policy) error

	// Offer returns the offer for (owner, asset), or ErrOfferNotFound.
	Offer(owner ledger.Identity, asset ledger.AssetID) (royalty.Offer, error)

	// PutOffer replaces the offer for (owner, asset) wholesale.
	PutOffer(owner ledger.Identity, asset ledger.AssetID, offer royalty.Offer) error

	// SetOfferAmount updates only the available amount of an existing
	// offer, or fails with ErrOfferNotFound.
	SetOfferAmount(owner ledger.Identity, asset ledger.AssetID, amount uint64) error

	// Close releases any resources held by the store.
	Close() error
}
