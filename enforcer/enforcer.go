// Package enforcer implements the royalty transfer-authorization engine:
// custody changes of a royalty asset clear through it as atomic
// payment-plus-release bundles, with a fixed share of every payment
// diverted to the policy recipient. The engine owns its state through a
// state.Store and issues commit effects through a ledger.Ledger; it never
// holds partial state — every operation validates fully, then commits as
// one atomic group, or aborts with no observable side effect.
package enforcer

import (
	"errors"
	"fmt"

	"github.com/openroyalty/libroyalty-go/ledger"
	"github.com/openroyalty/libroyalty-go/royalty"
	"github.com/openroyalty/libroyalty-go/state"
)

// Enforcer is one engine instance. Custody is the engine's own account on
// the host ledger: inbound payments land there before being split, and
// assets must grant it the clawback capability.
type Enforcer struct {
	store   state.Store
	ledger  ledger.Ledger
	custody ledger.Identity
}

// New initializes a fresh engine: the creator becomes the administrator.
// It fails with ErrAlreadyInitialized if the store already has one.
func New(store state.Store, ld ledger.Ledger, custody, creator ledger.Identity) (*Enforcer, error) {
	_, err := store.Administrator()
	switch {
	case err == nil:
		return nil, ErrAlreadyInitialized
	case !errors.Is(err, state.ErrAdminNotSet):
		return nil, fmt.Errorf("enforcer: read administrator: %w", err)
	}
	if err := store.SetAdministrator(creator); err != nil {
		return nil, fmt.Errorf("enforcer: set administrator: %w", err)
	}
	return &Enforcer{store: store, ledger: ld, custody: custody}, nil
}

// Open attaches to an already-initialized store.
func Open(store state.Store, ld ledger.Ledger, custody ledger.Identity) (*Enforcer, error) {
	if _, err := store.Administrator(); err != nil {
		if errors.Is(err, state.ErrAdminNotSet) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("enforcer: read administrator: %w", err)
	}
	return &Enforcer{store: store, ledger: ld, custody: custody}, nil
}

// Custody returns the engine's own account identity.
func (e *Enforcer) Custody() ledger.Identity { return e.custody }

// Administrator returns the current administrator identity.
func (e *Enforcer) Administrator() (ledger.Identity, error) {
	return e.store.Administrator()
}

// SetAdministrator replaces the administrator. Only the current
// administrator may name a successor; no history is retained.
func (e *Enforcer) SetAdministrator(caller, next ledger.Identity) error {
	if err := e.fromAdministrator(caller); err != nil {
		return err
	}
	return e.store.SetAdministrator(next)
}

// SetPolicy sets the write-once royalty policy: the rate in basis points
// and the recipient of the royalty share. Only the administrator may call
// it, and only before a policy exists — royalty terms are a trust anchor
// for buyers and cannot change once assets are offered under them.
func (e *Enforcer) SetPolicy(caller ledger.Identity, basis uint64, recipient ledger.Identity) error {
	if err := e.fromAdministrator(caller); err != nil {
		return err
	}
	p := royalty.Policy{Basis: basis, Recipient: recipient}
	if err := p.Validate(); err != nil {
		return err
	}
	return e.store.SetPolicy(p)
}

// Policy returns the stored royalty policy, or state.ErrPolicyNotSet.
func (e *Enforcer) Policy() (royalty.Policy, error) {
	return e.store.Policy()
}

// SetPaymentAssetAllowed opens or closes the engine's holding of a
// payment asset. The allowed set is owned entirely by the host ledger's
// membership state: enabling submits a zero-amount self-transfer (opt-in),
// disabling submits a zero-amount transfer closing the holding back to
// the asset creator. Admin-gated.
func (e *Enforcer) SetPaymentAssetAllowed(caller ledger.Identity, asset ledger.AssetID, allowed bool) error {
	if err := e.fromAdministrator(caller); err != nil {
		return err
	}
	holds, err := e.ledger.HoldsAsset(e.custody, asset)
	if err != nil {
		return fmt.Errorf("enforcer: query holding: %w", err)
	}
	switch {
	case allowed && !holds:
		return e.ledger.Submit([]ledger.Operation{
			ledger.Transfer(asset, e.custody, e.custody, 0),
		})
	case !allowed && holds:
		params, err := e.ledger.AssetParams(asset)
		if err != nil {
			return fmt.Errorf("enforcer: asset params: %w", err)
		}
		return e.ledger.Submit([]ledger.Operation{
			ledger.TransferClose(asset, e.custody, params.Creator, 0, params.Creator),
		})
	}
	return nil
}

// Offer creates or wholesale-replaces the caller's offer for the asset,
// naming the single counterparty allowed to trigger a royalty-enforced
// transfer of up to amount units. Preconditions, in order: the policy must
// be set, the asset must grant the engine clawback, its freeze and manager
// authorities must be absent or held by the engine, and the caller must
// hold at least amount units.
func (e *Enforcer) Offer(caller ledger.Identity, asset ledger.AssetID, amount uint64, counterparty ledger.Identity) error {
	if _, err := e.store.Policy(); err != nil {
		return err
	}

	params, err := e.ledger.AssetParams(asset)
	if err != nil {
		return fmt.Errorf("enforcer: asset params: %w", err)
	}
	if params.Clawback != e.custody {
		return fmt.Errorf("%w: asset %d", ErrMissingClawback, asset)
	}
	if !params.Freeze.IsZero() && params.Freeze != e.custody {
		return fmt.Errorf("%w: freeze held by %s", ErrUnsafeAssetAuthority, params.Freeze.Short())
	}
	if !params.Manager.IsZero() && params.Manager != e.custody {
		return fmt.Errorf("%w: manager held by %s", ErrUnsafeAssetAuthority, params.Manager.Short())
	}

	held, err := e.ledger.Balance(caller, asset)
	if err != nil {
		return fmt.Errorf("enforcer: query balance: %w", err)
	}
	if held < amount {
		return fmt.Errorf("%w: holds %d, offered %d", ErrInsufficientBalance, held, amount)
	}

	return e.store.PutOffer(caller, asset, royalty.Offer{Counterparty: counterparty, Amount: amount})
}

// GetOffer returns the offer for (owner, asset), or state.ErrOfferNotFound.
func (e *Enforcer) GetOffer(owner ledger.Identity, asset ledger.AssetID) (royalty.Offer, error) {
	return e.store.Offer(owner, asset)
}

func (e *Enforcer) fromAdministrator(caller ledger.Identity) error {
	admin, err := e.store.Administrator()
	if err != nil {
		return fmt.Errorf("enforcer: read administrator: %w", err)
	}
	if caller != admin {
		return fmt.Errorf("%w: %s is not the administrator", ErrUnauthorized, caller.Short())
	}
	return nil
}
