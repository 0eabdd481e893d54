package enforcer

import (
	"fmt"

	"github.com/openroyalty/libroyalty-go/ledger"
	"github.com/openroyalty/libroyalty-go/royalty"
)

// TransferRequest is the asset-release half of an atomic transfer bundle.
// It is ephemeral: nothing of it is persisted.
type TransferRequest struct {
	RoyaltyAsset ledger.AssetID
	Amount       uint64          // units of the royalty asset to release
	Owner        ledger.Identity // current custodian of the asset
	Recipient    ledger.Identity // receives the released units
	// RoyaltyRecipient is the caller's claim of the policy recipient;
	// it must match the stored policy exactly.
	RoyaltyRecipient ledger.Identity
	// ExpectedOfferAmount is the caller's view of the offer's available
	// amount; a mismatch means the offer was consumed concurrently and
	// the transfer aborts.
	ExpectedOfferAmount uint64
}

// TransferWithCurrency validates and commits a royalty-enforced transfer
// paid in the ledger's native currency. The bundle must be exactly the
// inbound payment leg plus this app call. On success the payment is split
// per the policy, the asset units are released from the owner to the
// recipient under the engine's clawback, and the offer's available amount
// is decremented — all as one atomic group. Any violated precondition
// aborts the whole bundle with no state change.
func (e *Enforcer) TransferWithCurrency(caller ledger.Identity, req TransferRequest, bundle ledger.Bundle) error {
	policy, offer, pay, err := e.validateTransfer(caller, req, bundle)
	if err != nil {
		return err
	}
	if pay.Asset != ledger.NativeCurrency {
		return fmt.Errorf("%w: expected currency payment, got asset %d", ErrBadPaymentLeg, pay.Asset)
	}
	return e.commit(req, offer, policy, pay)
}

// TransferWithAsset is TransferWithCurrency with the payment made in an
// allowed fungible payment asset instead of native currency.
func (e *Enforcer) TransferWithAsset(caller ledger.Identity, req TransferRequest, paymentAsset ledger.AssetID, bundle ledger.Bundle) error {
	policy, offer, pay, err := e.validateTransfer(caller, req, bundle)
	if err != nil {
		return err
	}
	if paymentAsset == ledger.NativeCurrency || pay.Asset != paymentAsset {
		return fmt.Errorf("%w: payment must be in asset %d", ErrBadPaymentLeg, paymentAsset)
	}
	holds, err := e.ledger.HoldsAsset(e.custody, paymentAsset)
	if err != nil {
		return fmt.Errorf("enforcer: query holding: %w", err)
	}
	if !holds {
		return fmt.Errorf("%w: payment asset %d not allowed", ErrBadPaymentLeg, paymentAsset)
	}
	return e.commit(req, offer, policy, pay)
}

// RoyaltyFreeMove authorizes a transfer whose royalty was settled
// out-of-band: it runs the offer-existence, staleness, amount, and
// authorization checks but performs no payment, no split, and no state
// mutation. In particular the offer's available amount is NOT consumed;
// callers tracking remaining quantity must do so elsewhere.
func (e *Enforcer) RoyaltyFreeMove(caller ledger.Identity, asset ledger.AssetID, amount uint64, owner ledger.Identity, expectedOfferAmount uint64) error {
	offer, err := e.store.Offer(owner, asset)
	if err != nil {
		return err
	}
	if offer.Amount != expectedOfferAmount {
		return fmt.Errorf("%w: offer has %d, caller expected %d", ErrStaleOffer, offer.Amount, expectedOfferAmount)
	}
	if amount > offer.Amount {
		return fmt.Errorf("%w: requested %d of %d", ErrAmountExceedsOffer, amount, offer.Amount)
	}
	if caller != offer.Counterparty {
		return fmt.Errorf("%w: %s is not the authorized counterparty", ErrUnauthorized, caller.Short())
	}
	return nil
}

// validateTransfer runs the ordered precondition chain shared by both
// transfer variants (steps 1–8 plus the payment-leg identity checks).
// The check order is fixed and observable through the returned error.
func (e *Enforcer) validateTransfer(caller ledger.Identity, req TransferRequest, bundle ledger.Bundle) (royalty.Policy, royalty.Offer, *ledger.PaymentLeg, error) {
	fail := func(err error) (royalty.Policy, royalty.Offer, *ledger.PaymentLeg, error) {
		return royalty.Policy{}, royalty.Offer{}, nil, err
	}

	policy, err := e.store.Policy()
	if err != nil {
		return fail(err)
	}
	offer, err := e.store.Offer(req.Owner, req.RoyaltyAsset)
	if err != nil {
		return fail(err)
	}

	pay, err := paymentLeg(bundle)
	if err != nil {
		return fail(err)
	}
	if caller != offer.Counterparty {
		return fail(fmt.Errorf("%w: %s is not the authorized counterparty", ErrUnauthorized, caller.Short()))
	}
	if !pay.RekeyTo.IsZero() {
		return fail(fmt.Errorf("%w: rekey to %s", ErrRekeyNotAllowed, pay.RekeyTo.Short()))
	}
	if req.Amount > offer.Amount {
		return fail(fmt.Errorf("%w: requested %d of %d", ErrAmountExceedsOffer, req.Amount, offer.Amount))
	}
	if req.RoyaltyRecipient != policy.Recipient {
		return fail(fmt.Errorf("%w: claimed %s", ErrRecipientMismatch, req.RoyaltyRecipient.Short()))
	}
	if req.ExpectedOfferAmount != offer.Amount {
		return fail(fmt.Errorf("%w: offer has %d, caller expected %d", ErrStaleOffer, offer.Amount, req.ExpectedOfferAmount))
	}
	if pay.Sender != offer.Counterparty {
		return fail(fmt.Errorf("%w: sender %s is not the counterparty", ErrBadPaymentLeg, pay.Sender.Short()))
	}
	if pay.Receiver != e.custody {
		return fail(fmt.Errorf("%w: receiver %s is not the engine custody account", ErrBadPaymentLeg, pay.Receiver.Short()))
	}
	if !pay.CloseTo.IsZero() {
		return fail(fmt.Errorf("%w: close redirect to %s", ErrBadPaymentLeg, pay.CloseTo.Short()))
	}

	return policy, offer, pay, nil
}

// paymentLeg enforces the bundle shape — exactly one payment leg plus one
// app-call leg — and returns the payment leg.
func paymentLeg(bundle ledger.Bundle) (*ledger.PaymentLeg, error) {
	if len(bundle.Legs) != 2 {
		return nil, fmt.Errorf("%w: %d legs", ErrBadBundleShape, len(bundle.Legs))
	}
	var pay *ledger.PaymentLeg
	var appCalls int
	for _, leg := range bundle.Legs {
		switch leg.Role {
		case ledger.LegPayment:
			if pay != nil || leg.Payment == nil {
				return nil, fmt.Errorf("%w: malformed payment leg", ErrBadBundleShape)
			}
			pay = leg.Payment
		case ledger.LegAppCall:
			appCalls++
		default:
			return nil, fmt.Errorf("%w: unknown leg role %d", ErrBadBundleShape, leg.Role)
		}
	}
	if pay == nil || appCalls != 1 {
		return nil, fmt.Errorf("%w: need one payment and one app call", ErrBadBundleShape)
	}
	return pay, nil
}

// commit computes the split and issues the full atomic group: the inbound
// payment, the owner's share, the royalty share (skipped when zero), and
// the clawback release — then records the consumed offer amount. If the
// ledger cannot finalize the group, nothing takes effect and the offer is
// untouched.
func (e *Enforcer) commit(req TransferRequest, offer royalty.Offer, policy royalty.Policy, pay *ledger.PaymentLeg) error {
	ownerShare, royaltyShare, err := royalty.ComputeSplit(pay.Amount, policy.Basis)
	if err != nil {
		return err
	}

	ops := []ledger.Operation{
		{Kind: kindFor(pay.Asset), Asset: pay.Asset, Sender: pay.Sender, Receiver: e.custody, Amount: pay.Amount},
		{Kind: kindFor(pay.Asset), Asset: pay.Asset, Sender: e.custody, Receiver: req.Owner, Amount: ownerShare},
	}
	if royaltyShare > 0 {
		ops = append(ops, ledger.Operation{
			Kind: kindFor(pay.Asset), Asset: pay.Asset, Sender: e.custody, Receiver: policy.Recipient, Amount: royaltyShare,
		})
	}
	ops = append(ops, ledger.Transfer(req.RoyaltyAsset, req.Owner, req.Recipient, req.Amount))

	if err := e.ledger.Submit(ops); err != nil {
		return fmt.Errorf("enforcer: commit transfer: %w", err)
	}
	if err := e.store.SetOfferAmount(req.Owner, req.RoyaltyAsset, offer.Amount-req.Amount); err != nil {
		return fmt.Errorf("enforcer: record consumed offer: %w", err)
	}
	return nil
}

func kindFor(asset ledger.AssetID) ledger.OpKind {
	if asset == ledger.NativeCurrency {
		return ledger.OpPay
	}
	return ledger.OpAssetTransfer
}
