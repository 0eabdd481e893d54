package enforcer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroyalty/libroyalty-go/ledger"
	"github.com/openroyalty/libroyalty-go/royalty"
	"github.com/openroyalty/libroyalty-go/state"
)

// request builds a valid currency transfer request for the fixture.
func (f *fixture) request(amount, expected uint64) TransferRequest {
	return TransferRequest{
		RoyaltyAsset:        f.asset,
		Amount:              amount,
		Owner:               seller,
		Recipient:           buyer,
		RoyaltyRecipient:    collector,
		ExpectedOfferAmount: expected,
	}
}

// payment builds a valid inbound payment leg for the fixture.
func payment(amount uint64) ledger.PaymentLeg {
	return ledger.PaymentLeg{Sender: buyer, Receiver: custody, Amount: amount}
}

func (f *fixture) balance(t *testing.T, account ledger.Identity, asset ledger.AssetID) uint64 {
	t.Helper()
	bal, err := f.ledger.Balance(account, asset)
	require.NoError(t, err)
	return bal
}

// --- Currency transfer: happy path ---

// Policy 5%, offer of 1, payment of 1_000_000: the owner receives 950000,
// the collector 50000, and the offer is exhausted.
func TestTransferWithCurrency(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 1)
	f.ledger.Fund(buyer, 1_000_000)
	f.ledger.SetBalance(buyer, f.asset, 0) // open the buyer's holding

	err := f.enf.TransferWithCurrency(buyer, f.request(1, 1), ledger.NewTransferBundle(payment(1_000_000)))
	require.NoError(t, err)

	assert.Equal(t, uint64(950_000), f.balance(t, seller, ledger.NativeCurrency))
	assert.Equal(t, uint64(50_000), f.balance(t, collector, ledger.NativeCurrency))
	assert.Equal(t, uint64(0), f.balance(t, buyer, ledger.NativeCurrency))
	assert.Equal(t, uint64(0), f.balance(t, custody, ledger.NativeCurrency))

	assert.Equal(t, uint64(1), f.balance(t, buyer, f.asset))
	assert.Equal(t, uint64(9), f.balance(t, seller, f.asset))

	offer, err := f.enf.GetOffer(seller, f.asset)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), offer.Amount)
}

func TestTransferWithCurrency_PartialConsumption(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 5)
	f.ledger.Fund(buyer, 100)
	f.ledger.SetBalance(buyer, f.asset, 0)

	// Another seller's offer must stay untouched.
	other := ident(0x08)
	f.ledger.SetBalance(other, f.asset, 3)
	require.NoError(t, f.enf.Offer(other, f.asset, 3, buyer))

	err := f.enf.TransferWithCurrency(buyer, f.request(2, 5), ledger.NewTransferBundle(payment(100)))
	require.NoError(t, err)

	offer, err := f.enf.GetOffer(seller, f.asset)
	require.NoError(t, err)
	assert.Equal(t, royalty.Offer{Counterparty: buyer, Amount: 3}, offer)

	untouched, err := f.enf.GetOffer(other, f.asset)
	require.NoError(t, err)
	assert.Equal(t, royalty.Offer{Counterparty: buyer, Amount: 3}, untouched)
}

// Zero royalty share skips the royalty payment entirely.
func TestTransferWithCurrency_ZeroRoyaltyShare(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 1)
	f.ledger.Fund(buyer, 1)
	f.ledger.SetBalance(buyer, f.asset, 0)

	err := f.enf.TransferWithCurrency(buyer, f.request(1, 1), ledger.NewTransferBundle(payment(1)))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), f.balance(t, seller, ledger.NativeCurrency))
	assert.Equal(t, uint64(0), f.balance(t, collector, ledger.NativeCurrency))

	// Three operations: inbound payment, owner share, asset release.
	require.Len(t, f.ledger.Journal, 1)
	assert.Len(t, f.ledger.Journal[0], 3)
}

// --- Currency transfer: the ordered abort chain ---

func TestTransferWithCurrency_PolicyNotSet(t *testing.T) {
	f := newFixture(t)

	err := f.enf.TransferWithCurrency(buyer, f.request(1, 1), ledger.NewTransferBundle(payment(100)))
	assert.ErrorIs(t, err, state.ErrPolicyNotSet)
}

func TestTransferWithCurrency_OfferNotFound(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)

	err := f.enf.TransferWithCurrency(buyer, f.request(1, 1), ledger.NewTransferBundle(payment(100)))
	assert.ErrorIs(t, err, state.ErrOfferNotFound)
}

func TestTransferWithCurrency_BundleShape(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 1)
	pay := payment(100)

	tests := []struct {
		name   string
		bundle ledger.Bundle
	}{
		{"empty", ledger.Bundle{}},
		{"payment only", ledger.Bundle{Legs: []ledger.Leg{{Role: ledger.LegPayment, Payment: &pay}}}},
		{"three legs", ledger.Bundle{Legs: []ledger.Leg{
			{Role: ledger.LegPayment, Payment: &pay},
			{Role: ledger.LegAppCall},
			{Role: ledger.LegAppCall},
		}}},
		{"two payments", ledger.Bundle{Legs: []ledger.Leg{
			{Role: ledger.LegPayment, Payment: &pay},
			{Role: ledger.LegPayment, Payment: &pay},
		}}},
		{"two app calls", ledger.Bundle{Legs: []ledger.Leg{
			{Role: ledger.LegAppCall},
			{Role: ledger.LegAppCall},
		}}},
		{"nil payment", ledger.Bundle{Legs: []ledger.Leg{
			{Role: ledger.LegPayment},
			{Role: ledger.LegAppCall},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.enf.TransferWithCurrency(buyer, f.request(1, 1), tt.bundle)
			assert.ErrorIs(t, err, ErrBadBundleShape)
		})
	}
}

// A transfer by anyone but the authorized counterparty aborts regardless
// of the amount requested.
func TestTransferWithCurrency_Unauthorized(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 5)

	for _, amount := range []uint64{0, 1, 5} {
		pay := payment(100)
		pay.Sender = stranger
		err := f.enf.TransferWithCurrency(stranger, f.request(amount, 5), ledger.NewTransferBundle(pay))
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
}

func TestTransferWithCurrency_RekeyNotAllowed(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 1)

	pay := payment(100)
	pay.RekeyTo = stranger
	err := f.enf.TransferWithCurrency(buyer, f.request(1, 1), ledger.NewTransferBundle(pay))
	assert.ErrorIs(t, err, ErrRekeyNotAllowed)
}

func TestTransferWithCurrency_AmountExceedsOffer(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 3)

	err := f.enf.TransferWithCurrency(buyer, f.request(4, 3), ledger.NewTransferBundle(payment(100)))
	assert.ErrorIs(t, err, ErrAmountExceedsOffer)
}

func TestTransferWithCurrency_RecipientMismatch(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 1)

	req := f.request(1, 1)
	req.RoyaltyRecipient = stranger
	err := f.enf.TransferWithCurrency(buyer, req, ledger.NewTransferBundle(payment(100)))
	assert.ErrorIs(t, err, ErrRecipientMismatch)
}

// A stale expected amount aborts even when every other field is valid,
// and no funds move.
func TestTransferWithCurrency_StaleOffer(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 1)
	f.ledger.Fund(buyer, 2_000_000)
	f.ledger.SetBalance(buyer, f.asset, 0)

	err := f.enf.TransferWithCurrency(buyer, f.request(1, 1), ledger.NewTransferBundle(payment(1_000_000)))
	require.NoError(t, err)

	// Second attempt still believes the offer holds 1.
	err = f.enf.TransferWithCurrency(buyer, f.request(1, 1), ledger.NewTransferBundle(payment(1_000_000)))
	assert.ErrorIs(t, err, ErrStaleOffer)

	// No funds moved on the rejected attempt.
	assert.Equal(t, uint64(1_000_000), f.balance(t, buyer, ledger.NativeCurrency))
	assert.Equal(t, uint64(950_000), f.balance(t, seller, ledger.NativeCurrency))
	assert.Equal(t, uint64(50_000), f.balance(t, collector, ledger.NativeCurrency))
	assert.Len(t, f.ledger.Journal, 1)
}

func TestTransferWithCurrency_BadPaymentLeg(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 1)

	tests := []struct {
		name   string
		mutate func(*ledger.PaymentLeg)
	}{
		{"wrong sender", func(p *ledger.PaymentLeg) { p.Sender = stranger }},
		{"wrong receiver", func(p *ledger.PaymentLeg) { p.Receiver = seller }},
		{"close redirect", func(p *ledger.PaymentLeg) { p.CloseTo = stranger }},
		{"asset medium", func(p *ledger.PaymentLeg) { p.Asset = 42 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pay := payment(100)
			tt.mutate(&pay)
			err := f.enf.TransferWithCurrency(buyer, f.request(1, 1), ledger.NewTransferBundle(pay))
			assert.ErrorIs(t, err, ErrBadPaymentLeg)
		})
	}
}

// A rejected ledger commit leaves the offer untouched.
func TestTransferWithCurrency_CommitFailure(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 1)
	f.ledger.SetBalance(buyer, f.asset, 0)
	// Buyer is unfunded, so the inbound payment leg cannot finalize.

	err := f.enf.TransferWithCurrency(buyer, f.request(1, 1), ledger.NewTransferBundle(payment(1_000_000)))
	require.ErrorIs(t, err, ledger.ErrSubmitRejected)

	offer, err := f.enf.GetOffer(seller, f.asset)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), offer.Amount)
	assert.Equal(t, uint64(0), f.balance(t, seller, ledger.NativeCurrency))
}

// --- Asset-paid transfers ---

func TestTransferWithAsset(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 1)

	payAsset := f.ledger.CreateAsset(ledger.AssetParams{Creator: ident(0x0A), Total: 10_000_000})
	require.NoError(t, f.enf.SetPaymentAssetAllowed(admin, payAsset, true))
	f.ledger.SetBalance(buyer, payAsset, 1_000_000)
	f.ledger.SetBalance(seller, payAsset, 0)
	f.ledger.SetBalance(collector, payAsset, 0)
	f.ledger.SetBalance(buyer, f.asset, 0)

	pay := payment(1_000_000)
	pay.Asset = payAsset
	err := f.enf.TransferWithAsset(buyer, f.request(1, 1), payAsset, ledger.NewTransferBundle(pay))
	require.NoError(t, err)

	assert.Equal(t, uint64(950_000), f.balance(t, seller, payAsset))
	assert.Equal(t, uint64(50_000), f.balance(t, collector, payAsset))
	assert.Equal(t, uint64(1), f.balance(t, buyer, f.asset))

	offer, err := f.enf.GetOffer(seller, f.asset)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), offer.Amount)
}

func TestTransferWithAsset_MediumChecks(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 1)

	payAsset := f.ledger.CreateAsset(ledger.AssetParams{Creator: ident(0x0A), Total: 10_000_000})

	// Payment asset not enabled for the engine.
	pay := payment(100)
	pay.Asset = payAsset
	err := f.enf.TransferWithAsset(buyer, f.request(1, 1), payAsset, ledger.NewTransferBundle(pay))
	assert.ErrorIs(t, err, ErrBadPaymentLeg)

	require.NoError(t, f.enf.SetPaymentAssetAllowed(admin, payAsset, true))

	// Leg pays in a different medium than declared.
	pay = payment(100)
	err = f.enf.TransferWithAsset(buyer, f.request(1, 1), payAsset, ledger.NewTransferBundle(pay))
	assert.ErrorIs(t, err, ErrBadPaymentLeg)

	// Native currency is not a payment asset.
	pay = payment(100)
	err = f.enf.TransferWithAsset(buyer, f.request(1, 1), ledger.NativeCurrency, ledger.NewTransferBundle(pay))
	assert.ErrorIs(t, err, ErrBadPaymentLeg)
}

// --- Royalty-free move ---

func TestRoyaltyFreeMove(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 5)

	require.NoError(t, f.enf.RoyaltyFreeMove(buyer, f.asset, 2, seller, 5))

	// The offer is not consumed by a royalty-free move.
	offer, err := f.enf.GetOffer(seller, f.asset)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), offer.Amount)
	assert.Empty(t, f.ledger.Journal)
}

func TestRoyaltyFreeMove_Aborts(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 5)

	err := f.enf.RoyaltyFreeMove(buyer, f.asset, 1, stranger, 5)
	assert.ErrorIs(t, err, state.ErrOfferNotFound)

	err = f.enf.RoyaltyFreeMove(buyer, f.asset, 1, seller, 4)
	assert.ErrorIs(t, err, ErrStaleOffer)

	err = f.enf.RoyaltyFreeMove(buyer, f.asset, 6, seller, 5)
	assert.ErrorIs(t, err, ErrAmountExceedsOffer)

	err = f.enf.RoyaltyFreeMove(stranger, f.asset, 1, seller, 5)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
