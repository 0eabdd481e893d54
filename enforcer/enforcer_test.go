package enforcer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroyalty/libroyalty-go/ledger"
	"github.com/openroyalty/libroyalty-go/royalty"
	"github.com/openroyalty/libroyalty-go/state"
)

func ident(seed byte) ledger.Identity {
	var id ledger.Identity
	for i := range id {
		id[i] = seed
	}
	return id
}

var (
	admin     = ident(0x01)
	seller    = ident(0x02)
	buyer     = ident(0x03)
	collector = ident(0x04) // royalty recipient
	custody   = ident(0x0C)
	stranger  = ident(0x0F)
)

type fixture struct {
	enf    *Enforcer
	ledger *ledger.Mock
	store  *state.MemStore
	asset  ledger.AssetID
}

// newFixture builds an initialized engine with a clawback-controlled asset
// held by the seller.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	mock := ledger.NewMock()
	store := state.NewMemStore()
	enf, err := New(store, mock, custody, admin)
	require.NoError(t, err)

	asset := mock.CreateAsset(ledger.AssetParams{
		Creator:  seller,
		Clawback: custody,
		Total:    10,
		UnitName: "ART",
	})
	return &fixture{enf: enf, ledger: mock, store: store, asset: asset}
}

func (f *fixture) setPolicy(t *testing.T, basis uint64) {
	t.Helper()
	require.NoError(t, f.enf.SetPolicy(admin, basis, collector))
}

func (f *fixture) offer(t *testing.T, amount uint64) {
	t.Helper()
	require.NoError(t, f.enf.Offer(seller, f.asset, amount, buyer))
}

// --- Initialization and admin gate ---

func TestNew_SetsCreatorAsAdministrator(t *testing.T) {
	f := newFixture(t)

	got, err := f.enf.Administrator()
	require.NoError(t, err)
	assert.Equal(t, admin, got)
}

func TestNew_FailsOnInitializedStore(t *testing.T) {
	f := newFixture(t)

	_, err := New(f.store, f.ledger, custody, stranger)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	// The original administrator is untouched.
	got, err := f.enf.Administrator()
	require.NoError(t, err)
	assert.Equal(t, admin, got)
}

func TestOpen(t *testing.T) {
	f := newFixture(t)

	reopened, err := Open(f.store, f.ledger, custody)
	require.NoError(t, err)
	got, err := reopened.Administrator()
	require.NoError(t, err)
	assert.Equal(t, admin, got)

	_, err = Open(state.NewMemStore(), f.ledger, custody)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestSetAdministrator(t *testing.T) {
	f := newFixture(t)

	err := f.enf.SetAdministrator(stranger, stranger)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.enf.SetAdministrator(admin, seller))
	got, err := f.enf.Administrator()
	require.NoError(t, err)
	assert.Equal(t, seller, got)

	// The old admin lost the capability.
	err = f.enf.SetAdministrator(admin, admin)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// --- Policy ---

func TestSetPolicy(t *testing.T) {
	f := newFixture(t)

	err := f.enf.SetPolicy(stranger, 500, collector)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.enf.SetPolicy(admin, royalty.MaxBasis+1, collector)
	assert.ErrorIs(t, err, royalty.ErrInvalidBasis)

	err = f.enf.SetPolicy(admin, 500, ledger.ZeroIdentity)
	assert.ErrorIs(t, err, royalty.ErrNoRecipient)

	_, err = f.enf.Policy()
	assert.ErrorIs(t, err, state.ErrPolicyNotSet)

	require.NoError(t, f.enf.SetPolicy(admin, 500, collector))
	p, err := f.enf.Policy()
	require.NoError(t, err)
	assert.Equal(t, royalty.Policy{Basis: 500, Recipient: collector}, p)
}

func TestSetPolicy_WriteOnce(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)

	// A second call always fails regardless of arguments.
	err := f.enf.SetPolicy(admin, 500, collector)
	assert.ErrorIs(t, err, state.ErrPolicyAlreadySet)
	err = f.enf.SetPolicy(admin, 100, ident(0x09))
	assert.ErrorIs(t, err, state.ErrPolicyAlreadySet)
}

// --- Payment asset toggle ---

func TestSetPaymentAssetAllowed(t *testing.T) {
	f := newFixture(t)
	payAsset := f.ledger.CreateAsset(ledger.AssetParams{Creator: ident(0x0A), Total: 1_000_000})

	err := f.enf.SetPaymentAssetAllowed(stranger, payAsset, true)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.enf.SetPaymentAssetAllowed(admin, payAsset, true))
	holds, err := f.ledger.HoldsAsset(custody, payAsset)
	require.NoError(t, err)
	assert.True(t, holds)

	// Enabling twice is a no-op.
	require.NoError(t, f.enf.SetPaymentAssetAllowed(admin, payAsset, true))

	require.NoError(t, f.enf.SetPaymentAssetAllowed(admin, payAsset, false))
	holds, err = f.ledger.HoldsAsset(custody, payAsset)
	require.NoError(t, err)
	assert.False(t, holds)

	// Disabling twice is a no-op.
	require.NoError(t, f.enf.SetPaymentAssetAllowed(admin, payAsset, false))
}

// --- Offer ---

func TestOffer_RequiresPolicy(t *testing.T) {
	f := newFixture(t)

	err := f.enf.Offer(seller, f.asset, 1, buyer)
	assert.ErrorIs(t, err, state.ErrPolicyNotSet)
}

func TestOffer_RequiresClawback(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	loose := f.ledger.CreateAsset(ledger.AssetParams{Creator: seller, Total: 10})

	err := f.enf.Offer(seller, loose, 1, buyer)
	assert.ErrorIs(t, err, ErrMissingClawback)
}

func TestOffer_RejectsUnsafeAuthorities(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)

	tests := []struct {
		name   string
		params ledger.AssetParams
		ok     bool
	}{
		{"freeze by third party", ledger.AssetParams{Creator: seller, Clawback: custody, Freeze: stranger, Total: 10}, false},
		{"manager by third party", ledger.AssetParams{Creator: seller, Clawback: custody, Manager: stranger, Total: 10}, false},
		{"freeze and manager by engine", ledger.AssetParams{Creator: seller, Clawback: custody, Freeze: custody, Manager: custody, Total: 10}, true},
		{"no freeze or manager", ledger.AssetParams{Creator: seller, Clawback: custody, Total: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset := f.ledger.CreateAsset(tt.params)
			err := f.enf.Offer(seller, asset, 1, buyer)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnsafeAssetAuthority)
			}
		})
	}
}

func TestOffer_RequiresHeldBalance(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)

	// stranger holds zero units but offers one.
	err := f.enf.Offer(stranger, f.asset, 1, buyer)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	err = f.enf.Offer(seller, f.asset, 11, buyer)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	require.NoError(t, f.enf.Offer(seller, f.asset, 10, buyer))
}

func TestOffer_ReplacesWholesale(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, 500)
	f.offer(t, 10)

	require.NoError(t, f.enf.Offer(seller, f.asset, 2, stranger))

	got, err := f.enf.GetOffer(seller, f.asset)
	require.NoError(t, err)
	assert.Equal(t, royalty.Offer{Counterparty: stranger, Amount: 2}, got)
}

func TestGetOffer_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.enf.GetOffer(seller, f.asset)
	assert.ErrorIs(t, err, state.ErrOfferNotFound)
}
