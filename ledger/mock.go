package ledger

import (
	"fmt"
	"sync"
)

// Mock is an in-memory Ledger for tests and demos. It tracks currency and
// asset balances, asset capability parameters, and holdings, and journals
// every submitted operation group. Submit validates the whole group before
// applying anything, so a rejected group leaves no partial state.
type Mock struct {
	mu       sync.Mutex
	nextID   AssetID
	assets   map[AssetID]AssetParams
	balances map[Identity]map[AssetID]uint64
	holdings map[Identity]map[AssetID]bool

	// Journal records every successfully applied operation group in order.
	Journal [][]Operation

	// SubmitErr, when non-nil, causes the next Submit to fail with this
	// error without applying anything.
	SubmitErr error
}

// NewMock returns an empty mock ledger.
func NewMock() *Mock {
	return &Mock{
		nextID:   1,
		assets:   make(map[AssetID]AssetParams),
		balances: make(map[Identity]map[AssetID]uint64),
		holdings: make(map[Identity]map[AssetID]bool),
	}
}

// Compile-time interface check.
var _ Ledger = (*Mock)(nil)

// CreateAsset registers an asset and credits its total supply to the
// creator, returning the new AssetID.
func (m *Mock) CreateAsset(params AssetParams) AssetID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.assets[id] = params
	m.credit(params.Creator, id, params.Total)
	m.holding(params.Creator)[id] = true
	return id
}

// Fund credits native currency to an account.
func (m *Mock) Fund(account Identity, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credit(account, NativeCurrency, amount)
}

// SetBalance sets an account's asset balance directly and opens a holding.
func (m *Mock) SetBalance(account Identity, asset AssetID, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance(account)[asset] = amount
	m.holding(account)[asset] = true
}

// AssetParams returns the capability descriptor for an asset.
func (m *Mock) AssetParams(asset AssetID) (AssetParams, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	params, ok := m.assets[asset]
	if !ok {
		return AssetParams{}, fmt.Errorf("%w: asset %d", ErrUnknownAsset, asset)
	}
	return params, nil
}

// Balance returns the account's balance of the asset.
func (m *Mock) Balance(account Identity, asset AssetID) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance(account)[asset], nil
}

// HoldsAsset reports whether the account has an open holding for the asset.
func (m *Mock) HoldsAsset(account Identity, asset AssetID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.holding(account)[asset], nil
}

// Submit validates and applies the operation group atomically.
func (m *Mock) Submit(ops []Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SubmitErr != nil {
		err := m.SubmitErr
		m.SubmitErr = nil
		return err
	}

	// Validate the whole group against a scratch copy before mutating.
	scratch := m.copyBalances()
	for i, op := range ops {
		if err := m.check(scratch, op); err != nil {
			return fmt.Errorf("%w: op %d: %w", ErrSubmitRejected, i, err)
		}
		applyOp(scratch, op)
	}

	for _, op := range ops {
		applyOp(m.balances, op)
		if op.Kind == OpAssetTransfer {
			m.applyHolding(op)
		}
	}
	m.Journal = append(m.Journal, ops)
	return nil
}

func (m *Mock) check(balances map[Identity]map[AssetID]uint64, op Operation) error {
	if op.Kind == OpAssetTransfer {
		if _, ok := m.assets[op.Asset]; !ok {
			return fmt.Errorf("%w: asset %d", ErrUnknownAsset, op.Asset)
		}
		// Zero-amount self-transfer is the opt-in form and needs no holding.
		if op.Amount == 0 && op.Sender == op.Receiver {
			return nil
		}
		if !m.holding(op.Receiver)[op.Asset] {
			return fmt.Errorf("%w: receiver %s asset %d", ErrNotOptedIn, op.Receiver.Short(), op.Asset)
		}
	}
	if balances[op.Sender][op.Asset] < op.Amount {
		return fmt.Errorf("%w: %s has %d of asset %d, needs %d",
			ErrInsufficientFunds, op.Sender.Short(), balances[op.Sender][op.Asset], op.Asset, op.Amount)
	}
	return nil
}

func applyOp(balances map[Identity]map[AssetID]uint64, op Operation) {
	if balances[op.Sender] == nil {
		balances[op.Sender] = make(map[AssetID]uint64)
	}
	if balances[op.Receiver] == nil {
		balances[op.Receiver] = make(map[AssetID]uint64)
	}
	balances[op.Sender][op.Asset] -= op.Amount
	balances[op.Receiver][op.Asset] += op.Amount
	if !op.CloseTo.IsZero() {
		if balances[op.CloseTo] == nil {
			balances[op.CloseTo] = make(map[AssetID]uint64)
		}
		balances[op.CloseTo][op.Asset] += balances[op.Sender][op.Asset]
		balances[op.Sender][op.Asset] = 0
	}
}

func (m *Mock) applyHolding(op Operation) {
	if op.Amount == 0 && op.Sender == op.Receiver {
		m.holding(op.Sender)[op.Asset] = true
	}
	if !op.CloseTo.IsZero() {
		delete(m.holding(op.Sender), op.Asset)
	}
}

func (m *Mock) balance(account Identity) map[AssetID]uint64 {
	if m.balances[account] == nil {
		m.balances[account] = make(map[AssetID]uint64)
	}
	return m.balances[account]
}

func (m *Mock) holding(account Identity) map[AssetID]bool {
	if m.holdings[account] == nil {
		m.holdings[account] = make(map[AssetID]bool)
	}
	return m.holdings[account]
}

func (m *Mock) credit(account Identity, asset AssetID, amount uint64) {
	m.balance(account)[asset] += amount
}

func (m *Mock) copyBalances() map[Identity]map[AssetID]uint64 {
	out := make(map[Identity]map[AssetID]uint64, len(m.balances))
	for acct, by := range m.balances {
		inner := make(map[AssetID]uint64, len(by))
		for asset, amt := range by {
			inner[asset] = amt
		}
		out[acct] = inner
	}
	return out
}
