package ledger

// OpKind tags the kind of a committed operation.
type OpKind uint8

const (
	// OpPay moves native currency.
	OpPay OpKind = iota + 1
	// OpAssetTransfer moves units of an issued asset. When the sender is
	// not the submitting authority the transfer is executed under the
	// asset's clawback capability.
	OpAssetTransfer
)

// Operation is one ledger effect issued by the enforcer at commit time.
// Operations are submitted as an ordered group that the host ledger
// applies atomically.
type Operation struct {
	Kind     OpKind
	Asset    AssetID // NativeCurrency for OpPay
	Sender   Identity
	Receiver Identity
	Amount   uint64
	CloseTo  Identity // non-zero only when closing out a holding
}

// Pay builds a native-currency payment operation.
func Pay(sender, receiver Identity, amount uint64) Operation {
	return Operation{Kind: OpPay, Asset: NativeCurrency, Sender: sender, Receiver: receiver, Amount: amount}
}

// Transfer builds an asset-transfer operation.
func Transfer(asset AssetID, sender, receiver Identity, amount uint64) Operation {
	return Operation{Kind: OpAssetTransfer, Asset: asset, Sender: sender, Receiver: receiver, Amount: amount}
}

// TransferClose builds an asset transfer that also closes the sender's
// holding, redirecting any remaining balance to closeTo.
func TransferClose(asset AssetID, sender, receiver Identity, amount uint64, closeTo Identity) Operation {
	return Operation{Kind: OpAssetTransfer, Asset: asset, Sender: sender, Receiver: receiver, Amount: amount, CloseTo: closeTo}
}

// Ledger is the host-ledger seam the enforcer operates against. Reads are
// point-in-time snapshots under the host's global serialization; Submit
// applies an operation group atomically — all operations take effect or
// none do.
type Ledger interface {
	// AssetParams returns the capability descriptor for an asset.
	AssetParams(asset AssetID) (AssetParams, error)

	// Balance returns the account's balance of the asset
	// (NativeCurrency for the currency balance).
	Balance(account Identity, asset AssetID) (uint64, error)

	// HoldsAsset reports whether the account has an open holding
	// (opt-in) for the asset.
	HoldsAsset(account Identity, asset AssetID) (bool, error)

	// Submit applies the operation group atomically.
	Submit(ops []Operation) error
}
