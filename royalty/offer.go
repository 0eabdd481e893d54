package royalty

import "github.com/openroyalty/libroyalty-go/ledger"

// Offer is a standing authorization by an asset owner naming exactly one
// counterparty permitted to trigger a royalty-enforced transfer, up to
// Amount units. A zero Amount is a valid terminal state: nothing left to
// sell. Offers are keyed by (owner, asset) in the state store; placing a
// new offer replaces the previous one wholesale.
type Offer struct {
	Counterparty ledger.Identity
	Amount       uint64
}
