// Package royalty holds the domain values of the royalty enforcement
// engine: the global policy, per-owner offers, and the payment split
// computation. Everything here is pure; persistence lives in the state
// package and commit effects in the enforcer package.
package royalty

import (
	"fmt"

	"github.com/openroyalty/libroyalty-go/ledger"
)

// MaxBasis is 100% expressed in basis points.
const MaxBasis uint64 = 10000

// Policy is the process-wide royalty policy: the rate in basis points and
// the identity that collects the royalty share. Once set, a policy is
// immutable for the lifetime of the deployment.
type Policy struct {
	Basis     uint64
	Recipient ledger.Identity
}

// Validate checks the policy fields are within bounds.
func (p Policy) Validate() error {
	if p.Basis > MaxBasis {
		return fmt.Errorf("%w: %d", ErrInvalidBasis, p.Basis)
	}
	if p.Recipient.IsZero() {
		return ErrNoRecipient
	}
	return nil
}
