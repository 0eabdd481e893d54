package ledger

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveIdentity derives a deterministic identity from a seed and a label
// using HKDF-SHA256. The same (seed, label) pair always yields the same
// identity, so demos and tests can reconstruct their accounts from a
// single seed.
func DeriveIdentity(seed []byte, label string) (Identity, error) {
	var id Identity
	if len(seed) == 0 {
		return ZeroIdentity, fmt.Errorf("%w: empty seed", ErrInvalidIdentity)
	}
	r := hkdf.New(sha256.New, seed, nil, []byte(label))
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return ZeroIdentity, fmt.Errorf("ledger: derive identity: %w", err)
	}
	return id, nil
}
