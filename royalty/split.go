package royalty

import (
	"fmt"
	"math"
)

// ComputeSplit divides a gross payment into the owner's share and the
// royalty share at the given rate in basis points. The royalty share is
// floor(gross*basis/10000); the integer-division remainder goes to the
// owner. The multiplication is checked: a gross amount that cannot be
// scaled by the basis without overflow fails with ErrAmountOverflow.
func ComputeSplit(gross, basis uint64) (ownerShare, royaltyShare uint64, err error) {
	if basis > MaxBasis {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidBasis, basis)
	}
	if basis != 0 && gross > math.MaxUint64/basis {
		return 0, 0, fmt.Errorf("%w: amount %d at basis %d", ErrAmountOverflow, gross, basis)
	}
	royaltyShare = gross * basis / MaxBasis
	return gross - royaltyShare, royaltyShare, nil
}
