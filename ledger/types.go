package ledger

import "encoding/hex"

// Identity is an opaque, globally unique account reference on the host
// ledger. Identities are equality-comparable; the zero value is the
// reserved "no identity" sentinel.
type Identity [32]byte

// ZeroIdentity is the reserved sentinel meaning "no identity". Payment
// legs that rekey or close-redirect to anything other than ZeroIdentity
// are rejected by the enforcer.
var ZeroIdentity Identity

// IsZero reports whether id is the "no identity" sentinel.
func (id Identity) IsZero() bool { return id == ZeroIdentity }

// String returns the full hex encoding of the identity.
func (id Identity) String() string { return hex.EncodeToString(id[:]) }

// Short returns an abbreviated hex form for display.
func (id Identity) Short() string {
	s := hex.EncodeToString(id[:])
	return s[:8] + ".." + s[len(s)-4:]
}

// ParseIdentity decodes a 64-character hex string into an Identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(id) {
		return ZeroIdentity, ErrInvalidIdentity
	}
	copy(id[:], b)
	return id, nil
}

// AssetID identifies an asset on the host ledger.
type AssetID uint64

// NativeCurrency is the AssetID used in payment legs and operations that
// move the ledger's native currency rather than an issued asset.
const NativeCurrency AssetID = 0

// AssetParams describes an asset's externally-visible capability
// configuration. The enforcer fetches it once per operation and inspects
// the authority fields; it never mutates them.
type AssetParams struct {
	Creator  Identity
	Clawback Identity // authority allowed to move units out of any holder
	Freeze   Identity // authority allowed to freeze holdings (zero if none)
	Manager  Identity // authority allowed to reconfigure (zero if none)
	Total    uint64
	Decimals uint32
	UnitName string
	URL      string // metadata URI, typically ipfs://
}

// PaymentLeg is the payment half of a transfer bundle as observed by the
// enforcer: who pays whom, how much, in which medium, and whether the leg
// carries a rekey or close-redirect instruction.
type PaymentLeg struct {
	Sender   Identity
	Receiver Identity
	Amount   uint64
	Asset    AssetID // NativeCurrency for currency payments
	RekeyTo  Identity
	CloseTo  Identity
}

// LegRole tags the role of a leg within a transfer bundle.
type LegRole uint8

const (
	// LegPayment is the inbound payment leg.
	LegPayment LegRole = iota + 1
	// LegAppCall is the asset-release trigger addressed to the enforcer.
	LegAppCall
)

// Leg is one entry of a transfer bundle. Payment is non-nil only for
// LegPayment legs.
type Leg struct {
	Role    LegRole
	Payment *PaymentLeg
}

// Bundle is the ordered list of legs submitted together. The host ledger
// guarantees all legs commit together or none do; the enforcer validates
// the shape (exactly one payment leg plus one app-call leg).
type Bundle struct {
	Legs []Leg
}

// NewTransferBundle builds the canonical two-leg bundle for a
// royalty-enforced transfer: the given payment followed by the app call.
func NewTransferBundle(payment PaymentLeg) Bundle {
	return Bundle{Legs: []Leg{
		{Role: LegPayment, Payment: &payment},
		{Role: LegAppCall},
	}}
}
