package state

import (
	"sync"

	"github.com/openroyalty/libroyalty-go/ledger"
	"github.com/openroyalty/libroyalty-go/royalty"
)

type offerKey struct {
	owner ledger.Identity
	asset ledger.AssetID
}

// MemStore is an in-memory Store for tests and ephemeral deployments.
type MemStore struct {
	mu        sync.Mutex
	admin     ledger.Identity
	adminSet  bool
	policy    royalty.Policy
	policySet bool
	offers    map[offerKey]royalty.Offer
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{offers: make(map[offerKey]royalty.Offer)}
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// Administrator returns the current administrator identity.
func (s *MemStore) Administrator() (ledger.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.adminSet {
		return ledger.ZeroIdentity, ErrAdminNotSet
	}
	return s.admin, nil
}

// SetAdministrator replaces the administrator unconditionally.
func (s *MemStore) SetAdministrator(admin ledger.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = admin
	s.adminSet = true
	return nil
}

// Policy returns the royalty policy.
func (s *MemStore) Policy() (royalty.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.policySet {
		return royalty.Policy{}, ErrPolicyNotSet
	}
	return s.policy, nil
}

// SetPolicy persists the write-once policy.
func (s *MemStore) SetPolicy(p royalty.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policySet {
		return ErrPolicyAlreadySet
	}
	s.policy = p
	s.policySet = true
	return nil
}

// Offer returns the offer for (owner, asset).
func (s *MemStore) Offer(owner ledger.Identity, asset ledger.AssetID) (royalty.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.offers[offerKey{owner, asset}]
	if !ok {
		return royalty.Offer{}, ErrOfferNotFound
	}
	return offer, nil
}

// PutOffer replaces the offer for (owner, asset) wholesale.
func (s *MemStore) PutOffer(owner ledger.Identity, asset ledger.AssetID, offer royalty.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[offerKey{owner, asset}] = offer
	return nil
}

// SetOfferAmount updates the available amount of an existing offer.
func (s *MemStore) SetOfferAmount(owner ledger.Identity, asset ledger.AssetID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := offerKey{owner, asset}
	offer, ok := s.offers[key]
	if !ok {
		return ErrOfferNotFound
	}
	offer.Amount = amount
	s.offers[key] = offer
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }
