package state

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/openroyalty/libroyalty-go/ledger"
	"github.com/openroyalty/libroyalty-go/royalty"
)

var (
	bucketAdmin  = []byte("admin")
	bucketPolicy = []byte("policy")
	bucketOffers = []byte("offers")
)

var (
	keyAdministrator = []byte("administrator")
	keyPolicy        = []byte("policy")
)

// Fixed-layout record sizes.
const (
	policyRecordSize = 40 // recipient(32) + basis(8)
	offerRecordSize  = 40 // counterparty(32) + amount(8)
	offerKeySize     = 40 // owner(32) + asset(8)
)

// BoltStore persists engine state in a bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("state: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("state: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAdmin, bucketPolicy, bucketOffers} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Administrator returns the current administrator identity.
func (s *BoltStore) Administrator() (ledger.Identity, error) {
	var admin ledger.Identity
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAdmin).Get(keyAdministrator)
		if data == nil {
			return ErrAdminNotSet
		}
		if len(data) != len(admin) {
			return fmt.Errorf("%w: %d bytes", ErrInvalidAdminRecord, len(data))
		}
		copy(admin[:], data)
		return nil
	})
	if err != nil {
		return ledger.ZeroIdentity, err
	}
	return admin, nil
}

// SetAdministrator replaces the administrator unconditionally.
func (s *BoltStore) SetAdministrator(admin ledger.Identity) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketAdmin).Put(keyAdministrator, admin[:]); err != nil {
			return fmt.Errorf("boltstore: put administrator: %w", err)
		}
		return nil
	})
}

// Policy returns the royalty policy.
func (s *BoltStore) Policy() (royalty.Policy, error) {
	var policy royalty.Policy
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPolicy).Get(keyPolicy)
		if data == nil {
			return ErrPolicyNotSet
		}
		p, err := decodePolicy(data)
		if err != nil {
			return err
		}
		policy = p
		return nil
	})
	if err != nil {
		return royalty.Policy{}, err
	}
	return policy, nil
}

// SetPolicy persists the write-once policy. Both fields are written in a
// single bolt transaction, so a reader never observes a half-set policy.
func (s *BoltStore) SetPolicy(p royalty.Policy) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketPolicy)
		if b.Get(keyPolicy) != nil {
			return ErrPolicyAlreadySet
		}
		if err := b.Put(keyPolicy, encodePolicy(p)); err != nil {
			return fmt.Errorf("boltstore: put policy: %w", err)
		}
		return nil
	})
}

// Offer returns the offer for (owner, asset).
func (s *BoltStore) Offer(owner ledger.Identity, asset ledger.AssetID) (royalty.Offer, error) {
	var offer royalty.Offer
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketOffers).Get(encodeOfferKey(owner, asset))
		if data == nil {
			return ErrOfferNotFound
		}
		o, err := decodeOffer(data)
		if err != nil {
			return err
		}
		offer = o
		return nil
	})
	if err != nil {
		return royalty.Offer{}, err
	}
	return offer, nil
}

// PutOffer replaces the offer for (owner, asset) wholesale.
func (s *BoltStore) PutOffer(owner ledger.Identity, asset ledger.AssetID, offer royalty.Offer) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketOffers).Put(encodeOfferKey(owner, asset), encodeOffer(offer)); err != nil {
			return fmt.Errorf("boltstore: put offer: %w", err)
		}
		return nil
	})
}

// SetOfferAmount updates the available amount of an existing offer. The
// read-modify-write runs inside one bolt transaction.
func (s *BoltStore) SetOfferAmount(owner ledger.Identity, asset ledger.AssetID, amount uint64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketOffers)
		key := encodeOfferKey(owner, asset)
		data := b.Get(key)
		if data == nil {
			return ErrOfferNotFound
		}
		offer, err := decodeOffer(data)
		if err != nil {
			return err
		}
		offer.Amount = amount
		if err := b.Put(key, encodeOffer(offer)); err != nil {
			return fmt.Errorf("boltstore: update offer amount: %w", err)
		}
		return nil
	})
}

// encodeOfferKey builds the composite offer key: owner(32) + asset(8),
// big-endian so offers for one owner sort together.
func encodeOfferKey(owner ledger.Identity, asset ledger.AssetID) []byte {
	key := make([]byte, offerKeySize)
	copy(key[0:32], owner[:])
	binary.BigEndian.PutUint64(key[32:40], uint64(asset))
	return key
}

// encodePolicy serializes a policy record: recipient(32) + basis(8).
func encodePolicy(p royalty.Policy) []byte {
	buf := make([]byte, policyRecordSize)
	copy(buf[0:32], p.Recipient[:])
	binary.BigEndian.PutUint64(buf[32:40], p.Basis)
	return buf
}

// decodePolicy deserializes a policy record.
func decodePolicy(data []byte) (royalty.Policy, error) {
	if len(data) != policyRecordSize {
		return royalty.Policy{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPolicyRecord, policyRecordSize, len(data))
	}
	var p royalty.Policy
	copy(p.Recipient[:], data[0:32])
	p.Basis = binary.BigEndian.Uint64(data[32:40])
	return p, nil
}

// encodeOffer serializes an offer record: counterparty(32) + amount(8).
func encodeOffer(o royalty.Offer) []byte {
	buf := make([]byte, offerRecordSize)
	copy(buf[0:32], o.Counterparty[:])
	binary.BigEndian.PutUint64(buf[32:40], o.Amount)
	return buf
}

// decodeOffer deserializes an offer record.
func decodeOffer(data []byte) (royalty.Offer, error) {
	if len(data) != offerRecordSize {
		return royalty.Offer{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidOfferRecord, offerRecordSize, len(data))
	}
	var o royalty.Offer
	copy(o.Counterparty[:], data[0:32])
	o.Amount = binary.BigEndian.Uint64(data[32:40])
	return o, nil
}
