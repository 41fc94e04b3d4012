// Package ledger defines the durable record store the directory commits
// against: addressable records with a refundable storage deposit, per-identity
// fund balances, and an all-or-nothing transaction combinator.
package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/devcol-labs/devcol-backend/models"
)

// Kind is the record type stored alongside the payload. Values match the
// payload type tags.
type Kind uint8

const (
	KindUser    Kind = Kind(models.TagUser)
	KindProject Kind = Kind(models.TagProject)
	KindRequest Kind = Kind(models.TagRequest)
)

// RentPerByte is the refundable deposit collected per allocated byte.
const RentPerByte int64 = 8

// DepositFor returns the deposit a record of the given allocated size must
// hold to stay durable.
func DepositFor(size int) int64 {
	return int64(size) * RentPerByte
}

// Record is one durable, independently addressable unit of persisted state.
// Size is the allocated capacity (the validated-max layout of the schema
// version), which the encoded payload never exceeds.
type Record struct {
	Address       uuid.UUID
	Kind          Kind
	Owner         models.Identity
	SchemaVersion uint8
	Size          int
	Deposit       int64
	Data          []byte
}

// Clone returns a deep copy so callers can mutate freely before committing.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Data = append([]byte(nil), r.Data...)
	return &cp
}

// Store is the host ledger. Implementations must make Atomically
// all-or-nothing: if fn returns an error, no write performed inside it
// survives.
type Store interface {
	// Get returns the record at the address, or errs.ErrNotFound.
	Get(ctx context.Context, addr uuid.UUID) (*Record, error)
	// Create inserts a new record, or errs.ErrAlreadyExists if the address
	// is occupied.
	Create(ctx context.Context, rec *Record) error
	// Update overwrites an existing record, or errs.ErrNotFound.
	Update(ctx context.Context, rec *Record) error
	// Delete removes the record at the address, or errs.ErrNotFound.
	Delete(ctx context.Context, addr uuid.UUID) error

	// Balance returns the funds held by an identity (zero if unknown).
	Balance(ctx context.Context, id models.Identity) (int64, error)
	// Credit adds funds to an identity's balance.
	Credit(ctx context.Context, id models.Identity, amount int64) error
	// Debit removes funds, or errs.ErrResource when the balance is short.
	Debit(ctx context.Context, id models.Identity, amount int64) error

	// Atomically runs fn inside one transaction.
	Atomically(ctx context.Context, fn func(tx Store) error) error
}

// CreateRecord allocates a record and collects its deposit from the payer in
// the same transaction.
func CreateRecord(ctx context.Context, s Store, rec *Record, payer models.Identity) error {
	rec.Deposit = DepositFor(rec.Size)
	if err := s.Debit(ctx, payer, rec.Deposit); err != nil {
		return err
	}
	return s.Create(ctx, rec)
}

// CloseRecord destroys a record and refunds its entire deposit to the
// beneficiary. The fields become unrecoverable.
func CloseRecord(ctx context.Context, s Store, rec *Record, beneficiary models.Identity) error {
	if err := s.Delete(ctx, rec.Address); err != nil {
		return err
	}
	return s.Credit(ctx, beneficiary, rec.Deposit)
}

// GrowRecord resizes an undersized record to newSize and tops up the deposit
// difference from the payer. A record already at or above newSize is left
// untouched, which makes migration idempotent: a second call charges nothing.
func GrowRecord(ctx context.Context, s Store, rec *Record, newSize int, payer models.Identity) error {
	if rec.Size >= newSize {
		return nil
	}
	topUp := DepositFor(newSize) - rec.Deposit
	if err := s.Debit(ctx, payer, topUp); err != nil {
		return err
	}
	rec.Size = newSize
	rec.Deposit += topUp
	return nil
}
