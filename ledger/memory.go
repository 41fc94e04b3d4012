package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/models"
)

// MemStore is an in-memory Store used by tests. Atomically takes a snapshot
// of the whole state and restores it when the transaction function fails, so
// partial effects are impossible just like with the durable store.
type MemStore struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	records  map[uuid.UUID]*Record
	balances map[models.Identity]int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		state: memState{
			records:  make(map[uuid.UUID]*Record),
			balances: make(map[models.Identity]int64),
		},
	}
}

func (st memState) clone() memState {
	cp := memState{
		records:  make(map[uuid.UUID]*Record, len(st.records)),
		balances: make(map[models.Identity]int64, len(st.balances)),
	}
	for addr, rec := range st.records {
		cp.records[addr] = rec.Clone()
	}
	for id, funds := range st.balances {
		cp.balances[id] = funds
	}
	return cp
}

func (s *MemStore) Get(ctx context.Context, addr uuid.UUID) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{&s.state}).Get(ctx, addr)
}

func (s *MemStore) Create(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{&s.state}).Create(ctx, rec)
}

func (s *MemStore) Update(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{&s.state}).Update(ctx, rec)
}

func (s *MemStore) Delete(ctx context.Context, addr uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{&s.state}).Delete(ctx, addr)
}

func (s *MemStore) Balance(ctx context.Context, id models.Identity) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{&s.state}).Balance(ctx, id)
}

func (s *MemStore) Credit(ctx context.Context, id models.Identity, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{&s.state}).Credit(ctx, id, amount)
}

func (s *MemStore) Debit(ctx context.Context, id models.Identity, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{&s.state}).Debit(ctx, id, amount)
}

func (s *MemStore) Atomically(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&memTx{&s.state}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// memTx operates directly on the state under the store's lock.
type memTx struct {
	st *memState
}

func (t *memTx) Get(_ context.Context, addr uuid.UUID) (*Record, error) {
	rec, ok := t.st.records[addr]
	if !ok {
		return nil, errs.NewNotFound("record")
	}
	return rec.Clone(), nil
}

func (t *memTx) Create(_ context.Context, rec *Record) error {
	if _, ok := t.st.records[rec.Address]; ok {
		return errs.NewAlreadyExists("record")
	}
	t.st.records[rec.Address] = rec.Clone()
	return nil
}

func (t *memTx) Update(_ context.Context, rec *Record) error {
	if _, ok := t.st.records[rec.Address]; !ok {
		return errs.NewNotFound("record")
	}
	t.st.records[rec.Address] = rec.Clone()
	return nil
}

func (t *memTx) Delete(_ context.Context, addr uuid.UUID) error {
	if _, ok := t.st.records[addr]; !ok {
		return errs.NewNotFound("record")
	}
	delete(t.st.records, addr)
	return nil
}

func (t *memTx) Balance(_ context.Context, id models.Identity) (int64, error) {
	return t.st.balances[id], nil
}

func (t *memTx) Credit(_ context.Context, id models.Identity, amount int64) error {
	t.st.balances[id] += amount
	return nil
}

func (t *memTx) Debit(_ context.Context, id models.Identity, amount int64) error {
	if t.st.balances[id] < amount {
		return errs.NewInsufficientFunds(amount, t.st.balances[id])
	}
	t.st.balances[id] -= amount
	return nil
}

// Atomically on a transaction view just runs fn against the same view; the
// outer transaction's snapshot already covers rollback.
func (t *memTx) Atomically(_ context.Context, fn func(tx Store) error) error {
	return fn(t)
}
