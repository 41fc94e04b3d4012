// Package directory is the record schema, authorization, and state-machine
// core. Every operation runs as one ledger transaction: address verification,
// then authorization, then validation, then the domain transition, and only
// then any write. A failure at any step leaves every record unchanged.
package directory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devcol-labs/devcol-backend/address"
	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/ledger"
	"github.com/devcol-labs/devcol-backend/models"
)

type Directory struct {
	store    ledger.Store
	verifier models.Identity
	now      func() time.Time
	logger   zerolog.Logger
}

type Option func(*Directory)

// WithClock replaces the trusted clock source.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) {
		d.now = now
	}
}

// WithVerifier registers the single identity allowed to flip is_verified on
// user profiles. Without it, no caller holds that capability.
func WithVerifier(id models.Identity) Option {
	return func(d *Directory) {
		d.verifier = id
	}
}

func New(store ledger.Store, opts ...Option) *Directory {
	d := &Directory{
		store:  store,
		now:    time.Now,
		logger: log.With().Str("component", "directory").Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TopUp credits funds to the caller's balance so it can cover record deposits.
func (d *Directory) TopUp(ctx context.Context, caller models.Identity, amount int64) error {
	if !caller.Valid() {
		return errs.NewInvalidField("identity", "empty or oversized")
	}
	if amount <= 0 {
		return errs.NewInvalidField("amount", "must be positive")
	}
	return d.store.Credit(ctx, caller, amount)
}

// Balance returns the funds currently held by the caller.
func (d *Directory) Balance(ctx context.Context, caller models.Identity) (int64, error) {
	return d.store.Balance(ctx, caller)
}

// loadUser fetches the caller-independent user record at its derived address
// and fails closed when the stored wallet no longer re-derives to it.
func loadUser(ctx context.Context, s ledger.Store, owner models.Identity) (*models.User, *ledger.Record, error) {
	rec, err := s.Get(ctx, address.ForUser(owner))
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil, errs.NewNotFound("user profile")
		}
		return nil, nil, err
	}
	if rec.Kind != ledger.KindUser {
		return nil, nil, errs.NewNotFound("user profile")
	}
	user, err := models.DecodeUser(rec.Data, rec.SchemaVersion)
	if err != nil {
		return nil, nil, err
	}
	if address.ForUser(user.Wallet) != rec.Address {
		return nil, nil, errs.NewAddressMismatch("user profile")
	}
	return user, rec, nil
}

func loadProject(ctx context.Context, s ledger.Store, creator models.Identity, name string) (*models.Project, *ledger.Record, error) {
	rec, err := s.Get(ctx, address.ForProject(creator, name))
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil, errs.NewNotFound("project")
		}
		return nil, nil, err
	}
	return decodeProjectRecord(rec)
}

func loadProjectAt(ctx context.Context, s ledger.Store, addr uuid.UUID) (*models.Project, *ledger.Record, error) {
	rec, err := s.Get(ctx, addr)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil, errs.NewNotFound("project")
		}
		return nil, nil, err
	}
	return decodeProjectRecord(rec)
}

func decodeProjectRecord(rec *ledger.Record) (*models.Project, *ledger.Record, error) {
	if rec.Kind != ledger.KindProject {
		return nil, nil, errs.NewNotFound("project")
	}
	proj, err := models.DecodeProject(rec.Data)
	if err != nil {
		return nil, nil, err
	}
	if address.ForProject(proj.Creator, proj.Name) != rec.Address {
		return nil, nil, errs.NewAddressMismatch("project")
	}
	return proj, rec, nil
}

func loadRequest(ctx context.Context, s ledger.Store, addr uuid.UUID) (*models.CollaborationRequest, *ledger.Record, error) {
	rec, err := s.Get(ctx, addr)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil, errs.NewNotFound("collaboration request")
		}
		return nil, nil, err
	}
	if rec.Kind != ledger.KindRequest {
		return nil, nil, errs.NewNotFound("collaboration request")
	}
	req, err := models.DecodeRequest(rec.Data)
	if err != nil {
		return nil, nil, err
	}
	if address.ForRequest(req.Sender, req.Project) != rec.Address {
		return nil, nil, errs.NewAddressMismatch("collaboration request")
	}
	return req, rec, nil
}

func storeUser(ctx context.Context, s ledger.Store, rec *ledger.Record, user *models.User) error {
	rec.Data = models.EncodeUser(user, rec.SchemaVersion)
	return s.Update(ctx, rec)
}

func storeProject(ctx context.Context, s ledger.Store, rec *ledger.Record, proj *models.Project) error {
	rec.Data = models.EncodeProject(proj)
	return s.Update(ctx, rec)
}

func storeRequest(ctx context.Context, s ledger.Store, rec *ledger.Record, req *models.CollaborationRequest) error {
	rec.Data = models.EncodeRequest(req)
	return s.Update(ctx, rec)
}
