package directory

import (
	"context"

	"github.com/devcol-labs/devcol-backend/address"
	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/ledger"
	"github.com/devcol-labs/devcol-backend/models"
)

type CreateUserInput struct {
	Username     string
	DisplayName  string
	Role         string
	Location     string
	Bio          string
	GithubLink   string
	MetadataHash string
	ContactInfo  string
}

// CreateUser creates the caller's profile record at its derived address and
// collects the storage deposit from the caller.
func (d *Directory) CreateUser(ctx context.Context, caller models.Identity, in CreateUserInput) (*models.User, error) {
	if !caller.Valid() {
		return nil, errs.NewInvalidField("identity", "empty or oversized")
	}

	now := d.now().Unix()
	user := &models.User{
		Wallet:            caller,
		Username:          in.Username,
		DisplayName:       in.DisplayName,
		Role:              in.Role,
		Location:          in.Location,
		Bio:               in.Bio,
		GithubLink:        in.GithubLink,
		MetadataHash:      in.MetadataHash,
		ContactInfo:       in.ContactInfo,
		MemberSince:       now,
		LastActive:        now,
		OpenToCollab:      true,
		ProfileVisibility: models.VisibilityPublic,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	err := d.store.Atomically(ctx, func(tx ledger.Store) error {
		addr := address.ForUser(caller)
		if _, err := tx.Get(ctx, addr); err == nil {
			return errs.NewAlreadyExists("user profile")
		} else if !errs.IsNotFound(err) {
			return err
		}

		rec := &ledger.Record{
			Address:       addr,
			Kind:          ledger.KindUser,
			Owner:         caller,
			SchemaVersion: models.CurrentUserSchema,
			Size:          models.UserSpace(models.CurrentUserSchema),
			Data:          models.EncodeUser(user, models.CurrentUserSchema),
		}
		return ledger.CreateRecord(ctx, tx, rec, caller)
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info().Str("username", user.Username).Msg("user profile created")
	return user, nil
}

// GetUser returns a profile. Non-owners see a redacted view unless the
// profile is public.
func (d *Directory) GetUser(ctx context.Context, caller, owner models.Identity) (*models.User, error) {
	user, _, err := loadUser(ctx, d.store, owner)
	if err != nil {
		return nil, err
	}
	if caller != owner && user.ProfileVisibility != models.VisibilityPublic {
		return user.Redacted(), nil
	}
	return user, nil
}

// UpdateUser overwrites every present field of the caller's profile and
// refreshes last_active.
func (d *Directory) UpdateUser(ctx context.Context, caller models.Identity, up models.UserUpdate) (*models.User, error) {
	var out *models.User
	err := d.store.Atomically(ctx, func(tx ledger.Store) error {
		user, rec, err := loadUser(ctx, tx, caller)
		if err != nil {
			return err
		}
		if rec.Owner != caller {
			return errs.NewNotOwner("user profile")
		}
		if up.ContactInfo != nil && rec.SchemaVersion < models.UserSchemaV2 {
			return errs.NewInvalidField("contact_info", "account must be migrated first")
		}
		if err := up.Validate(); err != nil {
			return err
		}

		up.Apply(user)
		user.LastActive = d.now().Unix()
		out = user
		return storeUser(ctx, tx, rec, user)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MigrateUserAccount upgrades a v1 profile record to the current schema,
// growing its storage and topping up the deposit difference from the caller.
// Calling it on an already-migrated record charges nothing.
func (d *Directory) MigrateUserAccount(ctx context.Context, caller models.Identity, contactInfo string) (*models.User, error) {
	var out *models.User
	err := d.store.Atomically(ctx, func(tx ledger.Store) error {
		user, rec, err := loadUser(ctx, tx, caller)
		if err != nil {
			return err
		}
		if rec.Owner != caller {
			return errs.NewNotOwner("user profile")
		}
		if len(contactInfo) > models.MaxContactInfoLen {
			return errs.NewFieldTooLong("contact_info", models.MaxContactInfoLen)
		}

		if err := ledger.GrowRecord(ctx, tx, rec, models.UserSpace(models.UserSchemaV2), caller); err != nil {
			return err
		}
		rec.SchemaVersion = models.UserSchemaV2
		user.ContactInfo = contactInfo
		user.LastActive = d.now().Unix()
		out = user
		return storeUser(ctx, tx, rec, user)
	})
	if err != nil {
		return nil, err
	}
	d.logger.Info().Str("identity", caller.String()).Msg("user account migrated")
	return out, nil
}

// DeleteUser fully closes the caller's profile record and refunds its deposit.
// The identity can re-register later with a fresh username.
func (d *Directory) DeleteUser(ctx context.Context, caller models.Identity) error {
	err := d.store.Atomically(ctx, func(tx ledger.Store) error {
		_, rec, err := loadUser(ctx, tx, caller)
		if err != nil {
			return err
		}
		if rec.Owner != caller {
			return errs.NewNotOwner("user profile")
		}
		return ledger.CloseRecord(ctx, tx, rec, caller)
	})
	if err != nil {
		return err
	}
	d.logger.Info().Str("identity", caller.String()).Msg("user profile closed")
	return nil
}

// SetUserVerified flips is_verified on a profile. Only the configured
// verifier identity holds this capability, and it grants no other mutation.
func (d *Directory) SetUserVerified(ctx context.Context, caller, owner models.Identity, verified bool) error {
	if d.verifier == "" || caller != d.verifier {
		return errs.NewNotVerifier()
	}
	return d.store.Atomically(ctx, func(tx ledger.Store) error {
		user, rec, err := loadUser(ctx, tx, owner)
		if err != nil {
			return err
		}
		user.IsVerified = verified
		user.LastActive = d.now().Unix()
		return storeUser(ctx, tx, rec, user)
	})
}
