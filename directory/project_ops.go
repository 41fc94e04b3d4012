package directory

import (
	"context"

	"github.com/devcol-labs/devcol-backend/address"
	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/ledger"
	"github.com/devcol-labs/devcol-backend/models"
)

type CreateProjectInput struct {
	Name               string
	Description        string
	GithubLink         string
	LogoHash           string
	TechStack          []string
	ContributionNeeds  []string
	CollabIntent       string
	CollaborationLevel models.CollaborationLevel
	ProjectStatus      models.ProjectStatus
	RequiredRoles      []models.RoleRequirement
}

// CreateProject creates a project owned by the caller, who must already hold
// a user profile. The creator counts as the first contributor.
func (d *Directory) CreateProject(ctx context.Context, caller models.Identity, in CreateProjectInput) (*models.Project, error) {
	now := d.now().Unix()
	proj := &models.Project{
		Creator:                 caller,
		Name:                    in.Name,
		Description:             in.Description,
		GithubLink:              in.GithubLink,
		LogoHash:                in.LogoHash,
		TechStack:               in.TechStack,
		ContributionNeeds:       in.ContributionNeeds,
		CollabIntent:            in.CollabIntent,
		CollaborationLevel:      in.CollaborationLevel,
		ProjectStatus:           in.ProjectStatus,
		AcceptingCollaborations: models.AcceptingOpen,
		Timestamp:               now,
		LastUpdated:             now,
		ContributorsCount:       1,
		IsActive:                true,
		RequiredRoles:           in.RequiredRoles,
	}

	err := d.store.Atomically(ctx, func(tx ledger.Store) error {
		user, userRec, err := loadUser(ctx, tx, caller)
		if err != nil {
			return err
		}

		addr := address.ForProject(caller, in.Name)
		if _, err := tx.Get(ctx, addr); err == nil {
			return errs.NewAlreadyExists("project")
		} else if !errs.IsNotFound(err) {
			return err
		}

		if err := proj.Validate(); err != nil {
			return err
		}

		rec := &ledger.Record{
			Address:       addr,
			Kind:          ledger.KindProject,
			Owner:         caller,
			SchemaVersion: models.CurrentProjectSchema,
			Size:          models.ProjectSpace,
			Data:          models.EncodeProject(proj),
		}
		if err := ledger.CreateRecord(ctx, tx, rec, caller); err != nil {
			return err
		}

		user.ProjectsCount++
		user.LastActive = now
		return storeUser(ctx, tx, userRec, user)
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info().Str("name", proj.Name).Str("creator", caller.String()).Msg("project created")
	return proj, nil
}

// GetProject returns a project by its logical key.
func (d *Directory) GetProject(ctx context.Context, creator models.Identity, name string) (*models.Project, error) {
	proj, _, err := loadProject(ctx, d.store, creator, name)
	if err != nil {
		return nil, err
	}
	return proj, nil
}

// UpdateProject overwrites every present field and refreshes last_updated.
// Only the creator reaches the record: the address is derived from the
// caller, so anyone else resolves to a different slot.
func (d *Directory) UpdateProject(ctx context.Context, caller models.Identity, name string, up models.ProjectUpdate) (*models.Project, error) {
	var out *models.Project
	err := d.store.Atomically(ctx, func(tx ledger.Store) error {
		proj, rec, err := loadProject(ctx, tx, caller, name)
		if err != nil {
			return err
		}
		if rec.Owner != caller {
			return errs.NewNotOwner("project")
		}
		if err := up.Validate(); err != nil {
			return err
		}

		up.Apply(proj)
		proj.LastUpdated = d.now().Unix()
		out = proj
		return storeProject(ctx, tx, rec, proj)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CloseProject stops the project from receiving new collaboration requests.
func (d *Directory) CloseProject(ctx context.Context, caller models.Identity, name string) error {
	return d.setAccepting(ctx, caller, name, models.AcceptingClosed)
}

// ReopenProject resumes receiving collaboration requests.
func (d *Directory) ReopenProject(ctx context.Context, caller models.Identity, name string) error {
	return d.setAccepting(ctx, caller, name, models.AcceptingOpen)
}

func (d *Directory) setAccepting(ctx context.Context, caller models.Identity, name string, status models.AcceptingStatus) error {
	return d.store.Atomically(ctx, func(tx ledger.Store) error {
		proj, rec, err := loadProject(ctx, tx, caller, name)
		if err != nil {
			return err
		}
		if rec.Owner != caller {
			return errs.NewNotOwner("project")
		}
		proj.AcceptingCollaborations = status
		proj.LastUpdated = d.now().Unix()
		return storeProject(ctx, tx, rec, proj)
	})
}

// UpdateProjectRoles replaces the declared role requirements wholesale.
func (d *Directory) UpdateProjectRoles(ctx context.Context, caller models.Identity, name string, roles []models.RoleRequirement) (*models.Project, error) {
	var out *models.Project
	err := d.store.Atomically(ctx, func(tx ledger.Store) error {
		proj, rec, err := loadProject(ctx, tx, caller, name)
		if err != nil {
			return err
		}
		if rec.Owner != caller {
			return errs.NewNotOwner("project")
		}
		if err := models.ValidateRoleRequirements(roles); err != nil {
			return err
		}

		proj.RequiredRoles = roles
		proj.LastUpdated = d.now().Unix()
		out = proj
		return storeProject(ctx, tx, rec, proj)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteProject destroys the record and refunds the deposit to the creator.
func (d *Directory) DeleteProject(ctx context.Context, caller models.Identity, name string) error {
	err := d.store.Atomically(ctx, func(tx ledger.Store) error {
		_, rec, err := loadProject(ctx, tx, caller, name)
		if err != nil {
			return err
		}
		if rec.Owner != caller {
			return errs.NewNotOwner("project")
		}
		if err := ledger.CloseRecord(ctx, tx, rec, caller); err != nil {
			return err
		}

		// Keep the creator's project counter honest; a profile closed in
		// the meantime is fine to skip.
		user, userRec, err := loadUser(ctx, tx, caller)
		if err != nil {
			if errs.IsNotFound(err) {
				return nil
			}
			return err
		}
		if user.ProjectsCount > 0 {
			user.ProjectsCount--
		}
		user.LastActive = d.now().Unix()
		return storeUser(ctx, tx, userRec, user)
	})
	if err != nil {
		return err
	}
	d.logger.Info().Str("name", name).Str("creator", caller.String()).Msg("project deleted")
	return nil
}
