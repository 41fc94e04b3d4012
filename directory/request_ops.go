package directory

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/devcol-labs/devcol-backend/address"
	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/ledger"
	"github.com/devcol-labs/devcol-backend/models"
)

// SendCollabRequest creates a request addressed by (sender, project). The
// recipient is pinned to the project's creator at creation time. When the
// project declares roles and the sender targets one, the slot must still have
// capacity.
func (d *Directory) SendCollabRequest(ctx context.Context, caller models.Identity, project uuid.UUID, message string, desiredRole *models.RoleTag) (*models.CollaborationRequest, error) {
	if !caller.Valid() {
		return nil, errs.NewInvalidField("identity", "empty or oversized")
	}

	var out *models.CollaborationRequest
	err := d.store.Atomically(ctx, func(tx ledger.Store) error {
		proj, _, err := loadProjectAt(ctx, tx, project)
		if err != nil {
			return err
		}
		if proj.AcceptingCollaborations == models.AcceptingClosed {
			return errs.NewProjectNotAccepting()
		}

		req := &models.CollaborationRequest{
			Sender:      caller,
			Recipient:   proj.Creator,
			Project:     project,
			Message:     message,
			Status:      models.RequestPending,
			Timestamp:   d.now().Unix(),
			DesiredRole: desiredRole,
		}
		if err := req.Validate(); err != nil {
			return err
		}

		if desiredRole != nil && len(proj.RequiredRoles) > 0 {
			slot := proj.FindRole(*desiredRole)
			if slot == nil {
				return errs.NewRoleNotDeclared(desiredRole.String())
			}
			if !slot.HasCapacity() {
				return errs.NewRoleSlotFull(desiredRole.String())
			}
		}

		addr := address.ForRequest(caller, project)
		if _, err := tx.Get(ctx, addr); err == nil {
			return errs.NewAlreadyExists("collaboration request")
		} else if !errs.IsNotFound(err) {
			return err
		}

		rec := &ledger.Record{
			Address:       addr,
			Kind:          ledger.KindRequest,
			Owner:         caller,
			SchemaVersion: models.CurrentRequestSchema,
			Size:          models.RequestSpace,
			Data:          models.EncodeRequest(req),
		}
		if err := ledger.CreateRecord(ctx, tx, rec, caller); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info().
		Str("sender", caller.String()).
		Str("project", project.String()).
		Msg("collaboration request sent")
	return out, nil
}

// GetCollabRequest returns a request to its sender or recipient.
func (d *Directory) GetCollabRequest(ctx context.Context, caller models.Identity, addr uuid.UUID) (*models.CollaborationRequest, error) {
	req, _, err := loadRequest(ctx, d.store, addr)
	if err != nil {
		return nil, err
	}
	if caller != req.Sender && caller != req.Recipient {
		return nil, errs.NewNotParticipant("sender or recipient")
	}
	return req, nil
}

// MarkUnderReview moves a pending request into review.
func (d *Directory) MarkUnderReview(ctx context.Context, caller models.Identity, addr uuid.UUID) error {
	return d.store.Atomically(ctx, func(tx ledger.Store) error {
		req, rec, err := loadRequest(ctx, tx, addr)
		if err != nil {
			return err
		}
		if req.Recipient != caller {
			return errs.NewNotParticipant("recipient")
		}
		if req.Status != models.RequestPending {
			return errs.NewStateError("review", req.Status.String())
		}
		req.Status = models.RequestUnderReview
		return storeRequest(ctx, tx, rec, req)
	})
}

// AcceptCollabRequest resolves a request as accepted and, when a declared
// role is targeted, consumes one slot of its capacity. Both records commit
// together: a full slot fails the whole operation and the status stays put.
func (d *Directory) AcceptCollabRequest(ctx context.Context, caller models.Identity, addr uuid.UUID, ownerMessage string) error {
	err := d.store.Atomically(ctx, func(tx ledger.Store) error {
		req, rec, err := loadRequest(ctx, tx, addr)
		if err != nil {
			return err
		}
		if req.Recipient != caller {
			return errs.NewNotParticipant("recipient")
		}
		if len(ownerMessage) > models.MaxMessageLen {
			return errs.NewFieldTooLong("owner_message", models.MaxMessageLen)
		}
		if req.Status != models.RequestPending && req.Status != models.RequestUnderReview {
			return errs.NewStateError("accept", req.Status.String())
		}

		proj, projRec, err := loadProjectAt(ctx, tx, req.Project)
		if err != nil {
			return err
		}

		// Capacity is re-checked here, not just at creation time: other
		// requests may have filled the slot since.
		if req.DesiredRole != nil && len(proj.RequiredRoles) > 0 {
			slot := proj.FindRole(*req.DesiredRole)
			if slot == nil {
				return errs.NewRoleNotDeclared(req.DesiredRole.String())
			}
			if !slot.HasCapacity() {
				return errs.NewRoleSlotFull(req.DesiredRole.String())
			}
			slot.Accepted++
		}
		// Saturate rather than wrap; the counter is informational.
		if proj.ContributorsCount < math.MaxUint16 {
			proj.ContributorsCount++
		}
		proj.LastUpdated = d.now().Unix()
		if err := storeProject(ctx, tx, projRec, proj); err != nil {
			return err
		}

		req.Status = models.RequestAccepted
		req.OwnerMessage = ownerMessage
		req.ReplyTimestamp = d.now().Unix()
		return storeRequest(ctx, tx, rec, req)
	})
	if err != nil {
		return err
	}
	d.logger.Info().Str("request", addr.String()).Msg("collaboration request accepted")
	return nil
}

// RejectCollabRequest resolves a request as rejected.
func (d *Directory) RejectCollabRequest(ctx context.Context, caller models.Identity, addr uuid.UUID, ownerMessage string) error {
	return d.store.Atomically(ctx, func(tx ledger.Store) error {
		req, rec, err := loadRequest(ctx, tx, addr)
		if err != nil {
			return err
		}
		if req.Recipient != caller {
			return errs.NewNotParticipant("recipient")
		}
		if len(ownerMessage) > models.MaxMessageLen {
			return errs.NewFieldTooLong("owner_message", models.MaxMessageLen)
		}
		if req.Status != models.RequestPending && req.Status != models.RequestUnderReview {
			return errs.NewStateError("reject", req.Status.String())
		}

		req.Status = models.RequestRejected
		req.OwnerMessage = ownerMessage
		req.ReplyTimestamp = d.now().Unix()
		return storeRequest(ctx, tx, rec, req)
	})
}

// UpdateCollabRequest lets the sender rewrite the message while the request
// is still pending.
func (d *Directory) UpdateCollabRequest(ctx context.Context, caller models.Identity, addr uuid.UUID, message string) error {
	return d.store.Atomically(ctx, func(tx ledger.Store) error {
		req, rec, err := loadRequest(ctx, tx, addr)
		if err != nil {
			return err
		}
		if req.Sender != caller {
			return errs.NewNotParticipant("sender")
		}
		if len(message) > models.MaxMessageLen {
			return errs.NewFieldTooLong("message", models.MaxMessageLen)
		}
		if req.Status != models.RequestPending {
			return errs.NewStateError("edit", req.Status.String())
		}

		req.Message = message
		return storeRequest(ctx, tx, rec, req)
	})
}

// WithdrawCollabRequest destroys a still-pending request and refunds the
// sender's deposit.
func (d *Directory) WithdrawCollabRequest(ctx context.Context, caller models.Identity, addr uuid.UUID) error {
	return d.store.Atomically(ctx, func(tx ledger.Store) error {
		req, rec, err := loadRequest(ctx, tx, addr)
		if err != nil {
			return err
		}
		if req.Sender != caller {
			return errs.NewNotParticipant("sender")
		}
		if req.Status != models.RequestPending {
			return errs.NewStateError("withdraw", req.Status.String())
		}
		return ledger.CloseRecord(ctx, tx, rec, req.Sender)
	})
}

// DeleteCollabRequest lets the recipient clear a resolved or in-review
// request. The deposit goes back to the sender who funded it.
func (d *Directory) DeleteCollabRequest(ctx context.Context, caller models.Identity, addr uuid.UUID) error {
	return d.store.Atomically(ctx, func(tx ledger.Store) error {
		req, rec, err := loadRequest(ctx, tx, addr)
		if err != nil {
			return err
		}
		if req.Recipient != caller {
			return errs.NewNotParticipant("recipient")
		}
		if req.Status == models.RequestPending {
			return errs.NewStateError("delete", req.Status.String())
		}
		return ledger.CloseRecord(ctx, tx, rec, req.Sender)
	})
}

// DeleteSenderRejectedRequest lets the sender clear their own rejected
// request.
func (d *Directory) DeleteSenderRejectedRequest(ctx context.Context, caller models.Identity, addr uuid.UUID) error {
	return d.store.Atomically(ctx, func(tx ledger.Store) error {
		req, rec, err := loadRequest(ctx, tx, addr)
		if err != nil {
			return err
		}
		if req.Sender != caller {
			return errs.NewNotParticipant("sender")
		}
		if req.Status != models.RequestRejected {
			return errs.NewStateError("delete", req.Status.String())
		}
		return ledger.CloseRecord(ctx, tx, rec, req.Sender)
	})
}
