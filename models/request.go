package models

import (
	"github.com/google/uuid"

	"github.com/devcol-labs/devcol-backend/errs"
)

// MaxMessageLen bounds both the sender message and the recipient reply.
const MaxMessageLen = 500

// CollaborationRequest is a record keyed by (sender, project address). The
// recipient is copied from the project's creator at creation time and never
// re-derived afterwards.
type CollaborationRequest struct {
	Sender         Identity
	Recipient      Identity
	Project        uuid.UUID
	Message        string
	OwnerMessage   string
	Status         RequestStatus
	Timestamp      int64
	ReplyTimestamp int64
	DesiredRole    *RoleTag
}

func (r *CollaborationRequest) Validate() error {
	if len(r.Message) > MaxMessageLen {
		return errs.NewFieldTooLong("message", MaxMessageLen)
	}
	if len(r.OwnerMessage) > MaxMessageLen {
		return errs.NewFieldTooLong("owner_message", MaxMessageLen)
	}
	if !r.Status.Valid() {
		return errs.NewInvalidField("status", "unknown value")
	}
	if r.DesiredRole != nil && !r.DesiredRole.Valid() {
		return errs.NewInvalidField("desired_role", "unknown role tag")
	}
	return nil
}
