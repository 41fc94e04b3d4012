package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devcol-labs/devcol-backend/directory"
	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/models"
)

type requestHandler struct {
	responder Responder
	logger    zerolog.Logger
	directory *directory.Directory
}

func newRequestHandler(dir *directory.Directory) requestHandler {
	logger := log.With().Str("handlerName", "requestHandler").Logger()

	return requestHandler{
		responder: NewResponder(logger),
		logger:    logger,
		directory: dir,
	}
}

func requestAddr(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "address")
	addr, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidField("address", "not a valid record address")
	}
	return addr, nil
}

type sendRequestPayload struct {
	Project     string  `json:"project"`
	Message     string  `json:"message"`
	DesiredRole *string `json:"desired_role"`
}

// sendRequest opens a collaboration request against a project
// @Summary Send collaboration request
// @Router /collab-requests [post]
func (h requestHandler) sendRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		var payload sendRequestPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode send request body")
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		project, err := uuid.Parse(payload.Project)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidField("project", "not a valid record address"))
			return
		}

		var desired *models.RoleTag
		if payload.DesiredRole != nil {
			role, err := parseEnum(roleNames, "desired_role", *payload.DesiredRole)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			desired = &role
		}

		req, err := h.directory.SendCollabRequest(r.Context(), caller, project, payload.Message, desired)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newRequestResponse(req))
	}
}

// getRequest returns a request to its sender or recipient
// @Summary Get collaboration request
// @Router /collab-requests/{address} [get]
func (h requestHandler) getRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		addr, err := requestAddr(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		req, err := h.directory.GetCollabRequest(r.Context(), caller, addr)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newRequestResponse(req))
	}
}

// markUnderReview moves a pending request into review
// @Summary Mark request under review
// @Router /collab-requests/{address}/review [post]
func (h requestHandler) markUnderReview() http.HandlerFunc {
	return h.transition((*directory.Directory).MarkUnderReview)
}

type resolvePayload struct {
	Message string `json:"message"`
}

// acceptRequest accepts a request and consumes role capacity when targeted
// @Summary Accept collaboration request
// @Router /collab-requests/{address}/accept [post]
func (h requestHandler) acceptRequest() http.HandlerFunc {
	return h.resolve((*directory.Directory).AcceptCollabRequest)
}

// rejectRequest rejects a request with an optional reply message
// @Summary Reject collaboration request
// @Router /collab-requests/{address}/reject [post]
func (h requestHandler) rejectRequest() http.HandlerFunc {
	return h.resolve((*directory.Directory).RejectCollabRequest)
}

// updateRequest rewrites the message of a still-pending request
// @Summary Update collaboration request
// @Router /collab-requests/{address} [put]
func (h requestHandler) updateRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		addr, err := requestAddr(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var payload resolvePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		if err := h.directory.UpdateCollabRequest(r.Context(), caller, addr, payload.Message); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// withdrawRequest destroys a pending request and refunds the sender
// @Summary Withdraw collaboration request
// @Router /collab-requests/{address}/withdraw [post]
func (h requestHandler) withdrawRequest() http.HandlerFunc {
	return h.transition((*directory.Directory).WithdrawCollabRequest)
}

// deleteRequest lets the recipient clear a resolved or in-review request
// @Summary Delete collaboration request
// @Router /collab-requests/{address} [delete]
func (h requestHandler) deleteRequest() http.HandlerFunc {
	return h.transition((*directory.Directory).DeleteCollabRequest)
}

// deleteRejected lets the sender clear their own rejected request
// @Summary Delete rejected request as sender
// @Router /collab-requests/{address}/rejected [delete]
func (h requestHandler) deleteRejected() http.HandlerFunc {
	return h.transition((*directory.Directory).DeleteSenderRejectedRequest)
}

func (h requestHandler) transition(op func(*directory.Directory, context.Context, models.Identity, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		addr, err := requestAddr(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := op(h.directory, r.Context(), caller, addr); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

func (h requestHandler) resolve(op func(*directory.Directory, context.Context, models.Identity, uuid.UUID, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		addr, err := requestAddr(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var payload resolvePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		if err := op(h.directory, r.Context(), caller, addr, payload.Message); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}
