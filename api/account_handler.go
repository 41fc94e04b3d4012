package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devcol-labs/devcol-backend/directory"
	"github.com/devcol-labs/devcol-backend/errs"
)

type accountHandler struct {
	responder Responder
	logger    zerolog.Logger
	directory *directory.Directory
}

func newAccountHandler(dir *directory.Directory) accountHandler {
	logger := log.With().Str("handlerName", "accountHandler").Logger()

	return accountHandler{
		responder: NewResponder(logger),
		logger:    logger,
		directory: dir,
	}
}

type topUpPayload struct {
	Amount int64 `json:"amount"`
}

// topUp credits funds to the caller's balance
// @Summary Top up account funds
// @Router /account/topup [post]
func (h accountHandler) topUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		var payload topUpPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		if err := h.directory.TopUp(r.Context(), caller, payload.Amount); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// balance returns the funds currently held by the caller
// @Summary Get account balance
// @Router /account/balance [get]
func (h accountHandler) balance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		funds, err := h.directory.Balance(r.Context(), caller)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]int64{"funds": funds})
	}
}
