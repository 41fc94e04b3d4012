package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devcol-labs/devcol-backend/directory"
	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/models"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	directory *directory.Directory
}

func newUserHandler(dir *directory.Directory) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		directory: dir,
	}
}

type createUserPayload struct {
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Role         string `json:"role"`
	Location     string `json:"location"`
	Bio          string `json:"bio"`
	GithubLink   string `json:"github_link"`
	MetadataHash string `json:"metadata_hash"`
	ContactInfo  string `json:"contact_info"`
}

// createUser creates the caller's profile record
// @Summary Create user profile
// @Router /users [post]
func (h userHandler) createUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		var payload createUserPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode create user request body")
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		user, err := h.directory.CreateUser(r.Context(), caller, directory.CreateUserInput{
			Username:     payload.Username,
			DisplayName:  payload.DisplayName,
			Role:         payload.Role,
			Location:     payload.Location,
			Bio:          payload.Bio,
			GithubLink:   payload.GithubLink,
			MetadataHash: payload.MetadataHash,
			ContactInfo:  payload.ContactInfo,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newUserResponse(user))
	}
}

// getUser returns a profile, redacted for non-owners unless public
// @Summary Get user profile
// @Router /users/{identity} [get]
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		owner := models.Identity(chi.URLParam(r, "identity"))
		if owner == "" {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "missing identity"))
			return
		}

		user, err := h.directory.GetUser(r.Context(), caller, owner)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newUserResponse(user))
	}
}

type updateUserPayload struct {
	DisplayName       *string `json:"display_name"`
	Role              *string `json:"role"`
	Location          *string `json:"location"`
	Bio               *string `json:"bio"`
	GithubLink        *string `json:"github_link"`
	MetadataHash      *string `json:"metadata_hash"`
	ContactInfo       *string `json:"contact_info"`
	OpenToCollab      *bool   `json:"open_to_collab"`
	ProfileVisibility *string `json:"profile_visibility"`
}

// updateUser overwrites the present fields of the caller's profile
// @Summary Update user profile
// @Router /users/me [put]
func (h userHandler) updateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		var payload updateUserPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode update user request body")
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		update := models.UserUpdate{
			DisplayName:  payload.DisplayName,
			Role:         payload.Role,
			Location:     payload.Location,
			Bio:          payload.Bio,
			GithubLink:   payload.GithubLink,
			MetadataHash: payload.MetadataHash,
			ContactInfo:  payload.ContactInfo,
			OpenToCollab: payload.OpenToCollab,
		}
		if payload.ProfileVisibility != nil {
			visibility, err := parseEnum(visibilityNames, "profile_visibility", *payload.ProfileVisibility)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			update.ProfileVisibility = &visibility
		}

		user, err := h.directory.UpdateUser(r.Context(), caller, update)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newUserResponse(user))
	}
}

type migratePayload struct {
	ContactInfo string `json:"contact_info"`
}

// migrateUser upgrades the caller's record to the current schema
// @Summary Migrate user account
// @Router /users/me/migrate [post]
func (h userHandler) migrateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		var payload migratePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		user, err := h.directory.MigrateUserAccount(r.Context(), caller, payload.ContactInfo)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newUserResponse(user))
	}
}

// deleteUser closes the caller's profile record and refunds its deposit
// @Summary Delete user profile
// @Router /users/me [delete]
func (h userHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		if err := h.directory.DeleteUser(r.Context(), caller); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "user profile closed",
		})
	}
}

type verifyPayload struct {
	Verified bool `json:"verified"`
}

// setVerified flips is_verified; only the configured verifier may call it
// @Summary Set user verification flag
// @Router /users/{identity}/verified [post]
func (h userHandler) setVerified() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		owner := models.Identity(chi.URLParam(r, "identity"))
		if owner == "" {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "missing identity"))
			return
		}

		var payload verifyPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		if err := h.directory.SetUserVerified(r.Context(), caller, owner, payload.Verified); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}
