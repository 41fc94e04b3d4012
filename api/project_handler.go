package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devcol-labs/devcol-backend/directory"
	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/models"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	directory *directory.Directory
}

func newProjectHandler(dir *directory.Directory) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		directory: dir,
	}
}

type createProjectPayload struct {
	Name               string                   `json:"name"`
	Description        string                   `json:"description"`
	GithubLink         string                   `json:"github_link"`
	LogoHash           string                   `json:"logo_hash"`
	TechStack          []string                 `json:"tech_stack"`
	ContributionNeeds  []string                 `json:"contribution_needs"`
	CollabIntent       string                   `json:"collab_intent"`
	CollaborationLevel string                   `json:"collaboration_level"`
	ProjectStatus      string                   `json:"project_status"`
	RequiredRoles      []roleRequirementPayload `json:"required_roles"`
}

// createProject creates a project owned by the caller
// @Summary Create project
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		var payload createProjectPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode create project request body")
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		level, err := parseEnum(levelNames, "collaboration_level", payload.CollaborationLevel)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		status, err := parseEnum(statusNames, "project_status", payload.ProjectStatus)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		roles, err := toRoleRequirements(payload.RequiredRoles)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.directory.CreateProject(r.Context(), caller, directory.CreateProjectInput{
			Name:               payload.Name,
			Description:        payload.Description,
			GithubLink:         payload.GithubLink,
			LogoHash:           payload.LogoHash,
			TechStack:          payload.TechStack,
			ContributionNeeds:  payload.ContributionNeeds,
			CollabIntent:       payload.CollabIntent,
			CollaborationLevel: level,
			ProjectStatus:      status,
			RequiredRoles:      roles,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newProjectResponse(project))
	}
}

// getProject returns a project by creator and name
// @Summary Get project
// @Router /projects/{creator}/{name} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creator := models.Identity(chi.URLParam(r, "creator"))
		name := chi.URLParam(r, "name")
		if creator == "" || name == "" {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "missing creator or name"))
			return
		}

		project, err := h.directory.GetProject(r.Context(), creator, name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newProjectResponse(project))
	}
}

type updateProjectPayload struct {
	Description        *string   `json:"description"`
	GithubLink         *string   `json:"github_link"`
	LogoHash           *string   `json:"logo_hash"`
	TechStack          *[]string `json:"tech_stack"`
	ContributionNeeds  *[]string `json:"contribution_needs"`
	CollabIntent       *string   `json:"collab_intent"`
	CollaborationLevel *string   `json:"collaboration_level"`
	ProjectStatus      *string   `json:"project_status"`
	IsActive           *bool     `json:"is_active"`
}

// updateProject overwrites the present fields of the caller's project
// @Summary Update project
// @Router /projects/{name} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		name := chi.URLParam(r, "name")
		if name == "" {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "missing name"))
			return
		}

		var payload updateProjectPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode update project request body")
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		update := models.ProjectUpdate{
			Description:       payload.Description,
			GithubLink:        payload.GithubLink,
			LogoHash:          payload.LogoHash,
			TechStack:         payload.TechStack,
			ContributionNeeds: payload.ContributionNeeds,
			CollabIntent:      payload.CollabIntent,
			IsActive:          payload.IsActive,
		}
		if payload.CollaborationLevel != nil {
			level, err := parseEnum(levelNames, "collaboration_level", *payload.CollaborationLevel)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			update.CollaborationLevel = &level
		}
		if payload.ProjectStatus != nil {
			status, err := parseEnum(statusNames, "project_status", *payload.ProjectStatus)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			update.ProjectStatus = &status
		}

		project, err := h.directory.UpdateProject(r.Context(), caller, name, update)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newProjectResponse(project))
	}
}

// closeProject stops accepting collaboration requests
// @Summary Close project
// @Router /projects/{name}/close [post]
func (h projectHandler) closeProject() http.HandlerFunc {
	return h.setAccepting((*directory.Directory).CloseProject)
}

// reopenProject resumes accepting collaboration requests
// @Summary Reopen project
// @Router /projects/{name}/reopen [post]
func (h projectHandler) reopenProject() http.HandlerFunc {
	return h.setAccepting((*directory.Directory).ReopenProject)
}

func (h projectHandler) setAccepting(op func(*directory.Directory, context.Context, models.Identity, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		name := chi.URLParam(r, "name")
		if name == "" {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "missing name"))
			return
		}

		if err := op(h.directory, r.Context(), caller, name); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

type updateRolesPayload struct {
	RequiredRoles []roleRequirementPayload `json:"required_roles"`
}

// updateRoles replaces the declared role requirements wholesale
// @Summary Update project roles
// @Router /projects/{name}/roles [put]
func (h projectHandler) updateRoles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		name := chi.URLParam(r, "name")
		if name == "" {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "missing name"))
			return
		}

		var payload updateRolesPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "malformed request body"))
			return
		}

		roles, err := toRoleRequirements(payload.RequiredRoles)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.directory.UpdateProjectRoles(r.Context(), caller, name, roles)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newProjectResponse(project))
	}
}

// deleteProject destroys the record and refunds the deposit
// @Summary Delete project
// @Router /projects/{name} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusUnauthorized, "missing identity"))
			return
		}

		name := chi.URLParam(r, "name")
		if name == "" {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadRequest, "missing name"))
			return
		}

		if err := h.directory.DeleteProject(r.Context(), caller, name); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}
