package api

import (
	"github.com/samber/lo"

	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/models"
)

// Enums travel as their string names on the wire.

var visibilityNames = map[string]models.ProfileVisibility{
	"public":       models.VisibilityPublic,
	"private":      models.VisibilityPrivate,
	"friends_only": models.VisibilityFriendsOnly,
}

var levelNames = map[string]models.CollaborationLevel{
	"beginner":     models.LevelBeginner,
	"intermediate": models.LevelIntermediate,
	"advanced":     models.LevelAdvanced,
	"all_levels":   models.LevelAllLevels,
}

var statusNames = map[string]models.ProjectStatus{
	"just_started":    models.StatusJustStarted,
	"in_progress":     models.StatusInProgress,
	"nearly_complete": models.StatusNearlyComplete,
	"completed":       models.StatusCompleted,
	"active_dev":      models.StatusActiveDev,
	"on_hold":         models.StatusOnHold,
}

var roleNames = map[string]models.RoleTag{
	"frontend":  models.RoleFrontend,
	"backend":   models.RoleBackend,
	"fullstack": models.RoleFullstack,
	"devops":    models.RoleDevOps,
	"qa":        models.RoleQA,
	"designer":  models.RoleDesigner,
	"others":    models.RoleOthers,
}

func parseEnum[T any](names map[string]T, field, value string) (T, error) {
	v, ok := names[value]
	if !ok {
		return v, errs.NewInvalidField(field, "unknown value "+value)
	}
	return v, nil
}

type userResponse struct {
	Identity          string `json:"identity"`
	Username          string `json:"username"`
	DisplayName       string `json:"display_name"`
	Role              string `json:"role"`
	Location          string `json:"location"`
	Bio               string `json:"bio"`
	GithubLink        string `json:"github_link"`
	MetadataHash      string `json:"metadata_hash"`
	ContactInfo       string `json:"contact_info,omitempty"`
	Reputation        uint32 `json:"reputation"`
	ProjectsCount     uint32 `json:"projects_count"`
	CollabsCount      uint32 `json:"collabs_count"`
	MemberSince       int64  `json:"member_since"`
	LastActive        int64  `json:"last_active"`
	IsVerified        bool   `json:"is_verified"`
	OpenToCollab      bool   `json:"open_to_collab"`
	ProfileVisibility string `json:"profile_visibility"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		Identity:          u.Wallet.String(),
		Username:          u.Username,
		DisplayName:       u.DisplayName,
		Role:              u.Role,
		Location:          u.Location,
		Bio:               u.Bio,
		GithubLink:        u.GithubLink,
		MetadataHash:      u.MetadataHash,
		ContactInfo:       u.ContactInfo,
		Reputation:        u.Reputation,
		ProjectsCount:     u.ProjectsCount,
		CollabsCount:      u.CollabsCount,
		MemberSince:       u.MemberSince,
		LastActive:        u.LastActive,
		IsVerified:        u.IsVerified,
		OpenToCollab:      u.OpenToCollab,
		ProfileVisibility: u.ProfileVisibility.String(),
	}
}

type roleRequirementPayload struct {
	Role     string  `json:"role"`
	Needed   uint8   `json:"needed"`
	Accepted uint8   `json:"accepted"`
	Label    *string `json:"label,omitempty"`
}

func (p roleRequirementPayload) toModel() (models.RoleRequirement, error) {
	role, err := parseEnum(roleNames, "required_roles.role", p.Role)
	if err != nil {
		return models.RoleRequirement{}, err
	}
	return models.RoleRequirement{
		Role:     role,
		Needed:   p.Needed,
		Accepted: p.Accepted,
		Label:    p.Label,
	}, nil
}

func toRoleRequirements(payloads []roleRequirementPayload) ([]models.RoleRequirement, error) {
	roles := make([]models.RoleRequirement, 0, len(payloads))
	for _, p := range payloads {
		r, err := p.toModel()
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

func newRolePayloads(roles []models.RoleRequirement) []roleRequirementPayload {
	return lo.Map(roles, func(r models.RoleRequirement, _ int) roleRequirementPayload {
		return roleRequirementPayload{
			Role:     r.Role.String(),
			Needed:   r.Needed,
			Accepted: r.Accepted,
			Label:    r.Label,
		}
	})
}

type projectResponse struct {
	Creator                 string                   `json:"creator"`
	Name                    string                   `json:"name"`
	Description             string                   `json:"description"`
	GithubLink              string                   `json:"github_link"`
	LogoHash                string                   `json:"logo_hash"`
	TechStack               []string                 `json:"tech_stack"`
	ContributionNeeds       []string                 `json:"contribution_needs"`
	CollabIntent            string                   `json:"collab_intent"`
	CollaborationLevel      string                   `json:"collaboration_level"`
	ProjectStatus           string                   `json:"project_status"`
	AcceptingCollaborations string                   `json:"accepting_collaborations"`
	Timestamp               int64                    `json:"timestamp"`
	LastUpdated             int64                    `json:"last_updated"`
	ContributorsCount       uint16                   `json:"contributors_count"`
	IsActive                bool                     `json:"is_active"`
	RequiredRoles           []roleRequirementPayload `json:"required_roles"`
}

func newProjectResponse(p *models.Project) projectResponse {
	return projectResponse{
		Creator:                 p.Creator.String(),
		Name:                    p.Name,
		Description:             p.Description,
		GithubLink:              p.GithubLink,
		LogoHash:                p.LogoHash,
		TechStack:               p.TechStack,
		ContributionNeeds:       p.ContributionNeeds,
		CollabIntent:            p.CollabIntent,
		CollaborationLevel:      p.CollaborationLevel.String(),
		ProjectStatus:           p.ProjectStatus.String(),
		AcceptingCollaborations: p.AcceptingCollaborations.String(),
		Timestamp:               p.Timestamp,
		LastUpdated:             p.LastUpdated,
		ContributorsCount:       p.ContributorsCount,
		IsActive:                p.IsActive,
		RequiredRoles:           newRolePayloads(p.RequiredRoles),
	}
}

type requestResponse struct {
	Sender         string  `json:"sender"`
	Recipient      string  `json:"recipient"`
	Project        string  `json:"project"`
	Message        string  `json:"message"`
	OwnerMessage   string  `json:"owner_message,omitempty"`
	Status         string  `json:"status"`
	Timestamp      int64   `json:"timestamp"`
	ReplyTimestamp int64   `json:"reply_timestamp,omitempty"`
	DesiredRole    *string `json:"desired_role,omitempty"`
}

func newRequestResponse(r *models.CollaborationRequest) requestResponse {
	resp := requestResponse{
		Sender:         r.Sender.String(),
		Recipient:      r.Recipient.String(),
		Project:        r.Project.String(),
		Message:        r.Message,
		OwnerMessage:   r.OwnerMessage,
		Status:         r.Status.String(),
		Timestamp:      r.Timestamp,
		ReplyTimestamp: r.ReplyTimestamp,
	}
	if r.DesiredRole != nil {
		name := r.DesiredRole.String()
		resp.DesiredRole = &name
	}
	return resp
}
