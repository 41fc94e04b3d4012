package models

import (
	"github.com/samber/lo"

	"github.com/devcol-labs/devcol-backend/errs"
)

// Project field bounds, in bytes (and element counts for collections).
const (
	MaxProjectNameLen  = 50
	MaxDescriptionLen  = 1000
	MaxLogoHashLen     = 64
	MaxCollabIntentLen = 300
	MaxTagLen          = 24
	MaxTechStackTags   = 12
	MaxNeedTags        = 10
	MaxRequiredRoles   = 8
	MinRoleNeeded      = 1
	MaxRoleNeeded      = 10
	MaxRoleLabelLen    = 24
)

// RoleRequirement is one declared contributor slot on a project. Accepted may
// never exceed Needed; Label is meaningful only for the Others role.
type RoleRequirement struct {
	Role     RoleTag
	Needed   uint8
	Accepted uint8
	Label    *string
}

func (r *RoleRequirement) Validate() error {
	if !r.Role.Valid() {
		return errs.NewInvalidField("required_roles", "unknown role tag")
	}
	if r.Needed < MinRoleNeeded || r.Needed > MaxRoleNeeded {
		return errs.NewInvalidField("required_roles", "needed must be between 1 and 10")
	}
	if r.Accepted > r.Needed {
		return errs.NewInvalidField("required_roles", "accepted cannot exceed needed")
	}
	if r.Label != nil {
		if r.Role != RoleOthers {
			return errs.NewInvalidField("required_roles", "label is only allowed for the others role")
		}
		if len(*r.Label) > MaxRoleLabelLen {
			return errs.NewFieldTooLong("required_roles.label", MaxRoleLabelLen)
		}
	}
	return nil
}

// HasCapacity reports whether one more acceptance fits in this slot.
func (r *RoleRequirement) HasCapacity() bool {
	return r.Accepted < r.Needed
}

// Project is a record owned by its creator. The (creator, name) pair is its
// logical key, so the name is immutable after creation.
type Project struct {
	Creator                 Identity
	Name                    string
	Description             string
	GithubLink              string
	LogoHash                string
	TechStack               []string
	ContributionNeeds       []string
	CollabIntent            string
	CollaborationLevel      CollaborationLevel
	ProjectStatus           ProjectStatus
	AcceptingCollaborations AcceptingStatus
	Timestamp               int64
	LastUpdated             int64
	ContributorsCount       uint16
	IsActive                bool
	RequiredRoles           []RoleRequirement
}

func validateTags(field string, tags []string, maxCount int) error {
	if len(tags) > maxCount {
		return errs.NewTooManyElements(field, maxCount)
	}
	for _, tag := range tags {
		if len(tag) > MaxTagLen {
			return errs.NewFieldTooLong(field, MaxTagLen)
		}
	}
	return nil
}

// ValidateRoleRequirements checks the whole list before it is accepted.
func ValidateRoleRequirements(roles []RoleRequirement) error {
	if len(roles) > MaxRequiredRoles {
		return errs.NewTooManyElements("required_roles", MaxRequiredRoles)
	}
	for i := range roles {
		if err := roles[i].Validate(); err != nil {
			return err
		}
	}
	// A role tag may appear once; Others is exempt since its label
	// disambiguates entries.
	tags := lo.FilterMap(roles, func(r RoleRequirement, _ int) (RoleTag, bool) {
		return r.Role, r.Role != RoleOthers
	})
	if len(lo.Uniq(tags)) != len(tags) {
		return errs.NewInvalidField("required_roles", "duplicate role entries")
	}
	return nil
}

func (p *Project) Validate() error {
	if p.Name == "" {
		return errs.NewFieldRequired("name")
	}
	if len(p.Name) > MaxProjectNameLen {
		return errs.NewFieldTooLong("name", MaxProjectNameLen)
	}
	if len(p.Description) > MaxDescriptionLen {
		return errs.NewFieldTooLong("description", MaxDescriptionLen)
	}
	if len(p.GithubLink) > MaxGithubLinkLen {
		return errs.NewFieldTooLong("github_link", MaxGithubLinkLen)
	}
	if len(p.LogoHash) > MaxLogoHashLen {
		return errs.NewFieldTooLong("logo_hash", MaxLogoHashLen)
	}
	if err := validateTags("tech_stack", p.TechStack, MaxTechStackTags); err != nil {
		return err
	}
	if err := validateTags("contribution_needs", p.ContributionNeeds, MaxNeedTags); err != nil {
		return err
	}
	if len(p.CollabIntent) > MaxCollabIntentLen {
		return errs.NewFieldTooLong("collab_intent", MaxCollabIntentLen)
	}
	if !p.CollaborationLevel.Valid() {
		return errs.NewInvalidField("collaboration_level", "unknown value")
	}
	if !p.ProjectStatus.Valid() {
		return errs.NewInvalidField("project_status", "unknown value")
	}
	if !p.AcceptingCollaborations.Valid() {
		return errs.NewInvalidField("accepting_collaborations", "unknown value")
	}
	return ValidateRoleRequirements(p.RequiredRoles)
}

// FindRole returns the requirement entry for the given role tag, or nil when
// the project does not declare it.
func (p *Project) FindRole(role RoleTag) *RoleRequirement {
	for i := range p.RequiredRoles {
		if p.RequiredRoles[i].Role == role {
			return &p.RequiredRoles[i]
		}
	}
	return nil
}

// ProjectUpdate is a field-wise optional update. The name is not updatable:
// it is part of the project's logical key.
type ProjectUpdate struct {
	Description        *string
	GithubLink         *string
	LogoHash           *string
	TechStack          *[]string
	ContributionNeeds  *[]string
	CollabIntent       *string
	CollaborationLevel *CollaborationLevel
	ProjectStatus      *ProjectStatus
	IsActive           *bool
}

func (up *ProjectUpdate) Validate() error {
	if up.Description != nil && len(*up.Description) > MaxDescriptionLen {
		return errs.NewFieldTooLong("description", MaxDescriptionLen)
	}
	if up.GithubLink != nil && len(*up.GithubLink) > MaxGithubLinkLen {
		return errs.NewFieldTooLong("github_link", MaxGithubLinkLen)
	}
	if up.LogoHash != nil && len(*up.LogoHash) > MaxLogoHashLen {
		return errs.NewFieldTooLong("logo_hash", MaxLogoHashLen)
	}
	if up.TechStack != nil {
		if err := validateTags("tech_stack", *up.TechStack, MaxTechStackTags); err != nil {
			return err
		}
	}
	if up.ContributionNeeds != nil {
		if err := validateTags("contribution_needs", *up.ContributionNeeds, MaxNeedTags); err != nil {
			return err
		}
	}
	if up.CollabIntent != nil && len(*up.CollabIntent) > MaxCollabIntentLen {
		return errs.NewFieldTooLong("collab_intent", MaxCollabIntentLen)
	}
	if up.CollaborationLevel != nil && !up.CollaborationLevel.Valid() {
		return errs.NewInvalidField("collaboration_level", "unknown value")
	}
	if up.ProjectStatus != nil && !up.ProjectStatus.Valid() {
		return errs.NewInvalidField("project_status", "unknown value")
	}
	return nil
}

func (up *ProjectUpdate) Apply(p *Project) {
	if up.Description != nil {
		p.Description = *up.Description
	}
	if up.GithubLink != nil {
		p.GithubLink = *up.GithubLink
	}
	if up.LogoHash != nil {
		p.LogoHash = *up.LogoHash
	}
	if up.TechStack != nil {
		p.TechStack = *up.TechStack
	}
	if up.ContributionNeeds != nil {
		p.ContributionNeeds = *up.ContributionNeeds
	}
	if up.CollabIntent != nil {
		p.CollabIntent = *up.CollabIntent
	}
	if up.CollaborationLevel != nil {
		p.CollaborationLevel = *up.CollaborationLevel
	}
	if up.ProjectStatus != nil {
		p.ProjectStatus = *up.ProjectStatus
	}
	if up.IsActive != nil {
		p.IsActive = *up.IsActive
	}
}
