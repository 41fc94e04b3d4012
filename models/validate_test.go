package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devcol-labs/devcol-backend/errs"
)

func validUser() User {
	return User{
		Wallet:            "wallet-1",
		Username:          "alice",
		DisplayName:       "Alice",
		Role:              "Backend Developer",
		Location:          "Lisbon",
		Bio:               "builds things",
		GithubLink:        "https://github.com/alice",
		MetadataHash:      strings.Repeat("a", 64),
		ContactInfo:       "alice@example.com",
		ProfileVisibility: VisibilityPublic,
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*User)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(u *User) {},
		},
		{
			name:   "max length fields pass",
			mutate: func(u *User) { u.Username = strings.Repeat("a", MaxUsernameLen); u.Bio = strings.Repeat("b", MaxBioLen) },
		},
		{
			name:    "empty username",
			mutate:  func(u *User) { u.Username = "" },
			wantErr: true,
		},
		{
			name:    "username too long",
			mutate:  func(u *User) { u.Username = strings.Repeat("a", MaxUsernameLen+1) },
			wantErr: true,
		},
		{
			name:    "display name too long",
			mutate:  func(u *User) { u.DisplayName = strings.Repeat("a", MaxDisplayNameLen+1) },
			wantErr: true,
		},
		{
			name:    "bio too long",
			mutate:  func(u *User) { u.Bio = strings.Repeat("a", MaxBioLen+1) },
			wantErr: true,
		},
		{
			name:    "role too long",
			mutate:  func(u *User) { u.Role = strings.Repeat("a", MaxUserRoleLen+1) },
			wantErr: true,
		},
		{
			name:    "location too long",
			mutate:  func(u *User) { u.Location = strings.Repeat("a", MaxLocationLen+1) },
			wantErr: true,
		},
		{
			name:    "github link too long",
			mutate:  func(u *User) { u.GithubLink = strings.Repeat("a", MaxGithubLinkLen+1) },
			wantErr: true,
		},
		{
			name:    "metadata hash too long",
			mutate:  func(u *User) { u.MetadataHash = strings.Repeat("a", MaxMetadataHashLen+1) },
			wantErr: true,
		},
		{
			name:    "contact info too long",
			mutate:  func(u *User) { u.ContactInfo = strings.Repeat("a", MaxContactInfoLen+1) },
			wantErr: true,
		},
		{
			name:    "unknown visibility",
			mutate:  func(u *User) { u.ProfileVisibility = ProfileVisibility(9) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)
			err := u.Validate()
			if tt.wantErr {
				assert.True(t, errs.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserUpdateApply(t *testing.T) {
	u := validUser()
	bio := "new bio"
	open := false
	up := UserUpdate{Bio: &bio, OpenToCollab: &open}

	assert.NoError(t, up.Validate())
	up.Apply(&u)

	assert.Equal(t, "new bio", u.Bio)
	assert.False(t, u.OpenToCollab)
	// Untouched fields keep their values.
	assert.Equal(t, "Alice", u.DisplayName)
}

func TestUserRedacted(t *testing.T) {
	u := validUser()
	u.ProfileVisibility = VisibilityPrivate
	u.MemberSince = 1000
	u.IsVerified = true

	r := u.Redacted()

	assert.Equal(t, u.Wallet, r.Wallet)
	assert.Equal(t, u.Username, r.Username)
	assert.Equal(t, VisibilityPrivate, r.ProfileVisibility)
	assert.Empty(t, r.DisplayName)
	assert.Empty(t, r.Bio)
	assert.Empty(t, r.ContactInfo)
	assert.Zero(t, r.MemberSince)
	assert.False(t, r.IsVerified)
}

func validProject() Project {
	return Project{
		Creator:                 "wallet-1",
		Name:                    "devcol",
		Description:             "collaboration directory",
		GithubLink:              "https://github.com/devcol-labs/devcol",
		TechStack:               []string{"go", "postgres"},
		ContributionNeeds:       []string{"docs"},
		CollabIntent:            "looking for contributors",
		CollaborationLevel:      LevelAllLevels,
		ProjectStatus:           StatusInProgress,
		AcceptingCollaborations: AcceptingOpen,
		RequiredRoles: []RoleRequirement{
			{Role: RoleBackend, Needed: 2},
		},
	}
}

func TestProjectValidate(t *testing.T) {
	label := "data engineer"
	longLabel := strings.Repeat("a", MaxRoleLabelLen+1)

	tests := []struct {
		name    string
		mutate  func(*Project)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(p *Project) {},
		},
		{
			name:    "empty name",
			mutate:  func(p *Project) { p.Name = "" },
			wantErr: true,
		},
		{
			name:    "name too long",
			mutate:  func(p *Project) { p.Name = strings.Repeat("a", MaxProjectNameLen+1) },
			wantErr: true,
		},
		{
			name:    "description too long",
			mutate:  func(p *Project) { p.Description = strings.Repeat("a", MaxDescriptionLen+1) },
			wantErr: true,
		},
		{
			name: "too many tech tags",
			mutate: func(p *Project) {
				p.TechStack = make([]string, MaxTechStackTags+1)
			},
			wantErr: true,
		},
		{
			name:    "tech tag too long",
			mutate:  func(p *Project) { p.TechStack = []string{strings.Repeat("a", MaxTagLen+1)} },
			wantErr: true,
		},
		{
			name:    "github link too long",
			mutate:  func(p *Project) { p.GithubLink = strings.Repeat("a", MaxGithubLinkLen+1) },
			wantErr: true,
		},
		{
			name:    "logo hash too long",
			mutate:  func(p *Project) { p.LogoHash = strings.Repeat("a", MaxLogoHashLen+1) },
			wantErr: true,
		},
		{
			name: "too many contribution needs",
			mutate: func(p *Project) {
				p.ContributionNeeds = make([]string, MaxNeedTags+1)
			},
			wantErr: true,
		},
		{
			name:    "collab intent too long",
			mutate:  func(p *Project) { p.CollabIntent = strings.Repeat("a", MaxCollabIntentLen+1) },
			wantErr: true,
		},
		{
			name:    "unknown project status",
			mutate:  func(p *Project) { p.ProjectStatus = ProjectStatus(99) },
			wantErr: true,
		},
		{
			name: "too many roles",
			mutate: func(p *Project) {
				p.RequiredRoles = make([]RoleRequirement, MaxRequiredRoles+1)
				for i := range p.RequiredRoles {
					p.RequiredRoles[i] = RoleRequirement{Role: RoleOthers, Needed: 1}
				}
			},
			wantErr: true,
		},
		{
			name: "duplicate role tags",
			mutate: func(p *Project) {
				p.RequiredRoles = []RoleRequirement{
					{Role: RoleBackend, Needed: 1},
					{Role: RoleBackend, Needed: 2},
				}
			},
			wantErr: true,
		},
		{
			name: "duplicate others roles allowed",
			mutate: func(p *Project) {
				p.RequiredRoles = []RoleRequirement{
					{Role: RoleOthers, Needed: 1, Label: &label},
					{Role: RoleOthers, Needed: 1},
				}
			},
		},
		{
			name: "needed below minimum",
			mutate: func(p *Project) {
				p.RequiredRoles = []RoleRequirement{{Role: RoleBackend, Needed: 0}}
			},
			wantErr: true,
		},
		{
			name: "needed above maximum",
			mutate: func(p *Project) {
				p.RequiredRoles = []RoleRequirement{{Role: RoleBackend, Needed: MaxRoleNeeded + 1}}
			},
			wantErr: true,
		},
		{
			name: "accepted exceeds needed",
			mutate: func(p *Project) {
				p.RequiredRoles = []RoleRequirement{{Role: RoleBackend, Needed: 1, Accepted: 2}}
			},
			wantErr: true,
		},
		{
			name: "label on non-others role",
			mutate: func(p *Project) {
				p.RequiredRoles = []RoleRequirement{{Role: RoleBackend, Needed: 1, Label: &label}}
			},
			wantErr: true,
		},
		{
			name: "others label too long",
			mutate: func(p *Project) {
				p.RequiredRoles = []RoleRequirement{{Role: RoleOthers, Needed: 1, Label: &longLabel}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProject()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.True(t, errs.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoleRequirementHasCapacity(t *testing.T) {
	r := RoleRequirement{Role: RoleBackend, Needed: 2, Accepted: 1}
	assert.True(t, r.HasCapacity())

	r.Accepted = 2
	assert.False(t, r.HasCapacity())
}

func TestProjectFindRole(t *testing.T) {
	p := validProject()

	slot := p.FindRole(RoleBackend)
	assert.NotNil(t, slot)
	assert.Equal(t, uint8(2), slot.Needed)

	assert.Nil(t, p.FindRole(RoleDesigner))
}

func TestCollaborationRequestValidate(t *testing.T) {
	badRole := RoleTag(42)

	tests := []struct {
		name    string
		req     CollaborationRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  CollaborationRequest{Sender: "a", Recipient: "b", Message: "hi"},
		},
		{
			name:    "message too long",
			req:     CollaborationRequest{Message: strings.Repeat("a", MaxMessageLen+1)},
			wantErr: true,
		},
		{
			name:    "owner message too long",
			req:     CollaborationRequest{OwnerMessage: strings.Repeat("a", MaxMessageLen+1)},
			wantErr: true,
		},
		{
			name:    "unknown status",
			req:     CollaborationRequest{Status: RequestStatus(7)},
			wantErr: true,
		},
		{
			name:    "unknown desired role",
			req:     CollaborationRequest{DesiredRole: &badRole},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.True(t, errs.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestStatusResolved(t *testing.T) {
	assert.False(t, RequestPending.Resolved())
	assert.False(t, RequestUnderReview.Resolved())
	assert.True(t, RequestAccepted.Resolved())
	assert.True(t, RequestRejected.Resolved())
}
