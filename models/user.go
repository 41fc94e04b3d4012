package models

import (
	"github.com/devcol-labs/devcol-backend/errs"
)

// User field bounds, in bytes. These are part of the persisted layout: a
// record's allocated size is computed from them, so changing one is a schema
// revision.
const (
	MaxUsernameLen     = 32
	MaxDisplayNameLen  = 64
	MaxUserRoleLen     = 50
	MaxLocationLen     = 50
	MaxBioLen          = 200
	MaxGithubLinkLen   = 100
	MaxMetadataHashLen = 64
	MaxContactInfoLen  = 200
)

// User is a developer profile record. The username is immutable after
// creation; ContactInfo exists only on schema v2 records.
type User struct {
	Wallet            Identity
	Username          string
	DisplayName       string
	Role              string
	Location          string
	Bio               string
	GithubLink        string
	MetadataHash      string
	ContactInfo       string
	Reputation        uint32
	ProjectsCount     uint32
	CollabsCount      uint32
	MemberSince       int64
	LastActive        int64
	IsVerified        bool
	OpenToCollab      bool
	ProfileVisibility ProfileVisibility
}

// Validate checks every bounded field of a fully-populated user.
func (u *User) Validate() error {
	if u.Username == "" {
		return errs.NewFieldRequired("username")
	}
	if len(u.Username) > MaxUsernameLen {
		return errs.NewFieldTooLong("username", MaxUsernameLen)
	}
	if len(u.DisplayName) > MaxDisplayNameLen {
		return errs.NewFieldTooLong("display_name", MaxDisplayNameLen)
	}
	if len(u.Role) > MaxUserRoleLen {
		return errs.NewFieldTooLong("role", MaxUserRoleLen)
	}
	if len(u.Location) > MaxLocationLen {
		return errs.NewFieldTooLong("location", MaxLocationLen)
	}
	if len(u.Bio) > MaxBioLen {
		return errs.NewFieldTooLong("bio", MaxBioLen)
	}
	if len(u.GithubLink) > MaxGithubLinkLen {
		return errs.NewFieldTooLong("github_link", MaxGithubLinkLen)
	}
	if len(u.MetadataHash) > MaxMetadataHashLen {
		return errs.NewFieldTooLong("metadata_hash", MaxMetadataHashLen)
	}
	if len(u.ContactInfo) > MaxContactInfoLen {
		return errs.NewFieldTooLong("contact_info", MaxContactInfoLen)
	}
	if !u.ProfileVisibility.Valid() {
		return errs.NewInvalidField("profile_visibility", "unknown value")
	}
	return nil
}

// UserUpdate is a field-wise optional update: a nil field leaves the stored
// value untouched, a present field is revalidated and replaces it.
type UserUpdate struct {
	DisplayName       *string
	Role              *string
	Location          *string
	Bio               *string
	GithubLink        *string
	MetadataHash      *string
	ContactInfo       *string
	OpenToCollab      *bool
	ProfileVisibility *ProfileVisibility
}

func (up *UserUpdate) Validate() error {
	if up.DisplayName != nil && len(*up.DisplayName) > MaxDisplayNameLen {
		return errs.NewFieldTooLong("display_name", MaxDisplayNameLen)
	}
	if up.Role != nil && len(*up.Role) > MaxUserRoleLen {
		return errs.NewFieldTooLong("role", MaxUserRoleLen)
	}
	if up.Location != nil && len(*up.Location) > MaxLocationLen {
		return errs.NewFieldTooLong("location", MaxLocationLen)
	}
	if up.Bio != nil && len(*up.Bio) > MaxBioLen {
		return errs.NewFieldTooLong("bio", MaxBioLen)
	}
	if up.GithubLink != nil && len(*up.GithubLink) > MaxGithubLinkLen {
		return errs.NewFieldTooLong("github_link", MaxGithubLinkLen)
	}
	if up.MetadataHash != nil && len(*up.MetadataHash) > MaxMetadataHashLen {
		return errs.NewFieldTooLong("metadata_hash", MaxMetadataHashLen)
	}
	if up.ContactInfo != nil && len(*up.ContactInfo) > MaxContactInfoLen {
		return errs.NewFieldTooLong("contact_info", MaxContactInfoLen)
	}
	if up.ProfileVisibility != nil && !up.ProfileVisibility.Valid() {
		return errs.NewInvalidField("profile_visibility", "unknown value")
	}
	return nil
}

// Apply overwrites the stored values with every present field. The update must
// already be validated.
func (up *UserUpdate) Apply(u *User) {
	if up.DisplayName != nil {
		u.DisplayName = *up.DisplayName
	}
	if up.Role != nil {
		u.Role = *up.Role
	}
	if up.Location != nil {
		u.Location = *up.Location
	}
	if up.Bio != nil {
		u.Bio = *up.Bio
	}
	if up.GithubLink != nil {
		u.GithubLink = *up.GithubLink
	}
	if up.MetadataHash != nil {
		u.MetadataHash = *up.MetadataHash
	}
	if up.ContactInfo != nil {
		u.ContactInfo = *up.ContactInfo
	}
	if up.OpenToCollab != nil {
		u.OpenToCollab = *up.OpenToCollab
	}
	if up.ProfileVisibility != nil {
		u.ProfileVisibility = *up.ProfileVisibility
	}
}

// Redacted returns the view of a profile visible to callers other than the
// owner when the profile is not public: only the identity, username, and
// visibility survive. FriendsOnly collapses to Private here since this layer
// has no social graph.
func (u *User) Redacted() *User {
	return &User{
		Wallet:            u.Wallet,
		Username:          u.Username,
		ProfileVisibility: u.ProfileVisibility,
	}
}
