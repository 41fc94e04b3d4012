package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCodecRoundTrip(t *testing.T) {
	u := validUser()
	u.Reputation = 7
	u.ProjectsCount = 2
	u.MemberSince = 1700000000
	u.LastActive = 1700000100
	u.IsVerified = true
	u.OpenToCollab = true
	u.ProfileVisibility = VisibilityFriendsOnly

	decoded, err := DecodeUser(EncodeUser(&u, UserSchemaV2), UserSchemaV2)
	require.NoError(t, err)
	assert.Equal(t, &u, decoded)
}

func TestUserCodecV1DropsContactInfo(t *testing.T) {
	u := validUser()

	decoded, err := DecodeUser(EncodeUser(&u, UserSchemaV1), UserSchemaV1)
	require.NoError(t, err)

	assert.Empty(t, decoded.ContactInfo)
	assert.Equal(t, u.Username, decoded.Username)
	assert.Equal(t, u.ProfileVisibility, decoded.ProfileVisibility)
}

func TestUserEncodedFitsAllocation(t *testing.T) {
	u := User{
		Wallet:       Identity(strings.Repeat("w", MaxIdentityLen)),
		Username:     strings.Repeat("u", MaxUsernameLen),
		DisplayName:  strings.Repeat("d", MaxDisplayNameLen),
		Role:         strings.Repeat("r", MaxUserRoleLen),
		Location:     strings.Repeat("l", MaxLocationLen),
		Bio:          strings.Repeat("b", MaxBioLen),
		GithubLink:   strings.Repeat("g", MaxGithubLinkLen),
		MetadataHash: strings.Repeat("m", MaxMetadataHashLen),
		ContactInfo:  strings.Repeat("c", MaxContactInfoLen),
	}

	assert.LessOrEqual(t, len(EncodeUser(&u, UserSchemaV1)), UserSpace(UserSchemaV1))
	assert.LessOrEqual(t, len(EncodeUser(&u, UserSchemaV2)), UserSpace(UserSchemaV2))
	assert.Greater(t, UserSpace(UserSchemaV2), UserSpace(UserSchemaV1))
}

func TestDecodeUserRejectsWrongTag(t *testing.T) {
	p := validProject()
	_, err := DecodeUser(EncodeProject(&p), UserSchemaV2)
	assert.Error(t, err)
}

func TestDecodeUserTruncated(t *testing.T) {
	u := validUser()
	data := EncodeUser(&u, UserSchemaV2)

	_, err := DecodeUser(data[:len(data)-5], UserSchemaV2)
	assert.Error(t, err)
}

func TestProjectCodecRoundTrip(t *testing.T) {
	label := "data engineer"
	p := validProject()
	p.Timestamp = 1700000000
	p.LastUpdated = 1700000500
	p.ContributorsCount = 3
	p.IsActive = true
	p.RequiredRoles = []RoleRequirement{
		{Role: RoleBackend, Needed: 2, Accepted: 1},
		{Role: RoleOthers, Needed: 1, Label: &label},
	}

	decoded, err := DecodeProject(EncodeProject(&p))
	require.NoError(t, err)
	assert.Equal(t, &p, decoded)
}

func TestProjectEncodedFitsAllocation(t *testing.T) {
	label := strings.Repeat("x", MaxRoleLabelLen)
	roles := make([]RoleRequirement, MaxRequiredRoles)
	for i := range roles {
		roles[i] = RoleRequirement{Role: RoleOthers, Needed: MaxRoleNeeded, Label: &label}
	}
	tags := make([]string, MaxTechStackTags)
	for i := range tags {
		tags[i] = strings.Repeat("t", MaxTagLen)
	}
	needs := make([]string, MaxNeedTags)
	for i := range needs {
		needs[i] = strings.Repeat("n", MaxTagLen)
	}

	p := Project{
		Creator:           Identity(strings.Repeat("w", MaxIdentityLen)),
		Name:              strings.Repeat("p", MaxProjectNameLen),
		Description:       strings.Repeat("d", MaxDescriptionLen),
		GithubLink:        strings.Repeat("g", MaxGithubLinkLen),
		LogoHash:          strings.Repeat("h", MaxLogoHashLen),
		TechStack:         tags,
		ContributionNeeds: needs,
		CollabIntent:      strings.Repeat("c", MaxCollabIntentLen),
		RequiredRoles:     roles,
	}

	assert.LessOrEqual(t, len(EncodeProject(&p)), ProjectSpace)
}

func TestRequestCodecRoundTrip(t *testing.T) {
	role := RoleDevOps
	r := CollaborationRequest{
		Sender:         "wallet-1",
		Recipient:      "wallet-2",
		Project:        uuid.New(),
		Message:        "let me in",
		OwnerMessage:   "welcome",
		Status:         RequestAccepted,
		Timestamp:      1700000000,
		ReplyTimestamp: 1700000900,
		DesiredRole:    &role,
	}

	decoded, err := DecodeRequest(EncodeRequest(&r))
	require.NoError(t, err)
	assert.Equal(t, &r, decoded)
}

func TestRequestCodecNoDesiredRole(t *testing.T) {
	r := CollaborationRequest{
		Sender:    "wallet-1",
		Recipient: "wallet-2",
		Project:   uuid.New(),
		Message:   "hi",
		Status:    RequestPending,
		Timestamp: 1700000000,
	}

	decoded, err := DecodeRequest(EncodeRequest(&r))
	require.NoError(t, err)
	assert.Nil(t, decoded.DesiredRole)
	assert.Equal(t, &r, decoded)
}

func TestRequestEncodedFitsAllocation(t *testing.T) {
	role := RoleOthers
	r := CollaborationRequest{
		Sender:       Identity(strings.Repeat("a", MaxIdentityLen)),
		Recipient:    Identity(strings.Repeat("b", MaxIdentityLen)),
		Project:      uuid.New(),
		Message:      strings.Repeat("m", MaxMessageLen),
		OwnerMessage: strings.Repeat("o", MaxMessageLen),
		DesiredRole:  &role,
	}

	assert.LessOrEqual(t, len(EncodeRequest(&r)), RequestSpace)
}
