package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Persisted layout: a one-byte type tag, then the entity's fields in declared
// order. Text and collections carry a u16 length prefix, numeric fields are
// fixed-width little-endian, timestamps are signed 64-bit seconds since epoch.

// Record type tags.
const (
	TagUser    uint8 = 1
	TagProject uint8 = 2
	TagRequest uint8 = 3
)

// Schema versions. User v1 predates contact_info; v1 records stay readable
// until migrated.
const (
	UserSchemaV1 uint8 = 1
	UserSchemaV2 uint8 = 2

	CurrentUserSchema    = UserSchemaV2
	CurrentProjectSchema uint8 = 1
	CurrentRequestSchema uint8 = 1
)

// Allocated record sizes. Every record is sized to its validated-max layout so
// a full rewrite always fits.
const (
	userSpaceV1 = 1 +
		(2 + MaxIdentityLen) +
		(2 + MaxUsernameLen) +
		(2 + MaxDisplayNameLen) +
		(2 + MaxUserRoleLen) +
		(2 + MaxLocationLen) +
		(2 + MaxBioLen) +
		(2 + MaxGithubLinkLen) +
		(2 + MaxMetadataHashLen) +
		4 + 4 + 4 + 8 + 8 + 1 + 1 + 1

	userSpaceV2 = userSpaceV1 + 2 + MaxContactInfoLen

	roleRequirementSpace = 1 + 1 + 1 + 1 + 2 + MaxRoleLabelLen

	// ProjectSpace is the allocated size of a project record.
	ProjectSpace = 1 +
		(2 + MaxIdentityLen) +
		(2 + MaxProjectNameLen) +
		(2 + MaxDescriptionLen) +
		(2 + MaxGithubLinkLen) +
		(2 + MaxLogoHashLen) +
		2 + MaxTechStackTags*(2+MaxTagLen) +
		2 + MaxNeedTags*(2+MaxTagLen) +
		(2 + MaxCollabIntentLen) +
		1 + 1 + 1 + 8 + 8 + 2 + 1 +
		2 + MaxRequiredRoles*roleRequirementSpace

	// RequestSpace is the allocated size of a collaboration-request record.
	RequestSpace = 1 +
		2*(2+MaxIdentityLen) +
		16 +
		2*(2+MaxMessageLen) +
		1 + 8 + 8 + 1 + 1
)

// UserSpace returns the allocated size of a user record at the given schema
// version.
func UserSpace(version uint8) int {
	if version >= UserSchemaV2 {
		return userSpaceV2
	}
	return userSpaceV1
}

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) u8(v uint8) {
	e.buf.WriteByte(v)
}

func (e *encoder) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) i64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	e.buf.Write(b[:])
}

func (e *encoder) boolean(v bool) {
	if v {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}

func (e *encoder) str(s string) {
	e.u16(uint16(len(s)))
	e.buf.WriteString(s)
}

type decoder struct {
	data []byte
	off  int
	err  error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.off+n > len(d.data) {
		d.err = fmt.Errorf("record payload truncated at offset %d", d.off)
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) i64() int64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (d *decoder) boolean() bool {
	return d.u8() == 1
}

func (d *decoder) str() string {
	n := int(d.u16())
	b := d.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

// EncodeUser serializes a user at the given schema version. A v1 layout never
// carries contact_info, so re-encoding an unmigrated record cannot grow it
// past its allocation.
func EncodeUser(u *User, version uint8) []byte {
	var e encoder
	e.u8(TagUser)
	e.str(string(u.Wallet))
	e.str(u.Username)
	e.str(u.DisplayName)
	e.str(u.Role)
	e.str(u.Location)
	e.str(u.Bio)
	e.str(u.GithubLink)
	e.str(u.MetadataHash)
	if version >= UserSchemaV2 {
		e.str(u.ContactInfo)
	}
	e.u32(u.Reputation)
	e.u32(u.ProjectsCount)
	e.u32(u.CollabsCount)
	e.i64(u.MemberSince)
	e.i64(u.LastActive)
	e.boolean(u.IsVerified)
	e.boolean(u.OpenToCollab)
	e.u8(uint8(u.ProfileVisibility))
	return e.buf.Bytes()
}

func DecodeUser(data []byte, version uint8) (*User, error) {
	d := decoder{data: data}
	if tag := d.u8(); d.err == nil && tag != TagUser {
		return nil, fmt.Errorf("record type tag %d is not a user", tag)
	}
	u := &User{}
	u.Wallet = Identity(d.str())
	u.Username = d.str()
	u.DisplayName = d.str()
	u.Role = d.str()
	u.Location = d.str()
	u.Bio = d.str()
	u.GithubLink = d.str()
	u.MetadataHash = d.str()
	if version >= UserSchemaV2 {
		u.ContactInfo = d.str()
	}
	u.Reputation = d.u32()
	u.ProjectsCount = d.u32()
	u.CollabsCount = d.u32()
	u.MemberSince = d.i64()
	u.LastActive = d.i64()
	u.IsVerified = d.boolean()
	u.OpenToCollab = d.boolean()
	u.ProfileVisibility = ProfileVisibility(d.u8())
	if d.err != nil {
		return nil, d.err
	}
	return u, nil
}

func EncodeProject(p *Project) []byte {
	var e encoder
	e.u8(TagProject)
	e.str(string(p.Creator))
	e.str(p.Name)
	e.str(p.Description)
	e.str(p.GithubLink)
	e.str(p.LogoHash)
	e.u16(uint16(len(p.TechStack)))
	for _, tag := range p.TechStack {
		e.str(tag)
	}
	e.u16(uint16(len(p.ContributionNeeds)))
	for _, tag := range p.ContributionNeeds {
		e.str(tag)
	}
	e.str(p.CollabIntent)
	e.u8(uint8(p.CollaborationLevel))
	e.u8(uint8(p.ProjectStatus))
	e.u8(uint8(p.AcceptingCollaborations))
	e.i64(p.Timestamp)
	e.i64(p.LastUpdated)
	e.u16(p.ContributorsCount)
	e.boolean(p.IsActive)
	e.u16(uint16(len(p.RequiredRoles)))
	for i := range p.RequiredRoles {
		r := &p.RequiredRoles[i]
		e.u8(uint8(r.Role))
		e.u8(r.Needed)
		e.u8(r.Accepted)
		if r.Label != nil {
			e.boolean(true)
			e.str(*r.Label)
		} else {
			e.boolean(false)
		}
	}
	return e.buf.Bytes()
}

func DecodeProject(data []byte) (*Project, error) {
	d := decoder{data: data}
	if tag := d.u8(); d.err == nil && tag != TagProject {
		return nil, fmt.Errorf("record type tag %d is not a project", tag)
	}
	p := &Project{}
	p.Creator = Identity(d.str())
	p.Name = d.str()
	p.Description = d.str()
	p.GithubLink = d.str()
	p.LogoHash = d.str()
	for i, n := 0, int(d.u16()); i < n && d.err == nil; i++ {
		p.TechStack = append(p.TechStack, d.str())
	}
	for i, n := 0, int(d.u16()); i < n && d.err == nil; i++ {
		p.ContributionNeeds = append(p.ContributionNeeds, d.str())
	}
	p.CollabIntent = d.str()
	p.CollaborationLevel = CollaborationLevel(d.u8())
	p.ProjectStatus = ProjectStatus(d.u8())
	p.AcceptingCollaborations = AcceptingStatus(d.u8())
	p.Timestamp = d.i64()
	p.LastUpdated = d.i64()
	p.ContributorsCount = d.u16()
	p.IsActive = d.boolean()
	for i, n := 0, int(d.u16()); i < n && d.err == nil; i++ {
		var r RoleRequirement
		r.Role = RoleTag(d.u8())
		r.Needed = d.u8()
		r.Accepted = d.u8()
		if d.boolean() {
			label := d.str()
			r.Label = &label
		}
		p.RequiredRoles = append(p.RequiredRoles, r)
	}
	if d.err != nil {
		return nil, d.err
	}
	return p, nil
}

func EncodeRequest(r *CollaborationRequest) []byte {
	var e encoder
	e.u8(TagRequest)
	e.str(string(r.Sender))
	e.str(string(r.Recipient))
	e.buf.Write(r.Project[:])
	e.str(r.Message)
	e.str(r.OwnerMessage)
	e.u8(uint8(r.Status))
	e.i64(r.Timestamp)
	e.i64(r.ReplyTimestamp)
	if r.DesiredRole != nil {
		e.boolean(true)
		e.u8(uint8(*r.DesiredRole))
	} else {
		e.boolean(false)
		e.u8(0)
	}
	return e.buf.Bytes()
}

func DecodeRequest(data []byte) (*CollaborationRequest, error) {
	d := decoder{data: data}
	if tag := d.u8(); d.err == nil && tag != TagRequest {
		return nil, fmt.Errorf("record type tag %d is not a collaboration request", tag)
	}
	r := &CollaborationRequest{}
	r.Sender = Identity(d.str())
	r.Recipient = Identity(d.str())
	if b := d.take(16); b != nil {
		copy(r.Project[:], b)
	}
	r.Message = d.str()
	r.OwnerMessage = d.str()
	r.Status = RequestStatus(d.u8())
	r.Timestamp = d.i64()
	r.ReplyTimestamp = d.i64()
	present := d.boolean()
	role := RoleTag(d.u8())
	if present {
		r.DesiredRole = &role
	}
	if d.err != nil {
		return nil, d.err
	}
	return r, nil
}
