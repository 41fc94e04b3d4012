package models

// Enums are persisted as single bytes, so the numeric values below are part of
// the stored layout and must never be reordered.

// ProfileVisibility controls who may read a user profile.
type ProfileVisibility uint8

const (
	VisibilityPublic ProfileVisibility = iota
	VisibilityPrivate
	VisibilityFriendsOnly
)

func (v ProfileVisibility) Valid() bool {
	return v <= VisibilityFriendsOnly
}

func (v ProfileVisibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	case VisibilityFriendsOnly:
		return "friends_only"
	}
	return "unknown"
}

// CollaborationLevel is the experience level a project welcomes.
type CollaborationLevel uint8

const (
	LevelBeginner CollaborationLevel = iota
	LevelIntermediate
	LevelAdvanced
	LevelAllLevels
)

func (l CollaborationLevel) Valid() bool {
	return l <= LevelAllLevels
}

func (l CollaborationLevel) String() string {
	switch l {
	case LevelBeginner:
		return "beginner"
	case LevelIntermediate:
		return "intermediate"
	case LevelAdvanced:
		return "advanced"
	case LevelAllLevels:
		return "all_levels"
	}
	return "unknown"
}

// ProjectStatus tracks rough completion of a project.
type ProjectStatus uint8

const (
	StatusJustStarted ProjectStatus = iota
	StatusInProgress
	StatusNearlyComplete
	StatusCompleted
	StatusActiveDev
	StatusOnHold
)

func (s ProjectStatus) Valid() bool {
	return s <= StatusOnHold
}

func (s ProjectStatus) String() string {
	switch s {
	case StatusJustStarted:
		return "just_started"
	case StatusInProgress:
		return "in_progress"
	case StatusNearlyComplete:
		return "nearly_complete"
	case StatusCompleted:
		return "completed"
	case StatusActiveDev:
		return "active_dev"
	case StatusOnHold:
		return "on_hold"
	}
	return "unknown"
}

// AcceptingStatus soft-closes a project for new collaboration requests.
type AcceptingStatus uint8

const (
	AcceptingOpen AcceptingStatus = iota
	AcceptingClosed
)

func (a AcceptingStatus) Valid() bool {
	return a <= AcceptingClosed
}

func (a AcceptingStatus) String() string {
	if a == AcceptingClosed {
		return "closed"
	}
	return "open"
}

// RequestStatus is the collaboration-request lifecycle state. Accepted and
// Rejected are terminal; a withdrawn request is destroyed, not stored.
type RequestStatus uint8

const (
	RequestPending RequestStatus = iota
	RequestUnderReview
	RequestAccepted
	RequestRejected
)

func (s RequestStatus) Valid() bool {
	return s <= RequestRejected
}

func (s RequestStatus) String() string {
	switch s {
	case RequestPending:
		return "pending"
	case RequestUnderReview:
		return "under_review"
	case RequestAccepted:
		return "accepted"
	case RequestRejected:
		return "rejected"
	}
	return "unknown"
}

// Resolved reports whether the request has reached a terminal state.
func (s RequestStatus) Resolved() bool {
	return s == RequestAccepted || s == RequestRejected
}

// RoleTag names a contributor role a project can declare slots for.
type RoleTag uint8

const (
	RoleFrontend RoleTag = iota
	RoleBackend
	RoleFullstack
	RoleDevOps
	RoleQA
	RoleDesigner
	RoleOthers
)

func (r RoleTag) Valid() bool {
	return r <= RoleOthers
}

func (r RoleTag) String() string {
	switch r {
	case RoleFrontend:
		return "frontend"
	case RoleBackend:
		return "backend"
	case RoleFullstack:
		return "fullstack"
	case RoleDevOps:
		return "devops"
	case RoleQA:
		return "qa"
	case RoleDesigner:
		return "designer"
	case RoleOthers:
		return "others"
	}
	return "unknown"
}
