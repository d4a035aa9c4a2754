// Package access decides whether a caller may perform an action on a
// project-scoped resource. Decisions combine the caller's global role with
// their role inside the project.
package access

import (
	"time"

	"taskManager/internal/models/project"
	"taskManager/internal/models/role"

	"github.com/google/uuid"
)

type Action int

const (
	ViewProject Action = iota + 1
	UpdateProject
	DeleteProject
	AddMember
	RemoveMember
	ViewTask
	CreateTask
	ModifyTask
	CommentTask
	ModifyComment
	UploadAttachment
)

var actionNames = map[Action]string{
	ViewProject:      "view_project",
	UpdateProject:    "update_project",
	DeleteProject:    "delete_project",
	AddMember:        "add_member",
	RemoveMember:     "remove_member",
	ViewTask:         "view_task",
	CreateTask:       "create_task",
	ModifyTask:       "modify_task",
	CommentTask:      "comment_task",
	ModifyComment:    "modify_comment",
	UploadAttachment: "upload_attachment",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

const (
	ReasonNotMember        = "not a member"
	ReasonInsufficientRole = "insufficient role"
	ReasonUnknownAction    = "unknown action"
	ReasonAnonymous        = "not authenticated"
)

// Caller is the authenticated identity taken from the access token.
type Caller struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Role     role.Role
	// ExpiresAt is when the token the caller presented stops being valid.
	ExpiresAt time.Time
}

func (c Caller) IsAdmin() bool {
	return c.Role == role.Admin
}

// Resource is what an action targets. Membership is the caller's record in
// the project, nil if they have none. OwnerID is the user who owns the
// resource itself: the project owner, task reporter or comment author.
type Resource struct {
	Membership *project.Member
	OwnerID    uuid.UUID
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

type policy struct {
	membership    bool
	minRole       role.Role
	ownerOverride bool
}

var policies = map[Action]policy{
	ViewProject:      {membership: true},
	UpdateProject:    {membership: true, minRole: role.Manager, ownerOverride: true},
	DeleteProject:    {membership: true, minRole: role.Admin, ownerOverride: true},
	AddMember:        {membership: true, minRole: role.Manager},
	RemoveMember:     {membership: true, minRole: role.Admin},
	ViewTask:         {membership: true},
	CreateTask:       {membership: true},
	ModifyTask:       {membership: true, minRole: role.Manager, ownerOverride: true},
	CommentTask:      {membership: true},
	ModifyComment:    {membership: true, minRole: role.Manager, ownerOverride: true},
	UploadAttachment: {membership: true},
}

// Decide evaluates, in order: global admin, membership, resource ownership,
// minimum project role. Ownership is checked before the role threshold so
// that a reporter keeps control of their task whatever their project role.
func Decide(c Caller, a Action, r Resource) Decision {
	if c.UserID == uuid.Nil {
		return deny(ReasonAnonymous)
	}
	if c.IsAdmin() {
		return allow()
	}

	p, ok := policies[a]
	if !ok {
		return deny(ReasonUnknownAction)
	}

	if p.membership && r.Membership == nil {
		return deny(ReasonNotMember)
	}

	if p.ownerOverride && r.OwnerID != uuid.Nil && r.OwnerID == c.UserID {
		return allow()
	}

	if p.minRole != role.Unknown {
		if r.Membership == nil || !r.Membership.Role.AtLeast(p.minRole) {
			return deny(ReasonInsufficientRole)
		}
	}

	return allow()
}
