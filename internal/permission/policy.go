// Package permission decides who may do what.
//
// Every check goes through one capability table keyed by (role, resource,
// action). A cell is Allow, Own (allowed when the actor owns the target) or
// Deny. Read-open, write-admin resources are plain table rows enforced by
// Gate; the named predicates below are views over the same table.
package permission

import (
	"context"
	"net/http"

	"media-review/internal/data/entity"
	"media-review/pkg/apperror"
	"media-review/pkg/utils"

	"github.com/google/uuid"
)

type Resource string

const (
	ResourceAuth     Resource = "auth"
	ResourceUser     Resource = "user"
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
)

type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

type Capability int

const (
	Deny Capability = iota
	Own
	Allow
)

type Decision int

const (
	Allowed Decision = iota
	Unauthenticated
	Forbidden
)

const roleAnonymous entity.UserRole = "anonymous"

// Actor is the caller as seen by the policy. The zero value is anonymous.
type Actor struct {
	ID            uuid.UUID
	Username      string
	Role          entity.UserRole
	Superuser     bool
	Authenticated bool
}

func ActorFromUser(user *entity.User) Actor {
	if user == nil {
		return Actor{}
	}
	return Actor{
		ID:            user.ID,
		Username:      user.Username,
		Role:          user.Role,
		Superuser:     user.IsSuperuser,
		Authenticated: true,
	}
}

// ActorFromContext reads the identity stored by the authentication middleware.
func ActorFromContext(ctx context.Context) Actor {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return Actor{}
	}
	username, _ := utils.GetUsernameFromContext(ctx)
	role, _ := utils.GetRoleFromContext(ctx)
	return Actor{
		ID:            userID,
		Username:      username,
		Role:          entity.UserRole(role),
		Superuser:     utils.IsSuperuserFromContext(ctx),
		Authenticated: true,
	}
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated && (a.Role == entity.RoleAdmin || a.Superuser)
}

// tableRole collapses superusers onto the admin row.
func (a Actor) tableRole() entity.UserRole {
	switch {
	case !a.Authenticated:
		return roleAnonymous
	case a.IsAdmin():
		return entity.RoleAdmin
	case a.Role == entity.RoleModerator:
		return entity.RoleModerator
	default:
		return entity.RoleUser
	}
}

type row map[Action]Capability

var (
	readOnly    = row{ActionList: Allow, ActionRetrieve: Allow}
	fullAccess  = row{ActionList: Allow, ActionRetrieve: Allow, ActionCreate: Allow, ActionUpdate: Allow, ActionDelete: Allow}
	authorOwned = row{ActionList: Allow, ActionRetrieve: Allow, ActionCreate: Allow, ActionUpdate: Own, ActionDelete: Own}
	selfOnly    = row{ActionRetrieve: Own, ActionUpdate: Own}
	authOnly    = row{ActionCreate: Allow}
)

var table = map[entity.UserRole]map[Resource]row{
	roleAnonymous: {
		ResourceAuth:     authOnly,
		ResourceCategory: readOnly,
		ResourceGenre:    readOnly,
		ResourceTitle:    readOnly,
		ResourceReview:   readOnly,
		ResourceComment:  readOnly,
	},
	entity.RoleUser: {
		ResourceAuth:     authOnly,
		ResourceUser:     selfOnly,
		ResourceCategory: readOnly,
		ResourceGenre:    readOnly,
		ResourceTitle:    readOnly,
		ResourceReview:   authorOwned,
		ResourceComment:  authorOwned,
	},
	entity.RoleModerator: {
		ResourceAuth:     authOnly,
		ResourceUser:     selfOnly,
		ResourceCategory: readOnly,
		ResourceGenre:    readOnly,
		ResourceTitle:    readOnly,
		ResourceReview:   fullAccess,
		ResourceComment:  fullAccess,
	},
	entity.RoleAdmin: {
		ResourceAuth:     authOnly,
		ResourceUser:     fullAccess,
		ResourceCategory: fullAccess,
		ResourceGenre:    fullAccess,
		ResourceTitle:    fullAccess,
		ResourceReview:   fullAccess,
		ResourceComment:  fullAccess,
	},
}

// CapabilityFor looks up a single cell; missing cells are Deny.
func CapabilityFor(actor Actor, resource Resource, action Action) Capability {
	return table[actor.tableRole()][resource][action]
}

// Decide evaluates the table. ownerID is the owner of the resolved target
// record and only matters for Own cells; pass uuid.Nil when there is none.
func Decide(actor Actor, resource Resource, action Action, ownerID uuid.UUID) Decision {
	allowed := false
	switch CapabilityFor(actor, resource, action) {
	case Allow:
		allowed = true
	case Own:
		allowed = actor.Authenticated && ownerID != uuid.Nil && actor.ID == ownerID
	}

	switch {
	case allowed:
		return Allowed
	case !actor.Authenticated:
		return Unauthenticated
	default:
		return Forbidden
	}
}

// Gate is the pre-handler check used before the target record is loaded.
// Own cells pass here and are settled by Decide once the owner is known.
func Gate(actor Actor, resource Resource, action Action) Decision {
	switch {
	case CapabilityFor(actor, resource, action) != Deny:
		return Allowed
	case !actor.Authenticated:
		return Unauthenticated
	default:
		return Forbidden
	}
}

// Err renders a decision as an apperror, nil when allowed.
func (d Decision) Err(msgs utils.Messages) error {
	switch d {
	case Unauthenticated:
		return apperror.Authentication(msgs.AuthenticationNeeded)
	case Forbidden:
		return apperror.Authorization(msgs.PermissionDenied)
	default:
		return nil
	}
}

// Check is Decide followed by Err.
func Check(actor Actor, resource Resource, action Action, ownerID uuid.UUID, msgs utils.Messages) error {
	return Decide(actor, resource, action, ownerID).Err(msgs)
}

// ActionForMethod maps an HTTP verb to a table action. hasTarget separates
// list from retrieve for safe verbs.
func ActionForMethod(method string, hasTarget bool) Action {
	switch method {
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	default:
		if hasTarget {
			return ActionRetrieve
		}
		return ActionList
	}
}

// ==================== NAMED PREDICATES ====================

// IsAdmin allows authenticated admins and superusers.
func IsAdmin(actor Actor) bool {
	return actor.IsAdmin()
}

// SelfOrAdmin settles access to a resolved user record: the record's owner may
// read and patch it, admins may do anything.
func SelfOrAdmin(actor Actor, action Action, targetID uuid.UUID) Decision {
	return Decide(actor, ResourceUser, action, targetID)
}

// AuthorOrStaff settles access to a resolved review or comment: anyone reads,
// the author edits, moderators and admins moderate.
func AuthorOrStaff(actor Actor, resource Resource, action Action, authorID uuid.UUID) Decision {
	return Decide(actor, resource, action, authorID)
}

// AuthActionAllowed permits POST on the signup and token actions only.
func AuthActionAllowed(method, action string) bool {
	if method != http.MethodPost {
		return false
	}
	switch action {
	case "signup", "token":
		return CapabilityFor(Actor{}, ResourceAuth, ActionCreate) == Allow
	}
	return false
}
