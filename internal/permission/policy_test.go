package permission

import (
	"context"
	"net/http"
	"testing"

	"media-review/internal/data/entity"
	"media-review/pkg/apperror"
	"media-review/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var (
	anonymous = Actor{}
	plainUser = Actor{ID: uuid.New(), Role: entity.RoleUser, Authenticated: true}
	moderator = Actor{ID: uuid.New(), Role: entity.RoleModerator, Authenticated: true}
	admin     = Actor{ID: uuid.New(), Role: entity.RoleAdmin, Authenticated: true}
	superuser = Actor{ID: uuid.New(), Role: entity.RoleUser, Superuser: true, Authenticated: true}
)

func TestDecide_CatalogWrites(t *testing.T) {
	for _, resource := range []Resource{ResourceCategory, ResourceGenre, ResourceTitle} {
		t.Run(string(resource), func(t *testing.T) {
			assert.Equal(t, Allowed, Decide(anonymous, resource, ActionList, uuid.Nil))
			assert.Equal(t, Unauthenticated, Decide(anonymous, resource, ActionCreate, uuid.Nil))
			assert.Equal(t, Forbidden, Decide(plainUser, resource, ActionCreate, uuid.Nil))
			assert.Equal(t, Forbidden, Decide(moderator, resource, ActionDelete, uuid.Nil))
			assert.Equal(t, Allowed, Decide(admin, resource, ActionDelete, uuid.Nil))
			assert.Equal(t, Allowed, Decide(superuser, resource, ActionCreate, uuid.Nil))
		})
	}
}

func TestDecide_AuthorOwnedResources(t *testing.T) {
	for _, resource := range []Resource{ResourceReview, ResourceComment} {
		t.Run(string(resource), func(t *testing.T) {
			assert.Equal(t, Allowed, Decide(anonymous, resource, ActionRetrieve, uuid.Nil))
			assert.Equal(t, Unauthenticated, Decide(anonymous, resource, ActionCreate, uuid.Nil))
			assert.Equal(t, Allowed, Decide(plainUser, resource, ActionCreate, uuid.Nil))

			assert.Equal(t, Allowed, Decide(plainUser, resource, ActionUpdate, plainUser.ID))
			assert.Equal(t, Forbidden, Decide(plainUser, resource, ActionUpdate, uuid.New()))
			assert.Equal(t, Forbidden, Decide(plainUser, resource, ActionDelete, uuid.Nil))

			assert.Equal(t, Allowed, Decide(moderator, resource, ActionDelete, uuid.New()))
			assert.Equal(t, Allowed, Decide(admin, resource, ActionUpdate, uuid.New()))
		})
	}
}

func TestSelfOrAdmin(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		action Action
		target uuid.UUID
		want   Decision
	}{
		{"self read", plainUser, ActionRetrieve, plainUser.ID, Allowed},
		{"self patch", plainUser, ActionUpdate, plainUser.ID, Allowed},
		{"self delete", plainUser, ActionDelete, plainUser.ID, Forbidden},
		{"other read", plainUser, ActionRetrieve, admin.ID, Forbidden},
		{"moderator other patch", moderator, ActionUpdate, plainUser.ID, Forbidden},
		{"admin other delete", admin, ActionDelete, plainUser.ID, Allowed},
		{"superuser other patch", superuser, ActionUpdate, plainUser.ID, Allowed},
		{"anonymous", anonymous, ActionRetrieve, uuid.Nil, Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelfOrAdmin(tt.actor, tt.action, tt.target))
		})
	}
}

func TestAuthorOrStaff(t *testing.T) {
	authorID := plainUser.ID

	tests := []struct {
		name   string
		actor  Actor
		action Action
		want   Decision
	}{
		{"anyone reads", anonymous, ActionRetrieve, Allowed},
		{"author edits", plainUser, ActionUpdate, Allowed},
		{"author deletes", plainUser, ActionDelete, Allowed},
		{"other user edits", Actor{ID: uuid.New(), Role: entity.RoleUser, Authenticated: true}, ActionUpdate, Forbidden},
		{"moderator deletes", moderator, ActionDelete, Allowed},
		{"admin edits", admin, ActionUpdate, Allowed},
		{"anonymous deletes", anonymous, ActionDelete, Unauthenticated},
	}

	for _, resource := range []Resource{ResourceReview, ResourceComment} {
		for _, tt := range tests {
			t.Run(string(resource)+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, AuthorOrStaff(tt.actor, resource, tt.action, authorID))
			})
		}
	}
}

func TestAuthActionAllowed(t *testing.T) {
	assert.True(t, AuthActionAllowed(http.MethodPost, "signup"))
	assert.True(t, AuthActionAllowed(http.MethodPost, "token"))
	assert.False(t, AuthActionAllowed(http.MethodGet, "signup"))
	assert.False(t, AuthActionAllowed(http.MethodPost, ""))
	assert.False(t, AuthActionAllowed(http.MethodPost, "refresh"))
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, IsAdmin(anonymous))
	assert.False(t, IsAdmin(moderator))
	assert.True(t, IsAdmin(admin))
	assert.True(t, IsAdmin(superuser))
	assert.False(t, IsAdmin(Actor{Role: entity.RoleAdmin}), "an unauthenticated actor is never admin")
}

func TestDecision_Err(t *testing.T) {
	msgs := utils.DefaultMessages()

	assert.NoError(t, Allowed.Err(msgs))
	assert.ErrorIs(t, Unauthenticated.Err(msgs), apperror.ErrAuthentication)
	assert.ErrorIs(t, Forbidden.Err(msgs), apperror.ErrAuthorization)
}

func TestActorFromContext(t *testing.T) {
	assert.Equal(t, Actor{}, ActorFromContext(context.Background()))

	id := uuid.New()
	ctx := utils.SetUserContext(context.Background(), id, "bob", "moderator", false)

	actor := ActorFromContext(ctx)
	assert.True(t, actor.Authenticated)
	assert.Equal(t, id, actor.ID)
	assert.Equal(t, "bob", actor.Username)
	assert.Equal(t, entity.RoleModerator, actor.Role)
}

func TestGate(t *testing.T) {
	assert.Equal(t, Allowed, Gate(plainUser, ResourceReview, ActionUpdate), "own cells pass the gate")
	assert.Equal(t, Unauthenticated, Gate(anonymous, ResourceReview, ActionUpdate))
	assert.Equal(t, Forbidden, Gate(plainUser, ResourceUser, ActionList))
	assert.Equal(t, Allowed, Gate(admin, ResourceUser, ActionList))
}

func TestActionForMethod(t *testing.T) {
	assert.Equal(t, ActionList, ActionForMethod(http.MethodGet, false))
	assert.Equal(t, ActionRetrieve, ActionForMethod(http.MethodGet, true))
	assert.Equal(t, ActionCreate, ActionForMethod(http.MethodPost, false))
	assert.Equal(t, ActionUpdate, ActionForMethod(http.MethodPatch, true))
	assert.Equal(t, ActionDelete, ActionForMethod(http.MethodDelete, true))
}
