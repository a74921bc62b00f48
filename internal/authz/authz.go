package authz

import (
	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// Action classifies what the actor intends to do with the resource. Most
// decisions depend only on role and ownership; media upload is the one
// action with a role-wide grant.
type Action string

const (
	ActionView        Action = "view"
	ActionManage      Action = "manage"
	ActionUploadMedia Action = "upload_media"
)

// Actor is the authenticated principal.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// Resource describes the ownership fields of the entity being acted on.
// Callers fill in only the fields their entity carries; nil fields never
// match.
type Resource struct {
	OwnerID                 *uuid.UUID
	BrokerID                *uuid.UUID
	RecipientID             *uuid.UUID
	RequesterID             *uuid.UUID
	PhotographerID          *uuid.UUID
	PreferredPhotographerID *uuid.UUID

	// JobOpen is true while a photo job is still in its open state, which
	// widens photographer access to unassigned work.
	JobOpen bool
}

// Allow is the role/ownership decision for every workflow operation. It is
// a pure function; existence and state checks happen before it is consulted.
func Allow(actor Actor, res Resource, action Action) bool {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return true

	case enums.UserRoleOwner, enums.UserRoleBroker:
		return matches(res.OwnerID, actor.ID) ||
			matches(res.BrokerID, actor.ID) ||
			matches(res.RecipientID, actor.ID)

	case enums.UserRolePhotographer:
		if action == ActionUploadMedia {
			return true
		}
		if matches(res.PhotographerID, actor.ID) {
			return true
		}
		return res.JobOpen &&
			(res.PreferredPhotographerID == nil || matches(res.PreferredPhotographerID, actor.ID))

	case enums.UserRoleCustomer:
		return matches(res.RequesterID, actor.ID)
	}

	return false
}

func matches(field *uuid.UUID, id uuid.UUID) bool {
	return field != nil && *field == id
}
