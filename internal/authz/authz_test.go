package authz

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

var (
	self  = uuid.New()
	other = uuid.New()
)

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestAllowAdminAlwaysAllowed(t *testing.T) {
	actor := Actor{ID: self, Role: enums.UserRoleAdmin}
	resources := []Resource{
		{},
		{OwnerID: ptr(other)},
		{RequesterID: ptr(other), RecipientID: ptr(other)},
		{PhotographerID: ptr(other), JobOpen: false},
	}
	for _, action := range []Action{ActionView, ActionManage, ActionUploadMedia} {
		for i, res := range resources {
			if !Allow(actor, res, action) {
				t.Errorf("admin denied on resource %d action %s", i, action)
			}
		}
	}
}

func TestAllowOwnershipMatrix(t *testing.T) {
	cases := []struct {
		name string
		role enums.UserRole
		res  Resource
		want bool
	}{
		{"owner matching owner field", enums.UserRoleOwner, Resource{OwnerID: ptr(self)}, true},
		{"owner matching broker field", enums.UserRoleOwner, Resource{BrokerID: ptr(self)}, true},
		{"owner matching recipient field", enums.UserRoleOwner, Resource{RecipientID: ptr(self)}, true},
		{"owner on someone else's resource", enums.UserRoleOwner, Resource{OwnerID: ptr(other), BrokerID: ptr(other)}, false},
		{"owner on bare resource", enums.UserRoleOwner, Resource{}, false},
		{"owner does not match requester field", enums.UserRoleOwner, Resource{RequesterID: ptr(self)}, false},

		{"broker matching broker field", enums.UserRoleBroker, Resource{BrokerID: ptr(self)}, true},
		{"broker matching owner field", enums.UserRoleBroker, Resource{OwnerID: ptr(self)}, true},
		{"broker matching recipient field", enums.UserRoleBroker, Resource{RecipientID: ptr(self)}, true},
		{"broker on someone else's resource", enums.UserRoleBroker, Resource{RecipientID: ptr(other)}, false},

		{"customer matching requester field", enums.UserRoleCustomer, Resource{RequesterID: ptr(self)}, true},
		{"customer on owner field", enums.UserRoleCustomer, Resource{OwnerID: ptr(self)}, false},
		{"customer on recipient field", enums.UserRoleCustomer, Resource{RecipientID: ptr(self)}, false},
		{"customer on someone else's request", enums.UserRoleCustomer, Resource{RequesterID: ptr(other)}, false},

		{"photographer assigned to job", enums.UserRolePhotographer, Resource{PhotographerID: ptr(self)}, true},
		{"photographer on someone else's job", enums.UserRolePhotographer, Resource{PhotographerID: ptr(other)}, false},
		{"photographer on open unrestricted job", enums.UserRolePhotographer, Resource{JobOpen: true}, true},
		{"photographer on open job preferring them", enums.UserRolePhotographer, Resource{JobOpen: true, PreferredPhotographerID: ptr(self)}, true},
		{"photographer on open job preferring another", enums.UserRolePhotographer, Resource{JobOpen: true, PreferredPhotographerID: ptr(other)}, false},
		{"photographer on closed job preferring them", enums.UserRolePhotographer, Resource{JobOpen: false, PreferredPhotographerID: ptr(self)}, false},
		{"photographer on owner resource", enums.UserRolePhotographer, Resource{OwnerID: ptr(self)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actor := Actor{ID: self, Role: tc.role}
			for _, action := range []Action{ActionView, ActionManage} {
				if got := Allow(actor, tc.res, action); got != tc.want {
					t.Errorf("Allow(%s, %s) = %v, want %v", tc.role, action, got, tc.want)
				}
			}
		})
	}
}

func TestAllowMediaUpload(t *testing.T) {
	res := Resource{OwnerID: ptr(other), BrokerID: ptr(other)}

	cases := []struct {
		role enums.UserRole
		want bool
	}{
		{enums.UserRoleAdmin, true},
		{enums.UserRolePhotographer, true},
		{enums.UserRoleOwner, false},
		{enums.UserRoleBroker, false},
		{enums.UserRoleCustomer, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			if got := Allow(Actor{ID: self, Role: tc.role}, res, ActionUploadMedia); got != tc.want {
				t.Errorf("upload as %s = %v, want %v", tc.role, got, tc.want)
			}
		})
	}

	// Owners and brokers still upload to their own properties.
	own := Resource{OwnerID: ptr(self)}
	if !Allow(Actor{ID: self, Role: enums.UserRoleOwner}, own, ActionUploadMedia) {
		t.Error("owner denied upload on own property")
	}
}

func TestAllowUnknownRoleDenied(t *testing.T) {
	actor := Actor{ID: self, Role: enums.UserRole("ghost")}
	if Allow(actor, Resource{OwnerID: ptr(self)}, ActionManage) {
		t.Error("unknown role allowed")
	}
}

func TestAllowExhaustiveNoPanic(t *testing.T) {
	roles := []enums.UserRole{
		enums.UserRoleCustomer, enums.UserRoleOwner, enums.UserRoleBroker,
		enums.UserRolePhotographer, enums.UserRoleAdmin,
	}
	ids := []*uuid.UUID{nil, ptr(self), ptr(other)}
	actions := []Action{ActionView, ActionManage, ActionUploadMedia}

	for _, role := range roles {
		for _, owner := range ids {
			for _, requester := range ids {
				for _, photographer := range ids {
					for _, open := range []bool{true, false} {
						for _, action := range actions {
							res := Resource{
								OwnerID:        owner,
								RequesterID:    requester,
								PhotographerID: photographer,
								JobOpen:        open,
							}
							got := Allow(Actor{ID: self, Role: role}, res, action)
							if role == enums.UserRoleAdmin && !got {
								t.Fatalf("admin denied: %s", fmt.Sprintf("%+v/%s", res, action))
							}
						}
					}
				}
			}
		}
	}
}
