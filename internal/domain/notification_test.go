package domain

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func TestNotificationVisibleTo(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	targeted := func(ids ...uuid.UUID) datatypes.JSONSlice[uuid.UUID] {
		return datatypes.NewJSONSlice(ids)
	}

	cases := []struct {
		name string
		n    Notification
		user uuid.UUID
		role string
		want bool
	}{
		{
			name: "broadcast visible to matching role",
			n:    Notification{Role: RoleFounder},
			user: alice, role: RoleFounder, want: true,
		},
		{
			name: "broadcast hidden from other role",
			n:    Notification{Role: RoleFounder},
			user: alice, role: RoleInvestor, want: false,
		},
		{
			name: "both role broadcast visible to everyone",
			n:    Notification{Role: RoleBoth},
			user: bob, role: RoleInvestor, want: true,
		},
		{
			name: "targeted visible to member",
			n:    Notification{Role: RoleFounder, TargetedUsers: targeted(alice)},
			user: alice, role: RoleFounder, want: true,
		},
		{
			name: "targeted hidden from non-member",
			n:    Notification{Role: RoleFounder, TargetedUsers: targeted(alice)},
			user: bob, role: RoleFounder, want: false,
		},
		{
			name: "targeted member still needs role match",
			n:    Notification{Role: RoleInvestor, TargetedUsers: targeted(alice)},
			user: alice, role: RoleFounder, want: false,
		},
		{
			name: "both role targeted member",
			n:    Notification{Role: RoleBoth, TargetedUsers: targeted(alice, bob)},
			user: bob, role: RoleFounder, want: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.n.VisibleTo(tc.user, tc.role); got != tc.want {
				t.Fatalf("VisibleTo = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNotificationVisibleTo_Nil(t *testing.T) {
	var n *Notification
	if n.VisibleTo(uuid.New(), RoleFounder) {
		t.Fatalf("nil notification must not be visible")
	}
}
