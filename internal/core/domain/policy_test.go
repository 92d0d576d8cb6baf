package domain

import (
	"errors"
	"testing"
)

func TestPolicyEngine_Authorize(t *testing.T) {
	engine := NewPolicyEngine()
	admin := Identity{UserID: "u1", Role: RoleAdmin}
	editor := Identity{UserID: "u2", Role: RoleEditor}

	tests := []struct {
		name     string
		id       Identity
		action   Action
		resource Resource
		allowed  bool
	}{
		{"admin updates any post", admin, ActionPostUpdate, Resource{OwnerID: "u2"}, true},
		{"admin deletes any user", admin, ActionUserDelete, Resource{}, true},
		{"admin lists users", admin, ActionUserList, Resource{}, true},
		{"editor updates own post", editor, ActionPostUpdate, Resource{OwnerID: "u2"}, true},
		{"editor updates foreign post", editor, ActionPostUpdate, Resource{OwnerID: "u1"}, false},
		{"editor deletes own post", editor, ActionPostDelete, Resource{OwnerID: "u2"}, true},
		{"editor deletes foreign post", editor, ActionPostDelete, Resource{OwnerID: "u1"}, false},
		{"editor updates own record", editor, ActionUserUpdate, Resource{OwnerID: "u2"}, true},
		{"editor updates foreign record", editor, ActionUserUpdate, Resource{OwnerID: "u1"}, false},
		{"editor lists users", editor, ActionUserList, Resource{}, false},
		{"editor deletes user", editor, ActionUserDelete, Resource{}, false},
		{"editor creates tag", editor, ActionTagCreate, Resource{}, true},
		{"editor deletes tag", editor, ActionTagDelete, Resource{}, false},
		{"unknown role", Identity{UserID: "u3", Role: "ghost"}, ActionPostRead, Resource{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Authorize(tt.id, tt.action, tt.resource)
			if tt.allowed && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestRoleByName(t *testing.T) {
	if _, ok := RoleByName(RoleAdmin); !ok {
		t.Fatal("admin role missing from static table")
	}
	if _, ok := RoleByName(RoleEditor); !ok {
		t.Fatal("editor role missing from static table")
	}
	if _, ok := RoleByName("ghost"); ok {
		t.Fatal("unknown role resolved")
	}
}
