package domain

// Action names a permission evaluated by the policy engine.
type Action string

const (
	ActionPostRead   Action = "post.read"
	ActionPostCreate Action = "post.create"
	ActionPostUpdate Action = "post.update"
	ActionPostDelete Action = "post.delete"
	ActionUserList   Action = "user.list"
	ActionUserUpdate Action = "user.update"
	ActionUserDelete Action = "user.delete"
	ActionTagList    Action = "tag.list"
	ActionTagCreate  Action = "tag.create"
	ActionTagDelete  Action = "tag.delete"
)

// Role is static reference data: a named permission set.
type Role struct {
	Name        string
	Permissions []Action
	// OwnOnly restricts post.update/post.delete to posts the caller authors
	// and user.update to the caller's own record.
	OwnOnly bool
}

// roles is the static role table. There is no role CRUD; roles are looked up
// by name and baked into tokens at issue time.
var roles = map[string]Role{
	RoleAdmin: {
		Name: RoleAdmin,
		Permissions: []Action{
			ActionPostRead, ActionPostCreate, ActionPostUpdate, ActionPostDelete,
			ActionUserList, ActionUserUpdate, ActionUserDelete,
			ActionTagList, ActionTagCreate, ActionTagDelete,
		},
	},
	RoleEditor: {
		Name: RoleEditor,
		Permissions: []Action{
			ActionPostRead, ActionPostCreate, ActionPostUpdate, ActionPostDelete,
			ActionUserUpdate,
			ActionTagList, ActionTagCreate,
		},
		OwnOnly: true,
	},
}

// RoleByName resolves a role from the static table.
func RoleByName(name string) (Role, bool) {
	r, ok := roles[name]
	return r, ok
}

// Resource describes the target of a mutating action for ownership checks.
// OwnerID is the post author for post actions, or the target user id for
// user actions. Zero value means the action has no ownership dimension.
type Resource struct {
	OwnerID string
}

// PolicyEngine decides (identity, action, resource) -> allowed/forbidden from
// the static role table. It is pure and holds no store references.
type PolicyEngine struct{}

func NewPolicyEngine() *PolicyEngine {
	return &PolicyEngine{}
}

// Authorize returns nil when the identity may perform action on resource,
// ErrForbidden otherwise.
func (e *PolicyEngine) Authorize(id Identity, action Action, res Resource) error {
	role, ok := RoleByName(id.Role)
	if !ok {
		return ErrForbidden
	}

	permitted := false
	for _, a := range role.Permissions {
		if a == action {
			permitted = true
			break
		}
	}
	if !permitted {
		return ErrForbidden
	}

	if role.OwnOnly && res.OwnerID != "" && res.OwnerID != id.UserID {
		return ErrForbidden
	}
	return nil
}
