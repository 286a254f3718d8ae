// AngelaMos | 2026
// escalation.go

package rbac

import (
	"fmt"

	"github.com/carterperez-dev/delivery-admin/internal/core"
)

// Action names an identity-management mutation subject to CheckCanModify.
type Action string

const (
	ActionChangeRole   Action = "change_role"
	ActionChangeStatus Action = "change_status"
	ActionBlock        Action = "block"
	ActionActivate     Action = "activate"
	ActionSoftDelete   Action = "soft_delete"
	ActionHardDelete   Action = "hard_delete"
)

// minimumFor is the lowest actor role allowed to attempt the action at all.
func minimumFor(action Action) Role {
	if action == ActionHardDelete {
		return Top()
	}
	return ladder[len(ladder)-2]
}

// CheckCanModify decides whether actor may apply action to the identity
// targetID. target is nil when no identity exists for targetID.
//
// Rules are evaluated in order: acting on oneself, target existence, the
// actor's own standing for the action, then the hierarchy rule that the
// target must sit strictly below the actor.
func CheckCanModify(actor Principal, targetID string, target *Principal, action Action) error {
	if actor.ID == targetID {
		return fmt.Errorf("%s on own account: %w", action, core.ErrSelfModification)
	}

	if target == nil {
		return fmt.Errorf("%s target %s: %w", action, targetID, core.ErrNotFound)
	}

	if !MeetsOrExceeds(actor.Role, minimumFor(action)) {
		return fmt.Errorf("%s requires %s: %w", action, minimumFor(action), core.ErrForbidden)
	}

	if !target.Role.Valid() || MeetsOrExceeds(target.Role, actor.Role) {
		return fmt.Errorf("%s on %s as %s: %w", action, target.Role, actor.Role, core.ErrForbidden)
	}

	return nil
}

// CheckAssignableRole keeps role changes below the actor's own level so a
// role change can never mint a peer or a superior.
func CheckAssignableRole(actor Principal, newRole Role) error {
	if !newRole.Valid() {
		return fmt.Errorf("assign role %q: %w", newRole, core.ErrInvalidInput)
	}

	if !actor.Role.Valid() || MeetsOrExceeds(newRole, actor.Role) {
		return fmt.Errorf("assign %s as %s: %w", newRole, actor.Role, core.ErrForbidden)
	}

	return nil
}
