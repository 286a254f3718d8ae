// AngelaMos | 2026
// guard.go

package rbac

import (
	"github.com/carterperez-dev/delivery-admin/internal/core"
)

// Requirement is what an operation declares about its caller. An empty Roles
// set on a non-public operation means any authenticated caller.
type Requirement struct {
	Public bool
	Roles  []Role
}

func Public() Requirement {
	return Requirement{Public: true}
}

func Authenticated() Requirement {
	return Requirement{}
}

func AnyOf(roles ...Role) Requirement {
	return Requirement{Roles: roles}
}

// Authorize returns nil to allow, core.ErrUnauthorized when there is no
// caller and core.ErrForbidden when the caller's role satisfies none of the
// required roles.
func Authorize(p *Principal, req Requirement) error {
	if req.Public {
		return nil
	}

	if p == nil {
		return core.ErrUnauthorized
	}

	if len(req.Roles) == 0 {
		return nil
	}

	for _, required := range req.Roles {
		if MeetsOrExceeds(p.Role, required) {
			return nil
		}
	}

	return core.ErrForbidden
}
