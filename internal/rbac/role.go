// AngelaMos | 2026
// role.go

package rbac

import (
	"fmt"
	"strings"

	"github.com/carterperez-dev/delivery-admin/internal/core"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleLeader Role = "leader"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// ladder is ordered from least to most privileged. Position is privilege.
var ladder = []Role{RoleUser, RoleLeader, RoleAdmin, RoleOwner}

func Roles() []Role {
	out := make([]Role, len(ladder))
	copy(out, ladder)
	return out
}

// Top is the only role allowed to remove identities irreversibly.
func Top() Role {
	return ladder[len(ladder)-1]
}

// Index returns the ladder position of r, or -1 when r is not on the ladder.
func (r Role) Index() int {
	for i, l := range ladder {
		if l == r {
			return i
		}
	}
	return -1
}

func (r Role) Valid() bool {
	return r.Index() >= 0
}

func (r Role) String() string {
	return string(r)
}

// AtLeast reports whether r meets or exceeds required.
func (r Role) AtLeast(required Role) bool {
	return MeetsOrExceeds(r, required)
}

// MeetsOrExceeds compares ladder positions. A role that is not on the ladder
// never satisfies anything and is never satisfied by anything.
func MeetsOrExceeds(actual, required Role) bool {
	a, b := actual.Index(), required.Index()
	if a < 0 || b < 0 {
		return false
	}
	return a >= b
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q: %w", s, core.ErrInvalidInput)
	}
	return r, nil
}

// Principal is the resolved caller handed explicitly to every guarded call.
type Principal struct {
	ID    string
	Email string
	Role  Role
}
