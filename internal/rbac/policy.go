// AngelaMos | 2026
// policy.go

package rbac

import (
	"fmt"

	"github.com/carterperez-dev/delivery-admin/internal/core"
)

type Operation string

const (
	OpAuthRegister       Operation = "auth.register"
	OpAuthLogin          Operation = "auth.login"
	OpAuthLogout         Operation = "auth.logout"
	OpAuthVerifyEmail    Operation = "auth.verify_email"
	OpAuthForgotPassword Operation = "auth.forgot_password"
	OpAuthResetPassword  Operation = "auth.reset_password"
	OpAuthProfile        Operation = "auth.profile"

	OpUsersList         Operation = "users.list"
	OpUsersGet          Operation = "users.get"
	OpUsersProfile      Operation = "users.profile"
	OpUsersChangeRole   Operation = "users.change_role"
	OpUsersChangeStatus Operation = "users.change_status"
	OpUsersBlock        Operation = "users.block"
	OpUsersActivate     Operation = "users.activate"
	OpUsersSoftDelete   Operation = "users.soft_delete"
	OpUsersHardDelete   Operation = "users.hard_delete"

	OpRoutesList   Operation = "routes.list"
	OpRoutesGet    Operation = "routes.get"
	OpRoutesCreate Operation = "routes.create"
	OpRoutesUpdate Operation = "routes.update"
	OpRoutesDelete Operation = "routes.delete"

	OpRegionsList        Operation = "regions.list"
	OpRegionsGet         Operation = "regions.get"
	OpRegionsCreate      Operation = "regions.create"
	OpRegionsUpdate      Operation = "regions.update"
	OpRegionsDelete      Operation = "regions.delete"
	OpRegionsAddRoutes   Operation = "regions.add_routes"
	OpRegionsRemoveRoute Operation = "regions.remove_route"

	OpManifestsList           Operation = "delivery_manifests.list"
	OpManifestsGet            Operation = "delivery_manifests.get"
	OpManifestsForCurrentUser Operation = "delivery_manifests.for_current_user"
	OpManifestsCreate         Operation = "delivery_manifests.create"
	OpManifestsUpdate         Operation = "delivery_manifests.update"
	OpManifestsDelete         Operation = "delivery_manifests.delete"

	OpStopsList            Operation = "delivery_stops.list"
	OpStopsGet             Operation = "delivery_stops.get"
	OpStopsCreate          Operation = "delivery_stops.create"
	OpStopsUpdate          Operation = "delivery_stops.update"
	OpStopsBulkUpdateRoute Operation = "delivery_stops.bulk_update_route"
	OpStopsDelete          Operation = "delivery_stops.delete"

	OpAdminStats Operation = "admin.stats"
)

// Policy maps every guarded operation to its requirement.
type Policy map[Operation]Requirement

func DefaultPolicy() Policy {
	staff := AnyOf(RoleAdmin, RoleLeader)
	admin := AnyOf(RoleAdmin)

	return Policy{
		OpAuthRegister:       Public(),
		OpAuthLogin:          Public(),
		OpAuthLogout:         Public(),
		OpAuthVerifyEmail:    Public(),
		OpAuthForgotPassword: Public(),
		OpAuthResetPassword:  Public(),
		OpAuthProfile:        Authenticated(),

		OpUsersList:         AnyOf(RoleLeader),
		OpUsersGet:          AnyOf(RoleLeader),
		OpUsersProfile:      Authenticated(),
		OpUsersChangeRole:   admin,
		OpUsersChangeStatus: admin,
		OpUsersBlock:        admin,
		OpUsersActivate:     admin,
		OpUsersSoftDelete:   admin,
		OpUsersHardDelete:   AnyOf(Top()),

		OpRoutesList:   Authenticated(),
		OpRoutesGet:    Authenticated(),
		OpRoutesCreate: staff,
		OpRoutesUpdate: staff,
		OpRoutesDelete: admin,

		OpRegionsList:        Authenticated(),
		OpRegionsGet:         Authenticated(),
		OpRegionsCreate:      admin,
		OpRegionsUpdate:      admin,
		OpRegionsDelete:      admin,
		OpRegionsAddRoutes:   staff,
		OpRegionsRemoveRoute: staff,

		OpManifestsList:           Authenticated(),
		OpManifestsGet:            Authenticated(),
		OpManifestsForCurrentUser: Authenticated(),
		OpManifestsCreate:         staff,
		OpManifestsUpdate:         staff,
		OpManifestsDelete:         admin,

		OpStopsList:            Authenticated(),
		OpStopsGet:             Authenticated(),
		OpStopsCreate:          staff,
		OpStopsUpdate:          staff,
		OpStopsBulkUpdateRoute: staff,
		OpStopsDelete:          admin,

		OpAdminStats: admin,
	}
}

// Lookup fails closed: an operation missing from the table is treated as
// reserved for the top role.
func (p Policy) Lookup(op Operation) (Requirement, bool) {
	req, ok := p[op]
	if !ok {
		return AnyOf(Top()), false
	}
	return req, true
}

func (p Policy) Authorize(op Operation, principal *Principal) error {
	req, ok := p.Lookup(op)
	if !ok {
		if principal == nil {
			return fmt.Errorf("authorize %s: %w", op, core.ErrUnauthorized)
		}
		return fmt.Errorf("authorize %s: undeclared operation: %w", op, core.ErrForbidden)
	}

	if err := Authorize(principal, req); err != nil {
		return fmt.Errorf("authorize %s: %w", op, err)
	}

	return nil
}
