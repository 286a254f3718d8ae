// AngelaMos | 2026
// role_test.go

package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/delivery-admin/internal/core"
)

func TestMeetsOrExceedsMatchesLadderIndex(t *testing.T) {
	roles := Roles()
	for i, a := range roles {
		for j, b := range roles {
			assert.Equal(t, i >= j, MeetsOrExceeds(a, b), "%s vs %s", a, b)
		}
	}

	assert.True(t, MeetsOrExceeds(RoleAdmin, RoleLeader))
	assert.False(t, MeetsOrExceeds(RoleLeader, RoleAdmin))
	assert.True(t, MeetsOrExceeds(RoleUser, RoleUser))
}

func TestUnknownRoleNeverMatches(t *testing.T) {
	bogus := Role("superuser")

	assert.Equal(t, -1, bogus.Index())
	assert.False(t, bogus.Valid())
	for _, r := range Roles() {
		assert.False(t, MeetsOrExceeds(bogus, r))
		assert.False(t, MeetsOrExceeds(r, bogus))
	}
	assert.False(t, MeetsOrExceeds(bogus, bogus))
	assert.False(t, Role("").AtLeast(RoleUser))
}

func TestTop(t *testing.T) {
	assert.Equal(t, RoleOwner, Top())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Leader ")
	require.NoError(t, err)
	assert.Equal(t, RoleLeader, r)

	_, err = ParseRole("root")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
