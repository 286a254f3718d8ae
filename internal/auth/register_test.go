// AngelaMos | 2026
// register_test.go

package auth

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/delivery-admin/internal/user"
)

type uuidArg struct{}

func (uuidArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && uuid.Validate(s) == nil
}

func TestRegisterAssignsIdentityID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(uuidArg{}, "new@example.com", "Ada", "Lovelace",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).
			AddRow(1, now, now))

	f := newFixture(t)
	repo := user.NewRepository(sqlx.NewDb(db, "pgx"))
	service := NewService(repo, f.sessions, f.notifier, time.Hour, nil)

	u, err := service.Register(context.Background(), RegisterRequest{
		Email:     "new@example.com",
		Password:  password,
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	assert.NoError(t, uuid.Validate(u.ID))
	assert.Equal(t, 1, u.Version)
}
