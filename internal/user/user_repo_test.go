package user_test

import (
	"context"
	"testing"

	"go-saas/internal/authz"
	"go-saas/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newUserRepo(t *testing.T) (user.Repository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return user.NewRepository(gdb), mock, func() { db.Close() }
}

func TestUserRepository_Update_PersistsDeactivation(t *testing.T) {
	repo, mock, closeDB := newUserRepo(t)
	defer closeDB()

	u := &user.User{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Email:     "jane@acme.test",
		Name:      "Jane",
		Password:  "hash",
		Role:      authz.RoleTeamMember,
		Active:    false,
	}

	// active must appear in the statement even though false is the zero
	// value, otherwise deactivation silently never reaches the row.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "ca_acme"\."users" SET "email"=\$1,"name"=\$2,"password"=\$3,"role"=\$4,"active"=\$5`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Update(context.Background(), "ca_acme", u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_RejectsBadSchema(t *testing.T) {
	repo, mock, closeDB := newUserRepo(t)
	defer closeDB()

	u := &user.User{ID: uuid.New()}
	err := repo.Update(context.Background(), `bad"; DROP SCHEMA x;--`, u)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "no SQL may reach the database")
}
