package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var userRowColumns = []string{"id", "email", "name", "image", "role", "status", "agreement", "timestamp_ms"}

func TestPostgresUsers_GetUserByEmail_DecodesSnapshot(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)

	id := uuid.NewString()
	snapshot := `{"acceptDate":"2024-05-01T10:00:00Z","floorNo":"3","blockName":"A","apartmentNo":"A-301","rent":1200,"status":"accepted","timestamp":1714550000000}`
	rows := sqlmock.NewRows(userRowColumns).
		AddRow(id, "tenant@example.com", "Tenant", "", "member", "", []byte(snapshot), int64(1714000000000))

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
		WithArgs("tenant@example.com").
		WillReturnRows(rows)

	u, err := repo.GetUserByEmail(context.Background(), "tenant@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, domain.RoleMember, u.Role)
	require.NotNil(t, u.Agreement)
	assert.Equal(t, "A-301", u.Agreement.ApartmentNo)
	assert.Equal(t, 1200.0, u.Agreement.Rent)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsers_GetUser_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsers_CreateUser_ExistingEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)

	existing := uuid.NewString()
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectQuery(`SELECT id FROM users WHERE email = \$1`).
		WithArgs("dup@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(existing))

	id, created, err := repo.CreateUser(context.Background(), &domain.User{
		Email:     "dup@example.com",
		Role:      domain.RoleGeneral,
		Timestamp: time.Now().UnixMilli(),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsers_CreateUser_Inserted(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, created, err := repo.CreateUser(context.Background(), &domain.User{Email: "new@example.com", Role: domain.RoleGeneral})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsers_UpdateUserByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)
	role := domain.RoleMember

	mock.ExpectExec(`UPDATE users SET role = \$1 WHERE email = \$2`).
		WithArgs(role, "tenant@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateUserByEmail(context.Background(), "tenant@example.com", domain.UserPatch{Role: &role})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsers_UpdateUserByEmail_NoMatch(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)
	status := domain.UserStatusRequested

	mock.ExpectExec(`UPDATE users SET status = \$1 WHERE email = \$2`).
		WithArgs(status, "ghost@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateUserByEmail(context.Background(), "ghost@example.com", domain.UserPatch{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsers_UpdateUser_EmptyPatchChecksExistence(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	err := repo.UpdateUser(context.Background(), "u1", domain.UserPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsers_CountUsers(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \$1`).
		WithArgs(domain.RoleMember).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	members, err := repo.CountUsers(context.Background(), domain.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, 4, members)

	all, err := repo.CountUsers(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 9, all)
	require.NoError(t, mock.ExpectationsWereMet())
}
