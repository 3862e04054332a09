package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"syriazone/internal/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

var errUniqueStore = errors.New(`ERROR: duplicate key value violates unique constraint "idx_stores_user_id" (SQLSTATE 23505)`)

func TestUserRepo_FindByEmail_Absent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("nobody@x.sy", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	u, err := NewUserRepo(db).FindByEmail(context.Background(), "nobody@x.sy")
	require.NoError(t, err)
	assert.Nil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "has_store"}).
			AddRow("u1", "a@x.sy", "Vendor", true))

	u, err := NewUserRepo(db).FindByID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, domain.RoleVendor, u.Role)
	assert.True(t, u.HasStore)
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`))

	err := NewUserRepo(db).Create(context.Background(), &domain.User{ID: "u1", Email: "a@x.sy", PasswordHash: "h", Role: domain.RoleCustomer})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepo_SoftDelete(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "users" SET "deleted_at"=\$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := NewUserRepo(db).SoftDelete(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func expectOwnerLock(mock sqlmock.Sqlmock, hasStore bool) {
	mock.ExpectQuery(`SELECT "id","has_store" FROM "users" WHERE id = \$1 .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "has_store"}).AddRow("u1", hasStore))
}

func TestStoreRepo_CreateForUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	expectOwnerLock(mock, false)
	mock.ExpectExec(`INSERT INTO "stores"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE "users" SET "has_store"=\$1`).
		WithArgs(true, sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewStoreRepo(db).CreateForUser(context.Background(), &domain.Store{ID: "s1", UserID: "u1", Name: "Damascus Spices"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRepo_CreateForUser_AlreadyOwner(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	expectOwnerLock(mock, true)
	mock.ExpectRollback()

	err := NewStoreRepo(db).CreateForUser(context.Background(), &domain.Store{ID: "s2", UserID: "u1", Name: "Second"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRepo_CreateForUser_UniqueIndexBackstop(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	expectOwnerLock(mock, false)
	mock.ExpectExec(`INSERT INTO "stores"`).WillReturnError(errUniqueStore)
	mock.ExpectRollback()

	err := NewStoreRepo(db).CreateForUser(context.Background(), &domain.Store{ID: "s2", UserID: "u1", Name: "Second"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRepo_CreateForUser_MissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "users"`).WillReturnRows(sqlmock.NewRows([]string{"id", "has_store"}))
	mock.ExpectRollback()

	err := NewStoreRepo(db).CreateForUser(context.Background(), &domain.Store{ID: "s1", UserID: "ghost", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRepo_DeleteForUser_ResetsFlag(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	expectOwnerLock(mock, true)
	mock.ExpectExec(`DELETE FROM "stores" WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "users" SET "has_store"=\$1`).
		WithArgs(false, sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := NewStoreRepo(db).DeleteForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepo_Rotate(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewRefreshTokenRepo(db)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "refresh_tokens" SET "revoked"=\$1,"revoked_at"=\$2 WHERE token_hash = \$3 AND revoked = \$4`).
		WithArgs(true, fixed, "old", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "refresh_tokens"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	next := &domain.RefreshToken{ID: "t2", UserID: "u1", TokenHash: "new", ExpiresAt: fixed.Add(time.Hour)}
	require.NoError(t, r.Rotate(context.Background(), "old", next))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepo_Rotate_AlreadyRevoked(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "refresh_tokens"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewRefreshTokenRepo(db).Rotate(context.Background(), "old", &domain.RefreshToken{ID: "t2"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepo_Average(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT COALESCE\(AVG\(rating\), 0\) FROM "product_ratings" WHERE product_id = \$1`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(4.5))

	avg, err := NewRatingRepo(db).Average(context.Background(), "p1")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 1e-9)
}

func TestRatingRepo_ProductExists(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	r := NewRatingRepo(db)
	ok, err := r.ProductExists(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.ProductExists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDupKey(t *testing.T) {
	assert.True(t, isDupKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDupKey(errUniqueStore))
	assert.True(t, isDupKey(errors.New("Error 1062 (23000): Duplicate entry 'a@x.sy' for key 'idx_users_email'")))
	assert.False(t, isDupKey(errors.New("connection reset")))
	assert.False(t, isDupKey(nil))
}
