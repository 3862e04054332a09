package category

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
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

func listCategories(t *testing.T, db *gorm.DB) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewModule(db).MountAPI(r.Group("/api"), r.Group("/api"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/Category", nil))
	return w
}

// 没有分类时返回空数组而不是 null
func TestList_EmptyIsArray(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "categories" ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	w := listCategories(t, db)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_OrderedByName(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "categories" ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("c1", "Books").
			AddRow("c2", "Toys"))

	w := listCategories(t, db)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Books"`)
	assert.Contains(t, w.Body.String(), `"name":"Toys"`)
	require.NoError(t, mock.ExpectationsWereMet())
}
