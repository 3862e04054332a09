package payment

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	httpez "syriazone/internal/transport/http/ez"
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

const confirmSQL = `UPDATE "payments" SET "status"=\$1 WHERE id = \$2 AND status = \$3`

func TestConfirm(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		exists   int
		want     int // 0 表示成功
	}{
		{"pending", 1, 0, 0},
		{"already confirmed", 0, 1, 400},
		{"missing", 0, 0, 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectExec(confirmSQL).
				WithArgs(StatusSuccess, "pay1", StatusPending).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			if tt.affected == 0 {
				mock.ExpectQuery(`SELECT count\(\*\) FROM "payments" WHERE id = \$1`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.exists))
			}

			out, err := Confirm(db, "pay1")
			if tt.want == 0 {
				require.NoError(t, err)
				assert.Equal(t, StatusSuccess, out.Status)
			} else {
				assert.Equal(t, tt.want, httpez.StatusOf(err))
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
