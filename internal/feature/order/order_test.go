package order

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

const cartSQL = `SELECT ci.product_id, p.name, p.price, ci.quantity FROM cart_items AS ci JOIN products AS p ON p.id = ci.product_id WHERE ci.user_id = \$1 FOR UPDATE`

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusShipped.Valid())
	assert.False(t, Status("Lost").Valid())
	assert.False(t, Status("").Valid())
}

func TestCheckout_EmptyCart(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(cartSQL).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "price", "quantity"}))
	mock.ExpectRollback()

	err := Checkout(nil, db, &Order{ID: "o1", UserID: "u1"})
	require.Error(t, err)
	assert.Equal(t, 400, httpez.StatusOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_TotalsAndClearsCart(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(cartSQL).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "price", "quantity"}).
			AddRow("p1", "Soap", 2.5, 2).
			AddRow("p2", "Olive oil", 10.0, 1))
	mock.ExpectExec(`INSERT INTO "orders"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "order_items"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "cart_items" WHERE user_id = \$1`).WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	o := &Order{ID: "o1", UserID: "u1", Total: 999, Status: StatusDelivered}
	require.NoError(t, Checkout(nil, db, o))
	assert.InDelta(t, 15.0, o.Total, 1e-9)
	assert.Equal(t, StatusPending, o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "o1", o.Items[0].OrderID)
	require.NoError(t, mock.ExpectationsWereMet())
}
