package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return New(db), mock
}

var fixedTime = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func cartRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "product_id", "quantity", "created_at", "updated_at"})
}

func addressRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "first_name", "last_name", "email", "street", "city",
		"state", "zipcode", "country", "phone", "is_selected", "created_at", "updated_at"})
}

func addAddress(rows *sqlmock.Rows, id, userID int64, selected bool) *sqlmock.Rows {
	return rows.AddRow(id, userID, "Asha", "Verma", "asha@example.com", "12 MG Road", "Pune", "MH",
		"411001", "India", "9876543210", selected, fixedTime, fixedTime)
}
