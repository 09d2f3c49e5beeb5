package repo

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"motoyard/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return gdb, mock
}

func vehicleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "model", "plate", "chassis", "active", "yard_id"})
}

func TestVehicleStoreGetByPlateNormalizes(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := NewVehicleStore(gdb)

	mock.ExpectQuery(`SELECT \* FROM "vehicles" WHERE plate = \$1`).
		WithArgs("ABC-1234", sqlmock.AnyArg()).
		WillReturnRows(vehicleRows().AddRow(1, "CG 160", "ABC-1234", "CH-1", true, nil))

	// lowercase input must hit the store uppercased
	v, err := store.GetByPlate(context.Background(), "abc-1234")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "ABC-1234", v.Plate)
	assert.Nil(t, v.YardID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleStoreGetByPlateMiss(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := NewVehicleStore(gdb)

	mock.ExpectQuery(`SELECT \* FROM "vehicles" WHERE plate = \$1`).
		WithArgs("ZZZ-0000", sqlmock.AnyArg()).
		WillReturnRows(vehicleRows())

	v, err := store.GetByPlate(context.Background(), "ZZZ-0000")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleStoreExistsByPlateExcludesID(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := NewVehicleStore(gdb)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "vehicles" WHERE plate = \$1 AND id <> \$2`).
		WithArgs("ABC-1234", 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := store.ExistsByPlate(context.Background(), "abc-1234", 5)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleStoreGetPageFallsBackToIDSort(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := NewVehicleStore(gdb)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "vehicles"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "vehicles" ORDER BY id ASC`).
		WillReturnRows(vehicleRows().
			AddRow(1, "CG 160", "AAA-0001", "CH-1", true, nil).
			AddRow(2, "Biz 125", "BBB-0002", "CH-2", true, nil))

	// "garbage" is not a known sort key
	items, total, err := store.GetPage(context.Background(), models.PageParams{Page: 1, Size: 10, SortBy: "garbage"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleStoreDelete(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := NewVehicleStore(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "vehicles" WHERE "vehicles"\."id" = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Delete(context.Background(), 7))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "vehicles" WHERE "vehicles"\."id" = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, store.Delete(context.Background(), 7), ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
