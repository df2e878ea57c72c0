package rates

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
)

func noRow() *sqlmock.Rows { return sqlmock.NewRows([]string{"value"}) }

func TestRatesDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(KeyRates).
		WillReturnRows(noRow())

	got, err := New(db, nil, 0).Rates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 99.5, got[lottery.BetLo])
	assert.Equal(t, float64(700), got[lottery.Bet3Cang])
	assert.Equal(t, float64(17), got[lottery.BetXien2])
	assert.Len(t, got, 6)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatesStoredOverridesMerge(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Admin lowered de only; every other type keeps its default.
	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(KeyRates).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"de": 80}`)))

	got, err := New(db, nil, 0).Rates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, float64(80), got[lottery.BetDe])
	assert.Equal(t, 99.5, got[lottery.BetLo])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMultiplierUnknownType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM settings").
		WillReturnRows(noRow())

	_, err = New(db, nil, 0).Multiplier(context.Background(), lottery.BetType("bogus"))
	assert.ErrorIs(t, err, lottery.ErrInvalidBetType)
}

func TestCurrentLimitsDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM settings").WithArgs(KeyMinBet).WillReturnRows(noRow())
	mock.ExpectQuery("SELECT value FROM settings").WithArgs(KeyMaxBet).WillReturnRows(noRow())

	l, err := New(db, nil, 0).CurrentLimits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Limits{Min: 10000, Max: 10000000}, l)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentLimitsStored(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(KeyMinBet).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`20000`)))
	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(KeyMaxBet).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`5000000`)))

	l, err := New(db, nil, 0).CurrentLimits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Limits{Min: 20000, Max: 5000000}, l)
	assert.NoError(t, mock.ExpectationsWereMet())
}
