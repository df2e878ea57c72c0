package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
	"github.com/rongbachkim/lottery-bet-platform/internal/settlement"
)

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func TestSettleWonCreditsOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bets SET status='won'").
		WithArgs("bet-1", int64(800000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE users SET balance").
		WithArgs(int64(800000), "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(int64(800000)))
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewPostgres(db).SettleWon(context.Background(), "bet-1", "user-1", 800000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleWonAlreadySettled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	// Guarded transition matched nothing: an earlier run settled this bet.
	mock.ExpectExec("UPDATE bets SET status='won'").
		WithArgs("bet-1", int64(800000)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = NewPostgres(db).SettleWon(context.Background(), "bet-1", "user-1", 800000)
	require.NoError(t, err, "duplicate settlement must not credit again")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleLost(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE bets SET status='lost'").
		WithArgs("bet-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewPostgres(db).SettleLost(context.Background(), "bet-2")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultForMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, draw_date, region, special, first").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewPostgres(db).ResultFor(context.Background(), day, lottery.RegionNorth)
	assert.ErrorIs(t, err, settlement.ErrNoResult)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultForDecodesTiers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "draw_date", "region", "special", "first", "second", "third", "fourth", "fifth", "sixth", "seventh", "created_at"}
	mock.ExpectQuery("SELECT id, draw_date, region, special, first").
		WithArgs(day, "north").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"res-1", day, "north", "46935", "69268",
			[]byte(`["12345","67890"]`), []byte(`["11123"]`), []byte(`["7767"]`),
			[]byte(`["9901"]`), []byte(`["410"]`), []byte(`["07","42"]`),
			time.Now()))

	r, err := NewPostgres(db).ResultFor(context.Background(), day, lottery.RegionNorth)
	require.NoError(t, err)
	assert.Equal(t, "46935", r.Special)
	assert.Equal(t, []string{"12345", "67890"}, r.Second)
	assert.Equal(t, []string{"07", "42"}, r.Seventh)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingBetsScansNumbers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "user_id", "type", "numbers", "stake", "multiplier", "region", "draw_date", "status", "created_at"}
	mock.ExpectQuery("SELECT id, user_id, type, numbers, stake, multiplier").
		WithArgs(day, "north").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("bet-1", "user-1", "lo", []byte(`["23","45"]`), int64(10000), 99.5, "north", day, "pending", time.Now()))

	bets, err := NewPostgres(db).PendingBets(context.Background(), day, lottery.RegionNorth)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, []string{"23", "45"}, bets[0].Numbers)
	assert.Equal(t, lottery.BetLo, bets[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
