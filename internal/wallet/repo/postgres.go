package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
)

// Transaction types recorded in the ledger.
const (
	TxDeposit    = "deposit"
	TxWithdrawal = "withdrawal"
	TxBetStake   = "bet_stake"
	TxBetWinning = "bet_winning"
)

// Postgres implements wallet operations against the database.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Transaction is one row of the append-only audit trail. Every balance
// mutation produces exactly one.
type Transaction struct {
	ID        string
	UserID    string
	Type      string // deposit | withdrawal | bet_stake | bet_winning
	Amount    int64
	Status    string // pending | completed | rejected
	Ref       string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ApplyDeltaTx is the single path through which users.balance is mutated.
// It applies the delta with a non-negative guard and writes the matching
// completed transaction row, all inside the caller's transaction. Returns
// ErrInsufficientFunds when a debit would drive the balance negative.
func ApplyDeltaTx(ctx context.Context, tx *sql.Tx, userID string, delta int64, txType, ref string) (newBalance int64, err error) {
	err = tx.QueryRowContext(ctx, `
		UPDATE users SET balance = balance + $1
		WHERE id = $2 AND balance + $1 >= 0
		RETURNING balance`, delta, userID).Scan(&newBalance)
	if err == sql.ErrNoRows {
		// Either the user does not exist or the guard rejected the debit.
		var one int
		if uerr := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id=$1`, userID).Scan(&one); uerr == sql.ErrNoRows {
			return 0, ErrNotFound
		} else if uerr != nil {
			return 0, uerr
		}
		return 0, ErrInsufficientFunds
	} else if err != nil {
		return 0, err
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, status, ref, created_at)
		VALUES ($1,$2,$3,$4,'completed',$5,NOW())`,
		uuid.NewString(), userID, txType, amount, ref); err != nil {
		return 0, err
	}

	return newBalance, nil
}

// ApplyDelta runs ApplyDeltaTx in its own transaction.
func (p *Postgres) ApplyDelta(ctx context.Context, userID string, delta int64, txType, ref string) (int64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	bal, err := ApplyDeltaTx(ctx, tx, userID, delta, txType, ref)
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return bal, nil
}

// Balance returns the user's current balance.
func (p *Postgres) Balance(ctx context.Context, userID string) (int64, error) {
	var bal int64
	err := p.db.QueryRowContext(ctx, `SELECT balance FROM users WHERE id=$1`, userID).Scan(&bal)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return bal, err
}

// RequestDeposit creates a pending deposit that an admin later completes.
// No balance is touched until completion.
func (p *Postgres) RequestDeposit(ctx context.Context, userID string, amount int64, ref string) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, status, ref, created_at)
		VALUES ($1,$2,$3,$4,'pending',$5,NOW())`,
		id, userID, TxDeposit, amount, ref)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RequestWithdrawal creates a pending withdrawal. Sufficiency is checked here
// for early feedback and enforced again by the guard at completion time.
func (p *Postgres) RequestWithdrawal(ctx context.Context, userID string, amount int64, ref string) (string, error) {
	bal, err := p.Balance(ctx, userID)
	if err != nil {
		return "", err
	}
	if bal < amount {
		return "", ErrInsufficientFunds
	}

	id := uuid.NewString()
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, status, ref, created_at)
		VALUES ($1,$2,$3,$4,'pending',$5,NOW())`,
		id, userID, TxWithdrawal, amount, ref)
	if err != nil {
		return "", err
	}
	return id, nil
}

// CompleteTransaction settles a pending deposit or withdrawal request,
// applying the balance delta and flipping the row to completed as one unit.
// Idempotent: a row that is no longer pending is left alone.
func (p *Postgres) CompleteTransaction(ctx context.Context, txID string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID, txType, status string
	var amount int64
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, type, amount, status FROM transactions
		WHERE id=$1 FOR UPDATE`, txID).Scan(&userID, &txType, &amount, &status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	if status != "pending" {
		return nil
	}

	delta := amount
	if txType == TxWithdrawal {
		delta = -amount
	}

	var newBalance int64
	err = tx.QueryRowContext(ctx, `
		UPDATE users SET balance = balance + $1
		WHERE id = $2 AND balance + $1 >= 0
		RETURNING balance`, delta, userID).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return ErrInsufficientFunds
	} else if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE transactions SET status='completed', updated_at=NOW() WHERE id=$1`, txID); err != nil {
		return err
	}

	return tx.Commit()
}

// RejectTransaction marks a pending request rejected. Idempotent.
func (p *Postgres) RejectTransaction(ctx context.Context, txID string) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE transactions SET status='rejected', updated_at=NOW()
		WHERE id=$1 AND status='pending'`, txID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := p.db.QueryRowContext(ctx, `SELECT 1 FROM transactions WHERE id=$1`, txID).Scan(&one); err == sql.ErrNoRows {
			return ErrNotFound
		}
	}
	return nil
}

// UserTransactions lists a user's audit trail, newest first.
func (p *Postgres) UserTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, status, ref, created_at, updated_at
		FROM transactions WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		var ref sql.NullString
		var updated sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &ref, &t.CreatedAt, &updated); err != nil {
			return nil, err
		}
		t.Ref = ref.String
		if updated.Valid {
			t.UpdatedAt = &updated.Time
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
