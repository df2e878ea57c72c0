package settlement

import (
	"context"
	"sync"
	"time"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
)

// MemoryStore is an in-memory Store used by tests and local runs without a
// database. Balances and the transaction trail behave like the Postgres
// implementation: every credit appends a record, transitions are guarded on
// pending status.
type MemoryStore struct {
	mu       sync.Mutex
	results  map[string]*lottery.DrawResult // key: day|region
	bets     map[string]*lottery.Bet
	balances map[string]int64
	trail    []MemoryTransaction

	// FailCredit makes SettleWon fail for the given bet IDs, for exercising
	// partial-batch failure paths.
	FailCredit map[string]error
}

type MemoryTransaction struct {
	UserID string
	Type   string
	Amount int64
	Ref    string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results:  make(map[string]*lottery.DrawResult),
		bets:     make(map[string]*lottery.Bet),
		balances: make(map[string]int64),
	}
}

func slotKey(day time.Time, region lottery.Region) string {
	return lottery.Day(day).Format("2006-01-02") + "|" + string(region)
}

func (m *MemoryStore) AddResult(r *lottery.DrawResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[slotKey(r.DrawDate, r.Region)] = r
}

func (m *MemoryStore) AddBet(b *lottery.Bet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bets[b.ID] = &cp
}

func (m *MemoryStore) SetBalance(userID string, bal int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = bal
}

func (m *MemoryStore) Balance(userID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID]
}

func (m *MemoryStore) Bet(id string) *lottery.Bet {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bets[id]; ok {
		cp := *b
		return &cp
	}
	return nil
}

func (m *MemoryStore) Trail() []MemoryTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MemoryTransaction, len(m.trail))
	copy(out, m.trail)
	return out
}

func (m *MemoryStore) ResultFor(ctx context.Context, day time.Time, region lottery.Region) (*lottery.DrawResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[slotKey(day, region)]
	if !ok {
		return nil, ErrNoResult
	}
	return r, nil
}

func (m *MemoryStore) PendingBets(ctx context.Context, day time.Time, region lottery.Region) ([]lottery.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := lottery.Day(day)
	var out []lottery.Bet
	for _, b := range m.bets {
		if b.Status == lottery.StatusPending && b.Region == region && lottery.Day(b.DrawDate).Equal(want) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *MemoryStore) SettleWon(ctx context.Context, betID, userID string, payout int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.FailCredit[betID]; ok {
		return err
	}

	b, ok := m.bets[betID]
	if !ok || b.Status != lottery.StatusPending {
		return nil // already settled, no double credit
	}

	now := time.Now()
	b.Status = lottery.StatusWon
	b.Payout = payout
	b.SettledAt = &now

	m.balances[userID] += payout
	m.trail = append(m.trail, MemoryTransaction{
		UserID: userID,
		Type:   "bet_winning",
		Amount: payout,
		Ref:    betID,
	})
	return nil
}

func (m *MemoryStore) SettleLost(ctx context.Context, betID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bets[betID]
	if !ok || b.Status != lottery.StatusPending {
		return nil
	}

	now := time.Now()
	b.Status = lottery.StatusLost
	b.Payout = 0
	b.SettledAt = &now
	return nil
}
