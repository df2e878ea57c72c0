package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rongbachkim/lottery-bet-platform/internal/wallet/dto"
	"github.com/rongbachkim/lottery-bet-platform/internal/wallet/repo"
)

// Repo is the ledger surface used by the handlers.
type Repo interface {
	Balance(ctx context.Context, userID string) (int64, error)
	RequestDeposit(ctx context.Context, userID string, amount int64, ref string) (string, error)
	RequestWithdrawal(ctx context.Context, userID string, amount int64, ref string) (string, error)
	CompleteTransaction(ctx context.Context, txID string) error
	RejectTransaction(ctx context.Context, txID string) error
	UserTransactions(ctx context.Context, userID string) ([]repo.Transaction, error)
}

// Server exposes the wallet API: balance, deposit/withdrawal requests and
// the admin endpoints that settle them.
type Server struct {
	log  *zap.Logger
	repo Repo
}

func NewServer(log *zap.Logger, repo Repo) *Server { return &Server{log: log, repo: repo} }

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wallet", s.getBalance)                    // GET ?userId=
	mux.HandleFunc("/wallet/deposit", s.deposit)               // POST
	mux.HandleFunc("/wallet/withdraw", s.withdraw)             // POST
	mux.HandleFunc("/wallet/transactions", s.listTransactions) // GET ?userId=
	mux.HandleFunc("/wallet/transactions/", s.transactionOp)   // POST /wallet/transactions/{id}/complete | /reject
	return mux
}

func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	bal, err := s.repo.Balance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.BalanceResponse{UserID: userID, Balance: bal})
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Amount <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	id, err := s.repo.RequestDeposit(r.Context(), req.UserID, req.Amount, req.Ref)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.RequestCreatedResponse{TransactionID: id, Status: "pending"})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Amount <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	id, err := s.repo.RequestWithdrawal(r.Context(), req.UserID, req.Amount, req.Ref)
	if err != nil {
		if errors.Is(err, repo.ErrInsufficientFunds) {
			http.Error(w, "insufficient balance", http.StatusBadRequest)
			return
		}
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.RequestCreatedResponse{TransactionID: id, Status: "pending"})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	txs, err := s.repo.UserTransactions(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, dto.TransactionResponse{
			ID:        t.ID,
			UserID:    t.UserID,
			Type:      t.Type,
			Amount:    t.Amount,
			Status:    t.Status,
			Ref:       t.Ref,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}
	writeJSON(w, out)
}

// transactionOp handles admin settlement of pending deposit/withdrawal
// requests: POST /wallet/transactions/{id}/complete or /reject.
func (s *Server) transactionOp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/wallet/transactions/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		http.Error(w, "transaction id and action required", http.StatusBadRequest)
		return
	}
	txID, action := parts[0], parts[1]

	var err error
	switch action {
	case "complete":
		err = s.repo.CompleteTransaction(r.Context(), txID)
	case "reject":
		err = s.repo.RejectTransaction(r.Context(), txID)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, repo.ErrInsufficientFunds) {
			http.Error(w, "insufficient balance", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
