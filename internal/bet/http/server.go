package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rongbachkim/lottery-bet-platform/internal/bet/dto"
	"github.com/rongbachkim/lottery-bet-platform/internal/bet/rates"
	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
	walletrepo "github.com/rongbachkim/lottery-bet-platform/internal/wallet/repo"
	"github.com/rongbachkim/lottery-bet-platform/pkg/contracts/events"
)

// Repo is the persistence surface the handlers need.
type Repo interface {
	Place(ctx context.Context, b *lottery.Bet) (string, error)
	Get(ctx context.Context, betID string) (*lottery.Bet, error)
	ByUser(ctx context.Context, userID string) ([]lottery.Bet, error)
}

// Rates supplies current multipliers and stake bounds at placement time.
type Rates interface {
	Multiplier(ctx context.Context, t lottery.BetType) (float64, error)
	CurrentLimits(ctx context.Context) (rates.Limits, error)
	Rates(ctx context.Context) (map[lottery.BetType]float64, error)
	Setting(ctx context.Context, key string) (*rates.Setting, error)
	All(ctx context.Context) ([]rates.Setting, error)
	Update(ctx context.Context, key string, value json.RawMessage, description string) (*rates.Setting, error)
}

type Server struct {
	log   *zap.Logger
	repo  Repo
	rates Rates
	publ  interface {
		PublishBetPlaced(context.Context, events.BetPlaced) error
	}
}

func NewServer(log *zap.Logger, r Repo, rr Rates, p interface {
	PublishBetPlaced(context.Context, events.BetPlaced) error
}) *Server {
	return &Server{log: log, repo: r, rates: rr, publ: p}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bets", s.bets)                      // POST place, GET ?userId=
	mux.HandleFunc("/bets/", s.getBet)                   // GET /bets/{id}
	mux.HandleFunc("/settings/public", s.publicSettings) // GET
	mux.HandleFunc("/settings", s.listSettings)          // GET (admin)
	mux.HandleFunc("/settings/", s.setting)              // GET | PUT /settings/{key} (admin)
	return mux
}

func (s *Server) bets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.placeBet(w, r)
	case http.MethodGet:
		s.listBets(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Stake <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	betType, err := lottery.ParseBetType(req.Type)
	if err != nil {
		http.Error(w, "invalid bet type", http.StatusBadRequest)
		return
	}
	region, err := lottery.ParseRegion(req.Region)
	if err != nil {
		http.Error(w, "invalid region", http.StatusBadRequest)
		return
	}
	drawDate, err := time.Parse("2006-01-02", req.DrawDate)
	if err != nil {
		http.Error(w, "invalid draw_date, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	picks, err := lottery.NewPicks(betType, req.Numbers)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limits, err := s.rates.CurrentLimits(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if req.Stake < limits.Min || req.Stake > limits.Max {
		http.Error(w, "stake out of bounds", http.StatusBadRequest)
		return
	}

	// The multiplier read here travels with the bet; later rate changes
	// never alter what this wager pays.
	multiplier, err := s.rates.Multiplier(r.Context(), betType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	bet := &lottery.Bet{
		UserID:     req.UserID,
		Type:       betType,
		Numbers:    picks.Numbers(),
		Stake:      req.Stake,
		Multiplier: multiplier,
		Region:     region,
		DrawDate:   drawDate,
		Status:     lottery.StatusPending,
	}

	betID, err := s.repo.Place(r.Context(), bet)
	if err != nil {
		if errors.Is(err, walletrepo.ErrInsufficientFunds) {
			http.Error(w, "insufficient balance", http.StatusBadRequest)
			return
		}
		if errors.Is(err, walletrepo.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:      betID,
		UserID:     req.UserID,
		Type:       string(betType),
		Numbers:    picks.Numbers(),
		Stake:      req.Stake,
		Multiplier: multiplier,
		Region:     string(region),
		DrawDate:   req.DrawDate,
	})

	writeJSON(w, dto.PlaceBetResponse{
		BetID:      betID,
		Status:     string(lottery.StatusPending),
		Multiplier: multiplier,
	})
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	bets, err := s.repo.ByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.BetResponse, 0, len(bets))
	for i := range bets {
		out = append(out, betResponse(&bets[i]))
	}
	writeJSON(w, out)
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/bets/")
	if id == "" {
		http.Error(w, "betId required", http.StatusBadRequest)
		return
	}
	bet, err := s.repo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, betResponse(bet))
}

func (s *Server) publicSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rr, err := s.rates.Rates(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	limits, err := s.rates.CurrentLimits(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := dto.PublicSettingsResponse{
		BettingRates: make(map[string]float64, len(rr)),
		MinBetAmount: limits.Min,
		MaxBetAmount: limits.Max,
	}
	for t, v := range rr {
		out.BettingRates[string(t)] = v
	}
	writeJSON(w, out)
}

func (s *Server) listSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	all, err := s.rates.All(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, all)
}

func (s *Server) setting(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/settings/")
	if key == "" || key == "public" {
		http.Error(w, "key required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		st, err := s.rates.Setting(r.Context(), key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, st)

	case http.MethodPut:
		var req dto.UpdateSettingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Value == nil {
			http.Error(w, "value is required", http.StatusBadRequest)
			return
		}
		raw, err := json.Marshal(req.Value)
		if err != nil {
			http.Error(w, "bad value", http.StatusBadRequest)
			return
		}
		st, err := s.rates.Update(r.Context(), key, raw, req.Description)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, st)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func betResponse(b *lottery.Bet) dto.BetResponse {
	return dto.BetResponse{
		BetID:      b.ID,
		UserID:     b.UserID,
		Type:       string(b.Type),
		Numbers:    b.Numbers,
		Stake:      b.Stake,
		Multiplier: b.Multiplier,
		Region:     string(b.Region),
		DrawDate:   b.DrawDate.Format("2006-01-02"),
		Status:     string(b.Status),
		Payout:     b.Payout,
		CreatedAt:  b.CreatedAt,
		SettledAt:  b.SettledAt,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
