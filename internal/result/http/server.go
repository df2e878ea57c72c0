package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
	"github.com/rongbachkim/lottery-bet-platform/internal/result/dto"
	"github.com/rongbachkim/lottery-bet-platform/internal/result/repo"
	"github.com/rongbachkim/lottery-bet-platform/pkg/contracts/events"
)

// Repo is the persistence surface for results and number stats.
type Repo interface {
	Insert(ctx context.Context, r *lottery.DrawResult) (string, error)
	Latest(ctx context.Context, region lottery.Region, limit int) ([]lottery.DrawResult, error)
	ByDate(ctx context.Context, day time.Time) ([]lottery.DrawResult, error)
	RecordStats(ctx context.Context, r *lottery.DrawResult) error
	MostFrequent(ctx context.Context, region lottery.Region, limit int) ([]repo.NumberFrequency, error)
	Absence(ctx context.Context, region lottery.Region, limit int) ([]repo.NumberAbsence, error)
}

type Server struct {
	log  *zap.Logger
	repo Repo
	publ interface {
		PublishResultRecorded(context.Context, events.ResultRecorded) error
	}
}

func NewServer(log *zap.Logger, r Repo, p interface {
	PublishResultRecorded(context.Context, events.ResultRecorded) error
}) *Server {
	return &Server{log: log, repo: r, publ: p}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/results", s.results)                 // POST record, GET ?date=
	mux.HandleFunc("/results/latest/", s.latest)          // GET /results/latest/{region}
	mux.HandleFunc("/results/history/", s.history)        // GET /results/history/{region}?limit=
	mux.HandleFunc("/stats/frequent/", s.frequent)        // GET /stats/frequent/{region}?limit=
	mux.HandleFunc("/stats/absence/", s.absence)          // GET /stats/absence/{region}?limit=
	return mux
}

func (s *Server) results(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.recordResult(w, r)
	case http.MethodGet:
		s.byDate(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) recordResult(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	region, err := lottery.ParseRegion(req.Region)
	if err != nil {
		http.Error(w, "invalid region", http.StatusBadRequest)
		return
	}
	day, err := time.Parse("2006-01-02", req.DrawDate)
	if err != nil {
		http.Error(w, "invalid draw_date, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if req.Special == "" || req.First == "" {
		http.Error(w, "special and first prizes are required", http.StatusBadRequest)
		return
	}

	result := &lottery.DrawResult{
		DrawDate: day,
		Region:   region,
		Special:  req.Special,
		First:    req.First,
		Second:   req.Second,
		Third:    req.Third,
		Fourth:   req.Fourth,
		Fifth:    req.Fifth,
		Sixth:    req.Sixth,
		Seventh:  req.Seventh,
	}

	id, err := s.repo.Insert(r.Context(), result)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			http.Error(w, "result already recorded for this date and region", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	result.ID = id

	if err := s.repo.RecordStats(r.Context(), result); err != nil {
		// Stats are advisory; the result itself is already stored.
		s.log.Warn("record number stats", zap.Error(err))
	}

	if err := s.publ.PublishResultRecorded(r.Context(), events.ResultRecorded{
		ResultID: id,
		DrawDate: req.DrawDate,
		Region:   string(region),
	}); err != nil {
		// The worker never sees the slot if this is lost; loud log so an
		// operator can re-trigger via the DLQ tooling.
		s.log.Error("publish result_recorded", zap.String("resultId", id), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resultResponse(result))
}

func (s *Server) byDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		http.Error(w, "date required", http.StatusBadRequest)
		return
	}
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.Error(w, "invalid date, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	results, err := s.repo.ByDate(r.Context(), day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeResults(w, results)
}

func (s *Server) latest(w http.ResponseWriter, r *http.Request) {
	region, ok := s.regionFromPath(w, r, "/results/latest/")
	if !ok {
		return
	}
	results, err := s.repo.Latest(r.Context(), region, 1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(results) == 0 {
		http.Error(w, "no results found", http.StatusNotFound)
		return
	}
	writeJSON(w, resultResponse(&results[0]))
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	region, ok := s.regionFromPath(w, r, "/results/history/")
	if !ok {
		return
	}
	results, err := s.repo.Latest(r.Context(), region, limitParam(r, 10))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeResults(w, results)
}

func (s *Server) frequent(w http.ResponseWriter, r *http.Request) {
	region, ok := s.regionFromPath(w, r, "/stats/frequent/")
	if !ok {
		return
	}
	stats, err := s.repo.MostFrequent(r.Context(), region, limitParam(r, 10))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) absence(w http.ResponseWriter, r *http.Request) {
	region, ok := s.regionFromPath(w, r, "/stats/absence/")
	if !ok {
		return
	}
	stats, err := s.repo.Absence(r.Context(), region, limitParam(r, 10))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) regionFromPath(w http.ResponseWriter, r *http.Request, prefix string) (lottery.Region, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	region, err := lottery.ParseRegion(strings.TrimPrefix(r.URL.Path, prefix))
	if err != nil {
		http.Error(w, "invalid region", http.StatusBadRequest)
		return "", false
	}
	return region, true
}

func limitParam(r *http.Request, def int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func resultResponse(r *lottery.DrawResult) dto.ResultResponse {
	return dto.ResultResponse{
		ID:        r.ID,
		DrawDate:  lottery.Day(r.DrawDate).Format("2006-01-02"),
		Region:    string(r.Region),
		Special:   r.Special,
		First:     r.First,
		Second:    r.Second,
		Third:     r.Third,
		Fourth:    r.Fourth,
		Fifth:     r.Fifth,
		Sixth:     r.Sixth,
		Seventh:   r.Seventh,
		CreatedAt: r.CreatedAt,
	}
}

func writeResults(w http.ResponseWriter, results []lottery.DrawResult) {
	out := make([]dto.ResultResponse, 0, len(results))
	for i := range results {
		out = append(out, resultResponse(&results[i]))
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
