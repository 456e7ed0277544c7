package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/seenimoa/stockpicker/internal/analysis/divergence"
	"github.com/seenimoa/stockpicker/internal/analysis/sentiment"
	"github.com/seenimoa/stockpicker/internal/picker"
	"github.com/seenimoa/stockpicker/internal/screener"
	"github.com/seenimoa/stockpicker/pkg/models"
	"github.com/seenimoa/stockpicker/pkg/utils"
)

// ScreenQuery holds the query parameters of GET /api/v1/screen.
type ScreenQuery struct {
	Type  string `validate:"oneof=sector industry"`
	Value string `validate:"required"`
	Sort  string
	Score bool
}

// AnalyzeQuery holds the query parameters of GET /api/v1/analyze.
type AnalyzeQuery struct {
	Symbol string `validate:"required"`
	Peers  []string
}

// RelativeQuery holds the query parameters of GET /api/v1/relative.
type RelativeQuery struct {
	Symbol   string `validate:"required"`
	Industry string `validate:"required"`
}

// DivergenceRequest is the body for POST /api/v1/divergence.
type DivergenceRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=250,dive,required"`
}

// ClassifyRequest is the body for POST /api/v1/classify.
type ClassifyRequest struct {
	Text  string `json:"text"  validate:"max=5000"`
	Title string `json:"title" validate:"max=1000"`
}

// ClassifyResponse is the result of POST /api/v1/classify.
type ClassifyResponse struct {
	Label  sentiment.Label `json:"label"`
	Terms  []string        `json:"terms"`
	Impact string          `json:"impact"`
}

// ScreenResponse lists screened stocks in the requested order.
type ScreenResponse struct {
	Stocks []ScreenedRow                `json:"stocks"`
	Sort   screener.SortKey             `json:"sort"`
	Scores map[string]divergence.Result `json:"scores,omitempty"`
}

// ScreenedRow is a screened stock with its list label.
type ScreenedRow struct {
	models.ScreenedStock
	Label string `json:"label"`
}

// DivergenceResponse holds ranked divergence results.
type DivergenceResponse struct {
	Results []divergence.Ranked `json:"results"`
}

// ════════════════════════════════════════════════════════════════════
// Handlers
// ════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]any{
		"status":        "ok",
		"version":       s.version,
		"market_status": utils.MarketStatus(),
		"time_ist":      utils.FormatDateTimeIST(utils.NowIST()),
		"ws_clients":    s.wsHub.ClientCount(),
	})
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	sectors, err := s.svc.Industries(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, map[string]any{"sectors": sectors})
}

func (s *Server) handleSectorOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.SectorOverview(r.Context(), chi.URLParam(r, "sector"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, ov)
}

func (s *Server) handleSortOptions(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]any{
		"default": screener.DefaultSort,
		"options": screener.Options(),
	})
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ScreenQuery{
		Type:  q.Get("type"),
		Value: strings.TrimSpace(q.Get("value")),
		Sort:  q.Get("sort"),
	}
	if req.Type == "" {
		req.Type = string(models.ScreenBySector)
	}
	req.Score, _ = strconv.ParseBool(q.Get("score"))
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	key, err := screener.ParseSortKey(req.Sort)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kind := models.ScreenKind(req.Type)
	stocks, err := s.svc.Screen(r.Context(), kind, req.Value, key, nil)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var scores map[string]divergence.Result
	if req.Score && key == screener.SortValueDivergence && len(stocks) > 0 {
		syms := make([]string, 0, len(stocks))
		for _, st := range stocks {
			syms = append(syms, st.Symbol)
		}
		scores, err = s.svc.DivergenceScores(r.Context(), syms, s.broadcastProgress)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		stocks = screener.Sort(stocks, key, scores)
	}

	rows := make([]ScreenedRow, 0, len(stocks))
	for _, st := range stocks {
		rows = append(rows, ScreenedRow{ScreenedStock: st, Label: screener.Label(st, key, scores)})
	}
	writeData(w, ScreenResponse{Stocks: rows, Sort: key, Scores: scores})
}

func (s *Server) handleRelative(w http.ResponseWriter, r *http.Request) {
	req := RelativeQuery{
		Symbol:   r.URL.Query().Get("symbol"),
		Industry: r.URL.Query().Get("industry"),
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	metrics, err := s.svc.Relative(r.Context(), req.Symbol, req.Industry)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, map[string]any{"symbol": req.Symbol, "industry": req.Industry, "metrics": metrics})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req := AnalyzeQuery{
		Symbol: strings.TrimSpace(r.URL.Query().Get("symbol")),
		Peers:  utils.ParseTickerList(r.URL.Query().Get("peers")),
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	a, err := s.svc.Analyze(r.Context(), req.Symbol, req.Peers)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, a)
}

func (s *Server) handleDivergence(w http.ResponseWriter, r *http.Request) {
	var req DivergenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	results, err := s.svc.DivergenceScores(r.Context(), req.Symbols, s.broadcastProgress)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	ranked := divergence.Rank(results)

	s.wsHub.Broadcast(WSMessage{
		Type: "divergence_complete",
		Data: map[string]any{"count": len(ranked)},
	})
	writeData(w, DivergenceResponse{Results: ranked})
}

func (s *Server) handleStockNews(w http.ResponseWriter, r *http.Request) {
	stock := strings.TrimSpace(r.URL.Query().Get("stock"))
	if stock == "" {
		writeError(w, http.StatusBadRequest, "missing 'stock' parameter")
		return
	}

	rep, err := s.svc.StockNews(r.Context(), stock)
	if err != nil {
		// A news outage should not break the stock view.
		s.logger.Warn("stock news unavailable", zap.String("stock", stock), zap.Error(err))
		writeJSON(w, http.StatusOK, APIResponse{
			Success: true,
			Data:    emptyNews(),
			Warning: "news unavailable: " + err.Error(),
		})
		return
	}
	writeData(w, rep)
}

func (s *Server) handleMarketNews(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "'limit' must be between 1 and 100")
			return
		}
		limit = n
	}

	rep, err := s.svc.MarketNews(r.Context(), limit)
	if err != nil {
		s.logger.Warn("market news unavailable", zap.Error(err))
		writeJSON(w, http.StatusOK, APIResponse{
			Success: true,
			Data:    emptyNews(),
			Warning: "news unavailable: " + err.Error(),
		})
		return
	}
	writeData(w, rep)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	res := sentiment.Classify(req.Text)
	writeData(w, ClassifyResponse{
		Label:  res.Label,
		Terms:  res.Terms,
		Impact: sentiment.BuildImpactNote(res.Label, res.Terms, req.Title),
	})
}

// broadcastProgress relays ranking progress to WebSocket clients.
func (s *Server) broadcastProgress(p picker.Progress) {
	s.wsHub.Broadcast(WSMessage{Type: "divergence_progress", Data: p})
}

func emptyNews() *picker.NewsReport {
	return &picker.NewsReport{
		Articles: []models.TaggedArticle{},
		Summary:  sentiment.Summarize(nil),
	}
}
