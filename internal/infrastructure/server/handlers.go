package server

import (
	"errors"
	"net/http"
	"strconv"

	"defisim/internal/bookmarks"
	"defisim/internal/core"
	"defisim/internal/guidance"
	"defisim/internal/lpmath"
	"defisim/internal/marketdata"
	"defisim/internal/simulation"
	"defisim/internal/staking"
	apperrors "defisim/pkg/errors"
)

// --- market data ---

type assetsResponse struct {
	Protocol marketdata.Protocol `json:"protocol"`
	Assets   []core.Asset        `json:"assets"`
	Notice   string              `json:"notice,omitempty"`
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	protocol, err := marketdata.ParseProtocol(r.URL.Query().Get("protocol"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	live := r.URL.Query().Get("live") == "true"

	md, notice, err := s.provider.Assets(r.Context(), protocol, live)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assetsResponse{Protocol: md.Protocol, Assets: md.Assets, Notice: notice})
}

// --- positions ---

type addPositionRequest struct {
	Asset        core.Asset        `json:"asset"`
	PositionType core.PositionType `json:"positionType"`
	Amount       float64           `json:"amount"`
}

func (s *Server) handleAddPosition(w http.ResponseWriter, r *http.Request) {
	var req addPositionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	position, err := s.manager.AddPosition(req.Asset, req.PositionType, req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, position)
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions := s.manager.Positions()
	if positions == nil {
		positions = []core.Position{}
	}
	writeJSON(w, http.StatusOK, positions)
}

func (s *Server) handleRemovePosition(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.RemovePosition(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearPositions(w http.ResponseWriter, r *http.Request) {
	s.manager.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// --- risk / returns / simulation ---

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	shock, err := parseFloatParam(r, "shock", s.manager.Config().PriceShockPct)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if shock < -s.opts.MaxPriceShockPct || shock > s.opts.MaxPriceShockPct {
		writeError(w, http.StatusBadRequest, "shock out of range")
		return
	}

	result := simulation.ComputeRisk(s.manager.Positions(), shock)
	s.metrics.RecordRiskComputation(r.Context())
	s.metrics.SetHealthFactor(result.HealthFactor)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRiskSweep(w http.ResponseWriter, r *http.Request) {
	from, err := parseFloatParam(r, "from", -s.opts.MaxPriceShockPct)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseFloatParam(r, "to", s.opts.MaxPriceShockPct)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	step, err := parseFloatParam(r, "step", 5)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grid := simulation.ShockGrid(from, to, step)
	if grid == nil {
		writeError(w, http.StatusBadRequest, "invalid sweep bounds")
		return
	}
	points := simulation.SweepShocks(s.pool, s.manager.Positions(), grid)
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleReturns(w http.ResponseWriter, r *http.Request) {
	days, err := parseIntParam(r, "days", s.manager.Config().TimeframeDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if days < 1 || days > s.opts.MaxTimeframeDays {
		writeError(w, http.StatusBadRequest, "days out of range")
		return
	}
	writeJSON(w, http.StatusOK, simulation.ComputeReturns(s.manager.Positions(), days))
}

type simulateRequest struct {
	TimeframeDays int      `json:"timeframeDays"`
	PriceShockPct *float64 `json:"priceShockPct"`
}

type simulateResponse struct {
	Risk       *core.RiskResult       `json:"risk"`
	Returns    *core.ReturnResult     `json:"returns"`
	Simulation *core.SimulationResult `json:"simulation"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.TimeframeDays != 0 {
		if req.TimeframeDays < 1 || req.TimeframeDays > s.opts.MaxTimeframeDays {
			writeError(w, http.StatusBadRequest, "timeframeDays out of range")
			return
		}
		s.manager.SetTimeframe(req.TimeframeDays)
	}
	if req.PriceShockPct != nil {
		s.manager.SetPriceShock(*req.PriceShockPct)
	}

	results := s.manager.Recalculate(r.Context())
	writeJSON(w, http.StatusOK, simulateResponse{
		Risk:       results.Risk,
		Returns:    results.Returns,
		Simulation: results.Simulation,
	})
}

func (s *Server) handleGuidance(w http.ResponseWriter, r *http.Request) {
	results := s.manager.Results()
	writeJSON(w, http.StatusOK, guidance.Generate(results.Risk, results.Returns))
}

// --- LP calculators ---

type lpCompareRequest struct {
	InitialPrice       float64         `json:"initialPrice"`
	FinalPrice         float64         `json:"finalPrice"`
	InitialTokenAmount float64         `json:"initialTokenAmount"`
	FeeAPR             float64         `json:"feeApr"`
	Days               float64         `json:"days"`
	Frequency          lpmath.Frequency `json:"frequency"`
}

type lpCompareResponse struct {
	Comparison lpmath.Comparison `json:"comparison"`
	FeesEarned float64           `json:"feesEarned"`
	Net        lpmath.NetOutcome `json:"net"`
}

func (s *Server) handleLPCompare(w http.ResponseWriter, r *http.Request) {
	var req lpCompareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	comparison := lpmath.LPVsHold(req.InitialPrice, req.FinalPrice, req.InitialTokenAmount)
	liquidity := 2 * req.InitialTokenAmount * req.InitialPrice
	fees := lpmath.FeesEarned(liquidity, req.FeeAPR, req.Days, req.Frequency)
	writeJSON(w, http.StatusOK, lpCompareResponse{
		Comparison: comparison,
		FeesEarned: fees,
		Net:        lpmath.NetWithFees(comparison.LPValue, comparison.HoldValue, fees),
	})
}

type lpFeesRequest struct {
	LiquidityValue float64          `json:"liquidityValue"`
	FeeAPR         float64          `json:"feeApr"`
	Days           float64          `json:"days"`
	Frequency      lpmath.Frequency `json:"frequency"`
}

func (s *Server) handleLPFees(w http.ResponseWriter, r *http.Request) {
	var req lpFeesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	fees := lpmath.FeesEarned(req.LiquidityValue, req.FeeAPR, req.Days, req.Frequency)
	writeJSON(w, http.StatusOK, map[string]float64{"feesEarned": fees})
}

// --- staking calculators ---

type stakingRewardsRequest struct {
	Principal  float64           `json:"principal"`
	APR        float64           `json:"apr"`
	Days       float64           `json:"days"`
	LockupDays float64           `json:"lockupDays"`
	Frequency  staking.Frequency `json:"frequency"`
}

func (s *Server) handleStakingRewards(w http.ResponseWriter, r *http.Request) {
	var req stakingRewardsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK,
		staking.WithLockup(req.Principal, req.APR, req.Days, req.LockupDays, req.Frequency))
}

type stakingCompareRequest struct {
	Principal float64 `json:"principal"`
	APR       float64 `json:"apr"`
	Days      float64 `json:"days"`
}

func (s *Server) handleStakingCompare(w http.ResponseWriter, r *http.Request) {
	var req stakingCompareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, staking.CompareFrequencies(req.Principal, req.APR, req.Days))
}

// --- bookmarks ---

type addBookmarkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	links, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if links == nil {
		links = []bookmarks.Link{}
	}
	writeJSON(w, http.StatusOK, links)
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	var req addBookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Title == "" || req.URL == "" {
		writeError(w, http.StatusBadRequest, "title and url are required")
		return
	}
	link := bookmarks.NewLink(req.Title, req.URL)
	if err := s.store.Save(r.Context(), link); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (s *Server) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- helpers ---

func parseFloatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return v, nil
}

func parseIntParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return v, nil
}
