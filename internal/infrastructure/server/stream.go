package server

import (
	"net/http"
	"time"

	"defisim/internal/core"
	"defisim/internal/simulation"

	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 5 * time.Second

type streamFrame struct {
	Type   string             `json:"type"`
	Step   *core.ScenarioStep `json:"step,omitempty"`
	Totals *core.FinalTotals  `json:"totals,omitempty"`
}

// handleSimulateStream upgrades the connection and streams one scenario step
// per message, followed by a single totals frame.
func (s *Server) handleSimulateStream(w http.ResponseWriter, r *http.Request) {
	days, err := parseIntParam(r, "days", s.manager.Config().TimeframeDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if days < 1 || days > s.opts.MaxTimeframeDays {
		writeError(w, http.StatusBadRequest, "days out of range")
		return
	}
	shock, err := parseFloatParam(r, "shock", s.manager.Config().PriceShockPct)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if shock < -s.opts.MaxPriceShockPct || shock > s.opts.MaxPriceShockPct {
		writeError(w, http.StatusBadRequest, "shock out of range")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	result := simulation.RunSimulation(s.manager.Positions(), core.ScenarioConfig{
		TimeframeDays: days,
		PriceShockPct: shock,
	})

	for i := range result.Steps {
		frame := streamFrame{Type: "step", Step: &result.Steps[i]}
		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(frame); err != nil {
			s.logger.Warn("Websocket write failed", "error", err)
			return
		}
	}

	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := conn.WriteJSON(streamFrame{Type: "totals", Totals: &result.FinalTotals}); err != nil {
		s.logger.Warn("Websocket write failed", "error", err)
		return
	}

	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}
