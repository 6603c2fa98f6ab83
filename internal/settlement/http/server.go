package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/betbros/bet-settlement-platform/internal/settlement/engine"
)

// Runner é o que o servidor admin precisa do engine: o mesmo ponto de
// entrada do agendador, chamado de forma síncrona pela ação privilegiada.
type Runner interface {
	Run(ctx context.Context) (engine.RunSummary, error)
	RefundFixture(ctx context.Context, fixtureKey string) (int, error)
}

type Server struct {
	log   *zap.Logger
	eng   Runner
	token string // vazio = sem auth (uso local)
}

func NewServer(log *zap.Logger, eng Runner, token string) *Server {
	return &Server{log: log, eng: eng, token: token}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/settlement/run", s.runNow)  // POST
	mux.HandleFunc("/admin/fixtures/refund", s.refund) // POST
	return mux
}

// runNow dispara uma rodada de liquidação imediata e devolve o resumo.
func (s *Server) runNow(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r) {
		return
	}

	summary, err := s.eng.Run(r.Context())
	if err != nil {
		// tipicamente feed indisponível; mensagem curta pro admin
		s.log.Warn("manual settlement run failed", zap.Error(err))
		http.Error(w, "settlement run failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, summary)
}

type refundRequest struct {
	FixtureKey string `json:"fixtureKey"`
}

type refundResponse struct {
	FixtureKey     string `json:"fixtureKey"`
	WagersRefunded int    `json:"wagersRefunded"`
}

// refund remove um evento: estorna a stake de toda aposta aberta da fixture.
func (s *Server) refund(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r) {
		return
	}

	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FixtureKey == "" {
		http.Error(w, "fixtureKey required", http.StatusBadRequest)
		return
	}

	n, err := s.eng.RefundFixture(r.Context(), req.FixtureKey)
	if err != nil {
		http.Error(w, "refund failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, refundResponse{FixtureKey: req.FixtureKey, WagersRefunded: n})
}

func (s *Server) allow(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if s.token != "" {
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if got != s.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
