package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/betbros/bet-settlement-platform/internal/fixture"
	"github.com/betbros/bet-settlement-platform/internal/wager-service/dto"
	"github.com/betbros/bet-settlement-platform/internal/wager-service/repo"
	"github.com/betbros/bet-settlement-platform/pkg/contracts/events"
)

// Feed é usado só pra resolver a fixtureKey na colocação.
type Feed interface {
	FetchToday(ctx context.Context) ([]fixture.Observation, error)
}

// Store é o que os handlers precisam do repositório de colocação.
type Store interface {
	PlaceWager(ctx context.Context, w *repo.Wager) (id string, newBalance int64, err error)
	GetStatus(ctx context.Context, wagerID string) (string, error)
	GetOrCreateAccount(ctx context.Context, participantID string) (int64, error)
}

type Server struct {
	log  *zap.Logger
	repo Store
	feed Feed
	publ interface {
		PublishWagerPlaced(context.Context, events.WagerPlaced) error
	}
}

func NewServer(log *zap.Logger, r Store, f Feed, p interface {
	PublishWagerPlaced(context.Context, events.WagerPlaced) error
}) *Server {
	return &Server{log: log, repo: r, feed: f, publ: p}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wagers", s.placeWager)      // POST
	mux.HandleFunc("/wagers/", s.getWagerStatus) // GET /wagers/{id}
	mux.HandleFunc("/accounts/", s.getAccount)   // GET /accounts/{participantId}
	return mux
}

func (s *Server) placeWager(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PlaceWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.ParticipantID == "" || req.EventLabel == "" || req.League == "" ||
		req.SelectedOutcome == "" || req.StakeAmount <= 0 || req.PriceMultiplier < 1 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	// 1) Label tem que parsear já na colocação; malformado aqui nunca
	// liquidaria sozinho depois
	home, away, err := fixture.ParseEventLabel(req.EventLabel)
	if err != nil {
		http.Error(w, "eventLabel must be '<home> vs <away>'", http.StatusBadRequest)
		return
	}

	// 2) Resolve a fixtureKey contra o feed agora, não na liquidação
	key := s.resolveFixtureKey(r.Context(), req.League, home, away)

	// 3) Debita stake e insere a aposta OPEN atomicamente
	wagerID, newBalance, err := s.repo.PlaceWager(r.Context(), &repo.Wager{
		FixtureKey:      key,
		ParticipantID:   req.ParticipantID,
		EventLabel:      req.EventLabel,
		League:          req.League,
		SelectedOutcome: req.SelectedOutcome,
		PriceMultiplier: req.PriceMultiplier,
		StakeAmount:     req.StakeAmount,
		ScheduledStart:  req.ScheduledStart,
	})
	if err != nil {
		if errors.Is(err, repo.ErrInsufficientFunds) {
			http.Error(w, "insufficient funds", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// 4) Publica evento wager_placed
	_ = s.publ.PublishWagerPlaced(r.Context(), events.WagerPlaced{
		WagerID:         wagerID,
		ParticipantID:   req.ParticipantID,
		FixtureKey:      key,
		EventLabel:      req.EventLabel,
		League:          req.League,
		SelectedOutcome: req.SelectedOutcome,
		StakeAmount:     req.StakeAmount,
		PriceMultiplier: req.PriceMultiplier,
	})

	writeJSON(w, dto.PlaceWagerResponse{
		WagerID:    wagerID,
		FixtureKey: key,
		Status:     "OPEN",
		NewBalance: newBalance,
	})
}

// resolveFixtureKey tenta casar o evento com o feed do dia e derivar a chave
// dos nomes canônicos do feed; assim dois labels escritos diferente pro mesmo
// jogo caem na mesma chave. Sem resolução (feed fora, jogo de outro dia,
// ambiguidade), degrada pra chave derivada do texto da aposta — a colocação
// nunca é rejeitada por causa do feed.
func (s *Server) resolveFixtureKey(ctx context.Context, league, home, away string) string {
	observations, err := s.feed.FetchToday(ctx)
	if err != nil {
		s.log.Warn("feed unavailable at placement, falling back to derived key", zap.Error(err))
		return fixture.DeriveKey(league, home, away)
	}

	obs, err := fixture.FindFixture(observations, home, away)
	if err != nil {
		return fixture.DeriveKey(league, home, away)
	}

	return fixture.DeriveKey(obs.League, obs.Home, obs.Away)
}

func (s *Server) getWagerStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// path: /wagers/{id}
	id := r.URL.Path[len("/wagers/"):]
	if id == "" {
		http.Error(w, "wagerId required", http.StatusBadRequest)
		return
	}

	st, err := s.repo.GetStatus(r.Context(), id)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, dto.WagerStatusResponse{WagerID: id, Status: st})
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// path: /accounts/{participantId}
	id := r.URL.Path[len("/accounts/"):]
	if id == "" {
		http.Error(w, "participantId required", http.StatusBadRequest)
		return
	}

	balance, err := s.repo.GetOrCreateAccount(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, dto.AccountResponse{ParticipantID: id, Balance: balance})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
