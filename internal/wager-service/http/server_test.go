package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/betbros/bet-settlement-platform/internal/fixture"
	"github.com/betbros/bet-settlement-platform/internal/wager-service/dto"
	"github.com/betbros/bet-settlement-platform/internal/wager-service/repo"
	"github.com/betbros/bet-settlement-platform/pkg/contracts/events"
)

type fakeStore struct {
	placed     *repo.Wager
	placeErr   error
	status     string
	statusErr  error
	balance    int64
	balanceErr error
}

func (s *fakeStore) PlaceWager(ctx context.Context, w *repo.Wager) (string, int64, error) {
	if s.placeErr != nil {
		return "", 0, s.placeErr
	}
	s.placed = w
	return "wager-1", 900, nil
}

func (s *fakeStore) GetStatus(ctx context.Context, wagerID string) (string, error) {
	return s.status, s.statusErr
}

func (s *fakeStore) GetOrCreateAccount(ctx context.Context, participantID string) (int64, error) {
	return s.balance, s.balanceErr
}

type fakeFeed struct {
	observations []fixture.Observation
	err          error
}

func (f *fakeFeed) FetchToday(ctx context.Context) ([]fixture.Observation, error) {
	return f.observations, f.err
}

type fakePublisher struct {
	published []events.WagerPlaced
}

func (p *fakePublisher) PublishWagerPlaced(ctx context.Context, e events.WagerPlaced) error {
	p.published = append(p.published, e)
	return nil
}

func placeBody(label string) string {
	b, _ := json.Marshal(dto.PlaceWagerRequest{
		ParticipantID:   "alice",
		EventLabel:      label,
		League:          "Premier League",
		SelectedOutcome: "Arsenal",
		PriceMultiplier: 2.5,
		StakeAmount:     100,
	})
	return string(b)
}

func post(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestPlaceWagerUsesFeedCanonicalKey(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{observations: []fixture.Observation{
		{League: "Premier League", Home: "Arsenal FC", Away: "Chelsea FC"},
	}}
	publ := &fakePublisher{}
	srv := NewServer(zap.NewNop(), store, feed, publ)

	rec := post(t, srv, "/wagers", placeBody("Arsenal F.C. vs Chelsea F.C."))
	require.Equal(t, http.StatusOK, rec.Code)

	// chave derivada dos nomes canônicos do feed, não do texto da aposta
	require.NotNil(t, store.placed)
	assert.Equal(t, fixture.DeriveKey("Premier League", "Arsenal FC", "Chelsea FC"), store.placed.FixtureKey)

	var resp dto.PlaceWagerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "wager-1", resp.WagerID)
	assert.Equal(t, "OPEN", resp.Status)
	assert.Equal(t, int64(900), resp.NewBalance)

	require.Len(t, publ.published, 1)
	assert.Equal(t, "wager-1", publ.published[0].WagerID)
}

// Feed fora do ar nunca rejeita uma colocação: cai na chave derivada do texto.
func TestPlaceWagerFeedUnavailableFallsBackToDerivedKey(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{err: errors.New("feed down")}
	srv := NewServer(zap.NewNop(), store, feed, &fakePublisher{})

	rec := post(t, srv, "/wagers", placeBody("Arsenal vs Chelsea"))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, store.placed)
	assert.Equal(t, fixture.DeriveKey("Premier League", "Arsenal", "Chelsea"), store.placed.FixtureKey)
}

// Jogo fora do feed do dia (ou ambíguo) também degrada pra chave derivada.
func TestPlaceWagerNoFeedMatchFallsBackToDerivedKey(t *testing.T) {
	store := &fakeStore{}
	feed := &fakeFeed{observations: []fixture.Observation{
		{League: "Serie A", Home: "Inter", Away: "Milan"},
	}}
	srv := NewServer(zap.NewNop(), store, feed, &fakePublisher{})

	rec := post(t, srv, "/wagers", placeBody("Arsenal vs Chelsea"))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, store.placed)
	assert.Equal(t, fixture.DeriveKey("Premier League", "Arsenal", "Chelsea"), store.placed.FixtureKey)
}

func TestPlaceWagerInsufficientFunds(t *testing.T) {
	store := &fakeStore{placeErr: repo.ErrInsufficientFunds}
	srv := NewServer(zap.NewNop(), store, &fakeFeed{}, &fakePublisher{})

	rec := post(t, srv, "/wagers", placeBody("Arsenal vs Chelsea"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient funds")
}

func TestPlaceWagerMalformedLabelRejected(t *testing.T) {
	store := &fakeStore{}
	srv := NewServer(zap.NewNop(), store, &fakeFeed{}, &fakePublisher{})

	rec := post(t, srv, "/wagers", placeBody("Arsenal x Chelsea"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// nada persistido com label que nunca liquidaria
	assert.Nil(t, store.placed)
}

func TestPlaceWagerInvalidPayload(t *testing.T) {
	srv := NewServer(zap.NewNop(), &fakeStore{}, &fakeFeed{}, &fakePublisher{})

	b, _ := json.Marshal(dto.PlaceWagerRequest{ParticipantID: "alice"})
	rec := post(t, srv, "/wagers", string(b))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, srv, "/wagers", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWagerStatus(t *testing.T) {
	srv := NewServer(zap.NewNop(), &fakeStore{status: "OPEN"}, &fakeFeed{}, &fakePublisher{})

	req := httptest.NewRequest(http.MethodGet, "/wagers/wager-1", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.WagerStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OPEN", resp.Status)
}

func TestGetWagerStatusNotFound(t *testing.T) {
	srv := NewServer(zap.NewNop(), &fakeStore{statusErr: repo.ErrNotFound}, &fakeFeed{}, &fakePublisher{})

	req := httptest.NewRequest(http.MethodGet, "/wagers/missing", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAccountFirstTouch(t *testing.T) {
	srv := NewServer(zap.NewNop(), &fakeStore{balance: 1000}, &fakeFeed{}, &fakePublisher{})

	req := httptest.NewRequest(http.MethodGet, "/accounts/alice", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.ParticipantID)
	assert.Equal(t, int64(1000), resp.Balance)
}
