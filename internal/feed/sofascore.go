package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/betbros/bet-settlement-platform/internal/fixture"
)

// ErrFeedUnavailable cobre falha de transporte, status HTTP e parse do feed.
// Pro chamador significa "tenta no próximo ciclo", nunca "não há partidas".
var ErrFeedUnavailable = errors.New("fixture feed unavailable")

// Client consome a API pública de partidas agendadas por dia
// (formato SofaScore: /sport/football/scheduled-events/{YYYY-MM-DD}).
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		UserAgent: "Mozilla/5.0 (compatible; BetBrosBot/1.0)",
		HTTP:      &http.Client{Timeout: timeout},
	}
}

// Payload semi-estruturado do feed; só os campos que interessam, todos
// opcionais porque o provedor não garante nada.
type feedResponse struct {
	Events []struct {
		Tournament struct {
			Name string `json:"name"`
		} `json:"tournament"`
		HomeTeam struct {
			Name string `json:"name"`
		} `json:"homeTeam"`
		AwayTeam struct {
			Name string `json:"name"`
		} `json:"awayTeam"`
		HomeScore struct {
			Current *int `json:"current"`
		} `json:"homeScore"`
		AwayScore struct {
			Current *int `json:"current"`
		} `json:"awayScore"`
		Status struct {
			Type string `json:"type"`
		} `json:"status"`
		StartTimestamp int64 `json:"startTimestamp"`
	} `json:"events"`
}

// FetchToday retorna as partidas do dia corrente (UTC).
func (c *Client) FetchToday(ctx context.Context) ([]fixture.Observation, error) {
	return c.FetchDay(ctx, time.Now().UTC())
}

// FetchDay busca todas as partidas conhecidas do dia informado.
// Qualquer falha vira ErrFeedUnavailable; o lote inteiro aborta e as apostas
// ficam abertas pra próxima rodada.
func (c *Client) FetchDay(ctx context.Context, day time.Time) ([]fixture.Observation, error) {
	url := fmt.Sprintf("%s/sport/football/scheduled-events/%s", c.BaseURL, day.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http %d", ErrFeedUnavailable, res.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrFeedUnavailable, err)
	}

	observations := make([]fixture.Observation, 0, len(body.Events))
	for _, ev := range body.Events {
		if ev.HomeTeam.Name == "" || ev.AwayTeam.Name == "" {
			continue // entrada inútil pra liquidação
		}
		observations = append(observations, fixture.Observation{
			League:    ev.Tournament.Name,
			Home:      ev.HomeTeam.Name,
			Away:      ev.AwayTeam.Name,
			HomeScore: ev.HomeScore.Current,
			AwayScore: ev.AwayScore.Current,
			Status:    normalizeStatus(ev.Status.Type),
			StartTime: time.Unix(ev.StartTimestamp, 0).UTC(),
		})
	}

	return observations, nil
}

// normalizeStatus traduz o vocabulário do provedor pro nosso.
// Valores desconhecidos passam em caixa alta, nunca viram FINISHED.
func normalizeStatus(raw string) string {
	switch strings.ToLower(raw) {
	case "notstarted", "scheduled":
		return fixture.StatusScheduled
	case "inprogress":
		return fixture.StatusInProgress
	case "finished":
		return fixture.StatusFinished
	default:
		return strings.ToUpper(raw)
	}
}
