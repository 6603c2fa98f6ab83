package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/betbros/bet-settlement-platform/internal/fixture"
)

// Fetcher é o contrato mínimo do feed visto pelos consumidores.
type Fetcher interface {
	FetchToday(ctx context.Context) ([]fixture.Observation, error)
}

// CachedFeed guarda a lista do dia no Redis com TTL curto, pra limitar o
// volume de chamadas externas quando rodadas sobrepostas (ou o wager-service
// resolvendo fixtureKey) pedem o mesmo dia.
type CachedFeed struct {
	Inner  Fetcher
	Client *redis.Client
	TTL    time.Duration
}

func NewCachedFeed(inner Fetcher, c *redis.Client, ttl time.Duration) *CachedFeed {
	return &CachedFeed{Inner: inner, Client: c, TTL: ttl}
}

// key gera a chave Redis das partidas do dia
func key(day time.Time) string { return "fixtures:today:" + day.Format("2006-01-02") }

func (f *CachedFeed) FetchToday(ctx context.Context) ([]fixture.Observation, error) {
	k := key(time.Now().UTC())

	if raw, err := f.Client.Get(ctx, k).Bytes(); err == nil {
		var cached []fixture.Observation
		if jerr := json.Unmarshal(raw, &cached); jerr == nil {
			return cached, nil
		}
		// cache corrompido: ignora e busca de novo
	}

	observations, err := f.Inner.FetchToday(ctx)
	if err != nil {
		return nil, err
	}

	if b, jerr := json.Marshal(observations); jerr == nil {
		// cache é otimização; falha aqui não derruba o lote
		_ = f.Client.Set(ctx, k, b, f.TTL).Err()
	}

	return observations, nil
}
