package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/betbros/bet-settlement-platform/internal/fixture"
	"github.com/betbros/bet-settlement-platform/internal/settlement/repo"
	"github.com/betbros/bet-settlement-platform/pkg/contracts/events"
)

// WagerStore é o que a liquidação precisa do armazenamento de apostas.
// As três transições devolvem repo.ErrAlreadySettled quando a aposta já saiu
// de OPEN em outra rodada; isso é no-op, não falha.
type WagerStore interface {
	FindOpenWagers(ctx context.Context) ([]repo.Wager, error)
	FindOpenByFixture(ctx context.Context, fixtureKey string) ([]repo.Wager, error)
	SettleWin(ctx context.Context, w repo.Wager, payout int64) error
	SettleLoss(ctx context.Context, w repo.Wager) error
	Refund(ctx context.Context, w repo.Wager) error
}

// Feed fornece as partidas do dia (uma chamada por rodada de liquidação).
type Feed interface {
	FetchToday(ctx context.Context) ([]fixture.Observation, error)
}

// Notifier posta uma mensagem legível no canal de chat. Best-effort: falha é
// logada e nunca desfaz nem re-tenta a liquidação.
type Notifier interface {
	Post(ctx context.Context, message string) error
}

// Publisher emite os eventos Kafka de liquidação.
type Publisher interface {
	PublishWagerSettled(ctx context.Context, e events.WagerSettled) error
	PublishFixtureSettled(ctx context.Context, e events.FixtureSettled) error
}

// RunSummary é o resultado de uma rodada de liquidação.
type RunSummary struct {
	FixturesConsidered int `json:"fixtures_considered"`
	FixturesSettled    int `json:"fixtures_settled"`
	WagersSettled      int `json:"wagers_settled"`
}

// Engine liquida apostas abertas contra o feed de resultados.
// Callbacks de métricas seguem o mesmo modelo dos workers: o main registra
// counters Prometheus e pluga incrementos aqui.
type Engine struct {
	Log      *zap.Logger
	Store    WagerStore
	Feed     Feed
	Notifier Notifier  // opcional
	Producer Publisher // opcional

	OnWagerSettled   func()       // métricas (counter++)
	OnFixtureSettled func()       // métricas
	OnSkip           func(string) // métricas por motivo de skip
	OnError          func(string) // métricas por fase
}

// Run executa uma rodada completa: busca o feed uma vez, agrupa as apostas
// abertas por fixture e liquida cada grupo de forma isolada.
//
// Seguro de chamar a qualquer momento e de forma concorrente: a transição
// condicional por aposta no store garante que rodadas sobrepostas nunca
// creditam duas vezes.
func (e *Engine) Run(ctx context.Context) (RunSummary, error) {
	var summary RunSummary

	open, err := e.Store.FindOpenWagers(ctx)
	if err != nil {
		e.errCount("load_wagers")
		return summary, fmt.Errorf("load open wagers: %w", err)
	}
	if len(open) == 0 {
		e.Log.Info("no open wagers to settle")
		return summary, nil
	}

	// Agrupa por identidade de fixture (chave opaca atribuída na colocação)
	groups := make(map[string][]repo.Wager)
	var order []string
	for _, w := range open {
		if _, ok := groups[w.FixtureKey]; !ok {
			order = append(order, w.FixtureKey)
		}
		groups[w.FixtureKey] = append(groups[w.FixtureKey], w)
	}
	e.Log.Info("settlement run started",
		zap.Int("openWagers", len(open)),
		zap.Int("fixtures", len(groups)),
	)

	// Uma chamada externa por rodada. Feed indisponível aborta a rodada
	// inteira: tudo fica OPEN e a próxima rodada tenta de novo.
	observations, err := e.Feed.FetchToday(ctx)
	if err != nil {
		e.errCount("feed")
		return summary, fmt.Errorf("fetch fixtures: %w", err)
	}

	for _, key := range order {
		group := groups[key]
		summary.FixturesConsidered++

		settled, winners, result, obs := e.settleGroup(ctx, group, observations)
		if settled == 0 {
			continue
		}

		summary.FixturesSettled++
		summary.WagersSettled += settled
		if e.OnFixtureSettled != nil {
			e.OnFixtureSettled()
		}

		e.announce(ctx, group[0], obs, result, settled, winners)
	}

	e.Log.Info("settlement run finished",
		zap.Int("fixturesConsidered", summary.FixturesConsidered),
		zap.Int("fixturesSettled", summary.FixturesSettled),
		zap.Int("wagersSettled", summary.WagersSettled),
	)
	return summary, nil
}

// settleGroup tenta liquidar um grupo de apostas da mesma fixture.
// Qualquer condição que impeça a decisão (label malformado, zero ou mais de
// um candidato no feed, partida não encerrada) pula o grupo pra próxima
// rodada sem tocar em nenhuma aposta.
func (e *Engine) settleGroup(ctx context.Context, group []repo.Wager, observations []fixture.Observation) (settled, winners int, result string, obs fixture.Observation) {
	label := group[0].EventLabel

	home, away, err := fixture.ParseEventLabel(label)
	if err != nil {
		// Nunca se resolve sozinho: precisa de correção administrativa do label
		e.Log.Error("malformed event label, group needs manual fix",
			zap.String("eventLabel", label),
			zap.String("fixtureKey", group[0].FixtureKey),
		)
		e.skip("malformed_label")
		return 0, 0, "", fixture.Observation{}
	}

	obs, err = fixture.FindFixture(observations, home, away)
	if err != nil {
		if errors.Is(err, fixture.ErrAmbiguousMatch) {
			e.Log.Warn("ambiguous fixture match, refusing to guess",
				zap.String("eventLabel", label))
			e.skip("ambiguous_match")
		} else {
			e.Log.Info("no fixture found in feed for group",
				zap.String("eventLabel", label))
			e.skip("no_match")
		}
		return 0, 0, "", fixture.Observation{}
	}

	result, err = fixture.ResolveOutcome(obs, home, away)
	if err != nil {
		e.Log.Info("fixture not ready for settlement",
			zap.String("eventLabel", label),
			zap.String("status", obs.Status),
		)
		e.skip("not_finished")
		return 0, 0, "", fixture.Observation{}
	}

	e.Log.Info("resolving fixture",
		zap.String("eventLabel", label),
		zap.String("result", result),
		zap.Intp("homeScore", obs.HomeScore),
		zap.Intp("awayScore", obs.AwayScore),
	)

	// Cada aposta é isolada: falha de persistência em uma não impede as
	// seguintes; a que falhou continua OPEN pra próxima rodada.
	for _, w := range group {
		won := fixture.IsWinningSelection(w.SelectedOutcome, result)
		var serr error
		var payout int64
		if won {
			payout = Payout(w.StakeAmount, w.PriceMultiplier)
			serr = e.Store.SettleWin(ctx, w, payout)
		} else {
			serr = e.Store.SettleLoss(ctx, w)
		}

		if errors.Is(serr, repo.ErrAlreadySettled) {
			// outra rodada chegou primeiro; nada a fazer
			continue
		}
		if serr != nil {
			e.Log.Error("wager settle failed, left open for retry",
				zap.String("wagerId", w.ID), zap.Error(serr))
			e.errCount("persist")
			continue
		}

		settled++
		if won {
			winners++
		}
		if e.OnWagerSettled != nil {
			e.OnWagerSettled()
		}
		e.publishWagerSettled(ctx, w, won, payout)
	}

	return settled, winners, result, obs
}

// RefundFixture estorna todas as apostas abertas de uma fixture (remoção
// administrativa de evento). Cada participante recebe de volta exatamente a
// própria stake; nenhum vencedor/perdedor é definido.
func (e *Engine) RefundFixture(ctx context.Context, fixtureKey string) (int, error) {
	group, err := e.Store.FindOpenByFixture(ctx, fixtureKey)
	if err != nil {
		e.errCount("load_wagers")
		return 0, fmt.Errorf("load wagers for fixture %s: %w", fixtureKey, err)
	}

	refunded := 0
	for _, w := range group {
		err := e.Store.Refund(ctx, w)
		if errors.Is(err, repo.ErrAlreadySettled) {
			continue
		}
		if err != nil {
			e.Log.Error("wager refund failed, left open for retry",
				zap.String("wagerId", w.ID), zap.Error(err))
			e.errCount("persist")
			continue
		}
		refunded++
		if e.OnWagerSettled != nil {
			e.OnWagerSettled()
		}
		if e.Producer != nil {
			perr := e.Producer.PublishWagerSettled(ctx, events.WagerSettled{
				WagerID:       w.ID,
				ParticipantID: w.ParticipantID,
				FixtureKey:    w.FixtureKey,
				Status:        repo.StatusRefunded,
				Payout:        w.StakeAmount,
				Ts:            time.Now(),
			})
			if perr != nil {
				e.Log.Warn("publish wager_settled failed", zap.Error(perr))
			}
		}
	}

	e.Log.Info("fixture refunded",
		zap.String("fixtureKey", fixtureKey),
		zap.Int("wagersRefunded", refunded),
	)
	return refunded, nil
}

// Payout arredonda stake*multiplicador pro inteiro mais próximo.
func Payout(stake int64, price float64) int64 {
	return int64(math.Round(float64(stake) * price))
}

// announce publica o evento fixture_settled e a mensagem de canal.
// Ambos best-effort: a liquidação já aconteceu e não volta atrás.
func (e *Engine) announce(ctx context.Context, sample repo.Wager, obs fixture.Observation, result string, settled, winners int) {
	if e.Producer != nil {
		err := e.Producer.PublishFixtureSettled(ctx, events.FixtureSettled{
			FixtureKey:    sample.FixtureKey,
			EventLabel:    sample.EventLabel,
			HomeScore:     *obs.HomeScore,
			AwayScore:     *obs.AwayScore,
			Result:        result,
			WagersSettled: settled,
			Winners:       winners,
			Ts:            time.Now(),
		})
		if err != nil {
			e.Log.Warn("publish fixture_settled failed", zap.Error(err))
		}
	}

	if e.Notifier != nil {
		outcome := "Winner: " + result
		if result == fixture.ResultDraw {
			outcome = "Result: draw"
		}
		msg := fmt.Sprintf("Match settled! %s %d-%d %s | %s | %d wagers settled, %d winners",
			obs.Home, *obs.HomeScore, *obs.AwayScore, obs.Away, outcome, settled, winners)
		if err := e.Notifier.Post(ctx, msg); err != nil {
			e.Log.Warn("channel notification failed", zap.Error(err))
		}
	}
}

func (e *Engine) publishWagerSettled(ctx context.Context, w repo.Wager, won bool, payout int64) {
	if e.Producer == nil {
		return
	}
	status := repo.StatusLost
	if won {
		status = repo.StatusWon
	}
	err := e.Producer.PublishWagerSettled(ctx, events.WagerSettled{
		WagerID:       w.ID,
		ParticipantID: w.ParticipantID,
		FixtureKey:    w.FixtureKey,
		Status:        status,
		Payout:        payout,
		Ts:            time.Now(),
	})
	if err != nil {
		e.Log.Warn("publish wager_settled failed", zap.Error(err))
	}
}

func (e *Engine) skip(reason string) {
	if e.OnSkip != nil {
		e.OnSkip(reason)
	}
}

func (e *Engine) errCount(stage string) {
	if e.OnError != nil {
		e.OnError(stage)
	}
}
