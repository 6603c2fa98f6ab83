package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler dispara a rodada de liquidação numa cadência fixa e uma vez logo
// após o start (com um atraso curto pra deixar o resto do processo subir).
//
// Fire-and-forget: erro dentro da rodada é logado e o loop segue vivo.
// Rodadas sobrepostas (gatilho manual durante uma rodada agendada) são
// toleradas porque a liquidação é idempotente por aposta.
type Scheduler struct {
	Log          *zap.Logger
	Interval     time.Duration
	StartupDelay time.Duration
	Trigger      func(ctx context.Context) error
}

// Start bloqueia até o contexto ser cancelado.
func (s *Scheduler) Start(ctx context.Context) {
	s.Log.Info("settlement scheduler started",
		zap.Duration("interval", s.Interval),
		zap.Duration("startupDelay", s.StartupDelay),
	)

	// Rodada inicial após o atraso de startup
	startup := time.NewTimer(s.StartupDelay)
	defer startup.Stop()
	select {
	case <-ctx.Done():
		return
	case <-startup.C:
		s.runOnce(ctx, "startup")
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Log.Info("settlement scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx, "interval")
		}
	}
}

// runOnce isola a rodada: panic ou erro nunca derruba o loop de agendamento.
func (s *Scheduler) runOnce(ctx context.Context, cause string) {
	defer func() {
		if r := recover(); r != nil {
			s.Log.Error("settlement run panicked", zap.Any("panic", r))
		}
	}()

	if err := s.Trigger(ctx); err != nil {
		s.Log.Warn("settlement run failed, will retry on next cycle",
			zap.String("cause", cause), zap.Error(err))
	}
}
