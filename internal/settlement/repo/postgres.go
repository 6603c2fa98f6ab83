package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Postgres implementa o wager store e o ledger de contas usados pela liquidação
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	// ErrAlreadySettled: a transição condicional OPEN->terminal não afetou
	// nenhuma linha, ou seja, outra rodada já liquidou essa aposta.
	ErrAlreadySettled = errors.New("wager already settled")
	ErrNotFound       = errors.New("not found")
)

const wagerColumns = `id, fixture_key, participant_id, event_label, league,
	selected_outcome, price_multiplier, stake_amount, status, scheduled_start, created_at, updated_at`

// FindOpenWagers retorna todas as apostas ainda em OPEN, na ordem de criação.
func (p *Postgres) FindOpenWagers(ctx context.Context) ([]Wager, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+wagerColumns+` FROM wagers WHERE status='OPEN' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWagers(rows)
}

// FindOpenByFixture retorna as apostas OPEN de uma fixture específica
// (caminho administrativo de remoção/estorno de evento).
func (p *Postgres) FindOpenByFixture(ctx context.Context, fixtureKey string) ([]Wager, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+wagerColumns+` FROM wagers WHERE status='OPEN' AND fixture_key=$1 ORDER BY created_at`,
		fixtureKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWagers(rows)
}

func scanWagers(rows *sql.Rows) ([]Wager, error) {
	var out []Wager
	for rows.Next() {
		var w Wager
		if err := rows.Scan(&w.ID, &w.FixtureKey, &w.ParticipantID, &w.EventLabel, &w.League,
			&w.SelectedOutcome, &w.PriceMultiplier, &w.StakeAmount, &w.Status,
			&w.ScheduledStart, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// SettleWin marca a aposta como WON e credita o prêmio na conta do
// participante, tudo numa transação só.
//
// A transição condicional (WHERE status='OPEN') é a fronteira de idempotência:
// rodadas sobrepostas podem tentar liquidar a mesma aposta, mas só uma afeta
// a linha; as outras recebem ErrAlreadySettled e não creditam nada.
func (p *Postgres) SettleWin(ctx context.Context, w Wager, payout int64) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := transitionOpen(ctx, tx, w.ID, StatusWon); err != nil {
		return err
	}

	if err := creditAccount(ctx, tx, w.ParticipantID, payout); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO account_ledger(id, participant_id, operation_type, amount, wager_id, description)
		 VALUES($1,$2,'PAYOUT',$3,$4,$5)`,
		uuid.NewString(), w.ParticipantID, payout, w.ID, "payout:"+w.EventLabel); err != nil {
		return err
	}

	return tx.Commit()
}

// SettleLoss marca a aposta como LOST. Sem movimento de saldo: a stake já
// saiu na colocação e não volta.
func (p *Postgres) SettleLoss(ctx context.Context, w Wager) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := transitionOpen(ctx, tx, w.ID, StatusLost); err != nil {
		return err
	}

	return tx.Commit()
}

// Refund devolve a stake e marca REFUNDED (só pelo caminho administrativo
// de remoção de evento, nunca pela liquidação automática).
func (p *Postgres) Refund(ctx context.Context, w Wager) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := transitionOpen(ctx, tx, w.ID, StatusRefunded); err != nil {
		return err
	}

	if err := creditAccount(ctx, tx, w.ParticipantID, w.StakeAmount); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO account_ledger(id, participant_id, operation_type, amount, wager_id, description)
		 VALUES($1,$2,'REFUND',$3,$4,$5)`,
		uuid.NewString(), w.ParticipantID, w.StakeAmount, w.ID, "refund:"+w.EventLabel); err != nil {
		return err
	}

	return tx.Commit()
}

// transitionOpen faz a atualização condicional de status. Zero linhas
// afetadas significa que a aposta já saiu de OPEN em outra rodada.
func transitionOpen(ctx context.Context, tx *sql.Tx, wagerID, newStatus string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE wagers SET status=$1, updated_at=NOW() WHERE id=$2 AND status='OPEN'`,
		newStatus, wagerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadySettled
	}
	return nil
}

// creditAccount incrementa o saldo num único UPDATE (nunca read-modify-write).
// Conta inexistente é criada com saldo inicial antes do crédito.
func creditAccount(ctx context.Context, tx *sql.Tx, participantID string, amount int64) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts(participant_id, balance) VALUES($1, 1000)
		 ON CONFLICT (participant_id) DO NOTHING`, participantID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1, updated_at=NOW() WHERE participant_id=$2`,
		amount, participantID)
	return err
}
