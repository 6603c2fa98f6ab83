package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Postgres implementa colocação de apostas e consulta de contas em banco
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
)

// saldo inicial de participante novo
const startingBalance = 1000

// GetOrCreateAccount retorna o saldo de um participante, criando a conta com o
// saldo inicial se não existir. O upsert idempotente garante que duas
// primeiras requisições concorrentes não colidem na chave primária.
func (p *Postgres) GetOrCreateAccount(ctx context.Context, participantID string) (balance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO accounts(participant_id, balance) VALUES($1,$2)
		 ON CONFLICT (participant_id) DO NOTHING`,
		participantID, startingBalance); err != nil {
		return 0, err
	}

	var bal int64
	if err = tx.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE participant_id=$1`, participantID).Scan(&bal); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return bal, nil
}

// PlaceWager debita a stake e insere a aposta em OPEN numa transação só.
// Lock pessimista na linha da conta: o débito nunca é read-modify-write solto.
func (p *Postgres) PlaceWager(ctx context.Context, w *Wager) (id string, newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	// Garante a conta antes do lock
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO accounts(participant_id, balance) VALUES($1,$2)
		 ON CONFLICT (participant_id) DO NOTHING`,
		w.ParticipantID, startingBalance); err != nil {
		return "", 0, err
	}

	var balance int64
	if err = tx.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE participant_id=$1 FOR UPDATE`,
		w.ParticipantID).Scan(&balance); err != nil {
		return "", 0, err
	}

	if balance < w.StakeAmount {
		return "", 0, ErrInsufficientFunds
	}

	if err = tx.QueryRowContext(ctx,
		`UPDATE accounts SET balance = balance - $1, updated_at=NOW() WHERE participant_id=$2
		 RETURNING balance`,
		w.StakeAmount, w.ParticipantID).Scan(&newBalance); err != nil {
		return "", 0, err
	}

	id = uuid.NewString()
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO wagers (id, fixture_key, participant_id, event_label, league,
			selected_outcome, price_multiplier, stake_amount, status, scheduled_start)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'OPEN',$9)`,
		id, w.FixtureKey, w.ParticipantID, w.EventLabel, w.League,
		w.SelectedOutcome, w.PriceMultiplier, w.StakeAmount, w.ScheduledStart); err != nil {
		return "", 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO account_ledger(id, participant_id, operation_type, amount, wager_id, description)
		 VALUES($1,$2,'STAKE',$3,$4,$5)`,
		uuid.NewString(), w.ParticipantID, w.StakeAmount, id, "stake:"+w.EventLabel); err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return id, newBalance, nil
}

// GetStatus retorna o status atual de uma aposta pelo id
func (p *Postgres) GetStatus(ctx context.Context, wagerID string) (string, error) {
	var s string
	err := p.db.QueryRowContext(ctx, `SELECT status FROM wagers WHERE id=$1`, wagerID).Scan(&s)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return s, err
}
