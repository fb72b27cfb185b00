package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Albaranes-api/internal/application/auth"
	"github.com/jhoicas/Albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
)

// Ensure TxRunner implements deliverynote.TxRunner and auth.TxRunner.
var _ deliverynote.TxRunner = (*TxRunner)(nil)
var _ auth.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunNumbering inicia una transacción con el contador y el repo de albaranes (alta numerada).
func (r *TxRunner) RunNumbering(ctx context.Context, fn func(
	counters repository.CounterRepository,
	notes repository.DeliveryNoteRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCounterRepository(tx), NewDeliveryNoteRepository(tx))
	})
}

// RunAuth inicia una transacción con los repos de cuentas (invitaciones, alta de compañía).
func (r *TxRunner) RunAuth(ctx context.Context, fn func(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	invitations repository.InvitationRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewCompanyRepository(tx), NewInvitationRepository(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
