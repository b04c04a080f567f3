package repository

import (
	"context"
	"fmt"

	"gembot/database"
	"gembot/events"
	"gembot/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the service.UnitOfWork interface, scoping every
// repository to a single pgx transaction. Events published during the
// transaction are buffered and only emitted after commit.
type unitOfWork struct {
	db       *database.DB
	tx       pgx.Tx
	ctx      context.Context
	eventBus *events.TransactionalBus

	balanceRepo     *BalanceRepository
	transactionRepo *TransactionRepository
	settingsRepo    *SettingsRepository
}

// unitOfWorkFactory implements the service.UnitOfWorkFactory interface
type unitOfWorkFactory struct {
	db  *database.DB
	bus *events.Bus
}

// NewUnitOfWorkFactory creates a factory producing transaction-scoped
// units of work
func NewUnitOfWorkFactory(db *database.DB, bus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:  db,
		bus: bus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:       f.db,
		eventBus: events.NewTransactionalBus(f.bus),
	}
}

// Begin starts a new transaction and binds the repositories to it
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("unit of work already started")
	}

	tx, err := u.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.balanceRepo = newBalanceRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)
	u.settingsRepo = newSettingsRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events. The commit
// runs under the Begin context so cancellation and deadlines apply.
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("unit of work not started")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		u.eventBus.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil
	u.eventBus.Flush(u.ctx)

	return nil
}

// Rollback rolls back the transaction and discards buffered events.
// Safe to call after Commit; it becomes a no-op.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.eventBus.Discard()

	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

func (u *unitOfWork) BalanceRepository() service.BalanceRepository {
	if u.balanceRepo == nil {
		panic("unit of work not started")
	}
	return u.balanceRepo
}

func (u *unitOfWork) TransactionRepository() service.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started")
	}
	return u.transactionRepo
}

func (u *unitOfWork) SettingsRepository() service.SettingsRepository {
	if u.settingsRepo == nil {
		panic("unit of work not started")
	}
	return u.settingsRepo
}

func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.eventBus
}
