package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gembot/events"
	"gembot/models"
	"gembot/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ledgerService implements the LedgerService interface
type ledgerService struct {
	uowFactory UnitOfWorkFactory
	limits     LimitPolicy
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, limits LimitPolicy) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		limits:     limits,
	}
}

// GetBalance returns the account, creating a zero-balance record if absent
func (s *ledgerService) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id must not be empty", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback() // No-op if already committed

	balance, err := s.getOrCreate(ctx, uow, userID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return balance, nil
}

// getOrCreate fetches the balance row, lazily creating a zero-balance
// account with its account_created marker transaction.
func (s *ledgerService) getOrCreate(ctx context.Context, uow UnitOfWork, userID string) (*models.Balance, error) {
	balance, err := uow.BalanceRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to get balance for user %s: %w", userID, err))
	}
	if balance != nil {
		return balance, nil
	}

	balance, created, err := uow.BalanceRepository().Create(ctx, userID)
	if err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to create account for user %s: %w", userID, err))
	}

	if created {
		marker := &models.Transaction{
			UserID: userID,
			Type:   models.TransactionTypeAccountCreated,
			Amount: 0,
			Reason: "account created",
			Source: models.SourceSystem,
		}
		if err := uow.TransactionRepository().Append(ctx, marker); err != nil {
			return nil, classifyStorageErr(fmt.Errorf("failed to record account creation for user %s: %w", userID, err))
		}
		uow.EventBus().Publish(events.AccountCreatedEvent{UserID: userID})
	}

	return balance, nil
}

// Credit increases a balance after validation and the daily earn cap check
func (s *ledgerService) Credit(ctx context.Context, req CreditRequest) (*models.Balance, error) {
	if req.Type == "" {
		req.Type = models.TransactionTypeEarned
	}
	if err := validateCredit(req); err != nil {
		observability.LedgerOperations.WithLabelValues("credit", "invalid").Inc()
		return nil, err
	}

	// The daily cap applies to earned credits only; bonuses and admin
	// grants are exempt by type, and system bonuses of type earned must
	// carry the explicit bypass flag. The limit settings load before the
	// unit of work starts: the settings read takes its own pooled
	// connection, and acquiring it while already holding one can exhaust
	// the pool under concurrency.
	enforceEarnCap := req.Type == models.TransactionTypeEarned && !req.BypassDailyLimit
	var earnLimit EarnLimit
	if enforceEarnCap {
		var err error
		earnLimit, err = s.limits.LoadEarnLimit(ctx)
		if err != nil {
			return nil, err
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	before, err := s.getOrCreate(ctx, uow, req.UserID)
	if err != nil {
		return nil, err
	}

	if enforceEarnCap {
		if err := s.limits.CheckEarn(ctx, uow.TransactionRepository(), req.UserID, req.Amount, earnLimit); err != nil {
			if errors.Is(err, ErrDailyLimitExceeded) {
				observability.LimitRejections.WithLabelValues("daily_earn").Inc()
			}
			return nil, err
		}
	}

	after, err := uow.BalanceRepository().Credit(ctx, req.UserID, req.Amount)
	if err != nil {
		observability.LedgerOperations.WithLabelValues("credit", "error").Inc()
		return nil, classifyStorageErr(fmt.Errorf("failed to credit user %s: %w", req.UserID, err))
	}

	metadata := req.Metadata
	if req.BypassDailyLimit {
		// Auditable trace of every cap bypass, written to a copy so the
		// caller's map is left untouched
		annotated := make(map[string]any, len(metadata)+1)
		for k, v := range metadata {
			annotated[k] = v
		}
		annotated["bypass_daily_limit"] = true
		metadata = annotated
	}

	tx := &models.Transaction{
		UserID:   req.UserID,
		Type:     req.Type,
		Amount:   req.Amount,
		Reason:   req.Reason,
		Source:   req.Source,
		Metadata: metadata,
	}
	if err := recordTransaction(ctx, uow, tx, before.Balance, after.Balance); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	observability.LedgerOperations.WithLabelValues("credit", "ok").Inc()
	return after, nil
}

// Debit decreases a balance, failing atomically on insufficient funds
func (s *ledgerService) Debit(ctx context.Context, req DebitRequest) (*models.Balance, error) {
	if req.Type == "" {
		req.Type = models.TransactionTypeSpent
	}
	if err := validateDebit(req); err != nil {
		observability.LedgerOperations.WithLabelValues("debit", "invalid").Inc()
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	before, err := s.getOrCreate(ctx, uow, req.UserID)
	if err != nil {
		return nil, err
	}

	after, err := uow.BalanceRepository().Debit(ctx, req.UserID, req.Amount)
	if err != nil {
		var insufficient *InsufficientFundsError
		if errors.As(err, &insufficient) {
			observability.LedgerOperations.WithLabelValues("debit", "insufficient_funds").Inc()
			return nil, err
		}
		observability.LedgerOperations.WithLabelValues("debit", "error").Inc()
		return nil, classifyStorageErr(fmt.Errorf("failed to debit user %s: %w", req.UserID, err))
	}

	tx := &models.Transaction{
		UserID:   req.UserID,
		Type:     req.Type,
		Amount:   req.Amount,
		Reason:   req.Reason,
		Source:   req.Source,
		Metadata: req.Metadata,
	}
	if err := recordTransaction(ctx, uow, tx, before.Balance, after.Balance); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	observability.LedgerOperations.WithLabelValues("debit", "ok").Inc()
	return after, nil
}

// Transfer moves amount between two accounts. Both legs run inside one
// unit of work, so the debit can never commit without the credit; the two
// transactions share a transfer id for reconciliation.
func (s *ledgerService) Transfer(ctx context.Context, fromUserID, toUserID string, amount int64, reason string) (*models.TransferResult, error) {
	if fromUserID == "" || toUserID == "" {
		return nil, fmt.Errorf("%w: user ids must not be empty", ErrInvalidInput)
	}
	if fromUserID == toUserID {
		return nil, fmt.Errorf("%w: %s", ErrSameAccount, fromUserID)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive, got %d", ErrInvalidInput, amount)
	}
	if err := validateReason(reason); err != nil {
		return nil, err
	}

	// Loaded before the unit of work starts so the settings read never
	// waits for a second pooled connection under an open transaction
	transferLimit, err := s.limits.LoadTransferLimit(ctx)
	if err != nil {
		return nil, err
	}

	transferID := uuid.NewString()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	fromBefore, err := s.getOrCreate(ctx, uow, fromUserID)
	if err != nil {
		return nil, err
	}
	toBefore, err := s.getOrCreate(ctx, uow, toUserID)
	if err != nil {
		return nil, err
	}

	if err := s.limits.CheckTransfer(ctx, uow.TransactionRepository(), fromUserID, amount, transferLimit); err != nil {
		if errors.Is(err, ErrTransferLimitExceeded) {
			observability.LimitRejections.WithLabelValues("transfer").Inc()
		}
		return nil, err
	}

	fromAfter, err := uow.BalanceRepository().Debit(ctx, fromUserID, amount)
	if err != nil {
		var insufficient *InsufficientFundsError
		if errors.As(err, &insufficient) {
			observability.LedgerOperations.WithLabelValues("transfer", "insufficient_funds").Inc()
			return nil, err
		}
		observability.LedgerOperations.WithLabelValues("transfer", "error").Inc()
		return nil, classifyStorageErr(fmt.Errorf("failed to debit sender %s: %w", fromUserID, err))
	}

	toAfter, err := uow.BalanceRepository().Credit(ctx, toUserID, amount)
	if err != nil {
		// The rollback undoes the debit leg. If the rollback itself fails
		// the debit may be committed without its credit: escalate.
		if rbErr := uow.Rollback(); rbErr != nil {
			partial := &PartialTransferError{
				TransferID: transferID,
				FromUserID: fromUserID,
				ToUserID:   toUserID,
				Amount:     amount,
				Err:        fmt.Errorf("credit failed (%v), rollback failed (%v)", err, rbErr),
			}
			log.WithFields(log.Fields{
				"transferID": transferID,
				"from":       fromUserID,
				"to":         toUserID,
				"amount":     amount,
			}).WithError(partial).Error("Transfer left partial state, reconciliation required")
			observability.LedgerOperations.WithLabelValues("transfer", "partial").Inc()
			return nil, partial
		}
		observability.LedgerOperations.WithLabelValues("transfer", "error").Inc()
		return nil, classifyStorageErr(fmt.Errorf("failed to credit recipient %s: %w", toUserID, err))
	}

	fromTx := &models.Transaction{
		UserID:        fromUserID,
		Type:          models.TransactionTypeSpent,
		Amount:        amount,
		Reason:        reason,
		Source:        models.SourceTip,
		RelatedUserID: &toUserID,
		TransferID:    &transferID,
	}
	if err := recordTransaction(ctx, uow, fromTx, fromBefore.Balance, fromAfter.Balance); err != nil {
		return nil, err
	}

	toTx := &models.Transaction{
		UserID:        toUserID,
		Type:          models.TransactionTypeEarned,
		Amount:        amount,
		Reason:        reason,
		Source:        models.SourceTip,
		RelatedUserID: &fromUserID,
		TransferID:    &transferID,
	}
	if err := recordTransaction(ctx, uow, toTx, toBefore.Balance, toAfter.Balance); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.TransferCompletedEvent{
		TransferID: transferID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Amount:     amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	observability.LedgerOperations.WithLabelValues("transfer", "ok").Inc()
	observability.TransferAmount.Observe(float64(amount))

	return &models.TransferResult{
		TransferID:  transferID,
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		Amount:      amount,
		FromBalance: fromAfter.Balance,
		ToBalance:   toAfter.Balance,
	}, nil
}

// History returns an account's transactions, newest first
func (s *ledgerService) History(ctx context.Context, userID string, filter models.HistoryFilter) ([]*models.Transaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id must not be empty", ErrInvalidInput)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, filter.Type)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	transactions, err := uow.TransactionRepository().GetByUser(ctx, userID, filter)
	if err != nil {
		return nil, classifyStorageErr(fmt.Errorf("failed to get history for user %s: %w", userID, err))
	}

	return transactions, nil
}

// ResetAccount removes an account and its standing (admin only)
func (s *ledgerService) ResetAccount(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id must not be empty", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	if err := uow.BalanceRepository().Delete(ctx, userID); err != nil {
		return classifyStorageErr(fmt.Errorf("failed to reset account %s: %w", userID, err))
	}

	if err := uow.Commit(); err != nil {
		return classifyStorageErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	log.WithField("userID", userID).Info("Account reset")
	return nil
}

// PruneTransactionsBefore deletes ledger entries older than cutoff
func (s *ledgerService) PruneTransactionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, classifyStorageErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	deleted, err := uow.TransactionRepository().DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, classifyStorageErr(fmt.Errorf("failed to prune transactions: %w", err))
	}

	if err := uow.Commit(); err != nil {
		return 0, classifyStorageErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	log.WithFields(log.Fields{"cutoff": cutoff, "deleted": deleted}).Info("Pruned old transactions")
	return deleted, nil
}

// recordTransaction appends a ledger entry and publishes the balance change
// event. Single entry point for every balance-affecting write.
func recordTransaction(ctx context.Context, uow UnitOfWork, tx *models.Transaction, balanceBefore, balanceAfter int64) error {
	if err := uow.TransactionRepository().Append(ctx, tx); err != nil {
		return classifyStorageErr(fmt.Errorf("failed to append transaction: %w", err))
	}

	change := balanceAfter - balanceBefore
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          tx.UserID,
		OldBalance:      balanceBefore,
		NewBalance:      balanceAfter,
		TransactionType: tx.Type,
		ChangeAmount:    change,
	})

	return nil
}

func validateCredit(req CreditRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: user id must not be empty", ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidInput, req.Amount)
	}
	if !req.Type.IsCredit() {
		return fmt.Errorf("%w: %q is not a credit transaction type", ErrInvalidInput, req.Type)
	}
	if !req.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}
	return validateReason(req.Reason)
}

func validateDebit(req DebitRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: user id must not be empty", ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidInput, req.Amount)
	}
	if req.Type != models.TransactionTypeSpent && req.Type != models.TransactionTypeAdminRemove {
		return fmt.Errorf("%w: %q is not a debit transaction type", ErrInvalidInput, req.Type)
	}
	if !req.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}
	return validateReason(req.Reason)
}

func validateReason(reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: reason must not be empty", ErrInvalidInput)
	}
	if len(reason) > models.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, models.MaxReasonLength)
	}
	return nil
}
