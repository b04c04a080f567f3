package service

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors forming the ledger error taxonomy. Callers match with
// errors.Is; the struct errors below carry context and unwrap to these.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrDailyLimitExceeded    = errors.New("daily earning limit exceeded")
	ErrTransferLimitExceeded = errors.New("transfer limit exceeded")
	ErrSameAccount           = errors.New("cannot transfer to the same account")
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrPartialTransfer       = errors.New("partial transfer failure")
)

// InsufficientFundsError reports a debit that exceeds the spendable balance
type InsufficientFundsError struct {
	UserID    string
	Requested int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %d, need %d", e.Available, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// DailyLimitError reports an earn that would exceed the daily cap
type DailyLimitError struct {
	UserID    string
	Requested int64
	Remaining int64
	Limit     int64
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily earning limit of %d reached: requested %d, %d remaining today", e.Limit, e.Requested, e.Remaining)
}

func (e *DailyLimitError) Unwrap() error {
	return ErrDailyLimitExceeded
}

// TransferLimitError reports a tip outside the per-transfer bounds or
// beyond the sender's daily tip allowance
type TransferLimitError struct {
	UserID    string
	Requested int64
	Min       int64
	Max       int64
	Remaining int64 // daily allowance left; -1 when the per-transfer bound failed
}

func (e *TransferLimitError) Error() string {
	if e.Remaining >= 0 {
		return fmt.Sprintf("daily tip limit reached: requested %d, %d remaining today", e.Requested, e.Remaining)
	}
	return fmt.Sprintf("tip amount %d outside allowed range [%d, %d]", e.Requested, e.Min, e.Max)
}

func (e *TransferLimitError) Unwrap() error {
	return ErrTransferLimitExceeded
}

// PartialTransferError reports a transfer whose debit leg could not be
// rolled back after the credit leg failed. It must be escalated for
// reconciliation, never swallowed.
type PartialTransferError struct {
	TransferID string
	FromUserID string
	ToUserID   string
	Amount     int64
	Err        error
}

func (e *PartialTransferError) Error() string {
	return fmt.Sprintf("transfer %s of %d from %s to %s left partial state: %v",
		e.TransferID, e.Amount, e.FromUserID, e.ToUserID, e.Err)
}

func (e *PartialTransferError) Unwrap() error {
	return ErrPartialTransfer
}

// classifyStorageErr marks context expiry as a retryable storage failure.
// No partial state is committed in that case, so the whole operation is
// safe to retry.
func classifyStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}
