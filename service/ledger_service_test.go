package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gembot/events"
	"gembot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLimitPolicy is a mock implementation of LimitPolicy
type MockLimitPolicy struct {
	mock.Mock
}

func (m *MockLimitPolicy) LoadEarnLimit(ctx context.Context) (EarnLimit, error) {
	args := m.Called(ctx)
	return args.Get(0).(EarnLimit), args.Error(1)
}

func (m *MockLimitPolicy) CheckEarn(ctx context.Context, txRepo TransactionRepository, userID string, amount int64, limit EarnLimit) error {
	args := m.Called(ctx, txRepo, userID, amount, limit)
	return args.Error(0)
}

func (m *MockLimitPolicy) LoadTransferLimit(ctx context.Context) (TransferLimit, error) {
	args := m.Called(ctx)
	return args.Get(0).(TransferLimit), args.Error(1)
}

func (m *MockLimitPolicy) CheckTransfer(ctx context.Context, txRepo TransactionRepository, fromUserID string, amount int64, limit TransferLimit) error {
	args := m.Called(ctx, txRepo, fromUserID, amount, limit)
	return args.Error(0)
}

func testBalance(userID string, balance, earned, spent int64) *models.Balance {
	now := time.Now()
	return &models.Balance{
		UserID:         userID,
		Balance:        balance,
		LifetimeEarned: earned,
		LifetimeSpent:  spent,
		LastActivity:   now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestLedgerService_GetBalance_ExistingAccount(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, new(MockLimitPolicy))

	existing := testBalance("user-1", 500, 700, 200)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "user-1").Return(existing, nil)

	balance, err := svc.GetBalance(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, existing, balance)
	mockBalanceRepo.AssertNotCalled(t, "Create")
	mockTxRepo.AssertNotCalled(t, "Append")
	mockUoW.AssertExpectations(t)
}

func TestLedgerService_GetBalance_LazyCreation(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockEvents := new(MockEventPublisher)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, mockEvents)

	svc := NewLedgerService(mockFactory, new(MockLimitPolicy))

	created := testBalance("user-1", 0, 0, 0)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "user-1").Return(nil, nil)
	mockBalanceRepo.On("Create", ctx, "user-1").Return(created, true, nil)

	// A zero-amount marker transaction records the creation
	mockTxRepo.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.UserID == "user-1" &&
			tx.Type == models.TransactionTypeAccountCreated &&
			tx.Amount == 0
	})).Return(nil)
	mockEvents.On("Publish", events.AccountCreatedEvent{UserID: "user-1"}).Return()

	balance, err := svc.GetBalance(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Balance)
	mockTxRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestLedgerService_GetBalance_LostCreationRace(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, new(MockLimitPolicy))

	existing := testBalance("user-1", 42, 42, 0)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "user-1").Return(nil, nil)
	// Concurrent caller created the row first: no marker transaction
	mockBalanceRepo.On("Create", ctx, "user-1").Return(existing, false, nil)

	balance, err := svc.GetBalance(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, existing, balance)
	mockTxRepo.AssertNotCalled(t, "Append")
}

func TestLedgerService_Credit_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockLimits := new(MockLimitPolicy)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, mockLimits)

	before := testBalance("user-1", 100, 100, 0)
	after := testBalance("user-1", 150, 150, 0)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "user-1").Return(before, nil)
	mockLimits.On("LoadEarnLimit", ctx).Return(EarnLimit{DailyMax: 500}, nil)
	mockLimits.On("CheckEarn", ctx, mockTxRepo, "user-1", int64(50), EarnLimit{DailyMax: 500}).Return(nil)
	mockBalanceRepo.On("Credit", ctx, "user-1", int64(50)).Return(after, nil)
	mockTxRepo.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.UserID == "user-1" &&
			tx.Type == models.TransactionTypeEarned &&
			tx.Amount == 50 &&
			tx.Source == models.SourceChatActivity
	})).Return(nil)

	balance, err := svc.Credit(ctx, CreditRequest{
		UserID: "user-1",
		Amount: 50,
		Reason: "message reward",
		Source: models.SourceChatActivity,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(150), balance.Balance)
	mockLimits.AssertExpectations(t)
	mockTxRepo.AssertExpectations(t)
}

func TestLedgerService_Credit_DailyLimitExceeded(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockLimits := new(MockLimitPolicy)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, mockLimits)

	before := testBalance("user-1", 480, 480, 0)
	limitErr := &DailyLimitError{UserID: "user-1", Requested: 50, Remaining: 20, Limit: 500}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "user-1").Return(before, nil)
	mockLimits.On("LoadEarnLimit", ctx).Return(EarnLimit{DailyMax: 500}, nil)
	mockLimits.On("CheckEarn", ctx, mockTxRepo, "user-1", int64(50), EarnLimit{DailyMax: 500}).Return(limitErr)

	_, err := svc.Credit(ctx, CreditRequest{
		UserID: "user-1",
		Amount: 50,
		Reason: "message reward",
		Source: models.SourceChatActivity,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDailyLimitExceeded)

	var dle *DailyLimitError
	require.ErrorAs(t, err, &dle)
	assert.Equal(t, int64(20), dle.Remaining)

	mockBalanceRepo.AssertNotCalled(t, "Credit")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Credit_BypassSkipsLimitAndIsAudited(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockLimits := new(MockLimitPolicy)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, mockLimits)

	before := testBalance("user-1", 1000, 1000, 0)
	after := testBalance("user-1", 1100, 1100, 0)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "user-1").Return(before, nil)
	mockBalanceRepo.On("Credit", ctx, "user-1", int64(100)).Return(after, nil)
	mockTxRepo.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		bypass, ok := tx.Metadata["bypass_daily_limit"].(bool)
		return ok && bypass && tx.Metadata["campaign"] == "launch-week"
	})).Return(nil)

	callerMetadata := map[string]any{"campaign": "launch-week"}

	_, err := svc.Credit(ctx, CreditRequest{
		UserID:           "user-1",
		Amount:           100,
		Reason:           "verification bonus",
		Source:           models.SourceVerification,
		Metadata:         callerMetadata,
		BypassDailyLimit: true,
	})

	require.NoError(t, err)
	mockLimits.AssertNotCalled(t, "LoadEarnLimit")
	mockLimits.AssertNotCalled(t, "CheckEarn")
	mockTxRepo.AssertExpectations(t)

	// The audit marker goes on the recorded transaction, not the caller's map
	assert.Equal(t, map[string]any{"campaign": "launch-week"}, callerMetadata)
}

func TestLedgerService_Credit_InvalidInput(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewLedgerService(mockFactory, new(MockLimitPolicy))

	cases := []struct {
		name string
		req  CreditRequest
	}{
		{"zero amount", CreditRequest{UserID: "u", Amount: 0, Reason: "r", Source: models.SourceSystem}},
		{"negative amount", CreditRequest{UserID: "u", Amount: -5, Reason: "r", Source: models.SourceSystem}},
		{"empty user", CreditRequest{UserID: "", Amount: 5, Reason: "r", Source: models.SourceSystem}},
		{"empty reason", CreditRequest{UserID: "u", Amount: 5, Reason: "", Source: models.SourceSystem}},
		{"unknown source", CreditRequest{UserID: "u", Amount: 5, Reason: "r", Source: "bogus"}},
		{"debit type", CreditRequest{UserID: "u", Amount: 5, Reason: "r", Source: models.SourceSystem, Type: models.TransactionTypeSpent}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Credit(ctx, tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	// Validation failures never touch storage
	mockFactory.AssertNotCalled(t, "Create")
}

func TestLedgerService_Debit_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, new(MockLimitPolicy))

	before := testBalance("user-1", 100, 100, 0)
	after := testBalance("user-1", 70, 100, 30)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "user-1").Return(before, nil)
	mockBalanceRepo.On("Debit", ctx, "user-1", int64(30)).Return(after, nil)
	mockTxRepo.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypeSpent && tx.Amount == 30
	})).Return(nil)

	balance, err := svc.Debit(ctx, DebitRequest{
		UserID: "user-1",
		Amount: 30,
		Reason: "shop purchase",
		Source: models.SourcePurchase,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(70), balance.Balance)
}

func TestLedgerService_Debit_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, new(MockLimitPolicy))

	before := testBalance("user-1", 10, 10, 0)
	repoErr := &InsufficientFundsError{UserID: "user-1", Requested: 30, Available: 10}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "user-1").Return(before, nil)
	mockBalanceRepo.On("Debit", ctx, "user-1", int64(30)).Return(nil, repoErr)

	_, err := svc.Debit(ctx, DebitRequest{
		UserID: "user-1",
		Amount: 30,
		Reason: "shop purchase",
		Source: models.SourcePurchase,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var ife *InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, int64(10), ife.Available)

	mockTxRepo.AssertNotCalled(t, "Append")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Transfer_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockLimits := new(MockLimitPolicy)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, mockLimits)

	sender := testBalance("alice", 100, 100, 0)
	recipient := testBalance("bob", 20, 20, 0)
	senderAfter := testBalance("alice", 60, 100, 40)
	recipientAfter := testBalance("bob", 60, 60, 0)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "alice").Return(sender, nil)
	mockBalanceRepo.On("GetByUserID", ctx, "bob").Return(recipient, nil)
	mockLimits.On("LoadTransferLimit", ctx).Return(TransferLimit{MinAmount: 1, MaxAmount: 1000, DailyMax: 2000}, nil)
	mockLimits.On("CheckTransfer", ctx, mockTxRepo, "alice", int64(40), TransferLimit{MinAmount: 1, MaxAmount: 1000, DailyMax: 2000}).Return(nil)
	mockBalanceRepo.On("Debit", ctx, "alice", int64(40)).Return(senderAfter, nil)
	mockBalanceRepo.On("Credit", ctx, "bob", int64(40)).Return(recipientAfter, nil)

	var legs []*models.Transaction
	mockTxRepo.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		legs = append(legs, tx)
		return tx.Source == models.SourceTip && tx.TransferID != nil && tx.RelatedUserID != nil
	})).Return(nil).Twice()

	result, err := svc.Transfer(ctx, "alice", "bob", 40, "thanks for the help")

	require.NoError(t, err)
	assert.Equal(t, int64(60), result.FromBalance)
	assert.Equal(t, int64(60), result.ToBalance)
	assert.NotEmpty(t, result.TransferID)

	// Both legs share the transfer id and reference each other
	require.Len(t, legs, 2)
	assert.Equal(t, *legs[0].TransferID, *legs[1].TransferID)
	assert.Equal(t, result.TransferID, *legs[0].TransferID)
	assert.Equal(t, "alice", legs[0].UserID)
	assert.Equal(t, "bob", *legs[0].RelatedUserID)
	assert.Equal(t, models.TransactionTypeSpent, legs[0].Type)
	assert.Equal(t, "bob", legs[1].UserID)
	assert.Equal(t, "alice", *legs[1].RelatedUserID)
	assert.Equal(t, models.TransactionTypeEarned, legs[1].Type)
}

func TestLedgerService_Transfer_SameAccount(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewLedgerService(mockFactory, new(MockLimitPolicy))

	_, err := svc.Transfer(ctx, "alice", "alice", 10, "tip")

	assert.ErrorIs(t, err, ErrSameAccount)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestLedgerService_Transfer_LimitExceeded(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockLimits := new(MockLimitPolicy)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, mockLimits)

	limitErr := &TransferLimitError{UserID: "alice", Requested: 5000, Min: 1, Max: 1000, Remaining: -1}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "alice").Return(testBalance("alice", 10000, 10000, 0), nil)
	mockBalanceRepo.On("GetByUserID", ctx, "bob").Return(testBalance("bob", 0, 0, 0), nil)
	mockLimits.On("LoadTransferLimit", ctx).Return(TransferLimit{MinAmount: 1, MaxAmount: 1000, DailyMax: 2000}, nil)
	mockLimits.On("CheckTransfer", ctx, mockTxRepo, "alice", int64(5000), TransferLimit{MinAmount: 1, MaxAmount: 1000, DailyMax: 2000}).Return(limitErr)

	_, err := svc.Transfer(ctx, "alice", "bob", 5000, "tip")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransferLimitExceeded)
	mockBalanceRepo.AssertNotCalled(t, "Debit")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Transfer_CreditFailureRollsBack(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockLimits := new(MockLimitPolicy)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, mockLimits)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("GetByUserID", ctx, "alice").Return(testBalance("alice", 100, 100, 0), nil)
	mockBalanceRepo.On("GetByUserID", ctx, "bob").Return(testBalance("bob", 0, 0, 0), nil)
	mockLimits.On("LoadTransferLimit", ctx).Return(TransferLimit{MinAmount: 1, MaxAmount: 1000, DailyMax: 2000}, nil)
	mockLimits.On("CheckTransfer", ctx, mockTxRepo, "alice", int64(40), TransferLimit{MinAmount: 1, MaxAmount: 1000, DailyMax: 2000}).Return(nil)
	mockBalanceRepo.On("Debit", ctx, "alice", int64(40)).Return(testBalance("alice", 60, 100, 40), nil)
	mockBalanceRepo.On("Credit", ctx, "bob", int64(40)).Return(nil, errors.New("connection reset"))

	_, err := svc.Transfer(ctx, "alice", "bob", 40, "tip")

	require.Error(t, err)
	// The rollback succeeded, so the failure is plain, not partial
	assert.NotErrorIs(t, err, ErrPartialTransfer)
	mockUoW.AssertCalled(t, "Rollback")
	mockUoW.AssertNotCalled(t, "Commit")
	mockTxRepo.AssertNotCalled(t, "Append")
}

func TestLedgerService_Transfer_PartialFailure(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockLimits := new(MockLimitPolicy)
	mockUoW.SetRepositories(mockBalanceRepo, mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, mockLimits)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(errors.New("connection lost"))
	mockBalanceRepo.On("GetByUserID", ctx, "alice").Return(testBalance("alice", 100, 100, 0), nil)
	mockBalanceRepo.On("GetByUserID", ctx, "bob").Return(testBalance("bob", 0, 0, 0), nil)
	mockLimits.On("LoadTransferLimit", ctx).Return(TransferLimit{MinAmount: 1, MaxAmount: 1000, DailyMax: 2000}, nil)
	mockLimits.On("CheckTransfer", ctx, mockTxRepo, "alice", int64(40), TransferLimit{MinAmount: 1, MaxAmount: 1000, DailyMax: 2000}).Return(nil)
	mockBalanceRepo.On("Debit", ctx, "alice", int64(40)).Return(testBalance("alice", 60, 100, 40), nil)
	mockBalanceRepo.On("Credit", ctx, "bob", int64(40)).Return(nil, errors.New("connection reset"))

	_, err := svc.Transfer(ctx, "alice", "bob", 40, "tip")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialTransfer)

	var pte *PartialTransferError
	require.ErrorAs(t, err, &pte)
	assert.Equal(t, "alice", pte.FromUserID)
	assert.Equal(t, "bob", pte.ToUserID)
	assert.Equal(t, int64(40), pte.Amount)
	assert.NotEmpty(t, pte.TransferID)
}

func TestLedgerService_History_Validation(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewLedgerService(mockFactory, new(MockLimitPolicy))

	_, err := svc.History(ctx, "", models.HistoryFilter{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.History(ctx, "user-1", models.HistoryFilter{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.History(ctx, "user-1", models.HistoryFilter{Type: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestLedgerService_ResetAccount(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockUoW.SetRepositories(mockBalanceRepo, new(MockTransactionRepository), nil, nil)

	svc := NewLedgerService(mockFactory, new(MockLimitPolicy))

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockBalanceRepo.On("Delete", ctx, "user-1").Return(nil)

	err := svc.ResetAccount(ctx, "user-1")

	require.NoError(t, err)
	mockBalanceRepo.AssertExpectations(t)
}

func TestLedgerService_PruneTransactionsBefore(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTxRepo := new(MockTransactionRepository)
	mockUoW.SetRepositories(new(MockBalanceRepository), mockTxRepo, nil, nil)

	svc := NewLedgerService(mockFactory, new(MockLimitPolicy))

	cutoff := time.Now().AddDate(0, 0, -90)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockTxRepo.On("DeleteBefore", ctx, cutoff).Return(int64(12), nil)

	deleted, err := svc.PruneTransactionsBefore(ctx, cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
}
