package testutil

import (
	"time"

	"gembot/models"
)

// CreateTestTransaction creates a test transaction with default values
func CreateTestTransaction(userID string, txType models.TransactionType, amount int64) *models.Transaction {
	return &models.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: amount,
		Reason: "test transaction",
		Source: models.SourceSystem,
		Metadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestEarnTransaction creates a test earned transaction from chat activity
func CreateTestEarnTransaction(userID string, amount int64) *models.Transaction {
	tx := CreateTestTransaction(userID, models.TransactionTypeEarned, amount)
	tx.Source = models.SourceChatActivity
	tx.Reason = "message reward"
	return tx
}

// CreateTestTipTransaction creates one leg of a test transfer
func CreateTestTipTransaction(userID, relatedUserID, transferID string, txType models.TransactionType, amount int64) *models.Transaction {
	tx := CreateTestTransaction(userID, txType, amount)
	tx.Source = models.SourceTip
	tx.Reason = "test tip"
	tx.RelatedUserID = &relatedUserID
	tx.TransferID = &transferID
	return tx
}

// CreateTestSetting creates a test setting row
func CreateTestSetting(key, value string) *models.Setting {
	def, ok := models.SettingRegistry[key]
	category := models.CategoryFeatures
	if ok {
		category = def.Category
	}
	return &models.Setting{
		Key:       key,
		Value:     value,
		Category:  category,
		UpdatedBy: "test-admin",
		UpdatedAt: time.Now(),
	}
}
