package common

import (
	"fmt"
	"strings"
	"time"

	"gembot/models"
)

// FormatGems formats a GEMS amount with thousand separators
func FormatGems(amount int64) string {
	str := fmt.Sprintf("%d", amount)

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatTransferResult formats the result of a tip
func FormatTransferResult(amount int64, recipientID string) string {
	return fmt.Sprintf("tipped **%s GEMS** to <@%s>", FormatGems(amount), recipientID)
}

// FormatTransactionType returns a short human label for a transaction type
func FormatTransactionType(t models.TransactionType) string {
	switch t {
	case models.TransactionTypeEarned:
		return "Earned"
	case models.TransactionTypeSpent:
		return "Spent"
	case models.TransactionTypeTransferred:
		return "Transferred"
	case models.TransactionTypeBonus:
		return "Bonus"
	case models.TransactionTypeAdminAdd:
		return "Admin grant"
	case models.TransactionTypeAdminRemove:
		return "Admin removal"
	case models.TransactionTypeAccountCreated:
		return "Account created"
	}
	return string(t)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatSigned prefixes credits with + and debits with - for history lines
func FormatSigned(t models.TransactionType, amount int64) string {
	if t.IsCredit() || t == models.TransactionTypeAccountCreated {
		return "+" + FormatGems(amount)
	}
	return "-" + FormatGems(amount)
}
