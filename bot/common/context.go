package common

import (
	"context"
	"time"
)

// commandTimeout bounds every ledger call made from a Discord handler so
// a stuck storage acquisition surfaces as an error instead of hanging
// the interaction forever.
const commandTimeout = 10 * time.Second

// CommandContext returns the bounded context for handling one command
func CommandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}
