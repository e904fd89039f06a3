package ports

import (
	"context"

	"github.com/dineview/backoffice/internal/backoffice/domain"
)

// Notifier fans out a new-order signal to connected dashboard clients
// (bell indicator, sound cue, desktop notification). Best-effort: callers
// log failures and never surface them.
type Notifier interface {
	OrderReceived(ctx context.Context, order domain.Order) error
}
