// Package notify owns the best-effort email side channel: composing the
// notification set for each lifecycle event and dispatching the sends without
// ever letting a delivery failure reach the caller.
package notify

import (
	"context"

	"github.com/upright/escrow/pkg/models"
)

// Email is one message handed to the mail gateway. The field names follow the
// mail-relay function's request contract.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Gateway attempts delivery of a single email. Implementations may fail for
// any reason; callers treat every send as advisory.
type Gateway interface {
	Send(ctx context.Context, email Email) error
}

// Notifier receives lifecycle events and fans out the appropriate emails.
// All methods are fire-and-forget with respect to the caller.
type Notifier interface {
	TransactionCreated(tx models.Transaction)
	TransactionConfirmed(tx models.Transaction)
	DeliveryStarted(tx models.Transaction)
	DeliveryConfirmed(tx models.Transaction)
	TransactionCancelled(tx models.Transaction)
}
