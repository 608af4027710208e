package notify

import "github.com/upright/escrow/pkg/models"

// NoOpNotifier is a Notifier that does nothing. It backs tests and
// configurations with no mail gateway.
type NoOpNotifier struct{}

func (NoOpNotifier) TransactionCreated(tx models.Transaction)   {}
func (NoOpNotifier) TransactionConfirmed(tx models.Transaction) {}
func (NoOpNotifier) DeliveryStarted(tx models.Transaction)      {}
func (NoOpNotifier) DeliveryConfirmed(tx models.Transaction)    {}
func (NoOpNotifier) TransactionCancelled(tx models.Transaction) {}
