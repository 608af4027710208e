package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/upright/escrow/pkg/metrics"
	"github.com/upright/escrow/pkg/models"
)

// DefaultSendTimeout bounds each gateway call so a hung relay can't hold a
// goroutine forever. The lifecycle operation has already committed by the
// time a send starts, so the deadline only limits resource hold.
const DefaultSendTimeout = 10 * time.Second

// Dispatcher fans out lifecycle emails through a Gateway. Each send runs in
// its own goroutine with its own deadline; failures are logged and counted,
// never returned. One recipient's failure does not affect another's send.
type Dispatcher struct {
	Gateway Gateway
	Logger  *slog.Logger
	Timeout time.Duration

	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with the default send timeout.
func NewDispatcher(gateway Gateway, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		Gateway: gateway,
		Logger:  logger,
		Timeout: DefaultSendTimeout,
	}
}

// Make sure we conform to the interface
var _ Notifier = (*Dispatcher)(nil)

func (d *Dispatcher) TransactionCreated(tx models.Transaction) {
	d.dispatch(transactionCreatedEmails(tx))
}

func (d *Dispatcher) TransactionConfirmed(tx models.Transaction) {
	d.dispatch(transactionConfirmedEmails(tx))
}

func (d *Dispatcher) DeliveryStarted(tx models.Transaction) {
	d.dispatch(deliveryStartedEmails(tx))
}

func (d *Dispatcher) DeliveryConfirmed(tx models.Transaction) {
	d.dispatch(deliveryConfirmedEmails(tx))
}

func (d *Dispatcher) TransactionCancelled(tx models.Transaction) {
	d.dispatch(transactionCancelledEmails(tx))
}

// dispatch spawns one send task per email. The background context detaches
// the sends from the request that triggered them.
func (d *Dispatcher) dispatch(emails []Email) {
	for _, email := range emails {
		d.wg.Add(1)
		go func(email Email) {
			defer d.wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
			defer cancel()

			if err := d.Gateway.Send(ctx, email); err != nil {
				d.Logger.Error("failed to send notification email",
					"to", email.To,
					"subject", email.Subject,
					"error", err,
				)
				metrics.NotificationsTotal.WithLabelValues("failed").Inc()
				return
			}
			metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		}(email)
	}
}

// Wait blocks until all in-flight sends have finished. Used on shutdown and
// in tests; lifecycle operations never call it.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
