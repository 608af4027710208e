// Package escrow owns the transaction lifecycle: creation, the status state
// machine, and the side effects each transition triggers. The persisted store
// is the source of truth; notifications are advisory and never gate an
// operation's outcome.
package escrow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/upright/escrow/pkg/metrics"
	"github.com/upright/escrow/pkg/models"
	"github.com/upright/escrow/pkg/notify"
	"github.com/upright/escrow/pkg/storage"
)

// Engine applies lifecycle operations to the transaction collection.
// Every operation is a full read-validate-write sequence against the store;
// nothing is written when validation fails. Writes rewrite the whole
// collection, so mu serializes them: without it two concurrent requests would
// each persist a snapshot loaded before the other's write and drop it.
type Engine struct {
	Store    storage.TransactionStore
	Notifier notify.Notifier
	Logger   *slog.Logger
	Now      func() time.Time

	mu sync.Mutex
}

// New creates an Engine over the given store and notifier.
func New(store storage.TransactionStore, notifier notify.Notifier, logger *slog.Logger) *Engine {
	return &Engine{
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Create validates the buyer's input, appends a new pending_confirmation
// transaction to the collection, and notifies both parties. The entity is
// returned once persisted, regardless of notification outcome.
//
// The seller id is synthesized: the buyer only knows the seller's email, so
// queries reunite the seller with the transaction through the email field.
func (e *Engine) Create(ctx context.Context, newTx models.NewTransaction, buyer models.User) (*models.Transaction, error) {
	if strings.TrimSpace(newTx.ProductDescription) == "" {
		return nil, fmt.Errorf("%w: product description is required", ErrValidation)
	}
	if newTx.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if strings.TrimSpace(newTx.SellerEmail) == "" {
		return nil, fmt.Errorf("%w: seller email is required", ErrValidation)
	}
	if buyer.Role != models.RoleBuyer {
		return nil, fmt.Errorf("%w: only a buyer may create a transaction", ErrInvalidTransition)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.Now()
	tx := models.Transaction{
		Id:                 "txn_" + uuid.New().String(),
		ProductDescription: newTx.ProductDescription,
		Amount:             newTx.Amount,
		BuyerId:            buyer.Id,
		BuyerEmail:         buyer.Email,
		SellerId:           "user_" + uuid.New().String(),
		SellerEmail:        newTx.SellerEmail,
		Status:             models.PENDING_CONFIRMATION,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	txs, err := e.Store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	txs = append(txs, tx)
	if err := e.Store.SaveTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("failed to persist new transaction: %w", err)
	}

	e.Logger.Info("transaction created",
		"transaction_id", tx.Id,
		"buyer_email", tx.BuyerEmail,
		"seller_email", tx.SellerEmail,
		"amount", tx.Amount,
	)
	metrics.TransactionsTotal.WithLabelValues(string(tx.Status)).Inc()

	e.Notifier.TransactionCreated(tx)

	return &tx, nil
}

// Transition moves the transaction into target on behalf of actor. Lookup and
// validation failures abort before any write; the status-appropriate
// notification fires only after the collection has been persisted.
func (e *Engine) Transition(ctx context.Context, id string, target models.TransactionStatus, actor models.User) (*models.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txs, err := e.Store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	idx := -1
	for i := range txs {
		if txs[i].Id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	if err := validateTransition(&txs[idx], target, actor); err != nil {
		return nil, err
	}

	now := e.Now()
	txs[idx].Status = target
	txs[idx].UpdatedAt = now
	if target == models.COMPLETED && txs[idx].DeliveryConfirmationDate == nil {
		confirmed := now
		txs[idx].DeliveryConfirmationDate = &confirmed
	}

	if err := e.Store.SaveTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}

	tx := txs[idx]
	e.Logger.Info("transaction status changed",
		"transaction_id", tx.Id,
		"status", tx.Status,
		"actor", actor.Email,
	)
	metrics.TransactionsTotal.WithLabelValues(string(tx.Status)).Inc()

	switch target {
	case models.CONFIRMED:
		e.Notifier.TransactionConfirmed(tx)
	case models.IN_DELIVERY:
		e.Notifier.DeliveryStarted(tx)
	case models.COMPLETED:
		e.Notifier.DeliveryConfirmed(tx)
	case models.CANCELLED:
		e.Notifier.TransactionCancelled(tx)
	}

	return &tx, nil
}

// ConfirmDelivery is the buyer's completion action. It is a straight call into
// Transition so there is exactly one persistence path.
func (e *Engine) ConfirmDelivery(ctx context.Context, id string, buyer models.User) (*models.Transaction, error) {
	return e.Transition(ctx, id, models.COMPLETED, buyer)
}

// ListByRole returns, in insertion order, every transaction where actor is the
// party on the given role side, matching on id or email.
func (e *Engine) ListByRole(ctx context.Context, actor models.User, role models.UserRole) ([]models.Transaction, error) {
	txs, err := e.Store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	matched := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if matchesRole(&tx, actor, role) {
			matched = append(matched, tx)
		}
	}
	return matched, nil
}

// Get returns the transaction by id, but only to one of its parties.
func (e *Engine) Get(ctx context.Context, id string, actor models.User) (*models.Transaction, error) {
	txs, err := e.Store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	for i := range txs {
		if txs[i].Id != id {
			continue
		}
		if !matchesRole(&txs[i], actor, models.RoleBuyer) && !matchesRole(&txs[i], actor, models.RoleSeller) {
			// Don't reveal other people's transactions.
			return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
		}
		return &txs[i], nil
	}
	return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
}
