package escrow

import (
	"fmt"

	"github.com/upright/escrow/pkg/models"
)

// transitionRule describes one target status: the states it may be entered
// from and the role of the party allowed to trigger it.
//
//	pending_confirmation -> confirmed              (seller)
//	confirmed            -> in_delivery            (seller)
//	confirmed/in_delivery -> completed             (buyer)
//	pending_confirmation -> cancelled              (buyer)
//
// Cancellation after seller confirmation requires an out-of-band agreement
// between the parties and is deliberately not a system transition.
type transitionRule struct {
	from  []models.TransactionStatus
	actor models.UserRole
}

var transitionRules = map[models.TransactionStatus]transitionRule{
	models.CONFIRMED: {
		from:  []models.TransactionStatus{models.PENDING_CONFIRMATION},
		actor: models.RoleSeller,
	},
	models.IN_DELIVERY: {
		from:  []models.TransactionStatus{models.CONFIRMED},
		actor: models.RoleSeller,
	},
	models.COMPLETED: {
		from:  []models.TransactionStatus{models.CONFIRMED, models.IN_DELIVERY},
		actor: models.RoleBuyer,
	},
	models.CANCELLED: {
		from:  []models.TransactionStatus{models.PENDING_CONFIRMATION},
		actor: models.RoleBuyer,
	},
}

// validateTransition checks that actor may move tx into target. It returns
// ErrInvalidTransition for an unknown target, a disallowed source state, or
// an actor who is not the right party of the transaction.
func validateTransition(tx *models.Transaction, target models.TransactionStatus, actor models.User) error {
	rule, ok := transitionRules[target]
	if !ok {
		return fmt.Errorf("%w: %s is not a valid target status", ErrInvalidTransition, target)
	}

	if actor.Role != rule.actor || !matchesRole(tx, actor, rule.actor) {
		return fmt.Errorf("%w: %s may not move transaction %s to %s", ErrInvalidTransition, actor.Email, tx.Id, target)
	}

	for _, from := range rule.from {
		if tx.Status == from {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot move transaction %s from %s to %s", ErrInvalidTransition, tx.Id, tx.Status, target)
}

// matchesRole reports whether actor is the transaction's party for the given
// role side. Email is the authoritative key: counterpart ids are synthesized
// at creation time, so an id match alone is only meaningful for the creator's
// own side.
func matchesRole(tx *models.Transaction, actor models.User, role models.UserRole) bool {
	switch role {
	case models.RoleBuyer:
		return actor.Id == tx.BuyerId || actor.Email == tx.BuyerEmail
	case models.RoleSeller:
		return actor.Id == tx.SellerId || actor.Email == tx.SellerEmail
	}
	return false
}
