package models

import (
	"time"
)

// UserRole defines which side of an escrow agreement a user acts on.
type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
)

// TransactionStatus defines the possible lifecycle states of an escrow transaction.
type TransactionStatus string

const (
	PENDING_CONFIRMATION TransactionStatus = "pending_confirmation"
	CONFIRMED            TransactionStatus = "confirmed"
	IN_DELIVERY          TransactionStatus = "in_delivery"
	COMPLETED            TransactionStatus = "completed"
	CANCELLED            TransactionStatus = "cancelled"
)

// User represents a registered account in the marketplace directory.
type User struct {
	Id        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction represents the internal domain model for one escrow agreement
// between a buyer and a seller. Amount is in USD cents.
//
// BuyerId is the creating buyer's real account id. SellerId is generated at
// creation time because the buyer only knows the seller's email; email is the
// authoritative matching key for both sides.
type Transaction struct {
	Id                       string            `json:"id"`
	ProductDescription       string            `json:"product_description"`
	Amount                   int64             `json:"amount"`
	BuyerId                  string            `json:"buyer_id"`
	BuyerEmail               string            `json:"buyer_email"`
	SellerId                 string            `json:"seller_id"`
	SellerEmail              string            `json:"seller_email"`
	Status                   TransactionStatus `json:"status"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
	DeliveryConfirmationDate *time.Time        `json:"delivery_confirmation_date,omitempty"`
}

// NewTransaction carries the buyer-supplied fields for creating a transaction.
type NewTransaction struct {
	ProductDescription string
	Amount             int64
	SellerEmail        string
}
