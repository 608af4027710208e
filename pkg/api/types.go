// Package api holds the JSON request and response shapes of the HTTP surface.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// TransactionStatus mirrors the domain lifecycle states on the wire.
type TransactionStatus string

// UserRole mirrors the domain roles on the wire.
type UserRole string

// SignupRequest registers a new account.
type SignupRequest struct {
	Email openapi_types.Email `json:"email"`
	Name  string              `json:"name,omitempty"`
	Role  UserRole            `json:"role,omitempty"`
}

// LoginRequest opens a session for an existing account.
type LoginRequest struct {
	Email openapi_types.Email `json:"email"`
}

// User is the API view of an account.
type User struct {
	Id        string              `json:"id"`
	Email     openapi_types.Email `json:"email"`
	Name      string              `json:"name"`
	Role      UserRole            `json:"role"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewTransaction is the buyer's request to open an escrow transaction.
// Amount is in USD cents.
type NewTransaction struct {
	ProductDescription string              `json:"product_description"`
	Amount             int64               `json:"amount"`
	SellerEmail        openapi_types.Email `json:"seller_email"`
}

// Transaction is the API view of one escrow agreement.
type Transaction struct {
	Id                       string              `json:"id"`
	ProductDescription       string              `json:"product_description"`
	Amount                   int64               `json:"amount"`
	BuyerId                  string              `json:"buyer_id"`
	BuyerEmail               openapi_types.Email `json:"buyer_email"`
	SellerId                 string              `json:"seller_id"`
	SellerEmail              openapi_types.Email `json:"seller_email"`
	Status                   TransactionStatus   `json:"status"`
	CreatedAt                time.Time           `json:"created_at"`
	UpdatedAt                time.Time           `json:"updated_at"`
	DeliveryConfirmationDate *time.Time          `json:"delivery_confirmation_date,omitempty"`
}

// StatusUpdate requests a lifecycle transition.
type StatusUpdate struct {
	Status TransactionStatus `json:"status"`
}
