package mapping

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/upright/escrow/pkg/api"
	"github.com/upright/escrow/pkg/models"
)

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:                       tx.Id,
		ProductDescription:       tx.ProductDescription,
		Amount:                   tx.Amount,
		BuyerId:                  tx.BuyerId,
		BuyerEmail:               openapi_types.Email(tx.BuyerEmail),
		SellerId:                 tx.SellerId,
		SellerEmail:              openapi_types.Email(tx.SellerEmail),
		Status:                   api.TransactionStatus(tx.Status),
		CreatedAt:                tx.CreatedAt,
		UpdatedAt:                tx.UpdatedAt,
		DeliveryConfirmationDate: tx.DeliveryConfirmationDate,
	}
}

// ToApiUser converts a domain User model to an API User model.
func ToApiUser(user *models.User) *api.User {
	return &api.User{
		Id:        user.Id,
		Email:     openapi_types.Email(user.Email),
		Name:      user.Name,
		Role:      api.UserRole(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

// ToDomainNewTransaction converts an API NewTransaction to the domain creation input.
func ToDomainNewTransaction(newTx *api.NewTransaction) models.NewTransaction {
	return models.NewTransaction{
		ProductDescription: newTx.ProductDescription,
		Amount:             newTx.Amount,
		SellerEmail:        string(newTx.SellerEmail),
	}
}
