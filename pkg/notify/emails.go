package notify

import (
	"fmt"

	"github.com/upright/escrow/pkg/models"
)

// formatAmount renders an amount in cents as a dollar string.
func formatAmount(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func transactionCreatedEmails(tx models.Transaction) []Email {
	return []Email{
		{
			To:      tx.SellerEmail,
			Subject: "New Escrow Transaction Created",
			HTML: fmt.Sprintf(`<h2>New Escrow Transaction</h2>
<p>A buyer has initiated a new escrow transaction with you.</p>
<h3>Transaction Details:</h3>
<ul>
  <li>Amount: %s</li>
  <li>Description: %s</li>
  <li>Buyer Email: %s</li>
</ul>
<p>Please log in to your Upright account to review and confirm this transaction.</p>`,
				formatAmount(tx.Amount), tx.ProductDescription, tx.BuyerEmail),
		},
		{
			To:      tx.BuyerEmail,
			Subject: "Escrow Transaction Initiated",
			HTML: fmt.Sprintf(`<h2>Transaction Created Successfully</h2>
<p>Your escrow transaction has been created and the seller has been notified.</p>
<h3>Transaction Details:</h3>
<ul>
  <li>Amount: %s</li>
  <li>Description: %s</li>
  <li>Seller Email: %s</li>
</ul>
<p>We'll notify you when the seller confirms the transaction.</p>`,
				formatAmount(tx.Amount), tx.ProductDescription, tx.SellerEmail),
		},
	}
}

func transactionConfirmedEmails(tx models.Transaction) []Email {
	return []Email{
		{
			To:      tx.BuyerEmail,
			Subject: "Transaction Confirmed by Seller",
			HTML: fmt.Sprintf(`<h2>Transaction Confirmed</h2>
<p>The seller has confirmed your escrow transaction.</p>
<h3>Transaction Details:</h3>
<ul>
  <li>Amount: %s</li>
  <li>Description: %s</li>
</ul>
<p>The seller will now proceed with delivering your product/service.</p>`,
				formatAmount(tx.Amount), tx.ProductDescription),
		},
	}
}

func deliveryStartedEmails(tx models.Transaction) []Email {
	return []Email{
		{
			To:      tx.BuyerEmail,
			Subject: "Delivery Started",
			HTML: fmt.Sprintf(`<h2>Delivery In Progress</h2>
<p>The seller has started the delivery process for your transaction.</p>
<h3>Transaction Details:</h3>
<ul>
  <li>Amount: %s</li>
  <li>Description: %s</li>
</ul>
<p>Once you receive the product/service, please confirm the delivery in your Upright account.</p>`,
				formatAmount(tx.Amount), tx.ProductDescription),
		},
	}
}

func deliveryConfirmedEmails(tx models.Transaction) []Email {
	return []Email{
		{
			To:      tx.SellerEmail,
			Subject: "Delivery Confirmed - Payment Released",
			HTML: fmt.Sprintf(`<h2>Payment Released</h2>
<p>The buyer has confirmed delivery of the product/service. The payment has been released to your account.</p>
<h3>Transaction Details:</h3>
<ul>
  <li>Amount: %s</li>
  <li>Description: %s</li>
</ul>
<p>Thank you for using Upright Escrow!</p>`,
				formatAmount(tx.Amount), tx.ProductDescription),
		},
		{
			To:      tx.BuyerEmail,
			Subject: "Delivery Confirmation - Transaction Complete",
			HTML: fmt.Sprintf(`<h2>Transaction Complete</h2>
<p>You have confirmed delivery of the product/service. The payment has been released to the seller.</p>
<h3>Transaction Details:</h3>
<ul>
  <li>Amount: %s</li>
  <li>Description: %s</li>
</ul>
<p>Thank you for using Upright Escrow!</p>`,
				formatAmount(tx.Amount), tx.ProductDescription),
		},
	}
}

func transactionCancelledEmails(tx models.Transaction) []Email {
	return []Email{
		{
			To:      tx.SellerEmail,
			Subject: "Escrow Transaction Cancelled",
			HTML: fmt.Sprintf(`<h2>Transaction Cancelled</h2>
<p>The buyer has cancelled the escrow transaction before confirmation.</p>
<h3>Transaction Details:</h3>
<ul>
  <li>Amount: %s</li>
  <li>Description: %s</li>
  <li>Buyer Email: %s</li>
</ul>
<p>No further action is required.</p>`,
				formatAmount(tx.Amount), tx.ProductDescription, tx.BuyerEmail),
		},
	}
}
