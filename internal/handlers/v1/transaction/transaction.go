package transaction

import (
	"time"

	"github.com/carson-networks/finance-insights/internal/service"
)

const dateLayout = "2006-01-02"

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction UUID"`
	UserID      string `json:"userID" doc:"Owning user UUID"`
	Date        string `json:"date" doc:"Calendar date, YYYY-MM-DD"`
	Amount      string `json:"amount" doc:"Positive decimal amount"`
	Category    string `json:"category" doc:"Spending or income category"`
	Type        string `json:"type" doc:"income or expense"`
	Description string `json:"description,omitempty" doc:"Free-text description"`
	Source      string `json:"source,omitempty" doc:"Where the transaction came from"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 creation time"`
}

func toResponse(tx service.Transaction) Transaction {
	return Transaction{
		ID:          tx.ID.String(),
		UserID:      tx.UserID.String(),
		Date:        tx.Date.Format(dateLayout),
		Amount:      tx.Amount.String(),
		Category:    tx.Category,
		Type:        string(tx.Type),
		Description: tx.Description,
		Source:      tx.Source,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}
