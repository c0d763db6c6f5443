package transaction

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-insights/internal/analysis"
	"github.com/carson-networks/finance-insights/internal/logging"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	UserID      string `json:"userID" required:"true" format:"uuid" doc:"Owning user UUID"`
	Date        string `json:"date,omitempty" format:"date" doc:"Calendar date, YYYY-MM-DD, defaults to today"`
	Amount      string `json:"amount" required:"true" doc:"Positive decimal amount"`
	Category    string `json:"category" required:"true" minLength:"1" maxLength:"64" doc:"Category name"`
	Type        string `json:"type" required:"true" enum:"income,expense" doc:"income or expense"`
	Description string `json:"description,omitempty" maxLength:"255" doc:"Free-text description"`
	Source      string `json:"source,omitempty" maxLength:"64" doc:"Where the transaction came from"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionResponse is the response body for a created transaction.
type CreateTransactionResponse struct {
	ID string `json:"id" doc:"Created transaction UUID"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body CreateTransactionResponse
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, tx analysis.Transaction) (uuid.UUID, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Records a new income or expense for a user.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput converts the request body into a transaction.
// A missing date is left zero and stored as today.
func parseCreateTransactionInput(input *CreateTransactionInput) (analysis.Transaction, error) {
	userID, err := uuid.FromString(input.Body.UserID)
	if err != nil {
		return analysis.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid userID", err)
	}

	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return analysis.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	if !amount.IsPositive() {
		return analysis.Transaction{}, huma.NewError(http.StatusBadRequest, "amount must be positive")
	}

	var date time.Time
	if input.Body.Date != "" {
		date, err = time.Parse(dateLayout, input.Body.Date)
		if err != nil {
			return analysis.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
	}

	txType := analysis.TransactionType(input.Body.Type)
	if !txType.Valid() {
		return analysis.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid type", errors.New(input.Body.Type))
	}

	return analysis.Transaction{
		UserID:      userID,
		Date:        date,
		Amount:      amount,
		Category:    input.Body.Category,
		Type:        txType,
		Description: input.Body.Description,
		Source:      input.Body.Source,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	tx, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("userID", tx.UserID.String())
		defer logData.AddTiming("createTransactionMs")()
	}

	id, err := h.TransactionService.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to create transaction", err)
	}

	return &CreateTransactionOutput{Body: CreateTransactionResponse{ID: id.String()}}, nil
}
