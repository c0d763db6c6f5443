package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-insights/internal/logging"
)

type BalanceInput struct {
	UserID string `path:"userID" format:"uuid" doc:"User UUID"`
}

type BalanceOutput struct {
	Body struct {
		Balance string `json:"balance" doc:"Total income minus total expenses"`
	}
}

type balanceGetter interface {
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

// BalanceHandler handles GET /v1/users/{userID}/balance.
type BalanceHandler struct {
	TransactionService balanceGetter
}

func NewBalanceHandler(svc balanceGetter) *BalanceHandler {
	return &BalanceHandler{TransactionService: svc}
}

func (h *BalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-balance",
		Method:      http.MethodGet,
		Path:        "/v1/users/{userID}/balance",
		Summary:     "Get balance",
		Description: "Sums the user's whole transaction history.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *BalanceHandler) handle(ctx context.Context, input *BalanceInput) (*BalanceOutput, error) {
	userID, err := uuid.FromString(input.UserID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid userID", err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("userID", userID.String())
		defer logData.AddTiming("balanceMs")()
	}

	balance, err := h.TransactionService.Balance(ctx, userID)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to compute balance", err)
	}

	out := &BalanceOutput{}
	out.Body.Balance = balance.StringFixed(2)
	return out, nil
}
