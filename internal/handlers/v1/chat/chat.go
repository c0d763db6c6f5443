package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-insights/internal/logging"
	"github.com/carson-networks/finance-insights/internal/service"
)

// ChatBody is the request body for a chat message.
type ChatBody struct {
	UserID  string `json:"userID" required:"true" format:"uuid" doc:"User UUID"`
	Message string `json:"message" required:"true" minLength:"1" maxLength:"2000" doc:"Free-text question"`
}

type ChatInput struct {
	Body ChatBody
}

type ChatResponse struct {
	Intent   string `json:"intent" doc:"Classified intent"`
	Data     any    `json:"data" doc:"Analysis result the answer is based on"`
	Response string `json:"response" doc:"Natural language answer"`
}

type ChatOutput struct {
	Body ChatResponse
}

type chatter interface {
	Chat(ctx context.Context, userID uuid.UUID, message string) (*service.ChatReply, error)
}

// Handler handles POST /v1/chat.
type Handler struct {
	ChatService chatter
}

func NewHandler(svc chatter) *Handler {
	return &Handler{ChatService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "chat",
		Method:      http.MethodPost,
		Path:        "/v1/chat",
		Summary:     "Ask a question",
		Description: "Classifies the message, runs the matching analysis and answers in plain language.",
		Tags:        []string{"Chat"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, input *ChatInput) (*ChatOutput, error) {
	userID, err := uuid.FromString(input.Body.UserID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid userID", err)
	}

	logData := logging.GetLogData(ctx)
	if logData != nil {
		logData.AddData("userID", userID.String())
		defer logData.AddTiming("chatMs")()
	}

	reply, err := h.ChatService.Chat(ctx, userID, input.Body.Message)
	if err != nil {
		if errors.Is(err, service.ErrAssistantUnavailable) {
			return nil, huma.NewError(http.StatusServiceUnavailable, "chat is not available", err)
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to answer message", err)
	}

	if logData != nil {
		logData.AddData("intent", reply.Intent)
	}
	return &ChatOutput{Body: ChatResponse{
		Intent:   reply.Intent,
		Data:     reply.Data,
		Response: reply.Response,
	}}, nil
}
