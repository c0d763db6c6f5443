package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-insights/internal/analysis"
	"github.com/carson-networks/finance-insights/internal/chat"
)

const intentNotRecognized = "Intent not recognized"

var ErrAssistantUnavailable = errors.New("chat assistant is not configured")

// Assistant classifies chat messages and renders results as prose.
type Assistant interface {
	Classify(ctx context.Context, message string, fc chat.FinancialContext) (*chat.Intent, error)
	Render(ctx context.Context, data any, query string) (string, error)
}

// ChatReply is the routed answer to one chat message.
type ChatReply struct {
	Intent   string
	Data     any
	Response string
}

// MessageData is the data payload when no analysis result is available.
type MessageData struct {
	Message string `json:"message"`
}

// ChatService answers free-text questions by routing the classified intent to an analysis.
type ChatService struct {
	analysis  *AnalysisService
	assistant Assistant
}

// NewChatService creates a ChatService. A nil assistant makes Chat return ErrAssistantUnavailable.
func NewChatService(analysisService *AnalysisService, a Assistant) *ChatService {
	return &ChatService{analysis: analysisService, assistant: a}
}

func (s *ChatService) Chat(ctx context.Context, userID uuid.UUID, message string) (*ChatReply, error) {
	if s.assistant == nil {
		return nil, ErrAssistantUnavailable
	}

	fc, err := s.analysis.UserContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	intent, err := s.assistant.Classify(ctx, message, fc)
	if err != nil {
		return nil, err
	}

	data, err := s.route(ctx, userID, intent)
	if err != nil {
		return nil, err
	}

	response, err := s.assistant.Render(ctx, data, message)
	if err != nil {
		return nil, err
	}

	return &ChatReply{Intent: intent.Name, Data: data, Response: response}, nil
}

func (s *ChatService) route(ctx context.Context, userID uuid.UUID, intent *chat.Intent) (any, error) {
	var (
		data any
		err  error
	)

	switch intent.Name {
	case chat.IntentForecast:
		data, err = s.analysis.ForecastExpenses(ctx, userID, intent.Days(0), intent.CategoryName())
	case chat.IntentAnomalyCheck:
		data, err = s.analysis.DetectAnomalies(ctx, userID)
	case chat.IntentSpendingSummary:
		data, err = s.analysis.SpendingSummary(ctx, userID)
	default:
		return MessageData{Message: intentNotRecognized}, nil
	}

	var insufficient *analysis.InsufficientDataError
	if errors.As(err, &insufficient) {
		return MessageData{Message: err.Error()}, nil
	}
	return data, err
}
