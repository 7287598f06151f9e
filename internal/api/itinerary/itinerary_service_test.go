package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/roamly-ai/roamly/internal/types"
)

// --- Mocks for Dependencies ---

type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Chat(ctx context.Context, prompt, systemMessage string, history []string) (string, error) {
	args := m.Called(ctx, prompt, systemMessage, history)
	return args.String(0), args.Error(1)
}

type StubRetriever struct {
	context string
}

func (s *StubRetriever) RetrieveContext(ctx context.Context, query string, k int) string {
	return s.context
}

func newTestService(llmClient *MockLLMClient) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(llmClient, &StubRetriever{context: "Goa has beautiful beaches."}, 4, logger)
}

func itineraryRequest() types.ItineraryRequest {
	return types.ItineraryRequest{
		SessionID:   "s1",
		Destination: "Goa",
		Days:        3,
		Budget:      10000,
		Interests:   []string{"beaches", "food"},
	}
}

func TestGenerateItinerary_BalancedTablePassesThrough(t *testing.T) {
	llmClient := new(MockLLMClient)
	svc := newTestService(llmClient)

	llmClient.On("Chat", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Goa") && strings.Contains(prompt, "beautiful beaches")
	}), mock.Anything, mock.Anything).Return(balancedItinerary, nil).Once()

	text := svc.GenerateItinerary(context.Background(), itineraryRequest())
	assert.Equal(t, balancedItinerary, text)
	llmClient.AssertExpectations(t)
}

func TestGenerateItinerary_UnbalancedTableTriggersReprompt(t *testing.T) {
	llmClient := new(MockLLMClient)
	svc := newTestService(llmClient)

	llmClient.On("Chat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(unbalancedItinerary, nil).Once()
	llmClient.On("Chat", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "instead of the required")
	}), mock.Anything, mock.Anything).Return(balancedItinerary, nil).Once()

	text := svc.GenerateItinerary(context.Background(), itineraryRequest())
	assert.Equal(t, balancedItinerary, text)
	llmClient.AssertExpectations(t)
}

func TestGenerateItinerary_RepromptStillUnbalancedRescalesLocally(t *testing.T) {
	llmClient := new(MockLLMClient)
	svc := newTestService(llmClient)

	llmClient.On("Chat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(unbalancedItinerary, nil).Twice()

	text := svc.GenerateItinerary(context.Background(), itineraryRequest())

	table, ok := parseBudgetTable(text)
	assert.True(t, ok)
	assert.True(t, table.balanced(10000))
	llmClient.AssertExpectations(t)
}

func TestGenerateItinerary_LLMFailureDegradesToFallback(t *testing.T) {
	llmClient := new(MockLLMClient)
	svc := newTestService(llmClient)

	llmClient.On("Chat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("upstream timeout")).Once()

	text := svc.GenerateItinerary(context.Background(), itineraryRequest())
	assert.Equal(t, fallbackItinerary, text)
}

func TestGenerateItinerary_NoTableReturnedAsIs(t *testing.T) {
	llmClient := new(MockLLMClient)
	svc := newTestService(llmClient)

	prose := "## Day 1\nRelax on the beach all day."
	llmClient.On("Chat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(prose, nil).Once()

	text := svc.GenerateItinerary(context.Background(), itineraryRequest())
	assert.Equal(t, prose, text)
}
